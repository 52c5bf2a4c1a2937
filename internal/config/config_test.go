package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.MetricsAddr != ":9090" {
		t.Fatalf("Server.MetricsAddr = %q, want :9090", cfg.Server.MetricsAddr)
	}
	if cfg.Server.StaticDir != "frontend" {
		t.Fatalf("Server.StaticDir = %q, want frontend", cfg.Server.StaticDir)
	}
	if cfg.Sim.Tick != time.Second {
		t.Fatalf("Sim.Tick = %v, want 1s", cfg.Sim.Tick)
	}
	if cfg.Sim.LayoutPath != "configs/layout.json" {
		t.Fatalf("Sim.LayoutPath = %q", cfg.Sim.LayoutPath)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("Log = %+v, want info/text", cfg.Log)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RAILNET_SERVER_ADDR", ":7070")
	t.Setenv("RAILNET_SIM_TICK", "250ms")
	t.Setenv("RAILNET_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Sim.Tick != 250*time.Millisecond {
		t.Fatalf("Sim.Tick = %v, want 250ms", cfg.Sim.Tick)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "railnet.toml")
	data := "[server]\naddr = \":6060\"\n\n[sim]\ntick = \"500ms\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RAILNET_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":6060" {
		t.Fatalf("Server.Addr = %q, want :6060", cfg.Server.Addr)
	}
	if cfg.Sim.Tick != 500*time.Millisecond {
		t.Fatalf("Sim.Tick = %v, want 500ms", cfg.Sim.Tick)
	}
	// Unset keys keep their defaults.
	if cfg.Server.MetricsAddr != ":9090" {
		t.Fatalf("Server.MetricsAddr = %q, want :9090", cfg.Server.MetricsAddr)
	}
}

func TestLoadMissingExplicitConfigFails(t *testing.T) {
	t.Setenv("RAILNET_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	if _, err := Load(); err == nil {
		t.Fatalf("Load() error = nil, want error for missing explicit config file")
	}
}

func TestLoadRejectsNonPositiveTick(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RAILNET_SIM_TICK", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() error = nil, want error for zero tick")
	}
}
