package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	Sim    SimConfig
	Log    LogConfig
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Addr        string
	MetricsAddr string `mapstructure:"metrics_addr"`
	StaticDir   string `mapstructure:"static_dir"`
}

// SimConfig holds simulation settings.
type SimConfig struct {
	Tick       time.Duration
	LayoutPath string `mapstructure:"layout_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from file and env. Env var overrides use
// prefix RAILNET_, e.g. RAILNET_SERVER_ADDR.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", ":9090")
	v.SetDefault("server.static_dir", "frontend")
	v.SetDefault("sim.tick", "1s")
	v.SetDefault("sim.layout_path", "configs/layout.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RAILNET_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("railnet")
	}

	v.SetEnvPrefix("RAILNET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// An explicitly named config file must load; the implicit one is
	// optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Sim.Tick <= 0 {
		return Config{}, fmt.Errorf("sim.tick must be positive, got %v", c.Sim.Tick)
	}
	return c, nil
}
