package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/signalsfoundry/railnet-simulator/core"
	"github.com/signalsfoundry/railnet-simulator/internal/api"
	"github.com/signalsfoundry/railnet-simulator/internal/config"
	"github.com/signalsfoundry/railnet-simulator/internal/logging"
	"github.com/signalsfoundry/railnet-simulator/internal/observability"
	"github.com/signalsfoundry/railnet-simulator/timectrl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.Config{}).Error(context.Background(), "failed to load config", logging.String("error", err.Error()))
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}

	collector, err := observability.NewCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	world, summary, err := loadWorld(cfg.Sim.LayoutPath)
	if err != nil {
		// Configuration errors abort startup; they must never surface
		// mid-tick instead.
		log.Error(ctx, "failed to load layout",
			logging.String("path", cfg.Sim.LayoutPath),
			logging.String("error", err.Error()),
		)
		os.Exit(1)
	}
	log.Info(ctx, "loaded layout",
		logging.String("path", cfg.Sim.LayoutPath),
		logging.Int("tracks", len(summary.TrackIDs)),
		logging.Int("trains", len(summary.TrainIDs)),
		logging.Int("signals", len(summary.SignalIDs)),
		logging.Int("junctions", len(summary.JunctionIDs)),
	)

	engine := core.NewEngine(world, core.WithTickRecorder(collector))
	apiSrv := api.NewServer(world, log, collector, cfg.Server.StaticDir)

	tc := timectrl.NewTimeController(time.Now(), cfg.Sim.Tick, timectrl.RealTime)
	tc.AddListener(func(simTime time.Time) {
		engine.Tick(simTime)
		apiSrv.PublishSnapshot()
	})

	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := tc.Start(loopCtx, 0)
	log.Info(ctx, "simulation engine running", logging.String("tick", cfg.Sim.Tick.String()))

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: otelhttp.NewHandler(apiSrv.Routes(), "railnet-api"),
	}
	go func() {
		log.Info(ctx, "serving API", logging.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "API server exited", logging.String("error", err.Error()))
		}
	}()

	metricsSrv := serveMetrics(cfg.Server.MetricsAddr, collector, log)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down")
	stopLoop()
	<-loopDone
	apiSrv.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)
}

func loadWorld(path string) (*core.World, *core.LayoutSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return core.LoadLayout(f, time.Now())
}

func serveMetrics(addr string, collector *observability.Collector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
