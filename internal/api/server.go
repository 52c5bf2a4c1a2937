// Package api is the thin HTTP boundary over the simulator: snapshot
// reads, what-if scenario evaluation, a server-sent-events snapshot
// stream, and static frontend serving. It never mutates world state.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/r3labs/sse/v2"

	"github.com/signalsfoundry/railnet-simulator/core"
	"github.com/signalsfoundry/railnet-simulator/internal/logging"
	"github.com/signalsfoundry/railnet-simulator/internal/observability"
)

const snapshotStream = "snapshot"

// Server serves the read-only API over a World.
type Server struct {
	world     *core.World
	log       logging.Logger
	metrics   *observability.Collector
	stream    *sse.Server
	staticDir string
}

// NewServer builds an API server. The collector may be nil; the static
// dir is only mounted when it exists.
func NewServer(world *core.World, log logging.Logger, metrics *observability.Collector, staticDir string) *Server {
	if log == nil {
		log = logging.Noop()
	}
	stream := sse.New()
	stream.AutoReplay = false
	stream.CreateStream(snapshotStream)

	return &Server{
		world:     world,
		log:       log,
		metrics:   metrics,
		stream:    stream,
		staticDir: staticDir,
	}
}

// Routes assembles the HTTP mux with metrics and request-ID middleware
// applied per handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/state", s.instrument("state", http.HandlerFunc(s.handleState)))
	mux.Handle("POST /api/simulate", s.instrument("simulate", http.HandlerFunc(s.handleSimulate)))
	mux.Handle("GET /api/events", s.instrument("events", s.stream))

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
		}
	}

	return mux
}

// PublishSnapshot pushes the current full snapshot to SSE subscribers.
// Dropped when no subscriber is keeping up; the stream is advisory.
func (s *Server) PublishSnapshot() {
	snap := s.world.Snapshot(time.Time{})
	data, err := json.Marshal(stateResponseFromSnapshot(snap))
	if err != nil {
		s.log.Warn(context.Background(), "marshal snapshot for stream", logging.String("error", err.Error()))
		return
	}
	s.stream.TryPublish(snapshotStream, &sse.Event{Data: data})
}

// Close tears down the SSE streams.
func (s *Server) Close() {
	s.stream.Close()
}

func (s *Server) instrument(name string, next http.Handler) http.Handler {
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqLog := logging.WithRequestLogger(r.Context(), s.log)
		reqLog.Debug(ctx, "handling request",
			logging.String("handler", name),
			logging.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
	if s.metrics != nil {
		return s.metrics.Middleware(name, wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
