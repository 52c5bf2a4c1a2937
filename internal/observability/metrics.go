package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles Prometheus metrics for the simulator: tick loop
// timings, world entity gauges, and the HTTP API surface.
type Collector struct {
	gatherer prometheus.Gatherer

	TicksTotal   prometheus.Counter
	TickDuration prometheus.Histogram

	WorldTrains    prometheus.Gauge
	WorldSignals   prometheus.Gauge
	WorldJunctions prometheus.Gauge

	JunctionConflicts prometheus.Counter
	TrainLaps         prometheus.Counter

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// NewCollector registers simulator metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_total",
		Help: "Total number of completed simulation ticks.",
	}), "sim_ticks_total")
	if err != nil {
		return nil, err
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall-clock duration of one simulation tick.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	tickDuration, err = registerHistogram(reg, tickDuration, "sim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	trains, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_trains",
		Help: "Current number of trains in the world.",
	}), "sim_trains")
	if err != nil {
		return nil, err
	}
	signals, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_signals",
		Help: "Current number of signals in the world.",
	}), "sim_signals")
	if err != nil {
		return nil, err
	}
	junctions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_junctions",
		Help: "Current number of junctions in the world.",
	}), "sim_junctions")
	if err != nil {
		return nil, err
	}

	conflicts, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_junction_conflicts_total",
		Help: "Total number of junction conflicts arbitrated.",
	}), "sim_junction_conflicts_total")
	if err != nil {
		return nil, err
	}
	laps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_train_laps_total",
		Help: "Total number of completed train laps.",
	}), "sim_train_laps_total")
	if err != nil {
		return nil, err
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of handled API requests, labeled by handler and status code.",
	}, []string{"handler", "code"})
	requests, err = registerCounterVec(reg, requests, "api_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"handler"})
	durations, err = registerHistogramVec(reg, durations, "api_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:          gatherer,
		TicksTotal:        ticks,
		TickDuration:      tickDuration,
		WorldTrains:       trains,
		WorldSignals:      signals,
		WorldJunctions:    junctions,
		JunctionConflicts: conflicts,
		TrainLaps:         laps,
		HTTPRequests:      requests,
		HTTPDurations:     durations,
	}, nil
}

// ObserveTick records one completed tick and its duration. Satisfies the
// engine's TickRecorder interface.
func (c *Collector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()
	c.TickDuration.Observe(d.Seconds())
}

// SetWorldCounts updates the entity gauges.
func (c *Collector) SetWorldCounts(trains, signals, junctions int) {
	if c == nil {
		return
	}
	c.WorldTrains.Set(float64(trains))
	c.WorldSignals.Set(float64(signals))
	c.WorldJunctions.Set(float64(junctions))
}

// AddJunctionConflict counts one arbitrated junction conflict.
func (c *Collector) AddJunctionConflict() {
	if c == nil {
		return
	}
	c.JunctionConflicts.Inc()
}

// AddTrainLap counts one completed lap.
func (c *Collector) AddTrainLap() {
	if c == nil {
		return
	}
	c.TrainLaps.Inc()
}

// Middleware wraps an HTTP handler, recording request counts and
// latencies under the given handler label.
func (c *Collector) Middleware(handler string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		c.HTTPRequests.WithLabelValues(handler, fmt.Sprintf("%d", rec.code)).Inc()
		c.HTTPDurations.WithLabelValues(handler).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status code for labeling.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
