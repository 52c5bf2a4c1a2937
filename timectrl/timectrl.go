package timectrl

import (
	"context"
	"sync"
	"time"
)

// SimClock is an interface for reading simulation time, so components
// can depend on a clock abstraction rather than the concrete controller.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime advances according to wall-clock time: one tick per
	// tick-interval of real time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// stepping simulation time by Tick.
	Accelerated
)

// TimeController drives the simulation cadence and notifies registered
// listeners once per tick. Listeners run on the controller's goroutine,
// so no two ticks ever overlap: a slow tick delays the next one.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime overrides the current simulation time. Intended for tests.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick. Must be called
// before Run.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Run advances simulation time until the context is cancelled or, when
// duration is positive, until that much simulation time has elapsed.
// It blocks for the lifetime of the loop so shutdown is deterministic:
// once Run returns, no further ticks fire.
func (tc *TimeController) Run(ctx context.Context, duration time.Duration) {
	tc.mu.Lock()
	simTime := tc.StartTime
	tc.currentTime = simTime
	tc.mu.Unlock()

	elapsed := time.Duration(0)

	var ticker *time.Ticker
	if tc.Mode == RealTime {
		ticker = time.NewTicker(tc.Tick)
		defer ticker.Stop()
	}

	for {
		if duration > 0 && elapsed >= duration {
			return
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		simTime = simTime.Add(tc.Tick)
		elapsed += tc.Tick

		tc.mu.Lock()
		tc.currentTime = simTime
		tc.mu.Unlock()

		for _, fn := range tc.listeners {
			fn(simTime)
		}
	}
}

// Start runs the controller in a separate goroutine for the specified
// duration. It returns a channel that is closed when the loop finishes.
func (tc *TimeController) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		tc.Run(ctx, duration)
	}()
	return done
}
