package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/signalsfoundry/railnet-simulator/model"
)

// Tuning constants for the signalling model, in track position units.
const (
	// LookaheadDistance is how far ahead of a train a non-green signal
	// must be before the train holds.
	LookaheadDistance = 5.0

	// BlockLength is the occupancy window past a signal: a train inside
	// [signal, signal+BlockLength) keeps the signal at red.
	BlockLength = 20.0

	// JunctionRadius bounds which trains and signals take part in
	// junction arbitration.
	JunctionRadius = 25.0
)

// TickRecorder receives per-tick measurements. Implemented by the
// observability collector; a nil recorder disables recording.
type TickRecorder interface {
	ObserveTick(d time.Duration)
	SetWorldCounts(trains, signals, junctions int)
	AddJunctionConflict()
	AddTrainLap()
}

// EngineOption customises Engine construction.
type EngineOption func(*Engine)

// WithTickRecorder attaches a metrics recorder to the engine.
func WithTickRecorder(r TickRecorder) EngineOption {
	return func(e *Engine) {
		e.metrics = r
	}
}

// Engine advances the world one tick at a time. It is the only writer
// of world state; a tick holds the world lock end-to-end so readers
// never observe a partially applied update.
type Engine struct {
	world   *World
	metrics TickRecorder
}

// NewEngine creates an engine over the given world.
func NewEngine(world *World, opts ...EngineOption) *Engine {
	e := &Engine{world: world}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick runs one full simulation cycle at the given instant: train
// advancement, signal recomputation from occupancy, then junction
// arbitration. It never fails; anomalies land in the decision log.
func (e *Engine) Tick(now time.Time) {
	started := time.Now()

	e.world.mu.Lock()
	e.advanceTrains(now)
	e.recomputeSignals(now)
	e.resolveJunctions(now)
	trains, signals, junctions := len(e.world.trains), len(e.world.signals), len(e.world.junctions)
	e.world.mu.Unlock()

	if e.metrics != nil {
		e.metrics.ObserveTick(time.Since(started))
		e.metrics.SetWorldCounts(trains, signals, junctions)
	}
}

// advanceTrains moves every clear train by speed × elapsed hours and
// holds blocked ones in place. A train reaching the end of its track
// wraps to position 0 and logs a completed lap.
func (e *Engine) advanceTrains(now time.Time) {
	w := e.world
	for _, id := range w.trainIDs() {
		train := w.trains[id]
		elapsed := now.Sub(train.LastUpdate)

		if sig := e.blockingSignal(train); sig != nil {
			train.Status = fmt.Sprintf("Waiting at signal %s", sig.ID)
		} else {
			train.Position += train.Speed * elapsed.Hours()
			train.Status = model.StatusOnTime
		}
		train.LastUpdate = now

		length, ok := w.registry.Length(train.TrackID)
		if !ok {
			// Track references are validated at startup; this cannot
			// happen in a well-formed world.
			continue
		}
		if train.Position >= length {
			w.log.Record(now, model.SeverityInfo,
				fmt.Sprintf("Train %s has completed a lap of track %s.", train.ID, train.TrackID))
			train.Position = 0
			if e.metrics != nil {
				e.metrics.AddTrainLap()
			}
		}
	}
}

// blockingSignal returns the nearest signal strictly ahead of the train
// on its track if that signal is within LookaheadDistance and not green.
// Caller must hold the world lock.
func (e *Engine) blockingSignal(train *model.Train) *model.Signal {
	var nearest *model.Signal
	for _, id := range e.world.signalIDs() {
		sig := e.world.signals[id]
		if sig.TrackID != train.TrackID || sig.Position <= train.Position {
			continue
		}
		if nearest == nil || sig.Position < nearest.Position {
			nearest = sig
		}
	}
	if nearest == nil {
		return nil
	}
	if nearest.Position-train.Position < LookaheadDistance && nearest.State != model.SignalGreen {
		return nearest
	}
	return nil
}

// recomputeSignals derives every signal's aspect purely from occupancy:
// red while any train sits in the signal's block, green otherwise.
func (e *Engine) recomputeSignals(now time.Time) {
	w := e.world
	trainIDs := w.trainIDs()

	for _, id := range w.signalIDs() {
		sig := w.signals[id]
		sig.State = model.SignalRed

		occupied := false
		for _, tid := range trainIDs {
			train := w.trains[tid]
			if train.TrackID != sig.TrackID {
				continue
			}
			if train.Position >= sig.Position && train.Position < sig.Position+BlockLength {
				occupied = true
				w.log.Record(now, model.SeverityAction,
					fmt.Sprintf("Path not clear for signal %s. Train %s in block.", sig.ID, train.ID))
				break
			}
		}
		if !occupied {
			sig.State = model.SignalGreen
		}
	}
}

// resolveJunctions arbitrates contention at every junction. Two or more
// trains within JunctionRadius on a junction's tracks form a conflict:
// the lowest priority value wins, ties broken by ascending train ID.
// Nearby signals on contending tracks are forced green for the winner's
// track and red for everyone else, overriding occupancy-derived aspects.
func (e *Engine) resolveJunctions(now time.Time) {
	w := e.world
	for _, jid := range w.junctionIDs() {
		junction := w.junctions[jid]

		contenders := e.contendingTrains(junction)
		if len(contenders) < 2 {
			continue
		}

		winner := contenders[0]
		w.log.Record(now, model.SeverityWarning,
			fmt.Sprintf("Conflict near junction %s. Prioritizing %s.", junction.ID, winner.ID))
		if e.metrics != nil {
			e.metrics.AddJunctionConflict()
		}

		forced := make(map[string]bool)
		for _, train := range contenders {
			for _, sid := range w.signalIDs() {
				sig := w.signals[sid]
				if sig.TrackID != train.TrackID || forced[sid] {
					continue
				}
				if math.Abs(sig.Position-junction.Position) >= JunctionRadius {
					continue
				}
				forced[sid] = true
				if sig.TrackID == winner.TrackID {
					sig.State = model.SignalGreen
				} else {
					sig.State = model.SignalRed
					w.log.Record(now, model.SeverityAction,
						fmt.Sprintf("Setting signal %s to RED for train %s.", sig.ID, train.ID))
				}
			}
		}
	}
}

// contendingTrains returns the trains within JunctionRadius of the
// junction on any of its tracks, ordered by (priority, ID) so the
// arbitration winner is always contenders[0]. Caller must hold the
// world lock.
func (e *Engine) contendingTrains(junction *model.Junction) []*model.Train {
	spanned := make(map[string]bool, len(junction.TrackIDs))
	for _, trackID := range junction.TrackIDs {
		spanned[trackID] = true
	}

	var out []*model.Train
	for _, id := range e.world.trainIDs() {
		train := e.world.trains[id]
		if !spanned[train.TrackID] {
			continue
		}
		if math.Abs(train.Position-junction.Position) < JunctionRadius {
			out = append(out, train)
		}
	}

	// out is already in ID order, so a stable sort on priority keeps the
	// ID tie-break deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
