package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/signalsfoundry/railnet-simulator/model"
	"github.com/signalsfoundry/railnet-simulator/tracks"
)

var (
	ErrTrainExists    = errors.New("train already exists")
	ErrSignalExists   = errors.New("signal already exists")
	ErrJunctionExists = errors.New("junction already exists")
	ErrUnknownTrack   = errors.New("reference to unknown track")
	ErrUnknownSignal  = errors.New("reference to unknown signal")
	ErrBadInput       = errors.New("invalid entity")
)

// World owns all mutable simulation state: trains, signals, junctions,
// the decision log, and KPI figures. The engine is its sole writer.
// External callers only ever see copies taken via Snapshot.
type World struct {
	mu sync.RWMutex

	registry  *tracks.Registry
	trains    map[string]*model.Train
	signals   map[string]*model.Signal
	junctions map[string]*model.Junction
	log       *DecisionLog
	kpis      model.KPISnapshot
}

// NewWorld creates an empty world over the given track registry.
func NewWorld(registry *tracks.Registry) *World {
	return &World{
		registry:  registry,
		trains:    make(map[string]*model.Train),
		signals:   make(map[string]*model.Signal),
		junctions: make(map[string]*model.Junction),
		log:       NewDecisionLog(DefaultLogCapacity),
	}
}

// Registry exposes the immutable track table.
func (w *World) Registry() *tracks.Registry {
	return w.registry
}

// AddTrain validates and inserts a train. The track reference must exist
// and the position must lie within the track.
func (w *World) AddTrain(t *model.Train) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("%w: nil or empty train", ErrBadInput)
	}
	length, ok := w.registry.Length(t.TrackID)
	if !ok {
		return fmt.Errorf("%w: train %q on track %q", ErrUnknownTrack, t.ID, t.TrackID)
	}
	if t.Position < 0 || t.Position >= length {
		return fmt.Errorf("%w: train %q position %v outside track %q", ErrBadInput, t.ID, t.Position, t.TrackID)
	}
	if t.Speed < 0 {
		return fmt.Errorf("%w: train %q has negative speed", ErrBadInput, t.ID)
	}
	if t.Priority < 1 {
		return fmt.Errorf("%w: train %q priority must be positive", ErrBadInput, t.ID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.trains[t.ID]; exists {
		return fmt.Errorf("%w: %q", ErrTrainExists, t.ID)
	}
	w.trains[t.ID] = t
	return nil
}

// AddSignal validates and inserts a signal.
func (w *World) AddSignal(s *model.Signal) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: nil or empty signal", ErrBadInput)
	}
	length, ok := w.registry.Length(s.TrackID)
	if !ok {
		return fmt.Errorf("%w: signal %q on track %q", ErrUnknownTrack, s.ID, s.TrackID)
	}
	if s.Position < 0 || s.Position > length {
		return fmt.Errorf("%w: signal %q position %v outside track %q", ErrBadInput, s.ID, s.Position, s.TrackID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.signals[s.ID]; exists {
		return fmt.Errorf("%w: %q", ErrSignalExists, s.ID)
	}
	w.signals[s.ID] = s
	return nil
}

// AddJunction validates and inserts a junction. Every spanned track and
// every gate signal must already be known.
func (w *World) AddJunction(j *model.Junction) error {
	if j == nil || j.ID == "" {
		return fmt.Errorf("%w: nil or empty junction", ErrBadInput)
	}
	if len(j.TrackIDs) < 2 {
		return fmt.Errorf("%w: junction %q must span at least two tracks", ErrBadInput, j.ID)
	}
	for _, trackID := range j.TrackIDs {
		if !w.registry.Has(trackID) {
			return fmt.Errorf("%w: junction %q on track %q", ErrUnknownTrack, j.ID, trackID)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, sigID := range j.GateSignalIDs {
		if _, ok := w.signals[sigID]; !ok {
			return fmt.Errorf("%w: junction %q gated by %q", ErrUnknownSignal, j.ID, sigID)
		}
	}
	if _, exists := w.junctions[j.ID]; exists {
		return fmt.Errorf("%w: %q", ErrJunctionExists, j.ID)
	}
	w.junctions[j.ID] = j
	return nil
}

// SetKPIs replaces the static KPI figures.
func (w *World) SetKPIs(k model.KPISnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.kpis = k
}

// RecordLog appends a decision log entry from outside a tick (startup,
// operator actions).
func (w *World) RecordLog(now time.Time, level model.Severity, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.log.Record(now, level, message)
}

// Snapshot is a consistent, caller-owned copy of world state. Trains are
// sorted by ID; signals are keyed by ID; logs are newest first.
type Snapshot struct {
	Trains  []model.Train
	Signals map[string]model.Signal
	Logs    []model.LogEntry
	KPIs    model.KPISnapshot
}

// Snapshot copies out trains, signals, log entries newer than since, and
// the KPI figures. It observes world state atomically with respect to
// the engine's tick.
func (w *World) Snapshot(since time.Time) Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := Snapshot{
		Trains:  make([]model.Train, 0, len(w.trains)),
		Signals: make(map[string]model.Signal, len(w.signals)),
		Logs:    w.log.Since(since),
		KPIs:    w.kpis,
	}
	for _, id := range w.trainIDs() {
		snap.Trains = append(snap.Trains, *w.trains[id])
	}
	for id, sig := range w.signals {
		snap.Signals[id] = *sig
	}
	return snap
}

// trainIDs returns train IDs in ascending order. Caller must hold w.mu.
func (w *World) trainIDs() []string {
	ids := make([]string, 0, len(w.trains))
	for id := range w.trains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// signalIDs returns signal IDs in ascending order. Caller must hold w.mu.
func (w *World) signalIDs() []string {
	ids := make([]string, 0, len(w.signals))
	for id := range w.signals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// junctionIDs returns junction IDs in ascending order. Caller must hold w.mu.
func (w *World) junctionIDs() []string {
	ids := make([]string, 0, len(w.junctions))
	for id := range w.junctions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
