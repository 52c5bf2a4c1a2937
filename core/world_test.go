package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/railnet-simulator/model"
)

func TestAddTrainValidation(t *testing.T) {
	w := newTestWorld(t, map[string]float64{"0": 100})

	cases := []struct {
		name  string
		train *model.Train
		want  error
	}{
		{"unknown track", &model.Train{ID: "T1", TrackID: "9", Priority: 1}, ErrUnknownTrack},
		{"position past end", &model.Train{ID: "T1", TrackID: "0", Position: 100, Priority: 1}, ErrBadInput},
		{"negative position", &model.Train{ID: "T1", TrackID: "0", Position: -1, Priority: 1}, ErrBadInput},
		{"negative speed", &model.Train{ID: "T1", TrackID: "0", Speed: -5, Priority: 1}, ErrBadInput},
		{"zero priority", &model.Train{ID: "T1", TrackID: "0"}, ErrBadInput},
		{"empty ID", &model.Train{TrackID: "0", Priority: 1}, ErrBadInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := w.AddTrain(tc.train); !errors.Is(err, tc.want) {
				t.Fatalf("AddTrain() error = %v, want %v", err, tc.want)
			}
		})
	}

	ok := &model.Train{ID: "T1", TrackID: "0", Position: 10, Priority: 1, Status: model.StatusOnTime}
	if err := w.AddTrain(ok); err != nil {
		t.Fatalf("AddTrain(valid) error = %v", err)
	}
	if err := w.AddTrain(ok); !errors.Is(err, ErrTrainExists) {
		t.Fatalf("duplicate AddTrain() error = %v, want %v", err, ErrTrainExists)
	}
}

func TestAddJunctionValidation(t *testing.T) {
	w := newTestWorld(t, map[string]float64{"0": 100, "1": 100})
	addSignal(t, w, &model.Signal{ID: "S1", TrackID: "0", Position: 40})

	if err := w.AddJunction(&model.Junction{
		ID: "J1", TrackIDs: []string{"0", "9"}, Position: 50,
	}); !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("unknown track error = %v, want %v", err, ErrUnknownTrack)
	}

	if err := w.AddJunction(&model.Junction{
		ID: "J1", TrackIDs: []string{"0", "1"}, Position: 50, GateSignalIDs: []string{"S9"},
	}); !errors.Is(err, ErrUnknownSignal) {
		t.Fatalf("unknown gate signal error = %v, want %v", err, ErrUnknownSignal)
	}

	if err := w.AddJunction(&model.Junction{
		ID: "J1", TrackIDs: []string{"0"}, Position: 50,
	}); !errors.Is(err, ErrBadInput) {
		t.Fatalf("single-track junction error = %v, want %v", err, ErrBadInput)
	}

	if err := w.AddJunction(&model.Junction{
		ID: "J1", TrackIDs: []string{"0", "1"}, Position: 50, GateSignalIDs: []string{"S1"},
	}); err != nil {
		t.Fatalf("AddJunction(valid) error = %v", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	w := newTestWorld(t, map[string]float64{"0": 100})
	addTrain(t, w, &model.Train{ID: "T1", TrackID: "0", Position: 10, Speed: 50})
	addSignal(t, w, &model.Signal{ID: "S1", TrackID: "0", Position: 25, State: model.SignalGreen})

	snap := w.Snapshot(time.Time{})
	snap.Trains[0].Position = 999
	sig := snap.Signals["S1"]
	sig.State = model.SignalRed
	snap.Signals["S1"] = sig

	fresh := w.Snapshot(time.Time{})
	if fresh.Trains[0].Position != 10 {
		t.Fatalf("world train mutated through snapshot: Position = %v", fresh.Trains[0].Position)
	}
	if fresh.Signals["S1"].State != model.SignalGreen {
		t.Fatalf("world signal mutated through snapshot")
	}
}

func TestSnapshotTrainsSortedByID(t *testing.T) {
	w := newTestWorld(t, map[string]float64{"0": 100})
	addTrain(t, w, &model.Train{ID: "T9", TrackID: "0", Position: 1})
	addTrain(t, w, &model.Train{ID: "T1", TrackID: "0", Position: 2})
	addTrain(t, w, &model.Train{ID: "T5", TrackID: "0", Position: 3})

	snap := w.Snapshot(time.Time{})
	var ids []string
	for _, train := range snap.Trains {
		ids = append(ids, train.ID)
	}
	if diff := cmp.Diff([]string{"T1", "T5", "T9"}, ids); diff != "" {
		t.Fatalf("train order mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotSinceFiltersLogsOnly(t *testing.T) {
	w := newTestWorld(t, map[string]float64{"0": 100})
	addTrain(t, w, &model.Train{ID: "T1", TrackID: "0", Position: 10})
	addSignal(t, w, &model.Signal{ID: "S1", TrackID: "0", Position: 25})

	newest := tickStart.Add(time.Minute)
	w.RecordLog(tickStart, model.SeverityInfo, "older")
	w.RecordLog(newest, model.SeverityInfo, "newest")

	snap := w.Snapshot(newest)
	if len(snap.Logs) != 0 {
		t.Fatalf("Logs = %d entries, want 0 when since equals newest timestamp", len(snap.Logs))
	}
	if len(snap.Trains) != 1 || len(snap.Signals) != 1 {
		t.Fatalf("snapshot missing entity state: %d trains, %d signals", len(snap.Trains), len(snap.Signals))
	}
}

func TestSnapshotConcurrentWithTicks(t *testing.T) {
	w := newTestWorld(t, map[string]float64{"0": 100, "1": 100})
	addTrain(t, w, &model.Train{ID: "T1", TrackID: "0", Position: 10, Speed: 3600})
	addTrain(t, w, &model.Train{ID: "T2", TrackID: "1", Position: 20, Speed: 3600})
	addSignal(t, w, &model.Signal{ID: "S1", TrackID: "0", Position: 25})
	addSignal(t, w, &model.Signal{ID: "S2", TrackID: "1", Position: 25})

	engine := NewEngine(w)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		now := tickStart
		for i := 0; i < 200; i++ {
			now = now.Add(time.Second)
			engine.Tick(now)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap := w.Snapshot(time.Time{})
			if len(snap.Trains) != 2 || len(snap.Signals) != 2 {
				t.Errorf("inconsistent snapshot: %d trains, %d signals", len(snap.Trains), len(snap.Signals))
				return
			}
		}
	}()
	wg.Wait()
}
