package core

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/railnet-simulator/model"
	"github.com/signalsfoundry/railnet-simulator/tracks"
)

// LayoutSummary is a small summary of what was loaded from JSON. It's
// mainly useful for logging from main().
type LayoutSummary struct {
	TrackIDs    []string
	TrainIDs    []string
	SignalIDs   []string
	JunctionIDs []string
}

// JSON shapes for the layout file, unexported so they can evolve.
type layoutJSON struct {
	Tracks    []trackJSON    `json:"tracks"`
	Trains    []trainJSON    `json:"trains"`
	Signals   []signalJSON   `json:"signals"`
	Junctions []junctionJSON `json:"junctions"`
	KPIs      *kpiJSON       `json:"kpis"`
}

type trackJSON struct {
	ID     string  `json:"id"`
	Length float64 `json:"length"`
}

type trainJSON struct {
	ID       string  `json:"id"`
	Track    string  `json:"track"`
	Position float64 `json:"position"`
	Speed    float64 `json:"speed"`
	Priority int     `json:"priority"`
	Status   string  `json:"status"` // optional; defaults to "On Time"
}

type signalJSON struct {
	ID       string  `json:"id"`
	Track    string  `json:"track"`
	Position float64 `json:"position"`
}

type junctionJSON struct {
	ID       string   `json:"id"`
	Tracks   []string `json:"tracks"`
	Position float64  `json:"position"`
	Signals  []string `json:"signals"`
}

type kpiJSON struct {
	Punctuality   float64 `json:"punctuality"`
	AvgDelay      float64 `json:"avg_delay"`
	TotalTrains   int     `json:"total_trains"`
	DelayedTrains int     `json:"delayed_trains"`
}

// LoadLayout reads a JSON layout from r and builds a fully validated
// World. Any dangling reference (train or signal on an unknown track,
// junction gated by an unknown signal) is a fatal configuration error:
// it aborts the load rather than surfacing mid-tick. Train last-update
// timestamps are initialised to now.
func LoadLayout(r io.Reader, now time.Time) (*World, *LayoutSummary, error) {
	var payload layoutJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("LoadLayout: decode failed: %w", err)
	}

	lengths := make(map[string]float64, len(payload.Tracks))
	summary := &LayoutSummary{}
	for _, jt := range payload.Tracks {
		if jt.ID == "" {
			return nil, nil, fmt.Errorf("LoadLayout: track with empty id")
		}
		if _, dup := lengths[jt.ID]; dup {
			return nil, nil, fmt.Errorf("LoadLayout: duplicate track %q", jt.ID)
		}
		lengths[jt.ID] = jt.Length
		summary.TrackIDs = append(summary.TrackIDs, jt.ID)
	}

	registry, err := tracks.NewRegistry(lengths)
	if err != nil {
		return nil, nil, fmt.Errorf("LoadLayout: %w", err)
	}
	world := NewWorld(registry)

	for _, js := range payload.Signals {
		sig := &model.Signal{
			ID:       js.ID,
			TrackID:  js.Track,
			Position: js.Position,
			State:    model.SignalGreen,
		}
		if err := world.AddSignal(sig); err != nil {
			return nil, nil, fmt.Errorf("LoadLayout: %w", err)
		}
		summary.SignalIDs = append(summary.SignalIDs, js.ID)
	}

	for _, jt := range payload.Trains {
		status := jt.Status
		if status == "" {
			status = model.StatusOnTime
		}
		train := &model.Train{
			ID:         jt.ID,
			TrackID:    jt.Track,
			Position:   jt.Position,
			Speed:      jt.Speed,
			Status:     status,
			Priority:   jt.Priority,
			LastUpdate: now,
		}
		if err := world.AddTrain(train); err != nil {
			return nil, nil, fmt.Errorf("LoadLayout: %w", err)
		}
		summary.TrainIDs = append(summary.TrainIDs, jt.ID)
	}

	for _, jj := range payload.Junctions {
		junction := &model.Junction{
			ID:            jj.ID,
			TrackIDs:      jj.Tracks,
			Position:      jj.Position,
			GateSignalIDs: jj.Signals,
		}
		if err := world.AddJunction(junction); err != nil {
			return nil, nil, fmt.Errorf("LoadLayout: %w", err)
		}
		summary.JunctionIDs = append(summary.JunctionIDs, jj.ID)
	}

	if payload.KPIs != nil {
		world.SetKPIs(model.KPISnapshot{
			Punctuality:     payload.KPIs.Punctuality,
			AvgDelayMinutes: payload.KPIs.AvgDelay,
			TotalTrains:     payload.KPIs.TotalTrains,
			DelayedTrains:   payload.KPIs.DelayedTrains,
		})
	}

	world.RecordLog(now, model.SeverityInfo, "System initialized. Signalling engine active.")

	return world, summary, nil
}
