package api

import (
	"time"

	"github.com/signalsfoundry/railnet-simulator/core"
)

// Wire shapes for the JSON API. Timestamps travel as epoch seconds so
// clients can echo them back via the since parameter.

type trainDTO struct {
	ID         string  `json:"id"`
	Track      string  `json:"track"`
	Position   float64 `json:"position"`
	Speed      float64 `json:"speed"`
	Status     string  `json:"status"`
	Priority   int     `json:"priority"`
	LastUpdate float64 `json:"last_update"`
}

type signalDTO struct {
	Track    string  `json:"track"`
	Position float64 `json:"position"`
	State    string  `json:"state"`
}

type logDTO struct {
	Timestamp float64 `json:"timestamp"`
	Level     string  `json:"level"`
	Message   string  `json:"message"`
}

type kpiDTO struct {
	Punctuality   float64 `json:"punctuality"`
	AvgDelay      float64 `json:"avg_delay"`
	TotalTrains   int     `json:"total_trains"`
	DelayedTrains int     `json:"delayed_trains"`
}

type stateResponse struct {
	Trains  []trainDTO           `json:"trains"`
	Signals map[string]signalDTO `json:"signals"`
	Logs    []logDTO             `json:"logs"`
	KPIs    kpiDTO               `json:"kpis"`
}

type simulateRequest struct {
	EventType string `json:"event_type"`
	TrainID   string `json:"train_id"`
	TrackID   string `json:"track_id"`
	Delay     int    `json:"delay"`
	Duration  int    `json:"duration"`
}

type simulateResponse struct {
	Scenario string   `json:"scenario"`
	Plan     []string `json:"plan"`
	Impact   string   `json:"impact"`
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func timeFromEpoch(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second)))
}

func stateResponseFromSnapshot(snap core.Snapshot) stateResponse {
	resp := stateResponse{
		Trains:  make([]trainDTO, 0, len(snap.Trains)),
		Signals: make(map[string]signalDTO, len(snap.Signals)),
		Logs:    make([]logDTO, 0, len(snap.Logs)),
		KPIs: kpiDTO{
			Punctuality:   snap.KPIs.Punctuality,
			AvgDelay:      snap.KPIs.AvgDelayMinutes,
			TotalTrains:   snap.KPIs.TotalTrains,
			DelayedTrains: snap.KPIs.DelayedTrains,
		},
	}
	for _, train := range snap.Trains {
		resp.Trains = append(resp.Trains, trainDTO{
			ID:         train.ID,
			Track:      train.TrackID,
			Position:   train.Position,
			Speed:      train.Speed,
			Status:     train.Status,
			Priority:   train.Priority,
			LastUpdate: epochSeconds(train.LastUpdate),
		})
	}
	for id, sig := range snap.Signals {
		resp.Signals[id] = signalDTO{
			Track:    sig.TrackID,
			Position: sig.Position,
			State:    sig.State.String(),
		}
	}
	for _, entry := range snap.Logs {
		resp.Logs = append(resp.Logs, logDTO{
			Timestamp: epochSeconds(entry.Timestamp),
			Level:     entry.Level.String(),
			Message:   entry.Message,
		})
	}
	return resp
}
