package model

import "time"

// Train status strings surfaced to operators. Blocked trains carry the
// blocking signal's ID, e.g. "Waiting at signal S1".
const (
	StatusOnTime = "On Time"
)

// Train is a service moving along a single track. Position is a
// track-local distance in [0, track length); speed is in units/hour.
// Lower Priority values outrank higher ones at junctions.
type Train struct {
	ID       string
	TrackID  string
	Position float64
	Speed    float64
	Status   string
	Priority int

	// LastUpdate is the instant the engine last moved (or deliberately
	// held) this train; advancement is computed from it.
	LastUpdate time.Time
}
