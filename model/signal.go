package model

// SignalState is the aspect a signal currently shows. There is no amber:
// the block model is binary.
type SignalState int

const (
	SignalRed SignalState = iota
	SignalGreen
)

func (s SignalState) String() string {
	switch s {
	case SignalGreen:
		return "GREEN"
	default:
		return "RED"
	}
}

// Signal gates entry to the block of track immediately past its position.
// State is recomputed from occupancy every tick and never persisted.
type Signal struct {
	ID       string
	TrackID  string
	Position float64
	State    SignalState
}
