package model

// Junction is a fixed crossing shared by two or more tracks. The
// junction sits at the same track-local position on each of its tracks.
// GateSignalIDs lists the signals that protect entry; they are static
// configuration and validated at startup.
type Junction struct {
	ID            string
	TrackIDs      []string
	Position      float64
	GateSignalIDs []string
}
