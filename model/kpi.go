package model

// KPISnapshot carries network-level performance figures shown alongside
// live state. The engine does not derive these from the simulation; they
// are loaded from the layout file and held as-is.
type KPISnapshot struct {
	Punctuality     float64
	AvgDelayMinutes float64
	TotalTrains     int
	DelayedTrains   int
}
