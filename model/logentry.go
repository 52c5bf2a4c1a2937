package model

import "time"

// Severity classifies decision log entries.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityAction
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityAction:
		return "ACTION"
	default:
		return "INFO"
	}
}

// LogEntry is one record in the engine's decision log.
type LogEntry struct {
	Timestamp time.Time
	Level     Severity
	Message   string
}
