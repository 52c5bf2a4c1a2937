package core

import (
	"time"

	"github.com/signalsfoundry/railnet-simulator/model"
)

// DefaultLogCapacity bounds the decision log unless a caller overrides it.
const DefaultLogCapacity = 100

// DecisionLog is the engine's bounded, newest-first record of signalling
// decisions. It is not safe for concurrent use on its own; the owning
// World's lock guards it.
type DecisionLog struct {
	capacity int
	entries  []model.LogEntry
}

// NewDecisionLog creates a log that retains the most recent capacity
// entries. Non-positive capacities fall back to DefaultLogCapacity.
func NewDecisionLog(capacity int) *DecisionLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &DecisionLog{
		capacity: capacity,
		entries:  make([]model.LogEntry, 0, capacity),
	}
}

// Record inserts an entry at the head, evicting the oldest entry once
// the log is at capacity.
func (l *DecisionLog) Record(now time.Time, level model.Severity, message string) {
	entry := model.LogEntry{Timestamp: now, Level: level, Message: message}
	l.entries = append(l.entries, model.LogEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Entries returns a copy of all retained entries, newest first.
func (l *DecisionLog) Entries() []model.LogEntry {
	out := make([]model.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Since returns a copy of the entries with timestamps strictly after t,
// newest first.
func (l *DecisionLog) Since(t time.Time) []model.LogEntry {
	out := make([]model.LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Timestamp.After(t) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of retained entries.
func (l *DecisionLog) Len() int {
	return len(l.entries)
}
