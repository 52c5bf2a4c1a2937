package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/signalsfoundry/railnet-simulator/model"
)

func TestDecisionLogNewestFirst(t *testing.T) {
	l := NewDecisionLog(10)
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	l.Record(base, model.SeverityInfo, "first")
	l.Record(base.Add(time.Second), model.SeverityWarning, "second")
	l.Record(base.Add(2*time.Second), model.SeverityAction, "third")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("Len = %d, want 3", len(entries))
	}
	want := []string{"third", "second", "first"}
	for i, msg := range want {
		if entries[i].Message != msg {
			t.Fatalf("entries[%d] = %q, want %q", i, entries[i].Message, msg)
		}
	}
}

func TestDecisionLogEvictsOldestAtCapacity(t *testing.T) {
	l := NewDecisionLog(DefaultLogCapacity)
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultLogCapacity+5; i++ {
		l.Record(base.Add(time.Duration(i)*time.Second), model.SeverityInfo, fmt.Sprintf("entry-%d", i))
	}

	if l.Len() != DefaultLogCapacity {
		t.Fatalf("Len = %d, want %d", l.Len(), DefaultLogCapacity)
	}
	entries := l.Entries()
	if got, want := entries[0].Message, fmt.Sprintf("entry-%d", DefaultLogCapacity+4); got != want {
		t.Fatalf("head = %q, want %q", got, want)
	}
	for _, e := range entries {
		for i := 0; i < 5; i++ {
			if e.Message == fmt.Sprintf("entry-%d", i) {
				t.Fatalf("evicted entry %q still present", e.Message)
			}
		}
	}
}

func TestDecisionLogSinceIsStrict(t *testing.T) {
	l := NewDecisionLog(10)
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	l.Record(base, model.SeverityInfo, "old")
	l.Record(base.Add(time.Second), model.SeverityInfo, "new")

	got := l.Since(base)
	if len(got) != 1 || got[0].Message != "new" {
		t.Fatalf("Since(base) = %v, want only the newer entry", got)
	}
	if rest := l.Since(base.Add(time.Second)); len(rest) != 0 {
		t.Fatalf("Since(newest) = %d entries, want 0", len(rest))
	}
}

func TestDecisionLogEntriesIsACopy(t *testing.T) {
	l := NewDecisionLog(10)
	l.Record(time.Now(), model.SeverityInfo, "original")

	entries := l.Entries()
	entries[0].Message = "mutated"

	if got := l.Entries()[0].Message; got != "original" {
		t.Fatalf("log entry changed through returned slice: %q", got)
	}
}
