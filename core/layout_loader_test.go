package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const testLayout = `{
  "tracks": [
    {"id": "0", "length": 100},
    {"id": "1", "length": 100}
  ],
  "trains": [
    {"id": "T123", "track": "0", "position": 10, "speed": 80, "priority": 1},
    {"id": "T456", "track": "1", "position": 40, "speed": 70, "priority": 2}
  ],
  "signals": [
    {"id": "S1", "track": "0", "position": 25},
    {"id": "S3", "track": "1", "position": 25}
  ],
  "junctions": [
    {"id": "J1", "tracks": ["0", "1"], "position": 50, "signals": ["S1", "S3"]}
  ],
  "kpis": {"punctuality": 99.1, "avg_delay": 1.2, "total_trains": 150, "delayed_trains": 5}
}`

func TestLoadLayout(t *testing.T) {
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	world, summary, err := LoadLayout(strings.NewReader(testLayout), now)
	if err != nil {
		t.Fatalf("LoadLayout() error = %v", err)
	}

	if diff := cmp.Diff(&LayoutSummary{
		TrackIDs:    []string{"0", "1"},
		TrainIDs:    []string{"T123", "T456"},
		SignalIDs:   []string{"S1", "S3"},
		JunctionIDs: []string{"J1"},
	}, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	snap := world.Snapshot(time.Time{})
	if snap.KPIs.Punctuality != 99.1 || snap.KPIs.TotalTrains != 150 {
		t.Fatalf("KPIs not loaded: %+v", snap.KPIs)
	}
	if got := snap.Trains[0].LastUpdate; !got.Equal(now) {
		t.Fatalf("train LastUpdate = %v, want load time %v", got, now)
	}
	if len(snap.Logs) != 1 || !strings.Contains(snap.Logs[0].Message, "initialized") {
		t.Fatalf("missing boot log entry: %v", snap.Logs)
	}
}

func TestLoadLayoutRejectsDanglingTrackRef(t *testing.T) {
	layout := `{
	  "tracks": [{"id": "0", "length": 100}],
	  "trains": [{"id": "T1", "track": "missing", "position": 1, "speed": 10, "priority": 1}]
	}`
	_, _, err := LoadLayout(strings.NewReader(layout), time.Now())
	if !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("LoadLayout() error = %v, want %v", err, ErrUnknownTrack)
	}
}

func TestLoadLayoutRejectsDanglingGateSignal(t *testing.T) {
	layout := `{
	  "tracks": [{"id": "0", "length": 100}, {"id": "1", "length": 100}],
	  "junctions": [{"id": "J1", "tracks": ["0", "1"], "position": 50, "signals": ["S9"]}]
	}`
	_, _, err := LoadLayout(strings.NewReader(layout), time.Now())
	if !errors.Is(err, ErrUnknownSignal) {
		t.Fatalf("LoadLayout() error = %v, want %v", err, ErrUnknownSignal)
	}
}

func TestLoadLayoutRejectsDuplicateTrack(t *testing.T) {
	layout := `{"tracks": [{"id": "0", "length": 100}, {"id": "0", "length": 50}]}`
	_, _, err := LoadLayout(strings.NewReader(layout), time.Now())
	if err == nil || !strings.Contains(err.Error(), "duplicate track") {
		t.Fatalf("LoadLayout() error = %v, want duplicate track error", err)
	}
}

func TestLoadLayoutRejectsMalformedJSON(t *testing.T) {
	_, _, err := LoadLayout(strings.NewReader("{nope"), time.Now())
	if err == nil || !strings.Contains(err.Error(), "decode failed") {
		t.Fatalf("LoadLayout() error = %v, want decode error", err)
	}
}
