// Package advisor turns hypothetical disruption events into templated
// response plans. It is stateless and never reads or mutates live
// simulation state; responses are narrative, not derived.
package advisor

import "fmt"

// Recognised event kinds.
const (
	EventDelay        = "delay"
	EventTrackClosure = "track_closure"
	EventNewTrain     = "new_train"
)

// Event is a discriminated disruption description. Which fields are
// meaningful depends on Type.
type Event struct {
	Type            string
	TrainID         string
	TrackID         string
	DelayMinutes    int
	DurationMinutes int
}

// Advice is a narrative plan for an event.
type Advice struct {
	Scenario string
	Plan     []string
	Impact   string
}

// Evaluate maps an event to a templated plan. Unrecognised event kinds
// yield a generic "Unknown" response rather than an error.
func Evaluate(ev Event) Advice {
	switch ev.Type {
	case EventDelay:
		return Advice{
			Scenario: fmt.Sprintf("Train %s is delayed by %d minutes.", ev.TrainID, ev.DelayMinutes),
			Plan: []string{
				"Adjust signals for all crossing trains.",
				fmt.Sprintf("Prioritize holding lower-priority trains if conflicting with %s.", ev.TrainID),
				fmt.Sprintf("Re-route %s if track becomes congested.", ev.TrainID),
			},
			Impact: "Minor cascading delays expected on 2-3 trains.",
		}
	case EventTrackClosure:
		return Advice{
			Scenario: fmt.Sprintf("Track %s closed for %d minutes.", ev.TrackID, ev.DurationMinutes),
			Plan: []string{
				fmt.Sprintf("Set all signals on track %s to RED.", ev.TrackID),
				"Re-route approaching trains via junctions.",
				"Hold trains currently on this track at nearest signal.",
			},
			Impact: "Significant delays expected on this track.",
		}
	case EventNewTrain:
		return Advice{
			Scenario: fmt.Sprintf("Add unscheduled train %s on track %s.", ev.TrainID, ev.TrackID),
			Plan: []string{
				"Analyze current traffic to find safe insertion window.",
				fmt.Sprintf("Adjust signals to create gap for %s.", ev.TrainID),
				"Adjust schedule for 2-4 other trains on same track.",
			},
			Impact: "Minimal impact if traffic is light.",
		}
	default:
		return Advice{
			Scenario: "Unknown",
			Plan:     []string{},
			Impact:   "Analysis in progress...",
		}
	}
}
