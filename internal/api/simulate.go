package api

import (
	"encoding/json"
	"net/http"

	"github.com/signalsfoundry/railnet-simulator/advisor"
)

// handleSimulate evaluates a hypothetical disruption and returns a
// templated plan. It never touches live world state; an unreadable body
// is treated as an unknown event.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	advice := advisor.Evaluate(advisor.Event{
		Type:            req.EventType,
		TrainID:         req.TrainID,
		TrackID:         req.TrackID,
		DelayMinutes:    req.Delay,
		DurationMinutes: req.Duration,
	})

	writeJSON(w, http.StatusOK, simulateResponse{
		Scenario: advice.Scenario,
		Plan:     advice.Plan,
		Impact:   advice.Impact,
	})
}
