package api

import (
	"net/http"
	"strconv"
	"time"
)

// handleState returns a consistent snapshot of trains, signals, KPI
// figures, and log entries newer than the optional since parameter
// (epoch seconds). A malformed since is coerced to 0, never rejected.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		if sec, err := strconv.ParseFloat(raw, 64); err == nil && sec > 0 {
			since = timeFromEpoch(sec)
		}
	}

	snap := s.world.Snapshot(since)
	writeJSON(w, http.StatusOK, stateResponseFromSnapshot(snap))
}
