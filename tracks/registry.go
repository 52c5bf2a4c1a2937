// Package tracks holds the static track table the rest of the simulator
// resolves track references against.
package tracks

import (
	"fmt"
	"sort"
)

// Registry maps track IDs to their lengths. It is built once at startup
// and read-only afterwards, so it needs no locking.
type Registry struct {
	lengths map[string]float64
}

// NewRegistry copies the provided table into a Registry. Empty IDs and
// non-positive lengths are rejected.
func NewRegistry(lengths map[string]float64) (*Registry, error) {
	out := make(map[string]float64, len(lengths))
	for id, length := range lengths {
		if id == "" {
			return nil, fmt.Errorf("track with empty ID")
		}
		if length <= 0 {
			return nil, fmt.Errorf("track %q has non-positive length %v", id, length)
		}
		out[id] = length
	}
	return &Registry{lengths: out}, nil
}

// Length returns the length of a track, and whether the track exists.
func (r *Registry) Length(id string) (float64, bool) {
	length, ok := r.lengths[id]
	return length, ok
}

// Has reports whether the registry knows the given track.
func (r *Registry) Has(id string) bool {
	_, ok := r.lengths[id]
	return ok
}

// IDs returns all track IDs in ascending order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.lengths))
	for id := range r.lengths {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered tracks.
func (r *Registry) Len() int {
	return len(r.lengths)
}
