package planning

import (
	"sync"

	"github.com/pkg/errors"
)

// Trajectory is the result of a successful planning call: an ordered, non-empty list of
// waypoints plus provenance tags.
type Trajectory interface {
	NumWaypoints() int
	// Waypoint returns a copy of the configuration at index i.
	Waypoint(i int) ([]float64, error)

	Tag(key string) (interface{}, bool)
	Tags() map[string]interface{}
	// SetTags merges tags into the existing set when appendTags is true, and replaces the
	// whole set otherwise.
	SetTags(tags map[string]interface{}, appendTags bool)
}

// SimpleTrajectory is an in-memory Trajectory safe for concurrent use.
type SimpleTrajectory struct {
	mu        sync.RWMutex
	waypoints [][]float64
	tags      map[string]interface{}
}

// NewSimpleTrajectory copies waypoints into a new trajectory.
func NewSimpleTrajectory(waypoints [][]float64) (*SimpleTrajectory, error) {
	if len(waypoints) == 0 {
		return nil, ErrEmptyTrajectory
	}
	copied := make([][]float64, 0, len(waypoints))
	for _, wp := range waypoints {
		copied = append(copied, append([]float64(nil), wp...))
	}
	return &SimpleTrajectory{waypoints: copied, tags: map[string]interface{}{}}, nil
}

// NumWaypoints returns the number of waypoints.
func (traj *SimpleTrajectory) NumWaypoints() int {
	traj.mu.RLock()
	defer traj.mu.RUnlock()
	return len(traj.waypoints)
}

// Waypoint returns a copy of waypoint i.
func (traj *SimpleTrajectory) Waypoint(i int) ([]float64, error) {
	traj.mu.RLock()
	defer traj.mu.RUnlock()
	if i < 0 || i >= len(traj.waypoints) {
		return nil, errors.Errorf("waypoint index %d out of range [0, %d)", i, len(traj.waypoints))
	}
	return append([]float64(nil), traj.waypoints[i]...), nil
}

// Tag returns the value stored under key.
func (traj *SimpleTrajectory) Tag(key string) (interface{}, bool) {
	traj.mu.RLock()
	defer traj.mu.RUnlock()
	val, ok := traj.tags[key]
	return val, ok
}

// Tags returns a copy of all tags.
func (traj *SimpleTrajectory) Tags() map[string]interface{} {
	traj.mu.RLock()
	defer traj.mu.RUnlock()
	out := make(map[string]interface{}, len(traj.tags))
	for k, v := range traj.tags {
		out[k] = v
	}
	return out
}

// SetTags merges or replaces tags.
func (traj *SimpleTrajectory) SetTags(tags map[string]interface{}, appendTags bool) {
	traj.mu.Lock()
	defer traj.mu.Unlock()
	if !appendTags {
		traj.tags = make(map[string]interface{}, len(tags))
	}
	for k, v := range tags {
		traj.tags[k] = v
	}
}

// FirstAndLast returns copies of the first and last waypoints of traj.
func FirstAndLast(traj Trajectory) ([]float64, []float64, error) {
	n := traj.NumWaypoints()
	if n == 0 {
		return nil, nil, ErrEmptyTrajectory
	}
	first, err := traj.Waypoint(0)
	if err != nil {
		return nil, nil, err
	}
	last, err := traj.Waypoint(n - 1)
	if err != nil {
		return nil, nil, err
	}
	return first, last, nil
}
