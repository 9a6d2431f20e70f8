package planning

import (
	"fmt"

	"github.com/pkg/errors"
)

// PlanningError is the expected failure of a planner: the request was understood but no plan
// was found.
type PlanningError struct {
	msg string
}

// NewPlanningError returns a *PlanningError with a formatted description.
func NewPlanningError(format string, args ...interface{}) *PlanningError {
	return &PlanningError{msg: fmt.Sprintf(format, args...)}
}

func (e *PlanningError) Error() string {
	return e.msg
}

// UnsupportedPlanningError is returned when a planner is asked for a method it does not
// implement. It is also a planning failure.
type UnsupportedPlanningError struct {
	PlanningError
	Method string
}

// NewMethodNotSupportedError returns an error for a planning method a planner does not support.
func NewMethodNotSupportedError(methodName string) *UnsupportedPlanningError {
	return &UnsupportedPlanningError{
		PlanningError: PlanningError{msg: fmt.Sprintf("planning method %q is not supported", methodName)},
		Method:        methodName,
	}
}

// AsPlanningError returns the planning failure carried by err, if any.
func AsPlanningError(err error) (*PlanningError, bool) {
	var planningErr *PlanningError
	if errors.As(err, &planningErr) {
		return planningErr, true
	}
	var unsupported *UnsupportedPlanningError
	if errors.As(err, &unsupported) {
		return &unsupported.PlanningError, true
	}
	return nil, false
}

// IsPlanningError reports whether err is an expected planning failure.
func IsPlanningError(err error) bool {
	_, ok := AsPlanningError(err)
	return ok
}

// ErrEmptyTrajectory is returned when a trajectory is built without waypoints.
var ErrEmptyTrajectory = errors.New("trajectory must have at least one waypoint")
