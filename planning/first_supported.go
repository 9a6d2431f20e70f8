package planning

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/personalrobotics/prgo/logging"
)

// FirstSupported is a MetaPlanner that tries each candidate supporting a method in order and
// returns the first trajectory found. A planning failure moves on to the next candidate; any
// other error stops the search.
type FirstSupported struct {
	planners []Planner
	logger   logging.Logger
}

// NewFirstSupported returns a FirstSupported over planners, in priority order.
func NewFirstSupported(logger logging.Logger, planners ...Planner) (*FirstSupported, error) {
	if len(planners) == 0 {
		return nil, errors.New("FirstSupported needs at least one planner")
	}
	for i, p := range planners {
		if p == nil {
			return nil, errors.Errorf("planner %d is nil", i)
		}
	}
	return &FirstSupported{planners: append([]Planner(nil), planners...), logger: logger}, nil
}

func (fs *FirstSupported) String() string {
	names := make([]string, 0, len(fs.planners))
	for _, p := range fs.planners {
		names = append(names, p.String())
	}
	return fmt.Sprintf("FirstSupported(%s)", strings.Join(names, ", "))
}

// HasPlanningMethod is true if any candidate supports methodName.
func (fs *FirstSupported) HasPlanningMethod(methodName string) bool {
	for _, p := range fs.planners {
		if p.HasPlanningMethod(methodName) {
			return true
		}
	}
	return false
}

// PlanningMethodNames returns the union of the candidates' methods in first-seen order.
func (fs *FirstSupported) PlanningMethodNames() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, p := range fs.planners {
		for _, name := range p.PlanningMethodNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// Planners returns the candidates supporting methodName.
func (fs *FirstSupported) Planners(methodName string) []Planner {
	var out []Planner
	for _, p := range fs.planners {
		if p.HasPlanningMethod(methodName) {
			out = append(out, p)
		}
	}
	return out
}

// Plan runs methodName on each supporting candidate until one succeeds.
func (fs *FirstSupported) Plan(
	ctx context.Context,
	methodName string,
	args []interface{},
	kwargs map[string]interface{},
) (Trajectory, error) {
	ctx, span := trace.StartSpan(ctx, "FirstSupported.Plan")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("method", methodName))

	candidates := fs.Planners(methodName)
	if len(candidates) == 0 {
		err := NewMethodNotSupportedError(methodName)
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnimplemented, Message: err.Error()})
		return nil, err
	}

	failures := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		traj, err := p.Plan(ctx, methodName, args, kwargs)
		if err == nil {
			span.AddAttributes(trace.StringAttribute("planner", p.String()))
			return traj, nil
		}
		if !IsPlanningError(err) {
			span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
			return nil, err
		}
		fs.logger.Debugw("planner failed, trying next", "planner", p.String(), "method", methodName, "error", err)
		failures = append(failures, fmt.Sprintf("%s: %s", p.String(), err.Error()))
	}
	err := NewPlanningError("all planners failed: %s", strings.Join(failures, "; "))
	span.SetStatus(trace.Status{Code: trace.StatusCodeNotFound, Message: err.Error()})
	return nil, err
}
