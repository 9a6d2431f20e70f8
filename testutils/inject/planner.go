package inject

import (
	"context"

	"github.com/personalrobotics/prgo/planning"
)

// Planner is an injectable planning.Planner. Unset funcs fall back to the embedded Planner.
type Planner struct {
	planning.Planner
	HasPlanningMethodFunc   func(methodName string) bool
	PlanningMethodNamesFunc func() []string
	PlanFunc                func(
		ctx context.Context,
		methodName string,
		args []interface{},
		kwargs map[string]interface{},
	) (planning.Trajectory, error)
	StringFunc func() string
}

// HasPlanningMethod calls the injected HasPlanningMethod or the real version.
func (p *Planner) HasPlanningMethod(methodName string) bool {
	if p.HasPlanningMethodFunc == nil {
		return p.Planner.HasPlanningMethod(methodName)
	}
	return p.HasPlanningMethodFunc(methodName)
}

// PlanningMethodNames calls the injected PlanningMethodNames or the real version.
func (p *Planner) PlanningMethodNames() []string {
	if p.PlanningMethodNamesFunc == nil {
		return p.Planner.PlanningMethodNames()
	}
	return p.PlanningMethodNamesFunc()
}

// Plan calls the injected Plan or the real version.
func (p *Planner) Plan(
	ctx context.Context,
	methodName string,
	args []interface{},
	kwargs map[string]interface{},
) (planning.Trajectory, error) {
	if p.PlanFunc == nil {
		return p.Planner.Plan(ctx, methodName, args, kwargs)
	}
	return p.PlanFunc(ctx, methodName, args, kwargs)
}

// String calls the injected String or the real version.
func (p *Planner) String() string {
	if p.StringFunc == nil {
		if p.Planner == nil {
			return "inject.Planner"
		}
		return p.Planner.String()
	}
	return p.StringFunc()
}
