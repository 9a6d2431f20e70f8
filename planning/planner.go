// Package planning defines the planner capability surface shared by every planner, meta-planner
// and planner wrapper in this module.
package planning

import (
	"context"
)

// Planner computes trajectories through named planning methods. Implementations are free to
// support any subset of methods; callers discover them with HasPlanningMethod or
// PlanningMethodNames before calling Plan.
type Planner interface {
	// HasPlanningMethod reports whether methodName can be passed to Plan.
	HasPlanningMethod(methodName string) bool

	// PlanningMethodNames returns the supported method names in a stable order.
	PlanningMethodNames() []string

	// Plan runs the named method. A recognized failure to find a plan is reported as a
	// *PlanningError; any other error is unclassified.
	Plan(ctx context.Context, methodName string, args []interface{}, kwargs map[string]interface{}) (Trajectory, error)

	// String identifies the planner in logs and records.
	String() string
}

// MetaPlanner is a Planner that dispatches to other planners.
type MetaPlanner interface {
	Planner

	// Planners returns the planners that may be consulted for methodName, in the order they would
	// be tried.
	Planners(methodName string) []Planner
}

// Common planning method names.
const (
	PlanToConfiguration   = "PlanToConfiguration"
	PlanToConfigurations  = "PlanToConfigurations"
	PlanToEndEffectorPose = "PlanToEndEffectorPose"
	PlanToTSR             = "PlanToTSR"
)
