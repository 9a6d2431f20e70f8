// Package fake implements a straight-line joint-space planner for tests and demos.
package fake

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/personalrobotics/prgo/environment"
	"github.com/personalrobotics/prgo/planning"
)

const defaultSteps = 10

// Limit bounds one joint.
type Limit struct {
	Min, Max float64
}

// StraightLine interpolates linearly from the robot's current configuration to a goal.
type StraightLine struct {
	Name   string
	Steps  int
	Limits []Limit
}

// NewStraightLine returns a planner named name that produces steps+1 waypoints.
func NewStraightLine(name string, steps int, limits ...Limit) *StraightLine {
	if steps <= 0 {
		steps = defaultSteps
	}
	return &StraightLine{Name: name, Steps: steps, Limits: limits}
}

func (sl *StraightLine) String() string {
	return sl.Name
}

// HasPlanningMethod supports PlanToConfiguration only.
func (sl *StraightLine) HasPlanningMethod(methodName string) bool {
	return methodName == planning.PlanToConfiguration
}

// PlanningMethodNames returns the supported methods.
func (sl *StraightLine) PlanningMethodNames() []string {
	return []string{planning.PlanToConfiguration}
}

// Plan expects the robot either as the "robot" keyword or the first positional argument, and the
// goal configuration as the "goal" keyword or the second positional argument.
func (sl *StraightLine) Plan(
	ctx context.Context,
	methodName string,
	args []interface{},
	kwargs map[string]interface{},
) (planning.Trajectory, error) {
	if !sl.HasPlanningMethod(methodName) {
		return nil, planning.NewMethodNotSupportedError(methodName)
	}
	robot, goal, err := parseArgs(args, kwargs)
	if err != nil {
		return nil, err
	}
	start, err := robot.Configuration()
	if err != nil {
		return nil, err
	}
	if len(start) != len(goal) {
		return nil, errors.Errorf("goal has %d joints, robot %q has %d", len(goal), robot.Name(), len(start))
	}
	for i, g := range goal {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return nil, planning.NewPlanningError("goal joint %d is not finite", i)
		}
		if i < len(sl.Limits) && (g < sl.Limits[i].Min || g > sl.Limits[i].Max) {
			return nil, planning.NewPlanningError("no solution found: goal joint %d outside [%g, %g]", i, sl.Limits[i].Min, sl.Limits[i].Max)
		}
	}

	waypoints := make([][]float64, 0, sl.Steps+1)
	for step := 0; step <= sl.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frac := float64(step) / float64(sl.Steps)
		wp := make([]float64, len(start))
		for j := range start {
			wp[j] = start[j] + frac*(goal[j]-start[j])
		}
		waypoints = append(waypoints, wp)
	}
	traj, err := planning.NewSimpleTrajectory(waypoints)
	if err != nil {
		return nil, err
	}
	traj.SetTags(map[string]interface{}{planning.TagPlanner: sl.Name, planning.TagMethod: methodName}, true)
	return traj, nil
}

func parseArgs(args []interface{}, kwargs map[string]interface{}) (*environment.Robot, []float64, error) {
	robotArg, ok := kwargs["robot"]
	if !ok && len(args) > 0 {
		robotArg, args = args[0], args[1:]
	}
	robot, ok := robotArg.(*environment.Robot)
	if !ok {
		return nil, nil, errors.Errorf("expected a robot, got %T", robotArg)
	}
	goalArg, ok := kwargs["goal"]
	if !ok && len(args) > 0 {
		goalArg = args[0]
	}
	goal, ok := goalArg.([]float64)
	if !ok {
		return nil, nil, errors.Errorf("expected goal as []float64, got %T", goalArg)
	}
	return robot, goal, nil
}
