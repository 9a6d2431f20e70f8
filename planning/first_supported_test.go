package planning_test

import (
	"context"
	"errors"
	"testing"

	"go.opencensus.io/trace"
	"go.viam.com/test"

	"github.com/personalrobotics/prgo/logging"
	"github.com/personalrobotics/prgo/planning"
	"github.com/personalrobotics/prgo/testutils"
	"github.com/personalrobotics/prgo/testutils/inject"
)

func newInjectPlanner(name string, methods []string, plan func() (planning.Trajectory, error)) (*inject.Planner, *int) {
	calls := 0
	return &inject.Planner{
		StringFunc: func() string { return name },
		HasPlanningMethodFunc: func(methodName string) bool {
			for _, m := range methods {
				if m == methodName {
					return true
				}
			}
			return false
		},
		PlanningMethodNamesFunc: func() []string { return methods },
		PlanFunc: func(context.Context, string, []interface{}, map[string]interface{}) (planning.Trajectory, error) {
			calls++
			return plan()
		},
	}, &calls
}

func TestFirstSupported(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	good, err := planning.NewSimpleTrajectory([][]float64{{0}, {1}})
	test.That(t, err, test.ShouldBeNil)

	failing, failingCalls := newInjectPlanner("failing",
		[]string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return nil, planning.NewPlanningError("no solution found") })
	other, otherCalls := newInjectPlanner("other",
		[]string{planning.PlanToTSR},
		func() (planning.Trajectory, error) { return good, nil })
	working, workingCalls := newInjectPlanner("working",
		[]string{planning.PlanToConfiguration, planning.PlanToTSR},
		func() (planning.Trajectory, error) { return good, nil })

	meta, err := planning.NewFirstSupported(logger, failing, other, working)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, meta.String(), test.ShouldEqual, "FirstSupported(failing, other, working)")
	test.That(t, meta.HasPlanningMethod(planning.PlanToTSR), test.ShouldBeTrue)
	test.That(t, meta.HasPlanningMethod(planning.PlanToEndEffectorPose), test.ShouldBeFalse)
	test.That(t, meta.PlanningMethodNames(), test.ShouldResemble,
		[]string{planning.PlanToConfiguration, planning.PlanToTSR})
	test.That(t, len(meta.Planners(planning.PlanToConfiguration)), test.ShouldEqual, 2)

	traj, err := meta.Plan(ctx, planning.PlanToConfiguration, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj, test.ShouldEqual, good)
	test.That(t, *failingCalls, test.ShouldEqual, 1)
	test.That(t, *otherCalls, test.ShouldEqual, 0)
	test.That(t, *workingCalls, test.ShouldEqual, 1)

	_, err = meta.Plan(ctx, planning.PlanToEndEffectorPose, nil, nil)
	test.That(t, planning.IsPlanningError(err), test.ShouldBeTrue)
}

func TestFirstSupportedErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	_, err := planning.NewFirstSupported(logger)
	test.That(t, err, test.ShouldNotBeNil)

	fatal := errors.New("robot disconnected")
	broken, _ := newInjectPlanner("broken", []string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return nil, fatal })
	never, neverCalls := newInjectPlanner("never", []string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return nil, nil })

	meta, err := planning.NewFirstSupported(logger, broken, never)
	test.That(t, err, test.ShouldBeNil)
	_, err = meta.Plan(ctx, planning.PlanToConfiguration, nil, nil)
	test.That(t, err, test.ShouldEqual, fatal)
	test.That(t, *neverCalls, test.ShouldEqual, 0)

	a, _ := newInjectPlanner("a", []string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return nil, planning.NewPlanningError("collision") })
	b, _ := newInjectPlanner("b", []string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return nil, planning.NewPlanningError("timeout") })
	meta, err = planning.NewFirstSupported(logger, a, b)
	test.That(t, err, test.ShouldBeNil)
	_, err = meta.Plan(ctx, planning.PlanToConfiguration, nil, nil)
	test.That(t, planning.IsPlanningError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldEqual, "all planners failed: a: collision; b: timeout")
}

func TestFirstSupportedTrace(t *testing.T) {
	spans := testutils.NewSpanRecorder(t)
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	good, err := planning.NewSimpleTrajectory([][]float64{{0}, {1}})
	test.That(t, err, test.ShouldBeNil)
	failing, _ := newInjectPlanner("failing", []string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return nil, planning.NewPlanningError("no solution found") })
	working, _ := newInjectPlanner("working", []string{planning.PlanToConfiguration},
		func() (planning.Trajectory, error) { return good, nil })

	meta, err := planning.NewFirstSupported(logger, failing, working)
	test.That(t, err, test.ShouldBeNil)
	_, err = meta.Plan(ctx, planning.PlanToConfiguration, nil, nil)
	test.That(t, err, test.ShouldBeNil)

	meta, err = planning.NewFirstSupported(logger, failing)
	test.That(t, err, test.ShouldBeNil)
	_, err = meta.Plan(ctx, planning.PlanToConfiguration, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	recorded := spans.Named("FirstSupported.Plan")
	test.That(t, len(recorded), test.ShouldEqual, 2)
	test.That(t, recorded[0].Attributes["method"], test.ShouldEqual, planning.PlanToConfiguration)
	test.That(t, recorded[0].Attributes["planner"], test.ShouldEqual, "working")
	test.That(t, recorded[0].Status.Code, test.ShouldEqual, int32(trace.StatusCodeOK))
	test.That(t, recorded[1].Status.Code, test.ShouldEqual, int32(trace.StatusCodeNotFound))
	test.That(t, recorded[1].Status.Message, test.ShouldContainSubstring, "all planners failed")
}
