package mobilebase

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/personalrobotics/prgo/environment"
	"github.com/personalrobotics/prgo/logging"
)

func newRobot(t *testing.T) *environment.Robot {
	t.Helper()
	robot, err := environment.NewRobot(environment.NewWorld("mem://base"), "herb", nil)
	test.That(t, err, test.ShouldBeNil)
	return robot
}

func position(t *testing.T, robot *environment.Robot) r3.Vector {
	t.Helper()
	b, err := robot.World().Body(robot.Name())
	test.That(t, err, test.ShouldBeNil)
	return b.Position()
}

func TestSimulatedMotion(t *testing.T) {
	ctx := context.Background()
	robot := newRobot(t)
	base := New(true, robot, logging.NewTestLogger(t))

	test.That(t, base.Forward(ctx, 1.5, 0), test.ShouldBeNil)
	pos := position(t, robot)
	test.That(t, pos.X, test.ShouldAlmostEqual, 1.5)
	test.That(t, pos.Y, test.ShouldAlmostEqual, 0)

	test.That(t, base.Rotate(ctx, math.Pi/2, 0), test.ShouldBeNil)
	pos = position(t, robot)
	test.That(t, pos.X, test.ShouldAlmostEqual, 1.5)

	test.That(t, base.Forward(ctx, 2, 0), test.ShouldBeNil)
	pos = position(t, robot)
	test.That(t, pos.X, test.ShouldAlmostEqual, 1.5)
	test.That(t, pos.Y, test.ShouldAlmostEqual, 2)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	test.That(t, base.Forward(cancelled, 1, 0), test.ShouldBeError, context.Canceled)
}

func TestUnsupportedMotion(t *testing.T) {
	ctx := context.Background()
	robot := newRobot(t)

	hw := New(false, robot, logging.NewTestLogger(t))
	test.That(t, hw.Forward(ctx, 1, 0), test.ShouldWrap, ErrNotImplemented)
	test.That(t, hw.Rotate(ctx, 1, 0), test.ShouldWrap, ErrNotImplemented)
	_, err := hw.DriveStraightUntilForce(ctx, r3.Vector{X: 1}, DefaultDriveOptions())
	test.That(t, err, test.ShouldWrap, ErrNotImplemented)

	sim := New(true, robot, logging.NewTestLogger(t))
	felt, err := sim.DriveStraightUntilForce(ctx, r3.Vector{Y: 1}, DefaultDriveOptions())
	test.That(t, felt, test.ShouldBeFalse)
	test.That(t, err, test.ShouldWrap, ErrNotImplemented)
	test.That(t, err.Error(), test.ShouldContainSubstring, "simulation")

	_, err = sim.DriveStraightUntilForce(ctx, r3.Vector{}, DefaultDriveOptions())
	test.That(t, err, test.ShouldNotBeNil)
}
