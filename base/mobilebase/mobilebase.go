// Package mobilebase drives a robot's mobile base. Only simulated motion is implemented; real
// robots are expected to provide their own base.
package mobilebase

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/personalrobotics/prgo/environment"
	"github.com/personalrobotics/prgo/logging"
)

// ErrNotImplemented is returned by motions a base cannot perform.
var ErrNotImplemented = errors.New("not implemented")

// DriveOptions configures DriveStraightUntilForce.
type DriveOptions struct {
	Velocity       float64
	ForceThreshold float64
	// MaxDistance and Timeout are disabled when zero.
	MaxDistance float64
	Timeout     time.Duration
	LeftArm     bool
	RightArm    bool
}

// DefaultDriveOptions returns 0.1 m/s with a 3 N threshold on both force/torque sensors.
func DefaultDriveOptions() DriveOptions {
	return DriveOptions{Velocity: 0.1, ForceThreshold: 3.0, LeftArm: true, RightArm: true}
}

// MobileBase moves a robot body around its world.
type MobileBase struct {
	simulated bool
	robot     *environment.Robot
	logger    logging.Logger

	mu sync.Mutex
}

// New returns a base for robot.
func New(simulated bool, robot *environment.Robot, logger logging.Logger) *MobileBase {
	return &MobileBase{simulated: simulated, robot: robot, logger: logger}
}

// Forward drives the robot meters along its own x axis. The timeout is unused in simulation.
func (mb *MobileBase) Forward(ctx context.Context, meters float64, timeout time.Duration) error {
	if !mb.simulated {
		return errors.Wrap(ErrNotImplemented, "Forward")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	mb.mu.Lock()
	defer mb.mu.Unlock()

	pose, err := mb.robot.Transform()
	if err != nil {
		return err
	}
	for row := 0; row < 3; row++ {
		pose.Set(row, 3, pose.At(row, 3)+meters*pose.At(row, 0))
	}
	mb.logger.Debugw("simulated forward", "robot", mb.robot.Name(), "meters", meters)
	return mb.robot.SetTransform(pose)
}

// Rotate turns the robot in place by angleRad about its z axis. The timeout is unused in
// simulation.
func (mb *MobileBase) Rotate(ctx context.Context, angleRad float64, timeout time.Duration) error {
	if !mb.simulated {
		return errors.Wrap(ErrNotImplemented, "Rotate")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	mb.mu.Lock()
	defer mb.mu.Unlock()

	pose, err := mb.robot.Transform()
	if err != nil {
		return err
	}
	var rotated mat.Dense
	rotated.Mul(pose, rotationZ(angleRad))
	mb.logger.Debugw("simulated rotate", "robot", mb.robot.Name(), "radians", angleRad)
	return mb.robot.SetTransform(&rotated)
}

// DriveStraightUntilForce would face direction and drive until a force is felt, returning
// whether one was. Neither simulated nor real bases support it.
func (mb *MobileBase) DriveStraightUntilForce(ctx context.Context, direction r3.Vector, opts DriveOptions) (bool, error) {
	if direction.Norm() == 0 {
		return false, errors.New("direction must be non-zero")
	}
	if mb.simulated {
		return false, errors.Wrap(ErrNotImplemented, "DriveStraightUntilForce does not work in simulation")
	}
	return false, errors.Wrap(ErrNotImplemented, "DriveStraightUntilForce")
}

func rotationZ(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}
