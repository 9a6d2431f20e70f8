package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Robot is a handle on a robot body inside a World.
type Robot struct {
	name  string
	world *World
}

// NewRobot adds a robot body with the given configuration to world and returns a handle to it.
func NewRobot(world *World, name string, configuration []float64) (*Robot, error) {
	if err := world.AddBody(Body{Name: name, Kind: KindRobot, Configuration: configuration}); err != nil {
		return nil, err
	}
	return &Robot{name: name, world: world}, nil
}

// Name returns the robot body name.
func (r *Robot) Name() string {
	return r.name
}

// Env returns the world the robot lives in.
func (r *Robot) Env() Environment {
	return r.world
}

// World returns the concrete world the robot lives in.
func (r *Robot) World() *World {
	return r.world
}

// Transform returns a copy of the robot's pose in the world.
func (r *Robot) Transform() (*mat.Dense, error) {
	b, err := r.world.Body(r.name)
	if err != nil {
		return nil, err
	}
	return b.Transform, nil
}

// SetTransform moves the robot.
func (r *Robot) SetTransform(transform *mat.Dense) error {
	return r.world.SetBodyTransform(r.name, transform)
}

// Configuration returns a copy of the robot's joint configuration.
func (r *Robot) Configuration() ([]float64, error) {
	b, err := r.world.Body(r.name)
	if err != nil {
		return nil, err
	}
	return b.Configuration, nil
}

// SetConfiguration replaces the robot's joint configuration.
func (r *Robot) SetConfiguration(config []float64) error {
	return r.world.SetBodyConfiguration(r.name, config)
}

func (r *Robot) String() string {
	return "Robot(" + r.name + ")"
}

// Serialize describes the robot by reference so records stay small.
func (r *Robot) Serialize() (interface{}, error) {
	if r == nil {
		return nil, nil
	}
	return map[string]interface{}{"type": "robot", "name": r.name, "env": r.world.URI()}, nil
}
