// Package environment describes the world state a planning call runs against.
package environment

import (
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Environment is a snapshot-able description of the world relevant to planning.
type Environment interface {
	// URI locates the environment description so records can reference it instead of embedding it.
	URI() string
	// Bodies returns copies of the bodies in the environment, ordered by name.
	Bodies() []Body
}

// Provider is anything that can hand back the environment it lives in, typically a robot.
type Provider interface {
	Env() Environment
}

// BodyKind distinguishes robots from static obstacles.
type BodyKind string

// Body kinds.
const (
	KindRobot    BodyKind = "robot"
	KindObstacle BodyKind = "obstacle"
)

// Body is a named rigid body placed in the world by a 4x4 homogeneous transform.
type Body struct {
	Name          string
	Kind          BodyKind
	Transform     *mat.Dense
	Configuration []float64
}

// Position returns the translation part of the body transform.
func (b Body) Position() r3.Vector {
	if b.Transform == nil {
		return r3.Vector{}
	}
	return r3.Vector{X: b.Transform.At(0, 3), Y: b.Transform.At(1, 3), Z: b.Transform.At(2, 3)}
}

func (b Body) clone() Body {
	out := Body{Name: b.Name, Kind: b.Kind, Configuration: append([]float64(nil), b.Configuration...)}
	if b.Transform != nil {
		out.Transform = mat.DenseCopyOf(b.Transform)
	}
	return out
}

// ErrBodyNotFound is returned when a named body does not exist.
var ErrBodyNotFound = errors.New("body not found")

// World is a mutable Environment safe for concurrent use.
type World struct {
	uri string

	mu     sync.RWMutex
	bodies map[string]Body
}

// NewWorld returns an empty world located at uri.
func NewWorld(uri string) *World {
	return &World{uri: uri, bodies: map[string]Body{}}
}

// URI returns where the world description lives.
func (w *World) URI() string {
	return w.uri
}

// Bodies returns copies of every body, ordered by name.
func (w *World) Bodies() []Body {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddBody adds b to the world. A nil transform is replaced with identity.
func (w *World) AddBody(b Body) error {
	if b.Name == "" {
		return errors.New("body must have a name")
	}
	if b.Transform == nil {
		b.Transform = Identity()
	} else if r, c := b.Transform.Dims(); r != 4 || c != 4 {
		return errors.Errorf("body %q transform must be 4x4, got %dx%d", b.Name, r, c)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bodies[b.Name]; ok {
		return errors.Errorf("body %q already exists", b.Name)
	}
	w.bodies[b.Name] = b.clone()
	return nil
}

// Body returns a copy of the named body.
func (w *World) Body(name string) (Body, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[name]
	if !ok {
		return Body{}, errors.Wrap(ErrBodyNotFound, name)
	}
	return b.clone(), nil
}

// SetBodyTransform replaces the transform of the named body.
func (w *World) SetBodyTransform(name string, transform *mat.Dense) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[name]
	if !ok {
		return errors.Wrap(ErrBodyNotFound, name)
	}
	b.Transform = mat.DenseCopyOf(transform)
	w.bodies[name] = b
	return nil
}

// SetBodyConfiguration replaces the configuration of the named body.
func (w *World) SetBodyConfiguration(name string, config []float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[name]
	if !ok {
		return errors.Wrap(ErrBodyNotFound, name)
	}
	b.Configuration = append([]float64(nil), config...)
	w.bodies[name] = b
	return nil
}

// Identity returns a 4x4 identity transform.
func Identity() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}
