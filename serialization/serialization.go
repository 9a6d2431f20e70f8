// Package serialization turns planning arguments and environments into plain documents made of
// maps, slices and scalars that any structured encoder can write.
package serialization

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/personalrobotics/prgo/environment"
)

// Serializer converts values and environments into plain documents.
type Serializer interface {
	// SerializeEnvironment describes env. With uriOnly set only a reference to the environment is
	// produced.
	SerializeEnvironment(env environment.Environment, uriOnly bool) (map[string]interface{}, error)
	// Serialize converts a single value. Values of unknown shape fail with *UnsupportedTypeError.
	Serialize(value interface{}) (interface{}, error)
}

// Serializable is implemented by types that know how to describe themselves.
type Serializable interface {
	Serialize() (interface{}, error)
}

// UnsupportedTypeError is returned for values that have no document form.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unable to serialize object of type %v", e.Type)
}

// IsUnsupportedType reports whether err is an *UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var target *UnsupportedTypeError
	return errors.As(err, &target)
}

const maxDepth = 32

// Default is the Serializer used when none is configured.
type Default struct{}

// NewDefault returns the default serializer.
func NewDefault() *Default {
	return &Default{}
}

// SerializeEnvironment describes env as {uri} or {uri, bodies}.
func (d *Default) SerializeEnvironment(env environment.Environment, uriOnly bool) (map[string]interface{}, error) {
	if env == nil {
		return nil, errors.New("cannot serialize a nil environment")
	}
	doc := map[string]interface{}{"uri": env.URI()}
	if uriOnly {
		return doc, nil
	}

	bodies := env.Bodies()
	out := make([]interface{}, 0, len(bodies))
	for _, b := range bodies {
		bodyDoc := map[string]interface{}{
			"name": b.Name,
			"kind": string(b.Kind),
		}
		if b.Transform != nil {
			bodyDoc["transform"] = denseRows(b.Transform)
		}
		if len(b.Configuration) > 0 {
			bodyDoc["configuration"] = append([]float64(nil), b.Configuration...)
		}
		out = append(out, bodyDoc)
	}
	doc["bodies"] = out
	return doc, nil
}

// Serialize converts value into a document.
func (d *Default) Serialize(value interface{}) (interface{}, error) {
	return d.serialize(value, 0)
}

func (d *Default) serialize(value interface{}, depth int) (interface{}, error) {
	if depth > maxDepth {
		return nil, errors.Errorf("value nested deeper than %d levels", maxDepth)
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case Serializable:
		doc, err := v.Serialize()
		if err != nil {
			return nil, err
		}
		// The self-description has to be a plain document too.
		return d.serialize(doc, depth+1)
	case proto.Message:
		return serializeProto(v)
	case r3.Vector:
		return []float64{v.X, v.Y, v.Z}, nil
	case *r3.Vector:
		if v == nil {
			return nil, nil
		}
		return []float64{v.X, v.Y, v.Z}, nil
	case *mat.Dense:
		if v == nil {
			return nil, nil
		}
		return denseRows(v), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case time.Duration:
		return v.Seconds(), nil
	case error:
		return v.Error(), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []interface{}{}, nil
		}
		out := make([]interface{}, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := d.serialize(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := d.serializeKey(iter.Key())
			if err != nil {
				return nil, err
			}
			val, err := d.serialize(iter.Value().Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return d.serialize(rv.Elem().Interface(), depth+1)
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return d.serialize(rv.Elem().Interface(), depth+1)
	default:
		return nil, &UnsupportedTypeError{Type: rv.Type()}
	}
}

// SerializeKey converts a mapping key to its document form.
func (d *Default) SerializeKey(key interface{}) (string, error) {
	return d.serializeKey(reflect.ValueOf(key))
}

func (d *Default) serializeKey(key reflect.Value) (string, error) {
	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(key.Interface()), nil
	case reflect.Invalid:
		return "", &UnsupportedTypeError{Type: nil}
	default:
		return "", &UnsupportedTypeError{Type: key.Type()}
	}
}

func serializeProto(msg proto.Message) (interface{}, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "marshaling %T", msg)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %T", msg)
	}
	return doc, nil
}

func denseRows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, 0, r)
	for i := 0; i < r; i++ {
		rows = append(rows, mat.Row(nil, i, m))
	}
	return rows
}
