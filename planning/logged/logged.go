// Package logged wraps a planner so that every planning call leaves a YAML record of its
// environment, request and outcome on disk.
package logged

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.opencensus.io/trace"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/personalrobotics/prgo/environment"
	"github.com/personalrobotics/prgo/logging"
	"github.com/personalrobotics/prgo/planning"
	"github.com/personalrobotics/prgo/serialization"
)

// robotKey is the keyword argument checked first for an environment provider.
const robotKey = "robot"

// Option customizes a Planner.
type Option func(*Planner)

// WithClock sets the clock used to name records.
func WithClock(clk clock.Clock) Option {
	return func(lp *Planner) { lp.clock = clk }
}

// WithSerializer sets the serializer for environments and arguments.
func WithSerializer(s serialization.Serializer) Option {
	return func(lp *Planner) { lp.serializer = s }
}

// WithFS sets the filesystem records are written to.
func WithFS(fs afero.Fs) Option {
	return func(lp *Planner) { lp.fs = fs }
}

// Planner forwards to a delegate planner and records every Plan call.
type Planner struct {
	delegate   planning.Planner
	conf       Config
	logger     logging.Logger
	clock      clock.Clock
	serializer serialization.Serializer
	fs         afero.Fs
}

var _ planning.MetaPlanner = (*Planner)(nil)

// NewPlanner wraps delegate. The record directory is created if missing.
func NewPlanner(delegate planning.Planner, conf Config, logger logging.Logger, opts ...Option) (*Planner, error) {
	if delegate == nil {
		return nil, errors.New("logged planner needs a delegate")
	}
	if err := conf.Validate("planning_log"); err != nil {
		return nil, err
	}
	lp := &Planner{
		delegate:   delegate,
		conf:       conf.withDefaults(),
		logger:     logger,
		clock:      clock.New(),
		serializer: serialization.NewDefault(),
		fs:         afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(lp)
	}
	if err := lp.fs.MkdirAll(lp.conf.Directory, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating planning record directory %q", lp.conf.Directory)
	}
	return lp, nil
}

func (lp *Planner) String() string {
	return fmt.Sprintf("Logged(%s)", lp.delegate)
}

// HasPlanningMethod asks the delegate.
func (lp *Planner) HasPlanningMethod(methodName string) bool {
	return lp.delegate.HasPlanningMethod(methodName)
}

// PlanningMethodNames asks the delegate.
func (lp *Planner) PlanningMethodNames() []string {
	return lp.delegate.PlanningMethodNames()
}

// Planners returns the delegate.
func (lp *Planner) Planners(methodName string) []planning.Planner {
	return []planning.Planner{lp.delegate}
}

// outcome is what the delegate produced, held until the record is written and then handed back
// to the caller untouched.
type outcome struct {
	traj     planning.Trajectory
	err      error
	panicked bool
	panicVal interface{}
}

func (lp *Planner) invoke(
	ctx context.Context,
	methodName string,
	args []interface{},
	kwargs map[string]interface{},
) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{panicked: true, panicVal: r}
		}
	}()
	traj, err := lp.delegate.Plan(ctx, methodName, args, kwargs)
	return outcome{traj: traj, err: err}
}

// Plan runs methodName on the delegate and writes a record of the call before returning exactly
// what the delegate returned. A successful trajectory is tagged with the record's path.
func (lp *Planner) Plan(
	ctx context.Context,
	methodName string,
	args []interface{},
	kwargs map[string]interface{},
) (planning.Trajectory, error) {
	ctx, span := trace.StartSpan(ctx, "logged.Plan")
	defer span.End()
	span.AddAttributes(
		trace.StringAttribute("method", methodName),
		trace.StringAttribute("delegate", lp.delegate.String()),
	)

	name := RecordName(lp.conf.FilePrefix, lp.clock.Now())

	env, err := environmentFromRequest(methodName, args, kwargs)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Environment: lp.serializeEnvironment(env),
		Request:     lp.serializeRequest(methodName, args, kwargs),
	}

	out := lp.invoke(ctx, methodName, args, kwargs)
	record.Result = lp.classify(out)

	path, err := lp.writeRecord(name, record)
	span.AddAttributes(trace.StringAttribute("record", path), trace.BoolAttribute("ok", record.Result.OK))
	if err != nil {
		lp.logger.Errorw("failed to write planning record", "method", methodName, "record", name, "error", err)
	} else {
		lp.logger.CDebugw(ctx, "wrote planning record", "method", methodName, "record", path, "ok", record.Result.OK)
	}

	if out.panicked {
		panic(out.panicVal)
	}
	if record.Result.OK && err == nil {
		out.traj.SetTags(map[string]interface{}{planning.TagLogFile: path}, true)
	}
	return out.traj, out.err
}

func environmentFromRequest(methodName string, args []interface{}, kwargs map[string]interface{}) (environment.Environment, error) {
	var provider environment.Provider
	if robot, ok := kwargs[robotKey].(environment.Provider); ok {
		provider = robot
	} else if len(args) > 0 {
		if first, ok := args[0].(environment.Provider); ok {
			provider = first
		}
	}
	if provider == nil {
		return nil, &ConfigurationError{
			Method: methodName,
			Reason: "no robot keyword argument and first argument does not provide an environment",
		}
	}
	env := provider.Env()
	if env == nil {
		return nil, &ConfigurationError{Method: methodName, Reason: "environment provider returned no environment"}
	}
	return env, nil
}

func (lp *Planner) serializeEnvironment(env environment.Environment) map[string]interface{} {
	doc, err := lp.serializer.SerializeEnvironment(env, true)
	if err != nil {
		lp.logger.Warnw("failed to serialize planning environment", "uri", env.URI(), "error", err)
		return map[string]interface{}{"uri": env.URI(), "error": err.Error()}
	}
	return doc
}

// serializeValue never fails: a value without a document form is replaced by the description of
// why it could not be serialized.
func (lp *Planner) serializeValue(value interface{}) (doc interface{}, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			doc, ok = fmt.Sprintf("panic while serializing %T: %v", value, r), false
		}
	}()
	doc, err := lp.serializer.Serialize(value)
	if err != nil {
		return err.Error(), false
	}
	return doc, true
}

func (lp *Planner) serializeRequest(methodName string, args []interface{}, kwargs map[string]interface{}) Request {
	req := Request{
		Method:  methodName,
		Planner: lp.delegate.String(),
		Args:    make([]interface{}, 0, len(args)),
		KwArgs:  make(map[string]interface{}, len(kwargs)),
	}
	for _, arg := range args {
		doc, _ := lp.serializeValue(arg)
		req.Args = append(req.Args, doc)
	}

	keys := make([]string, 0, len(kwargs))
	for key := range kwargs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		doc, ok := lp.serializeValue(kwargs[key])
		if !ok {
			doc = fmt.Sprintf("Error: %v", doc)
		}
		req.KwArgs[key] = doc
	}
	return req
}

func (lp *Planner) classify(out outcome) Result {
	switch {
	case out.panicked:
		return Result{OK: false, Exception: UnknownException}
	case out.err != nil:
		if planning.IsPlanningError(out.err) {
			return Result{OK: false, Exception: out.err.Error()}
		}
		return Result{OK: false, Exception: UnknownException}
	case out.traj == nil:
		return Result{OK: false, Exception: UnknownException}
	}

	res, err := inspectTrajectory(out.traj)
	if err != nil {
		lp.logger.Warnw("delegate returned an unusable trajectory", "planner", lp.delegate.String(), "error", err)
		return Result{OK: false, Exception: UnknownException}
	}
	return res
}

// inspectTrajectory reads the recorded fields off a delegate's trajectory. Typed nils and
// trajectories that panic when read come back as errors.
func inspectTrajectory(traj planning.Trajectory) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, errors.Errorf("reading %T panicked: %v", traj, r)
		}
	}()
	first, last, err := planning.FirstAndLast(traj)
	if err != nil {
		return Result{}, err
	}
	plannerUsed, _ := traj.Tag(planning.TagPlanner)
	return Result{OK: true, PlannerUsed: plannerUsed, TrajFirst: first, TrajLast: last}, nil
}

// writeRecord creates the record file, encodes record into it and closes it. The file is closed
// on every path.
func (lp *Planner) writeRecord(name string, record *Record) (path string, err error) {
	f, path, err := createRecordFile(lp.fs, lp.conf.Directory, name, !lp.conf.DisableDisambiguation)
	if err != nil {
		return "", err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	if err := encodeRecord(f, record); err != nil {
		return path, errors.Wrapf(err, "encoding planning record %q", path)
	}
	return path, nil
}

// encodeRecord turns yaml encoder panics on values it cannot represent into errors.
func encodeRecord(w io.Writer, record *Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("yaml encoder panicked: %v", r)
		}
	}()
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return err
	}
	return enc.Close()
}
