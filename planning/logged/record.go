package logged

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// UnknownException is recorded in place of the description of an unclassified failure.
const UnknownException = "unknown exception type"

// Record is the document written for one planning call.
type Record struct {
	Environment map[string]interface{} `yaml:"environment"`
	Request     Request                `yaml:"request"`
	Result      Result                 `yaml:"result"`
}

// Request is the serialized form of the planning call.
type Request struct {
	Method  string                 `yaml:"method"`
	Planner string                 `yaml:"planner"`
	Args    []interface{}          `yaml:"args"`
	KwArgs  map[string]interface{} `yaml:"kw_args"`
}

// Result is the outcome of the planning call.
type Result struct {
	OK          bool        `yaml:"ok"`
	PlannerUsed interface{} `yaml:"planner_used,omitempty"`
	TrajFirst   []float64   `yaml:"traj_first,omitempty"`
	TrajLast    []float64   `yaml:"traj_last,omitempty"`
	Exception   string      `yaml:"exception,omitempty"`
}

type successResult struct {
	OK          bool        `yaml:"ok"`
	PlannerUsed interface{} `yaml:"planner_used"`
	TrajFirst   []float64   `yaml:"traj_first"`
	TrajLast    []float64   `yaml:"traj_last"`
}

type failureResult struct {
	OK        bool   `yaml:"ok"`
	Exception string `yaml:"exception"`
}

// MarshalYAML writes only the fields that belong to the outcome.
func (r Result) MarshalYAML() (interface{}, error) {
	if r.OK {
		return successResult{OK: true, PlannerUsed: r.PlannerUsed, TrajFirst: r.TrajFirst, TrajLast: r.TrajLast}, nil
	}
	return failureResult{OK: false, Exception: r.Exception}, nil
}

// ReadRecord loads a record written by a logged planner.
func ReadRecord(fs afero.Fs, path string) (*Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, "parsing planning record %q", path)
	}
	return &rec, nil
}

// ListRecords returns the paths of the records in dir whose names start with prefix, oldest
// first.
func ListRecords(fs afero.Fs, dir, prefix string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, recordExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
