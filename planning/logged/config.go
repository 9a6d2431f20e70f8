package logged

import (
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const (
	defaultDirectory  = "."
	defaultFilePrefix = "log"
)

// Config controls where planning records are written.
type Config struct {
	// Directory receives one record file per planning call.
	Directory string `json:"directory,omitempty" env:"PRGO_PLANLOG_DIR"`
	// FilePrefix starts every record file name.
	FilePrefix string `json:"file_prefix,omitempty" env:"PRGO_PLANLOG_PREFIX"`
	// DisableDisambiguation turns off the random suffix added when two calls land on the same
	// microsecond. With it set, the second call gets no record.
	DisableDisambiguation bool `json:"disable_disambiguation,omitempty" env:"PRGO_PLANLOG_NO_DISAMBIGUATE"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if strings.ContainsRune(conf.FilePrefix, filepath.Separator) || strings.ContainsRune(conf.FilePrefix, '/') {
		return errors.Errorf("%s: file_prefix %q must not contain a path separator", path, conf.FilePrefix)
	}
	return nil
}

func (conf Config) withDefaults() Config {
	if conf.Directory == "" {
		conf.Directory = defaultDirectory
	}
	if conf.FilePrefix == "" {
		conf.FilePrefix = defaultFilePrefix
	}
	return conf
}

// ConfigFromAttributes decodes a config from a loosely typed attribute map, e.g. one section of a
// larger JSON robot config.
func ConfigFromAttributes(attributes map[string]interface{}) (*Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "decoding planning log config")
	}
	if err := conf.Validate("planning_log"); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ConfigFromEnv reads the config from PRGO_PLANLOG_* environment variables.
func ConfigFromEnv() (*Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if err := conf.Validate("env"); err != nil {
		return nil, err
	}
	return &conf, nil
}
