package logged

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError is returned when a planning call carries nothing to derive an environment
// from. No delegate call is made and no record is written.
type ConfigurationError struct {
	Method string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("could not retrieve env from planning request %q: %s", e.Method, e.Reason)
}

// IsConfigurationError reports whether err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
