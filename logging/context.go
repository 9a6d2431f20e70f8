package logging

import "context"

type debugModeKey struct{}

// EnableDebugMode returns a context under which CDebugw logs whatever the logger's level.
func EnableDebugMode(ctx context.Context) context.Context {
	return context.WithValue(ctx, debugModeKey{}, true)
}

// IsDebugMode reports whether ctx came from EnableDebugMode.
func IsDebugMode(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	on, _ := ctx.Value(debugModeKey{}).(bool)
	return on
}
