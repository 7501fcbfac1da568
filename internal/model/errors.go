package model

import "fmt"

// InputError reports input rejected before any analysis stage ran. There is
// never a partial result alongside one.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// NewInputError builds an InputError with a formatted reason.
func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigError reports an invalid configuration value. These are fatal at
// startup and never occur at call time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}
