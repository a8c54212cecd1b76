package wind

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports a user-correctable problem with one input field.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConfigurationError means a closed lookup table was asked for a key it
// does not hold. Reaching it is a programming defect.
type ConfigurationError struct {
	Table string
	Key   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: no entry for %q", e.Table, e.Key)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
