package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every chart configuration error.
	ErrInvalidConfig = errors.New("invalid chart configuration")
	// ErrInvalidPoint is wrapped by every record rejected by the resolver.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrFormatter is wrapped by tick formatter failures.
	ErrFormatter = errors.New("tick formatter failed")
)

// PointError describes why a record was excluded from domain and geometry math.
type PointError struct {
	// Index is the position of the rejected record.
	Index int
	// Field is the accessor that failed, empty for ordering violations.
	Field string
	// Reason is the failure description.
	Reason string
	// Err is the underlying accessor error, if any.
	Err error
}

// Error returns the error description.
func (e *PointError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("point %d: %s: %s: %v", e.Index, e.Field, e.Reason, e.Err)
	case e.Field != "":
		return fmt.Sprintf("point %d: %s: %s", e.Index, e.Field, e.Reason)
	default:
		return fmt.Sprintf("point %d: %s", e.Index, e.Reason)
	}
}

// Unwrap returns the errors the point error wraps.
func (e *PointError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidPoint, e.Err}
	}

	return []error{ErrInvalidPoint}
}

// ConfigError returns a configuration error for the provided option.
func ConfigError(option string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, option, fmt.Sprintf(format, args...))
}
