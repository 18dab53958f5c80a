package potential

import (
	"errors"
	"fmt"
)

// Domain errors for potential construction and evaluation.
var (
	// ErrInvalidInput indicates a coordinate that is not a scalar number.
	ErrInvalidInput = errors.New("potential: coordinates must be scalar numbers")

	// ErrUnknownAccessor indicates a dynamic call for an accessor that does not exist.
	ErrUnknownAccessor = errors.New("potential: unknown accessor")

	// ErrInvalidParams indicates construction parameters the model cannot use.
	ErrInvalidParams = errors.New("potential: invalid parameters")
)

// InputError reports which accessor and argument rejected a dynamic call.
type InputError struct {
	Accessor Accessor
	Arg      string
	Got      any
	Wrapped  error
}

func (e *InputError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("%s: %v", e.Accessor, e.Wrapped)
	}
	return fmt.Sprintf("%s: argument %s (%T): %v", e.Accessor, e.Arg, e.Got, e.Wrapped)
}

func (e *InputError) Unwrap() error {
	return e.Wrapped
}

func paramError(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParams, field, fmt.Sprintf(format, args...))
}
