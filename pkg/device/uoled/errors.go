package uoled

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrClosed        = errors.New("uoled: connection is closed")
	ErrNotConfigured = errors.New("uoled: transport is not configured")
	ErrAckTimeout    = errors.New("uoled: acknowledgement timeout")
	ErrNak           = errors.New("uoled: command rejected by device")
	ErrUnexpectedAck = errors.New("uoled: unexpected acknowledgement")
)

// ValidationError reports a parameter outside the range a command accepts.
// Nothing has been written to the device when it is returned.
type ValidationError struct {
	Op    string
	Field string
	Value int
	Limit int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %d out of range (limit %d)", e.Op, e.Field, e.Value, e.Limit)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// TransportError wraps a failure of the underlying channel.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("uoled: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Cause() error {
	return e.Err
}

// InitError names the construction step that failed.
type InitError struct {
	Step Step
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("uoled: init %s: %v", e.Step, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func (e *InitError) Cause() error {
	return e.Err
}
