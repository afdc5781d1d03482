package unit

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// ErrIllegalArgument reports structural misuse through a bad argument.
	ErrIllegalArgument = errors.New("illegal argument")
	// ErrIllegalState reports a call made in the wrong life-cycle state.
	ErrIllegalState = errors.New("illegal state")
)

// ErrThreadDeath is the class of errors that must never be swallowed. It is
// re-raised by Result and by every component that otherwise collects errors.
var ErrThreadDeath = errors.New("thread death")

// AssertionFailedError is raised (as a panic value) by the assertion helpers.
// Result records it as a failure rather than an error.
type AssertionFailedError struct {
	Message string
}

// Error implements the error interface
func (e *AssertionFailedError) Error() string {
	return e.Message
}

// PanicError wraps a panic that was not raised with an error value, or a
// runtime error, together with the stack at the point of recovery.
type PanicError struct {
	Value interface{}
	Stack []byte
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsFailure reports whether err is (or wraps) an assertion failure.
func IsFailure(err error) bool {
	var afe *AssertionFailedError
	return errors.As(err, &afe)
}

// IsThreadDeath reports whether err belongs to the thread-death class.
func IsThreadDeath(err error) bool {
	return errors.Is(err, ErrThreadDeath)
}

// Capture calls fn and converts a panic into the returned error. Error panic
// values are returned as they are, runtime errors and non-error values are
// wrapped in a *PanicError carrying the stack.
func Capture(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	return fn()
}

func recoveredError(r interface{}) error {
	if rerr, ok := r.(runtime.Error); ok {
		return &PanicError{Value: rerr, Stack: debug.Stack()}
	}
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}

// Check panics with err when it is non-nil. Inside a test method this records
// err as an error of the running test.
func Check(err error) {
	if err != nil {
		panic(err)
	}
}
