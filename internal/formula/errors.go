package formula

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds. Every failure in the formula subsystem wraps one of these so
// callers can classify with errors.Is while still reading a human message
// that names the formula and the cause.
var (
	ErrValidation = errors.New("parameter validation failed")
	ErrNotFound   = errors.New("formula not found")
	ErrExecution  = errors.New("formula execution failed")
	ErrTimeout    = errors.New("operation timed out")
)

// ValidationError reports a missing or malformed parameter, detected before
// any row is processed.
type ValidationError struct {
	Formula string
	Param   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: parameter %q: %s", e.Formula, e.Param, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Formula, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// missingParam is the most common validation failure.
func missingParam(formula, param string) error {
	return &ValidationError{Formula: formula, Param: param, Reason: "missing required parameter"}
}

// NotFoundError reports a lookup of an unregistered or disabled formula.
type NotFoundError struct {
	Formula  string
	Disabled bool
}

func (e *NotFoundError) Error() string {
	if e.Disabled {
		return fmt.Sprintf("formula %q is disabled", e.Formula)
	}
	return fmt.Sprintf("formula %q is not registered", e.Formula)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ExecutionError reports a formula-internal failure while processing rows.
type ExecutionError struct {
	Formula string
	Cause   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: execution failed: %v", e.Formula, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return ErrExecution }

// TimeoutError reports a bounded external operation that exceeded its
// deadline, such as a code compile check or a remote source fetch.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s exceeded its %s deadline", e.Op, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }
