package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur during a scrape
type ErrorType string

const (
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeBrowser    ErrorType = "browser"
	ErrorTypeStale      ErrorType = "stale"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error carries the failing operation and its type alongside the cause
type Error struct {
	Type ErrorType
	Op   string
	Err  error
}

// New creates a typed error for the given operation
func New(errType ErrorType, op string, err error) *Error {
	return &Error{Type: errType, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Type, e.Op)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Type, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same type, so callers can test with
// errors.Is(err, &Error{Type: ErrorTypeStale}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Op == "" || t.Op == e.Op)
}

// TypeOf returns the type of the first *Error in the chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRecoverable reports whether an error only affects a single item or day.
// Stale references and absent elements are recoverable; everything else ends the run.
func IsRecoverable(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeStale, ErrorTypeNotFound:
		return true
	default:
		return false
	}
}
