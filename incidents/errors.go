package incidents

import (
	"errors"
	"fmt"
)

// Kind classifies an incident error so callers can pick a response without
// looking at store specific errors.
type Kind int

// Error kinds
const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindLoadFailed
	KindWriteFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNotFound:
		return "not found"
	case KindLoadFailed:
		return "load failed"
	case KindWriteFailed:
		return "write failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Service operation. Message is safe to show to a
// user; Err keeps the underlying cause for the logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, ErrNotFound) matches any not found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrNotFound is returned when an incident does not exist
	ErrNotFound = &Error{Kind: KindNotFound, Message: "Incident not found"}
	// ErrInvalidInput is returned when a request fails validation
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Message: "Invalid incident request"}
)

// Fixed user facing messages
const (
	msgLoadFailed         = "Failed to load incidents"
	msgCreateFailed       = "Failed to submit incident report"
	msgStatusFailed       = "Failed to update incident status"
	msgPoliceReportFailed = "Failed to update police report number"
	msgDeleteFailed       = "Failed to delete incident"
	msgBulkStatusFailed   = "Failed to update incidents"
	msgBulkDeleteFailed   = "Failed to delete incidents"
)

func invalid(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func loadFailed(err error) *Error {
	return &Error{Kind: KindLoadFailed, Message: msgLoadFailed, Err: err}
}

func writeFailed(message string, err error) *Error {
	return &Error{Kind: KindWriteFailed, Message: message, Err: err}
}
