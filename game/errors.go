package game

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation so the transport layer can map it to a
// client-visible response. Every failed precondition check carries a
// specific kind; only KindUnavailable is eligible for caller-side retry.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindInvalidState
	KindNotAMember
	KindInvalidOption
	KindAllocationExhausted
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindNotAMember:
		return "not_a_member"
	case KindInvalidOption:
		return "invalid_option"
	case KindAllocationExhausted:
		return "allocation_exhausted"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// E builds a kinded error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a persistence-layer failure.
func Unavailable(err error, op string) *Error {
	return &Error{Kind: KindUnavailable, Message: op, cause: err}
}

// KindOf extracts the kind from err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
