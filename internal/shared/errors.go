// Package shared defines the closed set of error kinds used across the
// service. Every failure that can cross a layer boundary is wrapped into an
// *Error carrying one of these kinds; the HTTP layer owns the mapping from
// kind to status code. Callers should use errors.As / KindOf to match.
package shared

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the closed set of failure modes.
type Kind int

const (
	// KindInternal covers unexpected failures: hashing/signing errors,
	// unclassified database errors.
	KindInternal Kind = iota

	// KindBadRequest covers input validation failures.
	KindBadRequest

	// KindUnauthorized covers missing/invalid/expired credentials and
	// wrong passwords.
	KindUnauthorized

	// KindForbidden means authenticated but lacking the required privilege.
	KindForbidden

	// KindConflict means a uniqueness constraint was violated on create.
	KindConflict

	// KindUnavailable means the database is unreachable at startup.
	KindUnavailable

	// KindSchemaMismatch means the database is reachable but the users
	// table does not match the expected shape. Startup-fatal.
	KindSchemaMismatch
)

// String returns the label used in error messages and HTTP bodies.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "service unavailable"
	case KindSchemaMismatch:
		return "schema mismatch"
	default:
		return "internal server error"
	}
}

// Error is a kind-tagged error with a human-readable message and an optional
// wrapped cause. The cause is kept for logs and errors.Is chains; only the
// formatted message is ever exposed to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error of the given kind with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind that keeps err as the cause. The
// cause is folded into the message so operators see it, but it stays
// reachable through errors.Unwrap.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

// KindOf extracts the kind from err. Errors that were never classified are
// reported as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
