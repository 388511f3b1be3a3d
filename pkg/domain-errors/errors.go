// Package domainerrors defines the coded errors every service returns.
//
// All failures are explicit values; nothing in the core panics or retries.
// Each code maps to one numeric result in the external contract, so callers
// can branch on HasCode without string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeUnauthorized: wrong owner, not the administrator, or missing role.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden: inactive vessel, blacklisted registrant, unverified catch.
	CodeForbidden Code = "FORBIDDEN"
	// CodeNotFound: unknown vessel, quota record, or catch.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict: quota insufficient for the requested amount.
	CodeConflict Code = "CONFLICT"
	// CodeExpired: quota or certification validity window elapsed.
	CodeExpired Code = "EXPIRED"
	// CodeInvalidInput: malformed identifier or payload at a trust boundary.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeInvariantViolation: a post-check mutation failed. Unreachable under
	// serialized execution; its appearance signals a concurrency-control defect.
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	// CodeInternal: infrastructure failure (store, transport).
	CodeInternal Code = "INTERNAL"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code, defaulting to CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a coded error onto the numeric result contract. Invariant
// violations surface as 500 alongside infrastructure failures: both mean the
// caller's request was well-formed and the system is at fault.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeExpired:
		return http.StatusGone
	case CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
