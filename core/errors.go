package core

import (
	"errors"
	"fmt"
)

// ErrorKind tags an Error with the failure class callers match on.
type ErrorKind string

const (
	// KindService is a generic or policy failure (e.g. sponsor rejection)
	KindService ErrorKind = "service"

	// KindNetwork is a transport or connectivity failure
	KindNetwork ErrorKind = "network"

	// KindInvalidResponse is a structurally malformed external payload
	KindInvalidResponse ErrorKind = "invalid_response"

	// KindInvalidProof is a cryptographic or binding mismatch
	KindInvalidProof ErrorKind = "invalid_proof"

	// KindJWTFormat is a structurally invalid identity token
	KindJWTFormat ErrorKind = "jwt_format"

	// KindJWTExtraction is a callback parsing failure
	KindJWTExtraction ErrorKind = "jwt_extraction"
)

// Error is the tagged error returned by every public operation.
// Errors are propagated, never swallowed, and the core never retries.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a tagged error with a formatted detail message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError creates a tagged error carrying an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
