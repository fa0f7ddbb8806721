package domain

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so callers can decide whether a
// failure is retryable, user-actionable, or terminal.
type Kind string

const (
	// KindNotConfigured means a required credential is missing. Never retried.
	KindNotConfigured Kind = "config_error"

	// KindPolicyBlocked means the backend's safety filter rejected the
	// request or withheld all output. Never retried.
	KindPolicyBlocked Kind = "policy_block"

	// KindNetwork covers transport/HTTP failures and exhausted retries.
	KindNetwork Kind = "network_error"

	// KindEmptyResponse means the backend succeeded but returned no usable text.
	KindEmptyResponse Kind = "empty_response"

	// KindParse means every structured-recovery strategy, including the
	// AI repair pass, was exhausted.
	KindParse Kind = "parse_error"
)

// Error is the pipeline error type. It carries a Kind for classification
// and optionally wraps an underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a pipeline error with the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: nil}
}

// WrapError creates a pipeline error wrapping an underlying cause.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or KindNetwork if err is not a
// pipeline error (unknown failures are treated as transport-level).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
