package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors.
var (
	// ErrInvalidInput is returned for local validation failures. No network
	// call is made when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated means there is no session, or the server rejected
	// the credential.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnavailable means the server could not be reached or failed without
	// further detail.
	ErrUnavailable = errors.New("service unavailable")

	// ErrNotFound is returned when a note id is not part of the collection.
	ErrNotFound = errors.New("note not found")

	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrSuperseded is returned by a load whose result arrived after a newer
	// load was issued. The result is discarded.
	ErrSuperseded = errors.New("superseded by a newer load")
)

// ErrUnreachable is the name login failures use for ErrUnavailable.
var ErrUnreachable = ErrUnavailable

// RejectedError is a non-2xx response from the remote service.
// Callers can use errors.As to extract it:
//
//	var rejected *core.RejectedError
//	if errors.As(err, &rejected) && rejected.HasMessage() { ... }
type RejectedError struct {
	StatusCode int
	// Message is the server's error detail. Empty when the server sent none.
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected (%d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("request rejected (%d): %s", e.StatusCode, e.Message)
}

// HasMessage reports whether the server supplied an error detail.
func (e *RejectedError) HasMessage() bool { return e.Message != "" }

// IsAuthRejection reports whether the server refused the credential.
func (e *RejectedError) IsAuthRejection() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsAuthRejection reports whether err carries an authentication rejection.
func IsAuthRejection(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected) && rejected.IsAuthRejection()
}

// TransportError is a request that got no response at all: dial failure,
// timeout or cancellation. It matches ErrUnavailable.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUnavailable }

// Unavailable wraps cause so that it matches ErrUnavailable while keeping the
// original error reachable through errors.As.
func Unavailable(cause error) error {
	if cause == nil || errors.Is(cause, ErrUnavailable) {
		return cause
	}
	return &unavailableError{cause: cause}
}

type unavailableError struct{ cause error }

func (e *unavailableError) Error() string        { return fmt.Sprintf("%v: %v", ErrUnavailable, e.cause) }
func (e *unavailableError) Unwrap() error        { return e.cause }
func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }
