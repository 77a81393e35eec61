package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession means no token is stored; the caller should route the
	// user to the login screen. The network is never touched in this case.
	ErrNoSession = errors.New("no session token")
	// ErrUnauthorized covers rejected credentials and rejected tokens.
	ErrUnauthorized = errors.New("invalid credentials or token")
	// ErrNotFound means the target task no longer exists server-side.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyTitle is returned before any request is sent.
	ErrEmptyTitle = errors.New("title must not be empty")
)

// NetworkError wraps a transport or timeout failure. These are retryable
// by the user; the client itself never retries.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is any non-2xx response not covered by the auth/not-found
// sentinels.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// IsAuth reports whether err should send the user back to the login screen.
func IsAuth(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrUnauthorized)
}
