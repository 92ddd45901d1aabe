package provider

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks calls rejected before anything was sent.
var ErrInvalidRequest = errors.New("invalid request")

// TransportError covers every failure to obtain a successful HTTP exchange:
// connection errors, non-2xx statuses and an open circuit breaker.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: api error (status %d): %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedResponseError is returned when a 2xx body lacks the fields a call needs.
type UnexpectedResponseError struct {
	Op    string
	Field string
	Err   error
}

func (e *UnexpectedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response structure (%s): %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response structure: missing %s", e.Op, e.Field)
}

func (e *UnexpectedResponseError) Unwrap() error { return e.Err }
