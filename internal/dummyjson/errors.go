package dummyjson

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the client-side rate limiter gives up
// waiting, usually because the context was canceled.
var ErrRateLimited = errors.New("rate limiter wait aborted")

// TransportError reports a failure to reach the API at all: DNS, dial,
// TLS, timeout, or a truncated body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError reports a non-2xx response.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: API error (HTTP %d): %s", e.Op, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a ServerError with status 404.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.StatusCode == 404
}
