package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a call rejected before any I/O.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedBody marks a 2xx response whose body could not be used.
	ErrMalformedBody = errors.New("malformed response body")
)

// RemoteError is the only error kind returned by Client operations.
// Transport failures, non-2xx statuses and malformed bodies all surface
// as a RemoteError; StatusCode is zero when no response was received.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: API %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op string, status int, err error) *RemoteError {
	return &RemoteError{Op: op, StatusCode: status, Err: err}
}
