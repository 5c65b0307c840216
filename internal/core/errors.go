package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument is returned for caller errors such as a blank search query or a missing API key.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when the requested catalog item does not exist.
	ErrNotFound = errors.New("not found")
)

// TransportError means no response was received (network, DNS, timeout, cancellation).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteServiceError means the remote service answered with a non-success status.
type RemoteServiceError struct {
	Status  int
	Message string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service error %d: %s", e.Status, e.Message)
}

// Is makes a 404 response match ErrNotFound.
func (e *RemoteServiceError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// DecodeError means a response was received but did not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
