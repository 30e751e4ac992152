package domain

import (
	"errors"
	"fmt"
)

// ErrTransport matches every failure where the backend could not be reached or its
// reply could not be understood.
var ErrTransport = errors.New("backend unreachable")

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// RejectedError is an application-level refusal (status "error") from the backend.
type RejectedError struct {
	Op      string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return e.Op + ": rejected"
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
