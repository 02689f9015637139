package transform

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput matches any MalformedOutputError with errors.Is
var ErrMalformedOutput = errors.New("malformed transform output")

// MalformedOutputError is returned when a transform response cannot be
// interpreted as the expected shape
type MalformedOutputError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *MalformedOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s output: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed %s output: %s", e.Operation, e.Message)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrMalformedOutput
func (e *MalformedOutputError) Is(target error) bool {
	return target == ErrMalformedOutput
}

// APICallError represents a failure calling the model provider
type APICallError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call failed: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call failed: %s", e.Operation, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
