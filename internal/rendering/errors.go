// Package rendering turns optimized resume content into a document artifact.
package rendering

import (
	"errors"
	"fmt"
)

// ErrRenderFailure matches any RenderFailure with errors.Is
var ErrRenderFailure = errors.New("render failure")

// RenderFailure is returned when a document cannot be produced, either because
// a required section is missing or because writing the artifact failed
type RenderFailure struct {
	Section string
	Message string
	Cause   error
}

func (e *RenderFailure) Error() string {
	prefix := "render failure"
	if e.Section != "" {
		prefix = fmt.Sprintf("render failure in %s", e.Section)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *RenderFailure) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrRenderFailure
func (e *RenderFailure) Is(target error) bool {
	return target == ErrRenderFailure
}

// TemplateError represents an error parsing or executing a document template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
