package workflow

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/transform"
)

// ErrMalformedTransformOutput matches transform output that could not be interpreted
var ErrMalformedTransformOutput = transform.ErrMalformedOutput

// ErrInvalidConfig is returned for out-of-range workflow configuration
var ErrInvalidConfig = errors.New("invalid workflow config")

// StageError records the stage a run aborted in
type StageError struct {
	Stage     Stage
	Iteration int
	Cause     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("workflow failed at %s (iteration %d): %v", e.Stage, e.Iteration, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
