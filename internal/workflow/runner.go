package workflow

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/transform"
	"github.com/jonathan/resume-optimizer/internal/types"
	"go.uber.org/zap"
)

// Result is the outcome of a completed optimization
type Result struct {
	FinalScore     int                 `json:"ats_score"`
	FinalContent   types.ResumeContent `json:"resume"`
	Diagnosis      *types.Diagnosis    `json:"analysis"`
	IterationCount int                 `json:"iterations"`
	ArtifactPath   string              `json:"artifact_path"`
	Passed         bool                `json:"passed"`
}

// Runner runs optimizations with fixed collaborators and configuration.
// It holds no per-run state and is safe for concurrent use.
type Runner struct {
	transformer transform.Transformer
	renderer    rendering.Renderer
	config      Config
	logger      *zap.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the runner's logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner. cfg is validated after defaults are applied.
func NewRunner(t transform.Transformer, r rendering.Renderer, cfg Config, opts ...Option) (*Runner, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transformer is required", ErrInvalidConfig)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: renderer is required", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := &Runner{
		transformer: t,
		renderer:    r,
		config:      cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Config returns the runner's effective configuration
func (r *Runner) Config() Config {
	return r.config
}

// RunOptimization optimizes content against jobDescription and renders the result
func (r *Runner) RunOptimization(ctx context.Context, content types.ResumeContent, jobDescription string, contact types.ContactInfo) (*Result, error) {
	return r.Run(ctx, content, jobDescription, contact, nil)
}

// Run is RunOptimization with a progress callback
func (r *Runner) Run(ctx context.Context, content types.ResumeContent, jobDescription string, contact types.ContactInfo, onProgress ProgressCallback) (*Result, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	if deadline := r.config.Deadline(); deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	state := NewState(content, jobDescription, contact)
	machine := NewMachine(r.transformer, r.renderer, r.config, r.logger, onProgress)

	r.logger.Info("starting optimization",
		zap.Int("experience_entries", len(content.Experience)),
		zap.Int("pass_threshold", r.config.PassThreshold),
		zap.Int("max_loops", r.config.MaxLoops))

	if err := machine.Run(ctx, state); err != nil {
		return nil, err
	}

	result := &Result{
		FinalContent:   state.Content,
		Diagnosis:      state.Diagnosis,
		IterationCount: state.IterationCount,
		ArtifactPath:   state.ArtifactPath,
		Passed:         state.Passed,
	}
	if state.Score != nil {
		result.FinalScore = *state.Score
	}

	r.logger.Info("optimization complete",
		zap.Int("score", result.FinalScore),
		zap.Int("iterations", result.IterationCount),
		zap.Bool("passed", result.Passed),
		zap.String("artifact", result.ArtifactPath))
	return result, nil
}

// ValidateContent rejects content that RENDER would refuse no matter what
// the transforms return. Education is restored from the input after every
// merge, so a missing education section can never be filled in. Experience and
// skills are rebuilt by the merge and need no check.
func ValidateContent(content types.ResumeContent) error {
	if content.Education == nil {
		return &rendering.RenderFailure{Section: "education", Message: "section is missing from the input resume"}
	}
	return nil
}
