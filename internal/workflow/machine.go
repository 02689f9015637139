package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-optimizer/internal/normalize"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/transform"
	"github.com/jonathan/resume-optimizer/internal/types"
	"go.uber.org/zap"
)

// ProgressEvent reports the completion of a machine stage
type ProgressEvent struct {
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
	Score     *int   `json:"score,omitempty"`
	Iteration int    `json:"iteration"`
}

// ProgressCallback is called after each stage completes
type ProgressCallback func(event ProgressEvent)

// Machine drives a State from TAILOR to completion
type Machine struct {
	transformer transform.Transformer
	renderer    rendering.Renderer
	config      Config
	logger      *zap.Logger
	onProgress  ProgressCallback
}

// NewMachine creates a machine. A nil logger is replaced with a no-op logger.
func NewMachine(t transform.Transformer, r rendering.Renderer, cfg Config, logger *zap.Logger, onProgress ProgressCallback) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		transformer: t,
		renderer:    r,
		config:      cfg.withDefaults(),
		logger:      logger,
		onProgress:  onProgress,
	}
}

// Run executes stages until RENDER completes or a step fails. On failure the
// state keeps the content of the last successful step.
func (m *Machine) Run(ctx context.Context, state *State) error {
	for state.Stage != StageDone {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: state.Stage, Iteration: state.IterationCount, Cause: err}
		}

		var err error
		switch state.Stage {
		case StageTailor:
			err = m.tailor(ctx, state)
		case StageScore:
			err = m.score(ctx, state)
		case StageImprove:
			err = m.improve(ctx, state)
		case StageRender:
			err = m.render(ctx, state)
		default:
			err = fmt.Errorf("unknown stage %q", state.Stage)
		}
		if err != nil {
			m.logger.Warn("workflow step failed",
				zap.String("stage", string(state.Stage)),
				zap.Int("iteration", state.IterationCount),
				zap.Error(err))
			return &StageError{Stage: state.Stage, Iteration: state.IterationCount, Cause: err}
		}
	}
	return nil
}

func (m *Machine) tailor(ctx context.Context, state *State) error {
	stepCtx, cancel := m.stepContext(ctx)
	defer cancel()

	start := time.Now()
	update, err := m.transformer.Tailor(stepCtx, state.Content.Clone(), state.JobDescription, state.protectedFacts())
	if err != nil {
		return fmt.Errorf("tailor: %w", err)
	}
	m.apply(state, update)

	m.logger.Info("tailored resume",
		zap.Int("experience_entries", len(state.Content.Experience)),
		zap.Int("skill_categories", len(state.Content.Skills)),
		zap.Duration("elapsed", time.Since(start)))
	state.Stage = StageScore
	m.emit(state, StageTailor, "Tailored resume to job description")
	return nil
}

func (m *Machine) score(ctx context.Context, state *State) error {
	stepCtx, cancel := m.stepContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := m.transformer.Score(stepCtx, state.Content.Clone(), state.JobDescription)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	score := result.Score
	diagnosis := result.Diagnosis
	state.Score = &score
	state.Diagnosis = &diagnosis

	decision := CheckScore(score, state.IterationCount, m.config.PassThreshold, m.config.MaxLoops)
	state.Passed = decision == DecisionPass
	state.Stage = decision.Next()

	m.logger.Info("scored resume",
		zap.Int("score", score),
		zap.Int("threshold", m.config.PassThreshold),
		zap.Int("iteration", state.IterationCount),
		zap.String("decision", string(decision)),
		zap.Duration("elapsed", time.Since(start)))
	m.emit(state, StageScore, fmt.Sprintf("ATS score %d/100 (%s)", score, decision))
	return nil
}

func (m *Machine) improve(ctx context.Context, state *State) error {
	if state.Diagnosis == nil {
		return fmt.Errorf("improve: no diagnosis available")
	}

	stepCtx, cancel := m.stepContext(ctx)
	defer cancel()

	start := time.Now()
	update, err := m.transformer.Improve(stepCtx, state.Content.Clone(), *state.Diagnosis, state.JobDescription, state.protectedFacts())
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}
	m.apply(state, update)
	state.IterationCount++

	m.logger.Info("improved resume",
		zap.Int("iteration", state.IterationCount),
		zap.Int("missing_keywords", len(state.Diagnosis.MissingKeywords)),
		zap.Duration("elapsed", time.Since(start)))
	state.Stage = StageScore
	m.emit(state, StageImprove, fmt.Sprintf("Improvement pass %d applied", state.IterationCount))
	return nil
}

func (m *Machine) render(ctx context.Context, state *State) error {
	stepCtx, cancel := m.stepContext(ctx)
	defer cancel()

	path, err := m.renderer.Render(stepCtx, state.Content.Clone(), state.Contact)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	state.ArtifactPath = path
	state.Success = true
	state.Stage = StageDone

	m.logger.Info("rendered resume", zap.String("artifact", path))
	m.emit(state, StageRender, "Rendered final resume")
	return nil
}

// apply merges a transform update into the state and re-asserts every
// invariant: normalized skills, bullet counts, summary length, frozen
// education and frozen experience facts.
func (m *Machine) apply(state *State, update types.ContentUpdate) {
	experience := mergeExperience(state.ExperienceFacts, state.Content.Experience, update.Experience)

	state.Content = types.ResumeContent{
		Summary:    normalize.ClampSummary(update.Summary, m.config.MaxSummaryLength),
		Experience: normalize.NormalizeBulletCounts(experience, m.config.BulletTargets),
		Education:  types.CloneEducation(state.OriginalEducation),
		Skills:     normalize.NormalizeSkills(update.Skills),
	}
}

// mergeExperience takes bullets from updated and everything else from facts.
// The result always has one entry per original fact, in original order; an
// entry missing from updated keeps its current bullets, and extra entries in
// updated are dropped.
func mergeExperience(facts []types.ExperienceFacts, current, updated []types.ExperienceEntry) []types.ExperienceEntry {
	out := make([]types.ExperienceEntry, len(facts))
	for i, f := range facts {
		var bullets []string
		switch {
		case i < len(updated) && updated[i].Bullets != nil:
			bullets = updated[i].Bullets
		case i < len(current):
			bullets = current[i].Bullets
		}
		out[i] = types.ExperienceEntry{
			Title:    f.Title,
			Company:  f.Company,
			Location: f.Location,
			Dates:    f.Dates,
			Bullets:  append([]string{}, bullets...),
		}
	}
	return out
}

func (m *Machine) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.config.StepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.config.StepTimeout)
}

// emit calls the progress callback if configured
func (m *Machine) emit(state *State, stage Stage, message string) {
	if m.onProgress == nil {
		return
	}
	var score *int
	if state.Score != nil {
		s := *state.Score
		score = &s
	}
	m.onProgress(ProgressEvent{
		Stage:     stage,
		Message:   message,
		Score:     score,
		Iteration: state.IterationCount,
	})
}
