// Package transform provides the content transform stages of resume optimization:
// tailoring to a job, ATS scoring and targeted improvement.
package transform

import (
	"context"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/normalize"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Operation names used in errors and logs
const (
	OpTailor  = "tailor"
	OpScore   = "score"
	OpImprove = "improve"
)

// Transformer rewrites and scores resume content against a job description.
// Implementations must be safe for concurrent use.
type Transformer interface {
	// Tailor rewrites summary, experience bullets and skills for the job
	Tailor(ctx context.Context, content types.ResumeContent, jobDescription string, protectedFacts map[string]any) (types.ContentUpdate, error)
	// Score rates the content against the job, 0-100, with a diagnosis
	Score(ctx context.Context, content types.ResumeContent, jobDescription string) (types.ScoreResult, error)
	// Improve rewrites the content following a diagnosis
	Improve(ctx context.Context, content types.ResumeContent, diagnosis types.Diagnosis, jobDescription string, protectedFacts map[string]any) (types.ContentUpdate, error)
}

// Options tune the instructions sent to the model
type Options struct {
	BulletTargets    []int
	MaxSummaryLength int
}

// DefaultOptions returns the standard bullet targets and summary limit
func DefaultOptions() Options {
	return Options{
		BulletTargets:    normalize.DefaultBulletTargets(),
		MaxSummaryLength: normalize.DefaultMaxSummaryLength,
	}
}

// LLMTransformer implements Transformer with an llm.Client
type LLMTransformer struct {
	client llm.Client
	opts   Options
}

// NewLLMTransformer creates a transformer over client
func NewLLMTransformer(client llm.Client, opts Options) *LLMTransformer {
	if opts.MaxSummaryLength <= 0 {
		opts.MaxSummaryLength = normalize.DefaultMaxSummaryLength
	}
	if opts.BulletTargets == nil {
		opts.BulletTargets = normalize.DefaultBulletTargets()
	}
	return &LLMTransformer{client: client, opts: opts}
}

// Tailor rewrites the content for the job description
func (t *LLMTransformer) Tailor(ctx context.Context, content types.ResumeContent, jobDescription string, protectedFacts map[string]any) (types.ContentUpdate, error) {
	data, err := t.promptData(content, jobDescription, protectedFacts)
	if err != nil {
		return types.ContentUpdate{}, err
	}
	raw, err := t.generate(ctx, OpTailor, prompts.KeyTailor, data, llm.TierAdvanced)
	if err != nil {
		return types.ContentUpdate{}, err
	}
	return parseContentUpdate(OpTailor, raw)
}

// Score rates the content for the job description
func (t *LLMTransformer) Score(ctx context.Context, content types.ResumeContent, jobDescription string) (types.ScoreResult, error) {
	sections, err := encodeSections(content, true)
	if err != nil {
		return types.ScoreResult{}, err
	}
	data := map[string]string{
		"Content":        sections,
		"JobDescription": jobDescription,
	}
	raw, err := t.generate(ctx, OpScore, prompts.KeyScore, data, llm.TierStandard)
	if err != nil {
		return types.ScoreResult{}, err
	}
	return parseScore(raw)
}

// Improve rewrites the content following the diagnosis
func (t *LLMTransformer) Improve(ctx context.Context, content types.ResumeContent, diagnosis types.Diagnosis, jobDescription string, protectedFacts map[string]any) (types.ContentUpdate, error) {
	data, err := t.promptData(content, jobDescription, protectedFacts)
	if err != nil {
		return types.ContentUpdate{}, err
	}
	encoded, err := encodeJSON(diagnosis)
	if err != nil {
		return types.ContentUpdate{}, err
	}
	data["Diagnosis"] = encoded

	raw, err := t.generate(ctx, OpImprove, prompts.KeyImprove, data, llm.TierAdvanced)
	if err != nil {
		return types.ContentUpdate{}, err
	}
	return parseContentUpdate(OpImprove, raw)
}

func (t *LLMTransformer) generate(ctx context.Context, op, key string, data map[string]string, tier llm.ModelTier) (string, error) {
	prompt, err := prompts.Render(prompts.OptimizerFile, key, data)
	if err != nil {
		return "", err
	}

	raw, err := t.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &APICallError{
			Operation: op,
			Message:   "failed to generate content",
			Cause:     err,
		}
	}
	return raw, nil
}

var _ Transformer = (*LLMTransformer)(nil)
