package workflow

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-optimizer/internal/normalize"
)

// Config holds the workflow tuning knobs
type Config struct {
	PassThreshold    int           `json:"pass_threshold" mapstructure:"pass_threshold"`
	MaxLoops         int           `json:"max_loops" mapstructure:"max_loops"`
	BulletTargets    []int         `json:"bullet_targets" mapstructure:"bullet_targets"`
	MaxSummaryLength int           `json:"max_summary_length" mapstructure:"max_summary_length"`
	StepTimeout      time.Duration `json:"step_timeout" mapstructure:"step_timeout"`
}

// DefaultStepTimeout bounds a single transform or render call
const DefaultStepTimeout = 2 * time.Minute

// DefaultConfig returns the standard workflow configuration
func DefaultConfig() Config {
	return Config{
		PassThreshold:    85,
		MaxLoops:         1,
		BulletTargets:    normalize.DefaultBulletTargets(),
		MaxSummaryLength: normalize.DefaultMaxSummaryLength,
		StepTimeout:      DefaultStepTimeout,
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		return fmt.Errorf("%w: pass threshold must be between 0 and 100, got %d", ErrInvalidConfig, c.PassThreshold)
	}
	if c.MaxLoops < 0 {
		return fmt.Errorf("%w: max loops must be non-negative, got %d", ErrInvalidConfig, c.MaxLoops)
	}
	if c.MaxSummaryLength <= 0 {
		return fmt.Errorf("%w: max summary length must be positive, got %d", ErrInvalidConfig, c.MaxSummaryLength)
	}
	for i, target := range c.BulletTargets {
		if target < 0 {
			return fmt.Errorf("%w: bullet target %d is negative (%d)", ErrInvalidConfig, i, target)
		}
	}
	if c.StepTimeout < 0 {
		return fmt.Errorf("%w: step timeout must be non-negative, got %s", ErrInvalidConfig, c.StepTimeout)
	}
	return nil
}

// withDefaults fills unset fields from DefaultConfig. Zero PassThreshold and
// MaxLoops are meaningful values and are kept.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BulletTargets == nil {
		c.BulletTargets = def.BulletTargets
	}
	if c.MaxSummaryLength == 0 {
		c.MaxSummaryLength = def.MaxSummaryLength
	}
	if c.StepTimeout == 0 {
		c.StepTimeout = def.StepTimeout
	}
	return c
}

// Deadline is the overall time budget of one run: one tailor, one render and a
// score plus improve per loop, with one extra score.
func (c Config) Deadline() time.Duration {
	return c.StepTimeout * time.Duration(2*c.MaxLoops+3)
}
