// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/normalize"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
	"github.com/jonathan/resume-optimizer/internal/workflow"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RESUME_OPT_PORT
const EnvPrefix = "RESUME_OPT"

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Job input: a text file path or a posting URL
	Job    string `mapstructure:"job"`
	JobURL string `mapstructure:"job_url" validate:"omitempty,url"`

	// Candidate Info
	UserID   string `mapstructure:"user_id"`
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	Phone    string `mapstructure:"phone"`
	LinkedIn string `mapstructure:"linkedin"`
	GitHub   string `mapstructure:"github"`

	// Output
	Format    string `mapstructure:"format" validate:"omitempty,oneof=docx word tex latex html htm"`
	OutputDir string `mapstructure:"output_dir"`

	// Model provider
	LLM LLMConfig `mapstructure:"llm"`

	// Workflow tuning
	Workflow WorkflowConfig `mapstructure:"workflow"`

	// Server
	Port           int             `mapstructure:"port" validate:"min=0,max=65535"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	DatabaseURL    string          `mapstructure:"database_url"` // PostgreSQL connection URL
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`

	// Behavior
	Verbose bool `mapstructure:"verbose"` // Print detailed progress information
	LogJSON bool `mapstructure:"log_json"`
}

// LLMConfig selects the model provider and optional per-tier model overrides
type LLMConfig struct {
	Provider    string            `mapstructure:"provider"`
	APIKey      string            `mapstructure:"api_key"`
	Models      map[string]string `mapstructure:"models"`
	Temperature float64           `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int64             `mapstructure:"max_tokens" validate:"min=0"`
}

// WorkflowConfig mirrors workflow.Config in file form
type WorkflowConfig struct {
	PassThreshold    int           `mapstructure:"pass_threshold" validate:"min=0,max=100"`
	MaxLoops         int           `mapstructure:"max_loops" validate:"min=0"`
	BulletTargets    []int         `mapstructure:"bullet_targets" validate:"dive,min=0"`
	MaxSummaryLength int           `mapstructure:"max_summary_length" validate:"min=1"`
	StepTimeout      time.Duration `mapstructure:"step_timeout" validate:"min=0"`
}

// RateLimitConfig controls per-client request limits on the server
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	DefaultLimit   int           `mapstructure:"default_limit" validate:"min=0"`
	DefaultWindow  time.Duration `mapstructure:"default_window" validate:"min=0"`
	OptimizeLimit  int           `mapstructure:"optimize_limit" validate:"min=0"`
	OptimizeWindow time.Duration `mapstructure:"optimize_window" validate:"min=0"`
	OptimizeBurst  int           `mapstructure:"optimize_burst" validate:"min=0"`
	Whitelist      []string      `mapstructure:"whitelist" validate:"dive,ip"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	wf := workflow.DefaultConfig()
	rl := ratelimit.DefaultConfig()
	return Config{
		Format:    string(rendering.FormatDOCX),
		OutputDir: rendering.DefaultOutputDir,
		LLM: LLMConfig{
			Provider:    string(llm.ProviderOpenAI),
			Temperature: llm.DefaultConfig().Temperature,
			MaxTokens:   llm.DefaultConfig().MaxTokens,
		},
		Workflow: WorkflowConfig{
			PassThreshold:    wf.PassThreshold,
			MaxLoops:         wf.MaxLoops,
			BulletTargets:    wf.BulletTargets,
			MaxSummaryLength: wf.MaxSummaryLength,
			StepTimeout:      wf.StepTimeout,
		},
		Port:           8080,
		AllowedOrigins: []string{"*"},
		RateLimit: RateLimitConfig{
			Enabled:        rl.Enabled,
			DefaultLimit:   rl.DefaultLimit,
			DefaultWindow:  rl.DefaultWindow,
			OptimizeLimit:  rl.OptimizeLimit,
			OptimizeWindow: rl.OptimizeWindow,
			OptimizeBurst:  rl.OptimizeBurst,
		},
	}
}

// newViper returns a viper instance carrying every default and env binding
func newViper() *viper.Viper {
	d := Defaults()
	v := viper.New()

	v.SetDefault("job", "")
	v.SetDefault("job_url", "")
	v.SetDefault("user_id", "")
	v.SetDefault("name", "")
	v.SetDefault("email", "")
	v.SetDefault("phone", "")
	v.SetDefault("linkedin", "")
	v.SetDefault("github", "")
	v.SetDefault("format", d.Format)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.models", map[string]string{})
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("workflow.pass_threshold", d.Workflow.PassThreshold)
	v.SetDefault("workflow.max_loops", d.Workflow.MaxLoops)
	v.SetDefault("workflow.bullet_targets", d.Workflow.BulletTargets)
	v.SetDefault("workflow.max_summary_length", d.Workflow.MaxSummaryLength)
	v.SetDefault("workflow.step_timeout", d.Workflow.StepTimeout)
	v.SetDefault("port", d.Port)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("database_url", "")
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.default_limit", d.RateLimit.DefaultLimit)
	v.SetDefault("rate_limit.default_window", d.RateLimit.DefaultWindow)
	v.SetDefault("rate_limit.optimize_limit", d.RateLimit.OptimizeLimit)
	v.SetDefault("rate_limit.optimize_window", d.RateLimit.OptimizeWindow)
	v.SetDefault("rate_limit.optimize_burst", d.RateLimit.OptimizeBurst)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("verbose", false)
	v.SetDefault("log_json", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")

	return v
}

// Load reads configuration from path (JSON or YAML, chosen by extension) layered
// over defaults and RESUME_OPT_* environment variables. An empty path loads
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required inputs are checked by the commands after flags are merged.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: invalid value for '%s' (%s)", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.LLM.Provider != "" {
		if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	for tier := range c.LLM.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q (want lite, standard or advanced)", tier)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.Name == "" {
		result.Name = defaults.Name
	}
	if result.Email == "" {
		result.Email = defaults.Email
	}
	if result.Phone == "" {
		result.Phone = defaults.Phone
	}
	if result.LinkedIn == "" {
		result.LinkedIn = defaults.LinkedIn
	}
	if result.GitHub == "" {
		result.GitHub = defaults.GitHub
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if len(result.LLM.Models) == 0 {
		result.LLM.Models = defaults.LLM.Models
	}

	// Numeric fields: use default if zero
	if result.LLM.MaxTokens == 0 {
		result.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Workflow.MaxSummaryLength == 0 {
		result.Workflow.MaxSummaryLength = defaults.Workflow.MaxSummaryLength
	}
	if result.Workflow.StepTimeout == 0 {
		result.Workflow.StepTimeout = defaults.Workflow.StepTimeout
	}
	if result.Workflow.BulletTargets == nil {
		result.Workflow.BulletTargets = defaults.Workflow.BulletTargets
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Zero is a valid pass threshold, loop count and temperature, so those are
	// never merged. Same for bools: CLI flags always win.

	return result
}

// WorkflowConfig converts the file form into a workflow.Config
func (c *Config) WorkflowConfig() workflow.Config {
	targets := c.Workflow.BulletTargets
	if targets == nil {
		targets = normalize.DefaultBulletTargets()
	}
	return workflow.Config{
		PassThreshold:    c.Workflow.PassThreshold,
		MaxLoops:         c.Workflow.MaxLoops,
		BulletTargets:    append([]int(nil), targets...),
		MaxSummaryLength: c.Workflow.MaxSummaryLength,
		StepTimeout:      c.Workflow.StepTimeout,
	}
}

// LLMClientConfig builds the llm.Config for the configured provider with
// any per-tier model overrides applied
func (c *Config) LLMClientConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return nil, err
	}
	cfg, err := llm.ConfigForProvider(provider)
	if err != nil {
		return nil, err
	}
	for tier, model := range c.LLM.Models {
		if model != "" {
			cfg = cfg.WithModel(llm.ModelTier(tier), model)
		}
	}
	if c.LLM.Temperature > 0 {
		cfg.Temperature = c.LLM.Temperature
	}
	if c.LLM.MaxTokens > 0 {
		cfg.MaxTokens = c.LLM.MaxTokens
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured API key, falling back to the
// provider's conventional environment variable
func (c *Config) ResolveAPIKey() (string, error) {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey, nil
	}
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return "", err
	}
	key := os.Getenv(provider.APIKeyEnv())
	if key == "" {
		return "", fmt.Errorf("no API key configured: set llm.api_key or %s", provider.APIKeyEnv())
	}
	return key, nil
}

// RateLimiterConfig converts the file form into a ratelimit.Config
func (c *Config) RateLimiterConfig() ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Enabled = c.RateLimit.Enabled
	rl.DefaultLimit = c.RateLimit.DefaultLimit
	rl.DefaultWindow = c.RateLimit.DefaultWindow
	rl.OptimizeLimit = c.RateLimit.OptimizeLimit
	rl.OptimizeWindow = c.RateLimit.OptimizeWindow
	rl.OptimizeBurst = c.RateLimit.OptimizeBurst
	rl.Whitelist = append([]string(nil), c.RateLimit.Whitelist...)
	return rl
}
