package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/transform"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig loads the --config file layered over defaults and environment,
// then applies the persistent flags when they were set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = rootLogJSON
	}
	return cfg, nil
}

// newLogger builds the process logger from config
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// newTransformer creates the model client for the configured provider and
// wraps it in a transformer. The returned client must be closed by the caller.
func newTransformer(ctx context.Context, cfg *config.Config, log *zap.Logger) (transform.Transformer, llm.Client, error) {
	llmCfg, err := cfg.LLMClientConfig()
	if err != nil {
		return nil, nil, err
	}
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	logger.WithFields(log, logger.LLMFields(string(llmCfg.Provider), client.GetModel(llm.TierAdvanced))...).
		Debug("model client ready", zap.String("score_model", client.GetModel(llm.TierStandard)))

	wf := cfg.WorkflowConfig()
	t := transform.NewLLMTransformer(client, transform.Options{
		BulletTargets:    wf.BulletTargets,
		MaxSummaryLength: wf.MaxSummaryLength,
	})
	return t, client, nil
}

// loadJobPosting reads the job from --job or fetches --job-url
func loadJobPosting(ctx context.Context, cfg *config.Config, log *zap.Logger) (*ingestion.JobPosting, error) {
	switch {
	case cfg.Job != "" && cfg.JobURL != "":
		return nil, fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	case cfg.JobURL != "":
		return ingestion.NewFetcher(ingestion.WithLogger(log)).FromURL(ctx, cfg.JobURL)
	case cfg.Job != "":
		return ingestion.FromFile(cfg.Job)
	default:
		return nil, fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
}

// loadResume reads a resume file and rejects it before any model call if the
// workflow could not render it
func loadResume(path string) (*types.ResumeDocument, error) {
	doc, err := types.LoadResumeFile(path)
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateContent(doc.Sections); err != nil {
		return nil, fmt.Errorf("resume %s: %w", path, err)
	}
	return doc, nil
}

// resolveContact overlays configured contact fields onto the resume file's
// contact block and validates the result
func resolveContact(fromFile types.ContactInfo, cfg *config.Config) (types.ContactInfo, error) {
	contact := fromFile
	if cfg.Name != "" {
		contact.FullName = cfg.Name
	}
	if cfg.Email != "" {
		contact.Email = cfg.Email
	}
	if cfg.Phone != "" {
		contact.Phone = cfg.Phone
	}
	if cfg.LinkedIn != "" {
		contact.LinkedIn = cfg.LinkedIn
	}
	if cfg.GitHub != "" {
		contact.GitHub = cfg.GitHub
	}

	if err := contact.Validate(); err != nil {
		return contact, fmt.Errorf("contact details incomplete (name, email and phone are required via resume file, flags or config): %w", err)
	}
	return contact, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
