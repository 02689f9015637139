package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a resume against one job posting",
	Long: `Tailors the resume to the job, scores it, runs improvement passes until the
score passes or the loop budget is spent, then renders the final document.

The job can be a text file (--job) or a posting URL (--job-url).`,
	RunE: runOptimize,
}

var (
	optimizeResume    string
	optimizeJob       string
	optimizeJobURL    string
	optimizeName      string
	optimizeEmail     string
	optimizePhone     string
	optimizeLinkedIn  string
	optimizeGitHub    string
	optimizeFormat    string
	optimizeOutDir    string
	optimizeProvider  string
	optimizeThreshold int
	optimizeMaxLoops  int
	optimizeJSON      bool
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeResume, "resume", "r", "", "Path to resume file (JSON or YAML)")
	optimizeCmd.Flags().StringVarP(&optimizeJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	optimizeCmd.Flags().StringVar(&optimizeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	addContactFlags(optimizeCmd, &optimizeName, &optimizeEmail, &optimizePhone, &optimizeLinkedIn, &optimizeGitHub)
	addOutputFlags(optimizeCmd, &optimizeFormat, &optimizeOutDir)
	optimizeCmd.Flags().StringVar(&optimizeProvider, "provider", "", "LLM provider: openai, gemini or anthropic")
	optimizeCmd.Flags().IntVar(&optimizeThreshold, "threshold", 0, "Score needed to pass (0-100)")
	optimizeCmd.Flags().IntVar(&optimizeMaxLoops, "max-loops", 0, "Maximum improvement passes")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "Print the result as JSON")

	_ = optimizeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(optimizeCmd)
}

// addContactFlags registers the candidate contact overrides
func addContactFlags(cmd *cobra.Command, name, email, phone, linkedIn, gitHub *string) {
	cmd.Flags().StringVarP(name, "name", "n", "", "Candidate name (overrides the resume file)")
	cmd.Flags().StringVar(email, "email", "", "Candidate email (overrides the resume file)")
	cmd.Flags().StringVar(phone, "phone", "", "Candidate phone (overrides the resume file)")
	cmd.Flags().StringVar(linkedIn, "linkedin", "", "LinkedIn profile URL")
	cmd.Flags().StringVar(gitHub, "github", "", "GitHub profile URL")
}

// addOutputFlags registers the render format and output directory
func addOutputFlags(cmd *cobra.Command, format, outDir *string) {
	cmd.Flags().StringVarP(format, "format", "f", "", "Output format: docx, tex or html (default docx)")
	cmd.Flags().StringVarP(outDir, "out", "o", "", "Output directory (default generated)")
}

// applyOptimizeFlags copies explicitly set flags over config values
func applyOptimizeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("job") {
		cfg.Job = optimizeJob
		cfg.JobURL = ""
	}
	if flags.Changed("job-url") {
		cfg.JobURL = optimizeJobURL
		if !flags.Changed("job") {
			cfg.Job = ""
		}
	}
	applyContactFlags(cmd, cfg, optimizeName, optimizeEmail, optimizePhone, optimizeLinkedIn, optimizeGitHub)
	if flags.Changed("format") {
		cfg.Format = optimizeFormat
	}
	if flags.Changed("out") {
		cfg.OutputDir = optimizeOutDir
	}
	if flags.Changed("provider") {
		cfg.LLM.Provider = optimizeProvider
	}
	if flags.Changed("threshold") {
		cfg.Workflow.PassThreshold = optimizeThreshold
	}
	if flags.Changed("max-loops") {
		cfg.Workflow.MaxLoops = optimizeMaxLoops
	}
}

// applyContactFlags copies explicitly set contact flags over config values
func applyContactFlags(cmd *cobra.Command, cfg *config.Config, name, email, phone, linkedIn, gitHub string) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = name
	}
	if flags.Changed("email") {
		cfg.Email = email
	}
	if flags.Changed("phone") {
		cfg.Phone = phone
	}
	if flags.Changed("linkedin") {
		cfg.LinkedIn = linkedIn
	}
	if flags.Changed("github") {
		cfg.GitHub = gitHub
	}
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyOptimizeFlags(cmd, cfg)
	merged := cfg.MergeWithDefaults(config.Defaults())
	cfg = &merged
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	doc, err := loadResume(optimizeResume)
	if err != nil {
		return err
	}
	contact, err := resolveContact(doc.Contact, cfg)
	if err != nil {
		return err
	}

	posting, err := loadJobPosting(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to load job posting: %w", err)
	}
	log.Debug("job posting loaded",
		zap.String("hash", posting.Hash),
		zap.String("preview", logger.Truncate(posting.Text, 200)))

	format, err := rendering.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	renderer, err := rendering.NewRenderer(format, cfg.OutputDir)
	if err != nil {
		return err
	}

	transformer, client, err := newTransformer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	runner, err := workflow.NewRunner(transformer, renderer, cfg.WorkflowConfig(), workflow.WithLogger(log))
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	var onProgress workflow.ProgressCallback
	if !optimizeJSON {
		if cfg.Verbose {
			printer.PrintJobPosting(posting)
		}
		onProgress = printer.PrintProgress
	}

	result, err := runner.Run(ctx, doc.Sections, posting.Text, contact, onProgress)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if optimizeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer.PrintScore(result.FinalScore, result.Diagnosis)
	printer.PrintResult(result)
	return nil
}
