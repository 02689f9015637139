package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds simultaneous optimizations in a batch
const DefaultBatchConcurrency = 3

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Optimize a resume against every job description in a directory",
	Long: `Runs one independent optimization per *.txt job description in --jobs,
at most --concurrency at a time, and prints a summary table. A failed job
does not stop the others.`,
	RunE: runBatchCmd,
}

var (
	batchResume      string
	batchJobsDir     string
	batchConcurrency int
	batchName        string
	batchEmail       string
	batchPhone       string
	batchLinkedIn    string
	batchGitHub      string
	batchFormat      string
	batchOutDir      string
	batchJSON        bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchResume, "resume", "r", "", "Path to resume file (JSON or YAML)")
	batchCmd.Flags().StringVar(&batchJobsDir, "jobs", "", "Directory of job description .txt files")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", DefaultBatchConcurrency, "Maximum optimizations running at once")
	addContactFlags(batchCmd, &batchName, &batchEmail, &batchPhone, &batchLinkedIn, &batchGitHub)
	addOutputFlags(batchCmd, &batchFormat, &batchOutDir)
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print results as JSON")

	_ = batchCmd.MarkFlagRequired("resume")
	_ = batchCmd.MarkFlagRequired("jobs")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is the JSON form of one batch row
type batchResult struct {
	Job    string           `json:"job"`
	Result *workflow.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// listJobFiles returns the .txt files in dir sorted by name
func listJobFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt job descriptions found in %s", dir)
	}
	return files, nil
}

// runBatch optimizes content against each job file. Results keep the order of
// jobFiles. Per-job failures are recorded, not returned; only cancellation of
// ctx stops the batch early.
func runBatch(ctx context.Context, runner *workflow.Runner, content types.ResumeContent, contact types.ContactInfo, jobFiles []string, concurrency int, log *zap.Logger) ([]batchResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]batchResult, len(jobFiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range jobFiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			name := filepath.Base(path)
			results[i].Job = name

			posting, err := ingestion.FromFile(path)
			if err != nil {
				results[i].Error = err.Error()
				log.Warn("skipping job", zap.String("job", name), zap.Error(err))
				return nil
			}

			result, err := runner.RunOptimization(ctx, content, posting.Text, contact)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				results[i].Error = err.Error()
				log.Warn("job failed", zap.String("job", name), zap.Error(err))
				return nil
			}

			results[i].Result = result
			log.Info("job optimized", zap.String("job", name), zap.Int("ats_score", result.FinalScore))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch cancelled: %w", err)
	}
	return results, nil
}

// batchRows converts results into printer rows
func batchRows(results []batchResult) []observability.BatchRow {
	rows := make([]observability.BatchRow, len(results))
	for i, r := range results {
		rows[i].Job = r.Job
		switch {
		case r.Error != "":
			rows[i].Err = errors.New(r.Error)
		case r.Result != nil:
			rows[i].Score = r.Result.FinalScore
			rows[i].Passed = r.Result.Passed
			rows[i].Artifact = r.Result.ArtifactPath
		}
	}
	return rows
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyContactFlags(cmd, cfg, batchName, batchEmail, batchPhone, batchLinkedIn, batchGitHub)
	if cmd.Flags().Changed("format") {
		cfg.Format = batchFormat
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = batchOutDir
	}
	cfg.Job, cfg.JobURL = "", ""
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

	jobFiles, err := listJobFiles(batchJobsDir)
	if err != nil {
		return err
	}
	doc, err := loadResume(batchResume)
	if err != nil {
		return err
	}
	contact, err := resolveContact(doc.Contact, cfg)
	if err != nil {
		return err
	}

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

	results, err := runBatch(ctx, runner, doc.Sections, contact, jobFiles, batchConcurrency, log)
	if err != nil {
		return err
	}

	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	observability.NewPrinter(os.Stdout).PrintBatchSummary(batchRows(results))

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all %d jobs failed", failed)
	}
	return nil
}
