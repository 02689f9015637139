package main

import (
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort   int
	serveOutDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that stores resumes and runs optimizations over REST, with Server-Sent Events progress for streaming clients.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveOutDir, "out", "o", "", "Directory for rendered artifacts (default generated)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = serveOutDir
	}
	cfg.Job, cfg.JobURL = "", ""
	merged := cfg.MergeWithDefaults(config.Defaults())
	cfg = &merged
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	format, err := rendering.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	transformer, client, err := newTransformer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		OutputDir:      cfg.OutputDir,
		DefaultFormat:  format,
		AllowedOrigins: cfg.AllowedOrigins,
		Workflow:       cfg.WorkflowConfig(),
		RateLimit:      cfg.RateLimiterConfig(),
	}, database, transformer,
		server.WithLogger(log),
		server.WithFetcher(ingestion.NewFetcher(ingestion.WithLogger(log))))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("serving optimizer",
		zap.Int("port", cfg.Port),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("output_dir", cfg.OutputDir))
	return srv.Start()
}
