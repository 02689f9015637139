// Package main provides the resume_agent CLI: optimize a resume against job
// postings from the command line, or serve the optimizer over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rootConfigPath string
	rootVerbose    bool
	rootLogJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume ATS optimizer",
	Long: `Resume ATS optimizer tailors a structured resume to a job description,
scores it the way an applicant tracking system would, improves it within a
bounded number of passes, and renders the result as DOCX, LaTeX or HTML.

Configuration can be loaded from a JSON or YAML file using --config and from
RESUME_OPT_* environment variables. Command-line flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed progress and debug logs")
	rootCmd.PersistentFlags().BoolVar(&rootLogJSON, "log-json", false, "Emit logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
