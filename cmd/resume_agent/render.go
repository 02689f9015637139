package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/normalize"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render resume content without optimizing it",
	Long: `Renders a resume file (JSON or YAML) to DOCX, LaTeX or HTML. Skills are
normalized into categories; nothing else about the content is changed.`,
	RunE: runRender,
}

var (
	renderContent  string
	renderName     string
	renderEmail    string
	renderPhone    string
	renderLinkedIn string
	renderGitHub   string
	renderFormat   string
	renderOutDir   string
)

func init() {
	renderCmd.Flags().StringVarP(&renderContent, "content", "c", "", "Path to resume content file (JSON or YAML)")
	addContactFlags(renderCmd, &renderName, &renderEmail, &renderPhone, &renderLinkedIn, &renderGitHub)
	addOutputFlags(renderCmd, &renderFormat, &renderOutDir)

	_ = renderCmd.MarkFlagRequired("content")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyContactFlags(cmd, cfg, renderName, renderEmail, renderPhone, renderLinkedIn, renderGitHub)
	if cmd.Flags().Changed("format") {
		cfg.Format = renderFormat
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = renderOutDir
	}
	cfg.Job, cfg.JobURL = "", ""
	merged := cfg.MergeWithDefaults(config.Defaults())
	cfg = &merged
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := renderFile(cmd, renderContent, cfg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Rendered resume: %s\n", path)
	return nil
}

// renderFile loads content, resolves the contact and renders one artifact
func renderFile(cmd *cobra.Command, contentPath string, cfg *config.Config) (string, error) {
	doc, err := types.LoadResumeFile(contentPath)
	if err != nil {
		return "", err
	}
	contact, err := resolveContact(doc.Contact, cfg)
	if err != nil {
		return "", err
	}

	content := doc.Sections
	if content.Skills != nil {
		content.Skills = normalize.NormalizeSkills(content.Skills)
	}

	format, err := rendering.ParseFormat(cfg.Format)
	if err != nil {
		return "", err
	}
	renderer, err := rendering.NewRenderer(format, cfg.OutputDir)
	if err != nil {
		return "", err
	}
	return renderer.Render(cmd.Context(), content, contact)
}
