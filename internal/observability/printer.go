// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/workflow"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate cuts s to n runes, ending with "..." when shortened
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width runes
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintJobPosting outputs a short summary of an ingested job posting
func (p *Printer) PrintJobPosting(posting *ingestion.JobPosting) {
	if posting == nil {
		return
	}

	var sb strings.Builder
	if posting.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:     %s\n", posting.Title))
	}
	if posting.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:       %s\n", posting.URL))
		sb.WriteString(fmt.Sprintf("Platform:  %s\n", posting.Platform))
	}
	sb.WriteString(fmt.Sprintf("Length:    %d characters\n", utf8.RuneCountInString(posting.Text)))

	lines := strings.Split(posting.Text, "\n")
	sb.WriteString("\n")
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i] + "\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxItemsToShow))
	}

	p.printBox("JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs a one-line progress update for a workflow stage
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event workflow.ProgressEvent) {
	line := fmt.Sprintf("[%s] %s", event.Stage, event.Message)
	if event.Iteration > 0 {
		line += fmt.Sprintf(" (iteration %d)", event.Iteration)
	}
	fmt.Fprintln(p.out, line)
}

// PrintScore outputs an ATS score with its diagnosis
func (p *Printer) PrintScore(score int, diagnosis *types.Diagnosis) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d/100  %s\n", score, scoreBar(score)))

	if diagnosis != nil {
		if len(diagnosis.MissingKeywords) > 0 {
			sb.WriteString("\nMissing keywords:\n")
			count := min(len(diagnosis.MissingKeywords), maxItemsToShow)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("  • %s\n", diagnosis.MissingKeywords[i]))
			}
			if len(diagnosis.MissingKeywords) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(diagnosis.MissingKeywords)-maxItemsToShow))
			}
		}
		if diagnosis.WeakAreas != "" {
			sb.WriteString("\nWeak areas:\n")
			sb.WriteString(wrap(diagnosis.WeakAreas, boxWidth-6, "  "))
		}
		if diagnosis.Recommendations != "" {
			sb.WriteString("\nRecommendations:\n")
			sb.WriteString(wrap(diagnosis.Recommendations, boxWidth-6, "  "))
		}
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the outcome of an optimization run
func (p *Printer) PrintResult(result *workflow.Result) {
	if result == nil {
		return
	}

	status := "PASSED"
	if !result.Passed {
		status = "BELOW THRESHOLD"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Final score:   %d/100 (%s)\n", result.FinalScore, status))
	sb.WriteString(fmt.Sprintf("Iterations:    %d\n", result.IterationCount))
	sb.WriteString(fmt.Sprintf("Experience:    %d entries\n", len(result.FinalContent.Experience)))
	sb.WriteString(fmt.Sprintf("Skills:        %d categories\n", len(result.FinalContent.Skills)))
	if result.ArtifactPath != "" {
		sb.WriteString(fmt.Sprintf("Artifact:      %s\n", result.ArtifactPath))
	}

	p.printBox("OPTIMIZATION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// BatchRow is one line of a batch summary
type BatchRow struct {
	Job      string
	Score    int
	Passed   bool
	Artifact string
	Err      error
}

// PrintBatchSummary outputs one line per optimized job
func (p *Printer) PrintBatchSummary(rows []BatchRow) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	passed := 0
	for _, row := range rows {
		switch {
		case row.Err != nil:
			sb.WriteString(fmt.Sprintf("✗ %-24s error: %v\n", truncate(row.Job, 24), row.Err))
		case row.Passed:
			passed++
			sb.WriteString(fmt.Sprintf("✓ %-24s %3d  %s\n", truncate(row.Job, 24), row.Score, row.Artifact))
		default:
			sb.WriteString(fmt.Sprintf("• %-24s %3d  %s\n", truncate(row.Job, 24), row.Score, row.Artifact))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d passed", passed, len(rows)))

	p.printBox("BATCH SUMMARY", sb.String())
}

// scoreBar draws a 20-cell bar for a 0-100 score
func scoreBar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 20-filled) + "]"
}

// wrap breaks text into lines of at most width runes, each prefixed with indent
func wrap(text string, width int, indent string) string {
	var sb strings.Builder
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > width {
			sb.WriteString(indent + line + "\n")
			line = ""
		}
		if line == "" {
			line = word
		} else {
			line += " " + word
		}
	}
	if line != "" {
		sb.WriteString(indent + line + "\n")
	}
	return sb.String()
}
