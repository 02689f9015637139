package rendering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Format is an output document format
type Format string

// Supported formats
const (
	FormatDOCX  Format = "docx"
	FormatLaTeX Format = "tex"
	FormatHTML  Format = "html"
)

// DefaultOutputDir is where artifacts are written when none is configured
const DefaultOutputDir = "generated"

// ParseFormat converts a user-supplied name into a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "docx", "word":
		return FormatDOCX, nil
	case "tex", "latex":
		return FormatLaTeX, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported render format %q (want docx, tex or html)", name)
	}
}

// Renderer produces a document artifact and returns its path
type Renderer interface {
	Render(ctx context.Context, content types.ResumeContent, contact types.ContactInfo) (string, error)
}

// encoder serializes a document view in one format
type encoder func(doc *documentView) ([]byte, error)

// FileRenderer writes documents of one format into an output directory as
// final_resume_<uuid>.<ext>
type FileRenderer struct {
	format    Format
	outputDir string
	encode    encoder
}

// NewRenderer creates a renderer for format writing into outputDir
func NewRenderer(format Format, outputDir string) (*FileRenderer, error) {
	var enc encoder
	switch format {
	case FormatDOCX:
		enc = encodeDOCX
	case FormatLaTeX:
		enc = encodeLaTeX
	case FormatHTML:
		enc = encodeHTML
	default:
		return nil, fmt.Errorf("unsupported render format %q", format)
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &FileRenderer{format: format, outputDir: outputDir, encode: enc}, nil
}

// Format returns the renderer's output format
func (r *FileRenderer) Format() Format {
	return r.format
}

// OutputDir returns the directory artifacts are written to
func (r *FileRenderer) OutputDir() string {
	return r.outputDir
}

// Render writes the document and returns the artifact path
func (r *FileRenderer) Render(ctx context.Context, content types.ResumeContent, contact types.ContactInfo) (string, error) {
	data, err := r.RenderBytes(ctx, content, contact)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", &RenderFailure{Message: "failed to create output directory", Cause: err}
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("final_resume_%s.%s", uuid.New().String(), r.format))
	if err := writeFileAtomic(path, data); err != nil {
		return "", &RenderFailure{Message: "failed to write artifact", Cause: err}
	}
	return path, nil
}

// RenderBytes produces the document without writing it
func (r *FileRenderer) RenderBytes(ctx context.Context, content types.ResumeContent, contact types.ContactInfo) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSections(content); err != nil {
		return nil, err
	}

	data, err := r.encode(newDocumentView(content, contact))
	if err != nil {
		return nil, &RenderFailure{Message: fmt.Sprintf("failed to encode %s document", r.format), Cause: err}
	}
	return data, nil
}

// checkSections rejects content with a missing section. Empty sections are valid.
func checkSections(content types.ResumeContent) error {
	switch {
	case content.Experience == nil:
		return &RenderFailure{Section: "experience", Message: "section is missing"}
	case content.Education == nil:
		return &RenderFailure{Section: "education", Message: "section is missing"}
	case content.Skills == nil:
		return &RenderFailure{Section: "skills", Message: "section is missing"}
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// into place so readers never see a partial artifact
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".render-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

var _ Renderer = (*FileRenderer)(nil)
