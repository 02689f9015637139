//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResumeDocument is a resume file on disk: an optional contact block plus sections
type ResumeDocument struct {
	Contact  ContactInfo   `json:"contact" yaml:"contact"`
	Sections ResumeContent `json:"sections" yaml:"sections"`
}

// LoadResumeFile reads a resume from a JSON or YAML file.
// The file may either wrap content under "sections" (with a "contact" block)
// or be bare resume content.
func LoadResumeFile(path string) (*ResumeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeResume(data, yaml.Unmarshal)
	case ".json", "":
		return decodeResume(data, json.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported resume file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// ParseResumeJSON decodes a resume document from JSON bytes
func ParseResumeJSON(data []byte) (*ResumeDocument, error) {
	return decodeResume(data, json.Unmarshal)
}

func decodeResume(data []byte, unmarshal func([]byte, any) error) (*ResumeDocument, error) {
	var doc ResumeDocument
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	if !doc.Sections.isZero() {
		return &doc, nil
	}

	var content ResumeContent
	if err := unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse resume content: %w", err)
	}
	doc.Sections = content
	return &doc, nil
}

func (c ResumeContent) isZero() bool {
	return c.Summary == "" && c.Experience == nil && c.Education == nil && c.Skills == nil
}
