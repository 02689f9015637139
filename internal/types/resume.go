// Package types provides type definitions for structured data used throughout the resume optimizer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// ResumeContent is the working document threaded through the optimization workflow
type ResumeContent struct {
	Summary    string            `json:"summary" yaml:"summary"`
	Experience []ExperienceEntry `json:"experience" yaml:"experience"`
	Education  []EducationEntry  `json:"education" yaml:"education"`
	Skills     Skills            `json:"skills" yaml:"skills"`
}

// ExperienceEntry is a single job. Title, company, location and dates are
// protected facts; only Bullets may be rewritten.
type ExperienceEntry struct {
	Title    string   `json:"title" yaml:"title"`
	Company  string   `json:"company" yaml:"company"`
	Location string   `json:"location" yaml:"location"`
	Dates    string   `json:"dates" yaml:"dates"`
	Bullets  []string `json:"bullets" yaml:"bullets"`
}

// EducationEntry is a single degree. Never modified by the workflow.
type EducationEntry struct {
	Degree      string `json:"degree" yaml:"degree"`
	Institution string `json:"institution" yaml:"institution"`
	Location    string `json:"location" yaml:"location"`
	Dates       string `json:"dates" yaml:"dates"`
}

// experienceJSON accepts "responsibilities" as an alias of "bullets",
// which is the key used by the section extraction schema.
type experienceJSON struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Dates            string   `json:"dates"`
	Bullets          []string `json:"bullets"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// UnmarshalJSON decodes an experience entry, falling back to "responsibilities" for bullets
func (e *ExperienceEntry) UnmarshalJSON(data []byte) error {
	var raw experienceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	bullets := raw.Bullets
	if bullets == nil {
		bullets = raw.Responsibilities
	}
	*e = ExperienceEntry{
		Title:    raw.Title,
		Company:  raw.Company,
		Location: raw.Location,
		Dates:    raw.Dates,
		Bullets:  bullets,
	}
	return nil
}

// Facts returns the protected facts of the entry (everything but the bullets)
func (e ExperienceEntry) Facts() ExperienceFacts {
	return ExperienceFacts{
		Title:    e.Title,
		Company:  e.Company,
		Location: e.Location,
		Dates:    e.Dates,
	}
}

// ExperienceFacts holds the immutable fields of an experience entry
type ExperienceFacts struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Dates    string `json:"dates"`
}

// Clone returns a deep copy of the content
func (c ResumeContent) Clone() ResumeContent {
	return ResumeContent{
		Summary:    c.Summary,
		Experience: CloneExperience(c.Experience),
		Education:  CloneEducation(c.Education),
		Skills:     c.Skills.Clone(),
	}
}

// CloneExperience deep-copies an experience list, preserving nil
func CloneExperience(entries []ExperienceEntry) []ExperienceEntry {
	if entries == nil {
		return nil
	}
	out := make([]ExperienceEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.Bullets != nil {
			out[i].Bullets = append([]string(nil), e.Bullets...)
		}
	}
	return out
}

// CloneEducation copies an education list, preserving nil
func CloneEducation(entries []EducationEntry) []EducationEntry {
	if entries == nil {
		return nil
	}
	out := make([]EducationEntry, len(entries))
	copy(out, entries)
	return out
}

// ContactInfo is the candidate header block consumed by renderers
type ContactInfo struct {
	FullName string `json:"full_name" yaml:"full_name" validate:"required"`
	Phone    string `json:"phone" yaml:"phone" validate:"required"`
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty"`
}

// Diagnosis is the ATS analysis returned alongside a score
type Diagnosis struct {
	MissingKeywords []string `json:"missing_keywords"`
	WeakAreas       string   `json:"weak_areas"`
	Recommendations string   `json:"recommendations"`
}

// ScoreResult is the output of the Score transform
type ScoreResult struct {
	Score     int       `json:"score"`
	Diagnosis Diagnosis `json:"analysis"`
}

// ContentUpdate is the subset of ResumeContent returned by Tailor and Improve
type ContentUpdate struct {
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Skills     Skills            `json:"skills"`
}
