package transform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// promptData builds the placeholder values shared by Tailor and Improve
func (t *LLMTransformer) promptData(content types.ResumeContent, jobDescription string, protectedFacts map[string]any) (map[string]string, error) {
	sections, err := encodeSections(content, false)
	if err != nil {
		return nil, err
	}
	facts, err := encodeProtectedFacts(content, protectedFacts)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"Content":          sections,
		"JobDescription":   jobDescription,
		"ProtectedFacts":   facts,
		"BulletRules":      bulletRules(content.Experience, t.opts.BulletTargets),
		"MaxSummaryLength": strconv.Itoa(t.opts.MaxSummaryLength),
	}, nil
}

// encodeSections renders the content sent to the model. Education is only
// included for scoring since rewriting stages must not touch it.
func encodeSections(content types.ResumeContent, withEducation bool) (string, error) {
	sections := map[string]any{
		"summary":    content.Summary,
		"experience": nonNilExperience(content.Experience),
		"skills":     content.Skills,
	}
	if withEducation {
		education := content.Education
		if education == nil {
			education = []types.EducationEntry{}
		}
		sections["education"] = education
	}
	return encodeJSON(sections)
}

// encodeProtectedFacts lists the immutable fields of every experience entry,
// merged with any caller-supplied facts
func encodeProtectedFacts(content types.ResumeContent, protectedFacts map[string]any) (string, error) {
	facts := make([]types.ExperienceFacts, 0, len(content.Experience))
	for _, entry := range content.Experience {
		facts = append(facts, entry.Facts())
	}

	payload := map[string]any{"experience": facts}
	for k, v := range protectedFacts {
		if k == "experience" {
			continue
		}
		payload[k] = v
	}
	return encodeJSON(payload)
}

// bulletRules describes the bullet count expected for each targeted job
func bulletRules(experience []types.ExperienceEntry, targets []int) string {
	if len(experience) == 0 {
		return "- There are no experience entries; return an empty experience list."
	}

	var sb strings.Builder
	for i, entry := range experience {
		if i >= len(targets) {
			sb.WriteString(fmt.Sprintf("- Remaining jobs (%d and later): keep a similar number of bullets.\n", i+1))
			break
		}
		sb.WriteString(fmt.Sprintf("- Job %d (%s at %s): exactly %d bullets.\n", i+1, entry.Title, entry.Company, targets[i]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func nonNilExperience(entries []types.ExperienceEntry) []types.ExperienceEntry {
	if entries == nil {
		return []types.ExperienceEntry{}
	}
	return entries
}

func encodeJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt data: %w", err)
	}
	return string(data), nil
}
