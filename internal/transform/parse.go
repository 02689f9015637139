package transform

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/tidwall/gjson"
)

// parseContentUpdate interprets a Tailor or Improve response. Skills are
// returned as parsed; shape normalization happens when the update is merged.
func parseContentUpdate(op, raw string) (types.ContentUpdate, error) {
	if !gjson.Valid(raw) {
		return types.ContentUpdate{}, &MalformedOutputError{Operation: op, Message: "response is not valid JSON"}
	}
	if err := schemas.ValidateContentUpdate(raw); err != nil {
		return types.ContentUpdate{}, &MalformedOutputError{Operation: op, Message: "response does not match the content shape", Cause: err}
	}

	doc := gjson.Parse(raw)
	update := types.ContentUpdate{
		Summary:    doc.Get("summary").String(),
		Experience: []types.ExperienceEntry{},
	}

	for i, item := range doc.Get("experience").Array() {
		var entry types.ExperienceEntry
		if err := json.Unmarshal([]byte(item.Raw), &entry); err != nil {
			return types.ContentUpdate{}, &MalformedOutputError{
				Operation: op,
				Message:   "experience entry " + strconv.Itoa(i) + " is not an object",
				Cause:     err,
			}
		}
		update.Experience = append(update.Experience, entry)
	}

	if skills := doc.Get("skills"); skills.Exists() {
		if parsed, ok := types.ParseSkills([]byte(skills.Raw)); ok {
			update.Skills = parsed
		}
	}

	return update, nil
}

// parseScore interprets a Score response, clamping the score into 0-100
func parseScore(raw string) (types.ScoreResult, error) {
	if !gjson.Valid(raw) {
		return types.ScoreResult{}, &MalformedOutputError{Operation: OpScore, Message: "response is not valid JSON"}
	}
	if err := schemas.ValidateScore(raw); err != nil {
		return types.ScoreResult{}, &MalformedOutputError{Operation: OpScore, Message: "response does not match the score shape", Cause: err}
	}

	doc := gjson.Parse(raw)
	score, err := scoreValue(doc.Get("score"))
	if err != nil {
		return types.ScoreResult{}, &MalformedOutputError{Operation: OpScore, Message: "score is not numeric", Cause: err}
	}

	analysis := doc.Get("analysis")
	return types.ScoreResult{
		Score: score,
		Diagnosis: types.Diagnosis{
			MissingKeywords: keywordList(analysis.Get("missing_keywords")),
			WeakAreas:       joinedText(analysis.Get("weak_areas")),
			Recommendations: joinedText(analysis.Get("recommendations")),
		},
	}, nil
}

// scoreValue reads a number or a numeric string such as "85", "85%" or "85/100"
func scoreValue(v gjson.Result) (int, error) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	default:
		s := strings.TrimSpace(v.String())
		s = strings.TrimSuffix(s, "%")
		if idx := strings.Index(s, "/"); idx >= 0 {
			s = s[:idx]
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	}
	return clampScore(int(math.Round(f))), nil
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// keywordList accepts an array or a comma-separated string
func keywordList(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
	case v.Type == gjson.String:
		for _, part := range strings.Split(v.String(), ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// joinedText accepts a string or an array of strings
func joinedText(v gjson.Result) string {
	if v.IsArray() {
		parts := make([]string, 0, len(v.Array()))
		for _, item := range v.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return strings.TrimSpace(v.String())
}
