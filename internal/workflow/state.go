// Package workflow runs the resume optimization state machine:
// TAILOR, SCORE, optionally IMPROVE and SCORE again, then RENDER.
package workflow

import (
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Stage is a state of the optimization machine
type Stage string

// Machine stages
const (
	StageTailor  Stage = "TAILOR"
	StageScore   Stage = "SCORE"
	StageImprove Stage = "IMPROVE"
	StageRender  Stage = "RENDER"
	StageDone    Stage = "DONE"
)

// State is the working state of one optimization run. It is owned by a single
// run and must not be shared between goroutines.
type State struct {
	Stage          Stage
	Content        types.ResumeContent
	JobDescription string
	Contact        types.ContactInfo

	// Frozen at initialization and re-asserted after every transform
	OriginalEducation []types.EducationEntry
	ExperienceFacts   []types.ExperienceFacts
	ProtectedFacts    map[string]any

	Score          *int
	Diagnosis      *types.Diagnosis
	IterationCount int
	Passed         bool
	Success        bool
	ArtifactPath   string
}

// NewState builds the initial state for content. The content is deep-copied so
// the caller's value is never mutated.
func NewState(content types.ResumeContent, jobDescription string, contact types.ContactInfo) *State {
	working := content.Clone()

	var facts []types.ExperienceFacts
	if working.Experience != nil {
		facts = make([]types.ExperienceFacts, len(working.Experience))
		for i, entry := range working.Experience {
			facts[i] = entry.Facts()
		}
	}

	return &State{
		Stage:             StageTailor,
		Content:           working,
		JobDescription:    jobDescription,
		Contact:           contact,
		OriginalEducation: types.CloneEducation(content.Education),
		ExperienceFacts:   facts,
		ProtectedFacts:    map[string]any{},
	}
}

// protectedFacts returns a copy of the reserved protected-facts map for a transform call
func (s *State) protectedFacts() map[string]any {
	out := make(map[string]any, len(s.ProtectedFacts))
	for k, v := range s.ProtectedFacts {
		out[k] = v
	}
	return out
}
