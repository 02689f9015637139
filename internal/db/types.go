package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Resume is a stored resume: contact block plus structured sections
type Resume struct {
	ID        uuid.UUID           `json:"id"`
	UserID    string              `json:"user_id"`
	Contact   types.ContactInfo   `json:"contact"`
	Sections  types.ResumeContent `json:"sections"`
	CreatedAt time.Time           `json:"created_at"`
}

// Optimization is a stored optimization result
type Optimization struct {
	ID             uuid.UUID           `json:"id"`
	ResumeID       *uuid.UUID          `json:"resume_id,omitempty"`
	UserID         string              `json:"user_id"`
	JobDescription string              `json:"job_description"`
	Content        types.ResumeContent `json:"resume"`
	ATSScore       int                 `json:"ats_score"`
	Diagnosis      *types.Diagnosis    `json:"analysis,omitempty"`
	IterationCount int                 `json:"iterations"`
	Passed         bool                `json:"passed"`
	FileName       string              `json:"file_name"`
	CreatedAt      time.Time           `json:"created_at"`
}

// DefaultListLimit caps ListOptimizations when no limit is given
const DefaultListLimit = 20

// MaxListLimit is the largest page ListOptimizations returns
const MaxListLimit = 100

// clampLimit normalizes a caller-supplied page size
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
