package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// -----------------------------------------------------------------------------
// Optimization Methods
// -----------------------------------------------------------------------------

// SaveOptimization stores an optimization result. ID and CreatedAt are set on o.
func (db *DB) SaveOptimization(ctx context.Context, o *Optimization) error {
	if o.UserID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	contentJSON, err := json.Marshal(o.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal optimized content: %w", err)
	}

	var diagnosisJSON []byte
	if o.Diagnosis != nil {
		diagnosisJSON, err = json.Marshal(o.Diagnosis)
		if err != nil {
			return fmt.Errorf("failed to marshal diagnosis: %w", err)
		}
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO generated_resumes
		 (id, resume_id, user_id, job_description, content, ats_score, diagnosis, iteration_count, passed, file_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		o.ID, o.ResumeID, o.UserID, o.JobDescription, contentJSON, o.ATSScore, diagnosisJSON,
		o.IterationCount, o.Passed, o.FileName,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save optimization: %w", err)
	}
	return nil
}

// ListOptimizations returns a user's optimization results, newest first.
// A non-positive limit uses DefaultListLimit.
func (db *DB) ListOptimizations(ctx context.Context, userID string, limit int) ([]Optimization, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, user_id, job_description, content, ats_score, diagnosis,
		        iteration_count, passed, file_name, created_at
		 FROM generated_resumes WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimizations: %w", err)
	}
	defer rows.Close()

	var results []Optimization
	for rows.Next() {
		var o Optimization
		var contentJSON, diagnosisJSON []byte
		if err := rows.Scan(&o.ID, &o.ResumeID, &o.UserID, &o.JobDescription, &contentJSON, &o.ATSScore,
			&diagnosisJSON, &o.IterationCount, &o.Passed, &o.FileName, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan optimization: %w", err)
		}
		if err := decodeOptimization(&o, contentJSON, diagnosisJSON); err != nil {
			return nil, err
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate optimizations: %w", err)
	}
	return results, nil
}

func decodeOptimization(o *Optimization, contentJSON, diagnosisJSON []byte) error {
	if err := json.Unmarshal(contentJSON, &o.Content); err != nil {
		return fmt.Errorf("failed to unmarshal optimized content: %w", err)
	}
	if len(diagnosisJSON) > 0 && string(diagnosisJSON) != "null" {
		var d types.Diagnosis
		if err := json.Unmarshal(diagnosisJSON, &d); err != nil {
			return fmt.Errorf("failed to unmarshal diagnosis: %w", err)
		}
		o.Diagnosis = &d
	}
	return nil
}
