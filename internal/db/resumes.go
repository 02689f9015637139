package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// -----------------------------------------------------------------------------
// Resume Methods
// -----------------------------------------------------------------------------

// SaveResume stores a new resume for a user and returns it with ID and timestamp set.
// Earlier resumes are kept; GetLatestResume returns the newest.
func (db *DB) SaveResume(ctx context.Context, userID string, contact types.ContactInfo, sections types.ResumeContent) (*Resume, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume sections: %w", err)
	}

	r := Resume{
		ID:       uuid.New(),
		UserID:   userID,
		Contact:  contact,
		Sections: sections,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, full_name, phone, email, linkedin, github, sections)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		r.ID, userID, contact.FullName, contact.Phone, contact.Email, contact.LinkedIn, contact.GitHub, sectionsJSON,
	).Scan(&r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	return &r, nil
}

// GetLatestResume returns the newest resume for a user, or nil if there is none
func (db *DB) GetLatestResume(ctx context.Context, userID string) (*Resume, error) {
	var r Resume
	var sectionsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, full_name, phone, email, linkedin, github, sections, created_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.Contact.FullName, &r.Contact.Phone, &r.Contact.Email,
		&r.Contact.LinkedIn, &r.Contact.GitHub, &sectionsJSON, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest resume: %w", err)
	}

	if err := json.Unmarshal(sectionsJSON, &r.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume sections: %w", err)
	}
	return &r, nil
}

// DeleteResumes removes every resume of a user together with its optimization
// results and returns the number of resumes deleted
func (db *DB) DeleteResumes(ctx context.Context, userID string) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM generated_resumes WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("failed to delete optimizations: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM resumes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resumes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return tag.RowsAffected(), nil
}
