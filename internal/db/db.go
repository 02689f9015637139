// Package db provides PostgreSQL persistence for resumes and optimization results.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Resume content columns are json rather than jsonb: jsonb reorders object
// keys, which would lose the order of skill categories.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS resumes (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	full_name  TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	linkedin   TEXT NOT NULL DEFAULT '',
	github     TEXT NOT NULL DEFAULT '',
	sections   JSON NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_resumes_user_created ON resumes (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS generated_resumes (
	id              UUID PRIMARY KEY,
	resume_id       UUID REFERENCES resumes(id) ON DELETE CASCADE,
	user_id         TEXT NOT NULL,
	job_description TEXT NOT NULL,
	content         JSON NOT NULL,
	ats_score       INTEGER NOT NULL,
	diagnosis       JSONB,
	iteration_count INTEGER NOT NULL DEFAULT 0,
	passed          BOOLEAN NOT NULL DEFAULT FALSE,
	file_name       TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_generated_resumes_user_created ON generated_resumes (user_id, created_at DESC);
`

// EnsureSchema creates the tables and indexes if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
