package server

import (
	"context"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Store is the persistence the API needs. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error
	SaveResume(ctx context.Context, userID string, contact types.ContactInfo, sections types.ResumeContent) (*db.Resume, error)
	GetLatestResume(ctx context.Context, userID string) (*db.Resume, error)
	DeleteResumes(ctx context.Context, userID string) (int64, error)
	SaveOptimization(ctx context.Context, o *db.Optimization) error
	ListOptimizations(ctx context.Context, userID string, limit int) ([]db.Optimization, error)
}

// JobFetcher resolves a job URL into posting text. *ingestion.Fetcher implements it.
type JobFetcher interface {
	FromURL(ctx context.Context, rawURL string) (*ingestion.JobPosting, error)
}

var (
	_ Store      = (*db.DB)(nil)
	_ JobFetcher = (*ingestion.Fetcher)(nil)
)
