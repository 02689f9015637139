package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// MinPostingLength is the shortest extracted text accepted as a posting
const MinPostingLength = 50

// JobPosting is an ingested job description
type JobPosting struct {
	URL       string    `json:"url,omitempty"`
	Title     string    `json:"title,omitempty"`
	Platform  Platform  `json:"platform,omitempty"`
	Text      string    `json:"text"`
	Hash      string    `json:"hash"` // SHA256 hex digest of Text
	FetchedAt time.Time `json:"fetched_at"`
}

// FromURL fetches and extracts a job posting
func (f *Fetcher) FromURL(ctx context.Context, rawURL string) (*JobPosting, error) {
	page, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(rawURL)
	title, text, err := ExtractPosting(page, platform)
	if err != nil {
		return nil, err
	}
	if len([]rune(text)) < MinPostingLength {
		return nil, fmt.Errorf("%w at %s: extracted %d characters", ErrNoContent, rawURL, len([]rune(text)))
	}

	f.logger.Info("ingested job posting",
		zap.String("url", rawURL),
		zap.String("platform", string(platform)),
		zap.String("title", title),
		zap.Int("chars", len(text)))

	return newPosting(rawURL, title, platform, text), nil
}

// FromFile reads and cleans a plain-text job description
func FromFile(path string) (*JobPosting, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("job file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	text := CleanText(string(content))
	if text == "" {
		return nil, fmt.Errorf("%w in %s", ErrNoContent, path)
	}
	return newPosting("", "", "", text), nil
}

// FromText wraps an already available job description
func FromText(text string) (*JobPosting, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrNoContent
	}
	return newPosting("", "", "", cleaned), nil
}

func newPosting(rawURL, title string, platform Platform, text string) *JobPosting {
	sum := sha256.Sum256([]byte(text))
	return &JobPosting{
		URL:       rawURL,
		Title:     title,
		Platform:  platform,
		Text:      text,
		Hash:      hex.EncodeToString(sum[:]),
		FetchedAt: time.Now().UTC(),
	}
}
