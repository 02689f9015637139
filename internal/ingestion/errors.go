package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when a URL is malformed or not http(s)
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when the page cannot be retrieved
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrNoContent is returned when a page or file yields no usable posting text
	ErrNoContent = errors.New("no job posting content")
)

// FetchError represents an error retrieving a job posting URL
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
