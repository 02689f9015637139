package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the resume_agent binary for testing
func getBinaryPath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "resume_agent")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}
	return binaryPath
}

// writeFixture writes content to name inside dir and returns the path
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

const fixtureResumeYAML = `contact:
  full_name: Ada Lovelace
  phone: 555-0100
  email: ada@example.com
sections:
  summary: Backend engineer
  experience:
    - title: Senior Engineer
      company: Acme
      location: Remote
      dates: 2021 - Present
      bullets:
        - Built APIs
  education:
    - degree: BS Computer Science
      institution: State University
  skills:
    - Go
    - SQL
`

const fixtureJob = "Senior Go engineer. Build distributed systems with Kubernetes, PostgreSQL and gRPC. Five years of backend experience."
