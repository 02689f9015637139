//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceEntry_UnmarshalResponsibilitiesAlias(t *testing.T) {
	var entry ExperienceEntry
	err := json.Unmarshal([]byte(`{"title":"SWE","company":"Acme","location":"Remote","dates":"2020-2022","responsibilities":["Built APIs"]}`), &entry)
	require.NoError(t, err)

	assert.Equal(t, "SWE", entry.Title)
	assert.Equal(t, []string{"Built APIs"}, entry.Bullets)
}

func TestExperienceEntry_BulletsWinOverAlias(t *testing.T) {
	var entry ExperienceEntry
	err := json.Unmarshal([]byte(`{"title":"SWE","bullets":["a"],"responsibilities":["b"]}`), &entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, entry.Bullets)
}

func TestResumeContent_CloneIsDeep(t *testing.T) {
	original := ResumeContent{
		Summary:    "summary",
		Experience: []ExperienceEntry{{Title: "SWE", Bullets: []string{"a", "b"}}},
		Education:  []EducationEntry{{Degree: "BS", Institution: "MIT"}},
		Skills:     Skills{{Category: "Languages", Skills: []string{"Go"}}},
	}

	clone := original.Clone()
	clone.Experience[0].Bullets[0] = "changed"
	clone.Education[0].Degree = "PhD"
	clone.Skills[0].Skills[0] = "Rust"

	assert.Equal(t, "a", original.Experience[0].Bullets[0])
	assert.Equal(t, "BS", original.Education[0].Degree)
	assert.Equal(t, "Go", original.Skills[0].Skills[0])
}

func TestResumeContent_ClonePreservesNil(t *testing.T) {
	clone := ResumeContent{}.Clone()
	assert.Nil(t, clone.Experience)
	assert.Nil(t, clone.Education)
	assert.Nil(t, clone.Skills)
}

func TestScoreResult_JSONKeys(t *testing.T) {
	var result ScoreResult
	err := json.Unmarshal([]byte(`{"score":72,"analysis":{"missing_keywords":["k8s"],"weak_areas":"infra","recommendations":"add k8s"}}`), &result)
	require.NoError(t, err)

	assert.Equal(t, 72, result.Score)
	assert.Equal(t, []string{"k8s"}, result.Diagnosis.MissingKeywords)
	assert.Equal(t, "infra", result.Diagnosis.WeakAreas)
}

func TestLoadResumeFile_JSONDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	content := `{
		"contact": {"full_name": "Ada Lovelace", "phone": "555-0100", "email": "ada@example.com"},
		"sections": {
			"summary": "Engineer",
			"experience": [{"title": "SWE", "company": "Acme", "location": "Remote", "dates": "2020", "bullets": ["x"]}],
			"education": [],
			"skills": {"Languages": ["Go", "Python"], "Tools": ["Docker"]}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := LoadResumeFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", doc.Contact.FullName)
	assert.Equal(t, "Engineer", doc.Sections.Summary)
	require.Len(t, doc.Sections.Skills, 2)
	assert.Equal(t, "Languages", doc.Sections.Skills[0].Category)
	assert.Equal(t, "Tools", doc.Sections.Skills[1].Category)
	assert.NotNil(t, doc.Sections.Education)
}

func TestLoadResumeFile_BareYAMLContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.yaml")
	content := `summary: Backend engineer
experience:
  - title: SWE
    company: Acme
    location: Remote
    dates: 2019 - 2023
    bullets:
      - Shipped things
education:
  - degree: BS Computer Science
    institution: State University
    location: Somewhere
    dates: "2015"
skills:
  Languages: [Go, SQL]
  Cloud: [AWS]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := LoadResumeFile(path)
	require.NoError(t, err)

	assert.Empty(t, doc.Contact.FullName)
	assert.Equal(t, "Backend engineer", doc.Sections.Summary)
	require.Len(t, doc.Sections.Experience, 1)
	assert.Equal(t, []string{"Shipped things"}, doc.Sections.Experience[0].Bullets)
	require.Len(t, doc.Sections.Education, 1)
	assert.Equal(t, "2015", doc.Sections.Education[0].Dates)
	assert.Equal(t, Skills{
		{Category: "Languages", Skills: []string{"Go", "SQL"}},
		{Category: "Cloud", Skills: []string{"AWS"}},
	}, doc.Sections.Skills)
}

func TestLoadResumeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadResumeFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	txt := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = LoadResumeFile(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadResumeFile(bad)
	require.Error(t, err)
}

func TestRequests_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request interface{ Validate() error }
		wantErr bool
	}{
		{
			name: "valid upload",
			request: &UploadResumeRequest{
				UserID:  "u1",
				Contact: ContactInfo{FullName: "Ada", Phone: "555", Email: "ada@example.com"},
			},
		},
		{
			name: "upload missing email",
			request: &UploadResumeRequest{
				UserID:  "u1",
				Contact: ContactInfo{FullName: "Ada", Phone: "555"},
			},
			wantErr: true,
		},
		{
			name: "upload bad email",
			request: &UploadResumeRequest{
				UserID:  "u1",
				Contact: ContactInfo{FullName: "Ada", Phone: "555", Email: "not-an-email"},
			},
			wantErr: true,
		},
		{
			name:    "upload missing user",
			request: &UploadResumeRequest{Contact: ContactInfo{FullName: "Ada", Phone: "555", Email: "ada@example.com"}},
			wantErr: true,
		},
		{
			name:    "optimize with description",
			request: &OptimizeRequest{UserID: "u1", JobDescription: "Go developer"},
		},
		{
			name:    "optimize with url",
			request: &OptimizeRequest{UserID: "u1", JobURL: "https://jobs.example.com/1"},
		},
		{
			name:    "optimize without job",
			request: &OptimizeRequest{UserID: "u1"},
			wantErr: true,
		},
		{
			name:    "optimize bad format",
			request: &OptimizeRequest{UserID: "u1", JobDescription: "Go", Format: "pdf"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
