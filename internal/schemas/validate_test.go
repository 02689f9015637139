package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "number score with analysis", input: `{"score": 80, "analysis": {"missing_keywords": ["go"], "weak_areas": "x", "recommendations": "y"}}`},
		{name: "float score", input: `{"score": 72.5}`},
		{name: "numeric string score", input: `{"score": "85"}`},
		{name: "out of hundred string", input: `{"score": "85/100"}`},
		{name: "percent string", input: `{"score": "85%"}`},
		{name: "missing score", input: `{"analysis": {}}`, wantErr: true},
		{name: "word score", input: `{"score": "high"}`, wantErr: true},
		{name: "array score", input: `{"score": [85]}`, wantErr: true},
		{name: "not an object", input: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScore(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var ve *ValidationError
				assert.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateContentUpdate(t *testing.T) {
	valid := `{"summary": "s", "experience": [{"title": "SWE", "bullets": ["a"]}], "skills": ["Go"]}`
	assert.NoError(t, ValidateContentUpdate(valid))

	assert.NoError(t, ValidateContentUpdate(`{"experience": []}`))
	assert.NoError(t, ValidateContentUpdate(`{"experience": [], "skills": "Python, SQL"}`), "any skills shape is left to normalization")
	assert.NoError(t, ValidateContentUpdate(`{"experience": [], "skills": 42}`))

	err := ValidateContentUpdate(`{"summary": "only summary"}`)
	require.Error(t, err)

	err = ValidateContentUpdate(`{"experience": [{"bullets": [1, 2]}]}`)
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ContentSchema, ve.Schema)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), ContentSchema)
}

func TestValidateResume(t *testing.T) {
	valid := `{
		"summary": "Engineer",
		"experience": [{"title": "SWE", "company": "Acme", "dates": "2020", "bullets": []}],
		"education": [{"degree": "BS", "institution": "MIT"}],
		"skills": {"Languages": ["Go"]}
	}`
	assert.NoError(t, ValidateResume(valid))

	err := ValidateResume(`{"summary": "Engineer", "experience": [], "skills": {}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "education")
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)
	require.Error(t, err)
	var sle *SchemaLoadError
	assert.True(t, errors.As(err, &sle))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{"name": 3}`)
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Errors[0].Field)

	err = ValidateJSONString(`{not a schema`, `{}`)
	require.Error(t, err)
	var sle *SchemaLoadError
	assert.True(t, errors.As(err, &sle))
}

func TestValidateJSONString_InvalidDocument(t *testing.T) {
	err := ValidateJSONString(`{"type": "object"}`, `{broken`)
	assert.Error(t, err)
}
