package db

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-5))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxListLimit, clampLimit(10_000))
}

func TestDecodeOptimization(t *testing.T) {
	content := types.ResumeContent{
		Summary:    "Engineer",
		Experience: []types.ExperienceEntry{{Title: "SWE", Bullets: []string{"a"}}},
		Education:  []types.EducationEntry{},
		Skills: types.Skills{
			{Category: "Zeta", Skills: []string{"z"}},
			{Category: "Alpha", Skills: []string{"a"}},
		},
	}
	contentJSON, err := json.Marshal(content)
	require.NoError(t, err)

	t.Run("with diagnosis", func(t *testing.T) {
		var o Optimization
		err := decodeOptimization(&o, contentJSON, []byte(`{"missing_keywords":["go"],"weak_areas":"x","recommendations":"y"}`))
		require.NoError(t, err)
		assert.Equal(t, content, o.Content)
		require.NotNil(t, o.Diagnosis)
		assert.Equal(t, []string{"go"}, o.Diagnosis.MissingKeywords)
	})

	t.Run("null diagnosis", func(t *testing.T) {
		var o Optimization
		require.NoError(t, decodeOptimization(&o, contentJSON, []byte("null")))
		assert.Nil(t, o.Diagnosis)

		require.NoError(t, decodeOptimization(&o, contentJSON, nil))
		assert.Nil(t, o.Diagnosis)
	})

	t.Run("corrupt content", func(t *testing.T) {
		var o Optimization
		err := decodeOptimization(&o, []byte(`{"experience": 5}`), nil)
		assert.ErrorContains(t, err, "failed to unmarshal optimized content")
	})
}

func TestOptimization_JSONKeys(t *testing.T) {
	data, err := json.Marshal(Optimization{UserID: "u1", ATSScore: 88, IterationCount: 1, Passed: true})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, float64(88), m["ats_score"])
	assert.Equal(t, float64(1), m["iterations"])
	assert.NotContains(t, m, "analysis")
	assert.NotContains(t, m, "resume_id")
}
