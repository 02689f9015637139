//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Skills
		wantOK bool
	}{
		{
			name:   "ordered object",
			input:  `{"Languages":["Go","Python"],"Cloud":["AWS"]}`,
			want:   Skills{{Category: "Languages", Skills: []string{"Go", "Python"}}, {Category: "Cloud", Skills: []string{"AWS"}}},
			wantOK: true,
		},
		{
			name:   "flat list",
			input:  `["Python","SQL"]`,
			want:   Skills{{Category: DefaultSkillCategory, Skills: []string{"Python", "SQL"}}},
			wantOK: true,
		},
		{
			name:   "non-string items are stringified",
			input:  `{"Numbers":[1, true, "x", null]}`,
			want:   Skills{{Category: "Numbers", Skills: []string{"1", "true", "x"}}},
			wantOK: true,
		},
		{
			name:   "scalar category value becomes one item",
			input:  `{"Languages":"Go"}`,
			want:   Skills{{Category: "Languages", Skills: []string{"Go"}}},
			wantOK: true,
		},
		{
			name:   "nested object value dropped",
			input:  `{"Languages":{"a":1},"Tools":["git"]}`,
			want:   Skills{{Category: "Tools", Skills: []string{"git"}}},
			wantOK: true,
		},
		{
			name:   "empty object",
			input:  `{}`,
			want:   Skills{},
			wantOK: true,
		},
		{name: "string", input: `"Go"`, wantOK: false},
		{name: "number", input: `42`, wantOK: false},
		{name: "invalid", input: `{oops`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSkills([]byte(tt.input))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSkills_MarshalJSONPreservesOrder(t *testing.T) {
	skills := Skills{
		{Category: "Zeta", Skills: []string{"z"}},
		{Category: "Alpha", Skills: nil},
	}

	data, err := json.Marshal(skills)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":["z"],"Alpha":[]}`, string(data))

	var back Skills
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Zeta", back[0].Category)
	assert.Equal(t, "Alpha", back[1].Category)
}

func TestSkills_UnmarshalJSONRejectsScalar(t *testing.T) {
	var s Skills
	err := json.Unmarshal([]byte(`"Go"`), &s)
	assert.Error(t, err)
}

func TestSkills_UnmarshalYAMLFlatList(t *testing.T) {
	var s Skills
	require.NoError(t, yaml.Unmarshal([]byte("- Go\n- SQL\n"), &s))
	assert.Equal(t, Skills{{Category: DefaultSkillCategory, Skills: []string{"Go", "SQL"}}}, s)
}

func TestSkills_GetAndMap(t *testing.T) {
	s := Skills{{Category: "Languages", Skills: []string{"Go"}}}

	got, ok := s.Get("Languages")
	assert.True(t, ok)
	assert.Equal(t, []string{"Go"}, got)

	_, ok = s.Get("Missing")
	assert.False(t, ok)

	assert.Equal(t, map[string][]string{"Languages": {"Go"}}, s.Map())
}
