package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  types.Skills
	}{
		{
			name:  "flat list wrapped under general skills",
			input: []any{"Python", "SQL"},
			want:  types.Skills{{Category: "General Skills", Skills: []string{"Python", "SQL"}}},
		},
		{
			name:  "string slice wrapped under general skills",
			input: []string{"Go"},
			want:  types.Skills{{Category: "General Skills", Skills: []string{"Go"}}},
		},
		{
			name:  "mapping passes through",
			input: map[string][]string{"Cloud": {"AWS"}, "Languages": {"Go"}},
			want: types.Skills{
				{Category: "Cloud", Skills: []string{"AWS"}},
				{Category: "Languages", Skills: []string{"Go"}},
			},
		},
		{
			name:  "non-string items are stringified",
			input: map[string]any{"Misc": []any{1, "two", true}},
			want:  types.Skills{{Category: "Misc", Skills: []string{"1", "two", "true"}}},
		},
		{
			name:  "scalar value coerced into list",
			input: map[string]any{"Languages": "Go"},
			want:  types.Skills{{Category: "Languages", Skills: []string{"Go"}}},
		},
		{
			name:  "raw json keeps document order",
			input: json.RawMessage(`{"Zeta":["z"],"Alpha":["a"]}`),
			want: types.Skills{
				{Category: "Zeta", Skills: []string{"z"}},
				{Category: "Alpha", Skills: []string{"a"}},
			},
		},
		{name: "nil", input: nil, want: FallbackSkills()},
		{name: "string", input: "Go, Python", want: FallbackSkills()},
		{name: "number", input: 42, want: FallbackSkills()},
		{name: "empty mapping", input: map[string]any{}, want: FallbackSkills()},
		{name: "empty list", input: []any{}, want: FallbackSkills()},
		{name: "empty skills", input: types.Skills{}, want: FallbackSkills()},
		{name: "malformed json", input: json.RawMessage(`{nope`), want: FallbackSkills()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSkills(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestNormalizeSkills_Idempotent(t *testing.T) {
	inputs := []any{
		[]any{"Python", "SQL"},
		map[string]any{"Languages": []any{"Go"}, "Tools": "git"},
		nil,
		"garbage",
	}

	for _, input := range inputs {
		once := NormalizeSkills(input)
		twice := NormalizeSkills(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeSkills_DoesNotAliasInput(t *testing.T) {
	input := types.Skills{{Category: "Languages", Skills: []string{"Go"}}}
	got := NormalizeSkills(input)
	got[0].Skills[0] = "Rust"
	assert.Equal(t, "Go", input[0].Skills[0])
}

func TestFallbackSkills_FreshCopy(t *testing.T) {
	a := FallbackSkills()
	a[0].Skills[0] = "changed"
	assert.Equal(t, "Communication", FallbackSkills()[0].Skills[0])
}

func TestNormalizeBulletCounts_PadsToTarget(t *testing.T) {
	experience := []types.ExperienceEntry{
		{Title: "SWE", Company: "Acme", Bullets: []string{"a", "b", "c"}},
	}

	got := NormalizeBulletCounts(experience, []int{7, 6, 4})

	require.Len(t, got, 1)
	require.Len(t, got[0].Bullets, 7)
	assert.Equal(t, []string{"a", "b", "c"}, got[0].Bullets[:3])
	for _, b := range got[0].Bullets[3:] {
		assert.Equal(t, PlaceholderBullet, b)
	}
	assert.Len(t, experience[0].Bullets, 3, "input must not be modified")
}

func TestNormalizeBulletCounts(t *testing.T) {
	bullets := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = strings.Repeat("x", i+1)
		}
		return out
	}

	experience := []types.ExperienceEntry{
		{Title: "A", Bullets: bullets(9)},
		{Title: "B", Bullets: bullets(6)},
		{Title: "C", Bullets: nil},
		{Title: "D", Bullets: bullets(10)},
	}

	got := NormalizeBulletCounts(experience, DefaultBulletTargets())

	require.Len(t, got, 4)
	assert.Equal(t, bullets(7), got[0].Bullets, "truncated keeps leading bullets")
	assert.Equal(t, bullets(6), got[1].Bullets)
	assert.Len(t, got[2].Bullets, 4)
	assert.Len(t, got[3].Bullets, 10, "entries beyond targets are untouched")
	assert.Equal(t, "C", got[2].Title)
}

func TestNormalizeBulletCounts_FewerEntriesThanTargets(t *testing.T) {
	got := NormalizeBulletCounts([]types.ExperienceEntry{{Title: "Only"}}, []int{2, 3})
	require.Len(t, got, 1)
	assert.Equal(t, []string{PlaceholderBullet, PlaceholderBullet}, got[0].Bullets)

	assert.Nil(t, NormalizeBulletCounts(nil, []int{7}))
}

func TestNormalizeBulletCounts_ZeroTarget(t *testing.T) {
	got := NormalizeBulletCounts([]types.ExperienceEntry{{Bullets: []string{"a"}}}, []int{0})
	assert.Empty(t, got[0].Bullets)
	assert.NotNil(t, got[0].Bullets)
}

func TestNormalizeBulletCounts_Idempotent(t *testing.T) {
	experience := []types.ExperienceEntry{
		{Bullets: []string{"a"}},
		{Bullets: []string{"a", "b", "c", "d", "e", "f", "g", "h"}},
	}
	once := NormalizeBulletCounts(experience, DefaultBulletTargets())
	twice := NormalizeBulletCounts(once, DefaultBulletTargets())
	assert.Equal(t, once, twice)
}

func TestClampSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		max     int
		want    string
	}{
		{name: "short unchanged", summary: "hello", max: 10, want: "hello"},
		{name: "exact length unchanged", summary: "hello", max: 5, want: "hello"},
		{name: "truncated with ellipsis", summary: "hello world", max: 8, want: "hello..."},
		{name: "tiny max without ellipsis", summary: "hello", max: 3, want: "hel"},
		{name: "zero max", summary: "hello", max: 0, want: ""},
		{name: "counts runes not bytes", summary: "héllo wörld", max: 8, want: "héllo..."},
		{name: "empty", summary: "", max: 800, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampSummary(tt.summary, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), max(tt.max, 0))
		})
	}
}

func TestClampSummary_Idempotent(t *testing.T) {
	long := strings.Repeat("a", 1000)
	once := ClampSummary(long, DefaultMaxSummaryLength)
	assert.Len(t, once, DefaultMaxSummaryLength)
	assert.True(t, strings.HasSuffix(once, "..."))
	assert.Equal(t, once, ClampSummary(once, DefaultMaxSummaryLength))
}
