// Package normalize coerces transform output into the shapes the optimization workflow relies on.
// Every helper is idempotent: applying it to its own output returns an equal value.
package normalize

import (
	"encoding/json"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/tidwall/gjson"
)

// FallbackSkills returns the skills used when transform output carries nothing usable
func FallbackSkills() types.Skills {
	return types.Skills{
		{Category: types.DefaultSkillCategory, Skills: []string{"Communication", "Problem Solving"}},
	}
}

// NormalizeSkills coerces an arbitrary skills value into a non-empty category mapping.
//
// A category mapping passes through with non-string items stringified and scalar
// category values wrapped into one-item lists. A flat list is placed under
// types.DefaultSkillCategory. Anything else, including an empty mapping or list,
// yields FallbackSkills.
func NormalizeSkills(raw any) types.Skills {
	var data []byte

	switch v := raw.(type) {
	case nil:
		return FallbackSkills()
	case types.Skills:
		if len(v) == 0 {
			return FallbackSkills()
		}
		return v.Clone()
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		// maps are marshaled with sorted keys, which fixes category order
		encoded, err := json.Marshal(v)
		if err != nil {
			return FallbackSkills()
		}
		data = encoded
	}

	if parsed := gjson.ParseBytes(data); parsed.IsArray() && len(parsed.Array()) == 0 {
		return FallbackSkills()
	}

	skills, ok := types.ParseSkills(data)
	if !ok || len(skills) == 0 {
		return FallbackSkills()
	}
	return skills
}
