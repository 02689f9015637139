// Package types provides type definitions for structured data used throughout the resume optimizer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// DefaultSkillCategory is the category used when skills arrive as a flat list
const DefaultSkillCategory = "General Skills"

// SkillGroup is one category of skills
type SkillGroup struct {
	Category string
	Skills   []string
}

// Skills maps category names to ordered skill lists. Category order is
// preserved from the source document so renderers are deterministic.
type Skills []SkillGroup

// Get returns the skills listed under a category
func (s Skills) Get(category string) ([]string, bool) {
	for _, g := range s {
		if g.Category == category {
			return g.Skills, true
		}
	}
	return nil, false
}

// Map returns the skills as a plain map (order is lost)
func (s Skills) Map() map[string][]string {
	out := make(map[string][]string, len(s))
	for _, g := range s {
		out[g.Category] = g.Skills
	}
	return out
}

// Clone deep-copies the skills, preserving nil
func (s Skills) Clone() Skills {
	if s == nil {
		return nil
	}
	out := make(Skills, len(s))
	for i, g := range s {
		out[i] = SkillGroup{Category: g.Category, Skills: append([]string(nil), g.Skills...)}
	}
	return out
}

// MarshalJSON writes the skills as an ordered JSON object
func (s Skills) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category)
		if err != nil {
			return nil, err
		}
		list := g.Skills
		if list == nil {
			list = []string{}
		}
		val, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a category object or a flat list of skills
func (s *Skills) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	parsed, ok := ParseSkills(data)
	if !ok {
		return fmt.Errorf("skills must be an object of category lists or a list of strings")
	}
	*s = parsed
	return nil
}

// UnmarshalYAML reads a category mapping or a flat sequence of skills
func (s *Skills) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		groups := make(Skills, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var list []string
			value := node.Content[i+1]
			if value.Kind == yaml.ScalarNode {
				list = []string{value.Value}
			} else if err := value.Decode(&list); err != nil {
				return fmt.Errorf("skills category %q: %w", node.Content[i].Value, err)
			}
			groups = append(groups, SkillGroup{Category: node.Content[i].Value, Skills: list})
		}
		*s = groups
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("skills list: %w", err)
		}
		*s = Skills{{Category: DefaultSkillCategory, Skills: list}}
		return nil
	default:
		return fmt.Errorf("skills must be a mapping of category lists or a list of strings")
	}
}

// ParseSkills interprets loosely-structured skills JSON.
// An object is read category by category in document order: array values are
// stringified element-wise, scalar values become one-item lists, and nested
// objects or nulls are dropped. A flat array is wrapped under DefaultSkillCategory.
// ok is false when the value is neither an object nor an array.
func ParseSkills(data []byte) (skills Skills, ok bool) {
	if !gjson.ValidBytes(data) {
		return nil, false
	}
	result := gjson.ParseBytes(data)

	switch {
	case result.IsObject():
		skills = Skills{}
		result.ForEach(func(key, value gjson.Result) bool {
			var list []string
			switch {
			case value.IsArray():
				list = stringList(value)
			case value.Type == gjson.String || value.Type == gjson.Number || value.Type == gjson.True || value.Type == gjson.False:
				list = []string{value.String()}
			default:
				return true
			}
			skills = append(skills, SkillGroup{Category: key.String(), Skills: list})
			return true
		})
		return skills, true
	case result.IsArray():
		return Skills{{Category: DefaultSkillCategory, Skills: stringList(result)}}, true
	default:
		return nil, false
	}
}

// stringList converts a gjson array to strings, skipping nulls and nested values
func stringList(arr gjson.Result) []string {
	out := []string{}
	for _, item := range arr.Array() {
		switch item.Type {
		case gjson.Null, gjson.JSON:
			continue
		default:
			out = append(out, item.String())
		}
	}
	return out
}
