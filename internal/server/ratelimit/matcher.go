package ratelimit

import (
	"strings"
)

// MatchRule returns the rule for a request path and method, or nil if none applies.
// Exact matches win over prefix matches.
func MatchRule(path, method string, rules []Rule) *Rule {
	for i := range rules {
		rule := &rules[i]
		if rule.Path == path && rule.Method == method {
			return rule
		}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return nil
}
