package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaceRe  = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
	emptyBulletRe = regexp.MustCompile(`(?m)^[-*•][ \t]*$`)
)

// CleanText normalizes posting text: LF line endings, single spaces inside
// lines, at most one blank line in a row, markdown headings and bullets kept.
// Output is deterministic for a given input.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = emptyBulletRe.ReplaceAllString(result, "")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "• ") {
		trimmed = "- " + strings.TrimPrefix(trimmed, "• ")
	}
	return innerSpaceRe.ReplaceAllString(trimmed, " ")
}
