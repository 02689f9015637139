package normalize

const ellipsis = "..."

// DefaultMaxSummaryLength is the summary limit, in characters
const DefaultMaxSummaryLength = 800

// ClampSummary limits a summary to maxLen characters (runes). Longer summaries are
// cut to maxLen-3 characters followed by "...". When maxLen is 3 or less the first maxLen
// characters are kept with no ellipsis.
func ClampSummary(summary string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(summary)
	if len(runes) <= maxLen {
		return summary
	}
	if maxLen <= len(ellipsis) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
