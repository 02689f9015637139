package rendering

import "strings"

// latexSpecials maps each character LaTeX treats as markup to its literal form.
// Replacements are not rescanned, so the braces emitted for \ ^ ~ stay intact.
var latexSpecials = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// hrefSpecials rewrites what hyperref cannot take verbatim inside \href
var hrefSpecials = strings.NewReplacer(`\`, `/`, `%`, `\%`, `#`, `\#`, `{`, `%7B`, `}`, `%7D`)

// markdownPunctuation is every character goldmark could read as syntax
const markdownPunctuation = "\\`*_{}[]()<>#+-.!|~&"

// EscapeLaTeX makes resume text safe to place in the LaTeX template body
func EscapeLaTeX(text string) string {
	return latexSpecials.Replace(text)
}

func escapeLaTeXURL(url string) string {
	return hrefSpecials.Replace(url)
}

// escapeMarkdown backslash-escapes Markdown punctuation so names, bullets and
// skills render as literal text in the HTML artifact
func escapeMarkdown(text string) string {
	var result strings.Builder
	result.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(markdownPunctuation, r) {
			result.WriteByte('\\')
		}
		result.WriteRune(r)
	}
	return result.String()
}
