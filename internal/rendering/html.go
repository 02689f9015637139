package rendering

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: "Times New Roman", serif; font-size: 10pt; max-width: 8in; margin: 0.5in auto; }
h1 { text-align: center; font-size: 16pt; margin: 0; }
.contact { text-align: center; margin: 0 0 6pt; padding-bottom: 4pt; border-bottom: 1px solid #000; }
h2 { font-size: 11pt; border-bottom: 1px solid #000; margin: 8pt 0 3pt; }
h3 { font-size: 10pt; margin: 4pt 0 0; }
ul { margin: 0 0 4pt; padding-left: 14pt; }
p { margin: 0 0 4pt; }
</style>
</head>
<body>
%s</body>
</html>
`

// buildMarkdown lays the document out as Markdown; all content is escaped
func buildMarkdown(doc *documentView) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", escapeMarkdown(doc.Name))

	contact := make([]string, 0, len(doc.Contact))
	for _, c := range doc.Contact {
		if c.URL != "" {
			contact = append(contact, fmt.Sprintf("[%s](<%s>)", escapeMarkdown(c.Text), strings.ReplaceAll(c.URL, ">", "%3E")))
		} else {
			contact = append(contact, escapeMarkdown(c.Text))
		}
	}
	md.WriteString(strings.Join(contact, " \\| "))
	md.WriteString("\n\n")

	md.WriteString("## SUMMARY\n\n")
	md.WriteString(escapeMarkdown(doc.Summary))
	md.WriteString("\n\n## EXPERIENCE\n\n")
	for _, e := range doc.Experience {
		writeMarkdownEntry(&md, e)
	}

	md.WriteString("## EDUCATION\n\n")
	for _, e := range doc.Education {
		writeMarkdownEntry(&md, e)
	}

	md.WriteString("## SKILLS\n\n")
	for _, s := range doc.Skills {
		fmt.Fprintf(&md, "**%s:** %s\n\n", escapeMarkdown(s.Category), escapeMarkdown(s.Items))
	}

	return md.String()
}

func writeMarkdownEntry(md *strings.Builder, e entryView) {
	heading := escapeMarkdown(e.Heading)
	if e.Location != "" {
		heading += " \\| " + escapeMarkdown(e.Location)
	}
	if e.Dates != "" {
		heading += " \\| " + escapeMarkdown(e.Dates)
	}
	fmt.Fprintf(md, "### %s\n\n", heading)
	for _, b := range e.Bullets {
		fmt.Fprintf(md, "- %s\n", escapeMarkdown(b))
	}
	if len(e.Bullets) > 0 {
		md.WriteString("\n")
	}
}

// encodeHTML converts the Markdown layout to a standalone HTML page
func encodeHTML(doc *documentView) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(buildMarkdown(doc)), &body); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	out := body.String()
	if len(doc.Contact) > 0 {
		// the contact line is the first paragraph after the name
		out = strings.Replace(out, "<p>", `<p class="contact">`, 1)
	}
	return []byte(fmt.Sprintf(htmlShell, html.EscapeString(doc.Name), out)), nil
}
