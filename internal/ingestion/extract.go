package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements end a line of text when extracting from HTML
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"br": true, "ul": true, "ol": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ExtractPosting parses an HTML page and returns its title and the readable
// text of the posting body for platform
func ExtractPosting(page []byte, platform Platform) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title = strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find(strings.Join(NoiseSelectors(platform), ", ")).Remove()

	var body *goquery.Selection
	for _, selector := range ContentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			body = sel.First()
			break
		}
	}
	if body == nil {
		body = doc.Find("body")
	}

	var sb strings.Builder
	for _, node := range body.Nodes {
		writeText(&sb, node)
	}
	return title, CleanText(sb.String()), nil
}

// writeText renders node's text with line breaks at block elements and a
// markdown bullet for list items
func writeText(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		if strings.TrimSpace(node.Data) == "" {
			sb.WriteString(" ")
		} else {
			sb.WriteString(node.Data)
		}
		return
	case html.ElementNode:
		if node.Data == "li" {
			sb.WriteString("\n- ")
		} else if blockElements[node.Data] {
			sb.WriteString("\n")
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(sb, child)
	}
	if node.Type == html.ElementNode && blockElements[node.Data] {
		sb.WriteString("\n")
	}
}
