package rendering

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// documentView is the format-independent layout of a resume
type documentView struct {
	Name       string
	Contact    []contactItem
	Summary    string
	Experience []entryView
	Education  []entryView
	Skills     []skillLine
}

// contactItem is one element of the header line; URL is set for links
type contactItem struct {
	Text string
	URL  string
}

// entryView is a heading with right-aligned dates and optional bullets
type entryView struct {
	Heading  string
	Location string
	Dates    string
	Bullets  []string
}

type skillLine struct {
	Category string
	Items    string
}

var bulletPrefix = regexp.MustCompile(`^[\s•\-*–—·●▪○▶›]+`)

// cleanBullet strips leading bullet glyphs a model may have added
func cleanBullet(text string) string {
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(text, ""))
}

func joinHeading(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + ", " + b
	}
}

func newDocumentView(content types.ResumeContent, contact types.ContactInfo) *documentView {
	doc := &documentView{
		Name:    strings.ToUpper(strings.TrimSpace(contact.FullName)),
		Summary: strings.TrimSpace(content.Summary),
	}

	if contact.Phone != "" {
		doc.Contact = append(doc.Contact, contactItem{Text: contact.Phone})
	}
	if contact.Email != "" {
		doc.Contact = append(doc.Contact, contactItem{Text: contact.Email})
	}
	if contact.LinkedIn != "" {
		doc.Contact = append(doc.Contact, contactItem{Text: "LinkedIn", URL: absoluteURL(contact.LinkedIn)})
	}
	if contact.GitHub != "" {
		doc.Contact = append(doc.Contact, contactItem{Text: "GitHub", URL: absoluteURL(contact.GitHub)})
	}

	for _, job := range content.Experience {
		entry := entryView{
			Heading:  joinHeading(job.Title, job.Company),
			Location: job.Location,
			Dates:    job.Dates,
		}
		for _, b := range job.Bullets {
			if clean := cleanBullet(b); clean != "" {
				entry.Bullets = append(entry.Bullets, clean)
			}
		}
		doc.Experience = append(doc.Experience, entry)
	}

	for _, edu := range content.Education {
		doc.Education = append(doc.Education, entryView{
			Heading:  joinHeading(edu.Degree, edu.Institution),
			Location: edu.Location,
			Dates:    edu.Dates,
		})
	}

	for _, group := range content.Skills {
		doc.Skills = append(doc.Skills, skillLine{Category: group.Category, Items: strings.Join(group.Skills, ", ")})
	}

	return doc
}

func absoluteURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
