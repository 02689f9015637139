package rendering

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Page geometry in twentieths of a point: US Letter with half-inch margins
const (
	pageWidth   = 12240
	pageHeight  = 15840
	pageMargin  = 720
	textWidth   = pageWidth - 2*pageMargin
	bodySize    = 20 // half-points
	nameSize    = 32
	headingSize = 22
)

const (
	nsMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relHyperlink    = nsRelationships + "/hyperlink"
	relStyles       = nsRelationships + "/styles"
	relDocument     = nsRelationships + "/officeDocument"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="` + relDocument + `" Target="word/document.xml"/>
</Relationships>`

var stylesXML = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="%s">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman" w:cs="Times New Roman"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:before="0" w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/><w:rPr><w:color w:val="0000FF"/><w:u w:val="single"/></w:rPr></w:style>
</w:styles>`, nsMain, bodySize, bodySize)

// docxWriter accumulates document.xml paragraphs and hyperlink relationships
type docxWriter struct {
	body  strings.Builder
	links []string
}

// run is a span of text with optional bold and size
type run struct {
	text string
	bold bool
	size int
	tab  bool
}

// paragraph options
type para struct {
	center     bool
	rightTab   bool
	bottomRule int // border size in eighths of a point, 0 for none
	indentLeft int
	hanging    int
	spaceAfter int
	keepNext   bool
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (w *docxWriter) openParagraph(p para) {
	w.body.WriteString("<w:p><w:pPr>")
	if p.keepNext {
		w.body.WriteString("<w:keepNext/>")
	}
	if p.bottomRule > 0 {
		fmt.Fprintf(&w.body, `<w:pBdr><w:bottom w:val="single" w:sz="%d" w:space="0" w:color="000000"/></w:pBdr>`, p.bottomRule)
	}
	if p.rightTab {
		fmt.Fprintf(&w.body, `<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs>`, textWidth)
	}
	fmt.Fprintf(&w.body, `<w:spacing w:before="0" w:after="%d" w:line="240" w:lineRule="auto"/>`, p.spaceAfter)
	if p.indentLeft > 0 || p.hanging > 0 {
		fmt.Fprintf(&w.body, `<w:ind w:left="%d" w:hanging="%d"/>`, p.indentLeft, p.hanging)
	}
	if p.center {
		w.body.WriteString(`<w:jc w:val="center"/>`)
	}
	w.body.WriteString("</w:pPr>")
}

func (w *docxWriter) writeRun(r run) {
	w.body.WriteString("<w:r>")
	if r.bold || r.size > 0 {
		w.body.WriteString("<w:rPr>")
		if r.bold {
			w.body.WriteString("<w:b/>")
		}
		if r.size > 0 {
			fmt.Fprintf(&w.body, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, r.size, r.size)
		}
		w.body.WriteString("</w:rPr>")
	}
	if r.tab {
		w.body.WriteString("<w:tab/>")
	}
	if r.text != "" {
		fmt.Fprintf(&w.body, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(r.text))
	}
	w.body.WriteString("</w:r>")
}

func (w *docxWriter) writeHyperlink(text, url string) {
	w.links = append(w.links, url)
	// rId1 is the styles relationship
	id := fmt.Sprintf("rId%d", len(w.links)+1)
	fmt.Fprintf(&w.body, `<w:hyperlink r:id="%s"><w:r><w:rPr><w:rStyle w:val="Hyperlink"/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:hyperlink>`, id, escapeXML(text))
}

func (w *docxWriter) paragraph(p para, runs ...run) {
	w.openParagraph(p)
	for _, r := range runs {
		w.writeRun(r)
	}
	w.body.WriteString("</w:p>")
}

func (w *docxWriter) sectionHeader(title string) {
	w.paragraph(para{bottomRule: 6, keepNext: true, spaceAfter: 40}, run{text: strings.ToUpper(title), bold: true, size: headingSize})
}

// entry writes "Heading<TAB>Dates" with bullets under it
func (w *docxWriter) entry(e entryView, boldHeading bool, spaceAfter int) {
	after := spaceAfter
	if len(e.Bullets) > 0 {
		after = 0
	}
	heading := e.Heading
	if e.Location != "" {
		heading += " | " + e.Location
	}
	w.paragraph(para{rightTab: true, spaceAfter: after, keepNext: len(e.Bullets) > 0},
		run{text: heading, bold: boldHeading},
		run{text: e.Dates, bold: true, tab: true},
	)
	for i, b := range e.Bullets {
		p := para{indentLeft: 240, hanging: 120}
		if i == len(e.Bullets)-1 {
			p.spaceAfter = spaceAfter
		}
		w.paragraph(p, run{text: "• " + b})
	}
}

func (w *docxWriter) documentXML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	fmt.Fprintf(&sb, `<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, nsMain, nsRelationships)
	sb.WriteString(w.body.String())
	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="0" w:footer="0" w:gutter="0"/></w:sectPr>`,
		pageWidth, pageHeight, pageMargin, pageMargin, pageMargin, pageMargin)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func (w *docxWriter) relationshipsXML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&sb, `<Relationship Id="rId1" Type="%s" Target="styles.xml"/>`, relStyles)
	for i, url := range w.links {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="%s" Target="%s" TargetMode="External"/>`, i+2, relHyperlink, escapeXML(url))
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// encodeDOCX lays out the header, then SUMMARY, EXPERIENCE, EDUCATION and SKILLS
func encodeDOCX(doc *documentView) ([]byte, error) {
	w := &docxWriter{}

	w.paragraph(para{center: true}, run{text: doc.Name, bold: true, size: nameSize})

	w.openParagraph(para{center: true, bottomRule: 8, spaceAfter: 80})
	for i, item := range doc.Contact {
		if i > 0 {
			w.writeRun(run{text: " | "})
		}
		if item.URL != "" {
			w.writeHyperlink(item.Text, item.URL)
		} else {
			w.writeRun(run{text: item.Text})
		}
	}
	w.body.WriteString("</w:p>")

	w.sectionHeader("Summary")
	w.paragraph(para{spaceAfter: 200}, run{text: doc.Summary})

	w.sectionHeader("Experience")
	for _, e := range doc.Experience {
		w.entry(e, true, 120)
	}

	w.sectionHeader("Education")
	for _, e := range doc.Education {
		w.entry(e, false, 200)
	}

	w.sectionHeader("Skills")
	for _, s := range doc.Skills {
		w.paragraph(para{}, run{text: s.Category + ": ", bold: true}, run{text: s.Items})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", w.documentXML()},
		{"word/styles.xml", stylesXML},
		{"word/_rels/document.xml.rels", w.relationshipsXML()},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}
