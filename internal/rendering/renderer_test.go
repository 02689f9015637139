package rendering

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() (types.ResumeContent, types.ContactInfo) {
	content := types.ResumeContent{
		Summary: "Backend engineer with 8 years of Go & distributed systems",
		Experience: []types.ExperienceEntry{
			{
				Title: "Senior Engineer", Company: "Acme", Location: "Remote", Dates: "2021 - Present",
				Bullets: []string{"• Led migration to gRPC", "- Cut p99 latency by 40%"},
			},
			{Title: "Engineer", Company: "Initech", Dates: "2017 - 2021", Bullets: []string{}},
		},
		Education: []types.EducationEntry{{Degree: "BS Computer Science", Institution: "State University", Dates: "2017"}},
		Skills: types.Skills{
			{Category: "Languages", Skills: []string{"Go", "SQL"}},
			{Category: "Cloud", Skills: []string{"GCP"}},
		},
	}
	contact := types.ContactInfo{
		FullName: "Ada Lovelace",
		Phone:    "555-0100",
		Email:    "ada@example.com",
		LinkedIn: "linkedin.com/in/ada",
		GitHub:   "https://github.com/ada",
	}
	return content, contact
}

func readZipPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer func() { _ = rc.Close() }()
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(body)
		}
	}
	t.Fatalf("zip part %s not found", name)
	return ""
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatDOCX, "DOCX": FormatDOCX, "latex": FormatLaTeX, "tex": FormatLaTeX, "html": FormatHTML}
	for input, want := range tests {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := NewRenderer("pdf", t.TempDir())
	assert.Error(t, err)

	r, err := NewRenderer(FormatDOCX, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, r.OutputDir())
}

func TestRender_WritesNamedArtifact(t *testing.T) {
	content, contact := sampleResume()

	for _, format := range []Format{FormatDOCX, FormatLaTeX, FormatHTML} {
		t.Run(string(format), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "generated")
			r, err := NewRenderer(format, dir)
			require.NoError(t, err)

			path, err := r.Render(context.Background(), content, contact)
			require.NoError(t, err)

			pattern := regexp.MustCompile(`^final_resume_[0-9a-f-]{36}\.` + string(format) + `$`)
			assert.Regexp(t, pattern, filepath.Base(path))
			assert.Equal(t, dir, filepath.Dir(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp files left behind")
		})
	}
}

func TestRender_UniqueNames(t *testing.T) {
	content, contact := sampleResume()
	r, err := NewRenderer(FormatHTML, t.TempDir())
	require.NoError(t, err)

	a, err := r.Render(context.Background(), content, contact)
	require.NoError(t, err)
	b, err := r.Render(context.Background(), content, contact)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRender_MissingSection(t *testing.T) {
	content, contact := sampleResume()
	r, err := NewRenderer(FormatDOCX, t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(c *types.ResumeContent)
		section string
	}{
		{name: "experience", mutate: func(c *types.ResumeContent) { c.Experience = nil }, section: "experience"},
		{name: "education", mutate: func(c *types.ResumeContent) { c.Education = nil }, section: "education"},
		{name: "skills", mutate: func(c *types.ResumeContent) { c.Skills = nil }, section: "skills"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := content.Clone()
			tt.mutate(&broken)

			_, err := r.Render(context.Background(), broken, contact)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRenderFailure))

			var failure *RenderFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.section, failure.Section)
		})
	}
}

func TestRender_EmptySectionsAreValid(t *testing.T) {
	r, err := NewRenderer(FormatDOCX, t.TempDir())
	require.NoError(t, err)

	content := types.ResumeContent{
		Experience: []types.ExperienceEntry{},
		Education:  []types.EducationEntry{},
		Skills:     types.Skills{},
	}
	_, err = r.Render(context.Background(), content, types.ContactInfo{FullName: "X"})
	assert.NoError(t, err)
}

func TestRender_ContextCancelled(t *testing.T) {
	content, contact := sampleResume()
	dir := t.TempDir()
	r, err := NewRenderer(FormatDOCX, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, content, contact)
	assert.ErrorIs(t, err, context.Canceled)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestRender_UnwritableOutputDir(t *testing.T) {
	content, contact := sampleResume()
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	r, err := NewRenderer(FormatHTML, filepath.Join(file, "sub"))
	require.NoError(t, err)

	_, err = r.Render(context.Background(), content, contact)
	assert.ErrorIs(t, err, ErrRenderFailure)
}

func TestEncodeDOCX_Layout(t *testing.T) {
	content, contact := sampleResume()
	r, err := NewRenderer(FormatDOCX, t.TempDir())
	require.NoError(t, err)

	data, err := r.RenderBytes(context.Background(), content, contact)
	require.NoError(t, err)

	doc := readZipPart(t, data, "word/document.xml")
	assert.Contains(t, doc, "ADA LOVELACE")
	assert.Contains(t, doc, "555-0100")
	assert.Contains(t, doc, "ada@example.com")
	assert.Contains(t, doc, ">LinkedIn<")
	assert.Contains(t, doc, ">GitHub<")
	assert.Contains(t, doc, "Senior Engineer, Acme | Remote")
	assert.Contains(t, doc, "• Led migration to gRPC")
	assert.Contains(t, doc, "• Cut p99 latency by 40%")
	assert.NotContains(t, doc, "• •")
	assert.Contains(t, doc, "Go &amp; distributed systems")
	assert.Contains(t, doc, "BS Computer Science, State University")
	assert.Contains(t, doc, "Languages: ")
	assert.Contains(t, doc, "Go, SQL")

	order := []string{"SUMMARY", "EXPERIENCE", "EDUCATION", "SKILLS"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(doc, ">"+heading+"<")
		require.GreaterOrEqual(t, idx, 0, heading)
		assert.Greater(t, idx, last, heading)
		last = idx
	}
	assert.Less(t, strings.Index(doc, "Languages"), strings.Index(doc, "Cloud"), "skills keep category order")

	rels := readZipPart(t, data, "word/_rels/document.xml.rels")
	assert.Contains(t, rels, `Target="https://linkedin.com/in/ada"`)
	assert.Contains(t, rels, `Target="https://github.com/ada"`)
	assert.Contains(t, rels, `TargetMode="External"`)

	readZipPart(t, data, "[Content_Types].xml")
	readZipPart(t, data, "word/styles.xml")
	readZipPart(t, data, "_rels/.rels")
}

func TestEncodeDOCX_LinksRulesAndTabStops(t *testing.T) {
	content, contact := sampleResume()
	r, err := NewRenderer(FormatDOCX, t.TempDir())
	require.NoError(t, err)

	data, err := r.RenderBytes(context.Background(), content, contact)
	require.NoError(t, err)

	type relationship struct {
		ID         string `xml:"Id,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	}
	var rels struct {
		Relationships []relationship `xml:"Relationship"`
	}
	require.NoError(t, xml.Unmarshal([]byte(readZipPart(t, data, "word/_rels/document.xml.rels")), &rels))
	targets := map[string]string{}
	for _, rel := range rels.Relationships {
		targets[rel.ID] = rel.Target
	}

	var (
		linkIDs     []string
		rightTabs   int
		ruledParas  int
		elementPath []string
	)
	dec := xml.NewDecoder(strings.NewReader(readZipPart(t, data, "word/document.xml")))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "document.xml must be well formed")

		switch el := tok.(type) {
		case xml.StartElement:
			assert.Equal(t, nsMain, el.Name.Space, "unexpected element %s", el.Name.Local)
			parent := ""
			if len(elementPath) > 0 {
				parent = elementPath[len(elementPath)-1]
			}
			attrs := map[string]string{}
			for _, a := range el.Attr {
				attrs[a.Name.Space+" "+a.Name.Local] = a.Value
			}
			switch {
			case el.Name.Local == "hyperlink":
				linkIDs = append(linkIDs, attrs[nsRelationships+" id"])
			case el.Name.Local == "tab" && parent == "tabs":
				if attrs[nsMain+" val"] == "right" && attrs[nsMain+" pos"] == "10800" {
					rightTabs++
				}
			case el.Name.Local == "bottom" && parent == "pBdr":
				assert.NotEmpty(t, attrs[nsMain+" sz"], "rules carry a width")
				ruledParas++
			}
			elementPath = append(elementPath, el.Name.Local)
		case xml.EndElement:
			elementPath = elementPath[:len(elementPath)-1]
		}
	}

	require.Len(t, linkIDs, 2, "LinkedIn and GitHub are clickable")
	assert.Equal(t, "https://linkedin.com/in/ada", targets[linkIDs[0]])
	assert.Equal(t, "https://github.com/ada", targets[linkIDs[1]])
	for _, rel := range rels.Relationships {
		if rel.ID == linkIDs[0] || rel.ID == linkIDs[1] {
			assert.Equal(t, "External", rel.TargetMode)
		}
	}

	assert.Equal(t, len(content.Experience)+len(content.Education), rightTabs, "every entry right-aligns its dates")
	assert.Equal(t, 5, ruledParas, "contact line plus four section headings")
}

func TestEncodeLaTeX(t *testing.T) {
	content, contact := sampleResume()
	r, err := NewRenderer(FormatLaTeX, t.TempDir())
	require.NoError(t, err)

	data, err := r.RenderBytes(context.Background(), content, contact)
	require.NoError(t, err)
	tex := string(data)

	assert.Contains(t, tex, `\textbf{ADA LOVELACE}`)
	assert.Contains(t, tex, `\href{https://linkedin.com/in/ada}{LinkedIn}`)
	assert.Contains(t, tex, `Go \& distributed systems`)
	assert.Contains(t, tex, `\item Cut p99 latency by 40\%`)
	assert.Contains(t, tex, `\textbf{Senior Engineer, Acme} -- Remote \hfill \textbf{2021 - Present}`)
	assert.Contains(t, tex, `\textbf{Languages:} Go, SQL`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(tex), `\end{document}`))
	assert.Equal(t, 1, strings.Count(tex, `\begin{itemize}`), "entries without bullets get no list")
}

func TestEncodeHTML(t *testing.T) {
	content, contact := sampleResume()
	content.Experience[0].Bullets = append(content.Experience[0].Bullets, "Wrote <script>alert(1)</script> docs")
	r, err := NewRenderer(FormatHTML, t.TempDir())
	require.NoError(t, err)

	data, err := r.RenderBytes(context.Background(), content, contact)
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "<title>ADA LOVELACE</title>")
	assert.Contains(t, page, "<h1>ADA LOVELACE</h1>")
	assert.Contains(t, page, `<p class="contact">`)
	assert.Contains(t, page, `<a href="https://github.com/ada">GitHub</a>`)
	assert.Contains(t, page, "<h2>EXPERIENCE</h2>")
	assert.Contains(t, page, "<li>Led migration to gRPC</li>")
	assert.Contains(t, page, "Go &amp; distributed systems")
	assert.Contains(t, page, "<strong>Languages:</strong> Go, SQL")
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
}

func TestCleanBullet(t *testing.T) {
	assert.Equal(t, "Shipped", cleanBullet("  • Shipped"))
	assert.Equal(t, "Shipped", cleanBullet("-- Shipped "))
	assert.Equal(t, "Shipped", cleanBullet("▪ Shipped"))
	assert.Equal(t, "", cleanBullet(" • "))
	assert.Equal(t, "C++ expert", cleanBullet("C++ expert"))
}
