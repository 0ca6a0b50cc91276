package summary

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExpectedSections are the keys DefaultPrompt instructs the model to emit,
// in the order they should appear.
var ExpectedSections = []string{
	"Title",
	"Summary",
	"Main Points",
	"Action Items",
	"Follow Up",
	"Stories",
	"References",
	"Arguments",
	"related_topics",
	"sentiment",
}

// Section is one "## " block of a structured summary. Body is the section's
// content flattened to plain text, one line per paragraph or list item.
type Section struct {
	Title string
	Body  string
}

// Clean strips the surrounding Markdown code fence models sometimes wrap
// their whole answer in.
func Clean(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}
	lines := strings.Split(response, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseSections splits a structured summary into its level-2 sections.
// Content before the first heading is dropped.
func ParseSections(markdown string) []Section {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var sections []Section
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if h, ok := node.(*ast.Heading); ok && h.Level == 2 {
			sections = append(sections, Section{Title: plainText(h, source)})
			continue
		}
		if len(sections) == 0 {
			continue
		}
		chunk := plainText(node, source)
		if chunk == "" {
			continue
		}
		current := &sections[len(sections)-1]
		if current.Body != "" {
			current.Body += "\n"
		}
		current.Body += chunk
	}
	return sections
}

// MissingSections lists the expected keys that do not appear as a section
// heading. Matching is a case-insensitive prefix test because the model
// inlines values into some headings (`## Title "..."`).
func MissingSections(markdown string) []string {
	var titles []string
	for _, s := range ParseSections(markdown) {
		titles = append(titles, strings.ToLower(s.Title))
	}

	var missing []string
	for _, key := range ExpectedSections {
		lowered := strings.ToLower(key)
		found := false
		for _, title := range titles {
			if strings.HasPrefix(title, lowered) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, key)
		}
	}
	return missing
}

// Title extracts the summary's own title, wherever the model put it: inlined
// in the Title heading or as the section body. Quotes are removed.
func Title(markdown string) string {
	for _, s := range ParseSections(markdown) {
		lowered := strings.ToLower(s.Title)
		if !strings.HasPrefix(lowered, "title") {
			continue
		}
		inline := strings.Trim(strings.TrimSpace(s.Title[len("title"):]), `"`)
		if inline != "" {
			return inline
		}
		if body := strings.Trim(firstLine(s.Body), `"`); body != "" {
			return body
		}
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// plainText flattens a node's inline text, separating nested paragraphs and
// list items with newlines.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.Paragraph, *ast.TextBlock:
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
