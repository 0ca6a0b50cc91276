package render

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"audio-digest/internal/app/errors"
	"audio-digest/internal/app/util/files"
)

const (
	bodyLineHeight = 5
	codeLineHeight = 4.5
)

var headingSizes = map[int]float64{1: 16, 2: 13, 3: 11}

// pdfWriter walks a parsed Markdown document and emits fpdf primitives.
// Headings H1-H3 become outline bookmarks at nesting levels 0-2.
type pdfWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	source []byte

	leftMargin   float64
	lastBookmark int
	titleSet     bool
}

// WritePDF renders the Markdown document into a bookmarked PDF at path.
func WritePDF(path, markdown string) error {
	if err := files.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	leftMargin, _, _, _ := pdf.GetMargins()
	w := &pdfWriter{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		source:       []byte(markdown),
		leftMargin:   leftMargin,
		lastBookmark: -1,
	}

	doc := goldmark.DefaultParser().Parse(text.NewReader(w.source))
	w.renderBlocks(doc)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrap(err, "failed to write PDF")
	}
	return nil
}

func (w *pdfWriter) renderBlocks(parent ast.Node) {
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		switch t := node.(type) {
		case *ast.Heading:
			w.heading(t)
		case *ast.List:
			w.list(t, 0)
			w.pdf.Ln(2)
		case *ast.FencedCodeBlock:
			w.code(t.Lines())
		case *ast.CodeBlock:
			w.code(t.Lines())
		case *ast.Paragraph:
			w.paragraph(w.inlineText(t))
		case *ast.Blockquote:
			w.renderBlocks(t)
		case *ast.ThematicBreak:
			w.rule()
		}
	}
}

func (w *pdfWriter) heading(h *ast.Heading) {
	content := w.inlineText(h)
	if content == "" {
		return
	}

	size, ok := headingSizes[h.Level]
	if !ok {
		size = 11
	}

	if h.Level == 1 && !w.titleSet {
		w.pdf.SetTitle(content, true)
		w.titleSet = true
	}

	w.pdf.Ln(2)
	w.pdf.SetFont("Helvetica", "B", size)
	if h.Level <= 3 {
		// outline levels may not skip
		level := h.Level - 1
		if level > w.lastBookmark+1 {
			level = w.lastBookmark + 1
		}
		w.pdf.Bookmark(w.tr(content), level, -1)
		w.lastBookmark = level
	}
	w.pdf.MultiCell(0, size/2, w.tr(content), "", "L", false)
	w.pdf.Ln(1)
}

func (w *pdfWriter) paragraph(content string) {
	if content == "" {
		return
	}
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.MultiCell(0, bodyLineHeight, w.tr(content), "", "L", false)
	w.pdf.Ln(2)
}

func (w *pdfWriter) list(l *ast.List, depth int) {
	w.pdf.SetFont("Helvetica", "", 11)
	indent := float64(depth) * 5
	number := l.Start

	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}

		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				w.list(nested, depth+1)
				continue
			}
			content := w.inlineText(child)
			if content == "" {
				continue
			}
			w.bulletLine(indent, marker, content)
			// only the item's first text block carries the marker
			marker = strings.Repeat(" ", len(marker))
		}
	}
}

// bulletLine writes one list entry with a hanging indent so wrapped lines
// align under the text, not under the marker.
func (w *pdfWriter) bulletLine(indent float64, marker, content string) {
	markerWidth := w.pdf.GetStringWidth(w.tr(marker)) + 1

	w.pdf.SetLeftMargin(w.leftMargin + indent + markerWidth)
	w.pdf.SetX(w.leftMargin + indent)
	w.pdf.CellFormat(markerWidth, bodyLineHeight, w.tr(marker), "", 0, "L", false, 0, "")
	w.pdf.MultiCell(0, bodyLineHeight, w.tr(content), "", "L", false)
	w.pdf.SetLeftMargin(w.leftMargin)
}

func (w *pdfWriter) code(lines *text.Segments) {
	w.pdf.SetFont("Courier", "", 9)
	for i := 0; i < lines.Len(); i++ {
		line := strings.TrimRight(string(lines.At(i).Value(w.source)), "\n")
		w.pdf.MultiCell(0, codeLineHeight, w.tr(line), "", "L", false)
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) rule() {
	pageWidth, _ := w.pdf.GetPageSize()
	_, _, rightMargin, _ := w.pdf.GetMargins()
	w.pdf.Ln(2)
	y := w.pdf.GetY()
	w.pdf.Line(w.leftMargin, y, pageWidth-rightMargin, y)
	w.pdf.Ln(3)
}

// inlineText flattens a node's inline content; soft wraps become spaces and
// styling is dropped.
func (w *pdfWriter) inlineText(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(w.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
