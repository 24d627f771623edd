package rendering

import (
	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/theme"
)

// textStyle is the run formatting applied to renderer-drawn text.
type textStyle struct {
	size  int
	color theme.RGB
	bold  bool
}

// spacing values are in hundredths of a point, as stored in the file.
func spacePoints(pt int) int { return pt * 100 }

func color(c theme.RGB) ppt.Color {
	return ppt.NewColor(c.ARGB())
}

func (r *renderer) applyStyle(run *ppt.TextRun, st textStyle) {
	run.GetFont().
		SetName(r.theme.Font).
		SetSize(st.size).
		SetBold(st.bold).
		SetColor(color(st.color))
}

// addTextBox draws a free text box at the given position (EMU).
func addTextBox(slide *ppt.Slide, x, y, w, h int64) *ppt.RichTextShape {
	box := slide.CreateRichTextShape()
	box.SetPosition(x, y)
	box.SetSize(w, h)
	return box
}

// writeLines writes one styled paragraph per line into box, marking each
// with glyph as its bullet character when glyph is set. The first line reuses
// the paragraph a new text box starts with.
func (r *renderer) writeLines(box *ppt.RichTextShape, lines []string, glyph string, spaceBefore int, st textStyle) {
	for i, line := range lines {
		p := box.GetActiveParagraph()
		if i > 0 {
			p = box.CreateParagraph()
		}
		if spaceBefore > 0 {
			p.SetSpaceBefore(spacePoints(spaceBefore))
		}
		if glyph != "" {
			b := ppt.NewBullet()
			b.SetCharBullet(glyph, r.theme.Font)
			b.SetColor(color(st.color))
			p.SetBullet(b)
		}
		r.applyStyle(p.CreateTextRun(line), st)
	}
}

// writeCentered writes a single centred line into box.
func (r *renderer) writeCentered(box *ppt.RichTextShape, text string, st textStyle) {
	p := box.GetActiveParagraph()
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
	r.applyStyle(p.CreateTextRun(text), st)
}

// fillPlaceholder replaces the placeholder content with one paragraph per line.
// Template placeholders keep their inherited formatting.
func (r *renderer) fillPlaceholder(ph *ppt.PlaceholderShape, lines []string, st *textStyle) {
	ph.ClearAll()
	if len(lines) == 0 {
		ph.Clear()
		return
	}
	for _, line := range lines {
		run := ph.CreateParagraph().CreateTextRun(line)
		if st != nil && !r.doc.templateMode {
			r.applyStyle(run, *st)
		}
	}
}

// noLine removes the outline of a shape.
func noLine(shape interface{ GetBorder() *ppt.Border }) {
	shape.GetBorder().Style = ppt.BorderNone
}

// outline draws a solid outline of the given width in points.
func outline(shape interface{ GetBorder() *ppt.Border }, c theme.RGB, widthPt float64) {
	b := shape.GetBorder()
	b.Style = ppt.BorderSolid
	b.Color = color(c)
	if widthPt > 0 {
		b.Width = int(ppt.Point(widthPt))
	}
}
