package rendering

import (
	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/types"
)

// Fixed copy used by the cover and closing slides.
const (
	coverSubtitle  = "AI-PPT Architect 智绘大纲"
	closingMessage = "感谢聆听"
)

// background paints the theme background. Template slides keep their own.
func (r *renderer) background(slide *ppt.Slide) {
	if r.doc.templateMode {
		return
	}
	slide.SetBackground(ppt.NewFill().SetSolid(color(r.theme.Background)))
}

func displayTitle(s types.SlideContent) string {
	if s.Icon != "" {
		return s.Icon + " " + s.Title
	}
	return s.Title
}

// header writes the slide title. Synthesized slides also get the accent bar.
func (r *renderer) header(slide *ppt.Slide, s types.SlideContent) {
	text := displayTitle(s)
	titleStyle := textStyle{size: 36, color: r.theme.Title, bold: true}

	if r.doc.templateMode {
		if ph := FindTitle(slide); ph != nil {
			ph.SetText(text)
		}
		return
	}

	bar := slide.CreateAutoShape()
	bar.SetAutoShapeType(ppt.AutoShapeRectangle)
	bar.SetName("Header Bar")
	bar.SetPosition(ppt.Inch(0.5), ppt.Inch(0.4))
	bar.SetSize(ppt.Inch(0.2), ppt.Inch(0.8))
	bar.SetSolidFill(color(r.theme.Accent))
	noLine(bar)

	if ph := FindTitle(slide); ph != nil {
		r.fillPlaceholder(ph, []string{text}, &titleStyle)
		return
	}
	box := addTextBox(slide, ppt.Inch(0.9), ppt.Inch(0.35), ppt.Inch(12), ppt.Inch(1))
	box.SetName("Title")
	r.writeLines(box, []string{text}, "", 0, titleStyle)
}

// renderCover draws the deck cover slide.
func (r *renderer) renderCover(title string) *ppt.Slide {
	slide := r.doc.newSlide(types.LayoutTitle, r.logger)
	r.background(slide)

	if !r.doc.templateMode {
		side := slide.CreateAutoShape()
		side.SetAutoShapeType(ppt.AutoShapeType(r.theme.Decoration))
		side.SetName("Decoration")
		side.SetPosition(0, 0)
		side.SetSize(ppt.Inch(0.8), r.doc.height)
		side.SetSolidFill(color(r.theme.Accent))
		noLine(side)
	}

	titleStyle := textStyle{size: 60, color: r.theme.Title, bold: true}
	subtitleStyle := textStyle{size: 24, color: r.theme.Text}

	found := false
	for _, ph := range placeholders(slide) {
		switch t := ph.GetPlaceholderType(); {
		case isTitleType(t):
			r.fillPlaceholder(ph, []string{title}, &titleStyle)
			found = true
		case t == ppt.PlaceholderSubTitle:
			r.fillPlaceholder(ph, []string{coverSubtitle}, &subtitleStyle)
		}
	}

	if !found && !r.doc.templateMode {
		box := addTextBox(slide, ppt.Inch(1.5), ppt.Inch(2.5), ppt.Inch(11), ppt.Inch(2.5))
		box.SetWordWrap(true)
		r.writeLines(box, []string{title}, "", 0, titleStyle)

		sub := addTextBox(slide, ppt.Inch(1.5), ppt.Inch(5), ppt.Inch(11), ppt.Inch(1))
		r.writeLines(sub, []string{coverSubtitle}, "", 0, subtitleStyle)
	}
	return slide
}

// retitleCover writes the deck title into the title placeholder of an
// existing template slide. It reports whether a placeholder was found.
func retitleCover(slide *ppt.Slide, title string) bool {
	found := false
	for _, ph := range placeholders(slide) {
		if isTitleType(ph.GetPlaceholderType()) {
			ph.SetText(title)
			found = true
		}
	}
	return found
}

func renderBullets(r *renderer, s types.SlideContent) *ppt.Slide {
	slide := r.doc.newSlide(types.LayoutBullets, r.logger)
	r.background(slide)
	r.header(slide, s)

	st := textStyle{size: 24, color: r.theme.Text}
	if bodies := FindBodies(slide); len(bodies) > 0 {
		r.fillPlaceholder(bodies[0], s.BulletPoints, &st)
		return slide
	}

	box := addTextBox(slide, ppt.Inch(1.2), ppt.Inch(1.8), ppt.Inch(11), ppt.Inch(4.5))
	box.SetName("Body")
	box.SetWordWrap(true)
	r.writeLines(box, s.BulletPoints, "●", 18, st)
	return slide
}

// splitColumns splits points at n/2; the left column gets the smaller half.
func splitColumns(points []string) (left, right []string) {
	mid := len(points) / 2
	return points[:mid], points[mid:]
}

func renderColumns(r *renderer, s types.SlideContent) *ppt.Slide {
	slide := r.doc.newSlide(types.LayoutColumn, r.logger)
	r.background(slide)
	r.header(slide, s)

	left, right := splitColumns(s.BulletPoints)
	st := textStyle{size: 20, color: r.theme.Text}

	if bodies := FindBodies(slide); len(bodies) >= 2 {
		r.fillPlaceholder(bodies[0], left, &st)
		r.fillPlaceholder(bodies[1], right, &st)
		return slide
	}

	colWidth, gap, start := ppt.Inch(5.5), ppt.Inch(0.5), ppt.Inch(1)
	for i, points := range [][]string{left, right} {
		box := addTextBox(slide, start+int64(i)*(colWidth+gap), ppt.Inch(2), colWidth, ppt.Inch(4))
		box.SetWordWrap(true)
		r.writeLines(box, points, "▪", 15, st)
	}
	return slide
}

func renderThanks(r *renderer, s types.SlideContent) *ppt.Slide {
	message := s.Title
	if message == "" {
		message = closingMessage
	}

	slide := r.doc.newSlide(types.LayoutThanks, r.logger)
	r.background(slide)

	st := textStyle{size: 64, color: r.theme.Title, bold: true}
	if ph := findClosingTarget(slide); ph != nil {
		r.fillPlaceholder(ph, []string{message}, &st)
		return slide
	}

	cx, cy := r.doc.width/2, r.doc.height/2
	boxW, boxH := ppt.Inch(8), ppt.Inch(3)

	frame := slide.CreateAutoShape()
	frame.SetAutoShapeType(ppt.AutoShapeRectangle)
	frame.SetName("Closing Frame")
	frame.SetPosition(cx-boxW/2, cy-boxH/2)
	frame.SetSize(boxW, boxH)
	frame.SetFill(ppt.NewFill())
	outline(frame, r.theme.Accent, 5)

	box := addTextBox(slide, cx-boxW/2, cy-ppt.Inch(0.6), boxW, ppt.Inch(1.2))
	r.writeCentered(box, message, st)
	return slide
}
