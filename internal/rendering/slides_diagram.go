package rendering

import (
	"strconv"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/types"
)

const maxProcessSteps = 4

var defaultMilestones = []string{"开始", "过程", "结束"}

const defaultBigNumber = "100%"

func renderProcess(r *renderer, s types.SlideContent) *ppt.Slide {
	slide := r.doc.newSlide(types.LayoutProcess, r.logger)
	r.background(slide)
	r.header(slide, s)

	steps := s.BulletPoints
	if len(steps) > maxProcessSteps {
		r.logger.Printf("[render] process slide %q: keeping %d of %d steps", s.Title, maxProcessSteps, len(steps))
		steps = steps[:maxProcessSteps]
	}
	count := int64(len(steps))
	if count == 0 {
		return slide
	}

	boxW, boxH, gap := ppt.Inch(2.8), ppt.Inch(1.5), ppt.Inch(0.2)
	top := ppt.Inch(3)
	startX := (r.doc.width - (boxW*count + gap*(count-1))) / 2

	for i, step := range steps {
		x := startX + int64(i)*(boxW+gap)

		box := slide.CreateAutoShape()
		box.SetAutoShapeType(ppt.AutoShapeRoundedRect)
		box.SetName("Step " + strconv.Itoa(i+1))
		box.SetPosition(x, top)
		box.SetSize(boxW, boxH)
		box.SetSolidFill(color(r.theme.Accent))
		box.SetText(step)
		outline(box, r.theme.Title, 0.75)

		if int64(i) < count-1 {
			arrow := slide.CreateAutoShape()
			arrow.SetAutoShapeType(ppt.AutoShapeArrowRight)
			arrow.SetPosition(x+boxW+ppt.Inch(0.02), ppt.Inch(3.5))
			arrow.SetSize(ppt.Inch(0.16), ppt.Inch(0.5))
			arrow.SetSolidFill(color(r.theme.Title))
		}
	}
	return slide
}

func renderTimeline(r *renderer, s types.SlideContent) *ppt.Slide {
	slide := r.doc.newSlide(types.LayoutTimeline, r.logger)
	r.background(slide)
	r.header(slide, s)

	lineY := ppt.Inch(4)
	start, end := ppt.Inch(1), r.doc.width-ppt.Inch(1)

	axis := slide.CreateAutoShape()
	axis.SetAutoShapeType(ppt.AutoShapeRectangle)
	axis.SetName("Timeline")
	axis.SetPosition(start, lineY)
	axis.SetSize(end-start, ppt.Point(4))
	axis.SetSolidFill(color(r.theme.Accent))
	noLine(axis)

	points := s.BulletPoints
	if len(points) == 0 {
		points = defaultMilestones
	}
	count := int64(len(points))
	gap := (end - start) / max(count-1, 1)
	radius := ppt.Inch(0.2)

	for i, point := range points {
		x := start + int64(i)*gap

		marker := slide.CreateAutoShape()
		marker.SetAutoShapeType(ppt.AutoShapeEllipse)
		marker.SetName("Milestone " + strconv.Itoa(i+1))
		marker.SetPosition(x-radius/2, lineY-radius/2+ppt.Point(2))
		marker.SetSize(radius, radius)
		marker.SetSolidFill(color(r.theme.Title))
		outline(marker, r.theme.Accent, 2)

		textY := lineY + ppt.Inch(0.5)
		if i%2 == 0 {
			textY = lineY - ppt.Inch(1.2)
		}
		label := addTextBox(slide, x-ppt.Inch(1), textY, ppt.Inch(2), ppt.Inch(0.8))
		label.SetWordWrap(true)
		r.writeCentered(label, point, textStyle{size: 16, color: r.theme.Text, bold: true})
	}
	return slide
}

// bigNumberText picks the headline figure of a KPI slide.
func bigNumberText(points types.DataPoints) string {
	if len(points) == 0 {
		return defaultBigNumber
	}
	first := points[0]
	if s, ok := first.(types.Scalar); ok && s.Value != nil {
		return strconv.FormatFloat(*s.Value, 'f', -1, 64)
	}
	if label := first.PointLabel(); label != "" {
		return label
	}
	return defaultBigNumber
}

func renderBigNumber(r *renderer, s types.SlideContent) *ppt.Slide {
	slide := r.doc.newSlide(types.LayoutBigNumber, r.logger)
	r.background(slide)
	r.header(slide, s)

	cx, cy := r.doc.width/2, r.doc.height/2

	value := addTextBox(slide, cx-ppt.Inch(3), cy-ppt.Inch(1.5), ppt.Inch(6), ppt.Inch(2))
	value.SetName("Big Number")
	r.writeCentered(value, bigNumberText(s.DataPoints), textStyle{size: 120, color: r.theme.Accent, bold: true})

	if len(s.BulletPoints) > 0 {
		desc := addTextBox(slide, cx-ppt.Inch(4), cy+ppt.Inch(1), ppt.Inch(8), ppt.Inch(1.5))
		desc.SetWordWrap(true)
		r.writeCentered(desc, s.BulletPoints[0], textStyle{size: 24, color: r.theme.Text})
	}
	return slide
}
