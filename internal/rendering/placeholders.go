package rendering

import (
	"sort"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Placeholder types the library has no constant for. A placeholder written
// without a type attribute is an object placeholder.
const (
	placeholderObject   ppt.PlaceholderType = "obj"
	placeholderChart    ppt.PlaceholderType = "chart"
	placeholderImplicit ppt.PlaceholderType = ""
)

func placeholders(slide *ppt.Slide) []*ppt.PlaceholderShape {
	var out []*ppt.PlaceholderShape
	for _, shape := range slide.GetShapes() {
		if ph, ok := shape.(*ppt.PlaceholderShape); ok {
			out = append(out, ph)
		}
	}
	return out
}

func isTitleType(t ppt.PlaceholderType) bool {
	return t == ppt.PlaceholderTitle || t == ppt.PlaceholderCtrTitle
}

func isBodyType(t ppt.PlaceholderType) bool {
	return t == ppt.PlaceholderBody || t == placeholderObject || t == placeholderImplicit
}

// FindTitle returns the slide's title placeholder. When no placeholder has a
// title type, a placeholder whose name mentions TITLE is used instead.
func FindTitle(slide *ppt.Slide) *ppt.PlaceholderShape {
	phs := placeholders(slide)
	for _, ph := range phs {
		if isTitleType(ph.GetPlaceholderType()) {
			return ph
		}
	}
	for _, ph := range phs {
		if strings.Contains(strings.ToUpper(ph.GetName()), "TITLE") && ph.GetPlaceholderType() != ppt.PlaceholderSubTitle {
			return ph
		}
	}
	return nil
}

// FindSubtitle returns the subtitle placeholder, if any.
func FindSubtitle(slide *ppt.Slide) *ppt.PlaceholderShape {
	for _, ph := range placeholders(slide) {
		if ph.GetPlaceholderType() == ppt.PlaceholderSubTitle {
			return ph
		}
	}
	return nil
}

// FindBodies returns body and object placeholders ordered left to right.
func FindBodies(slide *ppt.Slide) []*ppt.PlaceholderShape {
	var bodies []*ppt.PlaceholderShape
	for _, ph := range placeholders(slide) {
		if isBodyType(ph.GetPlaceholderType()) {
			bodies = append(bodies, ph)
		}
	}
	sort.SliceStable(bodies, func(i, j int) bool {
		return bodies[i].GetOffsetX() < bodies[j].GetOffsetX()
	})
	return bodies
}

// FindChartTarget returns the placeholder a chart should occupy. When text
// has been placed on the slide only a placeholder starting in the right half
// of the slide qualifies.
func FindChartTarget(slide *ppt.Slide, textPlaced bool, slideWidth int64) *ppt.PlaceholderShape {
	for _, ph := range placeholders(slide) {
		t := ph.GetPlaceholderType()
		if t != placeholderChart && !isBodyType(t) {
			continue
		}
		if textPlaced && ph.GetOffsetX() < slideWidth/2 {
			continue
		}
		return ph
	}
	return nil
}

// findClosingTarget returns the first title or body placeholder, in slide order.
func findClosingTarget(slide *ppt.Slide) *ppt.PlaceholderShape {
	for _, ph := range placeholders(slide) {
		t := ph.GetPlaceholderType()
		if isTitleType(t) || t == ppt.PlaceholderBody {
			return ph
		}
	}
	return nil
}
