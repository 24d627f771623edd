package rendering

import (
	"log"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/types"
)

// layoutKind is the placeholder arrangement of a slide layout. Values are the
// OOXML ST_SlideLayoutType names so template layouts map onto them directly.
type layoutKind string

const (
	kindTitle      layoutKind = "title"
	kindSection    layoutKind = "secHead"
	kindContent    layoutKind = "obj"
	kindTwoContent layoutKind = "twoObj"
	kindTitleOnly  layoutKind = "titleOnly"
	kindBlank      layoutKind = "blank"

	// kindColumns is two body placeholders with no title; the header text
	// box is drawn by hand.
	kindColumns layoutKind = "columns"
)

// synthesizedKinds is the fixed layout table used without a template.
// Archetypes not listed render on a blank slide.
var synthesizedKinds = map[types.Layout]layoutKind{
	types.LayoutTitle:  kindTitle,
	types.LayoutColumn: kindColumns,
}

// layoutKeywords are matched, in order, against upper-cased template layout names.
var layoutKeywords = map[types.Layout][]string{
	types.LayoutTitle:   {"TITLE SLIDE", "标题幻灯片", "封面", "TITLE"},
	types.LayoutColumn:  {"TWO CONTENT", "两栏内容", "双栏", "COMPARISON", "对比"},
	types.LayoutBullets: {"TITLE AND CONTENT", "标题和内容", "正文", "CONTENT"},
	types.LayoutProcess: {"TITLE AND CONTENT", "标题和内容", "正文", "CONTENT"},
	types.LayoutThanks:  {"THANK", "感谢", "结束", "CLOSING"},
}

// bodyLayoutTypes are layout types that carry a body or object placeholder.
var bodyLayoutTypes = map[string]bool{
	"obj":         true,
	"tx":          true,
	"twoObj":      true,
	"twoTxTwoObj": true,
	"objTx":       true,
	"txAndObj":    true,
	"objAndTx":    true,
	"txAndChart":  true,
	"chartAndTx":  true,
	"chart":       true,
	"txAndTwoObj": true,
	"twoObjAndTx": true,
	"objOnly":     true,
}

// ResolveLayout picks the template layout used for an archetype.
//
// Layout names are matched against the archetype's keywords first. Without a
// match the title archetype takes the first layout, the others take the first
// body-bearing layout, then the second layout (or the only one). Returns nil
// when the template has no layouts.
func ResolveLayout(layouts []*ppt.SlideLayout, archetype types.Layout) *ppt.SlideLayout {
	if len(layouts) == 0 {
		return nil
	}

	for _, keyword := range layoutKeywords[archetype] {
		for _, l := range layouts {
			if strings.Contains(strings.ToUpper(l.Name), keyword) {
				return l
			}
		}
	}

	if archetype == types.LayoutTitle {
		return layouts[0]
	}
	for _, l := range layouts {
		if bodyLayoutTypes[l.Type] {
			return l
		}
	}
	if len(layouts) > 1 {
		return layouts[1]
	}
	return layouts[0]
}

// kindOf maps a template layout type onto the placeholder arrangement it implies.
func kindOf(layoutType string) layoutKind {
	switch layoutType {
	case "title":
		return kindTitle
	case "secHead":
		return kindSection
	case "twoObj", "twoTxTwoObj", "txAndTwoObj", "twoObjAndTx":
		return kindTwoContent
	case "titleOnly":
		return kindTitleOnly
	case "blank", "":
		return kindBlank
	}
	if bodyLayoutTypes[layoutType] {
		return kindContent
	}
	return kindBlank
}

// seedPlaceholders creates the placeholder set a layout of the given kind
// exposes, positioned on a width x height canvas.
func seedPlaceholders(slide *ppt.Slide, kind layoutKind, width, height int64) {
	switch kind {
	case kindTitle, kindSection:
		title := slide.CreatePlaceholderShape(ppt.PlaceholderCtrTitle)
		title.SetName("Title 1")
		title.SetPosition(ppt.Inch(1.5), ppt.Inch(2.3))
		title.SetSize(width-ppt.Inch(3), ppt.Inch(1.6))
		title.SetPlaceholderIndex(0)

		sub := slide.CreatePlaceholderShape(ppt.PlaceholderSubTitle)
		sub.SetName("Subtitle 2")
		sub.SetPosition(ppt.Inch(1.5), ppt.Inch(4.1))
		sub.SetSize(width-ppt.Inch(3), ppt.Inch(1))
		sub.SetPlaceholderIndex(1)

	case kindContent:
		seedTitle(slide, width)
		body := slide.CreatePlaceholderShape(ppt.PlaceholderBody)
		body.SetName("Content Placeholder 2")
		body.SetPosition(ppt.Inch(1.2), ppt.Inch(1.8))
		body.SetSize(width-ppt.Inch(2.4), height-ppt.Inch(2.6))
		body.SetPlaceholderIndex(1)

	case kindTwoContent:
		seedTitle(slide, width)
		seedColumns(slide, width, height)

	case kindColumns:
		seedColumns(slide, width, height)

	case kindTitleOnly:
		seedTitle(slide, width)
	}
}

func seedColumns(slide *ppt.Slide, width, height int64) {
	margin, gap := ppt.Inch(1), ppt.Inch(0.5)
	colWidth := (width - 2*margin - gap) / 2
	for i, name := range []string{"Content Placeholder 2", "Content Placeholder 3"} {
		body := slide.CreatePlaceholderShape(ppt.PlaceholderBody)
		body.SetName(name)
		body.SetPosition(margin+int64(i)*(colWidth+gap), ppt.Inch(2))
		body.SetSize(colWidth, height-ppt.Inch(3))
		body.SetPlaceholderIndex(i + 1)
	}
}

func seedTitle(slide *ppt.Slide, width int64) {
	title := slide.CreatePlaceholderShape(ppt.PlaceholderTitle)
	title.SetName("Title 1")
	title.SetPosition(ppt.Inch(0.9), ppt.Inch(0.35))
	title.SetSize(width-ppt.Inch(1.8), ppt.Inch(1))
	title.SetPlaceholderIndex(0)
}

// logResolved reports which template layout an archetype landed on.
func logResolved(logger *log.Logger, archetype types.Layout, l *ppt.SlideLayout) {
	if l == nil {
		logger.Printf("[render] no template layouts, %s uses a plain slide", archetype)
		return
	}
	logger.Printf("[render] %s -> template layout %q (%s)", archetype, l.Name, l.Type)
}
