package types

import "strings"

// Layout is the archetype tag of a slide.
type Layout string

// Canonical layout tags. They match the tags emitted by the outline generator.
const (
	LayoutTitle        Layout = "title"
	LayoutBullets      Layout = "bullets"
	LayoutColumn       Layout = "column"
	LayoutProcess      Layout = "process"
	LayoutColumnChart  Layout = "column_chart"
	LayoutBarChart     Layout = "bar_chart"
	LayoutLineChart    Layout = "line_chart"
	LayoutPieChart     Layout = "pie_chart"
	LayoutAreaChart    Layout = "area_chart"
	LayoutStackedChart Layout = "stacked_chart"
	LayoutTimeline     Layout = "timeline"
	LayoutBigNumber    Layout = "big_number"
	LayoutThanks       Layout = "thanks"
)

// ChartKind identifies one of the chart archetypes.
type ChartKind string

// Chart kinds.
const (
	ChartColumn  ChartKind = "column"
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartPie     ChartKind = "pie"
	ChartArea    ChartKind = "area"
	ChartStacked ChartKind = "stacked"
)

var layoutAliases = map[string]Layout{
	"two_column":  LayoutColumn,
	"two-column":  LayoutColumn,
	"twocolumn":   LayoutColumn,
	"big-number":  LayoutBigNumber,
	"bignumber":   LayoutBigNumber,
	"thank_you":   LayoutThanks,
	"thank-you":   LayoutThanks,
	"thankyou":    LayoutThanks,
	"title_slide": LayoutTitle,
}

var chartKinds = map[Layout]ChartKind{
	LayoutColumnChart:  ChartColumn,
	LayoutBarChart:     ChartBar,
	LayoutLineChart:    ChartLine,
	LayoutPieChart:     ChartPie,
	LayoutAreaChart:    ChartArea,
	LayoutStackedChart: ChartStacked,
}

// AllLayouts lists every canonical tag in display order.
func AllLayouts() []Layout {
	return []Layout{
		LayoutTitle, LayoutBullets, LayoutColumn, LayoutProcess,
		LayoutColumnChart, LayoutBarChart, LayoutLineChart, LayoutPieChart, LayoutAreaChart, LayoutStackedChart,
		LayoutTimeline, LayoutBigNumber, LayoutThanks,
	}
}

// ParseLayout maps a raw tag to its canonical Layout.
// Empty and unknown tags become LayoutBullets.
func ParseLayout(raw string) Layout {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return LayoutBullets
	}
	if l, ok := layoutAliases[tag]; ok {
		return l
	}
	for _, l := range AllLayouts() {
		if string(l) == tag {
			return l
		}
	}
	return LayoutBullets
}

// IsChart reports whether the layout is one of the chart archetypes.
func (l Layout) IsChart() bool {
	_, ok := chartKinds[l]
	return ok
}

// ChartKind returns the chart kind for chart layouts, or "" otherwise.
func (l Layout) ChartKind() ChartKind {
	return chartKinds[l]
}
