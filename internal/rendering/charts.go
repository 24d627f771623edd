package rendering

import (
	"fmt"
	"sort"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/types"
)

// Default names used when the outline does not provide them.
const (
	singleSeriesName = "数值"
	sampleSeriesName = "系列 1"
)

var (
	sampleCategories = []string{"示例 A", "示例 B", "示例 C"}
	sampleValues     = []float64{30, 50, 20}
)

// ChartData is the category/series table a chart is drawn from.
type ChartData struct {
	Categories []string
	Series     []SeriesData
}

// SeriesData is one named row of values, aligned with ChartData.Categories.
type SeriesData struct {
	Name   string
	Values []float64
}

// BuildChartData turns data points into a chart table.
//
// If any point is a Series the table is multi-series: one category per point,
// one series per key seen anywhere (sorted), and 0 where a point lacks a key.
// Otherwise a single series holds each point's value. Without points a fixed
// sample table is returned so a chart is never empty.
func BuildChartData(points types.DataPoints) ChartData {
	if len(points) == 0 {
		return ChartData{
			Categories: append([]string(nil), sampleCategories...),
			Series:     []SeriesData{{Name: sampleSeriesName, Values: append([]float64(nil), sampleValues...)}},
		}
	}

	categories := make([]string, len(points))
	for i, p := range points {
		categories[i] = p.PointLabel()
		if categories[i] == "" {
			categories[i] = fmt.Sprintf("项%d", i+1)
		}
	}

	if !points.HasSeries() {
		values := make([]float64, len(points))
		for i, p := range points {
			if s, ok := p.(types.Scalar); ok && s.Value != nil {
				values[i] = *s.Value
			}
		}
		return ChartData{Categories: categories, Series: []SeriesData{{Name: singleSeriesName, Values: values}}}
	}

	seen := map[string]bool{}
	for _, p := range points {
		if s, ok := p.(types.Series); ok {
			for name := range s.Series {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	data := ChartData{Categories: categories}
	for _, name := range names {
		values := make([]float64, len(points))
		for i, p := range points {
			if s, ok := p.(types.Series); ok {
				values[i] = s.Series[name]
			}
		}
		data.Series = append(data.Series, SeriesData{Name: name, Values: values})
	}
	return data
}

// plotFor builds the library chart type for a chart kind.
func plotFor(kind types.ChartKind, data ChartData) ppt.ChartType {
	series := make([]*ppt.ChartSeries, 0, len(data.Series))
	for _, s := range data.Series {
		series = append(series, ppt.NewChartSeriesOrdered(s.Name, data.Categories, s.Values))
	}

	switch kind {
	case types.ChartBar:
		bar := ppt.NewBarChart()
		bar.BarDirection = ppt.BarDirectionHorizontal
		for _, s := range series {
			bar.AddSeries(s)
		}
		return bar
	case types.ChartStacked:
		bar := ppt.NewBarChart().SetBarGrouping(ppt.BarGroupingStacked)
		for _, s := range series {
			bar.AddSeries(s)
		}
		return bar
	case types.ChartLine:
		line := ppt.NewLineChart()
		for _, s := range series {
			line.AddSeries(s)
		}
		return line
	case types.ChartArea:
		area := ppt.NewAreaChart()
		for _, s := range series {
			area.AddSeries(s)
		}
		return area
	case types.ChartPie:
		// a pie shows a single series
		pie := ppt.NewPieChart()
		if len(series) > 0 {
			pie.AddSeries(series[0])
		}
		return pie
	default:
		bar := ppt.NewBarChart()
		for _, s := range series {
			bar.AddSeries(s)
		}
		return bar
	}
}

// renderChart draws a chart slide of the given kind.
func renderChart(kind types.ChartKind) slideRenderer {
	return func(r *renderer, s types.SlideContent) *ppt.Slide {
		slide := r.doc.newSlide(s.Layout, r.logger)
		r.background(slide)
		r.header(slide, s)

		hasText := len(s.BulletPoints) > 0
		if hasText {
			box := addTextBox(slide, ppt.Inch(0.8), ppt.Inch(1.8), ppt.Inch(4.2), ppt.Inch(5))
			box.SetWordWrap(true)
			r.writeLines(box, s.BulletPoints, "•", 12, textStyle{size: 18, color: r.theme.Text})
		}

		x, y, w, h := ppt.Inch(1.5), ppt.Inch(1.8), ppt.Inch(10.5), ppt.Inch(5)
		if hasText {
			x, y, w, h = ppt.Inch(5.2), ppt.Inch(1.8), ppt.Inch(7.5), ppt.Inch(5)
		}
		if target := FindChartTarget(slide, hasText, r.doc.width); target != nil {
			if target.GetWidth() > 0 && target.GetHeight() > 0 {
				x, y, w, h = target.GetOffsetX(), target.GetOffsetY(), target.GetWidth(), target.GetHeight()
			}
			target.Remove(slide)
		}

		chart := slide.CreateChartShape()
		chart.SetName(fmt.Sprintf("Chart %s", kind))
		chart.SetPosition(x, y)
		chart.SetSize(w, h)
		chart.GetPlotArea().SetType(plotFor(kind, BuildChartData(s.DataPoints)))

		chart.GetTitle().SetVisible(false)
		if !r.doc.templateMode {
			chart.GetTitle().Font.SetName(r.theme.Font).SetSize(14).SetColor(color(r.theme.Title))
		}

		legend := chart.GetLegend()
		legend.Visible = true
		legend.Position = ppt.LegendBottom
		if !r.doc.templateMode {
			legend.Font.SetName(r.theme.Font).SetColor(color(r.theme.Text))
		}
		return slide
	}
}
