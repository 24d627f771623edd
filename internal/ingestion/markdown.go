package ingestion

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jonathan/ppt-architect/internal/types"
)

// ErrNoTitle is returned when a markdown outline has no level-one heading.
var ErrNoTitle = errors.New("markdown outline has no '# title' heading")

var (
	layoutComment = regexp.MustCompile(`<!--\s*layout\s*:\s*([\w-]+)\s*-->`)
	layoutSuffix  = regexp.MustCompile(`^(.*?)\s*\[([\w-]+)\]\s*$`)
	scalarItem    = regexp.MustCompile(`^(.+?)\s*[:：]\s*(-?[\d,]*\.?\d+)\s*%?$`)
	seriesPair    = regexp.MustCompile(`^\s*([^=,]+?)\s*=\s*(-?[\d,]*\.?\d+)\s*$`)
)

// OutlineFromMarkdown builds an outline from a markdown document without a model.
//
//	# Deck title
//	## Slide title [pie_chart]
//	<!-- layout: timeline -->
//	- bullet
//	- 华东: 35
//	- 北区: 2023=50, 2024=75
//
// A "# " heading names the deck and every "## " heading starts a slide. The
// layout comes from a trailing [tag] on the heading or a layout comment in
// the slide body. On chart and big number slides, "label: number" items
// become data points and "label: k=v, k=v" items become series; everything
// else is a bullet. Loose paragraphs become speaker notes.
func OutlineFromMarkdown(src []byte) (*types.Outline, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	b := &markdownBuilder{src: src}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			b.heading(node)
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			b.comment(blockLines(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			b.comment(rawHTML(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			b.item(itemText(node, src))
		case *ast.Paragraph:
			if _, inList := node.Parent().(*ast.ListItem); !inList {
				b.note(inlineText(node, src))
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	outline := b.finish()
	if outline.Title == "" {
		return nil, ErrNoTitle
	}
	return outline, nil
}

type markdownBuilder struct {
	src    []byte
	title  string
	slides []types.SlideContent
	notes  []string
}

func (b *markdownBuilder) current() *types.SlideContent {
	if len(b.slides) == 0 {
		return nil
	}
	return &b.slides[len(b.slides)-1]
}

func (b *markdownBuilder) heading(h *ast.Heading) {
	title := inlineText(h, b.src)
	switch h.Level {
	case 1:
		if b.title == "" {
			b.title = title
		}
	case 2:
		b.flushNotes()
		slide := types.SlideContent{Title: title, Layout: types.LayoutBullets}
		if m := layoutSuffix.FindStringSubmatch(title); m != nil {
			if l, ok := knownLayout(m[2]); ok {
				slide.Title = m[1]
				slide.Layout = l
			}
		}
		b.slides = append(b.slides, slide)
	default:
		// deeper headings read as bullets of the current slide
		b.item(title)
	}
}

func (b *markdownBuilder) comment(raw string) {
	m := layoutComment.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	if l, ok := knownLayout(m[1]); ok {
		if s := b.current(); s != nil {
			s.Layout = l
		}
	}
}

func (b *markdownBuilder) item(line string) {
	s := b.current()
	if s == nil || line == "" {
		return
	}
	if s.Layout.IsChart() || s.Layout == types.LayoutBigNumber {
		if dp, ok := parseDataPoint(line); ok {
			s.DataPoints = append(s.DataPoints, dp)
			return
		}
	}
	s.BulletPoints = append(s.BulletPoints, line)
}

func (b *markdownBuilder) note(line string) {
	if b.current() == nil || line == "" {
		return
	}
	b.notes = append(b.notes, line)
}

func (b *markdownBuilder) flushNotes() {
	if s := b.current(); s != nil && len(b.notes) > 0 {
		s.Notes = strings.Join(b.notes, "\n")
	}
	b.notes = nil
}

func (b *markdownBuilder) finish() *types.Outline {
	b.flushNotes()
	return &types.Outline{Title: b.title, Slides: b.slides}
}

// knownLayout is ParseLayout without the bullets fallback for unknown tags.
func knownLayout(tag string) (types.Layout, bool) {
	l := types.ParseLayout(tag)
	if l == types.LayoutBullets && !strings.EqualFold(strings.TrimSpace(tag), string(types.LayoutBullets)) {
		return "", false
	}
	return l, true
}

// parseDataPoint reads "label: 35" or "label: 2023=50, 2024=75".
func parseDataPoint(line string) (types.DataPoint, bool) {
	if m := scalarItem.FindStringSubmatch(line); m != nil {
		if v, ok := parseNumber(m[2]); ok {
			return types.Scalar{Label: m[1], Value: types.Float(v)}, true
		}
	}

	idx := strings.IndexAny(line, ":：")
	if idx <= 0 {
		return nil, false
	}
	label := strings.TrimSpace(line[:idx])
	rest := strings.TrimLeft(line[idx:], ":：")

	series := map[string]float64{}
	for _, part := range strings.Split(rest, ",") {
		m := seriesPair.FindStringSubmatch(part)
		if m == nil {
			return nil, false
		}
		v, ok := parseNumber(m[2])
		if !ok {
			return nil, false
		}
		series[m[1]] = v
	}
	if len(series) == 0 {
		return nil, false
	}
	return types.Series{Label: label, Series: series}, true
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	return v, err == nil
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// itemText is the list item's own text, excluding nested lists.
func itemText(item *ast.ListItem, src []byte) string {
	var parts []string
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			if t := inlineText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

func blockLines(n *ast.HTMLBlock, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	if n.HasClosure() {
		buf.Write(n.ClosureLine.Value(src))
	}
	return buf.String()
}

func rawHTML(n *ast.RawHTML, src []byte) string {
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}
