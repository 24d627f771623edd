package rendering

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/theme"
	"github.com/jonathan/ppt-architect/internal/types"
)

// Creator is written to the document properties of every generated deck.
const Creator = "AI-PPT Architect"

// slideRenderer draws one outline record and returns the slide it created.
type slideRenderer func(r *renderer, s types.SlideContent) *ppt.Slide

// renderers maps archetypes to their renderer. Title records never reach it.
var renderers = map[types.Layout]slideRenderer{
	types.LayoutBullets:      renderBullets,
	types.LayoutColumn:       renderColumns,
	types.LayoutProcess:      renderProcess,
	types.LayoutColumnChart:  renderChart(types.ChartColumn),
	types.LayoutBarChart:     renderChart(types.ChartBar),
	types.LayoutLineChart:    renderChart(types.ChartLine),
	types.LayoutPieChart:     renderChart(types.ChartPie),
	types.LayoutAreaChart:    renderChart(types.ChartArea),
	types.LayoutStackedChart: renderChart(types.ChartStacked),
	types.LayoutTimeline:     renderTimeline,
	types.LayoutBigNumber:    renderBigNumber,
	types.LayoutThanks:       renderThanks,
}

// renderer carries what every slide renderer needs.
type renderer struct {
	doc    *document
	theme  theme.Theme
	logger *log.Logger
}

// Generator renders one outline into one deck. It owns its document and is
// meant to be used once; concurrent generations use separate Generators.
type Generator struct {
	renderer
	templatePath string
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplatePath renders into the deck at path. An unreadable template
// falls back to a blank canvas.
func WithTemplatePath(path string) Option {
	return func(g *Generator) { g.templatePath = path }
}

// WithTemplate renders into an already opened presentation.
func WithTemplate(p *ppt.Presentation) Option {
	return func(g *Generator) {
		if p != nil {
			g.doc = newTemplateDocument(p)
		}
	}
}

// WithLogger sets the logger used for layout and fallback decisions.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a generator for the named theme. Unknown theme names
// use the default theme.
func NewGenerator(themeName string, opts ...Option) *Generator {
	g := &Generator{
		renderer: renderer{
			theme:  theme.Resolve(themeName),
			logger: log.New(io.Discard, "", 0),
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.doc == nil && g.templatePath != "" {
		p, err := loadTemplate(g.templatePath)
		if err != nil {
			g.logger.Printf("[render] %v, using blank canvas", err)
		} else {
			g.doc = newTemplateDocument(p)
		}
	}
	if g.doc == nil {
		g.doc = newBlankDocument()
	}
	return g
}

// Theme returns the resolved theme.
func (g *Generator) Theme() theme.Theme {
	return g.theme
}

// TemplateMode reports whether the generator renders into a template.
func (g *Generator) TemplateMode() bool {
	return g.doc.templateMode
}

// Presentation exposes the document being built.
func (g *Generator) Presentation() *ppt.Presentation {
	return g.doc.pres
}

// Generate renders the outline and saves the deck to outputPath, returning
// the path written. Every failure is a *GenerationError.
func (g *Generator) Generate(outline types.Outline, outputPath string) (string, error) {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &GenerationError{Message: "failed to create output directory", Cause: err}
		}
	}

	props := g.doc.pres.GetDocumentProperties()
	props.Title = outline.Title
	props.Creator = Creator

	g.cover(outline.Title)

	for i, s := range outline.Slides {
		if s.Layout == types.LayoutTitle {
			continue
		}
		render, ok := renderers[s.Layout]
		if !ok {
			render = renderBullets
		}
		slide := render(&g.renderer, s)
		if s.Notes != "" {
			slide.SetNotes(s.Notes)
		}
		g.logger.Printf("[render] slide %d/%d %q (%s)", i+1, len(outline.Slides), s.Title, s.Layout)
	}

	if err := g.doc.pres.Save(outputPath); err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("failed to save %s", outputPath), Cause: err}
	}
	return outputPath, nil
}

// cover reuses the first slide of a non-empty template, otherwise it draws a
// cover slide.
func (g *Generator) cover(title string) {
	if g.doc.templateMode && g.doc.pres.GetSlideCount() > 0 {
		first, err := g.doc.pres.GetSlide(0)
		if err == nil && retitleCover(first, title) {
			return
		}
		g.logger.Printf("[render] template cover has no title placeholder, keeping it as is")
		return
	}
	g.renderCover(title)
}
