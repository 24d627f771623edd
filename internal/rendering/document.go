package rendering

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strconv"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/ppt-architect/internal/types"
)

// Blank decks use a 13.33 x 7.5 inch (16:9) canvas.
const (
	canvasWidthInches  = 13.33
	canvasHeightInches = 7.5
)

// document is the presentation under construction plus the facts every
// renderer needs about it.
type document struct {
	pres         *ppt.Presentation
	templateMode bool
	width        int64
	height       int64

	// initial is the empty slide a fresh presentation starts with. The
	// first synthesized slide reuses it.
	initial *ppt.Slide
}

func newBlankDocument() *document {
	p := ppt.New()
	p.GetLayout().SetCustomLayout(ppt.Inch(canvasWidthInches), ppt.Inch(canvasHeightInches))
	return &document{
		pres:    p,
		width:   p.GetLayout().CX,
		height:  p.GetLayout().CY,
		initial: p.GetActiveSlide(),
	}
}

func newTemplateDocument(p *ppt.Presentation) *document {
	return &document{
		pres:         p,
		templateMode: true,
		width:        p.GetLayout().CX,
		height:       p.GetLayout().CY,
	}
}

// loadTemplate opens a template deck, keeping its slides, and registers the
// layout catalogue found in the package.
func loadTemplate(templatePath string) (*ppt.Presentation, error) {
	p, err := ppt.Open(templatePath)
	if err != nil {
		return nil, &TemplateError{Path: templatePath, Cause: err}
	}

	if len(p.GetSlideLayouts()) == 0 {
		layouts, err := readLayoutCatalog(templatePath)
		if err != nil {
			return nil, &TemplateError{Path: templatePath, Cause: err}
		}
		if len(layouts) > 0 {
			master := p.CreateSlideMaster()
			master.Name = path.Base(templatePath)
			master.SlideLayouts = layouts
		}
	}
	return p, nil
}

// newSlide appends a slide for the archetype and returns it.
func (d *document) newSlide(archetype types.Layout, logger *log.Logger) *ppt.Slide {
	if !d.templateMode {
		slide := d.initial
		if slide != nil {
			d.initial = nil
		} else {
			slide = d.pres.CreateSlide()
		}
		kind, ok := synthesizedKinds[archetype]
		if !ok {
			kind = kindBlank
		}
		seedPlaceholders(slide, kind, d.width, d.height)
		return slide
	}

	layout := ResolveLayout(d.pres.GetSlideLayouts(), archetype)
	logResolved(logger, archetype, layout)
	if layout == nil {
		return d.pres.CreateSlide()
	}

	slide, err := d.pres.AddSlideWithLayout(layout.Name)
	if err != nil {
		logger.Printf("[render] layout %q unavailable: %v", layout.Name, err)
		return d.pres.CreateSlide()
	}
	seedPlaceholders(slide, kindOf(layout.Type), d.width, d.height)
	return slide
}

// slideLayoutPart is the part of a slideLayoutN.xml needed to catalogue it.
type slideLayoutPart struct {
	Type string `xml:"type,attr"`
	CSld struct {
		Name string `xml:"name,attr"`
	} `xml:"cSld"`
}

// readLayoutCatalog lists the slide layouts stored in a .pptx package in
// part-number order.
func readLayoutCatalog(pptxPath string) ([]*ppt.SlideLayout, error) {
	zr, err := zip.OpenReader(pptxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer func() { _ = zr.Close() }()

	type numbered struct {
		n      int
		layout *ppt.SlideLayout
	}
	var found []numbered

	for _, f := range zr.File {
		dir, file := path.Split(f.Name)
		if dir != "ppt/slideLayouts/" || !strings.HasPrefix(file, "slideLayout") || !strings.HasSuffix(file, ".xml") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(file, "slideLayout"), ".xml"))
		if err != nil {
			continue
		}

		part, err := decodeLayoutPart(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		layoutType := part.Type
		if layoutType == "" {
			layoutType = "cust"
		}
		found = append(found, numbered{n: n, layout: &ppt.SlideLayout{Name: part.CSld.Name, Type: layoutType}})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	layouts := make([]*ppt.SlideLayout, 0, len(found))
	for _, f := range found {
		layouts = append(layouts, f.layout)
	}
	return layouts, nil
}

func decodeLayoutPart(f *zip.File) (*slideLayoutPart, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	var part slideLayoutPart
	if err := xml.Unmarshal(data, &part); err != nil {
		return nil, err
	}
	return &part, nil
}
