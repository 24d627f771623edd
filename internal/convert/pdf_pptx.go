package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// slideWidthInches is the canvas width of decks rebuilt from PDF pages.
const slideWidthInches = 13.33

// pdfToPresentation rasterizes every page with pdftoppm and places each
// page image full-bleed on its own slide.
func (c *Converter) pdfToPresentation(ctx context.Context, input, outputDir string) (string, error) {
	pagesDir, err := os.MkdirTemp(outputDir, "pages-*")
	if err != nil {
		return "", &ConversionError{Input: input, Target: FormatPPTX, Message: "failed to create page directory", Cause: err}
	}
	defer os.RemoveAll(pagesDir)

	prefix := filepath.Join(pagesDir, "page")
	logOutput, runErr := c.runner.Run(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(PageDPI), input, prefix)

	pages, err := pageImages(pagesDir)
	if err != nil || len(pages) == 0 {
		return "", &ConversionError{
			Input:     input,
			Target:    FormatPPTX,
			Message:   "pdftoppm produced no pages",
			LogOutput: logOutput,
			Cause:     firstErr(runErr, err),
		}
	}

	pres, err := imageDeck(pages)
	if err != nil {
		return "", &ConversionError{Input: input, Target: FormatPPTX, Message: "failed to build deck", Cause: err}
	}

	out := outputPath(input, outputDir, FormatPPTX)
	if err := pres.Save(out); err != nil {
		return "", &ConversionError{Input: input, Target: FormatPPTX, Message: "failed to save deck", Cause: err}
	}
	c.logger.Printf("[convert] rebuilt %d pages as slides", len(pages))
	return out, nil
}

// pageImages lists page PNGs in page order. pdftoppm zero-pads the page
// number to the width of the page count, so names are sorted numerically.
func pageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type page struct {
		n    int
		path string
	}
	var pages []page
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		stem := strings.TrimSuffix(name, ".png")
		idx := strings.LastIndex(stem, "-")
		n, err := strconv.Atoi(stem[idx+1:])
		if err != nil {
			continue
		}
		pages = append(pages, page{n: n, path: filepath.Join(dir, name)})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.path
	}
	return out, nil
}

// imageDeck builds a presentation with one picture per slide. The canvas
// takes the aspect ratio of the first page.
func imageDeck(pages []string) (*ppt.Presentation, error) {
	p := ppt.New()

	for i, pagePath := range pages {
		data, err := os.ReadFile(pagePath)
		if err != nil {
			return nil, err
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		if cfg.Width == 0 || cfg.Height == 0 {
			return nil, fmt.Errorf("page %d: empty image", i+1)
		}

		if i == 0 {
			width := ppt.Inch(slideWidthInches)
			height := width * int64(cfg.Height) / int64(cfg.Width)
			p.GetLayout().SetCustomLayout(width, height)
		}

		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}

		cx, cy := p.GetLayout().CX, p.GetLayout().CY
		w, h := fit(int64(cfg.Width), int64(cfg.Height), cx, cy)

		img := slide.CreateDrawingShape()
		img.SetImageData(data, "image/png")
		img.SetName(fmt.Sprintf("Page %d", i+1))
		img.SetPosition((cx-w)/2, (cy-h)/2)
		img.SetSize(w, h)
	}
	return p, nil
}

// fit scales a w x h image into the box, preserving its aspect ratio.
func fit(w, h, boxW, boxH int64) (int64, int64) {
	if w*boxH > h*boxW {
		return boxW, h * boxW / w
	}
	return w * boxH / h, boxH
}
