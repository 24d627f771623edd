package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// PreviewOptions controls slide rasterisation.
type PreviewOptions struct {
	Width    int // pixels; height follows the slide aspect ratio. 0 renders at PageDPI.
	MaxPages int // 0 renders every slide
}

// Preview writes slide_NNN.png images of a pptx or ppt deck into dir and
// returns them in slide order. The deck is printed to PDF with soffice (or
// unoconv) and the pages are rasterised with pdftoppm.
func (c *Converter) Preview(ctx context.Context, deck, dir string, opts PreviewOptions) ([]string, error) {
	if from := FormatOf(deck); from != FormatPPTX && from != FormatPPT {
		return nil, fmt.Errorf("%w: %s to png", ErrUnsupportedConversion, from)
	}
	if _, err := os.Stat(deck); err != nil {
		return nil, &ConversionError{Input: deck, Target: FormatPNG, Message: "input not readable", Cause: err}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &ConversionError{Input: deck, Target: FormatPNG, Message: "failed to create preview directory", Cause: err}
	}

	// the scratch directory sits inside dir so pages can be renamed into place
	work, err := os.MkdirTemp(dir, ".render-*")
	if err != nil {
		return nil, &ConversionError{Input: deck, Target: FormatPNG, Message: "failed to create work directory", Cause: err}
	}
	defer os.RemoveAll(work)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pdf, err := c.presentationToPDF(ctx, deck, work)
	if err != nil {
		return nil, err
	}

	args := []string{"-png"}
	if opts.Width > 0 {
		args = append(args, "-scale-to-x", strconv.Itoa(opts.Width), "-scale-to-y", "-1")
	} else {
		args = append(args, "-r", strconv.Itoa(PageDPI))
	}
	if opts.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(opts.MaxPages))
	}
	args = append(args, pdf, filepath.Join(work, "slide"))

	logOutput, runErr := c.runner.Run(ctx, "pdftoppm", args...)
	pages, err := pageImages(work)
	if err != nil || len(pages) == 0 {
		return nil, &ConversionError{
			Input:     deck,
			Target:    FormatPNG,
			Message:   "pdftoppm produced no pages",
			LogOutput: logOutput,
			Cause:     firstErr(runErr, err),
		}
	}
	if opts.MaxPages > 0 && len(pages) > opts.MaxPages {
		pages = pages[:opts.MaxPages]
	}

	paths := make([]string, 0, len(pages))
	for i, page := range pages {
		out := filepath.Join(dir, fmt.Sprintf("slide_%03d.png", i+1))
		if err := os.Rename(page, out); err != nil {
			return paths, &ConversionError{Input: deck, Target: FormatPNG, Message: "failed to move page image", Cause: err}
		}
		paths = append(paths, out)
	}
	c.logger.Printf("[convert] rendered %d preview(s) of %s", len(paths), filepath.Base(deck))
	return paths, nil
}

// Preview renders with the default converter.
func Preview(ctx context.Context, deck, dir string, opts PreviewOptions) ([]string, error) {
	return defaultConverter.Preview(ctx, deck, dir, opts)
}
