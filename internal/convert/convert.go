package convert

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format is a document format named by its file extension.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
	FormatPPTX Format = "pptx"
	FormatPPT  Format = "ppt"
	// FormatPNG is only produced by Preview.
	FormatPNG Format = "png"
)

// DefaultTimeout bounds one external conversion.
const DefaultTimeout = 5 * time.Minute

// PageDPI is the raster resolution used when rebuilding a PDF as slides.
const PageDPI = 150

// ParseFormat normalizes an extension or format name.
func ParseFormat(s string) Format {
	return Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
}

// FormatOf returns the format of a file path.
func FormatOf(path string) Format {
	return ParseFormat(filepath.Ext(path))
}

// Supported reports whether from can be converted to to.
func Supported(from, to Format) bool {
	switch to {
	case FormatPDF:
		return from == FormatPPTX || from == FormatPPT || from == FormatDOCX || from == FormatDOC
	case FormatDOCX, FormatPPTX:
		return from == FormatPDF
	}
	return false
}

// Converter runs conversions through external office tooling.
type Converter struct {
	runner  Runner
	timeout time.Duration
	soffice string
	logger  *log.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(c *Converter) { c.runner = r }
}

// WithTimeout sets the per-conversion timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSoffice sets the LibreOffice binary.
func WithSoffice(bin string) Option {
	return func(c *Converter) {
		if bin != "" {
			c.soffice = bin
		}
	}
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		runner:  ExecRunner{},
		timeout: DefaultTimeout,
		soffice: "soffice",
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts input to target and writes the result into outputDir.
// It returns the path of the converted file.
func (c *Converter) Convert(ctx context.Context, input string, target Format, outputDir string) (string, error) {
	from := FormatOf(input)
	if !Supported(from, target) {
		return "", fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, from, target)
	}
	if _, err := os.Stat(input); err != nil {
		return "", &ConversionError{Input: input, Target: target, Message: "input not readable", Cause: err}
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", &ConversionError{Input: input, Target: target, Message: "failed to create output directory", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Printf("[convert] %s -> %s", filepath.Base(input), target)
	start := time.Now()

	var (
		out string
		err error
	)
	switch {
	case target == FormatPDF && (from == FormatPPTX || from == FormatPPT):
		out, err = c.presentationToPDF(ctx, input, outputDir)
	case target == FormatPDF:
		out, err = c.office(ctx, input, outputDir, target)
	case target == FormatDOCX:
		out, err = c.office(ctx, input, outputDir, target, "--infilter=writer_pdf_import")
	case target == FormatPPTX:
		out, err = c.pdfToPresentation(ctx, input, outputDir)
	}
	if err != nil {
		return "", err
	}

	c.logger.Printf("[convert] wrote %s in %s", out, time.Since(start).Round(time.Millisecond))
	return out, nil
}

// office runs a headless LibreOffice conversion.
func (c *Converter) office(ctx context.Context, input, outputDir string, target Format, extra ...string) (string, error) {
	args := append([]string{"--headless"}, extra...)
	args = append(args, "--convert-to", string(target), "--outdir", outputDir, input)

	logOutput, runErr := c.runner.Run(ctx, c.soffice, args...)
	out := outputPath(input, outputDir, target)
	if _, err := os.Stat(out); err != nil {
		return "", &ConversionError{
			Input:     input,
			Target:    target,
			Message:   "soffice produced no output",
			LogOutput: logOutput,
			Cause:     firstErr(runErr, err),
		}
	}
	return out, nil
}

// presentationToPDF tries LibreOffice first and unoconv second.
func (c *Converter) presentationToPDF(ctx context.Context, input, outputDir string) (string, error) {
	out, err := c.office(ctx, input, outputDir, FormatPDF)
	if err == nil {
		return out, nil
	}
	c.logger.Printf("[convert] soffice failed, falling back to unoconv: %v", err)

	out = outputPath(input, outputDir, FormatPDF)
	logOutput, runErr := c.runner.Run(ctx, "unoconv", "-f", "pdf", "-o", out, input)
	if _, statErr := os.Stat(out); statErr != nil {
		return "", &ConversionError{
			Input:     input,
			Target:    FormatPDF,
			Message:   "soffice and unoconv both failed",
			LogOutput: logOutput,
			Cause:     firstErr(runErr, err),
		}
	}
	return out, nil
}

func outputPath(input, outputDir string, target Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, base+"."+string(target))
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

var defaultConverter = New(WithLogger(log.Default()))

// Convert converts with the default converter.
func Convert(ctx context.Context, input string, target Format, outputDir string) (string, error) {
	return defaultConverter.Convert(ctx, input, target, outputDir)
}
