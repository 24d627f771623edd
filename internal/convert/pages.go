package convert

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var pdfinfoPages = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// CountPDFPages returns the page count of a PDF. It asks pdfinfo first and
// falls back to Ghostscript.
func (c *Converter) CountPDFPages(ctx context.Context, pdfPath string) (int, error) {
	out, err := c.runner.Run(ctx, "pdfinfo", pdfPath)
	if err == nil {
		if m := pdfinfoPages.FindStringSubmatch(out); m != nil {
			return strconv.Atoi(m[1])
		}
	}

	out, gsErr := c.runner.Run(ctx, "gs", "-q", "-dNODISPLAY", "-dNOSAFER",
		"-c", fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", pdfPath))
	if gsErr != nil {
		return 0, &ConversionError{
			Input:     pdfPath,
			Target:    FormatPDF,
			Message:   "could not count pages",
			LogOutput: out,
			Cause:     firstErr(err, gsErr),
		}
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(out))
	if convErr != nil {
		return 0, &ConversionError{Input: pdfPath, Target: FormatPDF, Message: "unexpected gs output", LogOutput: out, Cause: convErr}
	}
	return n, nil
}
