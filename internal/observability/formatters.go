// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ppt-architect/internal/ingestion"
	"github.com/jonathan/ppt-architect/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// PrintOutline outputs the deck title and one line per slide with its layout.
func (p *Printer) PrintOutline(outline *types.Outline) {
	if outline == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:   %s\n", outline.Title))
	sb.WriteString(fmt.Sprintf("Slides:  %d\n\n", len(outline.Slides)))

	for i, s := range outline.Slides {
		sb.WriteString(fmt.Sprintf("%2d. [%s] %s\n", i+1, s.Layout, s.Title))
		switch {
		case len(s.DataPoints) > 0:
			kind := "values"
			if s.DataPoints.HasSeries() {
				kind = "series"
			}
			sb.WriteString(fmt.Sprintf("    %d data %s\n", len(s.DataPoints), kind))
		case len(s.BulletPoints) > 0:
			count := min(len(s.BulletPoints), 3)
			for _, b := range s.BulletPoints[:count] {
				sb.WriteString(fmt.Sprintf("    • %s\n", b))
			}
			if len(s.BulletPoints) > count {
				sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(s.BulletPoints)-count))
			}
		}
	}

	p.printBox("OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSourceMetadata outputs where outline source text came from.
func (p *Printer) PrintSourceMetadata(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	if meta.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:       %s\n", meta.URL))
	}
	if meta.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:     %s\n", meta.Title))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform:  %s\n", meta.Platform))
	}
	sb.WriteString(fmt.Sprintf("Chars:     %d\n", meta.Chars))
	sb.WriteString(fmt.Sprintf("Hash:      %s", truncate(meta.Hash, 16)))

	p.printBox("SOURCE", sb.String())
}

// PrintTask outputs the state of a generation task.
func (p *Printer) PrintTask(task *types.Task) {
	if task == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:        %s\n", task.ID))
	sb.WriteString(fmt.Sprintf("Status:    %s (%d%%)\n", task.Status, task.Progress))
	if task.Message != "" {
		sb.WriteString(fmt.Sprintf("Message:   %s\n", task.Message))
	}
	if task.Theme != "" {
		sb.WriteString(fmt.Sprintf("Theme:     %s\n", task.Theme))
	}
	if task.TemplateID != "" {
		sb.WriteString(fmt.Sprintf("Template:  %s\n", task.TemplateID))
	}

	files := []struct{ label, path string }{
		{"Deck", task.FilePath},
		{"Preview", task.PreviewPath},
		{"PDF", task.PDFPath},
	}
	for _, f := range files {
		if f.path != "" {
			sb.WriteString(fmt.Sprintf("%-10s %s\n", f.label+":", f.path))
		}
	}

	p.printBox("GENERATION TASK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintModels outputs the model catalogue with availability marks.
func (p *Printer) PrintModels(models []types.ModelInfo) {
	if len(models) == 0 {
		return
	}

	var sb strings.Builder
	available := 0
	for _, m := range models {
		mark := "✗"
		if m.Available {
			mark = "✓"
			available++
		}
		sb.WriteString(fmt.Sprintf("%s %-28s %s\n", mark, m.ID, m.Provider))
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d available", available, len(models)))

	p.printBox("MODELS", sb.String())
}

// PrintFiles outputs a titled list of written files.
func (p *Printer) PrintFiles(title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	var sb strings.Builder
	count := min(len(paths), maxItemsToShow)
	for _, path := range paths[:count] {
		sb.WriteString(path + "\n")
	}
	if len(paths) > count {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(paths)-count))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}
