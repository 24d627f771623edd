package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jonathan/ppt-architect/internal/ingestion"
	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/types"
)

// ErrNoContent is returned when an outline request has neither text nor a URL.
var ErrNoContent = errors.New("content or source URL is required")

// OutlineGenerator produces an outline from source text.
type OutlineGenerator interface {
	Generate(ctx context.Context, content string, slideCount *int) (*types.Outline, error)
	Model() string
	Close() error
}

// OutlineOptions holds configuration for one outline request
type OutlineOptions struct {
	Content    string
	SourceURL  string
	Markdown   bool
	Model      string
	SlideCount *int
	MaxSlides  int
	UseBrowser bool
	Keys       llm.Keys

	// Generator overrides the model client built from Model and Keys.
	Generator OutlineGenerator
	Logger    *log.Logger
}

// RunOutline resolves the source text and turns it into an outline, either
// through the markdown reader or through a model.
func RunOutline(ctx context.Context, opts OutlineOptions) (*types.Outline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.Content == "" && opts.SourceURL == "" {
		return nil, ErrNoContent
	}

	if opts.Markdown {
		src := opts.Content
		if opts.SourceURL != "" {
			text, _, err := ingestion.IngestFromURL(ctx, opts.SourceURL, opts.UseBrowser, false)
			if err != nil {
				return nil, err
			}
			src = text
		}
		outline, err := ingestion.OutlineFromMarkdown([]byte(src))
		if err != nil {
			return nil, err
		}
		truncate(outline, opts.MaxSlides, logger)
		logger.Printf("[pipeline] markdown outline %q with %d slides", outline.Title, len(outline.Slides))
		return outline, nil
	}

	text, meta, err := ingestion.SourceText(ctx, opts.Content, opts.SourceURL, opts.UseBrowser)
	if err != nil {
		return nil, err
	}
	if meta != nil && meta.URL != "" {
		logger.Printf("[pipeline] fetched %d chars from %s (%s)", meta.Chars, meta.URL, meta.Platform)
	}

	gen := opts.Generator
	if gen == nil {
		built, err := llm.NewOutlineGenerator(ctx, opts.Model, opts.Keys, opts.MaxSlides)
		if err != nil {
			return nil, err
		}
		gen = built
	}
	defer func() { _ = gen.Close() }()

	outline, err := gen.Generate(ctx, text, opts.SlideCount)
	if err != nil {
		return nil, fmt.Errorf("outline generation with %s failed: %w", gen.Model(), err)
	}
	truncate(outline, opts.MaxSlides, logger)
	return outline, nil
}

func truncate(outline *types.Outline, maxSlides int, logger *log.Logger) {
	if maxSlides > 0 && len(outline.Slides) > maxSlides {
		logger.Printf("[pipeline] truncating outline from %d to %d slides", len(outline.Slides), maxSlides)
		outline.Slides = outline.Slides[:maxSlides]
	}
}
