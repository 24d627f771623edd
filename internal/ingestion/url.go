package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/ppt-architect/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches a page, extracts its main text with platform-specific
// selectors and returns the cleaned text with metadata.
// If useBrowser is true, pages whose text is too short are re-rendered in a
// headless browser before extraction.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[FETCH] %s (platform %s)", urlStr, platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		if errors.Is(err, fetch.ErrInvalidURL) {
			return "", nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[FETCH] fetched HTML: %d bytes", len(result.HTML))
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	html := result.HTML
	textContent, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[FETCH] extracted text: %d chars", len(textContent))
	}

	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[FETCH] content too short (%d chars < %d), falling back to browser rendering",
				len(textContent), fetch.MinContentLength)
		}

		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		switch {
		case browserErr != nil:
			// keep the HTTP content
			log.Printf("[FETCH] browser rendering failed for %s: %v", urlStr, browserErr)
		default:
			rendered, err := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if err != nil {
				log.Printf("[FETCH] browser content extraction failed: %v", err)
				break
			}
			textContent, html = rendered, browserHTML
			if verbose {
				log.Printf("[FETCH] browser extracted text: %d chars", len(textContent))
			}
		}
	}

	cleanedText := CleanText(textContent)

	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)
	metadata.Title = fetch.ExtractTitle(html)

	return cleanedText, metadata, nil
}

// SourceText turns an outline source into the text sent to the model: the
// page text for a URL, otherwise the cleaned content itself.
func SourceText(ctx context.Context, content, sourceURL string, useBrowser bool) (string, *Metadata, error) {
	if sourceURL != "" {
		return IngestFromURL(ctx, sourceURL, useBrowser, false)
	}
	cleaned := CleanText(content)
	return cleaned, NewMetadata(cleaned, ""), nil
}
