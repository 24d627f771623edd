package ingestion

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// invisible are runes dropped from sources: BOM, zero-width spaces and joiners.
var invisible = strings.NewReplacer("\ufeff", "", "\u200b", "", "\u200c", "", "\u200d", "", "\u2060", "")

// CleanText normalizes pasted or uploaded source text before it is sent to a
// model. List items are kept verbatim so nesting survives; every other line
// is trimmed and has whitespace runs collapsed. At most one blank line
// separates paragraphs.
func CleanText(content string) string {
	content = norm.NFC.String(invisible.Replace(content))
	content = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(content)

	var sb strings.Builder
	blank := false
	for _, line := range strings.Split(content, "\n") {
		line = cleanLine(line)
		if line == "" {
			blank = sb.Len() > 0
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
			if blank {
				sb.WriteByte('\n')
			}
		}
		sb.WriteString(line)
		blank = false
	}
	return sb.String()
}

func cleanLine(line string) string {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	body := strings.TrimLeft(line, " \t")
	switch {
	case body == "":
		return ""
	case strings.HasPrefix(body, "#"):
		return body
	case isListItem(body):
		return line
	}
	return strings.Join(strings.Fields(body), " ")
}

// isListItem reports whether s starts a markdown bullet or numbered item.
func isListItem(s string) bool {
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") || strings.HasPrefix(s, "+ ") {
		return true
	}
	digits := len(s) - len(strings.TrimLeft(s, "0123456789"))
	return digits > 0 && strings.HasPrefix(s[digits:], ". ")
}

// IngestFromFile reads and cleans a local text or markdown source.
func IngestFromFile(path string) (string, *Metadata, error) {
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", nil, fmt.Errorf("file not found: %w", err)
	case err != nil:
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := CleanText(string(raw))
	return text, NewMetadata(text, ""), nil
}

// WriteOutput saves source.cleaned.txt and source.meta.json into outDir.
func WriteOutput(outDir string, cleanedText string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	files := map[string][]byte{
		"source.cleaned.txt": []byte(cleanedText),
		"source.meta.json":   metaJSON,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
