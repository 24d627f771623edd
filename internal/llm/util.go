package llm

import (
	"fmt"
	"strings"
)

// CleanJSONBlock strips a markdown code fence around a model reply. The
// fence's info string ("json", "javascript") is dropped with it.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	body, fenced := strings.CutPrefix(text, "```")
	if !fenced {
		return text
	}
	if info, rest, ok := strings.Cut(body, "\n"); ok && len(info) < 20 && !strings.ContainsAny(info, " {[") {
		body = rest
	}
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

// ExtractJSONObject returns the text between the first '{' and the last '}'.
// Models that reason aloud often wrap the object in prose; this strips it.
func ExtractJSONObject(text string) (string, error) {
	text = CleanJSONBlock(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return text[start : end+1], nil
}
