// Package prompts holds the prompt templates sent to outline models.
// Each embedded JSON file maps a key to a text/template body.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var files embed.FS

type set struct {
	raw       map[string]string
	templates map[string]*template.Template
}

var (
	mu   sync.Mutex
	sets = make(map[string]*set)
)

// load parses every template of a file once. A file with a broken template
// fails as a whole.
func load(filename string) (*set, error) {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := sets[filename]; ok {
		return s, nil
	}

	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	s := &set{raw: raw, templates: make(map[string]*template.Template, len(raw))}
	for key, body := range raw {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("prompt %s/%s: %w", filename, key, err)
		}
		s.templates[key] = tmpl
	}
	sets[filename] = s
	return s, nil
}

// Get returns the unrendered template body of a prompt.
func Get(filename, key string) (string, error) {
	s, err := load(filename)
	if err != nil {
		return "", err
	}
	body, ok := s.raw[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return body, nil
}

// Render executes a prompt with data. Every {{.Name}} the template uses must
// be present in data.
func Render(filename, key string, data map[string]string) (string, error) {
	s, err := load(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %s/%s: %w", filename, key, err)
	}
	return sb.String(), nil
}

// Keys returns the prompt keys of a file in sorted order.
func Keys(filename string) ([]string, error) {
	s, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.raw))
	for key := range s.raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
