// Package config provides configuration loading and validation for the CLI
// and the HTTP service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/ppt-architect/internal/theme"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Generation
	Model      string `json:"model,omitempty"`       // Outline model id from the catalogue
	Theme      string `json:"theme,omitempty"`       // Built-in theme name
	Template   string `json:"template,omitempty"`    // Path to a .pptx template
	SlideCount int    `json:"slide_count,omitempty"` // Requested content slides (5-30)
	MaxSlides  int    `json:"max_slides,omitempty"`  // Hard cap applied to generated outlines

	// Paths
	OutputDir    string `json:"output_dir,omitempty"`
	TemplatesDir string `json:"templates_dir,omitempty"`

	// Behavior
	UseBrowser  bool   `json:"use_browser,omitempty"` // Use headless browser for SPA sites
	Verbose     bool   `json:"verbose,omitempty"`     // Print detailed debug information
	Preview     bool   `json:"preview,omitempty"`     // Render a PNG of the cover slide
	DatabaseURL string `json:"database_url,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.SlideCount != 0 && (c.SlideCount < 5 || c.SlideCount > 30) {
		return fmt.Errorf("config error: 'slide_count' must be between 5 and 30, got %d", c.SlideCount)
	}
	if c.MaxSlides < 0 {
		return fmt.Errorf("config error: 'max_slides' must be non-negative")
	}
	if c.Theme != "" && !theme.Exists(c.Theme) {
		return fmt.Errorf("config error: unknown theme %q", c.Theme)
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Theme == "" {
		result.Theme = defaults.Theme
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.TemplatesDir == "" {
		result.TemplatesDir = defaults.TemplatesDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.SlideCount == 0 {
		result.SlideCount = defaults.SlideCount
	}
	if result.MaxSlides == 0 {
		result.MaxSlides = defaults.MaxSlides
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
