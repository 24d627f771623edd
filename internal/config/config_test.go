package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"model": "deepseek-chat",
		"theme": "tech",
		"slide_count": 10,
		"output_dir": "./decks",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Equal(t, "tech", cfg.Theme)
	assert.Equal(t, 10, cfg.SlideCount)
	assert.Equal(t, "./decks", cfg.OutputDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "brand.pptx")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "full", cfg: Config{Theme: "business", SlideCount: 12, MaxSlides: 20, Template: existing}},
		{name: "slide count low", cfg: Config{SlideCount: 4}, wantErr: "slide_count"},
		{name: "slide count high", cfg: Config{SlideCount: 31}, wantErr: "slide_count"},
		{name: "negative max", cfg: Config{MaxSlides: -1}, wantErr: "max_slides"},
		{name: "unknown theme", cfg: Config{Theme: "neon"}, wantErr: "unknown theme"},
		{name: "missing template", cfg: Config{Template: "/nonexistent/t.pptx"}, wantErr: "template file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Model: "gpt-4o", SlideCount: 8}
	defaults := Config{
		Model:     "deepseek-chat",
		Theme:     "business",
		OutputDir: "./output",
		MaxSlides: 50,
		Verbose:   true,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "gpt-4o", merged.Model, "explicit values win")
	assert.Equal(t, 8, merged.SlideCount)
	assert.Equal(t, "business", merged.Theme)
	assert.Equal(t, "./output", merged.OutputDir)
	assert.Equal(t, 50, merged.MaxSlides)
	assert.False(t, merged.Verbose, "bools are not merged")
}
