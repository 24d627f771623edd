package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/theme"
)

// cliDefaults are applied after the config file and the flags.
var cliDefaults = config.Config{
	Model:        llm.DefaultModel,
	Theme:        theme.DefaultName,
	OutputDir:    config.DefaultOutputDir,
	TemplatesDir: config.DefaultTemplatesDir,
	MaxSlides:    config.DefaultMaxSlides,
}

// loadCLIConfig reads and validates the --config file, or returns an empty
// Config when path is empty.
func loadCLIConfig(path string, out io.Writer, verbose bool) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	if verbose {
		_, _ = fmt.Fprintf(out, "Loaded config from: %s\n", path)
	}
	return *loaded, nil
}

// cliLogger logs to stderr in verbose mode and discards otherwise.
func cliLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}
