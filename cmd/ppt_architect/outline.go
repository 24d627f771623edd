package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/ingestion"
	"github.com/jonathan/ppt-architect/internal/observability"
	"github.com/jonathan/ppt-architect/internal/pipeline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Turn source text, a file or a URL into an outline JSON file",
	Long: `Build a slide outline from source content.

Exactly one of --text, --file or --url supplies the content. By default a
language model writes the outline; with --markdown the content is read as a
structured markdown deck instead and no model is called.`,
	RunE: runOutline,
}

var (
	outConfigPath string
	outText       string
	outFile       string
	outURL        string
	outMarkdown   bool
	outModel      string
	outSlides     int
	outPath       string
	outBrowser    bool
	outVerbose    bool
	outSourceDir  string
)

func init() {
	outlineCmd.Flags().StringVar(&outConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	outlineCmd.Flags().StringVar(&outText, "text", "", "Source text")
	outlineCmd.Flags().StringVarP(&outFile, "file", "f", "", "Path to a source text or markdown file")
	outlineCmd.Flags().StringVarP(&outURL, "url", "u", "", "URL of a source article")
	outlineCmd.Flags().BoolVar(&outMarkdown, "markdown", false, "Read the source as a markdown deck instead of calling a model")
	outlineCmd.Flags().StringVarP(&outModel, "model", "m", "", "Model id (see the models command)")
	outlineCmd.Flags().IntVarP(&outSlides, "slides", "n", 0, "Requested number of content slides (5-30)")
	outlineCmd.Flags().StringVarP(&outPath, "out", "o", "outline.json", "Output path for the outline JSON")
	outlineCmd.Flags().BoolVar(&outBrowser, "browser", false, "Use a headless browser for client-rendered pages")
	outlineCmd.Flags().BoolVarP(&outVerbose, "verbose", "v", false, "Print the source metadata and the outline summary")
	outlineCmd.Flags().StringVar(&outSourceDir, "source-dir", "", "Also save the cleaned source text and its metadata here")

	outlineCmd.MarkFlagsMutuallyExclusive("text", "file", "url")
	outlineCmd.MarkFlagsOneRequired("text", "file", "url")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	cfg, err := loadCLIConfig(outConfigPath, out, outVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = outModel
	}
	if cmd.Flags().Changed("slides") {
		cfg.SlideCount = outSlides
	}
	if cmd.Flags().Changed("browser") {
		cfg.UseBrowser = outBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = outVerbose
	}
	cfg = cfg.MergeWithDefaults(cliDefaults)
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Step 1: resolve the source
	opts := pipeline.OutlineOptions{
		Markdown:   outMarkdown,
		Model:      cfg.Model,
		MaxSlides:  cfg.MaxSlides,
		UseBrowser: cfg.UseBrowser,
		Keys:       settings.ProviderKeys(),
		Logger:     cliLogger(cfg.Verbose),
	}
	if cfg.SlideCount > 0 {
		count := cfg.SlideCount
		opts.SlideCount = &count
	}

	switch {
	case outFile != "" && outMarkdown:
		raw, err := os.ReadFile(outFile)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}
		opts.Content = string(raw)
	case outFile != "":
		text, meta, err := ingestion.IngestFromFile(outFile)
		if err != nil {
			return err
		}
		if err := reportSource(printer, cfg.Verbose, text, meta); err != nil {
			return err
		}
		opts.Content = text
	case outURL != "" && !outMarkdown:
		text, meta, err := ingestion.SourceText(ctx, "", outURL, cfg.UseBrowser)
		if err != nil {
			return err
		}
		if err := reportSource(printer, cfg.Verbose, text, meta); err != nil {
			return err
		}
		opts.Content = text
	case outURL != "":
		opts.SourceURL = outURL
	default:
		opts.Content = outText
	}
	if opts.Content == "" && opts.SourceURL == "" {
		return errors.New("source content is empty")
	}

	// Step 2: build the outline
	outline, err := pipeline.RunOutline(ctx, opts)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.PrintOutline(outline)
	}

	// Step 3: write it
	data, err := json.MarshalIndent(outline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write outline: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Outline %q with %d slides written to %s\n", outline.Title, len(outline.Slides), outPath)
	return nil
}

func reportSource(printer *observability.Printer, verbose bool, text string, meta *ingestion.Metadata) error {
	if verbose && meta != nil {
		printer.PrintSourceMetadata(meta)
	}
	if outSourceDir == "" || meta == nil {
		return nil
	}
	return ingestion.WriteOutput(outSourceDir, text, meta)
}
