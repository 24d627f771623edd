package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/db"
	"github.com/jonathan/ppt-architect/internal/observability"
	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/schemas"
	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render an outline JSON file into a .pptx deck",
	Long: `Render an outline into a themed PowerPoint deck.

The outline is checked against schemas/outline.schema.json when the schema is
reachable. With --template the slides are laid out on the template's masters.
Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath string
	genOutline    string
	genTheme      string
	genTemplate   string
	genOut        string
	genPreview    string
	genPDF        bool
	genVerbose    bool
	genDBURL      string
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&genOutline, "outline", "i", "", "Path to outline JSON file (required)")
	generateCmd.Flags().StringVarP(&genTheme, "theme", "t", "", "Theme: business, tech or creative")
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "Path to a .pptx template")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output directory (default: ./output)")
	generateCmd.Flags().StringVar(&genPreview, "preview", "", "Render PNG previews of every slide into this directory")
	generateCmd.Flags().BoolVar(&genPDF, "pdf", false, "Also export the deck to PDF (requires LibreOffice)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print progress and the outline summary")
	generateCmd.Flags().StringVar(&genDBURL, "db-url", "", "Record the run as a task in this database")

	_ = generateCmd.MarkFlagRequired("outline")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	// Step 1: config file, then flags, then defaults
	cfg, err := loadCLIConfig(genConfigPath, out, genVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = genTheme
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = genTemplate
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = genOut
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDBURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	cfg = cfg.MergeWithDefaults(cliDefaults)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 2: load and validate the outline
	outline, err := readOutline(genOutline)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.PrintOutline(outline)
	}

	templatesDir, templateID, err := splitTemplate(cfg.Template)
	if err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger := cliLogger(cfg.Verbose)
	converter := convert.New(
		convert.WithTimeout(settings.ConvertTimeout),
		convert.WithSoffice(settings.SofficeBin),
		convert.WithLogger(logger),
	)
	opts := pipeline.GenerateOptions{
		Outline:      *outline,
		Theme:        cfg.Theme,
		TemplateID:   templateID,
		TemplatesDir: templatesDir,
		OutputDir:    cfg.OutputDir,
		PDF:          genPDF,
		PDFExporter:  converter,
		Logger:       logger,
	}
	if cfg.Verbose {
		opts.OnProgress = func(ev pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(out, "[%3d%%] %s\n", ev.Progress, ev.Message)
		}
	}

	// Step 3: optional task bookkeeping
	task := tasks.NewTask(outline.Title, cfg.Theme, templateID)
	opts.TaskID = task.ID
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		if err := database.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to record task: %w", err)
		}
		opts.Store = database
	}

	// Step 4: render
	result, err := pipeline.RunGeneration(ctx, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	files := []string{result.FilePath}
	if result.PDFPath != "" {
		files = append(files, result.PDFPath)
	}

	if genPreview != "" {
		previews, err := converter.Preview(ctx, result.FilePath, genPreview, convert.PreviewOptions{
			Width: settings.PreviewWidth,
		})
		if err != nil {
			return fmt.Errorf("failed to render previews: %w", err)
		}
		files = append(files, previews...)
	}

	if opts.Store != nil {
		if stored, err := opts.Store.Get(ctx, task.ID); err == nil {
			printer.PrintTask(stored)
		}
	}
	printer.PrintFiles("Generated files", files)
	return nil
}

// readOutline loads an outline file, checking it against the JSON schema
// before the struct rules.
func readOutline(path string) (*types.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outline: %w", err)
	}
	if _, err := schemas.ValidateOutline(data); err != nil {
		return nil, fmt.Errorf("outline %s: %w", path, err)
	}

	var outline types.Outline
	if err := json.Unmarshal(data, &outline); err != nil {
		return nil, fmt.Errorf("failed to parse outline JSON: %w", err)
	}
	if err := outline.Validate(); err != nil {
		return nil, err
	}
	return &outline, nil
}

// splitTemplate turns a template path into the directory and id the
// pipeline resolves as <dir>/<id>.pptx.
func splitTemplate(path string) (dir, id string, err error) {
	if path == "" {
		return "", "", nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".pptx") {
		return "", "", fmt.Errorf("template must be a .pptx file: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", "", fmt.Errorf("template not found: %w", err)
	}
	base := filepath.Base(path)
	return filepath.Dir(path), strings.TrimSuffix(base, filepath.Ext(base)), nil
}
