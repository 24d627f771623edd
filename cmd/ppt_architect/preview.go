package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/observability"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the slides of a .pptx deck to PNG images",
	RunE:  runPreview,
}

var (
	prevIn     string
	prevOutDir string
	prevWidth  int
	prevPages  int
)

func init() {
	previewCmd.Flags().StringVarP(&prevIn, "in", "i", "", "Deck to render (required)")
	previewCmd.Flags().StringVarP(&prevOutDir, "out-dir", "o", "preview", "Directory for slide_NNN.png files")
	previewCmd.Flags().IntVarP(&prevWidth, "width", "w", 0, "Image width in pixels (default: PREVIEW_WIDTH)")
	previewCmd.Flags().IntVar(&prevPages, "pages", 0, "Render only the first N slides (0 renders all)")

	_ = previewCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	if prevWidth < 0 || prevPages < 0 {
		return fmt.Errorf("--width and --pages must be non-negative")
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	width := prevWidth
	if width == 0 {
		width = settings.PreviewWidth
	}
	converter := convert.New(
		convert.WithTimeout(settings.ConvertTimeout),
		convert.WithSoffice(settings.SofficeBin),
		convert.WithLogger(cliLogger(false)),
	)
	paths, err := converter.Preview(cmd.Context(), prevIn, prevOutDir, convert.PreviewOptions{
		Width:    width,
		MaxPages: prevPages,
	})
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFiles("Slide previews", paths)
	return nil
}
