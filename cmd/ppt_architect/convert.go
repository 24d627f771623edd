package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/observability"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between PPTX, DOCX and PDF",
	Long: `Convert a document with LibreOffice.

Supported conversions: pptx/ppt/docx/doc to pdf, pdf to docx, and pdf to pptx
(one image slide per page).`,
	RunE: runConvert,
}

var (
	convIn      string
	convTo      string
	convOutDir  string
	convVerbose bool
)

func init() {
	convertCmd.Flags().StringVarP(&convIn, "in", "i", "", "Input document (required)")
	convertCmd.Flags().StringVarP(&convTo, "to", "t", "pdf", "Target format: pdf, docx or pptx")
	convertCmd.Flags().StringVarP(&convOutDir, "out-dir", "o", ".", "Directory for the converted file")
	convertCmd.Flags().BoolVarP(&convVerbose, "verbose", "v", false, "Log the external tool invocations")

	_ = convertCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	target := convert.ParseFormat(convTo)
	if from := convert.FormatOf(convIn); !convert.Supported(from, target) {
		return fmt.Errorf("%w: %s to %s", convert.ErrUnsupportedConversion, from, target)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	conv := convert.New(
		convert.WithTimeout(settings.ConvertTimeout),
		convert.WithSoffice(settings.SofficeBin),
		convert.WithLogger(cliLogger(convVerbose)),
	)

	path, err := conv.Convert(context.Background(), convIn, target, convOutDir)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFiles("Converted", []string{path})
	return nil
}
