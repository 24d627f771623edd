package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/observability"
	"github.com/jonathan/ppt-architect/internal/theme"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the outline models and whether their keys are configured",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintModels(llm.AvailableModels(settings.ProviderKeys()))
		return nil
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in themes",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		for _, name := range theme.Names() {
			t := theme.Resolve(name)
			marker := " "
			if name == theme.DefaultName {
				marker = "*"
			}
			_, _ = fmt.Fprintf(out, "%s %-10s title #%s  accent #%s  background #%s\n",
				marker, name, t.Title.Hex(), t.Accent.Hex(), t.Background.Hex())
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(themesCmd)
}
