// Package main provides the entry point for the ppt_architect CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ppt_architect",
	Short: "AI-PPT Architect: outlines and decks from text",
	Long: `ppt_architect turns source text, web pages or markdown into a structured outline
and renders outlines into themed PowerPoint decks with charts, diagrams and previews.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
