package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/server"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the outline, deck generation, template and
conversion endpoints. Settings come from the environment or a .env file;
--port and --host override API_PORT and API_HOST.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: API_PORT or 8000)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (default: API_HOST or 0.0.0.0)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if cmd.Flags().Changed("port") {
		settings.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		settings.Host = serveHost
	}

	srv, err := server.New(settings)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
