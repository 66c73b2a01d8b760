package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/extractor"
	"github.com/claimlens/claimlens/internal/home"
	"github.com/claimlens/claimlens/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the claimlens server",
	Long: `Start the claimlens HTTP server.

When extractor.managed is enabled in config, this also starts the
extraction backend container. When the server shuts down (via Ctrl+C
or SIGTERM), the container is stopped too.

The server provides:
  - /health          - Basic server health check
  - /ready           - Readiness check (includes extraction backend status)
  - /api/documents   - Upload and track documents
  - /api/export/...  - Merged claim exports

Examples:
  claimlens serve                    # Start on default port 8080
  claimlens serve --port 3000        # Start on custom port
  claimlens serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load configuration with hot-reload
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()
		cfg := cm.Get()

		host := serveHost
		port := servePort
		if !cmd.Flags().Changed("host") && cfg.Server.Host != "" {
			host = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") && cfg.Server.Port != "" {
			port = cfg.Server.Port
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			BackendURL:      cfg.Backend.URL,
			ManageExtractor: cfg.Extractor.Managed,
			ExtractorConfig: extractor.DockerConfig{
				ContainerName: cfg.Extractor.ContainerName,
				Image:         cfg.Extractor.Image,
				HostPort:      cfg.Extractor.Port,
				APIKey:        config.ResolveEnvVars(cfg.Extractor.APIKey),
			},
			Simulate:      cfg.Progress.Simulate,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
