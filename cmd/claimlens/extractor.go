package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/extractor"
	"github.com/claimlens/claimlens/internal/home"
)

var extractorCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Manage the extraction backend container",
	Long: `Manage the extraction backend's container lifecycle.

The extraction backend performs all document intelligence. It runs in a
Docker container and exposes its API on localhost.

Examples:
  claimlens extractor start   # Start the backend container
  claimlens extractor stop    # Stop the container
  claimlens extractor status  # Check container status
  claimlens extractor logs    # View container logs`,
}

var extractorStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the extraction backend container",
	Long: `Start the extraction backend container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getExtractorManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting extraction backend...")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start extraction backend: %w", err)
		}

		fmt.Printf("Extraction backend is running at %s\n", mgr.URL())
		return nil
	},
}

var extractorStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the extraction backend container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getExtractorManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping extraction backend...")
		if err := mgr.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop extraction backend: %w", err)
		}

		fmt.Println("Extraction backend stopped")
		return nil
	},
}

var extractorStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show extraction backend container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getExtractorManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case extractor.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("URL: %s\n", mgr.URL())

			// Try health check
			client := extract.NewClient(mgr.URL(), nil)
			if health, err := client.Health(ctx); err != nil {
				fmt.Printf("Health: unhealthy (%v)\n", err)
			} else {
				fmt.Printf("Health: %s\n", health.Status)
			}
		case extractor.StatusStopped:
			fmt.Printf("Status: %s (use 'claimlens extractor start' to start)\n", status)
		case extractor.StatusNotFound:
			fmt.Printf("Status: %s (use 'claimlens extractor start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var extractorLogsTail string

var extractorLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show extraction backend container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getExtractorManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(ctx, extractorLogsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var extractorRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the extraction backend container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getExtractorManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing extraction backend container...")
		if err := mgr.Remove(ctx); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("Extraction backend container removed")
		return nil
	},
}

var extractorWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the extraction backend to be ready",
	Long: `Wait for the extraction backend to answer health checks.

This is useful in scripts to ensure the backend is fully started
before uploading documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getExtractorManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		fmt.Printf("Waiting for extraction backend (timeout: %s)...\n", timeout)

		if err := mgr.WaitReady(ctx, timeout); err != nil {
			return fmt.Errorf("extraction backend not ready: %w", err)
		}

		fmt.Println("Extraction backend is ready")
		return nil
	},
}

func init() {
	extractorCmd.AddCommand(extractorStartCmd)
	extractorCmd.AddCommand(extractorStopCmd)
	extractorCmd.AddCommand(extractorStatusCmd)
	extractorCmd.AddCommand(extractorLogsCmd)
	extractorCmd.AddCommand(extractorRemoveCmd)
	extractorCmd.AddCommand(extractorWaitCmd)

	extractorLogsCmd.Flags().StringVar(&extractorLogsTail, "tail", "100", "Number of lines to show from the end")
	extractorWaitCmd.Flags().Duration("timeout", 60*time.Second, "Timeout waiting for the backend")

	rootCmd.AddCommand(extractorCmd)
}

// getHome returns the home directory manager.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return h, nil
}

// getExtractorManager creates a DockerManager from the current config.
func getExtractorManager() (*extractor.DockerManager, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := cm.Get()

	return extractor.NewDockerManager(extractor.DockerConfig{
		ContainerName: cfg.Extractor.ContainerName,
		Image:         cfg.Extractor.Image,
		HostPort:      cfg.Extractor.Port,
		APIKey:        config.ResolveEnvVars(cfg.Extractor.APIKey),
	})
}
