package main

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running claimlens server via HTTP.

These commands require a running server (claimlens serve).
Use --server to specify a custom server URL.

Examples:
  claimlens api health                     # Check server health
  claimlens api documents upload a.pdf     # Upload a PDF for extraction
  claimlens api documents list             # List all documents
  claimlens api export csv -f claims.csv   # Download merged claims`,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Document upload and tracking commands",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Merged claim export commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Documents as subcommand group
	documentsCmd.AddCommand((&endpoints.UploadDocumentsEndpoint{}).Command(getServerURL))
	documentsCmd.AddCommand((&endpoints.ListDocumentsEndpoint{}).Command(getServerURL))
	documentsCmd.AddCommand((&endpoints.GetDocumentEndpoint{}).Command(getServerURL))
	documentsCmd.AddCommand((&endpoints.DocumentResultEndpoint{}).Command(getServerURL))

	// Exports as subcommand group
	exportCmd.AddCommand((&endpoints.MergedJSONEndpoint{}).Command(getServerURL))
	exportCmd.AddCommand((&endpoints.MergedCSVEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(documentsCmd)
	apiCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(apiCmd)
}
