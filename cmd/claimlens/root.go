package main

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "claimlens",
	Short: "Upload PDF insurance forms for claim extraction",
	Long: `Claimlens queues PDF insurance forms for a remote extraction service
and collects the structured claim data it returns.

Documents are processed one at a time in submission order. Once at least
two documents have completed, their claims can be merged and exported as
a single JSON or CSV file.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.claimlens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "claimlens home directory (default: ~/.claimlens)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
