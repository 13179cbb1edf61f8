package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fitspipe",
		Short: "Synthetic astronomical image pipeline",
		Long: `fitspipe generates synthetic FITS star-field images, builds an upload
manifest for them, validates them and prints a status summary.

Each stage is a separate subcommand that reads and writes local directories:

  fitspipe generate    # write data/*.fits and reports/generation_metadata.json
  fitspipe upload      # write reports/upload_manifest.json
  fitspipe validate    # write reports/validation_report.json
  fitspipe summary     # print the status block`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <root>/fitspipe.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newUploadCmd(),
		newValidateCmd(),
		newSummaryCmd(),
		newConfigCmd(),
		newCatalogCmd(),
	)

	return rootCmd
}
