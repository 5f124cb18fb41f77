// Package main is the entry point for the preprintscanner CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"PreprintScanner/internal/app"
	"PreprintScanner/internal/config"
	"PreprintScanner/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the preprintscanner CLI.
var rootCmd = &cobra.Command{
	Use:   "preprintscanner",
	Short: "Select and store the most promising new arXiv preprints",
	Long: `preprintscanner reads the arXiv new-submissions listing, scores every
unseen entry by its journal reference and acceptance notices, and stores a
small selection of the best entries in a SQLite database.

Use "run" for a single pass and "serve" to repeat it every day.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: $PREPRINT_SCANNER_CONFIG)")
}

// loadApplication resolves configuration from the --config flag and builds
// the application with its logger.
func loadApplication(cmd *cobra.Command) (*app.Application, config.Config) {
	var cfg config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg = config.LoadFile(path)
	} else {
		cfg = config.Load()
	}

	logger := logging.NewWithFormat(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cfg, logger), cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
