package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"PreprintScanner/internal/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the listing once and store the selected articles",
	Long: `Run fetches the configured listing page, drops entries that are already
stored or flagged for text overlap, and keeps at most --capacity entries,
preferring those with a journal reference or an acceptance notice. The
selection is written to the database in one batch and printed as YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cfg := loadApplication(cmd)

		capacity := cfg.Selection.Capacity
		if cmd.Flags().Changed("capacity") {
			capacity, _ = cmd.Flags().GetInt("capacity")
		}

		records, err := application.RunOnce(cmd.Context(), capacity)
		if errors.Is(err, domain.ErrNoResult) {
			fmt.Fprintln(os.Stderr, "no result: the listing could not be retrieved")
			return err
		}
		if err != nil {
			return err
		}

		if records == nil {
			records = []domain.ArticleRecord{}
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode selection: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	runCmd.Flags().Int("capacity", 0, "maximum number of articles to keep (default from config)")

	rootCmd.AddCommand(runCmd)
}
