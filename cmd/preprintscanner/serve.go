package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the selection every day at the configured hour",
	Long: `Serve runs the selection once at startup (unless scheduler.runOnStart is
false) and then every day at scheduler.hour in scheduler.timezone. A failed
run is logged and the next slot is awaited. SIGINT or SIGTERM stops it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _ := loadApplication(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return application.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
