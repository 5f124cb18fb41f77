package main

import (
	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the articles table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _ := loadApplication(cmd)
		return application.InitStore(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
