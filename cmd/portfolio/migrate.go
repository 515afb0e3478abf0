package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/portfolio-backend/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the PostgreSQL collection tables",
	Long:  "Applies the embedded migrations. It does nothing for the mongodb and memory drivers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loggerService, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		return database.Migrate(cmd.Context(), &log, cfg)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
