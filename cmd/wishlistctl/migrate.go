package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utafrali/wishlist/migrations"
	"github.com/utafrali/wishlist/pkg/database"
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending migration embedded in the binary.

The service applies migrations on startup as well; this command is for
preparing a database ahead of a deploy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, log, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := database.RunMigrations(cmd.Context(), pool, migrations.FS, log)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			return nil
		}
		for _, version := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
