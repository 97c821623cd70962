package cmd

import (
	"fmt"

	"yamdb/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply the embedded SQL migrations that have not been recorded in
schema_migrations yet. Safe to run concurrently; runs are serialised
with a Postgres advisory lock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		applied, err := database.Migrate(cmd.Context(), e.db)
		if err != nil {
			e.logger.Error("Migration failed", zap.Error(err), zap.Strings("applied", applied))
			return err
		}

		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
			return nil
		}
		for _, version := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
