package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"time-tracker/internal/storage"
)

var migrateTarget int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  `Apply or roll back schema migrations. The server applies pending migrations on startup; this command exists for explicit control and downgrades.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Migrate the schema to the target version (-1 for latest)",
	Run: func(cmd *cobra.Command, args []string) {
		sqlite, ok := provider.(*storage.SQLiteProvider)
		if !ok {
			slog.Error("Migrations are only supported for the sqlite provider")
			os.Exit(1)
		}

		if err := sqlite.Migrate("sqlite3", migrateTarget); err != nil {
			slog.Error("Migration failed", "error", err, "target", migrateTarget)
			os.Exit(1)
		}

		version, err := provider.GetSchemaVersion(context.Background())
		if err != nil {
			slog.Error("Failed to read schema version", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Schema at version %d\n", version)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Run: func(cmd *cobra.Command, args []string) {
		version, err := provider.GetSchemaVersion(context.Background())
		if err != nil {
			slog.Error("Failed to read schema version", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Schema at version %d\n", version)
	},
}

func init() {
	migrateUpCmd.Flags().IntVar(&migrateTarget, "target", -1, "target schema version, -1 for latest")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
