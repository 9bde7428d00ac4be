// ABOUTME: CLI command copying all data between storage backends.
// ABOUTME: Opens the destination in the same data directory and streams songs then records.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/woodshed/internal/config"
	"github.com/harperreed/woodshed/internal/storage"
	"github.com/spf13/cobra"
)

var migrateTo string

var migrateCmd = &cobra.Command{
	Use:   "migrate --to <backend>",
	Short: "Copy all data to another storage backend",
	Long: `Copy every song and practice session from the current backend to
another one in the same data directory.

The source is whatever the config (or --backend) selects; --to names the
destination. Songs are copied first so record foreign keys resolve, then
records in log order. The source is left untouched; update the config to
switch over once the copy is verified.

Examples:
  woodshed migrate --to sqlite
  woodshed --backend sqlite migrate --to csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo != "csv" && migrateTo != "sqlite" {
			return fmt.Errorf("unknown destination backend %q (want csv or sqlite)", migrateTo)
		}
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", migrateTo)
		}

		dst, err := config.OpenBackend(migrateTo, cfg.GetDataDir())
		if err != nil {
			return fmt.Errorf("failed to open %s backend: %w", migrateTo, err)
		}
		defer dst.Close()

		stats, err := storage.Migrate(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Copied %d song(s) and %d record(s) to the %s backend",
			stats.Songs, stats.Records, migrateTo)
		fmt.Printf("Set \"backend\": %q in %s to switch over.\n", migrateTo, config.ConfigPath())
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: csv or sqlite")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
