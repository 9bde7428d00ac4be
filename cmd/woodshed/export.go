// ABOUTME: CLI command exporting the full practice log as CSV.
// ABOUTME: Writes the canonical session schema to stdout regardless of backend.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/woodshed/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the practice log as CSV",
	Long: `Write every practice session to stdout as CSV.

The output uses the canonical session column order and works the same for
the csv and sqlite backends, so it can feed spreadsheets or scripts.

Examples:
  woodshed export > sessions.csv
  woodshed --backend sqlite export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.WriteSessionsCSV(repo, os.Stdout); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
