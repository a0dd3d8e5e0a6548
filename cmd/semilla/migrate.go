// Migrate command runs the legacy single-table migration.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy records into the three-layer model",
	Long: `Migrate splits every legacy investment record into a financial
transaction and, when the record carries any story field, a linked
transaction metadata record. Re-running is safe: records already
migrated are skipped.

Example:
  semilla migrate
  semilla migrate --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := openApp()
		if err != nil {
			return err
		}
		defer closeFn()

		result, err := a.migrate.Run(cmd.Context(), a.ownerID)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if flagJSON {
			return printJSON(result)
		}

		fmt.Printf("Migrated %d legacy record(s): %d financial, %d metadata, %d skipped\n",
			result.MigratedCount, result.CreatedFinancialCount,
			result.CreatedMetadataCount, result.SkippedCount)
		for _, w := range result.Warnings {
			fmt.Println("  warning:", w)
		}
		for _, e := range result.Errors {
			fmt.Println("  error:", e)
		}
		return nil
	},
}
