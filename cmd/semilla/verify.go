// Verify command checks migration integrity.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify migration integrity",
	Long: `Verify independently re-reads the legacy and migrated collections and
checks that every legacy record has a financial counterpart and that all
metadata back-references resolve in both directions.

Example:
  semilla verify
  semilla verify --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := openApp()
		if err != nil {
			return err
		}
		defer closeFn()

		result, err := a.migrate.Verify(cmd.Context(), a.ownerID)
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		if flagJSON {
			return printJSON(result)
		}

		if result.IsValid {
			fmt.Println("Migration verified: no issues found")
			return nil
		}
		fmt.Printf("Migration has %d issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Println("  -", issue)
		}
		return fmt.Errorf("verification found issues")
	},
}
