// Check command verifies the integrity of an exported JSON bundle.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/internal/export"
)

var checkCmd = &cobra.Command{
	Use:   "check <bundle.json>",
	Short: "Verify an exported bundle's checksums",
	Long: `Check parses an exported JSON bundle, recomputes each layer checksum,
and compares against the checksums stored in the bundle. A mismatch
means the bundle was altered or corrupted after export.

Example:
  semilla check semilla-export-2026-09-01.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bundle: %w", err)
		}

		data, report := export.ParseAndVerify(raw)

		if flagJSON {
			return printJSON(report)
		}

		if report.IsValid {
			fmt.Println("Bundle is intact")
			if data != nil {
				fmt.Println("  exported:", data.ExportDate.Format("2006-01-02 15:04"))
				fmt.Println("  version: ", data.ExportVersion)
			}
			return nil
		}
		fmt.Printf("Bundle has %d problem(s):\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Println("  -", e)
		}
		return fmt.Errorf("bundle verification failed")
	},
}
