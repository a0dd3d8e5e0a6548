// Root command for the semilla CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/pkg/semilla"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

var rootCmd = &cobra.Command{
	Use:     "semilla",
	Short:   "Semilla keeps a child's investment history in three versioned layers",
	Version: semilla.Version,
	Long: `Semilla stores a family's financial and narrative history about a child's
investment account: financial facts, the context behind each decision, and
the emotional story, each independently versioned. It migrates the old
single-table data model and produces portable, integrity-verified exports.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.semilla)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.semilla-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(chapterCmd)
}
