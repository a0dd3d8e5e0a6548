// Init command for the semilla CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/internal/paths"
)

var initDemo bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize semilla storage",
	Long: `Init creates the configuration and data directories, writes a default
config.yaml on first run, and attaches the storage backend once so the
database exists.

With --demo it also seeds a handful of legacy records to migrate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir := paths.ResolveConfigDir(flagConfigDir)
		if _, err := loadConfig(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		a, closeFn, err := openApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer closeFn()

		if initDemo {
			if err := a.backend.SeedDemo(cmd.Context(), a.ownerID); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
		}

		dataDir := paths.ResolveDataDir(flagDataDir, a.cfg.GetString(cfgKeyDataDir))
		fmt.Println("Semilla initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		fmt.Println("  owner: ", a.ownerID)
		if initDemo {
			fmt.Println("  demo legacy records seeded")
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initDemo, "demo", false, "seed demo legacy records")
}
