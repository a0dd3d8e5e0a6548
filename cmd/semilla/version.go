// Version command for the semilla CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semilla-app/semilla/pkg/semilla"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the semilla version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("semilla", semilla.Version)
	},
}
