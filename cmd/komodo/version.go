package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chameleon-db/komodo/pkg/engine"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show komodo version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("komodo v%s\n", engine.Version)

		if verbose {
			fmt.Println("\nComponents:")
			fmt.Printf("  CLI:      v%s\n", engine.Version)
			fmt.Println("  Backend:  postgresql (pgx/v5)")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
