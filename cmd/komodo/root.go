package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chameleon-db/komodo/internal/config"
)

var (
	verbose bool
	workDir string
)

var rootCmd = &cobra.Command{
	Use:   "komodo",
	Short: "Write-query compiler for PostgreSQL",
	Long: `Komodo lowers logical write operations (create, update, upsert, delete,
relation connect/disconnect, raw statements) into executable expression
plans, and can run those plans against PostgreSQL.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", "", "working directory (defaults to cwd)")
}

// loadConfig resolves configuration for the selected working directory.
func loadConfig() (*config.Config, error) {
	dir := workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}
	return config.NewLoader(dir).LoadOrDefault()
}
