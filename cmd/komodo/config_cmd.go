package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long:  `Print the configuration komodo would use, after applying defaults and the DATABASE_URL override.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			printError(err)
			return err
		}

		// Never echo credentials.
		redacted := *cfg
		if redacted.Database.Password != "" {
			redacted.Database.Password = "********"
		}

		out, err := yaml.Marshal(&redacted)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
