package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chameleon-db/komodo/pkg/engine"
	_ "github.com/chameleon-db/komodo/pkg/engine/postgres"
)

var runCmd = &cobra.Command{
	Use:   "run <operation.yml>",
	Short: "Compile and execute a write operation against PostgreSQL",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		printError(err)
		return err
	}

	query, err := loadWriteQuery(args[0])
	if err != nil {
		printError(err)
		return err
	}

	eng := engine.New(cfg.BuilderOptions())
	if err := eng.Connect(ctx, cfg.ConnectorConfig()); err != nil {
		printError(err)
		return err
	}
	defer eng.Close()

	if verbose {
		printInfo(fmt.Sprintf("connected to %s:%d/%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	}

	result, err := eng.Run(ctx, query)
	if err != nil {
		printError(err)
		return err
	}

	if len(result.Rows) > 0 {
		out, err := json.MarshalIndent(result.Rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSuccess(fmt.Sprintf("%d row(s) affected", result.Affected))
	return nil
}
