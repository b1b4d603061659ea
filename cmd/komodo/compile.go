package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chameleon-db/komodo/pkg/engine"
	_ "github.com/chameleon-db/komodo/pkg/engine/postgres"
)

var compileCmd = &cobra.Command{
	Use:   "compile <operation.yml>",
	Short: "Compile a write operation into an execution plan",
	Long: `Read a YAML write-operation document, lower it with the PostgreSQL
statement builder, and print the resulting expression plan as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
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
	expr, err := eng.Lower(query)
	if err != nil {
		printError(err)
		return err
	}

	plan, err := engine.MarshalPlan(expr)
	if err != nil {
		printError(err)
		return err
	}

	fmt.Println(string(plan))
	return nil
}
