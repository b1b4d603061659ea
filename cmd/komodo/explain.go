package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chameleon-db/komodo/pkg/engine"
	_ "github.com/chameleon-db/komodo/pkg/engine/postgres"
)

var explainCmd = &cobra.Command{
	Use:   "explain <operation.yml>",
	Short: "Show a write operation's execution plan as a tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Plan for %s:\n", query.Kind())
	explainNode(expr, 0)
	return nil
}

func explainNode(expr engine.Expression, depth int) {
	indent := strings.Repeat("  ", depth)
	node := color.New(color.FgYellow, color.Bold)
	stmt := color.New(color.FgCyan)

	switch e := expr.(type) {
	case engine.Query:
		node.Printf("%squery", indent)
		stmt.Printf("  %s", e.Statement.SQL)
		printArgs(e.Statement.Args)
	case engine.Execute:
		node.Printf("%sexecute", indent)
		stmt.Printf("  %s", e.Statement.SQL)
		printArgs(e.Statement.Args)
	case engine.Unique:
		node.Printf("%sunique\n", indent)
		explainNode(e.Child, depth+1)
	case engine.Concat:
		node.Printf("%sconcat (%d statements)\n", indent, len(e.Queries))
		for _, q := range e.Queries {
			explainNode(q, depth+1)
		}
	case engine.Sum:
		node.Printf("%ssum (%d statements)\n", indent, len(e.Executes))
		for _, x := range e.Executes {
			explainNode(x, depth+1)
		}
	}
}

func printArgs(args []interface{}) {
	if len(args) == 0 {
		fmt.Println()
		return
	}
	fmt.Printf("  %v\n", args)
}
