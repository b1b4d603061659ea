package engine

import (
	"context"
	"fmt"
)

// Runner executes single backend statements. The pgx-backed implementation
// lives with the postgres builder; tests substitute an in-memory one.
type Runner interface {
	// Query runs a row-producing statement and returns its rows in order.
	Query(ctx context.Context, stmt Statement) ([]Row, error)

	// Exec runs a count-producing statement and returns the affected count.
	Exec(ctx context.Context, stmt Statement) (int64, error)
}

// Executor evaluates a compiled expression tree against a Runner.
type Executor struct {
	runner Runner
}

// NewExecutor creates an executor over the given statement runner.
func NewExecutor(runner Runner) *Executor {
	return &Executor{runner: runner}
}

// Execute walks the expression tree: leaves run statements, inner nodes
// apply the Unique/Concat/Sum combinators. The tree is well-typed by
// construction, so only Unique needs a runtime cardinality check.
func (ex *Executor) Execute(ctx context.Context, expr Expression) (*Result, error) {
	switch e := expr.(type) {
	case Query:
		rows, err := ex.runner.Query(ctx, e.Statement)
		if err != nil {
			return nil, err
		}
		return &Result{Rows: rows}, nil

	case Execute:
		affected, err := ex.runner.Exec(ctx, e.Statement)
		if err != nil {
			return nil, err
		}
		return &Result{Affected: affected}, nil

	case Unique:
		res, err := ex.Execute(ctx, e.Child)
		if err != nil {
			return nil, err
		}
		if len(res.Rows) > 1 {
			return nil, fmt.Errorf("unique node yielded %d rows, expected at most one", len(res.Rows))
		}
		return res, nil

	case Concat:
		var rows []Row
		for _, q := range e.Queries {
			part, err := ex.runner.Query(ctx, q.Statement)
			if err != nil {
				return nil, err
			}
			rows = append(rows, part...)
		}
		return &Result{Rows: rows}, nil

	case Sum:
		var total int64
		for _, child := range e.Executes {
			affected, err := ex.runner.Exec(ctx, child.Statement)
			if err != nil {
				return nil, err
			}
			total += affected
		}
		return &Result{Affected: total}, nil

	default:
		return nil, fmt.Errorf("unknown expression node %T", expr)
	}
}
