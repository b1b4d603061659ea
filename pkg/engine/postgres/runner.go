package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chameleon-db/komodo/pkg/engine"
)

// Runner executes statements against PostgreSQL through a live connector.
// It implements engine.Runner.
type Runner struct {
	connector *engine.Connector
}

// NewRunner creates a runner over a connected pool.
func NewRunner(connector *engine.Connector) *Runner {
	return &Runner{connector: connector}
}

// Query implements engine.Runner
func (r *Runner) Query(ctx context.Context, stmt engine.Statement) ([]engine.Row, error) {
	if !r.connector.IsConnected() {
		return nil, fmt.Errorf("not connected to database")
	}

	rows, err := r.connector.Pool().Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, mapDatabaseError(err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Exec implements engine.Runner
func (r *Runner) Exec(ctx context.Context, stmt engine.Statement) (int64, error) {
	if !r.connector.IsConnected() {
		return 0, fmt.Errorf("not connected to database")
	}

	tag, err := r.connector.Pool().Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, mapDatabaseError(err)
	}
	return tag.RowsAffected(), nil
}

// scanRows converts pgx rows into engine rows
func scanRows(rows pgx.Rows) ([]engine.Row, error) {
	var result []engine.Row
	columns := rows.FieldDescriptions()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(engine.Row)
		for i, col := range columns {
			row[col.Name] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, mapDatabaseError(err)
	}

	return result, nil
}
