package engine

import (
	"context"
	"fmt"
)

// Version is the engine version reported by the CLI.
const Version = "0.3.1"

// Engine is the main entry point for komodo: it holds the backend statement
// builder and, once connected, the connector and executor that run compiled
// plans.
type Engine struct {
	builder   StatementBuilder
	connector *Connector
	executor  *Executor
}

// New creates an engine using the registered backend builder factory.
// It panics if no backend package was imported.
func New(opts BuilderOptions) *Engine {
	factory := getBuilderFactory()
	if factory == nil {
		panic("no builder factory registered - import a backend package")
	}
	return &Engine{builder: factory.New(opts)}
}

// NewWithBuilder creates an engine over an explicit statement builder.
func NewWithBuilder(builder StatementBuilder) *Engine {
	return &Engine{builder: builder}
}

// Builder returns the engine's statement builder.
func (e *Engine) Builder() StatementBuilder {
	return e.builder
}

// Lower compiles one logical write operation into an expression tree.
func (e *Engine) Lower(q WriteQuery) (Expression, error) {
	return LowerWriteQuery(q, e.builder)
}

// Connect establishes a database connection and wires the executor using
// the registered backend's statement runner.
func (e *Engine) Connect(ctx context.Context, config ConnectorConfig) error {
	factory := getBuilderFactory()
	if factory == nil {
		return fmt.Errorf("no builder factory registered - import a backend package")
	}
	e.connector = NewConnector(config)
	if err := e.connector.Connect(ctx); err != nil {
		return err
	}
	e.executor = NewExecutor(factory.NewRunner(e.connector))
	return nil
}

// Close closes the database connection.
func (e *Engine) Close() {
	if e.connector != nil {
		e.connector.Close()
	}
}

// IsConnected returns true if connected to a database.
func (e *Engine) IsConnected() bool {
	return e.connector != nil && e.connector.IsConnected()
}

// Ping verifies the database connection is alive.
func (e *Engine) Ping(ctx context.Context) error {
	if e.connector == nil {
		return fmt.Errorf("not connected")
	}
	return e.connector.Ping(ctx)
}

// Run lowers the operation and executes the resulting tree.
func (e *Engine) Run(ctx context.Context, q WriteQuery) (*Result, error) {
	if e.executor == nil {
		return nil, fmt.Errorf("not connected - call Connect() first")
	}
	expr, err := e.Lower(q)
	if err != nil {
		return nil, err
	}
	return e.executor.Execute(ctx, expr)
}
