package postgres

import "github.com/chameleon-db/komodo/pkg/engine"

type factory struct{}

// New implements engine.BuilderFactory
func (factory) New(opts engine.BuilderOptions) engine.StatementBuilder {
	return NewBuilder(opts)
}

// NewRunner implements engine.BuilderFactory
func (factory) NewRunner(connector *engine.Connector) engine.Runner {
	return NewRunner(connector)
}

// Auto-register the postgres builder factory on package import
func init() {
	engine.RegisterBuilderFactory(factory{})
}
