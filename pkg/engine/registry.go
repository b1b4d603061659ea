package engine

// BuilderOptions configures a backend statement builder.
type BuilderOptions struct {
	// ParameterLimit caps the number of bind parameters per statement;
	// bulk operations above it are chunked into several statements.
	ParameterLimit int

	// GenerateIDs makes creates fill a missing "id" argument with a
	// generated UUID.
	GenerateIDs bool
}

// DefaultBuilderOptions returns the options used when none are configured.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		ParameterLimit: 65535,
		GenerateIDs:    true,
	}
}

// BuilderFactory creates statement builders for one backend.
//
// The factory is registered once via init() in the backend package; the
// engine resolves it through this registry. Keeping registration here
// avoids an import cycle (engine <-> backend).
type BuilderFactory interface {
	New(opts BuilderOptions) StatementBuilder

	// NewRunner wraps a live connector into the backend's statement runner.
	NewRunner(connector *Connector) Runner
}

var builderFactory BuilderFactory

// RegisterBuilderFactory installs the backend's factory. The first
// registration wins; nil factories are ignored.
func RegisterBuilderFactory(factory BuilderFactory) {
	if factory == nil {
		return
	}
	if builderFactory == nil {
		builderFactory = factory
	}
}

func getBuilderFactory() BuilderFactory {
	return builderFactory
}
