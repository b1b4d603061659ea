package engine

// ============================================================
// LOGICAL ARGUMENT TYPES
// ============================================================

// Model identifies the entity a write operation targets.
// Table naming is the statement builder's concern, not the model's.
type Model struct {
	Name string
}

// Projection is the set of fields the caller wants returned from a write.
// An empty field list means "all fields".
type Projection struct {
	Fields []string
}

// Condition is a single predicate over a model field.
// Supported operators are builder-specific; the core passes them through.
type Condition struct {
	Field    string
	Operator string
	Value    interface{}
}

// RecordFilter selects the rows an update/delete/read targets. Selectors
// carries primary-key values of records already resolved by an earlier plan
// step. The core never inspects a filter; it is pass-through to the builder.
type RecordFilter struct {
	Conditions []Condition
	Selectors  []interface{}
}

// IsEmpty returns true if the filter constrains nothing.
func (f RecordFilter) IsEmpty() bool {
	return len(f.Conditions) == 0 && len(f.Selectors) == 0
}

// RelationField describes a many-to-many relation through a join table.
type RelationField struct {
	Name         string
	JoinTable    string
	ParentColumn string
	ChildColumn  string
}

// HandleEntry maps one plan-step key to the values that step resolved.
type HandleEntry struct {
	StepKey string
	Values  []interface{}
}

// Handle references the result of an earlier step of the execution plan,
// already resolved by upstream planning before this core consumes it.
type Handle struct {
	Entries []HandleEntry
}

// Flatten returns all resolved values across entries, preserving entry order.
func (h Handle) Flatten() []interface{} {
	var out []interface{}
	for _, e := range h.Entries {
		out = append(out, e.Values...)
	}
	return out
}

// RawKind distinguishes the flavors of raw statements a builder accepts.
type RawKind string

const (
	RawSQL   RawKind = "sql"
	RawTyped RawKind = "typed"
)

// ============================================================
// BACKEND STATEMENT
// ============================================================

// Statement is an opaque, ready-to-run backend statement. The lowering core
// never inspects one; it only places them at the leaves of expression trees.
type Statement struct {
	SQL  string        `json:"sql"`
	Args []interface{} `json:"args,omitempty"`
}

// ============================================================
// STATEMENT BUILDER CAPABILITY
// ============================================================

// StatementBuilder turns logical write arguments into concrete backend
// statements. One method per write kind; implemented once per backend.
//
// Builders must be stateless construction steps: no I/O at build time, and
// safe for concurrent use from independent lowering calls. Methods that
// return an ordered statement list (batched inserts/updates/deletes) may
// chunk for backend parameter limits; the returned order is observable and
// must be deterministic.
type StatementBuilder interface {
	// BuildCreateRecord builds a single-row insert returning the projection.
	BuildCreateRecord(model Model, args map[string]interface{}, projection Projection) (Statement, error)

	// BuildInserts builds one or more bulk inserts for the given rows.
	// A nil projection means the caller wants only affected-row counts.
	BuildInserts(model Model, rows []map[string]interface{}, skipDuplicates bool, projection *Projection) ([]Statement, error)

	// BuildUpdates builds one or more bulk updates for the filtered rows.
	BuildUpdates(model Model, filter RecordFilter, args map[string]interface{}, projection *Projection, limit *int64) ([]Statement, error)

	// BuildUpdate builds a single update returning the projection.
	BuildUpdate(model Model, filter RecordFilter, args map[string]interface{}, projection Projection) (Statement, error)

	// BuildGetRecords builds a plain read of at most take filtered rows.
	BuildGetRecords(model Model, filter RecordFilter, take int64, projection Projection) (Statement, error)

	// BuildUpsert builds an atomic insert-or-update; the builder owns the
	// conflict-detection strategy over the given unique constraints.
	BuildUpsert(model Model, filter RecordFilter, createArgs, updateArgs map[string]interface{}, projection Projection, uniqueConstraints []string) (Statement, error)

	// BuildRaw builds a raw statement from caller-supplied inputs.
	// The model is optional context and may be nil.
	BuildRaw(model *Model, inputs map[string]interface{}, kind RawKind) (Statement, error)

	// BuildDelete builds a single delete, optionally returning the projection.
	BuildDelete(model Model, filter RecordFilter, projection *Projection) (Statement, error)

	// BuildDeletes builds one or more bulk deletes for the filtered rows.
	BuildDeletes(model Model, filter RecordFilter, limit *int64) ([]Statement, error)

	// BuildM2MConnect links one parent record to one child record through
	// the relation's join table.
	BuildM2MConnect(field RelationField, parent, child interface{}) (Statement, error)

	// BuildM2MDisconnect unlinks the listed children from the parent in a
	// single statement.
	BuildM2MDisconnect(field RelationField, parent Handle, children []interface{}) (Statement, error)
}
