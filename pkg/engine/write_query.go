package engine

// WriteQuery is the logical, backend-agnostic description of one
// data-mutation operation. Exactly one variant per value; lowering
// dispatches exhaustively over the closed variant set.
type WriteQuery interface {
	// Kind names the operation variant for diagnostics.
	Kind() string

	isWriteQuery()
}

// CreateRecord inserts a single record and returns the projection.
type CreateRecord struct {
	Model      Model
	Args       map[string]interface{}
	Projection Projection
}

// CreateManyRecords bulk-inserts rows. With SkipDuplicates, rows that
// conflict on a unique constraint are silently skipped. A nil Projection
// means the caller wants only a total affected-row count.
type CreateManyRecords struct {
	Model          Model
	Rows           []map[string]interface{}
	SkipDuplicates bool
	Projection     *Projection
}

// UpdateManyRecords updates every filtered row, optionally capped by Limit.
type UpdateManyRecords struct {
	Model      Model
	Filter     RecordFilter
	Args       map[string]interface{}
	Projection *Projection
	Limit      *int64
}

// UpdateRecordWithSelection updates at most one record identified by the
// filter and returns the projection of it.
type UpdateRecordWithSelection struct {
	Model      Model
	Filter     RecordFilter
	Args       map[string]interface{}
	Projection Projection
}

// Upsert inserts the record or, on a unique-constraint conflict, updates the
// existing one. Either way the projection of the resulting row comes back.
type Upsert struct {
	Model             Model
	Filter            RecordFilter
	CreateArgs        map[string]interface{}
	UpdateArgs        map[string]interface{}
	Projection        Projection
	UniqueConstraints []string
}

// QueryRaw runs a caller-supplied statement and returns its rows.
type QueryRaw struct {
	Model     *Model
	Inputs    map[string]interface{}
	QueryType RawKind
}

// ExecuteRaw runs a caller-supplied statement and returns only an
// affected-row count. Same builder surface as QueryRaw; the distinction is
// purely in how the caller consumes the result.
type ExecuteRaw struct {
	Model     *Model
	Inputs    map[string]interface{}
	QueryType RawKind
}

// DeleteRecord deletes at most one record. A nil Projection means the caller
// does not need the removed row data back.
type DeleteRecord struct {
	Model      Model
	Filter     RecordFilter
	Projection *Projection
}

// DeleteManyRecords deletes every filtered row, optionally capped by Limit.
// Delete-many never returns row data, only a count.
type DeleteManyRecords struct {
	Model  Model
	Filter RecordFilter
	Limit  *int64
}

// ConnectRecords links one already-resolved parent record to one
// already-resolved child record in a many-to-many relation. Upstream
// planning must have narrowed both handles to a single value.
type ConnectRecords struct {
	RelationField RelationField
	Parent        Handle
	Child         Handle
}

// DisconnectRecords unlinks the listed children from the parent in a
// many-to-many relation. The parent handle must be present.
type DisconnectRecords struct {
	RelationField RelationField
	Parent        *Handle
	Children      []interface{}
}

// UnsupportedWriteQuery is a placeholder for operation kinds the planner can
// name but the lowering stage has no rule for. Lowering reports it as a
// typed unsupported-operation failure instead of crashing.
type UnsupportedWriteQuery struct {
	Name string
}

func (CreateRecord) isWriteQuery()              {}
func (CreateManyRecords) isWriteQuery()         {}
func (UpdateManyRecords) isWriteQuery()         {}
func (UpdateRecordWithSelection) isWriteQuery() {}
func (Upsert) isWriteQuery()                    {}
func (QueryRaw) isWriteQuery()                  {}
func (ExecuteRaw) isWriteQuery()                {}
func (DeleteRecord) isWriteQuery()              {}
func (DeleteManyRecords) isWriteQuery()         {}
func (ConnectRecords) isWriteQuery()            {}
func (DisconnectRecords) isWriteQuery()         {}
func (UnsupportedWriteQuery) isWriteQuery()     {}

func (CreateRecord) Kind() string              { return "createRecord" }
func (CreateManyRecords) Kind() string         { return "createManyRecords" }
func (UpdateManyRecords) Kind() string         { return "updateManyRecords" }
func (UpdateRecordWithSelection) Kind() string { return "updateRecord" }
func (Upsert) Kind() string                    { return "upsert" }
func (QueryRaw) Kind() string                  { return "queryRaw" }
func (ExecuteRaw) Kind() string                { return "executeRaw" }
func (DeleteRecord) Kind() string              { return "deleteRecord" }
func (DeleteManyRecords) Kind() string         { return "deleteManyRecords" }
func (ConnectRecords) Kind() string            { return "connectRecords" }
func (DisconnectRecords) Kind() string         { return "disconnectRecords" }
func (u UnsupportedWriteQuery) Kind() string   { return u.Name }
