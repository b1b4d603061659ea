package engine

import "fmt"

// LowerWriteQuery translates one logical write operation into an expression
// tree the executor can run. It is a single-pass, stateless transformation:
// the only external calls are into the statement builder, and the first
// builder failure aborts the whole call with no partial result.
//
// Shape rules, per variant:
//   - operations that touch at most one record by construction come back as
//     Unique(Query(stmt));
//   - bulk operations that the builder split into several statements come
//     back as Concat(Query...) when the caller asked for row data, or
//     Sum(Execute...) when it asked only for a count, preserving the
//     builder's statement order verbatim;
//   - relation connect/disconnect come back as a single Execute.
func LowerWriteQuery(q WriteQuery, builder StatementBuilder) (Expression, error) {
	switch q := q.(type) {
	case CreateRecord:
		// A single create yields at most one row.
		stmt, err := builder.BuildCreateRecord(q.Model, q.Args, q.Projection)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		return Unique{Child: Query{Statement: stmt}}, nil

	case CreateManyRecords:
		stmts, err := builder.BuildInserts(q.Model, q.Rows, q.SkipDuplicates, q.Projection)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		return combineBatch(stmts, q.Projection != nil), nil

	case UpdateManyRecords:
		stmts, err := builder.BuildUpdates(q.Model, q.Filter, q.Args, q.Projection, q.Limit)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		return combineBatch(stmts, q.Projection != nil), nil

	case UpdateRecordWithSelection:
		var stmt Statement
		var err error
		if len(q.Args) == 0 {
			// Nothing to write: a plain read of the single filtered row is
			// equivalent and cheaper than an empty update.
			stmt, err = builder.BuildGetRecords(q.Model, q.Filter, 1, q.Projection)
		} else {
			stmt, err = builder.BuildUpdate(q.Model, q.Filter, q.Args, q.Projection)
		}
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		// An update-by-id touches at most one row.
		return Unique{Child: Query{Statement: stmt}}, nil

	case Upsert:
		stmt, err := builder.BuildUpsert(q.Model, q.Filter, q.CreateArgs, q.UpdateArgs, q.Projection, q.UniqueConstraints)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		return Unique{Child: Query{Statement: stmt}}, nil

	case QueryRaw:
		stmt, err := builder.BuildRaw(q.Model, q.Inputs, q.QueryType)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: modelName(q.Model), Err: err}
		}
		return Query{Statement: stmt}, nil

	case ExecuteRaw:
		// Same builder surface as QueryRaw; only the result wrapping differs.
		stmt, err := builder.BuildRaw(q.Model, q.Inputs, q.QueryType)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: modelName(q.Model), Err: err}
		}
		return Execute{Statement: stmt}, nil

	case DeleteRecord:
		stmt, err := builder.BuildDelete(q.Model, q.Filter, q.Projection)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		if q.Projection != nil {
			return Unique{Child: Query{Statement: stmt}}, nil
		}
		// No need to read removed row data.
		return Execute{Statement: stmt}, nil

	case DeleteManyRecords:
		stmts, err := builder.BuildDeletes(q.Model, q.Filter, q.Limit)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.Model.Name, Err: err}
		}
		return combineBatch(stmts, false), nil

	case ConnectRecords:
		parent, err := singleHandleValue(q.Kind(), "parent", q.Parent)
		if err != nil {
			return nil, err
		}
		child, err := singleHandleValue(q.Kind(), "child", q.Child)
		if err != nil {
			return nil, err
		}
		stmt, err := builder.BuildM2MConnect(q.RelationField, parent, child)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.RelationField.Name, Err: err}
		}
		return Execute{Statement: stmt}, nil

	case DisconnectRecords:
		if q.Parent == nil {
			return nil, &InvariantViolationError{
				Operation: q.Kind(),
				Message:   "disconnect requires a parent handle",
			}
		}
		stmt, err := builder.BuildM2MDisconnect(q.RelationField, *q.Parent, q.Children)
		if err != nil {
			return nil, &QueryBuildError{Operation: q.Kind(), Model: q.RelationField.Name, Err: err}
		}
		return Execute{Statement: stmt}, nil

	default:
		return nil, &UnsupportedOperationError{Operation: q.Kind()}
	}
}

// combineBatch aggregates the statements of one logical bulk operation into
// a single node, so batching stays transparent to the caller: one row
// sequence when a projection was requested, otherwise one total count.
// Statement order is preserved verbatim.
func combineBatch(stmts []Statement, wantRows bool) Expression {
	if wantRows {
		queries := make([]Query, len(stmts))
		for i, stmt := range stmts {
			queries[i] = Query{Statement: stmt}
		}
		return Concat{Queries: queries}
	}
	executes := make([]Execute, len(stmts))
	for i, stmt := range stmts {
		executes[i] = Execute{Statement: stmt}
	}
	return Sum{Executes: executes}
}

// singleHandleValue flattens a prior-step handle and returns its only
// resolved value. Zero or multiple values mean the upstream planner failed
// to narrow the handle, which is a programming error, not a user error.
func singleHandleValue(operation, role string, h Handle) (interface{}, error) {
	values := h.Flatten()
	if len(values) != 1 {
		keys := make([]string, 0, len(h.Entries))
		for _, e := range h.Entries {
			keys = append(keys, e.StepKey)
		}
		return nil, &InvariantViolationError{
			Operation: operation,
			Message: fmt.Sprintf("expected exactly one resolved %s value, got %d (steps %v)",
				role, len(values), keys),
		}
	}
	return values[0], nil
}

func modelName(m *Model) string {
	if m == nil {
		return ""
	}
	return m.Name
}
