package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/chameleon-db/komodo/pkg/engine"
)

// Builder implements engine.StatementBuilder for PostgreSQL.
//
// Generated SQL is deterministic: columns are emitted in sorted order and
// values are always bound as $n parameters, never interpolated. Bulk
// operations are chunked so no statement exceeds the configured parameter
// limit; the resulting statement order is stable.
type Builder struct {
	opts engine.BuilderOptions
}

// NewBuilder creates a PostgreSQL statement builder.
func NewBuilder(opts engine.BuilderOptions) *Builder {
	if opts.ParameterLimit <= 0 {
		opts.ParameterLimit = engine.DefaultBuilderOptions().ParameterLimit
	}
	return &Builder{opts: opts}
}

// ============================================================
// CREATE
// ============================================================

// BuildCreateRecord implements engine.StatementBuilder
func (b *Builder) BuildCreateRecord(model engine.Model, args map[string]interface{}, projection engine.Projection) (engine.Statement, error) {
	table := modelTable(model.Name)

	values := make(map[string]interface{}, len(args)+1)
	for k, v := range args {
		values[k] = v
	}
	if b.opts.GenerateIDs {
		if _, ok := values["id"]; !ok {
			values["id"] = uuid.NewString()
		}
	}

	cols := sortedColumns(values)
	if len(cols) == 0 {
		return engine.Statement{
			SQL: fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", table, projectionSQL(projection)),
		}, nil
	}

	params := &paramList{}
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = params.next(values[col])
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		projectionSQL(projection),
	)

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// BuildInserts implements engine.StatementBuilder
func (b *Builder) BuildInserts(model engine.Model, rows []map[string]interface{}, skipDuplicates bool, projection *engine.Projection) ([]engine.Statement, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	table := modelTable(model.Name)
	cols := columnUnion(rows)
	if len(cols) == 0 {
		return nil, fmt.Errorf("bulk insert into %s has no columns", table)
	}

	rowsPerChunk := b.opts.ParameterLimit / len(cols)
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}

	var stmts []engine.Statement
	for start := 0; start < len(rows); start += rowsPerChunk {
		end := start + rowsPerChunk
		if end > len(rows) {
			end = len(rows)
		}

		params := &paramList{}
		tuples := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			placeholders := make([]string, len(cols))
			for i, col := range cols {
				placeholders[i] = params.next(row[col])
			}
			tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
		}

		sql := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES %s",
			table,
			strings.Join(cols, ", "),
			strings.Join(tuples, ", "),
		)
		if skipDuplicates {
			sql += " ON CONFLICT DO NOTHING"
		}
		if projection != nil {
			// With ON CONFLICT DO NOTHING only rows that were actually
			// inserted come back, which is exactly what the caller wants.
			sql += " RETURNING " + projectionSQL(*projection)
		}

		stmts = append(stmts, engine.Statement{SQL: sql, Args: params.values})
	}

	return stmts, nil
}

// ============================================================
// UPDATE
// ============================================================

// BuildUpdates implements engine.StatementBuilder
func (b *Builder) BuildUpdates(model engine.Model, filter engine.RecordFilter, args map[string]interface{}, projection *engine.Projection, limit *int64) ([]engine.Statement, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("bulk update of %s has no arguments", model.Name)
	}

	// A row limit binds the statement to one LIMIT subselect, so the
	// selector set cannot be split without changing which rows are capped.
	if limit != nil || len(filter.Selectors) == 0 {
		stmt, err := b.updateStatement(model, filter, args, projection, limit)
		if err != nil {
			return nil, err
		}
		return []engine.Statement{stmt}, nil
	}

	budget := b.selectorBudget(len(args) + len(filter.Conditions))
	var stmts []engine.Statement
	for _, selectors := range chunkValues(filter.Selectors, budget) {
		part := filter
		part.Selectors = selectors
		stmt, err := b.updateStatement(model, part, args, projection, nil)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// BuildUpdate implements engine.StatementBuilder
func (b *Builder) BuildUpdate(model engine.Model, filter engine.RecordFilter, args map[string]interface{}, projection engine.Projection) (engine.Statement, error) {
	if len(args) == 0 {
		return engine.Statement{}, fmt.Errorf("update of %s has no arguments", model.Name)
	}
	return b.updateStatement(model, filter, args, &projection, nil)
}

func (b *Builder) updateStatement(model engine.Model, filter engine.RecordFilter, args map[string]interface{}, projection *engine.Projection, limit *int64) (engine.Statement, error) {
	table := modelTable(model.Name)
	params := &paramList{}

	setCols := sortedColumns(args)
	sets := make([]string, len(setCols))
	for i, col := range setCols {
		sets[i] = fmt.Sprintf("%s = %s", col, params.next(args[col]))
	}

	where, err := whereClause(filter, params)
	if err != nil {
		return engine.Statement{}, err
	}

	var sql string
	if limit != nil {
		inner := fmt.Sprintf("SELECT ctid FROM %s%s LIMIT %d", table, where, *limit)
		sql = fmt.Sprintf("UPDATE %s SET %s WHERE ctid IN (%s)", table, strings.Join(sets, ", "), inner)
	} else {
		sql = fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), where)
	}
	if projection != nil {
		sql += " RETURNING " + projectionSQL(*projection)
	}

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// ============================================================
// READ / UPSERT
// ============================================================

// BuildGetRecords implements engine.StatementBuilder
func (b *Builder) BuildGetRecords(model engine.Model, filter engine.RecordFilter, take int64, projection engine.Projection) (engine.Statement, error) {
	table := modelTable(model.Name)
	params := &paramList{}

	where, err := whereClause(filter, params)
	if err != nil {
		return engine.Statement{}, err
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s LIMIT %d",
		projectionSQL(projection), table, where, take,
	)

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// BuildUpsert implements engine.StatementBuilder
func (b *Builder) BuildUpsert(model engine.Model, filter engine.RecordFilter, createArgs, updateArgs map[string]interface{}, projection engine.Projection, uniqueConstraints []string) (engine.Statement, error) {
	table := modelTable(model.Name)

	if len(createArgs) == 0 {
		return engine.Statement{}, fmt.Errorf("upsert of %s has no create arguments", model.Name)
	}
	if len(uniqueConstraints) == 0 {
		return engine.Statement{}, fmt.Errorf("upsert of %s has no unique constraints for conflict detection", model.Name)
	}

	params := &paramList{}
	cols := sortedColumns(createArgs)
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = params.next(createArgs[col])
	}

	var sets []string
	if len(updateArgs) == 0 {
		// No-op assignment so the conflicting row still comes back
		// through RETURNING.
		col := uniqueConstraints[0]
		sets = []string{fmt.Sprintf("%s = %s.%s", col, table, col)}
	} else {
		for _, col := range sortedColumns(updateArgs) {
			sets = append(sets, fmt.Sprintf("%s = %s", col, params.next(updateArgs[col])))
		}
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(uniqueConstraints, ", "),
		strings.Join(sets, ", "),
	)

	if !filter.IsEmpty() {
		where, err := whereClause(filter, params)
		if err != nil {
			return engine.Statement{}, err
		}
		sql += where
	}

	sql += " RETURNING " + projectionSQL(projection)

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// ============================================================
// RAW
// ============================================================

// BuildRaw implements engine.StatementBuilder
func (b *Builder) BuildRaw(model *engine.Model, inputs map[string]interface{}, kind engine.RawKind) (engine.Statement, error) {
	switch kind {
	case engine.RawSQL, engine.RawTyped:
	default:
		return engine.Statement{}, fmt.Errorf("unsupported raw kind %q", kind)
	}

	query, _ := inputs["query"].(string)
	if query == "" {
		return engine.Statement{}, fmt.Errorf("raw inputs require a non-empty 'query' string")
	}

	args, _ := inputs["parameters"].([]interface{})
	return engine.Statement{SQL: query, Args: args}, nil
}

// ============================================================
// DELETE
// ============================================================

// BuildDelete implements engine.StatementBuilder
func (b *Builder) BuildDelete(model engine.Model, filter engine.RecordFilter, projection *engine.Projection) (engine.Statement, error) {
	table := modelTable(model.Name)
	params := &paramList{}

	where, err := whereClause(filter, params)
	if err != nil {
		return engine.Statement{}, err
	}

	sql := fmt.Sprintf("DELETE FROM %s%s", table, where)
	if projection != nil {
		sql += " RETURNING " + projectionSQL(*projection)
	}

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// BuildDeletes implements engine.StatementBuilder
func (b *Builder) BuildDeletes(model engine.Model, filter engine.RecordFilter, limit *int64) ([]engine.Statement, error) {
	if limit != nil || len(filter.Selectors) == 0 {
		stmt, err := b.deleteStatement(model, filter, limit)
		if err != nil {
			return nil, err
		}
		return []engine.Statement{stmt}, nil
	}

	budget := b.selectorBudget(len(filter.Conditions))
	var stmts []engine.Statement
	for _, selectors := range chunkValues(filter.Selectors, budget) {
		part := filter
		part.Selectors = selectors
		stmt, err := b.deleteStatement(model, part, nil)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (b *Builder) deleteStatement(model engine.Model, filter engine.RecordFilter, limit *int64) (engine.Statement, error) {
	table := modelTable(model.Name)
	params := &paramList{}

	where, err := whereClause(filter, params)
	if err != nil {
		return engine.Statement{}, err
	}

	var sql string
	if limit != nil {
		inner := fmt.Sprintf("SELECT ctid FROM %s%s LIMIT %d", table, where, *limit)
		sql = fmt.Sprintf("DELETE FROM %s WHERE ctid IN (%s)", table, inner)
	} else {
		sql = fmt.Sprintf("DELETE FROM %s%s", table, where)
	}

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// ============================================================
// MANY-TO-MANY LINKS
// ============================================================

// BuildM2MConnect implements engine.StatementBuilder
func (b *Builder) BuildM2MConnect(field engine.RelationField, parent, child interface{}) (engine.Statement, error) {
	if field.JoinTable == "" || field.ParentColumn == "" || field.ChildColumn == "" {
		return engine.Statement{}, fmt.Errorf("relation %q is missing join table metadata", field.Name)
	}

	params := &paramList{}
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (%s, %s) ON CONFLICT DO NOTHING",
		field.JoinTable,
		field.ParentColumn, field.ChildColumn,
		params.next(parent), params.next(child),
	)

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// BuildM2MDisconnect implements engine.StatementBuilder
func (b *Builder) BuildM2MDisconnect(field engine.RelationField, parent engine.Handle, children []interface{}) (engine.Statement, error) {
	if field.JoinTable == "" || field.ParentColumn == "" || field.ChildColumn == "" {
		return engine.Statement{}, fmt.Errorf("relation %q is missing join table metadata", field.Name)
	}

	parents := parent.Flatten()
	if len(parents) == 0 {
		return engine.Statement{}, fmt.Errorf("relation %q disconnect has no resolved parent values", field.Name)
	}
	if len(children) == 0 {
		return engine.Statement{}, fmt.Errorf("relation %q disconnect has no child records", field.Name)
	}

	params := &paramList{}
	sql := fmt.Sprintf(
		"DELETE FROM %s WHERE %s AND %s",
		field.JoinTable,
		inClause(field.ParentColumn, parents, params),
		inClause(field.ChildColumn, children, params),
	)

	return engine.Statement{SQL: sql, Args: params.values}, nil
}

// ============================================================
// SQL ASSEMBLY HELPERS
// ============================================================

// paramList numbers bind parameters as values are appended.
type paramList struct {
	values []interface{}
}

func (p *paramList) next(v interface{}) string {
	p.values = append(p.values, v)
	return fmt.Sprintf("$%d", len(p.values))
}

var sqlOperators = map[string]string{
	"eq":  "=",
	"neq": "<>",
	"lt":  "<",
	"lte": "<=",
	"gt":  ">",
	"gte": ">=",
}

// whereClause renders a record filter, or returns "" when it constrains
// nothing. Selector values always target the id column.
func whereClause(filter engine.RecordFilter, params *paramList) (string, error) {
	var clauses []string

	for _, cond := range filter.Conditions {
		if cond.Operator == "in" {
			values, ok := cond.Value.([]interface{})
			if !ok {
				return "", fmt.Errorf("operator 'in' on %s requires a list value", cond.Field)
			}
			clauses = append(clauses, inClause(cond.Field, values, params))
			continue
		}
		op, ok := sqlOperators[cond.Operator]
		if !ok {
			return "", fmt.Errorf("unsupported filter operator %q on %s", cond.Operator, cond.Field)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s %s", cond.Field, op, params.next(cond.Value)))
	}

	if len(filter.Selectors) > 0 {
		clauses = append(clauses, inClause("id", filter.Selectors, params))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), nil
}

func inClause(column string, values []interface{}, params *paramList) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = params.next(v)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", "))
}

func projectionSQL(p engine.Projection) string {
	if len(p.Fields) == 0 {
		return "*"
	}
	return strings.Join(p.Fields, ", ")
}

func sortedColumns(args map[string]interface{}) []string {
	cols := make([]string, 0, len(args))
	for col := range args {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// columnUnion returns the sorted union of column names across rows.
// Rows missing a column bind NULL for it.
func columnUnion(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// selectorBudget returns how many selector values fit in one statement
// alongside the given number of fixed parameters.
func (b *Builder) selectorBudget(fixed int) int {
	budget := b.opts.ParameterLimit - fixed
	if budget < 1 {
		budget = 1
	}
	return budget
}

func chunkValues(values []interface{}, size int) [][]interface{} {
	var chunks [][]interface{}
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
