package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chameleon-db/komodo/pkg/engine"
)

func testBuilder() *Builder {
	return NewBuilder(engine.BuilderOptions{ParameterLimit: 100})
}

// ============================================================
// CREATE
// ============================================================

func TestBuildCreateRecord_SortedColumns(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildCreateRecord(
		engine.Model{Name: "User"},
		map[string]interface{}{"name": "Ana", "email": "ana@mail.com"},
		engine.Projection{Fields: []string{"id"}},
	)

	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (email, name) VALUES ($1, $2) RETURNING id", stmt.SQL)
	assert.Equal(t, []interface{}{"ana@mail.com", "Ana"}, stmt.Args)
}

func TestBuildCreateRecord_GeneratesMissingID(t *testing.T) {
	b := NewBuilder(engine.BuilderOptions{ParameterLimit: 100, GenerateIDs: true})

	stmt, err := b.BuildCreateRecord(
		engine.Model{Name: "User"},
		map[string]interface{}{"email": "ana@mail.com"},
		engine.Projection{},
	)

	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (email, id) VALUES ($1, $2) RETURNING *", stmt.SQL)
	require.Len(t, stmt.Args, 2)

	id, ok := stmt.Args[1].(string)
	require.True(t, ok)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "generated id should be a UUID")
}

func TestBuildInserts_ChunksOnParameterLimit(t *testing.T) {
	// Two columns per row, limit 4 → two rows per statement.
	b := NewBuilder(engine.BuilderOptions{ParameterLimit: 4})

	stmts, err := b.BuildInserts(
		engine.Model{Name: "User"},
		[]map[string]interface{}{
			{"email": "a@mail.com", "name": "A"},
			{"email": "b@mail.com", "name": "B"},
			{"email": "c@mail.com", "name": "C"},
		},
		true,
		&engine.Projection{Fields: []string{"id"}},
	)

	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Equal(t,
		"INSERT INTO users (email, name) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING RETURNING id",
		stmts[0].SQL)
	assert.Equal(t, []interface{}{"a@mail.com", "A", "b@mail.com", "B"}, stmts[0].Args)

	assert.Equal(t,
		"INSERT INTO users (email, name) VALUES ($1, $2) ON CONFLICT DO NOTHING RETURNING id",
		stmts[1].SQL)
	assert.Equal(t, []interface{}{"c@mail.com", "C"}, stmts[1].Args)
}

func TestBuildInserts_NoProjectionNoReturning(t *testing.T) {
	b := testBuilder()

	stmts, err := b.BuildInserts(
		engine.Model{Name: "User"},
		[]map[string]interface{}{{"email": "a@mail.com"}},
		false,
		nil,
	)

	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "INSERT INTO users (email) VALUES ($1)", stmts[0].SQL)
}

// ============================================================
// UPDATE
// ============================================================

func TestBuildUpdates_SingleStatement(t *testing.T) {
	b := testBuilder()

	stmts, err := b.BuildUpdates(
		engine.Model{Name: "User"},
		engine.RecordFilter{Conditions: []engine.Condition{{Field: "age", Operator: "gte", Value: 18}}},
		map[string]interface{}{"name": "Ana"},
		nil,
		nil,
	)

	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "UPDATE users SET name = $1 WHERE age >= $2", stmts[0].SQL)
	assert.Equal(t, []interface{}{"Ana", 18}, stmts[0].Args)
}

func TestBuildUpdates_WithLimitUsesSubselect(t *testing.T) {
	b := testBuilder()
	limit := int64(5)

	stmts, err := b.BuildUpdates(
		engine.Model{Name: "User"},
		engine.RecordFilter{Conditions: []engine.Condition{{Field: "age", Operator: "gte", Value: 18}}},
		map[string]interface{}{"name": "Ana"},
		nil,
		&limit,
	)

	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t,
		"UPDATE users SET name = $1 WHERE ctid IN (SELECT ctid FROM users WHERE age >= $2 LIMIT 5)",
		stmts[0].SQL)
}

func TestBuildUpdates_ChunksSelectors(t *testing.T) {
	// One SET parameter, limit 3 → two selectors per statement.
	b := NewBuilder(engine.BuilderOptions{ParameterLimit: 3})

	stmts, err := b.BuildUpdates(
		engine.Model{Name: "User"},
		engine.RecordFilter{Selectors: []interface{}{"id-1", "id-2", "id-3"}},
		map[string]interface{}{"name": "Ana"},
		nil,
		nil,
	)

	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "UPDATE users SET name = $1 WHERE id IN ($2, $3)", stmts[0].SQL)
	assert.Equal(t, []interface{}{"Ana", "id-1", "id-2"}, stmts[0].Args)
	assert.Equal(t, "UPDATE users SET name = $1 WHERE id IN ($2)", stmts[1].SQL)
	assert.Equal(t, []interface{}{"Ana", "id-3"}, stmts[1].Args)
}

func TestBuildUpdate_WithProjection(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildUpdate(
		engine.Model{Name: "User"},
		engine.RecordFilter{Selectors: []interface{}{"id-1"}},
		map[string]interface{}{"name": "Ana"},
		engine.Projection{Fields: []string{"id", "name"}},
	)

	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = $1 WHERE id IN ($2) RETURNING id, name", stmt.SQL)
}

func TestBuildUpdate_EmptyArgsRejected(t *testing.T) {
	b := testBuilder()

	_, err := b.BuildUpdate(
		engine.Model{Name: "User"},
		engine.RecordFilter{},
		nil,
		engine.Projection{},
	)

	require.Error(t, err)
}

// ============================================================
// READ / UPSERT
// ============================================================

func TestBuildGetRecords_FilterAndTake(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildGetRecords(
		engine.Model{Name: "User"},
		engine.RecordFilter{Selectors: []interface{}{"id-1"}},
		1,
		engine.Projection{Fields: []string{"id", "name"}},
	)

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM users WHERE id IN ($1) LIMIT 1", stmt.SQL)
	assert.Equal(t, []interface{}{"id-1"}, stmt.Args)
}

func TestBuildUpsert_ConflictOnUniqueConstraints(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildUpsert(
		engine.Model{Name: "User"},
		engine.RecordFilter{},
		map[string]interface{}{"email": "ana@mail.com", "name": "Ana"},
		map[string]interface{}{"name": "Ana Updated"},
		engine.Projection{Fields: []string{"id"}},
		[]string{"email"},
	)

	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (email, name) VALUES ($1, $2) ON CONFLICT (email) DO UPDATE SET name = $3 RETURNING id",
		stmt.SQL)
	assert.Equal(t, []interface{}{"ana@mail.com", "Ana", "Ana Updated"}, stmt.Args)
}

func TestBuildUpsert_EmptyUpdateStillReturnsRow(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildUpsert(
		engine.Model{Name: "User"},
		engine.RecordFilter{},
		map[string]interface{}{"email": "ana@mail.com"},
		nil,
		engine.Projection{},
		[]string{"email"},
	)

	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (email) VALUES ($1) ON CONFLICT (email) DO UPDATE SET email = users.email RETURNING *",
		stmt.SQL)
}

func TestBuildUpsert_RequiresUniqueConstraints(t *testing.T) {
	b := testBuilder()

	_, err := b.BuildUpsert(
		engine.Model{Name: "User"},
		engine.RecordFilter{},
		map[string]interface{}{"email": "ana@mail.com"},
		nil,
		engine.Projection{},
		nil,
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique constraints")
}

// ============================================================
// RAW
// ============================================================

func TestBuildRaw_PassesQueryAndParameters(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildRaw(nil, map[string]interface{}{
		"query":      "SELECT * FROM users WHERE age > $1",
		"parameters": []interface{}{18},
	}, engine.RawSQL)

	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE age > $1", stmt.SQL)
	assert.Equal(t, []interface{}{18}, stmt.Args)
}

func TestBuildRaw_RejectsMissingQuery(t *testing.T) {
	b := testBuilder()

	_, err := b.BuildRaw(nil, map[string]interface{}{}, engine.RawSQL)
	require.Error(t, err)
}

func TestBuildRaw_RejectsUnknownKind(t *testing.T) {
	b := testBuilder()

	_, err := b.BuildRaw(nil, map[string]interface{}{"query": "SELECT 1"}, engine.RawKind("graphql"))
	require.Error(t, err)
}

// ============================================================
// DELETE
// ============================================================

func TestBuildDelete_ProjectionControlsReturning(t *testing.T) {
	b := testBuilder()
	filter := engine.RecordFilter{Selectors: []interface{}{"id-1"}}

	stmt, err := b.BuildDelete(engine.Model{Name: "User"}, filter, &engine.Projection{Fields: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE id IN ($1) RETURNING id", stmt.SQL)

	stmt, err = b.BuildDelete(engine.Model{Name: "User"}, filter, nil)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE id IN ($1)", stmt.SQL)
}

func TestBuildDeletes_WithLimitUsesSubselect(t *testing.T) {
	b := testBuilder()
	limit := int64(10)

	stmts, err := b.BuildDeletes(
		engine.Model{Name: "User"},
		engine.RecordFilter{Conditions: []engine.Condition{{Field: "status", Operator: "eq", Value: "inactive"}}},
		&limit,
	)

	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t,
		"DELETE FROM users WHERE ctid IN (SELECT ctid FROM users WHERE status = $1 LIMIT 10)",
		stmts[0].SQL)
}

func TestBuildDeletes_ChunksSelectors(t *testing.T) {
	b := NewBuilder(engine.BuilderOptions{ParameterLimit: 2})

	stmts, err := b.BuildDeletes(
		engine.Model{Name: "User"},
		engine.RecordFilter{Selectors: []interface{}{"a", "b", "c"}},
		nil,
	)

	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "DELETE FROM users WHERE id IN ($1, $2)", stmts[0].SQL)
	assert.Equal(t, "DELETE FROM users WHERE id IN ($1)", stmts[1].SQL)
}

// ============================================================
// MANY-TO-MANY LINKS
// ============================================================

func testRelation() engine.RelationField {
	return engine.RelationField{
		Name:         "tags",
		JoinTable:    "user_tags",
		ParentColumn: "user_id",
		ChildColumn:  "tag_id",
	}
}

func TestBuildM2MConnect(t *testing.T) {
	b := testBuilder()

	stmt, err := b.BuildM2MConnect(testRelation(), "user-1", "tag-1")

	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO user_tags (user_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		stmt.SQL)
	assert.Equal(t, []interface{}{"user-1", "tag-1"}, stmt.Args)
}

func TestBuildM2MDisconnect_AllChildrenInOneStatement(t *testing.T) {
	b := testBuilder()
	parent := engine.Handle{Entries: []engine.HandleEntry{
		{StepKey: "0", Values: []interface{}{"user-1"}},
	}}

	stmt, err := b.BuildM2MDisconnect(testRelation(), parent, []interface{}{"tag-1", "tag-2"})

	require.NoError(t, err)
	assert.Equal(t,
		"DELETE FROM user_tags WHERE user_id IN ($1) AND tag_id IN ($2, $3)",
		stmt.SQL)
	assert.Equal(t, []interface{}{"user-1", "tag-1", "tag-2"}, stmt.Args)
}

func TestBuildM2MDisconnect_RequiresChildren(t *testing.T) {
	b := testBuilder()
	parent := engine.Handle{Entries: []engine.HandleEntry{
		{StepKey: "0", Values: []interface{}{"user-1"}},
	}}

	_, err := b.BuildM2MDisconnect(testRelation(), parent, nil)
	require.Error(t, err)
}

// ============================================================
// HELPERS
// ============================================================

func TestModelTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "User", want: "users"},
		{in: "OrderItem", want: "order_items"},
		{in: "Person", want: "people"},
		{in: "Status", want: "statuses"},
		{in: "Series", want: "series"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := modelTable(tt.in)
			if got != tt.want {
				t.Fatalf("modelTable(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWhereClause_RejectsUnknownOperator(t *testing.T) {
	params := &paramList{}
	_, err := whereClause(engine.RecordFilter{
		Conditions: []engine.Condition{{Field: "name", Operator: "like", Value: "%a%"}},
	}, params)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "like")
}

func TestWhereClause_InOperator(t *testing.T) {
	params := &paramList{}
	where, err := whereClause(engine.RecordFilter{
		Conditions: []engine.Condition{{Field: "status", Operator: "in", Value: []interface{}{"a", "b"}}},
	}, params)

	require.NoError(t, err)
	assert.Equal(t, " WHERE status IN ($1, $2)", where)
	assert.Equal(t, []interface{}{"a", "b"}, params.values)
}
