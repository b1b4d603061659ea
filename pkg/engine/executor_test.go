package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner serves canned rows/counts keyed by statement SQL.
type fakeRunner struct {
	rows   map[string][]Row
	counts map[string]int64
	log    []string
}

func (f *fakeRunner) Query(ctx context.Context, stmt Statement) ([]Row, error) {
	f.log = append(f.log, stmt.SQL)
	rows, ok := f.rows[stmt.SQL]
	if !ok {
		return nil, fmt.Errorf("no canned rows for %q", stmt.SQL)
	}
	return rows, nil
}

func (f *fakeRunner) Exec(ctx context.Context, stmt Statement) (int64, error) {
	f.log = append(f.log, stmt.SQL)
	count, ok := f.counts[stmt.SQL]
	if !ok {
		return 0, fmt.Errorf("no canned count for %q", stmt.SQL)
	}
	return count, nil
}

func TestExecutor_Query_ReturnsRows(t *testing.T) {
	runner := &fakeRunner{rows: map[string][]Row{
		"SELECT": {{"id": "1"}, {"id": "2"}},
	}}
	ex := NewExecutor(runner)

	res, err := ex.Execute(context.Background(), Query{Statement: Statement{SQL: "SELECT"}})

	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "1", res.Rows[0].String("id"))
}

func TestExecutor_Execute_ReturnsCount(t *testing.T) {
	runner := &fakeRunner{counts: map[string]int64{"DELETE": 4}}
	ex := NewExecutor(runner)

	res, err := ex.Execute(context.Background(), Execute{Statement: Statement{SQL: "DELETE"}})

	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Affected)
	assert.Empty(t, res.Rows)
}

func TestExecutor_Unique_PassesThroughSingleRow(t *testing.T) {
	runner := &fakeRunner{rows: map[string][]Row{"SELECT": {{"id": "1"}}}}
	ex := NewExecutor(runner)

	res, err := ex.Execute(context.Background(), Unique{Child: Query{Statement: Statement{SQL: "SELECT"}}})

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.True(t, res.Unique())
}

func TestExecutor_Unique_EmptyIsFine(t *testing.T) {
	runner := &fakeRunner{rows: map[string][]Row{"SELECT": nil}}
	ex := NewExecutor(runner)

	res, err := ex.Execute(context.Background(), Unique{Child: Query{Statement: Statement{SQL: "SELECT"}}})

	require.NoError(t, err)
	assert.Nil(t, res.First())
}

func TestExecutor_Unique_RejectsMultipleRows(t *testing.T) {
	runner := &fakeRunner{rows: map[string][]Row{
		"SELECT": {{"id": "1"}, {"id": "2"}},
	}}
	ex := NewExecutor(runner)

	_, err := ex.Execute(context.Background(), Unique{Child: Query{Statement: Statement{SQL: "SELECT"}}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestExecutor_Concat_PreservesChildOrder(t *testing.T) {
	runner := &fakeRunner{rows: map[string][]Row{
		"A": {{"id": "1"}, {"id": "2"}},
		"B": {{"id": "3"}},
	}}
	ex := NewExecutor(runner)

	res, err := ex.Execute(context.Background(), Concat{Queries: []Query{
		{Statement: Statement{SQL: "A"}},
		{Statement: Statement{SQL: "B"}},
	}})

	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "1", res.Rows[0].String("id"))
	assert.Equal(t, "3", res.Rows[2].String("id"))
	assert.Equal(t, []string{"A", "B"}, runner.log)
}

func TestExecutor_Sum_AddsCounts(t *testing.T) {
	runner := &fakeRunner{counts: map[string]int64{"A": 2, "B": 5}}
	ex := NewExecutor(runner)

	res, err := ex.Execute(context.Background(), Sum{Executes: []Execute{
		{Statement: Statement{SQL: "A"}},
		{Statement: Statement{SQL: "B"}},
	}})

	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Affected)
}

func TestExecutor_PropagatesRunnerError(t *testing.T) {
	runner := &fakeRunner{}
	ex := NewExecutor(runner)

	_, err := ex.Execute(context.Background(), Sum{Executes: []Execute{
		{Statement: Statement{SQL: "MISSING"}},
	}})

	require.Error(t, err)
}
