package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chameleon-db/komodo/pkg/engine"
)

func TestMapDatabaseError_Nil(t *testing.T) {
	assert.NoError(t, mapDatabaseError(nil))
}

func TestMapDatabaseError_NonPostgresError(t *testing.T) {
	cause := errors.New("connection reset")
	err := mapDatabaseError(cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestMapDatabaseError_UniqueViolation(t *testing.T) {
	err := mapDatabaseError(&pgconn.PgError{
		Code:      "23505",
		TableName: "users",
		Detail:    "Key (email)=(test@mail.com) already exists.",
	})

	var unique *engine.UniqueConstraintError
	require.ErrorAs(t, err, &unique)
	assert.Equal(t, "email", unique.Field)
	assert.Equal(t, "users", unique.Table)
}

func TestMapDatabaseError_ForeignKeyViolation(t *testing.T) {
	err := mapDatabaseError(&pgconn.PgError{
		Code:           "23503",
		Detail:         "Key (author_id)=(42) is not present in table \"users\".",
		ConstraintName: "fk_posts_author_id_users",
	})

	var fk *engine.ForeignKeyError
	require.ErrorAs(t, err, &fk)
	assert.Equal(t, "author_id", fk.Field)
	assert.Equal(t, "users", fk.ReferencedTable)
}

func TestMapDatabaseError_NotNullViolation(t *testing.T) {
	err := mapDatabaseError(&pgconn.PgError{
		Code:       "23502",
		ColumnName: "email",
	})

	var notNull *engine.NotNullError
	require.ErrorAs(t, err, &notNull)
	assert.Equal(t, "email", notNull.Field)
}

func TestMapDatabaseError_UndefinedTable(t *testing.T) {
	err := mapDatabaseError(&pgconn.PgError{
		Code:    "42P01",
		Message: `relation "userss" does not exist`,
	})

	var unknown *engine.UnknownTableError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "userss", unknown.Table)
}

func TestMapDatabaseError_UndefinedColumn(t *testing.T) {
	err := mapDatabaseError(&pgconn.PgError{
		Code:      "42703",
		TableName: "users",
		Message:   `column "unknown_field" of relation "users" does not exist`,
	})

	var unknown *engine.UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "unknown_field", unknown.Column)
}

func TestMapDatabaseError_UnknownCodePassesThrough(t *testing.T) {
	err := mapDatabaseError(&pgconn.PgError{Code: "57014", Message: "canceling statement"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "57014")
}

func TestExtractReferencedTable(t *testing.T) {
	assert.Equal(t, "users", extractReferencedTable("fk_posts_author_id_users"))
	assert.Equal(t, "referenced_table", extractReferencedTable("posts_author_id"))
	assert.Equal(t, "referenced_table", extractReferencedTable(""))
}

func TestExtractFieldFromDetail(t *testing.T) {
	assert.Equal(t, "email", extractFieldFromDetail("Key (email)=(test@mail.com) already exists."))
	assert.Equal(t, "", extractFieldFromDetail("no parens here"))
	assert.Equal(t, "", extractFieldFromDetail(""))
}
