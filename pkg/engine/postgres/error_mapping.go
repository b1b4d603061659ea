package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chameleon-db/komodo/pkg/engine"
)

// mapDatabaseError converts PostgreSQL errors to typed engine errors.
// Returns a wrapped error if it's not a PostgreSQL error or unknown type.
func mapDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("statement failed: %w", err)
	}

	// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
	switch pgErr.Code {
	case "23505": // unique_violation
		field := extractFieldFromDetail(pgErr.Detail)
		return &engine.UniqueConstraintError{
			Field:      field,
			Table:      pgErr.TableName,
			Suggestion: fmt.Sprintf("Use a different value for %s, or update the existing record", field),
		}

	case "23503": // foreign_key_violation
		field := extractFieldFromDetail(pgErr.Detail)
		referenced := extractReferencedTable(pgErr.ConstraintName)
		return &engine.ForeignKeyError{
			Field:           field,
			ReferencedTable: referenced,
			ReferencedField: "id",
			Suggestion:      fmt.Sprintf("Ensure the referenced %s exists first", referenced),
		}

	case "23502": // not_null_violation
		field := pgErr.ColumnName
		if field == "" {
			field = extractFieldFromMessage(pgErr.Message)
		}
		return &engine.NotNullError{
			Field:      field,
			Suggestion: fmt.Sprintf("Provide a value for %s (this field is required)", field),
		}

	case "42P01": // undefined_table
		return &engine.UnknownTableError{
			Table: extractFieldFromMessage(pgErr.Message),
		}

	case "42703": // undefined_column
		return &engine.UnknownColumnError{
			Table:  pgErr.TableName,
			Column: extractFieldFromMessage(pgErr.Message),
		}

	default:
		return fmt.Errorf("statement failed: %s (code: %s)", pgErr.Message, pgErr.Code)
	}
}

// extractFieldFromDetail extracts field name from error detail
// Input: "Key (email)=(test@mail.com) already exists."
// Output: "email"
func extractFieldFromDetail(detail string) string {
	if detail == "" {
		return ""
	}

	start := strings.Index(detail, "(")
	end := strings.Index(detail, ")")
	if start >= 0 && end > start {
		return detail[start+1 : end]
	}

	return ""
}

// extractReferencedTable tries to extract referenced table from constraint name
// Input: "fk_posts_author_id_users"
// Output: "users"
func extractReferencedTable(constraintName string) string {
	if constraintName == "" {
		return "referenced_table"
	}

	parts := strings.Split(constraintName, "_")
	if len(parts) >= 4 && parts[0] == "fk" {
		return parts[len(parts)-1]
	}

	return "referenced_table"
}

// extractFieldFromMessage extracts the first quoted name from a message
// Input: 'column "unknown_field" of relation "users" does not exist'
// Output: "unknown_field"
func extractFieldFromMessage(message string) string {
	if message == "" {
		return ""
	}

	start := strings.Index(message, `"`)
	if start >= 0 {
		end := strings.Index(message[start+1:], `"`)
		if end >= 0 {
			return message[start+1 : start+1+end]
		}
	}

	return ""
}
