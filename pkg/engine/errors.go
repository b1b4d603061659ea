package engine

import (
	"errors"
	"fmt"
)

// ============================================================
// TRANSLATION ERRORS
// ============================================================

// QueryBuildError wraps a statement-builder failure with the model and
// operation kind, so a caller can diagnose a bad filter or an unsupported
// argument combination. Never retried or suppressed: the first builder
// failure aborts the whole lowering call.
type QueryBuildError struct {
	Operation string
	Model     string
	Err       error
}

func (e *QueryBuildError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("build %s statement: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("build %s statement for %s: %v", e.Operation, e.Model, e.Err)
}

func (e *QueryBuildError) Unwrap() error {
	return e.Err
}

// UnsupportedOperationError signals a write-query variant that has no
// lowering rule. Surfaces as a catchable failure, not a process abort.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported write operation: %s", e.Operation)
}

// InvariantViolationError signals a defect in the upstream planner, not a
// recoverable runtime condition. It cannot be caused by valid user input if
// upstream planning is correct.
type InvariantViolationError struct {
	Operation string
	Message   string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: invariant violation: %s", e.Operation, e.Message)
}

// IsQueryBuildFailure reports whether err carries a statement-build failure.
func IsQueryBuildFailure(err error) bool {
	var be *QueryBuildError
	return errors.As(err, &be)
}

// IsUnsupportedOperation reports whether err is an unsupported-variant error.
func IsUnsupportedOperation(err error) bool {
	var ue *UnsupportedOperationError
	return errors.As(err, &ue)
}

// IsInvariantViolation reports whether err is an internal planner-defect
// error, distinct from user input errors.
func IsInvariantViolation(err error) bool {
	var ie *InvariantViolationError
	return errors.As(err, &ie)
}

// ============================================================
// DATABASE CONSTRAINT ERRORS
// ============================================================

// UniqueConstraintError represents a unique constraint violation.
type UniqueConstraintError struct {
	Field      string
	Value      interface{}
	Table      string
	Suggestion string
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf(
		"unique constraint violation on field '%s' in table '%s'\n"+
			"Value: %v already exists\n"+
			"Suggestion: %s",
		e.Field, e.Table, e.Value, e.Suggestion,
	)
}

// ForeignKeyError represents a foreign key constraint violation.
type ForeignKeyError struct {
	Field           string
	Value           interface{}
	ReferencedTable string
	ReferencedField string
	Suggestion      string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf(
		"foreign key constraint violation on field '%s'\n"+
			"Value: %v does not exist in %s.%s\n"+
			"Suggestion: %s",
		e.Field, e.Value, e.ReferencedTable, e.ReferencedField, e.Suggestion,
	)
}

// NotNullError represents a NOT NULL constraint violation.
type NotNullError struct {
	Field      string
	Suggestion string
}

func (e *NotNullError) Error() string {
	return fmt.Sprintf(
		"NOT NULL constraint violation on field '%s'\n"+
			"Suggestion: %s",
		e.Field, e.Suggestion,
	)
}

// UnknownTableError represents a statement against a table that doesn't
// exist in the database.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("table '%s' does not exist (run migrations first)", e.Table)
}

// UnknownColumnError represents a statement against a column that doesn't
// exist on the target table.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column '%s' on table '%s'", e.Column, e.Table)
}
