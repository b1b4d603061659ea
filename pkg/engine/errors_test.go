package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates_DistinguishClasses(t *testing.T) {
	build := &QueryBuildError{Operation: "upsert", Model: "User", Err: errors.New("boom")}
	unsupported := &UnsupportedOperationError{Operation: "createManyAndReturn"}
	invariant := &InvariantViolationError{Operation: "connectRecords", Message: "expected exactly one resolved parent value, got 2"}

	assert.True(t, IsQueryBuildFailure(build))
	assert.False(t, IsQueryBuildFailure(unsupported))
	assert.False(t, IsQueryBuildFailure(invariant))

	assert.True(t, IsUnsupportedOperation(unsupported))
	assert.False(t, IsUnsupportedOperation(build))

	assert.True(t, IsInvariantViolation(invariant))
	assert.False(t, IsInvariantViolation(build))
}

func TestErrorPredicates_SeeThroughWrapping(t *testing.T) {
	inner := &InvariantViolationError{Operation: "disconnectRecords", Message: "disconnect requires a parent handle"}
	wrapped := fmt.Errorf("plan step 3: %w", inner)

	assert.True(t, IsInvariantViolation(wrapped))
	assert.False(t, IsQueryBuildFailure(wrapped))
}

func TestQueryBuildError_UnwrapsBuilderError(t *testing.T) {
	sentinel := errors.New("parameter limit exceeded")
	err := &QueryBuildError{Operation: "createManyRecords", Model: "User", Err: sentinel}

	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "createManyRecords")
	assert.Contains(t, err.Error(), "User")
}
