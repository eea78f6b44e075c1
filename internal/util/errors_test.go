package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, IsNotFound(ErrEnrollmentNotFound))
	assert.True(t, IsConflict(ErrAlreadyEnrolled))
	assert.True(t, IsConflict(ErrAttemptLimitExceeded))
	assert.True(t, IsValidation(ErrInvalidRange))
	assert.True(t, IsPrecondition(ErrMandatoryQuizNotPassed))
	assert.True(t, IsUnauthorized(ErrInvalidCredentials))

	assert.False(t, IsNotFound(ErrAlreadyEnrolled))
	assert.False(t, IsConflict(ErrEnrollmentNotFound))
}

func TestTaxonomySurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("publish: %w", ErrFormationIncomplete)
	assert.True(t, IsValidation(wrapped))
}

func TestMandatoryQuizErrorMatchesSentinel(t *testing.T) {
	err := &MandatoryQuizError{ModuleID: "m1", QuizID: "q1"}
	assert.True(t, IsPrecondition(err))
	assert.Contains(t, err.Error(), "m1")
	assert.Contains(t, err.Error(), "q1")
}
