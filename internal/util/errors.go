package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for the enrollment/progress/quiz core. Controllers map
// them to HTTP statuses with FromError; services return them unchanged.
var (
	// Not found
	ErrUserNotFound         = errors.New("user not found")
	ErrFormationNotFound    = errors.New("formation not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrCertificateNotIssued = errors.New("certificate has not been issued for this enrollment")

	// Conflict
	ErrEmailRegistered         = errors.New("email already registered")
	ErrAlreadyEnrolled         = errors.New("an active enrollment already exists for this formation")
	ErrAttemptLimitExceeded    = errors.New("maximum number of attempts reached")
	ErrAttemptAlreadyCompleted = errors.New("attempt already submitted")
	ErrEnrollmentNotActive     = errors.New("enrollment is not active")
	ErrFormationNotEditable    = errors.New("formation is published and can no longer be edited")

	// Validation
	ErrInvalidRange           = errors.New("percentage must be within [0,100] and time delta must not be negative")
	ErrQuestionAnswerMismatch = errors.New("submitted question does not belong to this quiz")
	ErrFormationUnavailable   = errors.New("formation is not published")
	ErrFormationIncomplete    = errors.New("formation cannot be published without at least one module")

	// Precondition
	ErrMandatoryQuizNotPassed = errors.New("mandatory quiz has not been passed")

	// Unauthorized
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var notFoundErrors = []error{
	ErrUserNotFound,
	ErrFormationNotFound,
	ErrModuleNotFound,
	ErrQuizNotFound,
	ErrEnrollmentNotFound,
	ErrAttemptNotFound,
	ErrCertificateNotIssued,
}

var conflictErrors = []error{
	ErrEmailRegistered,
	ErrAlreadyEnrolled,
	ErrAttemptLimitExceeded,
	ErrAttemptAlreadyCompleted,
	ErrEnrollmentNotActive,
	ErrFormationNotEditable,
}

var validationErrors = []error{
	ErrInvalidRange,
	ErrQuestionAnswerMismatch,
	ErrFormationUnavailable,
	ErrFormationIncomplete,
}

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool     { return matchesAny(err, notFoundErrors) }
func IsConflict(err error) bool     { return matchesAny(err, conflictErrors) }
func IsValidation(err error) bool   { return matchesAny(err, validationErrors) }
func IsPrecondition(err error) bool { return errors.Is(err, ErrMandatoryQuizNotPassed) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrInvalidCredentials) }

// MandatoryQuizError carries enough detail for the client to act: which
// quiz blocks completion of which module.
type MandatoryQuizError struct {
	ModuleID string
	QuizID   string
}

func (e *MandatoryQuizError) Error() string {
	return fmt.Sprintf("module %s cannot be completed: quiz %s has not been passed", e.ModuleID, e.QuizID)
}

func (e *MandatoryQuizError) Is(target error) bool {
	return target == ErrMandatoryQuizNotPassed
}
