package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt is one graded submission of a quiz within an enrollment.
// Answers holds the submitted payload as an immutable snapshot: later
// changes to the answer key must not alter a recorded score.
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	EnrollmentID    string         `gorm:"uniqueIndex:idx_enrollment_quiz_attempt;type:varchar(36);not null" json:"enrollmentId"`
	QuizID          string         `gorm:"uniqueIndex:idx_enrollment_quiz_attempt;type:varchar(36);not null" json:"quizId"`
	AttemptNumber   int            `gorm:"uniqueIndex:idx_enrollment_quiz_attempt;not null" json:"attemptNumber"`
	Answers         datatypes.JSON `gorm:"type:json" json:"answers,omitempty"`
	ObtainedPoints  int            `gorm:"default:0" json:"obtainedPoints"`
	TotalPoints     int            `gorm:"default:0" json:"totalPoints"`
	ScorePercentage int            `gorm:"default:0" json:"scorePercentage"`
	Passed          bool           `gorm:"default:false" json:"passed"`
	StartedAt       time.Time      `json:"startedAt"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
