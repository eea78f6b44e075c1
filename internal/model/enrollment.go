package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// Enrollment is a learner's registration in one formation. At most one
// active enrollment may exist per (user, formation) pair. CompletedAt is
// stamped exactly once, when progress reaches 100 and every mandatory
// module is completed.
// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserID             uint             `gorm:"index:idx_user_formation;type:bigint unsigned;not null" json:"userId"`
	FormationID        string           `gorm:"index:idx_user_formation;type:varchar(36);not null" json:"formationId"`
	Status             EnrollmentStatus `gorm:"type:enum('active','completed','cancelled');default:'active';index" json:"status"`
	CurrentModuleID    *string          `gorm:"type:varchar(36)" json:"currentModuleId,omitempty"`
	ProgressPercentage int              `gorm:"default:0" json:"progressPercentage"`
	TimeSpent          int              `gorm:"default:0" json:"timeSpent"` // minutes
	StartedAt          time.Time        `json:"startedAt"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// ModuleProgress tracks one module within one enrollment. Rows are created
// eagerly for every module at enrollment time, so aggregate computation
// never needs to check for missing rows.
// swagger:model ModuleProgress
type ModuleProgress struct {
	UUIDBase
	EnrollmentID       string         `gorm:"uniqueIndex:idx_enrollment_module;type:varchar(36);not null" json:"enrollmentId"`
	ModuleID           string         `gorm:"uniqueIndex:idx_enrollment_module;type:varchar(36);not null" json:"moduleId"`
	Status             ProgressStatus `gorm:"type:enum('not_started','in_progress','completed');default:'not_started'" json:"status"`
	ProgressPercentage int            `gorm:"default:0" json:"progressPercentage"`
	TimeSpent          int            `gorm:"default:0" json:"timeSpent"` // minutes, monotonically non-decreasing
	StartedAt          *time.Time     `json:"startedAt,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}
