package model

import "time"

// Certificate is produced asynchronously when a formation-completed event
// fires. The unique index on EnrollmentID makes issuance idempotent even if
// the event is ever delivered twice.
// swagger:model Certificate
type Certificate struct {
	UUIDBase
	EnrollmentID string    `gorm:"uniqueIndex;type:varchar(36);not null" json:"enrollmentId"`
	FormationID  string    `gorm:"index;type:varchar(36);not null" json:"formationId"`
	UserID       uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SerialNumber string    `gorm:"size:64;unique" json:"serialNumber"`
	FileURL      string    `gorm:"size:512" json:"fileUrl"`
	IssuedAt     time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
