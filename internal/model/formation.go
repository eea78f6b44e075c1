package model

import "time"

type FormationStatus string

const (
	FormationDraft     FormationStatus = "draft"
	FormationPublished FormationStatus = "published"
	FormationArchived  FormationStatus = "archived"
)

type ModuleType string

const (
	ModuleVideo       ModuleType = "video"
	ModuleText        ModuleType = "text"
	ModuleQuiz        ModuleType = "quiz"
	ModuleExercise    ModuleType = "exercise"
	ModuleDocument    ModuleType = "document"
	ModuleInteractive ModuleType = "interactive"
)

// Formation is a course: an ordered sequence of modules. It is owned by
// instructor tooling and becomes immutable once published.
// swagger:model Formation
type Formation struct {
	UUIDBase
	Title               string          `gorm:"size:255;not null" json:"title"`
	Description         string          `gorm:"type:text" json:"description"`
	Status              FormationStatus `gorm:"type:enum('draft','published','archived');default:'draft';index" json:"status"`
	PassPercentage      int             `gorm:"default:80" json:"passPercentage"`
	CertificateTemplate string          `gorm:"size:255" json:"certificateTemplate"`
	PublishedAt         *time.Time      `json:"publishedAt,omitempty"`
	Modules             []Module        `gorm:"foreignKey:FormationID" json:"modules,omitempty"`
}

func (Formation) TableName() string {
	return "formations"
}

// Module is one learning unit within a formation. SortOrder is unique within
// a formation and defines the linear sequence.
// swagger:model Module
type Module struct {
	UUIDBase
	FormationID       string     `gorm:"uniqueIndex:idx_formation_sort;type:varchar(36);not null" json:"formationId"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Type              ModuleType `gorm:"type:enum('video','text','quiz','exercise','document','interactive');not null" json:"type"`
	SortOrder         int        `gorm:"uniqueIndex:idx_formation_sort;not null" json:"sortOrder"`
	IsMandatory       bool       `gorm:"default:false" json:"isMandatory"`
	PassRequired      bool       `gorm:"default:false" json:"passRequired"` // quiz modules: completion requires a passing attempt
	EstimatedDuration int        `gorm:"default:0" json:"estimatedDuration"` // minutes
	ContentURL        string     `gorm:"size:512" json:"contentUrl"`
	Quiz              *Quiz      `gorm:"foreignKey:ModuleID" json:"quiz,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}
