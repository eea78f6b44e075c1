package service

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
)

// Store interfaces consumed by the services. The gorm repositories in
// internal/repository implement them; tests substitute mocks. Methods that
// take a *gorm.DB participate in the caller's per-enrollment transaction.

type TxRunner interface {
	InTx(fn func(tx *gorm.DB) error) error
}

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Save(user *model.User) error
	UpdateLastLogin(id uint) error
}

type FormationStore interface {
	Create(f *model.Formation) error
	Save(f *model.Formation) error
	FindByID(id string) (*model.Formation, error)
	FindWithModules(id string) (*model.Formation, error)
	ListByStatus(status model.FormationStatus, page, limit int) ([]model.Formation, int64, error)
	ListAll(page, limit int) ([]model.Formation, int64, error)
	Delete(id string) error
}

type ModuleStore interface {
	Create(m *model.Module) error
	Save(m *model.Module) error
	FindByID(id string) (*model.Module, error)
	ListByFormation(formationID string) ([]model.Module, error)
	Delete(id string) error
}

type QuizStore interface {
	Create(q *model.Quiz) error
	Save(q *model.Quiz) error
	FindByID(id string) (*model.Quiz, error)
	FindByModule(moduleID string) (*model.Quiz, error)
	CreateQuestion(q *model.QuizQuestion) error
	SaveQuestion(q *model.QuizQuestion) error
	DeleteQuestion(id string) error
	CreateAnswer(a *model.QuizAnswer) error
	DeleteAnswer(id string) error
}

type EnrollmentStore interface {
	Create(tx *gorm.DB, e *model.Enrollment) error
	FindByID(id string) (*model.Enrollment, error)
	FindForUpdate(tx *gorm.DB, id string) (*model.Enrollment, error)
	FindActive(userID uint, formationID string) (*model.Enrollment, error)
	FindActiveTx(tx *gorm.DB, userID uint, formationID string) (*model.Enrollment, error)
	ListByUser(userID uint) ([]model.Enrollment, error)
	CountCompletedByUser(userID uint) (int64, error)
	Save(tx *gorm.DB, e *model.Enrollment) error
}

type ProgressStore interface {
	CreateBatch(tx *gorm.DB, items []model.ModuleProgress) error
	Find(enrollmentID, moduleID string) (*model.ModuleProgress, error)
	FindForUpdate(tx *gorm.DB, enrollmentID, moduleID string) (*model.ModuleProgress, error)
	ListByEnrollment(enrollmentID string) ([]model.ModuleProgress, error)
	ListByEnrollmentTx(tx *gorm.DB, enrollmentID string) ([]model.ModuleProgress, error)
	Save(tx *gorm.DB, p *model.ModuleProgress) error
	AddTimeSpent(tx *gorm.DB, id string, delta int) error
}

type AttemptStore interface {
	Create(tx *gorm.DB, a *model.QuizAttempt) error
	FindByID(id string) (*model.QuizAttempt, error)
	FindForUpdate(tx *gorm.DB, id string) (*model.QuizAttempt, error)
	CountByEnrollmentAndQuiz(tx *gorm.DB, enrollmentID, quizID string) (int64, error)
	ListByEnrollmentAndQuiz(enrollmentID, quizID string) ([]model.QuizAttempt, error)
	HasPassed(tx *gorm.DB, enrollmentID, quizID string) (bool, error)
	Save(tx *gorm.DB, a *model.QuizAttempt) error
}

type CertificateStore interface {
	Create(c *model.Certificate) error
	FindByEnrollment(enrollmentID string) (*model.Certificate, error)
	ListByUser(userID uint) ([]model.Certificate, error)
}

type BadgeStore interface {
	FindByCode(code string) (*model.Badge, error)
	Award(userID uint, badgeID uint) error
	ListByUser(userID uint) ([]model.UserBadge, error)
}
