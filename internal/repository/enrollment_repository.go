package repository

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(tx *gorm.DB, e *model.Enrollment) error {
	return tx.Create(e).Error
}

func (r *EnrollmentRepository) FindByID(id string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.First(&e, "id = ?", id).Error
	return &e, err
}

// FindForUpdate locks the enrollment row. Every mutation of an enrollment
// or its children takes this lock first, which serializes writers per
// enrollment (and keeps a single lock ordering across call paths).
func (r *EnrollmentRepository) FindForUpdate(tx *gorm.DB, id string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *EnrollmentRepository) FindActive(userID uint, formationID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND formation_id = ? AND status = ?",
		userID, formationID, model.EnrollmentActive).
		First(&e).Error
	return &e, err
}

func (r *EnrollmentRepository) FindActiveTx(tx *gorm.DB, userID uint, formationID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND formation_id = ? AND status = ?",
			userID, formationID, model.EnrollmentActive).
		First(&e).Error
	return &e, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, model.EnrollmentCompleted).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) Save(tx *gorm.DB, e *model.Enrollment) error {
	return tx.Save(e).Error
}
