package repository

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(tx *gorm.DB, a *model.QuizAttempt) error {
	return tx.Create(a).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.First(&a, "id = ?", id).Error
	return &a, err
}

func (r *AttemptRepository) FindForUpdate(tx *gorm.DB, id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "id = ?", id).Error
	return &a, err
}

// CountByEnrollmentAndQuiz runs inside the enrollment transaction so the
// attempt_number sequence has no gaps and never exceeds max_attempts.
func (r *AttemptRepository) CountByEnrollmentAndQuiz(tx *gorm.DB, enrollmentID, quizID string) (int64, error) {
	var count int64
	err := tx.Model(&model.QuizAttempt{}).
		Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) ListByEnrollmentAndQuiz(enrollmentID, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) HasPassed(tx *gorm.DB, enrollmentID, quizID string) (bool, error) {
	var count int64
	err := tx.Model(&model.QuizAttempt{}).
		Where("enrollment_id = ? AND quiz_id = ? AND passed = ?", enrollmentID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *AttemptRepository) Save(tx *gorm.DB, a *model.QuizAttempt) error {
	return tx.Save(a).Error
}
