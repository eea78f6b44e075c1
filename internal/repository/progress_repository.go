package repository

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) CreateBatch(tx *gorm.DB, items []model.ModuleProgress) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *ProgressRepository) Find(enrollmentID, moduleID string) (*model.ModuleProgress, error) {
	var p model.ModuleProgress
	err := r.DB.Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).
		First(&p).Error
	return &p, err
}

func (r *ProgressRepository) FindForUpdate(tx *gorm.DB, enrollmentID, moduleID string) (*model.ModuleProgress, error) {
	var p model.ModuleProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).
		First(&p).Error
	return &p, err
}

func (r *ProgressRepository) ListByEnrollment(enrollmentID string) ([]model.ModuleProgress, error) {
	var items []model.ModuleProgress
	err := r.DB.Where("enrollment_id = ?", enrollmentID).Find(&items).Error
	return items, err
}

func (r *ProgressRepository) ListByEnrollmentTx(tx *gorm.DB, enrollmentID string) ([]model.ModuleProgress, error) {
	var items []model.ModuleProgress
	err := tx.Where("enrollment_id = ?", enrollmentID).Find(&items).Error
	return items, err
}

func (r *ProgressRepository) Save(tx *gorm.DB, p *model.ModuleProgress) error {
	return tx.Save(p).Error
}

// AddTimeSpent accumulates a reported delta server-side, so two concurrent
// updates never lose minutes to a read-modify-write race.
func (r *ProgressRepository) AddTimeSpent(tx *gorm.DB, id string, delta int) error {
	return tx.Model(&model.ModuleProgress{}).Where("id = ?", id).
		UpdateColumn("time_spent", gorm.Expr("time_spent + ?", delta)).Error
}
