package repository

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
)

type FormationRepository struct {
	DB *gorm.DB
}

func NewFormationRepository(db *gorm.DB) *FormationRepository {
	return &FormationRepository{DB: db}
}

func (r *FormationRepository) Create(f *model.Formation) error {
	return r.DB.Create(f).Error
}

func (r *FormationRepository) Save(f *model.Formation) error {
	return r.DB.Save(f).Error
}

func (r *FormationRepository) FindByID(id string) (*model.Formation, error) {
	var f model.Formation
	err := r.DB.First(&f, "id = ?", id).Error
	return &f, err
}

// FindWithModules loads the formation with its modules in sequence order,
// each quiz module carrying its quiz, questions and answer key.
func (r *FormationRepository) FindWithModules(id string) (*model.Formation, error) {
	var f model.Formation
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.sort_order ASC")
		}).
		Preload("Modules.Quiz").
		Preload("Modules.Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.sort_order ASC")
		}).
		Preload("Modules.Quiz.Questions.Answers").
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *FormationRepository) ListByStatus(status model.FormationStatus, page, limit int) ([]model.Formation, int64, error) {
	var formations []model.Formation
	var total int64

	q := r.DB.Model(&model.Formation{}).Where("status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&formations).Error
	return formations, total, err
}

func (r *FormationRepository) ListAll(page, limit int) ([]model.Formation, int64, error) {
	var formations []model.Formation
	var total int64

	if err := r.DB.Model(&model.Formation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&formations).Error
	return formations, total, err
}

func (r *FormationRepository) Delete(id string) error {
	return r.DB.Delete(&model.Formation{}, "id = ?", id).Error
}
