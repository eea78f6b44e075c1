package repository

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(m *model.Module) error {
	return r.DB.Create(m).Error
}

func (r *ModuleRepository) Save(m *model.Module) error {
	return r.DB.Save(m).Error
}

func (r *ModuleRepository) FindByID(id string) (*model.Module, error) {
	var m model.Module
	err := r.DB.Preload("Quiz").First(&m, "id = ?", id).Error
	return &m, err
}

func (r *ModuleRepository) ListByFormation(formationID string) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("formation_id = ?", formationID).
		Order("sort_order ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Delete(id string) error {
	return r.DB.Delete(&model.Module{}, "id = ?", id).Error
}
