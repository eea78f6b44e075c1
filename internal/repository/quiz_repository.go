package repository

import (
	"formapro_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(q *model.Quiz) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) Save(q *model.Quiz) error {
	return r.DB.Save(q).Error
}

// FindByID loads the quiz with questions and the answer key.
func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.sort_order ASC")
		}).
		Preload("Questions.Answers").
		First(&q, "id = ?", id).Error
	return &q, err
}

func (r *QuizRepository) FindByModule(moduleID string) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.sort_order ASC")
		}).
		Preload("Questions.Answers").
		Where("module_id = ?", moduleID).
		First(&q).Error
	return &q, err
}

func (r *QuizRepository) CreateQuestion(q *model.QuizQuestion) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) SaveQuestion(q *model.QuizQuestion) error {
	return r.DB.Save(q).Error
}

func (r *QuizRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.QuizQuestion{}, "id = ?", id).Error
}

func (r *QuizRepository) CreateAnswer(a *model.QuizAnswer) error {
	return r.DB.Create(a).Error
}

func (r *QuizRepository) DeleteAnswer(id string) error {
	return r.DB.Delete(&model.QuizAnswer{}, "id = ?", id).Error
}
