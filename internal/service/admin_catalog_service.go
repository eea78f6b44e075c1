package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"gorm.io/gorm"
)

// AdminCatalogService is the instructor side of the catalog: authoring
// formations, modules and quizzes. Published formations are frozen; content
// changes require a new draft.
type AdminCatalogService struct {
	Formations FormationStore
	Modules    ModuleStore
	Quizzes    QuizStore
	Catalog    *CatalogService
}

func NewAdminCatalogService(formations FormationStore, modules ModuleStore, quizzes QuizStore, catalog *CatalogService) *AdminCatalogService {
	return &AdminCatalogService{Formations: formations, Modules: modules, Quizzes: quizzes, Catalog: catalog}
}

type FormationInput struct {
	Title               string `json:"title" binding:"required,min=3,max=255"`
	Description         string `json:"description"`
	PassPercentage      int    `json:"passPercentage" binding:"omitempty,min=1,max=100"`
	CertificateTemplate string `json:"certificateTemplate"`
}

func (s *AdminCatalogService) CreateFormation(in FormationInput) (*model.Formation, error) {
	f := &model.Formation{
		Title:               in.Title,
		Description:         in.Description,
		Status:              model.FormationDraft,
		CertificateTemplate: in.CertificateTemplate,
	}
	if in.PassPercentage > 0 {
		f.PassPercentage = in.PassPercentage
	} else {
		f.PassPercentage = 80
	}
	if err := s.Formations.Create(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *AdminCatalogService) UpdateFormation(id string, in FormationInput) (*model.Formation, error) {
	f, err := s.findEditable(id)
	if err != nil {
		return nil, err
	}
	f.Title = in.Title
	f.Description = in.Description
	if in.PassPercentage > 0 {
		f.PassPercentage = in.PassPercentage
	}
	f.CertificateTemplate = in.CertificateTemplate
	if err := s.Formations.Save(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *AdminCatalogService) DeleteFormation(id string) error {
	if _, err := s.findEditable(id); err != nil {
		return err
	}
	return s.Formations.Delete(id)
}

func (s *AdminCatalogService) ListFormations(page, limit int) ([]model.Formation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Formations.ListAll(page, limit)
}

func (s *AdminCatalogService) GetFormation(id string) (*model.Formation, error) {
	f, err := s.Formations.FindWithModules(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	return f, nil
}

// Publish freezes the formation and makes it enrollable. Structural checks
// run here so learners can never enroll in a broken formation: at least one
// module, and every quiz module carries a quiz with gradable questions.
func (s *AdminCatalogService) Publish(ctx context.Context, id string) (*model.Formation, error) {
	f, err := s.GetFormation(id)
	if err != nil {
		return nil, err
	}
	if f.Status == model.FormationPublished {
		return f, nil
	}
	if len(f.Modules) == 0 {
		return nil, util.ErrFormationIncomplete
	}
	for i := range f.Modules {
		m := &f.Modules[i]
		if m.Type != model.ModuleQuiz {
			continue
		}
		if m.Quiz == nil {
			return nil, fmt.Errorf("%w: quiz module %q has no quiz", util.ErrFormationIncomplete, m.Title)
		}
		gradable := 0
		for _, q := range m.Quiz.Questions {
			if q.Type != model.QuestionEssay {
				gradable++
			}
		}
		if gradable == 0 {
			return nil, fmt.Errorf("%w: quiz module %q has no gradable questions", util.ErrFormationIncomplete, m.Title)
		}
	}

	now := time.Now()
	f.Status = model.FormationPublished
	f.PublishedAt = &now
	if err := s.Formations.Save(f); err != nil {
		return nil, err
	}
	s.Catalog.InvalidateCache(ctx)
	return f, nil
}

// Archive pulls the formation from the catalog. Existing enrollments keep
// running; new enrollments are refused by the ledger.
func (s *AdminCatalogService) Archive(ctx context.Context, id string) (*model.Formation, error) {
	f, err := s.GetFormation(id)
	if err != nil {
		return nil, err
	}
	f.Status = model.FormationArchived
	if err := s.Formations.Save(f); err != nil {
		return nil, err
	}
	s.Catalog.InvalidateCache(ctx)
	return f, nil
}

type ModuleInput struct {
	Title             string           `json:"title" binding:"required,min=2,max=255"`
	Type              model.ModuleType `json:"type" binding:"required,oneof=video text quiz exercise document interactive"`
	SortOrder         int              `json:"sortOrder" binding:"min=0"`
	IsMandatory       bool             `json:"isMandatory"`
	PassRequired      bool             `json:"passRequired"`
	EstimatedDuration int              `json:"estimatedDuration" binding:"min=0"`
	ContentURL        string           `json:"contentUrl"`
}

func (s *AdminCatalogService) AddModule(formationID string, in ModuleInput) (*model.Module, error) {
	if _, err := s.findEditable(formationID); err != nil {
		return nil, err
	}
	m := &model.Module{
		FormationID:       formationID,
		Title:             in.Title,
		Type:              in.Type,
		SortOrder:         in.SortOrder,
		IsMandatory:       in.IsMandatory,
		PassRequired:      in.PassRequired,
		EstimatedDuration: in.EstimatedDuration,
		ContentURL:        in.ContentURL,
	}
	if err := s.Modules.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *AdminCatalogService) UpdateModule(moduleID string, in ModuleInput) (*model.Module, error) {
	m, err := s.Modules.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if _, err := s.findEditable(m.FormationID); err != nil {
		return nil, err
	}
	m.Title = in.Title
	m.Type = in.Type
	m.SortOrder = in.SortOrder
	m.IsMandatory = in.IsMandatory
	m.PassRequired = in.PassRequired
	m.EstimatedDuration = in.EstimatedDuration
	m.ContentURL = in.ContentURL
	if err := s.Modules.Save(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *AdminCatalogService) DeleteModule(moduleID string) error {
	m, err := s.Modules.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	if _, err := s.findEditable(m.FormationID); err != nil {
		return err
	}
	return s.Modules.Delete(moduleID)
}

type QuizInput struct {
	PassPercentage int  `json:"passPercentage" binding:"omitempty,min=1,max=100"`
	MaxAttempts    int  `json:"maxAttempts" binding:"omitempty,min=1"`
	Shuffle        bool `json:"shuffle"`
}

func (s *AdminCatalogService) UpsertQuiz(moduleID string, in QuizInput) (*model.Quiz, error) {
	m, err := s.Modules.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if _, err := s.findEditable(m.FormationID); err != nil {
		return nil, err
	}

	quiz, err := s.Quizzes.FindByModule(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		quiz = &model.Quiz{ModuleID: moduleID, PassPercentage: 80, MaxAttempts: 3}
		applyQuizInput(quiz, in)
		if err := s.Quizzes.Create(quiz); err != nil {
			return nil, err
		}
		return quiz, nil
	}
	if err != nil {
		return nil, err
	}
	applyQuizInput(quiz, in)
	if err := s.Quizzes.Save(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func applyQuizInput(quiz *model.Quiz, in QuizInput) {
	if in.PassPercentage > 0 {
		quiz.PassPercentage = in.PassPercentage
	}
	if in.MaxAttempts > 0 {
		quiz.MaxAttempts = in.MaxAttempts
	}
	quiz.Shuffle = in.Shuffle
}

type AnswerInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionInput struct {
	Type      model.QuestionType `json:"type" binding:"required,oneof=mcq true_false fill_blank matching essay"`
	Text      string             `json:"text" binding:"required"`
	Points    int                `json:"points" binding:"omitempty,min=1"`
	SortOrder int                `json:"sortOrder" binding:"min=0"`
	Answers   []AnswerInput      `json:"answers"`
}

// AddQuestion creates a question together with its answer key. Gradable
// question types must carry at least one correct answer, otherwise nothing
// could ever score on them.
func (s *AdminCatalogService) AddQuestion(quizID string, in QuestionInput) (*model.QuizQuestion, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	module, err := s.Modules.FindByID(quiz.ModuleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findEditable(module.FormationID); err != nil {
		return nil, err
	}

	if in.Type != model.QuestionEssay {
		correct := 0
		for _, a := range in.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return nil, util.ErrQuestionAnswerMismatch
		}
		if in.Type == model.QuestionTrueFalse && len(in.Answers) != 2 {
			return nil, util.ErrQuestionAnswerMismatch
		}
	}

	q := &model.QuizQuestion{
		QuizID:    quizID,
		Type:      in.Type,
		Text:      in.Text,
		Points:    in.Points,
		SortOrder: in.SortOrder,
	}
	if q.Points <= 0 {
		q.Points = 1
	}
	if err := s.Quizzes.CreateQuestion(q); err != nil {
		return nil, err
	}
	for _, a := range in.Answers {
		answer := &model.QuizAnswer{QuestionID: q.ID, Text: a.Text, IsCorrect: a.IsCorrect}
		if err := s.Quizzes.CreateAnswer(answer); err != nil {
			return nil, err
		}
		q.Answers = append(q.Answers, *answer)
	}
	return q, nil
}

func (s *AdminCatalogService) DeleteQuestion(questionID string) error {
	return s.Quizzes.DeleteQuestion(questionID)
}

// findEditable loads a formation and refuses edits once it left draft.
func (s *AdminCatalogService) findEditable(id string) (*model.Formation, error) {
	f, err := s.Formations.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	if f.Status != model.FormationDraft {
		return nil, util.ErrFormationNotEditable
	}
	return f, nil
}
