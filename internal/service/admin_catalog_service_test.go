package service

import (
	"context"
	"testing"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(formations *MockFormationStore, modules *MockModuleStore, quizzes *MockQuizStore) *AdminCatalogService {
	catalog := NewCatalogService(formations, nil, time.Minute)
	return NewAdminCatalogService(formations, modules, quizzes, catalog)
}

func TestPublishRequiresModules(t *testing.T) {
	formations := new(MockFormationStore)
	empty := &model.Formation{Status: model.FormationDraft, Title: "Vide"}
	empty.ID = "f1"
	formations.On("FindWithModules", "f1").Return(empty, nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	_, err := svc.Publish(context.Background(), "f1")
	assert.ErrorIs(t, err, util.ErrFormationIncomplete)
}

func TestPublishRequiresQuizOnQuizModules(t *testing.T) {
	formations := new(MockFormationStore)
	f := publishedFormation("f1", "m1")
	f.Status = model.FormationDraft
	f.Modules[0].Type = model.ModuleQuiz
	formations.On("FindWithModules", "f1").Return(f, nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	_, err := svc.Publish(context.Background(), "f1")
	assert.ErrorIs(t, err, util.ErrFormationIncomplete)
}

func TestPublishRejectsEssayOnlyQuiz(t *testing.T) {
	formations := new(MockFormationStore)
	f := publishedFormation("f1", "m1")
	f.Status = model.FormationDraft
	f.Modules[0].Type = model.ModuleQuiz
	quiz := &model.Quiz{ModuleID: "m1"}
	quiz.ID = "q1"
	quiz.Questions = []model.QuizQuestion{question("qq1", model.QuestionEssay, 5)}
	f.Modules[0].Quiz = quiz
	formations.On("FindWithModules", "f1").Return(f, nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	_, err := svc.Publish(context.Background(), "f1")
	assert.ErrorIs(t, err, util.ErrFormationIncomplete)
}

func TestPublishStampsPublishedAt(t *testing.T) {
	formations := new(MockFormationStore)
	f := publishedFormation("f1", "m1")
	f.Status = model.FormationDraft
	formations.On("FindWithModules", "f1").Return(f, nil)
	formations.On("Save", f).Return(nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	out, err := svc.Publish(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, model.FormationPublished, out.Status)
	require.NotNil(t, out.PublishedAt)
}

func TestPublishIsIdempotent(t *testing.T) {
	formations := new(MockFormationStore)
	f := publishedFormation("f1", "m1")
	now := time.Now()
	f.PublishedAt = &now
	formations.On("FindWithModules", "f1").Return(f, nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	out, err := svc.Publish(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, model.FormationPublished, out.Status)
	formations.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdateFormationRefusesPublished(t *testing.T) {
	formations := new(MockFormationStore)
	f := publishedFormation("f1", "m1")
	formations.On("FindByID", "f1").Return(f, nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	_, err := svc.UpdateFormation("f1", FormationInput{Title: "Nouveau titre"})
	assert.ErrorIs(t, err, util.ErrFormationNotEditable)
}

func TestAddModuleRefusesPublishedFormation(t *testing.T) {
	formations := new(MockFormationStore)
	f := publishedFormation("f1", "m1")
	formations.On("FindByID", "f1").Return(f, nil)

	svc := newAdminFixture(formations, new(MockModuleStore), new(MockQuizStore))

	_, err := svc.AddModule("f1", ModuleInput{Title: "Module 2", Type: model.ModuleText})
	assert.ErrorIs(t, err, util.ErrFormationNotEditable)
}

func TestAddQuestionRequiresCorrectAnswer(t *testing.T) {
	formations := new(MockFormationStore)
	modules := new(MockModuleStore)
	quizzes := new(MockQuizStore)

	quiz := &model.Quiz{ModuleID: "m1"}
	quiz.ID = "q1"
	quizzes.On("FindByID", "q1").Return(quiz, nil)

	module := &model.Module{FormationID: "f1", Type: model.ModuleQuiz}
	module.ID = "m1"
	modules.On("FindByID", "m1").Return(module, nil)

	draft := &model.Formation{Status: model.FormationDraft}
	draft.ID = "f1"
	formations.On("FindByID", "f1").Return(draft, nil)

	svc := newAdminFixture(formations, modules, quizzes)

	_, err := svc.AddQuestion("q1", QuestionInput{
		Type: model.QuestionMCQ,
		Text: "Question sans bonne réponse",
		Answers: []AnswerInput{
			{Text: "A", IsCorrect: false},
			{Text: "B", IsCorrect: false},
		},
	})
	assert.ErrorIs(t, err, util.ErrQuestionAnswerMismatch)
	quizzes.AssertNotCalled(t, "CreateQuestion", mock.Anything)
}

func TestAddQuestionDefaultsPoints(t *testing.T) {
	formations := new(MockFormationStore)
	modules := new(MockModuleStore)
	quizzes := new(MockQuizStore)

	quiz := &model.Quiz{ModuleID: "m1"}
	quiz.ID = "q1"
	quizzes.On("FindByID", "q1").Return(quiz, nil)

	module := &model.Module{FormationID: "f1", Type: model.ModuleQuiz}
	module.ID = "m1"
	modules.On("FindByID", "m1").Return(module, nil)

	draft := &model.Formation{Status: model.FormationDraft}
	draft.ID = "f1"
	formations.On("FindByID", "f1").Return(draft, nil)

	quizzes.On("CreateQuestion", mock.Anything).Return(nil)
	quizzes.On("CreateAnswer", mock.Anything).Return(nil)

	svc := newAdminFixture(formations, modules, quizzes)

	q, err := svc.AddQuestion("q1", QuestionInput{
		Type: model.QuestionTrueFalse,
		Text: "Vrai ou faux ?",
		Answers: []AnswerInput{
			{Text: "Vrai", IsCorrect: true},
			{Text: "Faux", IsCorrect: false},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Points)
	assert.Len(t, q.Answers, 2)
}
