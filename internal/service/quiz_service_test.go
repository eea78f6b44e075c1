package service

import (
	"testing"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type quizFixture struct {
	enrollments *MockEnrollmentStore
	modules     *MockModuleStore
	quizzes     *MockQuizStore
	attempts    *MockAttemptStore
	progress    *MockProgressStore
	bus         *recordingBus
	svc         *QuizService
}

func newQuizFixture() *quizFixture {
	f := &quizFixture{
		enrollments: new(MockEnrollmentStore),
		modules:     new(MockModuleStore),
		quizzes:     new(MockQuizStore),
		attempts:    new(MockAttemptStore),
		progress:    new(MockProgressStore),
		bus:         &recordingBus{},
	}
	ledger := NewEnrollmentService(f.enrollments, f.progress, new(MockFormationStore), f.modules, fakeTxRunner{}, f.bus)
	progressSvc := NewProgressService(f.enrollments, f.progress, f.modules, f.attempts, ledger, fakeTxRunner{})
	f.svc = NewQuizService(f.enrollments, f.modules, f.quizzes, f.attempts, progressSvc, ledger, fakeTxRunner{}, f.bus)
	return f
}

func question(id string, qType model.QuestionType, points int, answers ...model.QuizAnswer) model.QuizQuestion {
	q := model.QuizQuestion{Type: qType, Text: "q", Points: points, Answers: answers}
	q.ID = id
	return q
}

func answer(id, text string, correct bool) model.QuizAnswer {
	a := model.QuizAnswer{Text: text, IsCorrect: correct}
	a.ID = id
	return a
}

func sampleQuiz() *model.Quiz {
	quiz := &model.Quiz{ModuleID: "m1", PassPercentage: 80, MaxAttempts: 3}
	quiz.ID = "q1"
	quiz.Questions = []model.QuizQuestion{
		question("qq1", model.QuestionMCQ, 2,
			answer("a1", "option A", true),
			answer("a2", "option B", true),
			answer("a3", "option C", false),
		),
		question("qq2", model.QuestionTrueFalse, 1,
			answer("a4", "Vrai", true),
			answer("a5", "Faux", false),
		),
		question("qq3", model.QuestionFillBlank, 1,
			answer("a6", "Ergonomie", true),
		),
		question("qq4", model.QuestionEssay, 5),
	}
	return quiz
}

func TestStartAttemptAssignsSequentialNumber(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	quiz := sampleQuiz()
	f.quizzes.On("FindByID", "q1").Return(quiz, nil)
	module := &model.Module{FormationID: "f1", Type: model.ModuleQuiz}
	module.ID = "m1"
	f.modules.On("FindByID", "m1").Return(module, nil)

	f.attempts.On("CountByEnrollmentAndQuiz", mock.Anything, "e1", "q1").Return(int64(2), nil)
	f.attempts.On("Create", mock.Anything, mock.Anything).Return(nil)

	attempt, err := f.svc.StartAttempt(7, "e1", "q1")
	require.NoError(t, err)
	assert.Equal(t, 3, attempt.AttemptNumber)
	assert.Equal(t, "e1", attempt.EnrollmentID)
	assert.Nil(t, attempt.CompletedAt)
}

func TestStartAttemptEnforcesAttemptLimit(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	f.quizzes.On("FindByID", "q1").Return(sampleQuiz(), nil)
	module := &model.Module{FormationID: "f1", Type: model.ModuleQuiz}
	module.ID = "m1"
	f.modules.On("FindByID", "m1").Return(module, nil)

	f.attempts.On("CountByEnrollmentAndQuiz", mock.Anything, "e1", "q1").Return(int64(3), nil)

	_, err := f.svc.StartAttempt(7, "e1", "q1")
	assert.ErrorIs(t, err, util.ErrAttemptLimitExceeded)
	f.attempts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartAttemptRejectsQuizFromOtherFormation(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	f.quizzes.On("FindByID", "q1").Return(sampleQuiz(), nil)
	module := &model.Module{FormationID: "autre", Type: model.ModuleQuiz}
	module.ID = "m1"
	f.modules.On("FindByID", "m1").Return(module, nil)

	_, err := f.svc.StartAttempt(7, "e1", "q1")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func openAttempt(id string) *model.QuizAttempt {
	a := &model.QuizAttempt{EnrollmentID: "e1", QuizID: "q1", AttemptNumber: 1, StartedAt: time.Now()}
	a.ID = id
	return a
}

func passingAnswers() []SubmittedAnswer {
	return []SubmittedAnswer{
		{QuestionID: "qq1", AnswerIDs: []string{"a1", "a2"}},
		{QuestionID: "qq2", AnswerIDs: []string{"a4"}},
		{QuestionID: "qq3", Text: "  ergonomie "},
	}
}

func TestSubmitAttemptGradesAndPasses(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	attempt := openAttempt("at1")
	f.attempts.On("FindByID", "at1").Return(attempt, nil)
	f.attempts.On("FindForUpdate", mock.Anything, "at1").Return(attempt, nil)
	f.quizzes.On("FindByID", "q1").Return(sampleQuiz(), nil)
	f.attempts.On("Save", mock.Anything, attempt).Return(nil)

	module := &model.Module{FormationID: "f1", Type: model.ModuleQuiz, IsMandatory: true, PassRequired: true}
	module.ID = "m1"
	f.modules.On("FindByID", "m1").Return(module, nil)

	mp := &model.ModuleProgress{EnrollmentID: "e1", ModuleID: "m1", Status: model.ProgressInProgress}
	f.progress.On("FindForUpdate", mock.Anything, "e1", "m1").Return(mp, nil)
	f.progress.On("Save", mock.Anything, mp).Return(nil)
	// Two modules, one still open: the enrollment stays active.
	f.progress.On("ListByEnrollmentTx", mock.Anything, "e1").Return([]model.ModuleProgress{
		{EnrollmentID: "e1", ModuleID: "m1", Status: model.ProgressCompleted},
		{EnrollmentID: "e1", ModuleID: "m2", Status: model.ProgressNotStarted},
	}, nil)
	f.enrollments.On("Save", mock.Anything, e).Return(nil)

	out, err := f.svc.SubmitAttempt(7, "at1", passingAnswers())
	require.NoError(t, err)
	assert.Equal(t, 4, out.ObtainedPoints)
	assert.Equal(t, 4, out.TotalPoints)
	assert.Equal(t, 100, out.ScorePercentage)
	assert.True(t, out.Passed)
	require.NotNil(t, out.CompletedAt)
	assert.NotEmpty(t, out.Answers)

	// The quiz module completed through the shared path.
	assert.Equal(t, model.ProgressCompleted, mp.Status)

	require.Len(t, f.bus.quizPasses, 1)
	assert.Equal(t, 100, f.bus.quizPasses[0].ScorePercentage)
	assert.Empty(t, f.bus.completions)
}

func TestSubmitAttemptAllOrNothingGrading(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	attempt := openAttempt("at1")
	f.attempts.On("FindByID", "at1").Return(attempt, nil)
	f.attempts.On("FindForUpdate", mock.Anything, "at1").Return(attempt, nil)
	f.quizzes.On("FindByID", "q1").Return(sampleQuiz(), nil)
	f.attempts.On("Save", mock.Anything, attempt).Return(nil)

	// One of two correct options picked: the mcq scores zero, not half.
	out, err := f.svc.SubmitAttempt(7, "at1", []SubmittedAnswer{
		{QuestionID: "qq1", AnswerIDs: []string{"a1"}},
		{QuestionID: "qq2", AnswerIDs: []string{"a4"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.ObtainedPoints)
	assert.Equal(t, 4, out.TotalPoints)
	assert.Equal(t, 25, out.ScorePercentage)
	assert.False(t, out.Passed)
	assert.Empty(t, f.bus.quizPasses)
}

func TestSubmitAttemptRejectsUnknownQuestion(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	attempt := openAttempt("at1")
	f.attempts.On("FindByID", "at1").Return(attempt, nil)
	f.attempts.On("FindForUpdate", mock.Anything, "at1").Return(attempt, nil)
	f.quizzes.On("FindByID", "q1").Return(sampleQuiz(), nil)

	_, err := f.svc.SubmitAttempt(7, "at1", []SubmittedAnswer{
		{QuestionID: "intrus", AnswerIDs: []string{"a1"}},
	})
	assert.ErrorIs(t, err, util.ErrQuestionAnswerMismatch)
	f.attempts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitAttemptIsImmutableOnceCompleted(t *testing.T) {
	f := newQuizFixture()
	e := activeEnrollment("e1", 7)
	f.enrollments.On("FindForUpdate", mock.Anything, "e1").Return(e, nil)

	attempt := openAttempt("at1")
	now := time.Now()
	attempt.CompletedAt = &now
	f.attempts.On("FindByID", "at1").Return(attempt, nil)
	f.attempts.On("FindForUpdate", mock.Anything, "at1").Return(attempt, nil)

	_, err := f.svc.SubmitAttempt(7, "at1", passingAnswers())
	assert.ErrorIs(t, err, util.ErrAttemptAlreadyCompleted)
}

func TestGradeQuizEdgeCases(t *testing.T) {
	t.Run("unanswered questions score zero", func(t *testing.T) {
		obtained, total, err := gradeQuiz(sampleQuiz(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, obtained)
		assert.Equal(t, 4, total)
	})

	t.Run("essay questions are excluded from the total", func(t *testing.T) {
		_, total, err := gradeQuiz(sampleQuiz(), nil)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
	})

	t.Run("duplicate answer ids do not score", func(t *testing.T) {
		obtained, _, err := gradeQuiz(sampleQuiz(), []SubmittedAnswer{
			{QuestionID: "qq1", AnswerIDs: []string{"a1", "a1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, obtained)
	})

	t.Run("fill blank matches case and whitespace insensitively", func(t *testing.T) {
		obtained, _, err := gradeQuiz(sampleQuiz(), []SubmittedAnswer{
			{QuestionID: "qq3", Text: "ERGONOMIE"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, obtained)
	})

	t.Run("quiz with only essay questions never passes", func(t *testing.T) {
		quiz := &model.Quiz{PassPercentage: 80}
		quiz.ID = "q2"
		quiz.Questions = []model.QuizQuestion{question("qq1", model.QuestionEssay, 5)}

		obtained, total, err := gradeQuiz(quiz, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, obtained)
		assert.Equal(t, 0, total)
		assert.Equal(t, 0, scorePercentage(obtained, total))
	})
}

func TestListAttemptsChecksOwnership(t *testing.T) {
	f := newQuizFixture()
	other := activeEnrollment("e1", 99)
	f.enrollments.On("FindByID", "e1").Return(other, nil)

	_, err := f.svc.ListAttempts(7, "e1", "q1")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
