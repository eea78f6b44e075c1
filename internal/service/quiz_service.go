package service

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizService records attempts and grades them server-side. Client-reported
// scores are never trusted; the stored answer key is the only authority.
type QuizService struct {
	Enrollments EnrollmentStore
	Modules     ModuleStore
	Quizzes     QuizStore
	Attempts    AttemptStore
	Progress    *ProgressService
	Ledger      *EnrollmentService
	Tx          TxRunner
	Bus         EventPublisher
}

func NewQuizService(
	enrollments EnrollmentStore,
	modules ModuleStore,
	quizzes QuizStore,
	attempts AttemptStore,
	progress *ProgressService,
	ledger *EnrollmentService,
	tx TxRunner,
	bus EventPublisher,
) *QuizService {
	return &QuizService{
		Enrollments: enrollments,
		Modules:     modules,
		Quizzes:     quizzes,
		Attempts:    attempts,
		Progress:    progress,
		Ledger:      ledger,
		Tx:          tx,
		Bus:         bus,
	}
}

// SubmittedAnswer is one answer in a submission: chosen answer ids for
// choice questions, free text for fill_blank. The whole slice is persisted
// on the attempt as an immutable snapshot.
type SubmittedAnswer struct {
	QuestionID string   `json:"questionId" binding:"required"`
	AnswerIDs  []string `json:"answerIds,omitempty"`
	Text       string   `json:"text,omitempty"`
}

// StartAttempt opens attempt number count+1, or refuses once max_attempts
// is reached. Counting happens under the enrollment lock, so the sequence
// has no gaps and no duplicates.
func (s *QuizService) StartAttempt(userID uint, enrollmentID, quizID string) (*model.QuizAttempt, error) {
	var attempt *model.QuizAttempt
	err := s.Tx.InTx(func(tx *gorm.DB) error {
		e, err := s.lockActiveEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}

		quiz, err := s.findQuizForEnrollment(quizID, e)
		if err != nil {
			return err
		}

		count, err := s.Attempts.CountByEnrollmentAndQuiz(tx, e.ID, quiz.ID)
		if err != nil {
			return err
		}
		if quiz.MaxAttempts > 0 && count >= int64(quiz.MaxAttempts) {
			return util.ErrAttemptLimitExceeded
		}

		attempt = &model.QuizAttempt{
			EnrollmentID:  e.ID,
			QuizID:        quiz.ID,
			AttemptNumber: int(count) + 1,
			StartedAt:     time.Now(),
		}
		return s.Attempts.Create(tx, attempt)
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// SubmitAttempt grades the submission and stamps the attempt completed.
// A completed attempt is immutable; a passing attempt completes the quiz's
// module through the shared completion path.
func (s *QuizService) SubmitAttempt(userID uint, attemptID string, answers []SubmittedAnswer) (*model.QuizAttempt, error) {
	existing, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	var attempt *model.QuizAttempt
	var enr *model.Enrollment
	var completedNow bool

	err = s.Tx.InTx(func(tx *gorm.DB) error {
		// Enrollment lock first: same ordering as every other write path.
		e, err := s.lockActiveEnrollment(tx, userID, existing.EnrollmentID)
		if err != nil {
			return err
		}

		a, err := s.Attempts.FindForUpdate(tx, attemptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrAttemptNotFound
			}
			return err
		}
		if a.CompletedAt != nil {
			return util.ErrAttemptAlreadyCompleted
		}

		quiz, err := s.Quizzes.FindByID(a.QuizID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuizNotFound
			}
			return err
		}

		obtained, total, err := gradeQuiz(quiz, answers)
		if err != nil {
			return err
		}

		snapshot, err := json.Marshal(answers)
		if err != nil {
			return err
		}

		now := time.Now()
		a.Answers = datatypes.JSON(snapshot)
		a.ObtainedPoints = obtained
		a.TotalPoints = total
		a.ScorePercentage = scorePercentage(obtained, total)
		a.Passed = total > 0 && a.ScorePercentage >= quiz.PassPercentage
		a.CompletedAt = &now
		if err := s.Attempts.Save(tx, a); err != nil {
			return err
		}

		if a.Passed {
			module, err := s.Modules.FindByID(quiz.ModuleID)
			if err != nil {
				return err
			}
			_, transitioned, err := s.Progress.completeModuleTx(tx, e, module)
			if err != nil {
				return err
			}
			completedNow = transitioned
		}

		attempt = a
		enr = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Bus != nil && attempt.Passed {
		s.Bus.QuizPassed(QuizPassedEvent{
			EnrollmentID:    enr.ID,
			QuizID:          attempt.QuizID,
			UserID:          enr.UserID,
			ScorePercentage: attempt.ScorePercentage,
		})
	}
	if completedNow {
		s.Ledger.PublishCompletion(enr)
	}
	return attempt, nil
}

func (s *QuizService) ListAttempts(userID uint, enrollmentID, quizID string) ([]model.QuizAttempt, error) {
	e, err := s.Enrollments.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if e.UserID != userID {
		return nil, util.ErrEnrollmentNotFound
	}
	return s.Attempts.ListByEnrollmentAndQuiz(enrollmentID, quizID)
}

func (s *QuizService) lockActiveEnrollment(tx *gorm.DB, userID uint, enrollmentID string) (*model.Enrollment, error) {
	e, err := s.Enrollments.FindForUpdate(tx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if e.UserID != userID {
		return nil, util.ErrEnrollmentNotFound
	}
	if e.Status == model.EnrollmentCancelled {
		return nil, util.ErrEnrollmentNotActive
	}
	return e, nil
}

func (s *QuizService) findQuizForEnrollment(quizID string, e *model.Enrollment) (*model.Quiz, error) {
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
	if module.FormationID != e.FormationID {
		return nil, util.ErrQuizNotFound
	}
	return quiz, nil
}

// gradeQuiz scores all-or-nothing per question: full points when the
// submission matches the answer key exactly, zero otherwise. Essay
// questions need manual review and are excluded from the auto-graded
// total. Unknown question ids reject the whole submission before anything
// is recorded.
func gradeQuiz(quiz *model.Quiz, answers []SubmittedAnswer) (obtained, total int, err error) {
	known := make(map[string]*model.QuizQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		known[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	submitted := make(map[string]SubmittedAnswer, len(answers))
	for _, sub := range answers {
		if _, ok := known[sub.QuestionID]; !ok {
			return 0, 0, util.ErrQuestionAnswerMismatch
		}
		submitted[sub.QuestionID] = sub
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.Type == model.QuestionEssay {
			continue
		}
		total += q.Points
		sub, ok := submitted[q.ID]
		if !ok {
			continue // unanswered scores zero
		}
		if questionCorrect(q, sub) {
			obtained += q.Points
		}
	}
	return obtained, total, nil
}

func questionCorrect(q *model.QuizQuestion, sub SubmittedAnswer) bool {
	if q.Type == model.QuestionFillBlank {
		text := normalizeAnswer(sub.Text)
		if text == "" {
			return false
		}
		for _, a := range q.Answers {
			if a.IsCorrect && normalizeAnswer(a.Text) == text {
				return true
			}
		}
		return false
	}

	// Choice questions: the chosen set must equal the correct set.
	correct := make(map[string]bool)
	for _, a := range q.Answers {
		if a.IsCorrect {
			correct[a.ID] = true
		}
	}
	if len(correct) == 0 || len(sub.AnswerIDs) != len(correct) {
		return false
	}
	seen := make(map[string]bool, len(sub.AnswerIDs))
	for _, id := range sub.AnswerIDs {
		if seen[id] {
			return false
		}
		seen[id] = true
		if !correct[id] {
			return false
		}
	}
	return true
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func scorePercentage(obtained, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(obtained) / float64(total)))
}
