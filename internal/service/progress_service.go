package service

import (
	"errors"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressService drives the per-module state machine:
// not_started -> in_progress -> completed. completed is terminal; revisiting
// a finished module is a review, not a state change.
//
// Time reporting convention: clients send time *deltas* in minutes, never
// absolute elapsed time. Deltas accumulate server-side, so duplicated or
// out-of-order reports can only over-count, never rewind.
type ProgressService struct {
	Enrollments EnrollmentStore
	Progress    ProgressStore
	Modules     ModuleStore
	Attempts    AttemptStore
	Ledger      *EnrollmentService
	Tx          TxRunner
}

func NewProgressService(
	enrollments EnrollmentStore,
	progress ProgressStore,
	modules ModuleStore,
	attempts AttemptStore,
	ledger *EnrollmentService,
	tx TxRunner,
) *ProgressService {
	return &ProgressService{
		Enrollments: enrollments,
		Progress:    progress,
		Modules:     modules,
		Attempts:    attempts,
		Ledger:      ledger,
		Tx:          tx,
	}
}

// lockEnrollment takes the per-enrollment write lock and checks ownership.
// Unowned enrollments surface as not found rather than forbidden.
func (s *ProgressService) lockEnrollment(tx *gorm.DB, userID uint, enrollmentID string) (*model.Enrollment, error) {
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

func (s *ProgressService) MarkStarted(userID uint, enrollmentID, moduleID string) (*model.ModuleProgress, error) {
	var out *model.ModuleProgress
	err := s.Tx.InTx(func(tx *gorm.DB) error {
		e, err := s.lockEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}

		mp, err := s.Progress.FindForUpdate(tx, enrollmentID, moduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrModuleNotFound
			}
			return err
		}

		if mp.Status != model.ProgressNotStarted {
			out = mp
			return nil
		}

		now := time.Now()
		mp.Status = model.ProgressInProgress
		mp.StartedAt = &now
		if err := s.Progress.Save(tx, mp); err != nil {
			return err
		}

		mid := moduleID
		e.CurrentModuleID = &mid
		if err := s.Enrollments.Save(tx, e); err != nil {
			return err
		}

		out = mp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProgress accumulates reported time and clamps the percentage so it
// never regresses. Rejected input leaves nothing partially applied.
func (s *ProgressService) UpdateProgress(userID uint, enrollmentID, moduleID string, percentage, timeDelta int) (*model.ModuleProgress, error) {
	if percentage < 0 || percentage > 100 || timeDelta < 0 {
		return nil, util.ErrInvalidRange
	}

	var out *model.ModuleProgress
	err := s.Tx.InTx(func(tx *gorm.DB) error {
		e, err := s.lockEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}

		mp, err := s.Progress.FindForUpdate(tx, enrollmentID, moduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrModuleNotFound
			}
			return err
		}

		if mp.Status == model.ProgressNotStarted {
			now := time.Now()
			mp.Status = model.ProgressInProgress
			mp.StartedAt = &now
		}
		if mp.Status != model.ProgressCompleted && percentage > mp.ProgressPercentage {
			mp.ProgressPercentage = percentage
		}
		if err := s.Progress.Save(tx, mp); err != nil {
			return err
		}

		if timeDelta > 0 {
			if err := s.Progress.AddTimeSpent(tx, mp.ID, timeDelta); err != nil {
				return err
			}
			e.TimeSpent += timeDelta
			if err := s.Enrollments.Save(tx, e); err != nil {
				return err
			}
			mp.TimeSpent += timeDelta
		}

		out = mp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkCompleted finishes a module explicitly. Pass-required mandatory quiz
// modules refuse until a passing attempt exists. Completing triggers the
// ledger's aggregate recomputation; the completion event fires only after
// the transaction commits.
func (s *ProgressService) MarkCompleted(userID uint, enrollmentID, moduleID string) (*model.ModuleProgress, error) {
	var out *model.ModuleProgress
	var enr *model.Enrollment
	var completedNow bool

	err := s.Tx.InTx(func(tx *gorm.DB) error {
		e, err := s.lockEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}

		module, err := s.Modules.FindByID(moduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrModuleNotFound
			}
			return err
		}
		if module.FormationID != e.FormationID {
			return util.ErrModuleNotFound
		}

		mp, transitioned, err := s.completeModuleTx(tx, e, module)
		if err != nil {
			return err
		}
		out = mp
		enr = e
		completedNow = transitioned
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completedNow {
		s.Ledger.PublishCompletion(enr)
	}
	return out, nil
}

// completeModuleTx is the shared completion path for explicit completion
// and passing quiz attempts. The enrollment row must already be locked.
// Completing an already-completed module is a no-op and reports no
// transition, which keeps the completion event single-shot.
func (s *ProgressService) completeModuleTx(tx *gorm.DB, e *model.Enrollment, module *model.Module) (*model.ModuleProgress, bool, error) {
	mp, err := s.Progress.FindForUpdate(tx, e.ID, module.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrModuleNotFound
		}
		return nil, false, err
	}

	if mp.Status == model.ProgressCompleted {
		return mp, false, nil
	}

	if module.IsMandatory && module.Type == model.ModuleQuiz && module.PassRequired && module.Quiz != nil {
		passed, err := s.Attempts.HasPassed(tx, e.ID, module.Quiz.ID)
		if err != nil {
			return nil, false, err
		}
		if !passed {
			return nil, false, &util.MandatoryQuizError{ModuleID: module.ID, QuizID: module.Quiz.ID}
		}
	}

	now := time.Now()
	mp.Status = model.ProgressCompleted
	mp.CompletedAt = &now
	mp.ProgressPercentage = 100
	if mp.StartedAt == nil {
		mp.StartedAt = &now
	}
	if err := s.Progress.Save(tx, mp); err != nil {
		return nil, false, err
	}

	transitioned, err := s.Ledger.RecomputeAggregate(tx, e)
	if err != nil {
		return nil, false, err
	}
	return mp, transitioned, nil
}
