package service

import (
	"errors"
	"math"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"gorm.io/gorm"
)

// EnrollmentService is the ledger: it creates enrollments and owns the
// aggregate completion state derived from per-module progress.
type EnrollmentService struct {
	Enrollments EnrollmentStore
	Progress    ProgressStore
	Formations  FormationStore
	Modules     ModuleStore
	Tx          TxRunner
	Bus         EventPublisher
}

func NewEnrollmentService(
	enrollments EnrollmentStore,
	progress ProgressStore,
	formations FormationStore,
	modules ModuleStore,
	tx TxRunner,
	bus EventPublisher,
) *EnrollmentService {
	return &EnrollmentService{
		Enrollments: enrollments,
		Progress:    progress,
		Formations:  formations,
		Modules:     modules,
		Tx:          tx,
		Bus:         bus,
	}
}

// Enroll registers a learner in a published formation and eagerly creates
// one not_started ModuleProgress per module, so the aggregate never has to
// reason about missing rows.
func (s *EnrollmentService) Enroll(userID uint, formationID string) (*model.Enrollment, error) {
	formation, err := s.Formations.FindWithModules(formationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	if formation.Status != model.FormationPublished {
		return nil, util.ErrFormationUnavailable
	}

	if _, err := s.Enrollments.FindActive(userID, formationID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:      userID,
		FormationID: formationID,
		Status:      model.EnrollmentActive,
		StartedAt:   time.Now(),
	}
	enrollment.ID = model.GenerateUUID()

	// Modules come back ordered by sort_order; the first one is where the
	// learner starts.
	if len(formation.Modules) > 0 {
		first := formation.Modules[0].ID
		enrollment.CurrentModuleID = &first
	}

	progress := make([]model.ModuleProgress, 0, len(formation.Modules))
	for _, m := range formation.Modules {
		progress = append(progress, model.ModuleProgress{
			EnrollmentID: enrollment.ID,
			ModuleID:     m.ID,
			Status:       model.ProgressNotStarted,
		})
	}

	err = s.Tx.InTx(func(tx *gorm.DB) error {
		// Re-check under the transaction so two concurrent enroll requests
		// cannot both create an active enrollment.
		if _, err := s.Enrollments.FindActiveTx(tx, userID, formationID); err == nil {
			return util.ErrAlreadyEnrolled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.Enrollments.Create(tx, enrollment); err != nil {
			return err
		}
		return s.Progress.CreateBatch(tx, progress)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// RecomputeAggregate recalculates progress_percentage from the enrollment's
// module progress rows and performs the completion transition when the
// aggregate reaches 100 with every mandatory module completed. The caller
// must hold the enrollment row lock. Returns true only on the transition
// itself, never on later no-op recomputations.
func (s *EnrollmentService) RecomputeAggregate(tx *gorm.DB, e *model.Enrollment) (bool, error) {
	items, err := s.Progress.ListByEnrollmentTx(tx, e.ID)
	if err != nil {
		return false, err
	}

	completed := make(map[string]bool, len(items))
	for _, p := range items {
		if p.Status == model.ProgressCompleted {
			completed[p.ModuleID] = true
		}
	}

	pct := 0
	if len(items) > 0 {
		pct = int(math.Round(100 * float64(len(completed)) / float64(len(items))))
	}
	e.ProgressPercentage = pct

	transitioned := false
	if e.Status == model.EnrollmentActive && pct == 100 {
		// Rounding can reach 100 before every module is done; mandatory
		// modules must all be completed for the transition.
		modules, err := s.Modules.ListByFormation(e.FormationID)
		if err != nil {
			return false, err
		}
		mandatoryDone := true
		for _, m := range modules {
			if m.IsMandatory && !completed[m.ID] {
				mandatoryDone = false
				break
			}
		}
		if mandatoryDone {
			now := time.Now()
			e.Status = model.EnrollmentCompleted
			e.CompletedAt = &now
			transitioned = true
		}
	}

	if err := s.Enrollments.Save(tx, e); err != nil {
		return false, err
	}
	return transitioned, nil
}

// PublishCompletion emits the formation-completed event. Callers invoke it
// after the transaction that performed the transition has committed.
func (s *EnrollmentService) PublishCompletion(e *model.Enrollment) {
	if s.Bus == nil {
		return
	}
	s.Bus.FormationCompleted(FormationCompletedEvent{
		EnrollmentID: e.ID,
		FormationID:  e.FormationID,
		UserID:       e.UserID,
	})
}

type EnrollmentSummary struct {
	model.Enrollment
	FormationTitle string `json:"formationTitle"`
}

func (s *EnrollmentService) ListMine(userID uint) ([]EnrollmentSummary, error) {
	enrollments, err := s.Enrollments.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	out := make([]EnrollmentSummary, 0, len(enrollments))
	for _, e := range enrollments {
		summary := EnrollmentSummary{Enrollment: e}
		if f, err := s.Formations.FindByID(e.FormationID); err == nil {
			summary.FormationTitle = f.Title
		}
		out = append(out, summary)
	}
	return out, nil
}

type EnrollmentDetail struct {
	Enrollment model.Enrollment       `json:"enrollment"`
	Modules    []ModuleProgressDetail `json:"modules"`
}

type ModuleProgressDetail struct {
	model.ModuleProgress
	Title       string           `json:"title"`
	Type        model.ModuleType `json:"type"`
	IsMandatory bool             `json:"isMandatory"`
	SortOrder   int              `json:"sortOrder"`
}

func (s *EnrollmentService) GetDetail(userID uint, enrollmentID string) (*EnrollmentDetail, error) {
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

	items, err := s.Progress.ListByEnrollment(e.ID)
	if err != nil {
		return nil, err
	}
	modules, err := s.Modules.ListByFormation(e.FormationID)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string]model.ModuleProgress, len(items))
	for _, p := range items {
		byModule[p.ModuleID] = p
	}

	detail := &EnrollmentDetail{Enrollment: *e}
	for _, m := range modules {
		detail.Modules = append(detail.Modules, ModuleProgressDetail{
			ModuleProgress: byModule[m.ID],
			Title:          m.Title,
			Type:           m.Type,
			IsMandatory:    m.IsMandatory,
			SortOrder:      m.SortOrder,
		})
	}
	return detail, nil
}
