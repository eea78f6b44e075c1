package service

import (
	"testing"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func publishedFormation(id string, moduleIDs ...string) *model.Formation {
	f := &model.Formation{Status: model.FormationPublished, Title: "Gestes et postures"}
	f.ID = id
	for i, mid := range moduleIDs {
		m := model.Module{FormationID: id, Title: "Module", Type: model.ModuleVideo, SortOrder: i}
		m.ID = mid
		f.Modules = append(f.Modules, m)
	}
	return f
}

func TestEnrollCreatesProgressRows(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	progress := new(MockProgressStore)
	formations := new(MockFormationStore)

	formations.On("FindWithModules", "f1").Return(publishedFormation("f1", "m1", "m2", "m3"), nil)
	enrollments.On("FindActive", uint(7), "f1").Return(nil, gorm.ErrRecordNotFound)
	enrollments.On("FindActiveTx", mock.Anything, uint(7), "f1").Return(nil, gorm.ErrRecordNotFound)
	enrollments.On("Create", mock.Anything, mock.Anything).Return(nil)
	progress.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	svc := NewEnrollmentService(enrollments, progress, formations, new(MockModuleStore), fakeTxRunner{}, nil)

	e, err := svc.Enroll(7, "f1")
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, e.Status)
	assert.Equal(t, 0, e.ProgressPercentage)
	require.NotNil(t, e.CurrentModuleID)
	assert.Equal(t, "m1", *e.CurrentModuleID)

	created := progress.Calls[0].Arguments.Get(1).([]model.ModuleProgress)
	require.Len(t, created, 3)
	for _, p := range created {
		assert.Equal(t, model.ProgressNotStarted, p.Status)
		assert.Equal(t, e.ID, p.EnrollmentID)
	}
}

func TestEnrollRejectsUnpublishedFormation(t *testing.T) {
	formations := new(MockFormationStore)
	draft := publishedFormation("f1", "m1")
	draft.Status = model.FormationDraft
	formations.On("FindWithModules", "f1").Return(draft, nil)

	svc := NewEnrollmentService(new(MockEnrollmentStore), new(MockProgressStore), formations, new(MockModuleStore), fakeTxRunner{}, nil)

	_, err := svc.Enroll(7, "f1")
	assert.ErrorIs(t, err, util.ErrFormationUnavailable)
}

func TestEnrollRejectsSecondActiveEnrollment(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	formations := new(MockFormationStore)

	formations.On("FindWithModules", "f1").Return(publishedFormation("f1", "m1"), nil)
	existing := &model.Enrollment{UserID: 7, FormationID: "f1", Status: model.EnrollmentActive}
	enrollments.On("FindActive", uint(7), "f1").Return(existing, nil)

	svc := NewEnrollmentService(enrollments, new(MockProgressStore), formations, new(MockModuleStore), fakeTxRunner{}, nil)

	_, err := svc.Enroll(7, "f1")
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollUnknownFormation(t *testing.T) {
	formations := new(MockFormationStore)
	formations.On("FindWithModules", "nope").Return(nil, gorm.ErrRecordNotFound)

	svc := NewEnrollmentService(new(MockEnrollmentStore), new(MockProgressStore), formations, new(MockModuleStore), fakeTxRunner{}, nil)

	_, err := svc.Enroll(7, "nope")
	assert.ErrorIs(t, err, util.ErrFormationNotFound)
}

func TestEnrollAllowsReEnrollAfterCancellation(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	progress := new(MockProgressStore)
	formations := new(MockFormationStore)

	formations.On("FindWithModules", "f1").Return(publishedFormation("f1", "m1"), nil)
	// Cancelled enrollments are not returned by FindActive.
	enrollments.On("FindActive", uint(7), "f1").Return(nil, gorm.ErrRecordNotFound)
	enrollments.On("FindActiveTx", mock.Anything, uint(7), "f1").Return(nil, gorm.ErrRecordNotFound)
	enrollments.On("Create", mock.Anything, mock.Anything).Return(nil)
	progress.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	svc := NewEnrollmentService(enrollments, progress, formations, new(MockModuleStore), fakeTxRunner{}, nil)

	_, err := svc.Enroll(7, "f1")
	assert.NoError(t, err)
}

func progressRows(enrollmentID string, statuses map[string]model.ProgressStatus) []model.ModuleProgress {
	out := make([]model.ModuleProgress, 0, len(statuses))
	for moduleID, status := range statuses {
		out = append(out, model.ModuleProgress{EnrollmentID: enrollmentID, ModuleID: moduleID, Status: status})
	}
	return out
}

func TestRecomputeAggregateRoundsPercentage(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	progress := new(MockProgressStore)

	e := &model.Enrollment{UserID: 7, FormationID: "f1", Status: model.EnrollmentActive}
	e.ID = "e1"

	progress.On("ListByEnrollmentTx", mock.Anything, "e1").Return(progressRows("e1", map[string]model.ProgressStatus{
		"m1": model.ProgressCompleted,
		"m2": model.ProgressInProgress,
		"m3": model.ProgressNotStarted,
	}), nil)
	enrollments.On("Save", mock.Anything, e).Return(nil)

	svc := NewEnrollmentService(enrollments, progress, new(MockFormationStore), new(MockModuleStore), fakeTxRunner{}, nil)

	transitioned, err := svc.RecomputeAggregate(nil, e)
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, 33, e.ProgressPercentage)
	assert.Equal(t, model.EnrollmentActive, e.Status)
}

func TestRecomputeAggregateCompletionTransition(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	progress := new(MockProgressStore)
	modules := new(MockModuleStore)

	e := &model.Enrollment{UserID: 7, FormationID: "f1", Status: model.EnrollmentActive}
	e.ID = "e1"

	progress.On("ListByEnrollmentTx", mock.Anything, "e1").Return(progressRows("e1", map[string]model.ProgressStatus{
		"m1": model.ProgressCompleted,
		"m2": model.ProgressCompleted,
	}), nil)

	m1 := model.Module{IsMandatory: true}
	m1.ID = "m1"
	m2 := model.Module{}
	m2.ID = "m2"
	modules.On("ListByFormation", "f1").Return([]model.Module{m1, m2}, nil)
	enrollments.On("Save", mock.Anything, e).Return(nil)

	svc := NewEnrollmentService(enrollments, progress, new(MockFormationStore), modules, fakeTxRunner{}, nil)

	transitioned, err := svc.RecomputeAggregate(nil, e)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, 100, e.ProgressPercentage)
	assert.Equal(t, model.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)

	// A second recomputation on the completed enrollment must not report
	// the transition again.
	transitioned, err = svc.RecomputeAggregate(nil, e)
	require.NoError(t, err)
	assert.False(t, transitioned)
}

func TestRecomputeAggregateHoldsTransitionWhileMandatoryIncomplete(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	progress := new(MockProgressStore)
	modules := new(MockModuleStore)

	e := &model.Enrollment{UserID: 7, FormationID: "f1", Status: model.EnrollmentActive}
	e.ID = "e1"

	progress.On("ListByEnrollmentTx", mock.Anything, "e1").Return(progressRows("e1", map[string]model.ProgressStatus{
		"m1": model.ProgressCompleted,
	}), nil)

	// The formation carries a mandatory module whose progress row shows up
	// completed only for m1; m2 stays open.
	m1 := model.Module{}
	m1.ID = "m1"
	m2 := model.Module{IsMandatory: true}
	m2.ID = "m2"
	modules.On("ListByFormation", "f1").Return([]model.Module{m1, m2}, nil)
	enrollments.On("Save", mock.Anything, e).Return(nil)

	svc := NewEnrollmentService(enrollments, progress, new(MockFormationStore), modules, fakeTxRunner{}, nil)

	transitioned, err := svc.RecomputeAggregate(nil, e)
	require.NoError(t, err)
	// Single row at 100% with a mandatory module missing from the
	// completed set: status must stay active.
	assert.False(t, transitioned)
	assert.Equal(t, model.EnrollmentActive, e.Status)
}

func TestGetDetailHidesForeignEnrollments(t *testing.T) {
	enrollments := new(MockEnrollmentStore)
	other := &model.Enrollment{UserID: 99, FormationID: "f1"}
	other.ID = "e1"
	enrollments.On("FindByID", "e1").Return(other, nil)

	svc := NewEnrollmentService(enrollments, new(MockProgressStore), new(MockFormationStore), new(MockModuleStore), fakeTxRunner{}, nil)

	_, err := svc.GetDetail(7, "e1")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
