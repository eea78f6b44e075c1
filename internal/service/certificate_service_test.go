package service

import (
	"context"
	"testing"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryStorage keeps uploaded artifacts in a map.
type memoryStorage struct {
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	s.objects[name] = data
	return "/static/" + name, nil
}

func certFixture(certs *MockCertificateStore, enrollments *MockEnrollmentStore, storage StorageProvider) (*CertificateService, *MockUserStore, *MockFormationStore) {
	users := new(MockUserStore)
	formations := new(MockFormationStore)
	svc := NewCertificateService(certs, enrollments, formations, users, storage, "FormaPro+")
	return svc, users, formations
}

func TestIssueCertificateOnCompletionEvent(t *testing.T) {
	certs := new(MockCertificateStore)
	storage := newMemoryStorage()
	svc, users, formations := certFixture(certs, new(MockEnrollmentStore), storage)

	certs.On("FindByEnrollment", "e1").Return(nil, gorm.ErrRecordNotFound)
	user := &model.User{Name: "Aïcha Diallo"}
	user.ID = 7
	users.On("FindByID", uint(7)).Return(user, nil)
	formation := &model.Formation{Title: "Gestes et postures"}
	formation.ID = "f1"
	formations.On("FindByID", "f1").Return(formation, nil)
	certs.On("Create", mock.Anything).Return(nil)

	cert, err := svc.issue(context.Background(), FormationCompletedEvent{EnrollmentID: "e1", FormationID: "f1", UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "e1", cert.EnrollmentID)
	assert.NotEmpty(t, cert.SerialNumber)
	assert.Contains(t, cert.FileURL, cert.SerialNumber)
	require.Len(t, storage.objects, 1)

	rendered := string(storage.objects["certificates/"+cert.SerialNumber+".html"])
	assert.Contains(t, rendered, "Aïcha Diallo")
	assert.Contains(t, rendered, "Gestes et postures")
}

func TestIssueCertificateIsIdempotent(t *testing.T) {
	certs := new(MockCertificateStore)
	storage := newMemoryStorage()
	svc, _, _ := certFixture(certs, new(MockEnrollmentStore), storage)

	existing := &model.Certificate{EnrollmentID: "e1", SerialNumber: "FP-X"}
	certs.On("FindByEnrollment", "e1").Return(existing, nil)

	cert, err := svc.issue(context.Background(), FormationCompletedEvent{EnrollmentID: "e1", FormationID: "f1", UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, existing, cert)
	assert.Empty(t, storage.objects)
	certs.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGetByEnrollmentBeforeIssuance(t *testing.T) {
	certs := new(MockCertificateStore)
	enrollments := new(MockEnrollmentStore)
	svc, _, _ := certFixture(certs, enrollments, newMemoryStorage())

	e := activeEnrollment("e1", 7)
	enrollments.On("FindByID", "e1").Return(e, nil)
	certs.On("FindByEnrollment", "e1").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByEnrollment(7, "e1")
	assert.ErrorIs(t, err, util.ErrCertificateNotIssued)
}

func TestGetByEnrollmentChecksOwnership(t *testing.T) {
	certs := new(MockCertificateStore)
	enrollments := new(MockEnrollmentStore)
	svc, _, _ := certFixture(certs, enrollments, newMemoryStorage())

	e := activeEnrollment("e1", 99)
	enrollments.On("FindByID", "e1").Return(e, nil)

	_, err := svc.GetByEnrollment(7, "e1")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
