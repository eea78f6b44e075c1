package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"
	"formapro_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CertificateService issues completion certificates. It subscribes to the
// formation-completed event; issuance is idempotent through the unique
// index on enrollment_id, so replaying the event cannot duplicate anything.
type CertificateService struct {
	Certificates CertificateStore
	Enrollments  EnrollmentStore
	Formations   FormationStore
	Users        UserStore
	Storage      StorageProvider
	Issuer       string
}

func NewCertificateService(
	certificates CertificateStore,
	enrollments EnrollmentStore,
	formations FormationStore,
	users UserStore,
	storage StorageProvider,
	issuer string,
) *CertificateService {
	return &CertificateService{
		Certificates: certificates,
		Enrollments:  enrollments,
		Formations:   formations,
		Users:        users,
		Storage:      storage,
		Issuer:       issuer,
	}
}

var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Certificat de réussite</title></head>
<body>
  <h1>Certificat de réussite</h1>
  <p>{{.Issuer}} certifie que</p>
  <h2>{{.UserName}}</h2>
  <p>a complété avec succès la formation</p>
  <h2>{{.FormationTitle}}</h2>
  <p>le {{.IssuedAt}}</p>
  <p>N° de série : {{.SerialNumber}}</p>
</body>
</html>
`))

// HandleFormationCompleted runs asynchronously off the event bus. Failures
// are logged, never propagated: certificate issuance must not affect the
// learner-facing request that triggered it.
func (s *CertificateService) HandleFormationCompleted(evt FormationCompletedEvent) {
	if _, err := s.issue(context.Background(), evt); err != nil {
		logger.Log.Error("certificate issuance failed",
			zap.String("enrollment_id", evt.EnrollmentID),
			zap.Error(err))
	}
}

func (s *CertificateService) issue(ctx context.Context, evt FormationCompletedEvent) (*model.Certificate, error) {
	if existing, err := s.Certificates.FindByEnrollment(evt.EnrollmentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.Users.FindByID(evt.UserID)
	if err != nil {
		return nil, err
	}
	formation, err := s.Formations.FindByID(evt.FormationID)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now()
	serial := fmt.Sprintf("FP-%s-%s",
		issuedAt.Format("20060102"),
		strings.ToUpper(model.GenerateUUID()[:8]))

	var buf bytes.Buffer
	err = certificateTmpl.Execute(&buf, map[string]string{
		"Issuer":         s.Issuer,
		"UserName":       user.Name,
		"FormationTitle": formation.Title,
		"IssuedAt":       issuedAt.Format("02/01/2006"),
		"SerialNumber":   serial,
	})
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("certificates/%s.html", serial)
	url, err := s.Storage.Put(ctx, name, buf.Bytes(), "text/html; charset=utf-8")
	if err != nil {
		return nil, err
	}

	cert := &model.Certificate{
		EnrollmentID: evt.EnrollmentID,
		FormationID:  evt.FormationID,
		UserID:       evt.UserID,
		SerialNumber: serial,
		FileURL:      url,
		IssuedAt:     issuedAt,
	}
	if err := s.Certificates.Create(cert); err != nil {
		// A concurrent handler may have won the race on the unique index.
		if existing, findErr := s.Certificates.FindByEnrollment(evt.EnrollmentID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) ListMine(userID uint) ([]model.Certificate, error) {
	return s.Certificates.ListByUser(userID)
}

// GetByEnrollment returns the certificate for one of the caller's
// enrollments, or not found while it has not been issued yet.
func (s *CertificateService) GetByEnrollment(userID uint, enrollmentID string) (*model.Certificate, error) {
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

	cert, err := s.Certificates.FindByEnrollment(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotIssued
		}
		return nil, err
	}
	return cert, nil
}
