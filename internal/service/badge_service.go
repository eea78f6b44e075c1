package service

import (
	"formapro_backend/internal/model"
	"formapro_backend/pkg/logger"

	"go.uber.org/zap"
)

// Badge codes seeded at migration time.
const (
	BadgeFirstFormation = "first_formation"
	BadgePerfectScore   = "perfect_score"
	BadgeFiveFormations = "five_formations"
)

// BadgeService awards badges off the event bus. Award is a FirstOrCreate
// behind a unique index, so re-delivered events and concurrent handlers
// cannot double-award.
type BadgeService struct {
	Badges      BadgeStore
	Enrollments EnrollmentStore
}

func NewBadgeService(badges BadgeStore, enrollments EnrollmentStore) *BadgeService {
	return &BadgeService{Badges: badges, Enrollments: enrollments}
}

func (s *BadgeService) HandleFormationCompleted(evt FormationCompletedEvent) {
	count, err := s.Enrollments.CountCompletedByUser(evt.UserID)
	if err != nil {
		logger.Log.Error("badge evaluation failed",
			zap.Uint("user_id", evt.UserID),
			zap.Error(err))
		return
	}

	if count >= 1 {
		s.award(evt.UserID, BadgeFirstFormation)
	}
	if count >= 5 {
		s.award(evt.UserID, BadgeFiveFormations)
	}
}

func (s *BadgeService) HandleQuizPassed(evt QuizPassedEvent) {
	if evt.ScorePercentage == 100 {
		s.award(evt.UserID, BadgePerfectScore)
	}
}

func (s *BadgeService) award(userID uint, code string) {
	badge, err := s.Badges.FindByCode(code)
	if err != nil {
		logger.Log.Error("badge lookup failed", zap.String("code", code), zap.Error(err))
		return
	}
	if err := s.Badges.Award(userID, badge.ID); err != nil {
		logger.Log.Error("badge award failed",
			zap.Uint("user_id", userID),
			zap.String("code", code),
			zap.Error(err))
	}
}

func (s *BadgeService) ListMine(userID uint) ([]model.UserBadge, error) {
	return s.Badges.ListByUser(userID)
}
