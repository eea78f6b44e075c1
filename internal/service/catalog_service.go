package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"formapro_backend/internal/model"
	"formapro_backend/internal/util"
	"formapro_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogListKey = "catalog:published:%d:%d"

// CatalogService serves the learner-facing view of published formations.
// Answer keys never cross this boundary: quizzes are re-shaped into DTOs
// that carry answer texts but not correctness flags.
type CatalogService struct {
	Formations FormationStore
	Redis      *redis.Client
	CacheTTL   time.Duration
}

func NewCatalogService(formations FormationStore, rdb *redis.Client, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{Formations: formations, Redis: rdb, CacheTTL: cacheTTL}
}

type FormationSummary struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PassPercentage int        `json:"passPercentage"`
	ModuleCount    int        `json:"moduleCount"`
	TotalDuration  int        `json:"totalDuration"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
}

type CatalogPage struct {
	List  []FormationSummary `json:"list"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ListPublished serves the catalog page from Redis when possible. A cache
// failure is logged and falls through to the database; the catalog must
// stay up when Redis is down.
func (s *CatalogService) ListPublished(ctx context.Context, page, limit int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	key := fmt.Sprintf(catalogListKey, page, limit)
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached CatalogPage
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	formations, total, err := s.Formations.ListByStatus(model.FormationPublished, page, limit)
	if err != nil {
		return nil, err
	}

	out := &CatalogPage{
		List:  make([]FormationSummary, 0, len(formations)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range formations {
		f := &formations[i]
		full, err := s.Formations.FindWithModules(f.ID)
		if err != nil {
			return nil, err
		}
		out.List = append(out.List, summarize(full))
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.Redis.Set(ctx, key, raw, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return out, nil
}

func summarize(f *model.Formation) FormationSummary {
	duration := 0
	for _, m := range f.Modules {
		duration += m.EstimatedDuration
	}
	return FormationSummary{
		ID:             f.ID,
		Title:          f.Title,
		Description:    f.Description,
		PassPercentage: f.PassPercentage,
		ModuleCount:    len(f.Modules),
		TotalDuration:  duration,
		PublishedAt:    f.PublishedAt,
	}
}

type FormationView struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	PassPercentage int          `json:"passPercentage"`
	PublishedAt    *time.Time   `json:"publishedAt,omitempty"`
	Modules        []ModuleView `json:"modules"`
}

type ModuleView struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Type              model.ModuleType `json:"type"`
	SortOrder         int              `json:"sortOrder"`
	IsMandatory       bool             `json:"isMandatory"`
	PassRequired      bool             `json:"passRequired"`
	EstimatedDuration int              `json:"estimatedDuration"`
	ContentURL        string           `json:"contentUrl"`
	Quiz              *QuizView        `json:"quiz,omitempty"`
}

type QuizView struct {
	ID             string         `json:"id"`
	PassPercentage int            `json:"passPercentage"`
	MaxAttempts    int            `json:"maxAttempts"`
	Questions      []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID      string             `json:"id"`
	Type    model.QuestionType `json:"type"`
	Text    string             `json:"text"`
	Points  int                `json:"points"`
	Answers []AnswerView       `json:"answers"`
}

// AnswerView deliberately has no correctness field.
type AnswerView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// GetFormation returns the full learner view of a published formation,
// quizzes included, answer keys stripped.
func (s *CatalogService) GetFormation(id string) (*FormationView, error) {
	f, err := s.Formations.FindWithModules(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFormationNotFound
		}
		return nil, err
	}
	if f.Status != model.FormationPublished {
		return nil, util.ErrFormationNotFound
	}

	view := &FormationView{
		ID:             f.ID,
		Title:          f.Title,
		Description:    f.Description,
		PassPercentage: f.PassPercentage,
		PublishedAt:    f.PublishedAt,
	}
	for i := range f.Modules {
		m := &f.Modules[i]
		mv := ModuleView{
			ID:                m.ID,
			Title:             m.Title,
			Type:              m.Type,
			SortOrder:         m.SortOrder,
			IsMandatory:       m.IsMandatory,
			PassRequired:      m.PassRequired,
			EstimatedDuration: m.EstimatedDuration,
			ContentURL:        m.ContentURL,
		}
		if m.Quiz != nil {
			mv.Quiz = stripAnswerKey(m.Quiz)
		}
		view.Modules = append(view.Modules, mv)
	}
	return view, nil
}

func stripAnswerKey(q *model.Quiz) *QuizView {
	view := &QuizView{
		ID:             q.ID,
		PassPercentage: q.PassPercentage,
		MaxAttempts:    q.MaxAttempts,
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		qv := QuestionView{
			ID:     question.ID,
			Type:   question.Type,
			Text:   question.Text,
			Points: question.Points,
		}
		// fill_blank expected texts are part of the key, not the prompt.
		if question.Type != model.QuestionFillBlank {
			for _, a := range question.Answers {
				qv.Answers = append(qv.Answers, AnswerView{ID: a.ID, Text: a.Text})
			}
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// InvalidateCache drops every cached catalog page. Called whenever an
// instructor publishes, archives or edits a formation.
func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, "catalog:published:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.Redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("catalog cache scan failed", zap.Error(err))
	}
}
