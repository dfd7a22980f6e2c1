package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"go.uber.org/zap"
)

const (
	defaultSurveyPageSize = 20
	maxSurveyPageSize     = 100
)

type SurveyList struct {
	Items  []model.Survey `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type SurveyService interface {
	// Create registers a survey. A blank session_id gets a generated one.
	Create(ctx context.Context, s *model.Survey) (*model.Survey, error)
	Get(ctx context.Context, sessionID string) (*model.Survey, error)
	List(ctx context.Context, limit, offset int) (*SurveyList, error)
	// Delete removes the survey and everything under it: DB cascade for the
	// constrained children, app-side cleanup for the unconstrained repeated
	// modules, best-effort removal of image files.
	Delete(ctx context.Context, sessionID string) error
}

type surveyService struct {
	repo    repo.SurveyRepo
	purgers []SessionPurger
	events  *Events
	log     *zap.Logger
}

func NewSurveyService(r repo.SurveyRepo, purgers []SessionPurger, events *Events, log *zap.Logger) SurveyService {
	return &surveyService{repo: r, purgers: purgers, events: events, log: log}
}

func (s *surveyService) Create(ctx context.Context, survey *model.Survey) (*model.Survey, error) {
	survey.SessionID = strings.TrimSpace(survey.SessionID)
	if survey.SessionID == "" {
		survey.SessionID = uuid.NewString()
	}
	if len(survey.SessionID) > 64 {
		return nil, NewValidation("session_id must be at most 64 characters")
	}
	if err := s.repo.Create(ctx, survey); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, NewDuplicate("Survey with session_id '%s' already exists", survey.SessionID)
		}
		return nil, NewInternal(err, "create survey")
	}
	return survey, nil
}

func (s *surveyService) Get(ctx context.Context, sessionID string) (*model.Survey, error) {
	survey, err := s.repo.Get(ctx, sessionID)
	if repo.IsNotFound(err) {
		return nil, NewNotFound("Survey with session_id '%s' not found", sessionID)
	}
	if err != nil {
		return nil, NewInternal(err, "load survey")
	}
	return survey, nil
}

func (s *surveyService) List(ctx context.Context, limit, offset int) (*SurveyList, error) {
	if limit <= 0 {
		limit = defaultSurveyPageSize
	}
	if limit > maxSurveyPageSize {
		limit = maxSurveyPageSize
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, NewInternal(err, "list surveys")
	}
	return &SurveyList{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *surveyService) Delete(ctx context.Context, sessionID string) error {
	exists, err := s.repo.Exists(ctx, sessionID)
	if err != nil {
		return NewInternal(err, "check survey")
	}
	if !exists {
		return NewNotFound("Survey with session_id '%s' not found", sessionID)
	}

	// Collect and drop image files before the DB cascade erases the rows
	// that point at them.
	for _, p := range s.purgers {
		p.PurgeSession(ctx, sessionID)
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		if repo.IsNotFound(err) {
			return NewNotFound("Survey with session_id '%s' not found", sessionID)
		}
		return NewInternal(err, "delete survey")
	}

	s.events.SurveyDeleted(ctx, sessionID)
	return nil
}
