package service

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/infra/storage"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"go.uber.org/zap"
)

// maxEntityIndex bounds entity_index for every repeated module.
const maxEntityIndex = 50

// IndexedFormService is the contract of the repeated modules (radio units,
// new antennas, FPFHs), keyed by (session_id, entity_index). Their tables
// carry no DB foreign key to surveys, so the parent check happens here.
type IndexedFormService[T any, PT interface {
	*T
	repo.IndexScoped
}] interface {
	List(ctx context.Context, sessionID string) ([]T, error)
	Get(ctx context.Context, sessionID string, index int) (PT, error)
	Put(ctx context.Context, sessionID string, index int, rec PT) (PT, error)
	Delete(ctx context.Context, sessionID string, index int) error
}

type IndexedFormHooks[T any, PT interface {
	*T
	repo.IndexScoped
}] struct {
	Label     string
	Module    string
	Validate  func(rec PT) error
	Normalize func(rec PT)
}

type indexedImagePurger interface {
	purgeIndex(ctx context.Context, sessionID string, index int)
}

type indexedFormService[T any, PT interface {
	*T
	repo.IndexScoped
}] struct {
	repo    repo.IndexedFormRepo[T, PT]
	surveys repo.SurveyRepo
	images  indexedImagePurger
	hooks   IndexedFormHooks[T, PT]
	events  *Events
	log     *zap.Logger
}

func NewIndexedFormService[T any, PT interface {
	*T
	repo.IndexScoped
}](
	r repo.IndexedFormRepo[T, PT],
	surveys repo.SurveyRepo,
	images indexedImagePurger,
	events *Events,
	log *zap.Logger,
	hooks IndexedFormHooks[T, PT],
) IndexedFormService[T, PT] {
	return &indexedFormService[T, PT]{
		repo: r, surveys: surveys, images: images,
		hooks: hooks, events: events, log: log,
	}
}

func (s *indexedFormService[T, PT]) List(ctx context.Context, sessionID string) ([]T, error) {
	items, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, NewInternal(err, "list %s entries", s.hooks.Label)
	}
	return items, nil
}

func (s *indexedFormService[T, PT]) Get(ctx context.Context, sessionID string, index int) (PT, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	rec, err := s.repo.Get(ctx, sessionID, index)
	if repo.IsNotFound(err) {
		return nil, NewNotFound("%s entry %d not found for session_id '%s'", s.hooks.Label, index, sessionID)
	}
	if err != nil {
		return nil, NewInternal(err, "load %s entry", s.hooks.Label)
	}
	return rec, nil
}

func (s *indexedFormService[T, PT]) Put(ctx context.Context, sessionID string, index int, rec PT) (PT, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}

	// No FK on these tables, so enforce the parent survey app-side.
	exists, err := s.surveys.Exists(ctx, sessionID)
	if err != nil {
		return nil, NewInternal(err, "check survey")
	}
	if !exists {
		return nil, SurveyNotFound(sessionID)
	}

	rec.SetSessionID(sessionID)
	rec.SetEntityIndex(index)
	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(rec); err != nil {
			return nil, asValidation(err)
		}
	}
	if s.hooks.Normalize != nil {
		s.hooks.Normalize(rec)
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, NewDuplicate("%s entry %d already exists for session_id '%s'", s.hooks.Label, index, sessionID)
		}
		return nil, NewInternal(err, "write %s entry", s.hooks.Label)
	}

	stored, err := s.repo.Get(ctx, sessionID, index)
	if err != nil {
		return nil, NewInternal(err, "reload %s entry", s.hooks.Label)
	}
	s.events.FormUpdated(ctx, s.hooks.Module, sessionID)
	return stored, nil
}

func (s *indexedFormService[T, PT]) Delete(ctx context.Context, sessionID string, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID, index); err != nil {
		if repo.IsNotFound(err) {
			return NewNotFound("%s entry %d not found for session_id '%s'", s.hooks.Label, index, sessionID)
		}
		return NewInternal(err, "delete %s entry", s.hooks.Label)
	}
	if s.images != nil {
		s.images.purgeIndex(ctx, sessionID, index)
	}
	s.events.FormUpdated(ctx, s.hooks.Module, sessionID)
	return nil
}

func (s *indexedFormService[T, PT]) checkIndex(index int) error {
	if index < 0 || index >= maxEntityIndex {
		return NewValidation("entity index must be between 0 and %d", maxEntityIndex-1)
	}
	return nil
}

// indexPurge is the shared implementation of indexedImagePurger: deactivate
// the active images of a deleted entry and drop their files, best-effort.
type indexPurge[T any, PT interface {
	*T
	repo.ImageRecord
}] struct {
	images repo.ImageRepo[T, PT]
	store  *storage.Store
	log    *zap.Logger
	label  string
}

func NewIndexPurge[T any, PT interface {
	*T
	repo.ImageRecord
}](images repo.ImageRepo[T, PT], store *storage.Store, log *zap.Logger, label string) indexedImagePurger {
	return &indexPurge[T, PT]{images: images, store: store, log: log, label: label}
}

func (p *indexPurge[T, PT]) purgeIndex(ctx context.Context, sessionID string, index int) {
	active, err := p.images.ListActive(ctx, sessionID)
	if err != nil {
		p.log.Warn("list images for purge failed",
			zap.String("module", p.label), zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	for i := range active {
		meta := PT(&active[i]).Meta()
		if meta.EntityIndex == nil || *meta.EntityIndex != index {
			continue
		}
		if err := p.images.Deactivate(ctx, meta.ID); err != nil {
			p.log.Warn("deactivate image failed",
				zap.String("module", p.label), zap.Uint("image_id", meta.ID), zap.Error(err))
			continue
		}
		if err := p.store.Remove(meta.Category, meta.StoredName); err != nil {
			p.log.Warn("remove image file failed",
				zap.String("module", p.label), zap.String("stored_name", meta.StoredName), zap.Error(err))
		}
	}
}
