package service

import (
	"context"
	"errors"

	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/pkg/forms"
	"go.uber.org/zap"
)

// FormService is the uniform contract of every singleton form module.
// Get never creates a row; a session without data yields the module's
// default shape. Put carries full-row upsert semantics.
type FormService[T any, PT interface {
	*T
	repo.SessionScoped
}] interface {
	Get(ctx context.Context, sessionID string) (PT, error)
	Put(ctx context.Context, sessionID string, rec PT) (PT, error)
	Patch(ctx context.Context, sessionID string, fields map[string]any) (PT, error)
	Delete(ctx context.Context, sessionID string) error
}

// FormHooks carries the per-module pieces the generic service composes:
// the default response shape, payload validation, normalization (empty-string
// coercion, derived-count refetch) and optional post-write side effects.
type FormHooks[T any, PT interface {
	*T
	repo.SessionScoped
}] struct {
	// Label names the module in error messages, e.g. "site access".
	Label string
	// Module is the event routing slug, e.g. "site_access".
	Module string
	Default func(sessionID string) PT
	Validate func(rec PT) error
	Normalize func(ctx context.Context, rec PT) error
	// PreparePatch sanitizes and validates a partial-update field map in
	// place. It runs before the row is touched.
	PreparePatch func(ctx context.Context, sessionID string, fields map[string]any) error
	// AfterWrite runs after a successful Put or Patch with the previous row
	// (nil on insert) and the stored one. Side effects here are best-effort.
	AfterWrite func(ctx context.Context, old, cur PT)
}

type formService[T any, PT interface {
	*T
	repo.SessionScoped
}] struct {
	repo   repo.FormRepo[T, PT]
	hooks  FormHooks[T, PT]
	events *Events
	log    *zap.Logger
}

func NewGenericFormService[T any, PT interface {
	*T
	repo.SessionScoped
}](r repo.FormRepo[T, PT], events *Events, log *zap.Logger, hooks FormHooks[T, PT]) FormService[T, PT] {
	return &formService[T, PT]{repo: r, hooks: hooks, events: events, log: log}
}

func (s *formService[T, PT]) Get(ctx context.Context, sessionID string) (PT, error) {
	rec, err := s.repo.Get(ctx, sessionID)
	if repo.IsNotFound(err) {
		return s.hooks.Default(sessionID), nil
	}
	if err != nil {
		return nil, NewInternal(err, "load %s data", s.hooks.Label)
	}
	return rec, nil
}

func (s *formService[T, PT]) Put(ctx context.Context, sessionID string, rec PT) (PT, error) {
	rec.SetSessionID(sessionID)

	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(rec); err != nil {
			return nil, asValidation(err)
		}
	}
	if s.hooks.Normalize != nil {
		if err := s.hooks.Normalize(ctx, rec); err != nil {
			return nil, NewInternal(err, "normalize %s payload", s.hooks.Label)
		}
	}

	var old PT
	if s.hooks.AfterWrite != nil {
		old, _ = s.repo.Get(ctx, sessionID)
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, s.translateWrite(sessionID, err)
	}

	stored, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, NewInternal(err, "reload %s data", s.hooks.Label)
	}

	if s.hooks.AfterWrite != nil {
		s.hooks.AfterWrite(ctx, old, stored)
	}
	s.events.FormUpdated(ctx, s.hooks.Module, sessionID)
	return stored, nil
}

func (s *formService[T, PT]) Patch(ctx context.Context, sessionID string, fields map[string]any) (PT, error) {
	if len(fields) == 0 {
		return nil, NewValidation("empty update payload")
	}
	if s.hooks.PreparePatch != nil {
		if err := s.hooks.PreparePatch(ctx, sessionID, fields); err != nil {
			return nil, asValidation(err)
		}
	}

	var old PT
	if s.hooks.AfterWrite != nil {
		old, _ = s.repo.Get(ctx, sessionID)
	}

	if err := s.repo.Patch(ctx, sessionID, fields); err != nil {
		if repo.IsNotFound(err) {
			return nil, NewNotFound("%s data not found for session_id '%s'", s.hooks.Label, sessionID)
		}
		return nil, s.translateWrite(sessionID, err)
	}

	stored, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, NewInternal(err, "reload %s data", s.hooks.Label)
	}

	if s.hooks.AfterWrite != nil {
		s.hooks.AfterWrite(ctx, old, stored)
	}
	s.events.FormUpdated(ctx, s.hooks.Module, sessionID)
	return stored, nil
}

func (s *formService[T, PT]) Delete(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		if repo.IsNotFound(err) {
			return NewNotFound("%s data not found for session_id '%s'", s.hooks.Label, sessionID)
		}
		return NewInternal(err, "delete %s data", s.hooks.Label)
	}
	return nil
}

func (s *formService[T, PT]) translateWrite(sessionID string, err error) error {
	switch {
	case repo.IsForeignKeyViolation(err):
		return SurveyNotFound(sessionID)
	case repo.IsUniqueViolation(err):
		return NewDuplicate("%s data already exists for session_id '%s'", s.hooks.Label, sessionID)
	default:
		return NewInternal(err, "write %s data", s.hooks.Label)
	}
}

// asValidation maps enum allow-list failures onto the taxonomy; anything
// already carrying a kind passes through untouched.
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return NewValidation("%s", ve.Error())
	}
	return NewValidation("%s", err.Error())
}
