package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// SessionScoped is implemented by every singleton form model.
type SessionScoped interface {
	GetSessionID() string
	SetSessionID(string)
}

// FormRepo is the storage contract shared by all singleton form modules:
// at most one row per session_id.
type FormRepo[T any, PT interface {
	*T
	SessionScoped
}] interface {
	// Get returns ErrNotFound when no row exists; it never creates one.
	Get(ctx context.Context, sessionID string) (PT, error)
	// Upsert updates the existing row for rec's session in place, or
	// inserts a new one. The row id is stable across updates.
	Upsert(ctx context.Context, rec PT) error
	// Patch applies a partial column update; ErrNotFound when no row exists.
	Patch(ctx context.Context, sessionID string, fields map[string]any) error
	Delete(ctx context.Context, sessionID string) error
}

type formRepo[T any, PT interface {
	*T
	SessionScoped
}] struct {
	db *gorm.DB
}

func NewFormRepo[T any, PT interface {
	*T
	SessionScoped
}](db *gorm.DB) FormRepo[T, PT] {
	return &formRepo[T, PT]{db: db}
}

func (r *formRepo[T, PT]) Get(ctx context.Context, sessionID string) (PT, error) {
	var rec T
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return PT(&rec), nil
}

func (r *formRepo[T, PT]) Upsert(ctx context.Context, rec PT) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.Where("session_id = ?", rec.GetSessionID()).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(rec).Error
		case err != nil:
			return err
		default:
			// Full-row semantics: zero values overwrite, id and audit
			// columns are preserved.
			return tx.Model(&existing).
				Select("*").
				Omit("id", "session_id", "created_at").
				Updates(rec).Error
		}
	})
}

func (r *formRepo[T, PT]) Patch(ctx context.Context, sessionID string, fields map[string]any) error {
	var zero T
	res := r.db.WithContext(ctx).Model(&zero).
		Where("session_id = ?", sessionID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *formRepo[T, PT]) Delete(ctx context.Context, sessionID string) error {
	var zero T
	res := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
