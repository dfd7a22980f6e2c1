package repo

import (
	"context"
	"errors"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"gorm.io/gorm"
)

// ImageRecord is implemented by every <module>_images model.
type ImageRecord interface {
	Meta() *model.ImageMeta
}

type ImageRepo[T any, PT interface {
	*T
	ImageRecord
}] interface {
	// ActiveByKey returns the currently active image for
	// (session_id, entity_index, category); ErrNotFound when none.
	ActiveByKey(ctx context.Context, sessionID string, entityIndex *int, category string) (PT, error)
	GetByID(ctx context.Context, sessionID string, id uint) (PT, error)
	ListActive(ctx context.Context, sessionID string) ([]T, error)
	Create(ctx context.Context, rec PT) error
	Save(ctx context.Context, rec PT) error
	Deactivate(ctx context.Context, id uint) error
	// DeactivateFromIndex deactivates active images whose entity_index is
	// >= minIndex and returns the rows it touched so callers can clean up
	// the underlying files.
	DeactivateFromIndex(ctx context.Context, sessionID string, minIndex int) ([]T, error)
}

type imageRepo[T any, PT interface {
	*T
	ImageRecord
}] struct {
	db *gorm.DB
}

func NewImageRepo[T any, PT interface {
	*T
	ImageRecord
}](db *gorm.DB) ImageRepo[T, PT] {
	return &imageRepo[T, PT]{db: db}
}

func (r *imageRepo[T, PT]) keyQuery(ctx context.Context, sessionID string, entityIndex *int, category string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Where("session_id = ? AND category = ? AND is_active = ?", sessionID, category, true)
	if entityIndex == nil {
		q = q.Where("entity_index IS NULL")
	} else {
		q = q.Where("entity_index = ?", *entityIndex)
	}
	return q
}

func (r *imageRepo[T, PT]) ActiveByKey(ctx context.Context, sessionID string, entityIndex *int, category string) (PT, error) {
	var rec T
	err := r.keyQuery(ctx, sessionID, entityIndex, category).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return PT(&rec), nil
}

func (r *imageRepo[T, PT]) GetByID(ctx context.Context, sessionID string, id uint) (PT, error) {
	var rec T
	err := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", id, sessionID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return PT(&rec), nil
}

func (r *imageRepo[T, PT]) ListActive(ctx context.Context, sessionID string) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Order("entity_index ASC NULLS FIRST, category ASC").
		Find(&items).Error
	return items, err
}

func (r *imageRepo[T, PT]) Create(ctx context.Context, rec PT) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *imageRepo[T, PT]) Save(ctx context.Context, rec PT) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *imageRepo[T, PT]) Deactivate(ctx context.Context, id uint) error {
	var zero T
	res := r.db.WithContext(ctx).Model(&zero).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *imageRepo[T, PT]) DeactivateFromIndex(ctx context.Context, sessionID string, minIndex int) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ? AND is_active = ? AND entity_index >= ?",
			sessionID, true, minIndex).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		var zero T
		return tx.Model(&zero).
			Where("session_id = ? AND is_active = ? AND entity_index >= ?", sessionID, true, minIndex).
			Update("is_active", false).Error
	})
	return items, err
}
