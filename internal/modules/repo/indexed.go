package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// IndexScoped is implemented by repeated form models keyed by
// (session_id, entity_index).
type IndexScoped interface {
	SessionScoped
	GetEntityIndex() int
	SetEntityIndex(int)
}

type IndexedFormRepo[T any, PT interface {
	*T
	IndexScoped
}] interface {
	List(ctx context.Context, sessionID string) ([]T, error)
	Get(ctx context.Context, sessionID string, index int) (PT, error)
	Upsert(ctx context.Context, rec PT) error
	Delete(ctx context.Context, sessionID string, index int) error
	Count(ctx context.Context, sessionID string) (int64, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type indexedFormRepo[T any, PT interface {
	*T
	IndexScoped
}] struct {
	db *gorm.DB
}

func NewIndexedFormRepo[T any, PT interface {
	*T
	IndexScoped
}](db *gorm.DB) IndexedFormRepo[T, PT] {
	return &indexedFormRepo[T, PT]{db: db}
}

func (r *indexedFormRepo[T, PT]) List(ctx context.Context, sessionID string) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("entity_index ASC").
		Find(&items).Error
	return items, err
}

func (r *indexedFormRepo[T, PT]) Get(ctx context.Context, sessionID string, index int) (PT, error) {
	var rec T
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND entity_index = ?", sessionID, index).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return PT(&rec), nil
}

func (r *indexedFormRepo[T, PT]) Upsert(ctx context.Context, rec PT) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.Where("session_id = ? AND entity_index = ?",
			rec.GetSessionID(), rec.GetEntityIndex()).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(rec).Error
		case err != nil:
			return err
		default:
			return tx.Model(&existing).
				Select("*").
				Omit("id", "session_id", "entity_index", "created_at").
				Updates(rec).Error
		}
	})
}

func (r *indexedFormRepo[T, PT]) Delete(ctx context.Context, sessionID string, index int) error {
	var zero T
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND entity_index = ?", sessionID, index).
		Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *indexedFormRepo[T, PT]) Count(ctx context.Context, sessionID string) (int64, error) {
	var zero T
	var n int64
	err := r.db.WithContext(ctx).Model(&zero).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	return n, err
}

// DeleteBySession removes all rows for a session. Used for application-side
// cleanup of the tables that carry no DB foreign key to surveys.
func (r *indexedFormRepo[T, PT]) DeleteBySession(ctx context.Context, sessionID string) error {
	var zero T
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&zero).Error
}
