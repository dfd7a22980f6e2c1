package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/infra/blob"
	"github.com/netfield-io/sitesurvey/internal/infra/storage"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/pkg/mimes"
	"go.uber.org/zap"
)

var categoryPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ImageUpload is one file of a multipart upload, already parsed out of its
// form field name.
type ImageUpload struct {
	SessionID    string
	EntityIndex  *int
	Category     string
	OriginalName string
	Description  *string
	Content      []byte
}

// ImageService manages the photos of one form module. Replace enforces the
// single-active-image invariant for (session_id, entity_index, category):
// re-uploading the same key swaps the file behind the existing row, keeping
// the row id stable and the prior row's history as is_active=false entries.
type ImageService[T any, PT interface {
	*T
	repo.ImageRecord
}] interface {
	Replace(ctx context.Context, up ImageUpload) (PT, error)
	List(ctx context.Context, sessionID string) ([]T, error)
	Delete(ctx context.Context, sessionID string, id uint) error
	SessionPurger
}

// SessionPurger removes a session's image files from disk and the mirror.
// The survey delete path runs it before the DB cascade drops the rows.
type SessionPurger interface {
	PurgeSession(ctx context.Context, sessionID string)
}

// ImageHooks configures a module's image service.
type ImageHooks struct {
	// Label names the module in error messages.
	Label string
	// Module prefixes mirror keys, e.g. "radio_units/<category>/<file>".
	Module string
	// Indexed is true for modules whose images attach to an entity_index.
	Indexed bool
	// MaxIndex returns the exclusive upper bound for entity_index, derived
	// from the owning count field. Nil means the static bound applies.
	MaxIndex func(ctx context.Context, sessionID string) (int, error)
}

type imageService[T any, PT interface {
	*T
	repo.ImageRecord
}] struct {
	images repo.ImageRepo[T, PT]
	store  *storage.Store
	mirror *blob.S3Deps
	cfg    *config.Config
	log    *zap.Logger
	hooks  ImageHooks
}

func NewImageService[T any, PT interface {
	*T
	repo.ImageRecord
}](
	images repo.ImageRepo[T, PT],
	store *storage.Store,
	mirror *blob.S3Deps,
	cfg *config.Config,
	log *zap.Logger,
	hooks ImageHooks,
) ImageService[T, PT] {
	return &imageService[T, PT]{
		images: images, store: store, mirror: mirror,
		cfg: cfg, log: log, hooks: hooks,
	}
}

func (s *imageService[T, PT]) Replace(ctx context.Context, up ImageUpload) (PT, error) {
	if err := s.validateUpload(ctx, &up); err != nil {
		return nil, err
	}
	mime, ok := mimes.DetectImage(up.Content)
	if !ok {
		return nil, NewValidation("unsupported file type %q, only image uploads are accepted", mime)
	}

	storedName := s.store.GenerateName(up.OriginalName)
	url, err := s.store.Save(up.Category, storedName, up.Content)
	if err != nil {
		return nil, NewInternal(err, "store %s image", s.hooks.Label)
	}

	existing, err := s.images.ActiveByKey(ctx, up.SessionID, up.EntityIndex, up.Category)
	switch {
	case repo.IsNotFound(err):
		rec := PT(new(T))
		*rec.Meta() = model.ImageMeta{
			SessionID:    up.SessionID,
			EntityIndex:  up.EntityIndex,
			Category:     up.Category,
			OriginalName: up.OriginalName,
			StoredName:   storedName,
			URL:          url,
			SizeBytes:    int64(len(up.Content)),
			MIME:         mime,
			Description:  up.Description,
			IsActive:     true,
		}
		if err := s.images.Create(ctx, rec); err != nil {
			s.discard(up.Category, storedName)
			if repo.IsForeignKeyViolation(err) {
				return nil, SurveyNotFound(up.SessionID)
			}
			return nil, NewInternal(err, "record %s image", s.hooks.Label)
		}
		s.mirrorPut(ctx, up.Category, storedName, mime, up.Content)
		return rec, nil

	case err != nil:
		s.discard(up.Category, storedName)
		return nil, NewInternal(err, "look up %s image", s.hooks.Label)

	default:
		meta := existing.Meta()
		oldStored, oldCategory := meta.StoredName, meta.Category
		meta.OriginalName = up.OriginalName
		meta.StoredName = storedName
		meta.URL = url
		meta.SizeBytes = int64(len(up.Content))
		meta.MIME = mime
		if up.Description != nil {
			meta.Description = up.Description
		}
		meta.IsActive = true
		if err := s.images.Save(ctx, existing); err != nil {
			s.discard(up.Category, storedName)
			return nil, NewInternal(err, "record %s image", s.hooks.Label)
		}
		// Old file cleanup is best-effort; the row already points elsewhere.
		s.discard(oldCategory, oldStored)
		s.mirrorDelete(ctx, oldCategory, oldStored)
		s.mirrorPut(ctx, up.Category, storedName, mime, up.Content)
		return existing, nil
	}
}

func (s *imageService[T, PT]) List(ctx context.Context, sessionID string) ([]T, error) {
	items, err := s.images.ListActive(ctx, sessionID)
	if err != nil {
		return nil, NewInternal(err, "list %s images", s.hooks.Label)
	}
	return items, nil
}

func (s *imageService[T, PT]) Delete(ctx context.Context, sessionID string, id uint) error {
	rec, err := s.images.GetByID(ctx, sessionID, id)
	if repo.IsNotFound(err) {
		return NewNotFound("%s image %d not found for session_id '%s'", s.hooks.Label, id, sessionID)
	}
	if err != nil {
		return NewInternal(err, "load %s image", s.hooks.Label)
	}
	meta := rec.Meta()
	if !meta.IsActive {
		return NewNotFound("%s image %d not found for session_id '%s'", s.hooks.Label, id, sessionID)
	}
	if err := s.images.Deactivate(ctx, id); err != nil {
		return NewInternal(err, "deactivate %s image", s.hooks.Label)
	}
	s.discard(meta.Category, meta.StoredName)
	s.mirrorDelete(ctx, meta.Category, meta.StoredName)
	return nil
}

func (s *imageService[T, PT]) PurgeSession(ctx context.Context, sessionID string) {
	items, err := s.images.ListActive(ctx, sessionID)
	if err != nil {
		s.log.Warn("list images for session purge failed",
			zap.String("module", s.hooks.Label), zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	for i := range items {
		meta := PT(&items[i]).Meta()
		s.discard(meta.Category, meta.StoredName)
		s.mirrorDelete(ctx, meta.Category, meta.StoredName)
	}
}

func (s *imageService[T, PT]) validateUpload(ctx context.Context, up *ImageUpload) error {
	if len(up.Content) == 0 {
		return NewValidation("uploaded file is empty")
	}
	if max := s.cfg.Uploads.MaxSizeBytes; max > 0 && int64(len(up.Content)) > max {
		return NewValidation("file exceeds the maximum upload size of %d bytes", max)
	}
	if !categoryPattern.MatchString(up.Category) {
		return NewValidation("invalid image category %q", up.Category)
	}
	if s.hooks.Indexed {
		if up.EntityIndex == nil {
			return NewValidation("%s images require an entity index", s.hooks.Label)
		}
		bound := maxEntityIndex
		if s.hooks.MaxIndex != nil {
			n, err := s.hooks.MaxIndex(ctx, up.SessionID)
			if err != nil {
				return NewInternal(err, "resolve %s index bound", s.hooks.Label)
			}
			bound = n
		}
		if *up.EntityIndex < 0 || *up.EntityIndex >= bound {
			return NewValidation("entity index %d is out of range, must be below %d", *up.EntityIndex, bound)
		}
	} else if up.EntityIndex != nil {
		return NewValidation("%s images do not take an entity index", s.hooks.Label)
	}
	return nil
}

func (s *imageService[T, PT]) discard(category, storedName string) {
	if err := s.store.Remove(category, storedName); err != nil {
		s.log.Warn("remove image file failed",
			zap.String("module", s.hooks.Label), zap.String("stored_name", storedName), zap.Error(err))
	}
}

func (s *imageService[T, PT]) mirrorKey(category, storedName string) string {
	return fmt.Sprintf("%s/%s/%s", s.hooks.Module, category, storedName)
}

func (s *imageService[T, PT]) mirrorPut(ctx context.Context, category, storedName, mime string, content []byte) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Upload(ctx, s.mirrorKey(category, storedName), mime, content); err != nil {
		s.log.Warn("mirror image upload failed",
			zap.String("module", s.hooks.Label), zap.String("stored_name", storedName), zap.Error(err))
	}
}

func (s *imageService[T, PT]) mirrorDelete(ctx context.Context, category, storedName string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Delete(ctx, s.mirrorKey(category, storedName)); err != nil {
		s.log.Warn("mirror image delete failed",
			zap.String("module", s.hooks.Label), zap.String("stored_name", storedName), zap.Error(err))
	}
}
