package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/infra/storage"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pngBytes carries the PNG magic so content sniffing sees image/png.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("fakepixels")...)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return s
}

func fileExists(t *testing.T, s *storage.Store, category, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(s.BaseDir(), category, name))
	return err == nil
}

func uploadsConfig() *config.Config {
	return &config.Config{Uploads: config.UploadsConfig{MaxSizeBytes: 1 << 20}}
}

func newSiteAccessImages(
	images *mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage],
	store *storage.Store,
) ImageService[model.SiteAccessImage, *model.SiteAccessImage] {
	return NewImageService(images, store, nil, uploadsConfig(), zap.NewNop(), ImageHooks{
		Label: "site access", Module: "site_access",
	})
}

func TestImageReplaceCreatesFirstUpload(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
	images.On("ActiveByKey", ctx, "S1", (*int)(nil), "front_view").Return(nil, repo.ErrNotFound)
	images.On("Create", ctx, mock.Anything).Return(nil)

	svc := newSiteAccessImages(images, store)
	rec, err := svc.Replace(ctx, ImageUpload{
		SessionID:    "S1",
		Category:     "front_view",
		OriginalName: "photo.png",
		Content:      pngBytes,
	})

	require.NoError(t, err)
	meta := rec.Meta()
	assert.Equal(t, "S1", meta.SessionID)
	assert.Equal(t, "front_view", meta.Category)
	assert.Equal(t, "photo.png", meta.OriginalName)
	assert.Equal(t, "image/png", meta.MIME)
	assert.Equal(t, int64(len(pngBytes)), meta.SizeBytes)
	assert.True(t, meta.IsActive)
	assert.True(t, fileExists(t, store, "front_view", meta.StoredName))
}

func TestImageReplaceSwapsFileKeepsRow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Save("front_view", "old.png", []byte("old"))
	require.NoError(t, err)

	existing := &model.SiteAccessImage{ImageMeta: model.ImageMeta{
		ID: 7, SessionID: "S1", Category: "front_view",
		StoredName: "old.png", Description: strPtr("before"), IsActive: true,
	}}
	images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
	images.On("ActiveByKey", ctx, "S1", (*int)(nil), "front_view").Return(existing, nil)
	images.On("Save", ctx, existing).Return(nil)

	svc := newSiteAccessImages(images, store)
	rec, err := svc.Replace(ctx, ImageUpload{
		SessionID:    "S1",
		Category:     "front_view",
		OriginalName: "retake.png",
		Content:      pngBytes,
	})

	require.NoError(t, err)
	meta := rec.Meta()
	// The row id is stable across replacements.
	assert.Equal(t, uint(7), meta.ID)
	assert.Equal(t, "retake.png", meta.OriginalName)
	assert.NotEqual(t, "old.png", meta.StoredName)
	// Description survives when the re-upload does not send one.
	require.NotNil(t, meta.Description)
	assert.Equal(t, "before", *meta.Description)

	assert.False(t, fileExists(t, store, "front_view", "old.png"))
	assert.True(t, fileExists(t, store, "front_view", meta.StoredName))
	images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImageReplaceValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
	svc := newSiteAccessImages(images, store)

	tests := []struct {
		name string
		up   ImageUpload
		msg  string
	}{
		{
			name: "empty file",
			up:   ImageUpload{SessionID: "S1", Category: "front_view"},
			msg:  "empty",
		},
		{
			name: "oversize file",
			up: ImageUpload{
				SessionID: "S1", Category: "front_view",
				Content: make([]byte, (1<<20)+1),
			},
			msg: "maximum upload size",
		},
		{
			name: "bad category",
			up:   ImageUpload{SessionID: "S1", Category: "Front-View", Content: pngBytes},
			msg:  "invalid image category",
		},
		{
			name: "index on an unindexed module",
			up: ImageUpload{
				SessionID: "S1", Category: "front_view",
				EntityIndex: intPtr(0), Content: pngBytes,
			},
			msg: "do not take an entity index",
		},
		{
			name: "non-image content",
			up: ImageUpload{
				SessionID: "S1", Category: "front_view",
				Content: []byte("%PDF-1.4 not a picture"),
			},
			msg: "only image uploads",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Replace(ctx, tt.up)
			require.Error(t, err)
			assert.Equal(t, ErrKindValidation, KindOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
	images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImageReplaceIndexBound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	images := &mockImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]{}

	// Bound follows the live antenna count, not the static limit.
	svc := NewImageService(images, store, nil, uploadsConfig(), zap.NewNop(), ImageHooks{
		Label: "antenna configuration", Module: "antenna_configuration", Indexed: true,
		MaxIndex: func(context.Context, string) (int, error) { return 4, nil },
	})

	_, err := svc.Replace(ctx, ImageUpload{
		SessionID: "S1", Category: "label", EntityIndex: intPtr(4), Content: pngBytes,
	})
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))

	_, err = svc.Replace(ctx, ImageUpload{
		SessionID: "S1", Category: "label", Content: pngBytes,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require an entity index")

	images.On("ActiveByKey", ctx, "S1", intPtr(3), "label").Return(nil, repo.ErrNotFound)
	images.On("Create", ctx, mock.Anything).Return(nil)
	_, err = svc.Replace(ctx, ImageUpload{
		SessionID: "S1", Category: "label", EntityIndex: intPtr(3), Content: pngBytes,
	})
	assert.NoError(t, err)
}

func TestImageReplaceMissingSurvey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
	images.On("ActiveByKey", ctx, "S1", (*int)(nil), "front_view").Return(nil, repo.ErrNotFound)
	images.On("Create", ctx, mock.Anything).Return(&pgconn.PgError{Code: "23503"})

	svc := newSiteAccessImages(images, store)
	_, err := svc.Replace(ctx, ImageUpload{
		SessionID: "S1", Category: "front_view", OriginalName: "a.png", Content: pngBytes,
	})

	require.Error(t, err)
	assert.Equal(t, ErrKindForeignKey, KindOf(err))

	// The orphaned file must not stay behind.
	entries, readErr := os.ReadDir(filepath.Join(store.BaseDir(), "front_view"))
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestImageDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Save("front_view", "gone.png", []byte("x"))
	require.NoError(t, err)

	t.Run("deactivates and drops the file", func(t *testing.T) {
		images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
		images.On("GetByID", ctx, "S1", uint(7)).Return(&model.SiteAccessImage{ImageMeta: model.ImageMeta{
			ID: 7, SessionID: "S1", Category: "front_view", StoredName: "gone.png", IsActive: true,
		}}, nil)
		images.On("Deactivate", ctx, uint(7)).Return(nil)
		svc := newSiteAccessImages(images, store)

		require.NoError(t, svc.Delete(ctx, "S1", 7))
		assert.False(t, fileExists(t, store, "front_view", "gone.png"))
	})

	t.Run("already inactive rows read as not found", func(t *testing.T) {
		images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
		images.On("GetByID", ctx, "S1", uint(8)).Return(&model.SiteAccessImage{ImageMeta: model.ImageMeta{
			ID: 8, SessionID: "S1", IsActive: false,
		}}, nil)
		svc := newSiteAccessImages(images, store)

		err := svc.Delete(ctx, "S1", 8)

		require.Error(t, err)
		assert.Equal(t, ErrKindNotFound, KindOf(err))
		images.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	})
}

func TestPurgeSessionDropsAllActiveFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Save("front_view", "a.png", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save("grounding", "b.png", []byte("b"))
	require.NoError(t, err)

	images := &mockImageRepo[model.SiteAccessImage, *model.SiteAccessImage]{}
	images.On("ListActive", ctx, "S1").Return([]model.SiteAccessImage{
		{ImageMeta: model.ImageMeta{ID: 1, Category: "front_view", StoredName: "a.png"}},
		{ImageMeta: model.ImageMeta{ID: 2, Category: "grounding", StoredName: "b.png"}},
	}, nil)

	newSiteAccessImages(images, store).PurgeSession(ctx, "S1")

	assert.False(t, fileExists(t, store, "front_view", "a.png"))
	assert.False(t, fileExists(t, store, "grounding", "b.png"))
}
