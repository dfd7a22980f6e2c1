package service

import (
	"context"
	"testing"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRadioUnitService(
	r *mockIndexedRepo[model.RadioUnit, *model.RadioUnit],
	surveys *mockSurveyRepo,
	purger indexedImagePurger,
) IndexedFormService[model.RadioUnit, *model.RadioUnit] {
	return NewRadioUnitService(r, surveys, purger, nil, zap.NewNop())
}

func TestIndexedPut(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an index outside the bound", func(t *testing.T) {
		r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
		surveys := &mockSurveyRepo{}
		svc := newRadioUnitService(r, surveys, nil)

		_, err := svc.Put(ctx, "S1", 50, &model.RadioUnit{})

		require.Error(t, err)
		assert.Equal(t, ErrKindValidation, KindOf(err))
		surveys.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("missing parent survey fails app-side, not via DB constraint", func(t *testing.T) {
		r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
		surveys := &mockSurveyRepo{}
		surveys.On("Exists", ctx, "S1").Return(false, nil)
		svc := newRadioUnitService(r, surveys, nil)

		_, err := svc.Put(ctx, "S1", 0, &model.RadioUnit{})

		require.Error(t, err)
		assert.Equal(t, ErrKindForeignKey, KindOf(err))
		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "Survey with session_id 'S1' not found, create the survey first", svcErr.Message)
		r.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("rejects a technology outside the allow-list", func(t *testing.T) {
		r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
		surveys := &mockSurveyRepo{}
		surveys.On("Exists", ctx, "S1").Return(true, nil)
		svc := newRadioUnitService(r, surveys, nil)

		_, err := svc.Put(ctx, "S1", 0, &model.RadioUnit{Technology: strPtr("6G")})

		require.Error(t, err)
		assert.Equal(t, ErrKindValidation, KindOf(err))
	})

	t.Run("stamps session and index from the path", func(t *testing.T) {
		r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
		surveys := &mockSurveyRepo{}
		surveys.On("Exists", ctx, "S1").Return(true, nil)
		stored := &model.RadioUnit{SessionID: "S1", EntityIndex: 2, Technology: strPtr("5G")}
		r.On("Upsert", ctx, mock.MatchedBy(func(rec *model.RadioUnit) bool {
			return rec.SessionID == "S1" && rec.EntityIndex == 2
		})).Return(nil)
		r.On("Get", ctx, "S1", 2).Return(stored, nil)
		svc := newRadioUnitService(r, surveys, nil)

		got, err := svc.Put(ctx, "S1", 2, &model.RadioUnit{
			SessionID:   "spoofed",
			EntityIndex: 9,
			Technology:  strPtr("5G"),
		})

		require.NoError(t, err)
		assert.Same(t, stored, got)
		r.AssertExpectations(t)
	})
}

func TestIndexedGet(t *testing.T) {
	ctx := context.Background()
	r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
	r.On("Get", ctx, "S1", 3).Return(nil, repo.ErrNotFound)
	svc := newRadioUnitService(r, &mockSurveyRepo{}, nil)

	_, err := svc.Get(ctx, "S1", 3)

	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "radio unit entry 3 not found for session_id 'S1'")
}

func TestIndexedDeletePurgesImages(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delete purges the index's images", func(t *testing.T) {
		r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
		r.On("Delete", ctx, "S1", 2).Return(nil)
		purger := &recordingPurger{}
		svc := newRadioUnitService(r, &mockSurveyRepo{}, purger)

		require.NoError(t, svc.Delete(ctx, "S1", 2))
		require.Len(t, purger.calls, 1)
		assert.Equal(t, [2]any{"S1", 2}, purger.calls[0])
	})

	t.Run("failed delete leaves images alone", func(t *testing.T) {
		r := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
		r.On("Delete", ctx, "S1", 2).Return(repo.ErrNotFound)
		purger := &recordingPurger{}
		svc := newRadioUnitService(r, &mockSurveyRepo{}, purger)

		err := svc.Delete(ctx, "S1", 2)

		require.Error(t, err)
		assert.Equal(t, ErrKindNotFound, KindOf(err))
		assert.Empty(t, purger.calls)
	})
}

func TestIndexPurgeRemovesOnlyTheDeletedIndex(t *testing.T) {
	ctx := context.Background()

	store := newTestStore(t)
	_, err := store.Save("front_view", "keep.png", []byte("keep"))
	require.NoError(t, err)
	_, err = store.Save("front_view", "drop.png", []byte("drop"))
	require.NoError(t, err)

	images := &mockImageRepo[model.RadioUnitImage, *model.RadioUnitImage]{}
	images.On("ListActive", ctx, "S1").Return([]model.RadioUnitImage{
		{ImageMeta: model.ImageMeta{ID: 1, EntityIndex: intPtr(0), Category: "front_view", StoredName: "keep.png"}},
		{ImageMeta: model.ImageMeta{ID: 2, EntityIndex: intPtr(2), Category: "front_view", StoredName: "drop.png"}},
	}, nil)
	images.On("Deactivate", ctx, uint(2)).Return(nil)

	p := NewIndexPurge(images, store, zap.NewNop(), "radio unit")
	p.purgeIndex(ctx, "S1", 2)

	images.AssertExpectations(t)
	images.AssertNotCalled(t, "Deactivate", ctx, uint(1))
	assert.True(t, fileExists(t, store, "front_view", "keep.png"))
	assert.False(t, fileExists(t, store, "front_view", "drop.png"))
}
