package service

import (
	"context"
	"testing"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAntennaConfigValidation(t *testing.T) {
	ctx := context.Background()
	counts := &mockCabinetCounts{}
	r := &mockFormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]{}
	images := &mockImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]{}
	svc := NewAntennaConfigService(r, counts, images, newTestStore(t), nil, zap.NewNop())

	_, err := svc.Put(ctx, "S1", &model.AntennaConfiguration{AntennaCount: 25})
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "between 0 and 24")

	_, err = svc.Put(ctx, "S1", &model.AntennaConfiguration{AntennaCount: -1})
	require.Error(t, err)
	r.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAntennaCountShrinkDeactivatesImages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Save("antenna_label", "a5.png", []byte("x"))
	require.NoError(t, err)

	counts := &mockCabinetCounts{}
	counts.On("CabinetCount", ctx, "S1").Return(1, nil)

	old := &model.AntennaConfiguration{ID: 1, SessionID: "S1", AntennaCount: 6}
	stored := &model.AntennaConfiguration{ID: 1, SessionID: "S1", AntennaCount: 4}

	r := &mockFormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]{}
	r.On("Get", ctx, "S1").Return(old, nil).Once()
	r.On("Upsert", ctx, mock.Anything).Return(nil)
	r.On("Get", ctx, "S1").Return(stored, nil).Once()

	images := &mockImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]{}
	images.On("DeactivateFromIndex", ctx, "S1", 4).Return([]model.AntennaConfigurationImage{
		{ImageMeta: model.ImageMeta{ID: 3, EntityIndex: intPtr(5), Category: "antenna_label", StoredName: "a5.png"}},
	}, nil)

	svc := NewAntennaConfigService(r, counts, images, store, nil, zap.NewNop())
	_, err = svc.Put(ctx, "S1", &model.AntennaConfiguration{AntennaCount: 4})

	require.NoError(t, err)
	images.AssertExpectations(t)
	assert.False(t, fileExists(t, store, "antenna_label", "a5.png"))
}
