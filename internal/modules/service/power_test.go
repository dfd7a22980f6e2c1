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

func TestDCPowerSyncsCabinetCountOnPut(t *testing.T) {
	ctx := context.Background()

	counts := &mockCabinetCounts{}
	counts.On("CabinetCount", ctx, "S1").Return(3, nil)

	stored := &model.DCPowerSystem{ID: 1, SessionID: "S1", NumberOfCabinets: 3}
	r := &mockFormRepo[model.DCPowerSystem, *model.DCPowerSystem]{}
	// Whatever the client claims, the cached count is refetched from the
	// outdoor cabinets source before the row is written.
	r.On("Upsert", ctx, mock.MatchedBy(func(rec *model.DCPowerSystem) bool {
		return rec.NumberOfCabinets == 3
	})).Return(nil)
	r.On("Get", ctx, "S1").Return(stored, nil)

	svc := NewDCPowerService(r, counts, nil, zap.NewNop())
	got, err := svc.Put(ctx, "S1", &model.DCPowerSystem{NumberOfCabinets: 99})

	require.NoError(t, err)
	assert.Equal(t, 3, got.NumberOfCabinets)
	r.AssertExpectations(t)
	counts.AssertExpectations(t)
}

func TestDCPowerPatchCannotInjectCabinetCount(t *testing.T) {
	ctx := context.Background()

	counts := &mockCabinetCounts{}
	counts.On("CabinetCount", ctx, "S1").Return(2, nil)

	stored := &model.DCPowerSystem{ID: 1, SessionID: "S1", NumberOfCabinets: 2}
	r := &mockFormRepo[model.DCPowerSystem, *model.DCPowerSystem]{}
	r.On("Patch", ctx, "S1", mock.MatchedBy(func(fields map[string]any) bool {
		return fields["number_of_cabinets"] == 2
	})).Return(nil)
	r.On("Get", ctx, "S1").Return(stored, nil)

	svc := NewDCPowerService(r, counts, nil, zap.NewNop())
	_, err := svc.Patch(ctx, "S1", map[string]any{"number_of_cabinets": float64(99)})

	require.NoError(t, err)
	r.AssertExpectations(t)
}

func TestDCPowerValidation(t *testing.T) {
	ctx := context.Background()
	counts := &mockCabinetCounts{}
	r := &mockFormRepo[model.DCPowerSystem, *model.DCPowerSystem]{}
	svc := NewDCPowerService(r, counts, nil, zap.NewNop())

	_, err := svc.Put(ctx, "S1", &model.DCPowerSystem{TotalRectifiers: intPtr(-1)})
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	r.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestACConnectionEnumsAndPatch(t *testing.T) {
	ctx := context.Background()
	r := &mockFormRepo[model.ACConnectionInfo, *model.ACConnectionInfo]{}
	svc := NewACConnectionService(r, nil, zap.NewNop())

	_, err := svc.Put(ctx, "S1", &model.ACConnectionInfo{ThreePhaseAvailable: strPtr("Probably")})
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))

	stored := &model.ACConnectionInfo{ID: 1, SessionID: "S1"}
	r.On("Patch", ctx, "S1", mock.MatchedBy(func(fields map[string]any) bool {
		// Empty enum strings patch to NULL.
		v, present := fields["three_phase_available"]
		return present && v == nil
	})).Return(nil)
	r.On("Get", ctx, "S1").Return(stored, nil)

	_, err = svc.Patch(ctx, "S1", map[string]any{"three_phase_available": ""})
	require.NoError(t, err)
	r.AssertExpectations(t)
}

func TestRANEquipmentSyncsCountAndValidatesRacks(t *testing.T) {
	ctx := context.Background()

	counts := &mockCabinetCounts{}
	counts.On("CabinetCount", ctx, "S1").Return(4, nil)

	stored := &model.RANEquipment{ID: 1, SessionID: "S1", NumberOfCabinets: 4}
	r := &mockFormRepo[model.RANEquipment, *model.RANEquipment]{}
	r.On("Upsert", ctx, mock.MatchedBy(func(rec *model.RANEquipment) bool {
		return rec.NumberOfCabinets == 4
	})).Return(nil)
	r.On("Get", ctx, "S1").Return(stored, nil)

	svc := NewRANEquipmentService(r, counts, nil, zap.NewNop())
	got, err := svc.Put(ctx, "S1", &model.RANEquipment{NumberOfCabinets: 1})

	require.NoError(t, err)
	assert.Equal(t, 4, got.NumberOfCabinets)
}
