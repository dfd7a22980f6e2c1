package service

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/stretchr/testify/mock"
)

// mockFormRepo is a mock implementation of repo.FormRepo.
type mockFormRepo[T any, PT interface {
	*T
	repo.SessionScoped
}] struct {
	mock.Mock
}

func (m *mockFormRepo[T, PT]) Get(ctx context.Context, sessionID string) (PT, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockFormRepo[T, PT]) Upsert(ctx context.Context, rec PT) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockFormRepo[T, PT]) Patch(ctx context.Context, sessionID string, fields map[string]any) error {
	args := m.Called(ctx, sessionID, fields)
	return args.Error(0)
}

func (m *mockFormRepo[T, PT]) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// mockIndexedRepo is a mock implementation of repo.IndexedFormRepo.
type mockIndexedRepo[T any, PT interface {
	*T
	repo.IndexScoped
}] struct {
	mock.Mock
}

func (m *mockIndexedRepo[T, PT]) List(ctx context.Context, sessionID string) ([]T, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockIndexedRepo[T, PT]) Get(ctx context.Context, sessionID string, index int) (PT, error) {
	args := m.Called(ctx, sessionID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockIndexedRepo[T, PT]) Upsert(ctx context.Context, rec PT) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockIndexedRepo[T, PT]) Delete(ctx context.Context, sessionID string, index int) error {
	args := m.Called(ctx, sessionID, index)
	return args.Error(0)
}

func (m *mockIndexedRepo[T, PT]) Count(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIndexedRepo[T, PT]) DeleteBySession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// mockImageRepo is a mock implementation of repo.ImageRepo.
type mockImageRepo[T any, PT interface {
	*T
	repo.ImageRecord
}] struct {
	mock.Mock
}

func (m *mockImageRepo[T, PT]) ActiveByKey(ctx context.Context, sessionID string, entityIndex *int, category string) (PT, error) {
	args := m.Called(ctx, sessionID, entityIndex, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockImageRepo[T, PT]) GetByID(ctx context.Context, sessionID string, id uint) (PT, error) {
	args := m.Called(ctx, sessionID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockImageRepo[T, PT]) ListActive(ctx context.Context, sessionID string) ([]T, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockImageRepo[T, PT]) Create(ctx context.Context, rec PT) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockImageRepo[T, PT]) Save(ctx context.Context, rec PT) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockImageRepo[T, PT]) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockImageRepo[T, PT]) DeactivateFromIndex(ctx context.Context, sessionID string, minIndex int) ([]T, error) {
	args := m.Called(ctx, sessionID, minIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

// mockSurveyRepo is a mock implementation of repo.SurveyRepo.
type mockSurveyRepo struct {
	mock.Mock
}

func (m *mockSurveyRepo) Create(ctx context.Context, s *model.Survey) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSurveyRepo) Get(ctx context.Context, sessionID string) (*model.Survey, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Survey), args.Error(1)
}

func (m *mockSurveyRepo) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSurveyRepo) List(ctx context.Context, limit, offset int) ([]model.Survey, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *mockSurveyRepo) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// mockCabinetCounts is a mock implementation of repo.CabinetCountSource.
type mockCabinetCounts struct {
	mock.Mock
}

func (m *mockCabinetCounts) CabinetCount(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

// recordingPurger records purgeIndex calls.
type recordingPurger struct {
	calls [][2]any
}

func (p *recordingPurger) purgeIndex(_ context.Context, sessionID string, index int) {
	p.calls = append(p.calls, [2]any{sessionID, index})
}
