package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReferenceRepo struct {
	mock.Mock
}

func (m *mockReferenceRepo) ListMarketUnits(ctx context.Context) ([]model.MarketUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MarketUnit), args.Error(1)
}

func (m *mockReferenceRepo) ListCountries(ctx context.Context) ([]model.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Country), args.Error(1)
}

func (m *mockReferenceRepo) CountriesForMarketUnit(ctx context.Context, marketUnitID uint) ([]model.Country, error) {
	args := m.Called(ctx, marketUnitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Country), args.Error(1)
}

func (m *mockReferenceRepo) CTsForCountry(ctx context.Context, countryID uint) ([]model.CT, error) {
	args := m.Called(ctx, countryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CT), args.Error(1)
}

func (m *mockReferenceRepo) ProjectsForCT(ctx context.Context, ctID uint) ([]model.Project, error) {
	args := m.Called(ctx, ctID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *mockReferenceRepo) CompaniesForProject(ctx context.Context, projectID uint) ([]model.Company, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Company), args.Error(1)
}

func (m *mockReferenceRepo) CreateMarketUnit(ctx context.Context, mu *model.MarketUnit, countryIDs []uint) error {
	args := m.Called(ctx, mu, countryIDs)
	return args.Error(0)
}

func (m *mockReferenceRepo) CreateCountry(ctx context.Context, c *model.Country, marketUnitIDs []uint) error {
	args := m.Called(ctx, c, marketUnitIDs)
	return args.Error(0)
}

func (m *mockReferenceRepo) CreateCT(ctx context.Context, ct *model.CT) error {
	args := m.Called(ctx, ct)
	return args.Error(0)
}

func (m *mockReferenceRepo) CreateProject(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockReferenceRepo) CreateCompany(ctx context.Context, c *model.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func newReferenceService(t *testing.T, r *mockReferenceRepo) (ReferenceService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := &config.Config{}
	cfg.Redis.ReferenceTTLSec = 600
	return NewReferenceService(r, client, cfg, zap.NewNop()), mr
}

func TestReferenceListsAreCached(t *testing.T) {
	ctx := context.Background()
	r := &mockReferenceRepo{}
	r.On("ListMarketUnits", ctx).Return([]model.MarketUnit{
		{ID: 1, Name: "Europe", Code: "EU"},
	}, nil).Once()
	svc, mr := newReferenceService(t, r)

	first, err := svc.MarketUnits(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists("ref:market_units"))

	// Second read is served from redis; the repo expectation is Once().
	second, err := svc.MarketUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	r.AssertExpectations(t)
}

func TestReferenceScopedListsUseDistinctKeys(t *testing.T) {
	ctx := context.Background()
	r := &mockReferenceRepo{}
	r.On("CTsForCountry", ctx, uint(1)).Return([]model.CT{{ID: 10, CountryID: 1, Name: "CT-NORTH", Code: "CT-NORTH"}}, nil).Once()
	r.On("CTsForCountry", ctx, uint(2)).Return([]model.CT{}, nil).Once()
	svc, mr := newReferenceService(t, r)

	north, err := svc.CTsForCountry(ctx, 1)
	require.NoError(t, err)
	require.Len(t, north, 1)

	empty, err := svc.CTsForCountry(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.True(t, mr.Exists("ref:country:1:cts"))
	assert.True(t, mr.Exists("ref:country:2:cts"))
}

func TestReferenceCreateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	r := &mockReferenceRepo{}
	r.On("CTsForCountry", ctx, uint(1)).Return([]model.CT{}, nil).Once()
	r.On("CreateCT", ctx, mock.Anything).Return(nil)
	svc, mr := newReferenceService(t, r)

	_, err := svc.CTsForCountry(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists("ref:country:1:cts"))

	_, err = svc.CreateCT(ctx, 1, "CT South", "CT-SOUTH")
	require.NoError(t, err)
	assert.False(t, mr.Exists("ref:country:1:cts"))
}

func TestReferenceDegradesWithoutRedis(t *testing.T) {
	ctx := context.Background()
	r := &mockReferenceRepo{}
	r.On("ListCountries", ctx).Return([]model.Country{{ID: 1, Name: "Germany", Code: "DE"}}, nil).Twice()

	cfg := &config.Config{}
	svc := NewReferenceService(r, nil, cfg, zap.NewNop())

	for range 2 {
		items, err := svc.Countries(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	r.AssertExpectations(t)
}

func TestReferenceCreateValidation(t *testing.T) {
	ctx := context.Background()
	r := &mockReferenceRepo{}
	svc, _ := newReferenceService(t, r)

	_, err := svc.CreateMarketUnit(ctx, "", "EU", nil)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))

	_, err = svc.CreateProject(ctx, 1, "Rollout", "THIS-CODE-IS-FAR-TOO-LONG")
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	r.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
}

func TestReferenceCreateTranslatesConstraintErrors(t *testing.T) {
	ctx := context.Background()
	r := &mockReferenceRepo{}
	r.On("CreateCT", ctx, mock.Anything).Return(&pgconn.PgError{Code: "23505"}).Once()
	r.On("CreateCompany", ctx, mock.Anything).Return(&pgconn.PgError{Code: "23503"}).Once()
	svc, _ := newReferenceService(t, r)

	_, err := svc.CreateCT(ctx, 1, "CT North", "CT-NORTH")
	require.Error(t, err)
	assert.Equal(t, ErrKindDuplicate, KindOf(err))

	_, err = svc.CreateCompany(ctx, 99, "Acme", "ACME")
	require.Error(t, err)
	assert.Equal(t, ErrKindForeignKey, KindOf(err))
}
