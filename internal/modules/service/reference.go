package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReferenceService serves the MU → Country → CT → Project → Company lookup
// hierarchy. The data is small and nearly static, so list reads go through a
// redis cache with a short TTL; writes invalidate the affected keys. Only
// lookups are cached, never the derived-count path.
type ReferenceService interface {
	MarketUnits(ctx context.Context) ([]model.MarketUnit, error)
	Countries(ctx context.Context) ([]model.Country, error)
	CountriesForMarketUnit(ctx context.Context, marketUnitID uint) ([]model.Country, error)
	CTsForCountry(ctx context.Context, countryID uint) ([]model.CT, error)
	ProjectsForCT(ctx context.Context, ctID uint) ([]model.Project, error)
	CompaniesForProject(ctx context.Context, projectID uint) ([]model.Company, error)

	CreateMarketUnit(ctx context.Context, name, code string, countryIDs []uint) (*model.MarketUnit, error)
	CreateCountry(ctx context.Context, name, code string, marketUnitIDs []uint) (*model.Country, error)
	CreateCT(ctx context.Context, countryID uint, name, code string) (*model.CT, error)
	CreateProject(ctx context.Context, ctID uint, name, code string) (*model.Project, error)
	CreateCompany(ctx context.Context, projectID uint, name, code string) (*model.Company, error)
}

type referenceService struct {
	repo  repo.ReferenceRepo
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewReferenceService(r repo.ReferenceRepo, cache *redis.Client, cfg *config.Config, log *zap.Logger) ReferenceService {
	return &referenceService{
		repo:  r,
		cache: cache,
		ttl:   time.Duration(cfg.Redis.ReferenceTTLSec) * time.Second,
		log:   log,
	}
}

// cached wraps a repo list call with redis get/set. A nil or unreachable
// cache degrades to a plain DB read.
func cached[V any](ctx context.Context, s *referenceService, key string, load func(context.Context) ([]V, error)) ([]V, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var items []V
			if err := sonic.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
		} else if err != redis.Nil {
			s.log.Warn("reference cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	items, err := load(ctx)
	if err != nil {
		return nil, NewInternal(err, "load reference data")
	}

	if s.cache != nil {
		if raw, err := sonic.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.log.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return items, nil
}

func (s *referenceService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil || len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("reference cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *referenceService) MarketUnits(ctx context.Context) ([]model.MarketUnit, error) {
	return cached(ctx, s, "ref:market_units", s.repo.ListMarketUnits)
}

func (s *referenceService) Countries(ctx context.Context) ([]model.Country, error) {
	return cached(ctx, s, "ref:countries", s.repo.ListCountries)
}

func (s *referenceService) CountriesForMarketUnit(ctx context.Context, marketUnitID uint) ([]model.Country, error) {
	key := fmt.Sprintf("ref:mu:%d:countries", marketUnitID)
	return cached(ctx, s, key, func(ctx context.Context) ([]model.Country, error) {
		return s.repo.CountriesForMarketUnit(ctx, marketUnitID)
	})
}

func (s *referenceService) CTsForCountry(ctx context.Context, countryID uint) ([]model.CT, error) {
	key := fmt.Sprintf("ref:country:%d:cts", countryID)
	return cached(ctx, s, key, func(ctx context.Context) ([]model.CT, error) {
		return s.repo.CTsForCountry(ctx, countryID)
	})
}

func (s *referenceService) ProjectsForCT(ctx context.Context, ctID uint) ([]model.Project, error) {
	key := fmt.Sprintf("ref:ct:%d:projects", ctID)
	return cached(ctx, s, key, func(ctx context.Context) ([]model.Project, error) {
		return s.repo.ProjectsForCT(ctx, ctID)
	})
}

func (s *referenceService) CompaniesForProject(ctx context.Context, projectID uint) ([]model.Company, error) {
	key := fmt.Sprintf("ref:project:%d:companies", projectID)
	return cached(ctx, s, key, func(ctx context.Context) ([]model.Company, error) {
		return s.repo.CompaniesForProject(ctx, projectID)
	})
}

func checkRefFields(name, code string) error {
	if name == "" || code == "" {
		return NewValidation("name and code are required")
	}
	if len(code) > 16 {
		return NewValidation("code must be at most 16 characters")
	}
	return nil
}

func (s *referenceService) CreateMarketUnit(ctx context.Context, name, code string, countryIDs []uint) (*model.MarketUnit, error) {
	if err := checkRefFields(name, code); err != nil {
		return nil, err
	}
	mu := &model.MarketUnit{Name: name, Code: code}
	if err := s.repo.CreateMarketUnit(ctx, mu, countryIDs); err != nil {
		return nil, translateRefError(err, "market unit", code)
	}
	keys := []string{"ref:market_units"}
	for _, cid := range countryIDs {
		keys = append(keys, fmt.Sprintf("ref:mu:%d:countries", mu.ID), fmt.Sprintf("ref:country:%d:cts", cid))
	}
	s.invalidate(ctx, keys...)
	return mu, nil
}

func (s *referenceService) CreateCountry(ctx context.Context, name, code string, marketUnitIDs []uint) (*model.Country, error) {
	if err := checkRefFields(name, code); err != nil {
		return nil, err
	}
	c := &model.Country{Name: name, Code: code}
	if err := s.repo.CreateCountry(ctx, c, marketUnitIDs); err != nil {
		return nil, translateRefError(err, "country", code)
	}
	keys := []string{"ref:countries"}
	for _, mid := range marketUnitIDs {
		keys = append(keys, fmt.Sprintf("ref:mu:%d:countries", mid))
	}
	s.invalidate(ctx, keys...)
	return c, nil
}

func (s *referenceService) CreateCT(ctx context.Context, countryID uint, name, code string) (*model.CT, error) {
	if err := checkRefFields(name, code); err != nil {
		return nil, err
	}
	ct := &model.CT{CountryID: countryID, Name: name, Code: code}
	if err := s.repo.CreateCT(ctx, ct); err != nil {
		return nil, translateRefError(err, "CT", code)
	}
	s.invalidate(ctx, fmt.Sprintf("ref:country:%d:cts", countryID))
	return ct, nil
}

func (s *referenceService) CreateProject(ctx context.Context, ctID uint, name, code string) (*model.Project, error) {
	if err := checkRefFields(name, code); err != nil {
		return nil, err
	}
	p := &model.Project{CTID: ctID, Name: name, Code: code}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, translateRefError(err, "project", code)
	}
	s.invalidate(ctx, fmt.Sprintf("ref:ct:%d:projects", ctID))
	return p, nil
}

func (s *referenceService) CreateCompany(ctx context.Context, projectID uint, name, code string) (*model.Company, error) {
	if err := checkRefFields(name, code); err != nil {
		return nil, err
	}
	c := &model.Company{ProjectID: projectID, Name: name, Code: code}
	if err := s.repo.CreateCompany(ctx, c); err != nil {
		return nil, translateRefError(err, "company", code)
	}
	s.invalidate(ctx, fmt.Sprintf("ref:project:%d:companies", projectID))
	return c, nil
}

func translateRefError(err error, level, code string) error {
	switch {
	case repo.IsUniqueViolation(err):
		return NewDuplicate("%s with code '%s' already exists", level, code)
	case repo.IsForeignKeyViolation(err):
		return NewForeignKey("parent record for %s '%s' not found", level, code)
	default:
		return NewInternal(err, "create %s", level)
	}
}
