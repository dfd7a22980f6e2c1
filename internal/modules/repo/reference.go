package repo

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"gorm.io/gorm"
)

type ReferenceRepo interface {
	ListMarketUnits(ctx context.Context) ([]model.MarketUnit, error)
	ListCountries(ctx context.Context) ([]model.Country, error)
	// CountriesForMarketUnit resolves the only many-to-many relation in the
	// schema through the junction table with a raw join.
	CountriesForMarketUnit(ctx context.Context, marketUnitID uint) ([]model.Country, error)
	CTsForCountry(ctx context.Context, countryID uint) ([]model.CT, error)
	ProjectsForCT(ctx context.Context, ctID uint) ([]model.Project, error)
	CompaniesForProject(ctx context.Context, projectID uint) ([]model.Company, error)

	CreateMarketUnit(ctx context.Context, mu *model.MarketUnit, countryIDs []uint) error
	CreateCountry(ctx context.Context, c *model.Country, marketUnitIDs []uint) error
	CreateCT(ctx context.Context, ct *model.CT) error
	CreateProject(ctx context.Context, p *model.Project) error
	CreateCompany(ctx context.Context, c *model.Company) error
}

type referenceRepo struct {
	db *gorm.DB
}

func NewReferenceRepo(db *gorm.DB) ReferenceRepo {
	return &referenceRepo{db: db}
}

func (r *referenceRepo) ListMarketUnits(ctx context.Context) ([]model.MarketUnit, error) {
	var items []model.MarketUnit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *referenceRepo) ListCountries(ctx context.Context) ([]model.Country, error) {
	var items []model.Country
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *referenceRepo) CountriesForMarketUnit(ctx context.Context, marketUnitID uint) ([]model.Country, error) {
	var items []model.Country
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.*
		FROM countries c
		JOIN market_unit_countries mc ON mc.country_id = c.id
		WHERE mc.market_unit_id = ?
		ORDER BY c.name ASC`, marketUnitID).Scan(&items).Error
	return items, err
}

func (r *referenceRepo) CTsForCountry(ctx context.Context, countryID uint) ([]model.CT, error) {
	var items []model.CT
	err := r.db.WithContext(ctx).
		Where("country_id = ?", countryID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *referenceRepo) ProjectsForCT(ctx context.Context, ctID uint) ([]model.Project, error) {
	var items []model.Project
	err := r.db.WithContext(ctx).
		Where("ct_id = ?", ctID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *referenceRepo) CompaniesForProject(ctx context.Context, projectID uint) ([]model.Company, error) {
	var items []model.Company
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *referenceRepo) CreateMarketUnit(ctx context.Context, mu *model.MarketUnit, countryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mu).Error; err != nil {
			return err
		}
		for _, cid := range countryIDs {
			link := model.MarketUnitCountry{MarketUnitID: mu.ID, CountryID: cid}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *referenceRepo) CreateCountry(ctx context.Context, c *model.Country, marketUnitIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		for _, mid := range marketUnitIDs {
			link := model.MarketUnitCountry{MarketUnitID: mid, CountryID: c.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *referenceRepo) CreateCT(ctx context.Context, ct *model.CT) error {
	return r.db.WithContext(ctx).Create(ct).Error
}

func (r *referenceRepo) CreateProject(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *referenceRepo) CreateCompany(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}
