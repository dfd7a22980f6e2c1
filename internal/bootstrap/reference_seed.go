package bootstrap

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedMarketUnits is the baseline reference hierarchy: enough rows for the
// mobile app's pickers to work on a fresh database. Real deployments extend
// it through the reference POST endpoints.
var seedMarketUnits = []struct {
	name      string
	code      string
	countries []struct {
		name string
		code string
		cts  []string
	}
}{
	{
		name: "Europe", code: "EU",
		countries: []struct {
			name string
			code string
			cts  []string
		}{
			{name: "Germany", code: "DE", cts: []string{"CT-NORTH", "CT-SOUTH"}},
			{name: "Spain", code: "ES", cts: []string{"CT-CENTRAL"}},
		},
	},
	{
		name: "Middle East & Africa", code: "MEA",
		countries: []struct {
			name string
			code string
			cts  []string
		}{
			{name: "Egypt", code: "EG", cts: []string{"CT-DELTA"}},
		},
	},
}

// SeedReferenceData inserts the baseline MU → Country → CT hierarchy on an
// empty database. A non-empty market_units table means a prior seed or a
// managed dataset, so it leaves everything alone.
func SeedReferenceData(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.MarketUnit{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, muSeed := range seedMarketUnits {
			mu := model.MarketUnit{Name: muSeed.name, Code: muSeed.code}
			if err := tx.Create(&mu).Error; err != nil {
				return err
			}
			for _, cSeed := range muSeed.countries {
				country := model.Country{Name: cSeed.name, Code: cSeed.code}
				if err := tx.Where(model.Country{Code: cSeed.code}).
					FirstOrCreate(&country, model.Country{Name: cSeed.name, Code: cSeed.code}).Error; err != nil {
					return err
				}
				link := model.MarketUnitCountry{MarketUnitID: mu.ID, CountryID: country.ID}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
				for _, ctCode := range cSeed.cts {
					ct := model.CT{CountryID: country.ID, Name: ctCode, Code: ctCode}
					if err := tx.Create(&ct).Error; err != nil {
						return err
					}
				}
			}
		}
		log.Info("reference data seeded")
		return nil
	})
}
