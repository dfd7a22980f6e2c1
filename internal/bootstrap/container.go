package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/infra/blob"
	"github.com/netfield-io/sitesurvey/internal/infra/cache"
	"github.com/netfield-io/sitesurvey/internal/infra/db"
	"github.com/netfield-io/sitesurvey/internal/infra/logger"
	mq "github.com/netfield-io/sitesurvey/internal/infra/queue"
	"github.com/netfield-io/sitesurvey/internal/infra/storage"
	"github.com/netfield-io/sitesurvey/internal/modules/handler"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideFormRepo registers the repo for one singleton form module.
func provideFormRepo[T any, PT interface {
	*T
	repo.SessionScoped
}](inj *do.Injector) {
	do.Provide(inj, func(i *do.Injector) (repo.FormRepo[T, PT], error) {
		return repo.NewFormRepo[T, PT](do.MustInvoke[*gorm.DB](i)), nil
	})
}

func provideIndexedRepo[T any, PT interface {
	*T
	repo.IndexScoped
}](inj *do.Injector) {
	do.Provide(inj, func(i *do.Injector) (repo.IndexedFormRepo[T, PT], error) {
		return repo.NewIndexedFormRepo[T, PT](do.MustInvoke[*gorm.DB](i)), nil
	})
}

// provideImageStack registers the repo, service and handler of one module's
// image subsystem.
func provideImageStack[T any, PT interface {
	*T
	repo.ImageRecord
}](inj *do.Injector, hooks service.ImageHooks) {
	do.Provide(inj, func(i *do.Injector) (repo.ImageRepo[T, PT], error) {
		return repo.NewImageRepo[T, PT](do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ImageService[T, PT], error) {
		return service.NewImageService(
			do.MustInvoke[repo.ImageRepo[T, PT]](i),
			do.MustInvoke[*storage.Store](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
			hooks,
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ImageHandler[T, PT], error) {
		return handler.NewImageHandler(
			do.MustInvoke[service.ImageService[T, PT]](i),
			hooks.Module, hooks.Indexed,
		), nil
	})
}

func provideFormHandler[T any, PT interface {
	*T
	repo.SessionScoped
}](inj *do.Injector) {
	do.Provide(inj, func(i *do.Injector) (*handler.FormHandler[T, PT], error) {
		return handler.NewFormHandler(do.MustInvoke[service.FormService[T, PT]](i)), nil
	})
}

func provideIndexedHandler[T any, PT interface {
	*T
	repo.IndexScoped
}](inj *do.Injector) {
	do.Provide(inj, func(i *do.Injector) (*handler.IndexedFormHandler[T, PT], error) {
		return handler.NewIndexedFormHandler(do.MustInvoke[service.IndexedFormService[T, PT]](i)), nil
	})
}

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}

		if cfg.Database.AutoMigrate {
			if err := d.AutoMigrate(
				&model.Survey{},
				&model.ApiClient{},

				&model.SiteAccess{},
				&model.HealthSafetySiteAccess{},
				&model.OutdoorCabinets{},
				&model.ACConnectionInfo{},
				&model.DCPowerSystem{},
				&model.RANEquipment{},
				&model.AntennaConfiguration{},
				&model.RadioUnit{},
				&model.NewAntenna{},
				&model.FPFH{},

				&model.SiteAccessImage{},
				&model.HealthSafetySiteAccessImage{},
				&model.OutdoorCabinetImage{},
				&model.DCPowerSystemImage{},
				&model.RANEquipmentImage{},
				&model.AntennaConfigurationImage{},
				&model.RadioUnitImage{},
				&model.NewAntennaImage{},
				&model.FPFHImage{},

				&model.MarketUnit{},
				&model.Country{},
				&model.MarketUnitCountry{},
				&model.CT{},
				&model.Project{},
				&model.Company{},
			); err != nil {
				return nil, err
			}
		}

		if err := EnsureDefaultClientExists(context.Background(), d, cfg, log); err != nil {
			return nil, err
		}
		if cfg.ReferenceSeed.Enabled {
			if err := SeedReferenceData(context.Background(), d, log); err != nil {
				return nil, err
			}
		}

		return d, nil
	})

	// Redis. Optional: reference-data caching degrades to DB reads without it.
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Redis.Addr == "" {
			return nil, nil
		}
		return cache.New(cfg)
	})

	// RabbitMQ connection. Optional: a nil publisher disables events.
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}

		useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")
		if useTLS {
			tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
			url := cfg.RabbitMQ.URL
			if strings.HasPrefix(url, "amqp://") {
				url = strings.Replace(url, "amqp://", "amqps://", 1)
			}
			return amqp.DialTLS(url, tlsConfig)
		}
		return amqp.Dial(cfg.RabbitMQ.URL)
	})

	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		conn := do.MustInvoke[*amqp.Connection](i)
		if conn == nil {
			return nil, nil
		}
		return mq.NewPublisher(conn,
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*config.Config](i))
	})

	// S3 mirror (nil when disabled)
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Local photo store
	do.Provide(inj, func(i *do.Injector) (*storage.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return storage.NewStore(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
	})

	// Lifecycle events
	do.Provide(inj, func(i *do.Injector) (*service.Events, error) {
		return service.NewEvents(
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Repos
	do.Provide(inj, func(i *do.Injector) (repo.SurveyRepo, error) {
		return repo.NewSurveyRepo(
			do.MustInvoke[*gorm.DB](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ReferenceRepo, error) {
		return repo.NewReferenceRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CabinetCountSource, error) {
		return repo.NewCabinetCountSource(do.MustInvoke[*gorm.DB](i)), nil
	})

	provideFormRepo[model.SiteAccess](inj)
	provideFormRepo[model.HealthSafetySiteAccess](inj)
	provideFormRepo[model.OutdoorCabinets](inj)
	provideFormRepo[model.ACConnectionInfo](inj)
	provideFormRepo[model.DCPowerSystem](inj)
	provideFormRepo[model.RANEquipment](inj)
	provideFormRepo[model.AntennaConfiguration](inj)

	provideIndexedRepo[model.RadioUnit](inj)
	provideIndexedRepo[model.NewAntenna](inj)
	provideIndexedRepo[model.FPFH](inj)

	// Image stacks. Singleton modules take unindexed uploads; per-cabinet and
	// per-antenna modules bind images to an entity index.
	provideImageStack[model.SiteAccessImage](inj, service.ImageHooks{
		Label: "site access", Module: "site_access"})
	provideImageStack[model.HealthSafetySiteAccessImage](inj, service.ImageHooks{
		Label: "health & safety site access", Module: "health_safety_site_access"})
	provideImageStack[model.DCPowerSystemImage](inj, service.ImageHooks{
		Label: "DC power system", Module: "dc_power_system"})
	provideImageStack[model.RANEquipmentImage](inj, service.ImageHooks{
		Label: "RAN equipment", Module: "ran_equipment"})
	provideImageStack[model.OutdoorCabinetImage](inj, service.ImageHooks{
		Label: "outdoor cabinet", Module: "outdoor_cabinets", Indexed: true})
	provideImageStack[model.RadioUnitImage](inj, service.ImageHooks{
		Label: "radio unit", Module: "radio_units", Indexed: true})
	provideImageStack[model.NewAntennaImage](inj, service.ImageHooks{
		Label: "new antenna", Module: "new_antennas", Indexed: true})
	provideImageStack[model.FPFHImage](inj, service.ImageHooks{
		Label: "FPFH", Module: "fpfhs", Indexed: true})

	// Antenna configuration images bound by the live antenna_count.
	do.Provide(inj, func(i *do.Injector) (repo.ImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage], error) {
		return repo.NewImageRepo[model.AntennaConfigurationImage](do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ImageService[model.AntennaConfigurationImage, *model.AntennaConfigurationImage], error) {
		antennaForms := do.MustInvoke[repo.FormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]](i)
		hooks := service.ImageHooks{
			Label: "antenna configuration", Module: "antenna_configuration", Indexed: true,
			MaxIndex: func(ctx context.Context, sessionID string) (int, error) {
				rec, err := antennaForms.Get(ctx, sessionID)
				if repo.IsNotFound(err) {
					return 0, nil
				}
				if err != nil {
					return 0, err
				}
				return rec.AntennaCount, nil
			},
		}
		return service.NewImageService(
			do.MustInvoke[repo.ImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]](i),
			do.MustInvoke[*storage.Store](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
			hooks,
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ImageHandler[model.AntennaConfigurationImage, *model.AntennaConfigurationImage], error) {
		return handler.NewImageHandler(
			do.MustInvoke[service.ImageService[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]](i),
			"antenna_configuration", true,
		), nil
	})

	// Form services
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.SiteAccess, *model.SiteAccess], error) {
		return service.NewSiteAccessService(
			do.MustInvoke[repo.FormRepo[model.SiteAccess, *model.SiteAccess]](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess], error) {
		return service.NewHealthSafetyService(
			do.MustInvoke[repo.FormRepo[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.OutdoorCabinets, *model.OutdoorCabinets], error) {
		return service.NewOutdoorCabinetsService(
			do.MustInvoke[repo.FormRepo[model.OutdoorCabinets, *model.OutdoorCabinets]](i),
			do.MustInvoke[repo.ImageRepo[model.OutdoorCabinetImage, *model.OutdoorCabinetImage]](i),
			do.MustInvoke[*storage.Store](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.ACConnectionInfo, *model.ACConnectionInfo], error) {
		return service.NewACConnectionService(
			do.MustInvoke[repo.FormRepo[model.ACConnectionInfo, *model.ACConnectionInfo]](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.DCPowerSystem, *model.DCPowerSystem], error) {
		return service.NewDCPowerService(
			do.MustInvoke[repo.FormRepo[model.DCPowerSystem, *model.DCPowerSystem]](i),
			do.MustInvoke[repo.CabinetCountSource](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.RANEquipment, *model.RANEquipment], error) {
		return service.NewRANEquipmentService(
			do.MustInvoke[repo.FormRepo[model.RANEquipment, *model.RANEquipment]](i),
			do.MustInvoke[repo.CabinetCountSource](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FormService[model.AntennaConfiguration, *model.AntennaConfiguration], error) {
		return service.NewAntennaConfigService(
			do.MustInvoke[repo.FormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]](i),
			do.MustInvoke[repo.CabinetCountSource](i),
			do.MustInvoke[repo.ImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]](i),
			do.MustInvoke[*storage.Store](i),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Indexed form services
	do.Provide(inj, func(i *do.Injector) (service.IndexedFormService[model.RadioUnit, *model.RadioUnit], error) {
		return service.NewRadioUnitService(
			do.MustInvoke[repo.IndexedFormRepo[model.RadioUnit, *model.RadioUnit]](i),
			do.MustInvoke[repo.SurveyRepo](i),
			service.NewIndexPurge(
				do.MustInvoke[repo.ImageRepo[model.RadioUnitImage, *model.RadioUnitImage]](i),
				do.MustInvoke[*storage.Store](i),
				do.MustInvoke[*zap.Logger](i),
				"radio unit",
			),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.IndexedFormService[model.NewAntenna, *model.NewAntenna], error) {
		return service.NewNewAntennaService(
			do.MustInvoke[repo.IndexedFormRepo[model.NewAntenna, *model.NewAntenna]](i),
			do.MustInvoke[repo.SurveyRepo](i),
			service.NewIndexPurge(
				do.MustInvoke[repo.ImageRepo[model.NewAntennaImage, *model.NewAntennaImage]](i),
				do.MustInvoke[*storage.Store](i),
				do.MustInvoke[*zap.Logger](i),
				"new antenna",
			),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.IndexedFormService[model.FPFH, *model.FPFH], error) {
		return service.NewFPFHService(
			do.MustInvoke[repo.IndexedFormRepo[model.FPFH, *model.FPFH]](i),
			do.MustInvoke[repo.SurveyRepo](i),
			service.NewIndexPurge(
				do.MustInvoke[repo.ImageRepo[model.FPFHImage, *model.FPFHImage]](i),
				do.MustInvoke[*storage.Store](i),
				do.MustInvoke[*zap.Logger](i),
				"FPFH",
			),
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Survey service: collects every module's image purger so a survey
	// delete can clear files before the row cascade.
	do.Provide(inj, func(i *do.Injector) (service.SurveyService, error) {
		purgers := []service.SessionPurger{
			do.MustInvoke[service.ImageService[model.SiteAccessImage, *model.SiteAccessImage]](i),
			do.MustInvoke[service.ImageService[model.HealthSafetySiteAccessImage, *model.HealthSafetySiteAccessImage]](i),
			do.MustInvoke[service.ImageService[model.OutdoorCabinetImage, *model.OutdoorCabinetImage]](i),
			do.MustInvoke[service.ImageService[model.DCPowerSystemImage, *model.DCPowerSystemImage]](i),
			do.MustInvoke[service.ImageService[model.RANEquipmentImage, *model.RANEquipmentImage]](i),
			do.MustInvoke[service.ImageService[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]](i),
			do.MustInvoke[service.ImageService[model.RadioUnitImage, *model.RadioUnitImage]](i),
			do.MustInvoke[service.ImageService[model.NewAntennaImage, *model.NewAntennaImage]](i),
			do.MustInvoke[service.ImageService[model.FPFHImage, *model.FPFHImage]](i),
		}
		return service.NewSurveyService(
			do.MustInvoke[repo.SurveyRepo](i),
			purgers,
			do.MustInvoke[*service.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(inj, func(i *do.Injector) (service.ReferenceService, error) {
		return service.NewReferenceService(
			do.MustInvoke[repo.ReferenceRepo](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(inj, func(i *do.Injector) (service.ExportService, error) {
		return service.NewExportService(
			do.MustInvoke[repo.SurveyRepo](i),
			do.MustInvoke[repo.FormRepo[model.SiteAccess, *model.SiteAccess]](i),
			do.MustInvoke[repo.FormRepo[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]](i),
			do.MustInvoke[repo.FormRepo[model.OutdoorCabinets, *model.OutdoorCabinets]](i),
			do.MustInvoke[repo.FormRepo[model.ACConnectionInfo, *model.ACConnectionInfo]](i),
			do.MustInvoke[repo.FormRepo[model.DCPowerSystem, *model.DCPowerSystem]](i),
			do.MustInvoke[repo.FormRepo[model.RANEquipment, *model.RANEquipment]](i),
			do.MustInvoke[repo.FormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]](i),
			do.MustInvoke[repo.IndexedFormRepo[model.RadioUnit, *model.RadioUnit]](i),
			do.MustInvoke[repo.IndexedFormRepo[model.NewAntenna, *model.NewAntenna]](i),
			do.MustInvoke[repo.IndexedFormRepo[model.FPFH, *model.FPFH]](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handlers
	do.Provide(inj, func(i *do.Injector) (*handler.SurveyHandler, error) {
		return handler.NewSurveyHandler(do.MustInvoke[service.SurveyService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ReferenceHandler, error) {
		return handler.NewReferenceHandler(do.MustInvoke[service.ReferenceService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ExportHandler, error) {
		return handler.NewExportHandler(do.MustInvoke[service.ExportService](i)), nil
	})

	provideFormHandler[model.SiteAccess](inj)
	provideFormHandler[model.HealthSafetySiteAccess](inj)
	provideFormHandler[model.OutdoorCabinets](inj)
	provideFormHandler[model.ACConnectionInfo](inj)
	provideFormHandler[model.DCPowerSystem](inj)
	provideFormHandler[model.RANEquipment](inj)
	provideFormHandler[model.AntennaConfiguration](inj)

	provideIndexedHandler[model.RadioUnit](inj)
	provideIndexedHandler[model.NewAntenna](inj)
	provideIndexedHandler[model.FPFH](inj)

	return inj
}
