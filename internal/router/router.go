package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/netfield-io/sitesurvey/docs"
	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/middleware"
	"github.com/netfield-io/sitesurvey/internal/modules/handler"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *zap.Logger

	SurveyHandler    *handler.SurveyHandler
	ReferenceHandler *handler.ReferenceHandler
	ExportHandler    *handler.ExportHandler

	SiteAccess   *handler.FormHandler[model.SiteAccess, *model.SiteAccess]
	HealthSafety *handler.FormHandler[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]
	Cabinets     *handler.FormHandler[model.OutdoorCabinets, *model.OutdoorCabinets]
	ACPower      *handler.FormHandler[model.ACConnectionInfo, *model.ACConnectionInfo]
	DCPower      *handler.FormHandler[model.DCPowerSystem, *model.DCPowerSystem]
	RAN          *handler.FormHandler[model.RANEquipment, *model.RANEquipment]
	Antennas     *handler.FormHandler[model.AntennaConfiguration, *model.AntennaConfiguration]

	RadioUnits  *handler.IndexedFormHandler[model.RadioUnit, *model.RadioUnit]
	NewAntennas *handler.IndexedFormHandler[model.NewAntenna, *model.NewAntenna]
	FPFHs       *handler.IndexedFormHandler[model.FPFH, *model.FPFH]

	SiteAccessImages   *handler.ImageHandler[model.SiteAccessImage, *model.SiteAccessImage]
	HealthSafetyImages *handler.ImageHandler[model.HealthSafetySiteAccessImage, *model.HealthSafetySiteAccessImage]
	CabinetImages      *handler.ImageHandler[model.OutdoorCabinetImage, *model.OutdoorCabinetImage]
	DCPowerImages      *handler.ImageHandler[model.DCPowerSystemImage, *model.DCPowerSystemImage]
	RANImages          *handler.ImageHandler[model.RANEquipmentImage, *model.RANEquipmentImage]
	AntennaImages      *handler.ImageHandler[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]
	RadioUnitImages    *handler.ImageHandler[model.RadioUnitImage, *model.RadioUnitImage]
	NewAntennaImages   *handler.ImageHandler[model.NewAntennaImage, *model.NewAntennaImage]
	FPFHImages         *handler.ImageHandler[model.FPFHImage, *model.FPFHImage]
}

// formRoutes registers the uniform singleton-module surface.
func formRoutes[T any, PT interface {
	*T
	repo.SessionScoped
}](g *gin.RouterGroup, path string, h *handler.FormHandler[T, PT]) *gin.RouterGroup {
	mod := g.Group(path)
	mod.GET("/:session_id", h.Get)
	mod.PUT("/:session_id", h.Put)
	mod.PATCH("/:session_id", h.Patch)
	mod.DELETE("/:session_id", h.Delete)
	return mod
}

// indexedRoutes registers the repeated-module surface.
func indexedRoutes[T any, PT interface {
	*T
	repo.IndexScoped
}](g *gin.RouterGroup, path string, h *handler.IndexedFormHandler[T, PT]) *gin.RouterGroup {
	mod := g.Group(path)
	mod.GET("/:session_id", h.List)
	mod.GET("/:session_id/:index", h.Get)
	mod.PUT("/:session_id/:index", h.Put)
	mod.DELETE("/:session_id/:index", h.Delete)
	return mod
}

// imageRoutes attaches the photo endpoints under a module group.
func imageRoutes[T any, PT interface {
	*T
	repo.ImageRecord
}](mod *gin.RouterGroup, h *handler.ImageHandler[T, PT]) {
	mod.POST("/:session_id/images", h.Upload)
	mod.GET("/:session_id/images", h.List)
	mod.DELETE("/:session_id/images/:image_id", h.Delete)
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, serializer.OK(gin.H{"status": "ok"}))
	})

	// Uploaded photos are served straight from the local store.
	r.Static(d.Config.Uploads.PublicPrefix, d.Config.Uploads.Dir)

	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.ClientAuth(d.Config, d.DB))

		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, serializer.OK(gin.H{"message": "pong"}))
		})

		surveys := v1.Group("/surveys")
		{
			surveys.POST("", d.SurveyHandler.Create)
			surveys.GET("", d.SurveyHandler.List)
			surveys.GET("/:session_id", d.SurveyHandler.Get)
			surveys.DELETE("/:session_id", d.SurveyHandler.Delete)
		}

		imageRoutes(formRoutes(v1, "/site-access", d.SiteAccess), d.SiteAccessImages)
		imageRoutes(formRoutes(v1, "/health-safety-site-access", d.HealthSafety), d.HealthSafetyImages)
		imageRoutes(formRoutes(v1, "/outdoor-cabinets", d.Cabinets), d.CabinetImages)
		formRoutes(v1, "/ac-connection-info", d.ACPower)
		imageRoutes(formRoutes(v1, "/dc-power-system", d.DCPower), d.DCPowerImages)
		imageRoutes(formRoutes(v1, "/ran-equipment", d.RAN), d.RANImages)
		imageRoutes(formRoutes(v1, "/antenna-configuration", d.Antennas), d.AntennaImages)

		imageRoutes(indexedRoutes(v1, "/radio-units", d.RadioUnits), d.RadioUnitImages)
		imageRoutes(indexedRoutes(v1, "/new-antennas", d.NewAntennas), d.NewAntennaImages)
		imageRoutes(indexedRoutes(v1, "/fpfhs", d.FPFHs), d.FPFHImages)

		v1.GET("/market-units", d.ReferenceHandler.ListMarketUnits)
		v1.POST("/market-units", d.ReferenceHandler.CreateMarketUnit)
		v1.GET("/market-units/:id/countries", d.ReferenceHandler.CountriesForMarketUnit)
		v1.GET("/countries", d.ReferenceHandler.ListCountries)
		v1.POST("/countries", d.ReferenceHandler.CreateCountry)
		v1.GET("/countries/:id/cts", d.ReferenceHandler.CTsForCountry)
		v1.POST("/countries/:id/cts", d.ReferenceHandler.CreateCT)
		v1.GET("/cts/:id/projects", d.ReferenceHandler.ProjectsForCT)
		v1.POST("/cts/:id/projects", d.ReferenceHandler.CreateProject)
		v1.GET("/projects/:id/companies", d.ReferenceHandler.CompaniesForProject)
		v1.POST("/projects/:id/companies", d.ReferenceHandler.CreateCompany)

		v1.GET("/export/:session_id", d.ExportHandler.Export)
	}
	return r
}
