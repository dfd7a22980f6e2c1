package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/netfield-io/sitesurvey/internal/bootstrap"
	"github.com/netfield-io/sitesurvey/internal/config"
	mq "github.com/netfield-io/sitesurvey/internal/infra/queue"
	"github.com/netfield-io/sitesurvey/internal/modules/handler"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/router"
	"github.com/netfield-io/sitesurvey/internal/telemetry"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Site Survey API
// @version 1.0
// @description Backend for telecom site-survey data collection: session-keyed form modules, photo uploads and spreadsheet export.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	logger := do.MustInvoke[*zap.Logger](inj)
	defer logger.Sync() //nolint:errcheck

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Fatalf("setup tracing: %v", err)
	}

	deps := router.RouterDeps{
		Config: cfg,
		DB:     do.MustInvoke[*gorm.DB](inj),
		Log:    logger,

		SurveyHandler:    do.MustInvoke[*handler.SurveyHandler](inj),
		ReferenceHandler: do.MustInvoke[*handler.ReferenceHandler](inj),
		ExportHandler:    do.MustInvoke[*handler.ExportHandler](inj),

		SiteAccess:   do.MustInvoke[*handler.FormHandler[model.SiteAccess, *model.SiteAccess]](inj),
		HealthSafety: do.MustInvoke[*handler.FormHandler[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]](inj),
		Cabinets:     do.MustInvoke[*handler.FormHandler[model.OutdoorCabinets, *model.OutdoorCabinets]](inj),
		ACPower:      do.MustInvoke[*handler.FormHandler[model.ACConnectionInfo, *model.ACConnectionInfo]](inj),
		DCPower:      do.MustInvoke[*handler.FormHandler[model.DCPowerSystem, *model.DCPowerSystem]](inj),
		RAN:          do.MustInvoke[*handler.FormHandler[model.RANEquipment, *model.RANEquipment]](inj),
		Antennas:     do.MustInvoke[*handler.FormHandler[model.AntennaConfiguration, *model.AntennaConfiguration]](inj),

		RadioUnits:  do.MustInvoke[*handler.IndexedFormHandler[model.RadioUnit, *model.RadioUnit]](inj),
		NewAntennas: do.MustInvoke[*handler.IndexedFormHandler[model.NewAntenna, *model.NewAntenna]](inj),
		FPFHs:       do.MustInvoke[*handler.IndexedFormHandler[model.FPFH, *model.FPFH]](inj),

		SiteAccessImages:   do.MustInvoke[*handler.ImageHandler[model.SiteAccessImage, *model.SiteAccessImage]](inj),
		HealthSafetyImages: do.MustInvoke[*handler.ImageHandler[model.HealthSafetySiteAccessImage, *model.HealthSafetySiteAccessImage]](inj),
		CabinetImages:      do.MustInvoke[*handler.ImageHandler[model.OutdoorCabinetImage, *model.OutdoorCabinetImage]](inj),
		DCPowerImages:      do.MustInvoke[*handler.ImageHandler[model.DCPowerSystemImage, *model.DCPowerSystemImage]](inj),
		RANImages:          do.MustInvoke[*handler.ImageHandler[model.RANEquipmentImage, *model.RANEquipmentImage]](inj),
		AntennaImages:      do.MustInvoke[*handler.ImageHandler[model.AntennaConfigurationImage, *model.AntennaConfigurationImage]](inj),
		RadioUnitImages:    do.MustInvoke[*handler.ImageHandler[model.RadioUnitImage, *model.RadioUnitImage]](inj),
		NewAntennaImages:   do.MustInvoke[*handler.ImageHandler[model.NewAntennaImage, *model.NewAntennaImage]](inj),
		FPFHImages:         do.MustInvoke[*handler.ImageHandler[model.FPFHImage, *model.FPFHImage]](inj),
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	if pub := do.MustInvoke[*mq.Publisher](inj); pub != nil {
		pub.Close()
	}
	if conn := do.MustInvoke[*amqp.Connection](inj); conn != nil {
		_ = conn.Close()
	}
	if rdb := do.MustInvoke[*redis.Client](inj); rdb != nil {
		_ = rdb.Close()
	}
	if db := do.MustInvoke[*gorm.DB](inj); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tp != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracing shutdown", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
