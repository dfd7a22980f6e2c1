package service

import (
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/pkg/forms"
	"go.uber.org/zap"
)

var radioTechnologies = []string{"2G", "3G", "4G", "5G"}

func NewRadioUnitService(
	r repo.IndexedFormRepo[model.RadioUnit, *model.RadioUnit],
	surveys repo.SurveyRepo,
	images indexedImagePurger,
	events *Events,
	log *zap.Logger,
) IndexedFormService[model.RadioUnit, *model.RadioUnit] {
	return NewIndexedFormService(r, surveys, images, events, log, IndexedFormHooks[model.RadioUnit, *model.RadioUnit]{
		Label:  "radio unit",
		Module: "radio_units",
		Validate: func(rec *model.RadioUnit) error {
			if rec.PortsInUse != nil && *rec.PortsInUse < 0 {
				return NewValidation("ports_in_use must be >= 0")
			}
			return forms.CheckEnum("technology", rec.Technology, radioTechnologies)
		},
		Normalize: func(rec *model.RadioUnit) {
			rec.Vendor = forms.Coerce(rec.Vendor)
			rec.Model = forms.Coerce(rec.Model)
			rec.Technology = forms.Coerce(rec.Technology)
			rec.DCPowerSource = forms.Coerce(rec.DCPowerSource)
			rec.Notes = forms.Coerce(rec.Notes)
		},
	})
}

var tiltTypes = []string{"Mechanical", "Electrical", "Both"}

func NewNewAntennaService(
	r repo.IndexedFormRepo[model.NewAntenna, *model.NewAntenna],
	surveys repo.SurveyRepo,
	images indexedImagePurger,
	events *Events,
	log *zap.Logger,
) IndexedFormService[model.NewAntenna, *model.NewAntenna] {
	return NewIndexedFormService(r, surveys, images, events, log, IndexedFormHooks[model.NewAntenna, *model.NewAntenna]{
		Label:  "new antenna",
		Module: "new_antennas",
		Validate: func(rec *model.NewAntenna) error {
			if rec.Sector != nil && (*rec.Sector < 0 || *rec.Sector > 12) {
				return NewValidation("sector must be between 0 and 12")
			}
			if rec.HeightM != nil && *rec.HeightM < 0 {
				return NewValidation("height_m must be >= 0")
			}
			if rec.AzimuthDeg != nil && (*rec.AzimuthDeg < 0 || *rec.AzimuthDeg >= 360) {
				return NewValidation("azimuth_deg must be between 0 and 359")
			}
			return forms.CheckEnum("tilt_type", rec.TiltType, tiltTypes)
		},
		Normalize: func(rec *model.NewAntenna) {
			rec.AntennaModel = forms.Coerce(rec.AntennaModel)
			rec.TiltType = forms.Coerce(rec.TiltType)
		},
	})
}

func NewFPFHService(
	r repo.IndexedFormRepo[model.FPFH, *model.FPFH],
	surveys repo.SurveyRepo,
	images indexedImagePurger,
	events *Events,
	log *zap.Logger,
) IndexedFormService[model.FPFH, *model.FPFH] {
	return NewIndexedFormService(r, surveys, images, events, log, IndexedFormHooks[model.FPFH, *model.FPFH]{
		Label:  "FPFH",
		Module: "fpfhs",
		Validate: func(rec *model.FPFH) error {
			if rec.PortsUsed != nil && *rec.PortsUsed < 0 {
				return NewValidation("ports_used must be >= 0")
			}
			return nil
		},
		Normalize: func(rec *model.FPFH) {
			rec.Model = forms.Coerce(rec.Model)
			rec.InstallLocation = forms.Coerce(rec.InstallLocation)
			rec.DCDistribution = forms.Coerce(rec.DCDistribution)
		},
	})
}
