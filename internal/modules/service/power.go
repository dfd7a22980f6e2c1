package service

import (
	"context"
	"fmt"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/pkg/forms"
	"go.uber.org/zap"
)

var acConnectionEnums = []forms.EnumField{
	{Name: "three_phase_available", Allowed: forms.YesNo},
	{Name: "backup_generator_present", Allowed: forms.YesNo},
}

var acConnectionPatchable = []string{
	"ac_power_source", "three_phase_available", "backup_generator_present",
	"main_breaker_rating_amp", "cable_size_mm2", "connection_notes",
}

func NewACConnectionService(
	r repo.FormRepo[model.ACConnectionInfo, *model.ACConnectionInfo],
	events *Events,
	log *zap.Logger,
) FormService[model.ACConnectionInfo, *model.ACConnectionInfo] {
	return NewGenericFormService(r, events, log, FormHooks[model.ACConnectionInfo, *model.ACConnectionInfo]{
		Label:  "AC connection info",
		Module: "ac_connection_info",
		Default: func(sessionID string) *model.ACConnectionInfo {
			return &model.ACConnectionInfo{
				SessionID:              sessionID,
				ACPowerSource:          forms.Filled(),
				ThreePhaseAvailable:    forms.Filled(),
				BackupGeneratorPresent: forms.Filled(),
			}
		},
		Validate: func(rec *model.ACConnectionInfo) error {
			if rec.MainBreakerRatingAmp != nil && *rec.MainBreakerRatingAmp < 0 {
				return NewValidation("main_breaker_rating_amp must be >= 0")
			}
			if rec.CableSizeMM2 != nil && *rec.CableSizeMM2 < 0 {
				return NewValidation("cable_size_mm2 must be >= 0")
			}
			return forms.CheckEnums(acConnectionEnums, map[string]*string{
				"three_phase_available":    rec.ThreePhaseAvailable,
				"backup_generator_present": rec.BackupGeneratorPresent,
			})
		},
		Normalize: func(_ context.Context, rec *model.ACConnectionInfo) error {
			rec.ACPowerSource = forms.Coerce(rec.ACPowerSource)
			rec.ThreePhaseAvailable = forms.Coerce(rec.ThreePhaseAvailable)
			rec.BackupGeneratorPresent = forms.Coerce(rec.BackupGeneratorPresent)
			rec.ConnectionNotes = forms.Coerce(rec.ConnectionNotes)
			return nil
		},
		PreparePatch: func(_ context.Context, _ string, fields map[string]any) error {
			restrictPatch(fields, acConnectionPatchable)
			if err := coercePatchInts(fields, "main_breaker_rating_amp"); err != nil {
				return err
			}
			return checkPatchEnums(fields, acConnectionEnums)
		},
	})
}

var dcPowerPatchable = []string{
	"dc_system_vendor", "total_rectifiers", "free_rectifier_slots",
	"battery_autonomy_hours", "dc_pdus",
}

// NewDCPowerService builds the DC power system module. Its
// number_of_cabinets column is a cache of the outdoor_cabinets value,
// refreshed from the source on every write.
func NewDCPowerService(
	r repo.FormRepo[model.DCPowerSystem, *model.DCPowerSystem],
	counts repo.CabinetCountSource,
	events *Events,
	log *zap.Logger,
) FormService[model.DCPowerSystem, *model.DCPowerSystem] {
	return NewGenericFormService(r, events, log, FormHooks[model.DCPowerSystem, *model.DCPowerSystem]{
		Label:  "DC power system",
		Module: "dc_power_system",
		Default: func(sessionID string) *model.DCPowerSystem {
			return &model.DCPowerSystem{
				SessionID:        sessionID,
				NumberOfCabinets: 1,
				DCSystemVendor:   forms.Filled(),
			}
		},
		Validate: func(rec *model.DCPowerSystem) error {
			for name, v := range map[string]*int{
				"total_rectifiers":     rec.TotalRectifiers,
				"free_rectifier_slots": rec.FreeRectifierSlots,
			} {
				if v != nil && *v < 0 {
					return NewValidation("%s must be >= 0", name)
				}
			}
			if rec.BatteryAutonomyHours != nil && *rec.BatteryAutonomyHours < 0 {
				return NewValidation("battery_autonomy_hours must be >= 0")
			}
			return validateEntries("dc_pdus", rec.DCPDUs.Data())
		},
		Normalize: func(ctx context.Context, rec *model.DCPowerSystem) error {
			rec.DCSystemVendor = forms.Coerce(rec.DCSystemVendor)
			return syncCabinetCount(ctx, counts, rec.SessionID, &rec.NumberOfCabinets)
		},
		PreparePatch: func(ctx context.Context, sessionID string, fields map[string]any) error {
			restrictPatch(fields, dcPowerPatchable)
			if err := coercePatchInts(fields, "total_rectifiers", "free_rectifier_slots"); err != nil {
				return err
			}
			if err := encodePatchJSONB[model.DCPDUEntry](fields, "dc_pdus"); err != nil {
				return err
			}
			return syncCabinetCountField(ctx, counts, sessionID, fields)
		},
	})
}

var ranEquipmentPatchable = []string{"existing_vendor", "ran_racks", "equipment_notes"}

func NewRANEquipmentService(
	r repo.FormRepo[model.RANEquipment, *model.RANEquipment],
	counts repo.CabinetCountSource,
	events *Events,
	log *zap.Logger,
) FormService[model.RANEquipment, *model.RANEquipment] {
	return NewGenericFormService(r, events, log, FormHooks[model.RANEquipment, *model.RANEquipment]{
		Label:  "RAN equipment",
		Module: "ran_equipment",
		Default: func(sessionID string) *model.RANEquipment {
			return &model.RANEquipment{
				SessionID:        sessionID,
				NumberOfCabinets: 1,
				ExistingVendor:   forms.Filled(),
			}
		},
		Validate: func(rec *model.RANEquipment) error {
			return validateEntries("ran_racks", rec.RANRacks.Data())
		},
		Normalize: func(ctx context.Context, rec *model.RANEquipment) error {
			rec.ExistingVendor = forms.Coerce(rec.ExistingVendor)
			rec.EquipmentNotes = forms.Coerce(rec.EquipmentNotes)
			return syncCabinetCount(ctx, counts, rec.SessionID, &rec.NumberOfCabinets)
		},
		PreparePatch: func(ctx context.Context, sessionID string, fields map[string]any) error {
			restrictPatch(fields, ranEquipmentPatchable)
			if err := encodePatchJSONB[model.RANRackEntry](fields, "ran_racks"); err != nil {
				return err
			}
			return syncCabinetCountField(ctx, counts, sessionID, fields)
		},
	})
}

// syncCabinetCount overwrites the cached cabinet count from the
// outdoor_cabinets source table. The cached column is never authoritative.
func syncCabinetCount(ctx context.Context, counts repo.CabinetCountSource, sessionID string, dst *int) error {
	n, err := counts.CabinetCount(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetch cabinet count: %w", err)
	}
	*dst = n
	return nil
}

// syncCabinetCountField does the same for partial updates: whatever the
// client sent for number_of_cabinets, the refetched value wins.
func syncCabinetCountField(ctx context.Context, counts repo.CabinetCountSource, sessionID string, fields map[string]any) error {
	n, err := counts.CabinetCount(ctx, sessionID)
	if err != nil {
		return NewInternal(err, "fetch cabinet count")
	}
	fields["number_of_cabinets"] = n
	return nil
}
