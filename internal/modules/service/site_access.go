package service

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/netfield-io/sitesurvey/internal/pkg/forms"
	"go.uber.org/zap"
)

var siteAccessEnums = []forms.EnumField{
	{Name: "access_permission_required", Allowed: forms.YesNo},
	{Name: "keys_required", Allowed: forms.YesNo},
	{Name: "security_escort_required", Allowed: forms.YesNo},
	{Name: "site_accessible_by_truck", Allowed: forms.YesNoNA},
	{Name: "roof_access_available", Allowed: forms.YesNoNA},
	{Name: "ladder_required", Allowed: forms.YesNo},
}

var siteAccessPatchable = []string{
	"access_permission_required", "keys_required", "security_escort_required",
	"site_accessible_by_truck", "roof_access_available", "ladder_required",
	"gate_width_meters", "preferred_access_time", "access_notes",
}

func NewSiteAccessService(
	r repo.FormRepo[model.SiteAccess, *model.SiteAccess],
	events *Events,
	log *zap.Logger,
) FormService[model.SiteAccess, *model.SiteAccess] {
	return NewGenericFormService(r, events, log, FormHooks[model.SiteAccess, *model.SiteAccess]{
		Label:  "site access",
		Module: "site_access",
		Default: func(sessionID string) *model.SiteAccess {
			return &model.SiteAccess{
				SessionID:                sessionID,
				AccessPermissionRequired: forms.Filled(),
				KeysRequired:             forms.Filled(),
				SecurityEscortRequired:   forms.Filled(),
				SiteAccessibleByTruck:    forms.Filled(),
				RoofAccessAvailable:      forms.Filled(),
				LadderRequired:           forms.Filled(),
			}
		},
		Validate: func(rec *model.SiteAccess) error {
			if rec.GateWidthMeters != nil && *rec.GateWidthMeters < 0 {
				return NewValidation("gate_width_meters must be >= 0")
			}
			return forms.CheckEnums(siteAccessEnums, map[string]*string{
				"access_permission_required": rec.AccessPermissionRequired,
				"keys_required":              rec.KeysRequired,
				"security_escort_required":   rec.SecurityEscortRequired,
				"site_accessible_by_truck":   rec.SiteAccessibleByTruck,
				"roof_access_available":      rec.RoofAccessAvailable,
				"ladder_required":            rec.LadderRequired,
			})
		},
		Normalize: func(_ context.Context, rec *model.SiteAccess) error {
			rec.AccessPermissionRequired = forms.Coerce(rec.AccessPermissionRequired)
			rec.KeysRequired = forms.Coerce(rec.KeysRequired)
			rec.SecurityEscortRequired = forms.Coerce(rec.SecurityEscortRequired)
			rec.SiteAccessibleByTruck = forms.Coerce(rec.SiteAccessibleByTruck)
			rec.RoofAccessAvailable = forms.Coerce(rec.RoofAccessAvailable)
			rec.LadderRequired = forms.Coerce(rec.LadderRequired)
			rec.PreferredAccessTime = forms.Coerce(rec.PreferredAccessTime)
			rec.AccessNotes = forms.Coerce(rec.AccessNotes)
			return nil
		},
		PreparePatch: func(_ context.Context, _ string, fields map[string]any) error {
			restrictPatch(fields, siteAccessPatchable)
			return checkPatchEnums(fields, siteAccessEnums)
		},
	})
}

var healthSafetyEnums = []forms.EnumField{
	{Name: "access_road_safe_condition", Allowed: forms.YesNoNA},
	{Name: "site_safe_for_work", Allowed: forms.YesNoNA},
	{Name: "walkway_safe", Allowed: forms.YesNoNA},
	{Name: "fall_protection_required", Allowed: forms.YesNoNA},
	{Name: "guard_rails_present", Allowed: forms.YesNoNA},
	{Name: "electrical_hazards_present", Allowed: forms.YesNoNA},
	{Name: "emergency_exits_marked", Allowed: forms.YesNoNA},
	{Name: "first_aid_kit_available", Allowed: forms.YesNoNA},
}

var healthSafetyPatchable = []string{
	"access_road_safe_condition", "site_safe_for_work", "walkway_safe",
	"fall_protection_required", "guard_rails_present", "electrical_hazards_present",
	"emergency_exits_marked", "first_aid_kit_available", "health_safety_notes",
}

func NewHealthSafetyService(
	r repo.FormRepo[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess],
	events *Events,
	log *zap.Logger,
) FormService[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess] {
	return NewGenericFormService(r, events, log, FormHooks[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]{
		Label:  "health & safety site access",
		Module: "health_safety_site_access",
		Default: func(sessionID string) *model.HealthSafetySiteAccess {
			return &model.HealthSafetySiteAccess{
				SessionID:                sessionID,
				AccessRoadSafeCondition:  forms.Filled(),
				SiteSafeForWork:          forms.Filled(),
				WalkwaySafe:              forms.Filled(),
				FallProtectionRequired:   forms.Filled(),
				GuardRailsPresent:        forms.Filled(),
				ElectricalHazardsPresent: forms.Filled(),
				EmergencyExitsMarked:     forms.Filled(),
				FirstAidKitAvailable:     forms.Filled(),
			}
		},
		Validate: func(rec *model.HealthSafetySiteAccess) error {
			return forms.CheckEnums(healthSafetyEnums, map[string]*string{
				"access_road_safe_condition": rec.AccessRoadSafeCondition,
				"site_safe_for_work":         rec.SiteSafeForWork,
				"walkway_safe":               rec.WalkwaySafe,
				"fall_protection_required":   rec.FallProtectionRequired,
				"guard_rails_present":        rec.GuardRailsPresent,
				"electrical_hazards_present": rec.ElectricalHazardsPresent,
				"emergency_exits_marked":     rec.EmergencyExitsMarked,
				"first_aid_kit_available":    rec.FirstAidKitAvailable,
			})
		},
		Normalize: func(_ context.Context, rec *model.HealthSafetySiteAccess) error {
			rec.AccessRoadSafeCondition = forms.Coerce(rec.AccessRoadSafeCondition)
			rec.SiteSafeForWork = forms.Coerce(rec.SiteSafeForWork)
			rec.WalkwaySafe = forms.Coerce(rec.WalkwaySafe)
			rec.FallProtectionRequired = forms.Coerce(rec.FallProtectionRequired)
			rec.GuardRailsPresent = forms.Coerce(rec.GuardRailsPresent)
			rec.ElectricalHazardsPresent = forms.Coerce(rec.ElectricalHazardsPresent)
			rec.EmergencyExitsMarked = forms.Coerce(rec.EmergencyExitsMarked)
			rec.FirstAidKitAvailable = forms.Coerce(rec.FirstAidKitAvailable)
			rec.HealthSafetyNotes = forms.Coerce(rec.HealthSafetyNotes)
			return nil
		},
		PreparePatch: func(_ context.Context, _ string, fields map[string]any) error {
			restrictPatch(fields, healthSafetyPatchable)
			return checkPatchEnums(fields, healthSafetyEnums)
		},
	})
}
