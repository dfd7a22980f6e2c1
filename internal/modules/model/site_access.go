package model

import "time"

// SiteAccess is the singleton "site access" form for one survey session.
// Enum fields are nullable; empty strings are coerced to NULL at the
// service boundary.
type SiteAccess struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	AccessPermissionRequired *string  `gorm:"size:32" json:"access_permission_required"`
	KeysRequired             *string  `gorm:"size:32" json:"keys_required"`
	SecurityEscortRequired   *string  `gorm:"size:32" json:"security_escort_required"`
	SiteAccessibleByTruck    *string  `gorm:"size:32" json:"site_accessible_by_truck"`
	RoofAccessAvailable      *string  `gorm:"size:32" json:"roof_access_available"`
	LadderRequired           *string  `gorm:"size:32" json:"ladder_required"`
	GateWidthMeters          *float64 `json:"gate_width_meters"`
	PreferredAccessTime      *string  `gorm:"size:128" json:"preferred_access_time"`
	AccessNotes              *string  `gorm:"type:text" json:"access_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (SiteAccess) TableName() string { return "site_access" }

func (f *SiteAccess) GetSessionID() string  { return f.SessionID }
func (f *SiteAccess) SetSessionID(s string) { f.SessionID = s }

// HealthSafetySiteAccess is the singleton health & safety checklist.
type HealthSafetySiteAccess struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	AccessRoadSafeCondition   *string `gorm:"size:32" json:"access_road_safe_condition"`
	SiteSafeForWork           *string `gorm:"size:32" json:"site_safe_for_work"`
	WalkwaySafe               *string `gorm:"size:32" json:"walkway_safe"`
	FallProtectionRequired    *string `gorm:"size:32" json:"fall_protection_required"`
	GuardRailsPresent         *string `gorm:"size:32" json:"guard_rails_present"`
	ElectricalHazardsPresent  *string `gorm:"size:32" json:"electrical_hazards_present"`
	EmergencyExitsMarked      *string `gorm:"size:32" json:"emergency_exits_marked"`
	FirstAidKitAvailable      *string `gorm:"size:32" json:"first_aid_kit_available"`
	HealthSafetyNotes         *string `gorm:"type:text" json:"health_safety_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (HealthSafetySiteAccess) TableName() string { return "health_safety_site_access" }

func (f *HealthSafetySiteAccess) GetSessionID() string  { return f.SessionID }
func (f *HealthSafetySiteAccess) SetSessionID(s string) { f.SessionID = s }
