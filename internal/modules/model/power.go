package model

import (
	"time"

	"gorm.io/datatypes"
)

// ACConnectionInfo is the singleton AC power connection form. It is one of
// the modules with a declared ON DELETE CASCADE on session_id.
type ACConnectionInfo struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	ACPowerSource          *string  `gorm:"size:64" json:"ac_power_source"`
	ThreePhaseAvailable    *string  `gorm:"size:32" json:"three_phase_available"`
	BackupGeneratorPresent *string  `gorm:"size:32" json:"backup_generator_present"`
	MainBreakerRatingAmp   *int     `json:"main_breaker_rating_amp"`
	CableSizeMM2           *float64 `gorm:"column:cable_size_mm2" json:"cable_size_mm2"`
	ConnectionNotes        *string  `gorm:"type:text" json:"connection_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ACConnectionInfo) TableName() string { return "ac_connection_info" }

func (f *ACConnectionInfo) GetSessionID() string  { return f.SessionID }
func (f *ACConnectionInfo) SetSessionID(s string) { f.SessionID = s }

// DCPDUEntry is one DC power distribution unit in the dc_pdus JSONB array.
type DCPDUEntry struct {
	Model        string `json:"model" validate:"omitempty,max=64"`
	RatingAmp    int    `json:"rating_amp" validate:"gte=0"`
	FreeBreakers int    `json:"free_breakers" validate:"gte=0"`
	BatteryBack  bool   `json:"battery_backed"`
}

// DCPowerSystem caches number_of_cabinets from outdoor_cabinets; the cached
// column is overwritten from the source table on every write and is never
// authoritative.
type DCPowerSystem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	NumberOfCabinets     int                                  `gorm:"not null;default:1" json:"number_of_cabinets"`
	DCSystemVendor       *string                              `gorm:"size:64" json:"dc_system_vendor"`
	TotalRectifiers      *int                                 `json:"total_rectifiers"`
	FreeRectifierSlots   *int                                 `json:"free_rectifier_slots"`
	BatteryAutonomyHours *float64                             `json:"battery_autonomy_hours"`
	DCPDUs               datatypes.JSONType[[]DCPDUEntry]     `gorm:"column:dc_pdus;type:jsonb" json:"dc_pdus"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (DCPowerSystem) TableName() string { return "dc_power_system" }

func (f *DCPowerSystem) GetSessionID() string  { return f.SessionID }
func (f *DCPowerSystem) SetSessionID(s string) { f.SessionID = s }

// RANRackEntry is one RAN rack in the ran_racks JSONB array.
type RANRackEntry struct {
	Vendor       string `json:"vendor" validate:"omitempty,max=64"`
	Technology   string `json:"technology" validate:"omitempty,max=32"`
	RackLocation string `json:"rack_location" validate:"omitempty,max=128"`
}

// RANEquipment caches number_of_cabinets like DCPowerSystem.
type RANEquipment struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	NumberOfCabinets int                                  `gorm:"not null;default:1" json:"number_of_cabinets"`
	ExistingVendor   *string                              `gorm:"size:64" json:"existing_vendor"`
	RANRacks         datatypes.JSONType[[]RANRackEntry]   `gorm:"column:ran_racks;type:jsonb" json:"ran_racks"`
	EquipmentNotes   *string                              `gorm:"type:text" json:"equipment_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (RANEquipment) TableName() string { return "ran_equipment" }

func (f *RANEquipment) GetSessionID() string  { return f.SessionID }
func (f *RANEquipment) SetSessionID(s string) { f.SessionID = s }
