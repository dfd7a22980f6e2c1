package model

import "time"

// ImageMeta carries the shared columns of every <module>_images table.
// At most one row per (session_id, entity_index, category) is active at a
// time; replaced uploads keep their row id and prior rows stay as inactive
// history.
type ImageMeta struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SessionID    string  `gorm:"column:session_id;size:64;not null;index" json:"session_id"`
	EntityIndex  *int    `gorm:"index" json:"entity_index,omitempty"`
	Category     string  `gorm:"size:128;not null;index" json:"image_category"`
	OriginalName string  `gorm:"size:255" json:"original_name"`
	StoredName   string  `gorm:"size:255;uniqueIndex" json:"stored_name"`
	URL          string  `gorm:"size:512" json:"url"`
	SizeBytes    int64   `gorm:"not null" json:"size_bytes"`
	MIME         string  `gorm:"column:mime;size:128" json:"mime_type"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	IsActive     bool    `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type SiteAccessImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (SiteAccessImage) TableName() string   { return "site_access_images" }
func (m *SiteAccessImage) Meta() *ImageMeta { return &m.ImageMeta }

type HealthSafetySiteAccessImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (HealthSafetySiteAccessImage) TableName() string   { return "health_safety_site_access_images" }
func (m *HealthSafetySiteAccessImage) Meta() *ImageMeta { return &m.ImageMeta }

type OutdoorCabinetImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (OutdoorCabinetImage) TableName() string   { return "outdoor_cabinet_images" }
func (m *OutdoorCabinetImage) Meta() *ImageMeta { return &m.ImageMeta }

type DCPowerSystemImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (DCPowerSystemImage) TableName() string   { return "dc_power_system_images" }
func (m *DCPowerSystemImage) Meta() *ImageMeta { return &m.ImageMeta }

type RANEquipmentImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (RANEquipmentImage) TableName() string   { return "ran_equipment_images" }
func (m *RANEquipmentImage) Meta() *ImageMeta { return &m.ImageMeta }

type AntennaConfigurationImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (AntennaConfigurationImage) TableName() string   { return "antenna_configuration_images" }
func (m *AntennaConfigurationImage) Meta() *ImageMeta { return &m.ImageMeta }

type RadioUnitImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (RadioUnitImage) TableName() string   { return "radio_unit_images" }
func (m *RadioUnitImage) Meta() *ImageMeta { return &m.ImageMeta }

type NewAntennaImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (NewAntennaImage) TableName() string   { return "new_antenna_images" }
func (m *NewAntennaImage) Meta() *ImageMeta { return &m.ImageMeta }

type FPFHImage struct {
	ImageMeta
	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (FPFHImage) TableName() string   { return "fpfh_images" }
func (m *FPFHImage) Meta() *ImageMeta { return &m.ImageMeta }
