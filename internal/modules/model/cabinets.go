package model

import (
	"time"

	"gorm.io/datatypes"
)

// CabinetEntry is one outdoor cabinet in the cabinets JSONB array. Nested
// entries are validated at the service boundary, not by the storage layer.
type CabinetEntry struct {
	CabinetType   string  `json:"cabinet_type" validate:"omitempty,max=64"`
	Vendor        string  `json:"vendor" validate:"omitempty,max=64"`
	Model         string  `json:"model" validate:"omitempty,max=64"`
	HeightCm      float64 `json:"height_cm" validate:"gte=0"`
	WidthCm       float64 `json:"width_cm" validate:"gte=0"`
	DepthCm       float64 `json:"depth_cm" validate:"gte=0"`
	FreeSlots     int     `json:"free_slots" validate:"gte=0"`
	PowerRatingKW float64 `json:"power_rating_kw" validate:"gte=0"`
}

// OutdoorCabinets holds the authoritative number_of_cabinets for a session.
// Other modules cache this count and refetch it on every write.
type OutdoorCabinets struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	NumberOfCabinets int                                    `gorm:"not null;default:1" json:"number_of_cabinets"`
	Cabinets         datatypes.JSONType[[]CabinetEntry]     `gorm:"type:jsonb" json:"cabinets"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (OutdoorCabinets) TableName() string { return "outdoor_cabinets" }

func (f *OutdoorCabinets) GetSessionID() string  { return f.SessionID }
func (f *OutdoorCabinets) SetSessionID(s string) { f.SessionID = s }
