package model

import (
	"time"

	"gorm.io/datatypes"
)

// AntennaEntry is one existing antenna in the antennas JSONB array.
type AntennaEntry struct {
	Sector            int     `json:"sector" validate:"gte=0,lte=12"`
	AntennaModel      string  `json:"antenna_model" validate:"omitempty,max=64"`
	HeightM           float64 `json:"height_m" validate:"gte=0"`
	AzimuthDeg        int     `json:"azimuth_deg" validate:"gte=0,lt=360"`
	MechanicalTiltDeg float64 `json:"mechanical_tilt_deg" validate:"gte=-20,lte=20"`
	ElectricalTiltDeg float64 `json:"electrical_tilt_deg" validate:"gte=-20,lte=20"`
}

// AntennaConfiguration is the singleton existing-antenna form. antenna_count
// drives the valid entity_index range for antenna configuration images;
// shrinking the count deactivates images tied to removed indices.
type AntennaConfiguration struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`

	NumberOfCabinets int                                `gorm:"not null;default:1" json:"number_of_cabinets"`
	AntennaCount     int                                `gorm:"not null;default:0" json:"antenna_count"`
	Antennas         datatypes.JSONType[[]AntennaEntry] `gorm:"type:jsonb" json:"antennas"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Survey *Survey `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (AntennaConfiguration) TableName() string { return "antenna_configuration" }

func (f *AntennaConfiguration) GetSessionID() string  { return f.SessionID }
func (f *AntennaConfiguration) SetSessionID(s string) { f.SessionID = s }

// NewAntenna is a repeated module keyed by (session_id, entity_index).
// There is intentionally no DB foreign key on session_id (index-count limit
// in the original schema); rows are cleaned up application-side when the
// parent survey is deleted.
type NewAntenna struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	SessionID   string `gorm:"column:session_id;size:64;not null;uniqueIndex:u_new_antenna_session_idx,priority:1" json:"session_id"`
	EntityIndex int    `gorm:"not null;uniqueIndex:u_new_antenna_session_idx,priority:2" json:"entity_index"`

	AntennaModel *string  `gorm:"size:64" json:"antenna_model"`
	Sector       *int     `json:"sector"`
	HeightM      *float64 `json:"height_m"`
	AzimuthDeg   *int     `json:"azimuth_deg"`
	TiltType     *string  `gorm:"size:32" json:"tilt_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NewAntenna) TableName() string { return "new_antennas" }

func (f *NewAntenna) GetSessionID() string  { return f.SessionID }
func (f *NewAntenna) SetSessionID(s string) { f.SessionID = s }
func (f *NewAntenna) GetEntityIndex() int   { return f.EntityIndex }
func (f *NewAntenna) SetEntityIndex(i int)  { f.EntityIndex = i }
