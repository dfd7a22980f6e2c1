package model

import "time"

// RadioUnit is a repeated module keyed by (session_id, entity_index).
// Like NewAntenna it carries no DB foreign key on session_id.
type RadioUnit struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	SessionID   string `gorm:"column:session_id;size:64;not null;uniqueIndex:u_radio_unit_session_idx,priority:1" json:"session_id"`
	EntityIndex int    `gorm:"not null;uniqueIndex:u_radio_unit_session_idx,priority:2" json:"entity_index"`

	Vendor        *string `gorm:"size:64" json:"vendor"`
	Model         *string `gorm:"size:64" json:"model"`
	Technology    *string `gorm:"size:32" json:"technology"`
	PortsInUse    *int    `json:"ports_in_use"`
	DCPowerSource *string `gorm:"size:64" json:"dc_power_source"`
	Notes         *string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RadioUnit) TableName() string { return "radio_units" }

func (f *RadioUnit) GetSessionID() string  { return f.SessionID }
func (f *RadioUnit) SetSessionID(s string) { f.SessionID = s }
func (f *RadioUnit) GetEntityIndex() int   { return f.EntityIndex }
func (f *RadioUnit) SetEntityIndex(i int)  { f.EntityIndex = i }

// FPFH is a repeated DC power distribution unit module, keyed by
// (session_id, entity_index), no DB foreign key.
type FPFH struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	SessionID   string `gorm:"column:session_id;size:64;not null;uniqueIndex:u_fpfh_session_idx,priority:1" json:"session_id"`
	EntityIndex int    `gorm:"not null;uniqueIndex:u_fpfh_session_idx,priority:2" json:"entity_index"`

	Model           *string `gorm:"size:64" json:"model"`
	InstallLocation *string `gorm:"size:64" json:"install_location"`
	DCDistribution  *string `gorm:"size:64" json:"dc_distribution"`
	PortsUsed       *int    `json:"ports_used"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FPFH) TableName() string { return "fpfhs" }

func (f *FPFH) GetSessionID() string  { return f.SessionID }
func (f *FPFH) SetSessionID(s string) { f.SessionID = s }
func (f *FPFH) GetEntityIndex() int   { return f.EntityIndex }
func (f *FPFH) SetEntityIndex(i int)  { f.EntityIndex = i }
