package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Survey is the parent aggregate for one site visit. Its session_id is the
// partition key for every form and image table in the schema.
type Survey struct {
	SessionID    string     `gorm:"column:session_id;primaryKey;size:64" json:"session_id"`
	SiteID       string     `gorm:"size:64;index" json:"site_id"`
	SiteName     string     `gorm:"size:255" json:"site_name"`
	Region       string     `gorm:"size:128" json:"region"`
	SurveyorName string     `gorm:"size:255" json:"surveyor_name"`
	SurveyDate   *time.Time `json:"survey_date"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Survey) TableName() string { return "surveys" }

// ApiClient is a machine client of the API (the survey mobile app, the
// reporting backend). Bearer tokens are looked up by HMAC and optionally
// verified against the argon2 PHC hash.
type ApiClient struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string            `gorm:"size:255" json:"name"`
	SecretKeyHMAC    string            `gorm:"column:secret_key_hmac;size:64;uniqueIndex" json:"-"`
	SecretKeyHashPHC string            `gorm:"column:secret_key_hash_phc;type:text" json:"-"`
	Configs          datatypes.JSONMap `gorm:"type:jsonb" json:"configs"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ApiClient) TableName() string { return "api_clients" }
