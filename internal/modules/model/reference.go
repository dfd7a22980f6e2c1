package model

import "time"

// Reference-data hierarchy: MarketUnit -< m2m >- Country -1:N- CT -1:N-
// Project -1:N- Company. The MU-Country relation is the only many-to-many,
// mediated by the market_unit_countries junction table and resolved with a
// raw join in the repo.

type MarketUnit struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
	Code string `gorm:"size:16;not null;uniqueIndex" json:"code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MarketUnit) TableName() string { return "market_units" }

type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
	Code string `gorm:"size:16;not null;uniqueIndex" json:"code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Country) TableName() string { return "countries" }

type MarketUnitCountry struct {
	MarketUnitID uint `gorm:"primaryKey" json:"market_unit_id"`
	CountryID    uint `gorm:"primaryKey" json:"country_id"`

	MarketUnit MarketUnit `gorm:"foreignKey:MarketUnitID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Country    Country    `gorm:"foreignKey:CountryID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (MarketUnitCountry) TableName() string { return "market_unit_countries" }

type CT struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CountryID uint   `gorm:"not null;uniqueIndex:u_ct_country_code,priority:1" json:"country_id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Code      string `gorm:"size:16;not null;uniqueIndex:u_ct_country_code,priority:2" json:"code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Country *Country `gorm:"foreignKey:CountryID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (CT) TableName() string { return "cts" }

type Project struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	CTID uint   `gorm:"column:ct_id;not null;uniqueIndex:u_project_ct_code,priority:1" json:"ct_id"`
	Name string `gorm:"size:128;not null" json:"name"`
	Code string `gorm:"size:16;not null;uniqueIndex:u_project_ct_code,priority:2" json:"code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	CT *CT `gorm:"foreignKey:CTID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

type Company struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"not null;uniqueIndex:u_company_project_code,priority:1" json:"project_id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Code      string `gorm:"size:16;not null;uniqueIndex:u_company_project_code,priority:2" json:"code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Company) TableName() string { return "companies" }
