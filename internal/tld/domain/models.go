package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tld is one top-level domain the reseller offers (".io", ".net", ...).
type Tld struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Active    bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

func (Tld) TableName() string { return "tlds" }
