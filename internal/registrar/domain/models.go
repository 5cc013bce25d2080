package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Registrar is an upstream provider the reseller buys domain operations from.
type Registrar struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:120;not null" json:"name"`
	Code      string       `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Registrar) TableName() string {
	return "registrars"
}

// RegistrarTld says a registrar offers a TLD. Its ID is the key cost pricing
// intervals hang off.
type RegistrarTld struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	RegistrarID snowflake.ID `gorm:"uniqueIndex:uq_registrar_tld;not null" json:"registrar_id"`
	TldID       snowflake.ID `gorm:"uniqueIndex:uq_registrar_tld;not null" json:"tld_id"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (RegistrarTld) TableName() string {
	return "registrar_tlds"
}

// SelectionPreference tunes registrar selection per registrar. Priority is a
// tie-break ordinal where lower wins; the capability and segment flags are
// extension points for segment-aware selection.
type SelectionPreference struct {
	ID                         snowflake.ID    `gorm:"primaryKey" json:"id"`
	RegistrarID                snowflake.ID    `gorm:"uniqueIndex;not null" json:"registrar_id"`
	Priority                   int             `gorm:"not null;default:100" json:"priority"`
	OffersHosting              bool            `gorm:"not null;default:false" json:"offers_hosting"`
	OffersEmail                bool            `gorm:"not null;default:false" json:"offers_email"`
	OffersSsl                  bool            `gorm:"not null;default:false" json:"offers_ssl"`
	MaxCostDifferenceThreshold decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"max_cost_difference_threshold"`
	PreferForHostingCustomers  bool            `gorm:"not null;default:false" json:"prefer_for_hosting_customers"`
	CreatedAt                  time.Time       `json:"created_at"`
	UpdatedAt                  time.Time       `json:"updated_at"`
}

func (SelectionPreference) TableName() string {
	return "registrar_selection_preferences"
}
