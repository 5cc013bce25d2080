package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/operation"
	"github.com/shopspring/decimal"
)

// Interval is one effective-dated window of customer-facing prices for a TLD.
// EffectiveFrom is inclusive, EffectiveTo exclusive; a nil EffectiveTo means
// the window is open-ended.
type Interval struct {
	ID                         snowflake.ID     `gorm:"primaryKey" json:"id"`
	TldID                      snowflake.ID     `gorm:"index:idx_sales_pricing_tld;not null" json:"tld_id"`
	Currency                   string           `gorm:"size:3;not null" json:"currency"`
	RegistrationPrice          decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"registration_price"`
	RenewalPrice               decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"renewal_price"`
	TransferPrice              decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"transfer_price"`
	PrivacyPrice               decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"privacy_price"`
	FirstYearRegistrationPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"first_year_registration_price"`
	IsPromotional              bool             `gorm:"not null;default:false" json:"is_promotional"`
	PromotionName              *string          `gorm:"size:120" json:"promotion_name"`
	EffectiveFrom              time.Time        `gorm:"index:idx_sales_pricing_tld;not null" json:"effective_from"`
	EffectiveTo                *time.Time       `json:"effective_to"`
	IsActive                   bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt                  time.Time        `json:"created_at"`
	UpdatedAt                  time.Time        `json:"updated_at"`
}

func (Interval) TableName() string {
	return "sales_pricing_intervals"
}

// PriceFor returns the base per-year price for the operation, before any
// first-year override or discount.
func (iv *Interval) PriceFor(op operation.Type) decimal.Decimal {
	switch op {
	case operation.Renewal:
		return iv.RenewalPrice
	case operation.Transfer:
		return iv.TransferPrice
	case operation.Privacy:
		return iv.PrivacyPrice
	default:
		return iv.RegistrationPrice
	}
}

func (iv *Interval) Open() bool {
	return iv.EffectiveTo == nil
}
