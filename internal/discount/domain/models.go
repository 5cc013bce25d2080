package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/operation"
	"github.com/shopspring/decimal"
)

// Kind discriminates the two discount shapes. A percentage discount scales
// the whole line; a fixed amount is deducted per year in its own currency.
type Kind string

const (
	KindPercentage  Kind = "PERCENTAGE"
	KindFixedAmount Kind = "FIXED_AMOUNT"
)

// Discount is one effective-dated discount window granted to a reseller
// company for a TLD. Exactly one of Percentage or Amount is set, matching
// Kind.
type Discount struct {
	ID                  snowflake.ID     `gorm:"primaryKey" json:"id"`
	ResellerCompanyID   snowflake.ID     `gorm:"index:idx_discount_reseller_tld;not null" json:"reseller_company_id"`
	TldID               snowflake.ID     `gorm:"index:idx_discount_reseller_tld;not null" json:"tld_id"`
	Kind                Kind             `gorm:"size:16;not null" json:"kind"`
	Percentage          *decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage"`
	Amount              *decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	AmountCurrency      *string          `gorm:"size:3" json:"amount_currency"`
	ApplyToRegistration bool             `gorm:"not null;default:false" json:"apply_to_registration"`
	ApplyToRenewal      bool             `gorm:"not null;default:false" json:"apply_to_renewal"`
	ApplyToTransfer     bool             `gorm:"not null;default:false" json:"apply_to_transfer"`
	EffectiveFrom       time.Time        `gorm:"index:idx_discount_reseller_tld;not null" json:"effective_from"`
	EffectiveTo         *time.Time       `json:"effective_to"`
	IsActive            bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (Discount) TableName() string {
	return "tld_discounts"
}

// AppliesTo reports whether the discount covers the purchasable operation.
// Privacy lines are never discounted.
func (d *Discount) AppliesTo(op operation.Type) bool {
	switch op {
	case operation.Registration:
		return d.ApplyToRegistration
	case operation.Renewal:
		return d.ApplyToRenewal
	case operation.Transfer:
		return d.ApplyToTransfer
	default:
		return false
	}
}

func (d *Discount) Open() bool {
	return d.EffectiveTo == nil
}
