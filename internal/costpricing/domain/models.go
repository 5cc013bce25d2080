package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/operation"
	"github.com/shopspring/decimal"
)

// Interval is one effective-dated cost window for a registrar-TLD relation:
// what the reseller pays upstream. EffectiveFrom is inclusive, EffectiveTo
// exclusive; a nil EffectiveTo means the window is still in force.
type Interval struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	RegistrarTldID snowflake.ID `json:"registrar_tld_id" gorm:"column:registrar_tld_id;not null;index"`

	Currency                  string           `json:"currency" gorm:"type:text;not null"`
	RegistrationCost          decimal.Decimal  `json:"registration_cost" gorm:"type:decimal(10,2);not null"`
	RenewalCost               decimal.Decimal  `json:"renewal_cost" gorm:"type:decimal(10,2);not null"`
	TransferCost              decimal.Decimal  `json:"transfer_cost" gorm:"type:decimal(10,2);not null"`
	PrivacyCost               decimal.Decimal  `json:"privacy_cost" gorm:"type:decimal(10,2);not null"`
	FirstYearRegistrationCost *decimal.Decimal `json:"first_year_registration_cost,omitempty" gorm:"type:decimal(10,2)"`

	EffectiveFrom time.Time  `json:"effective_from" gorm:"not null;index"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty" gorm:""`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Interval) TableName() string { return "cost_pricing_intervals" }

// CostFor maps an operation to its cost field.
func (i *Interval) CostFor(op operation.Type) decimal.Decimal {
	switch op {
	case operation.Registration:
		return i.RegistrationCost
	case operation.Renewal:
		return i.RenewalCost
	case operation.Transfer:
		return i.TransferCost
	case operation.Privacy:
		return i.PrivacyCost
	default:
		return decimal.Zero
	}
}

// Open reports whether the window has no scheduled end.
func (i *Interval) Open() bool { return i.EffectiveTo == nil }
