package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ExchangeRate is one published base-to-quote rate valid from EffectiveDate
// until ExpiryDate (nil means still valid). Rates are directional; an inverse
// pair must be published on its own.
type ExchangeRate struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	BaseCurrency  string          `gorm:"size:3;not null;index:idx_exchange_rate_pair" json:"base_currency"`
	QuoteCurrency string          `gorm:"size:3;not null;index:idx_exchange_rate_pair" json:"quote_currency"`
	Rate          decimal.Decimal `gorm:"type:decimal(12,6);not null" json:"rate"`
	EffectiveDate time.Time       `gorm:"not null;index:idx_exchange_rate_pair" json:"effective_date"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
