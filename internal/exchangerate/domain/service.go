package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, base, quote string) ([]Response, error)
}

// Converter turns an amount in one currency into another using the published
// rate at the given instant, with the configured conversion markup applied.
// Same-currency conversions are the identity and never fail.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error)
}

type CreateRequest struct {
	BaseCurrency  string          `json:"base_currency"`
	QuoteCurrency string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate *time.Time      `json:"effective_date"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
}

type Response struct {
	ID            snowflake.ID    `json:"id"`
	BaseCurrency  string          `json:"base_currency"`
	QuoteCurrency string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effective_date"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

var (
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidRate     = errors.New("invalid_rate")
	ErrInvalidExpiry   = errors.New("invalid_expiry")

	// ErrConversionUnavailable means no published rate covers the pair at the
	// requested instant. Inverse rates are not derived.
	ErrConversionUnavailable = errors.New("conversion_unavailable")
)
