package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	CalculateMargin(ctx context.Context, req MarginRequest) (*MarginResult, error)

	// NegativeMarginReport and LowMarginReport sweep every active TLD for the
	// registration operation. TLDs whose pricing, cost, or conversion cannot
	// be resolved are omitted, not errors.
	NegativeMarginReport(ctx context.Context) ([]MarginResult, error)
	LowMarginReport(ctx context.Context) ([]MarginResult, error)
}

type MarginRequest struct {
	TldID       string     `json:"tld_id"`
	Operation   string     `json:"operation"`
	RegistrarID *string    `json:"registrar_id"`
	At          *time.Time `json:"at"`
}

type MarginResult struct {
	TldID       snowflake.ID `json:"tld_id"`
	TldName     string       `json:"tld_name,omitempty"`
	Operation   string       `json:"operation"`
	RegistrarID snowflake.ID `json:"registrar_id"`

	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Currency string          `json:"currency"`

	MarginAmount decimal.Decimal `json:"margin_amount"`

	// MarginPercentage is nil when the price is zero; the ratio is undefined
	// there, not infinite.
	MarginPercentage *decimal.Decimal `json:"margin_percentage"`

	IsNegativeMargin bool `json:"is_negative_margin"`
	IsLowMargin      bool `json:"is_low_margin"`
}

var (
	ErrInvalidTld       = errors.New("invalid_tld")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrInvalidRegistrar = errors.New("invalid_registrar")
)
