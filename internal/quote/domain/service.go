package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	CalculatePrice(ctx context.Context, req PriceRequest) (*PriceResult, error)
}

type PriceRequest struct {
	TldID             string     `json:"tld_id"`
	Operation         string     `json:"operation"`
	Years             int        `json:"years"`
	IsFirstYear       bool       `json:"is_first_year"`
	ResellerCompanyID *string    `json:"reseller_company_id"`
	CustomerID        *string    `json:"customer_id"`
	At                *time.Time `json:"at"`
}

// RegistrarSummary names the registrar the quoted price assumes. Absent when
// no registrar could be selected; the price itself still stands.
type RegistrarSummary struct {
	RegistrarID   snowflake.ID `json:"registrar_id"`
	RegistrarName string       `json:"registrar_name"`
	LowConfidence bool         `json:"low_confidence"`
}

type PriceResult struct {
	BasePrice           decimal.Decimal   `json:"base_price"`
	DiscountAmount      decimal.Decimal   `json:"discount_amount"`
	FinalPrice          decimal.Decimal   `json:"final_price"`
	Currency            string            `json:"currency"`
	IsPromotional       bool              `json:"is_promotional"`
	PromotionName       *string           `json:"promotion_name,omitempty"`
	IsDiscountApplied   bool              `json:"is_discount_applied"`
	DiscountDescription string            `json:"discount_description,omitempty"`
	Registrar           *RegistrarSummary `json:"registrar,omitempty"`
}

var (
	ErrInvalidTld       = errors.New("invalid_tld")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrInvalidYears     = errors.New("invalid_years")

	// ErrPricingNotConfigured means no sales pricing interval covers the TLD
	// at the requested instant. Distinct from a zero price.
	ErrPricingNotConfigured = errors.New("pricing_not_configured")
)
