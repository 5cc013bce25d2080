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
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	GetCurrent(ctx context.Context, registrarTldID string, at *time.Time) (*Response, error)
	ListHistory(ctx context.Context, registrarTldID string, includeArchived bool) ([]Response, error)
	ListFuture(ctx context.Context, registrarTldID string) ([]Response, error)
}

type CreateRequest struct {
	RegistrarTldID            string           `json:"registrar_tld_id"`
	Currency                  string           `json:"currency"`
	RegistrationCost          decimal.Decimal  `json:"registration_cost"`
	RenewalCost               decimal.Decimal  `json:"renewal_cost"`
	TransferCost              decimal.Decimal  `json:"transfer_cost"`
	PrivacyCost               decimal.Decimal  `json:"privacy_cost"`
	FirstYearRegistrationCost *decimal.Decimal `json:"first_year_registration_cost"`
	EffectiveFrom             *time.Time       `json:"effective_from"`
	EffectiveTo               *time.Time       `json:"effective_to"`
}

// UpdateRequest carries only the fields being changed; nil leaves a field as is.
type UpdateRequest struct {
	Currency                  *string          `json:"currency"`
	RegistrationCost          *decimal.Decimal `json:"registration_cost"`
	RenewalCost               *decimal.Decimal `json:"renewal_cost"`
	TransferCost              *decimal.Decimal `json:"transfer_cost"`
	PrivacyCost               *decimal.Decimal `json:"privacy_cost"`
	FirstYearRegistrationCost *decimal.Decimal `json:"first_year_registration_cost"`
	EffectiveFrom             *time.Time       `json:"effective_from"`
	EffectiveTo               *time.Time       `json:"effective_to"`
}

type Response struct {
	ID                        snowflake.ID     `json:"id"`
	RegistrarTldID            snowflake.ID     `json:"registrar_tld_id"`
	Currency                  string           `json:"currency"`
	RegistrationCost          decimal.Decimal  `json:"registration_cost"`
	RenewalCost               decimal.Decimal  `json:"renewal_cost"`
	TransferCost              decimal.Decimal  `json:"transfer_cost"`
	PrivacyCost               decimal.Decimal  `json:"privacy_cost"`
	FirstYearRegistrationCost *decimal.Decimal `json:"first_year_registration_cost,omitempty"`
	EffectiveFrom             time.Time        `json:"effective_from"`
	EffectiveTo               *time.Time       `json:"effective_to,omitempty"`
	IsActive                  bool             `json:"is_active"`
	CreatedAt                 time.Time        `json:"created_at"`
	UpdatedAt                 time.Time        `json:"updated_at"`
}

var (
	ErrInvalidRegistrarTld = errors.New("invalid_registrar_tld")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidEffectiveTo  = errors.New("invalid_effective_to")
	ErrInvalidID           = errors.New("invalid_id")
	ErrEffectiveOverlap    = errors.New("effective_overlap")
	ErrNotFound            = errors.New("cost_pricing_not_found")

	// ErrConflict means two writers raced to open a window for the same
	// relation; the loser may retry.
	ErrConflict = errors.New("open_interval_conflict")
)
