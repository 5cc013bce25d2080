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
	GetCurrent(ctx context.Context, resellerCompanyID, tldID string, at *time.Time) (*Response, error)
	ListHistory(ctx context.Context, resellerCompanyID, tldID string, includeArchived bool) ([]Response, error)
	ListFuture(ctx context.Context, resellerCompanyID, tldID string) ([]Response, error)
}

type CreateRequest struct {
	ResellerCompanyID   string           `json:"reseller_company_id"`
	TldID               string           `json:"tld_id"`
	Kind                Kind             `json:"kind"`
	Percentage          *decimal.Decimal `json:"percentage"`
	Amount              *decimal.Decimal `json:"amount"`
	AmountCurrency      *string          `json:"amount_currency"`
	ApplyToRegistration bool             `json:"apply_to_registration"`
	ApplyToRenewal      bool             `json:"apply_to_renewal"`
	ApplyToTransfer     bool             `json:"apply_to_transfer"`
	EffectiveFrom       *time.Time       `json:"effective_from"`
	EffectiveTo         *time.Time       `json:"effective_to"`
}

// UpdateRequest carries only the fields being changed; nil leaves a field as
// is. Changing Kind requires re-supplying the matching value field.
type UpdateRequest struct {
	Kind                *Kind            `json:"kind"`
	Percentage          *decimal.Decimal `json:"percentage"`
	Amount              *decimal.Decimal `json:"amount"`
	AmountCurrency      *string          `json:"amount_currency"`
	ApplyToRegistration *bool            `json:"apply_to_registration"`
	ApplyToRenewal      *bool            `json:"apply_to_renewal"`
	ApplyToTransfer     *bool            `json:"apply_to_transfer"`
	EffectiveFrom       *time.Time       `json:"effective_from"`
	EffectiveTo         *time.Time       `json:"effective_to"`
}

type Response struct {
	ID                  snowflake.ID     `json:"id"`
	ResellerCompanyID   snowflake.ID     `json:"reseller_company_id"`
	TldID               snowflake.ID     `json:"tld_id"`
	Kind                Kind             `json:"kind"`
	Percentage          *decimal.Decimal `json:"percentage,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	AmountCurrency      *string          `json:"amount_currency,omitempty"`
	ApplyToRegistration bool             `json:"apply_to_registration"`
	ApplyToRenewal      bool             `json:"apply_to_renewal"`
	ApplyToTransfer     bool             `json:"apply_to_transfer"`
	EffectiveFrom       time.Time        `json:"effective_from"`
	EffectiveTo         *time.Time       `json:"effective_to,omitempty"`
	IsActive            bool             `json:"is_active"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

var (
	ErrInvalidReseller    = errors.New("invalid_reseller_company")
	ErrInvalidTld         = errors.New("invalid_tld")
	ErrInvalidKind        = errors.New("invalid_discount_kind")
	ErrInvalidValue       = errors.New("invalid_discount_value")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidEffectiveTo = errors.New("invalid_effective_to")
	ErrInvalidID          = errors.New("invalid_id")
	ErrEffectiveOverlap   = errors.New("effective_overlap")
	ErrNotFound           = errors.New("discount_not_found")
	ErrConflict           = errors.New("open_interval_conflict")
)
