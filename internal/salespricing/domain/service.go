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
	GetCurrent(ctx context.Context, tldID string, at *time.Time) (*Response, error)
	ListHistory(ctx context.Context, tldID string, includeArchived bool) ([]Response, error)
	ListFuture(ctx context.Context, tldID string) ([]Response, error)
}

type CreateRequest struct {
	TldID                      string           `json:"tld_id"`
	Currency                   string           `json:"currency"`
	RegistrationPrice          decimal.Decimal  `json:"registration_price"`
	RenewalPrice               decimal.Decimal  `json:"renewal_price"`
	TransferPrice              decimal.Decimal  `json:"transfer_price"`
	PrivacyPrice               decimal.Decimal  `json:"privacy_price"`
	FirstYearRegistrationPrice *decimal.Decimal `json:"first_year_registration_price"`
	IsPromotional              bool             `json:"is_promotional"`
	PromotionName              *string          `json:"promotion_name"`
	EffectiveFrom              *time.Time       `json:"effective_from"`
	EffectiveTo                *time.Time       `json:"effective_to"`
}

// UpdateRequest carries only the fields being changed; nil leaves a field as is.
type UpdateRequest struct {
	Currency                   *string          `json:"currency"`
	RegistrationPrice          *decimal.Decimal `json:"registration_price"`
	RenewalPrice               *decimal.Decimal `json:"renewal_price"`
	TransferPrice              *decimal.Decimal `json:"transfer_price"`
	PrivacyPrice               *decimal.Decimal `json:"privacy_price"`
	FirstYearRegistrationPrice *decimal.Decimal `json:"first_year_registration_price"`
	IsPromotional              *bool            `json:"is_promotional"`
	PromotionName              *string          `json:"promotion_name"`
	EffectiveFrom              *time.Time       `json:"effective_from"`
	EffectiveTo                *time.Time       `json:"effective_to"`
}

type Response struct {
	ID                         snowflake.ID     `json:"id"`
	TldID                      snowflake.ID     `json:"tld_id"`
	Currency                   string           `json:"currency"`
	RegistrationPrice          decimal.Decimal  `json:"registration_price"`
	RenewalPrice               decimal.Decimal  `json:"renewal_price"`
	TransferPrice              decimal.Decimal  `json:"transfer_price"`
	PrivacyPrice               decimal.Decimal  `json:"privacy_price"`
	FirstYearRegistrationPrice *decimal.Decimal `json:"first_year_registration_price,omitempty"`
	IsPromotional              bool             `json:"is_promotional"`
	PromotionName              *string          `json:"promotion_name,omitempty"`
	EffectiveFrom              time.Time        `json:"effective_from"`
	EffectiveTo                *time.Time       `json:"effective_to,omitempty"`
	IsActive                   bool             `json:"is_active"`
	CreatedAt                  time.Time        `json:"created_at"`
	UpdatedAt                  time.Time        `json:"updated_at"`
}

var (
	ErrInvalidTld         = errors.New("invalid_tld")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidPromotion   = errors.New("invalid_promotion")
	ErrInvalidEffectiveTo = errors.New("invalid_effective_to")
	ErrInvalidID          = errors.New("invalid_id")
	ErrEffectiveOverlap   = errors.New("effective_overlap")
	ErrNotFound           = errors.New("sales_pricing_not_found")
	ErrConflict           = errors.New("open_interval_conflict")
)
