package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, activeOnly bool) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	SetActive(ctx context.Context, id string, active bool) (*Response, error)

	AddTld(ctx context.Context, req AddTldRequest) (*RelationResponse, error)
	SetRelationActive(ctx context.Context, relationID string, active bool) error

	SetPreference(ctx context.Context, req PreferenceRequest) (*PreferenceResponse, error)
	GetPreference(ctx context.Context, registrarID string) (*PreferenceResponse, error)
}

// Selector picks the registrar a purchase should route through.
type Selector interface {
	SelectOptimalRegistrar(ctx context.Context, tldID string, customerID *string) (*Selection, error)
}

type CreateRequest struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active *bool  `json:"active"`
}

type AddTldRequest struct {
	RegistrarID string `json:"registrar_id"`
	TldID       string `json:"tld_id"`
	Active      *bool  `json:"active"`
}

type PreferenceRequest struct {
	RegistrarID                string           `json:"registrar_id"`
	Priority                   int              `json:"priority"`
	OffersHosting              bool             `json:"offers_hosting"`
	OffersEmail                bool             `json:"offers_email"`
	OffersSsl                  bool             `json:"offers_ssl"`
	MaxCostDifferenceThreshold *decimal.Decimal `json:"max_cost_difference_threshold"`
	PreferForHostingCustomers  bool             `json:"prefer_for_hosting_customers"`
}

type Response struct {
	ID     snowflake.ID `json:"id"`
	Name   string       `json:"name"`
	Code   string       `json:"code"`
	Active bool         `json:"active"`
}

type RelationResponse struct {
	ID          snowflake.ID `json:"id"`
	RegistrarID snowflake.ID `json:"registrar_id"`
	TldID       snowflake.ID `json:"tld_id"`
	Active      bool         `json:"active"`
}

type PreferenceResponse struct {
	ID                         snowflake.ID    `json:"id"`
	RegistrarID                snowflake.ID    `json:"registrar_id"`
	Priority                   int             `json:"priority"`
	OffersHosting              bool            `json:"offers_hosting"`
	OffersEmail                bool            `json:"offers_email"`
	OffersSsl                  bool            `json:"offers_ssl"`
	MaxCostDifferenceThreshold decimal.Decimal `json:"max_cost_difference_threshold"`
	PreferForHostingCustomers  bool            `json:"prefer_for_hosting_customers"`
}

// Selection names the chosen registrar. LowConfidence marks the fallback
// taken when no relation had a resolvable current cost.
type Selection struct {
	RegistrarID      snowflake.ID     `json:"registrar_id"`
	RegistrarName    string           `json:"registrar_name"`
	RegistrarTldID   snowflake.ID     `json:"registrar_tld_id"`
	RegistrationCost *decimal.Decimal `json:"registration_cost,omitempty"`
	CostCurrency     string           `json:"cost_currency,omitempty"`
	LowConfidence    bool             `json:"low_confidence"`
}

var (
	ErrInvalidName       = errors.New("invalid_registrar_name")
	ErrInvalidCode       = errors.New("invalid_registrar_code")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidTld        = errors.New("invalid_tld")
	ErrDuplicate         = errors.New("registrar_already_exists")
	ErrDuplicateRelation = errors.New("registrar_tld_already_exists")
	ErrNotFound          = errors.New("registrar_not_found")
	ErrRelationNotFound  = errors.New("registrar_tld_not_found")

	// ErrNoActiveRegistrar means no active registrar offers the TLD at all.
	ErrNoActiveRegistrar = errors.New("no_active_registrar")
)
