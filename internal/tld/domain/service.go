package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, activeOnly bool) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	SetActive(ctx context.Context, id string, active bool) (*Response, error)
}

type CreateRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type Response struct {
	ID     snowflake.ID `json:"id"`
	Name   string       `json:"name"`
	Active bool         `json:"active"`
}

var (
	ErrInvalidName = errors.New("invalid_tld_name")
	ErrInvalidID   = errors.New("invalid_tld_id")
	ErrDuplicate   = errors.New("tld_exists")
	ErrNotFound    = errors.New("tld_not_found")
)
