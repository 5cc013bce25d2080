package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rate *ExchangeRate) error

	// FindRateAt returns the newest published rate for the pair valid at the
	// given instant, or nil when none is.
	FindRateAt(ctx context.Context, db *gorm.DB, base, quote string, at time.Time) (*ExchangeRate, error)
	List(ctx context.Context, db *gorm.DB, base, quote string) ([]ExchangeRate, error)
}
