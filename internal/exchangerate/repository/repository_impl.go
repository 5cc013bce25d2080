package repository

import (
	"context"
	"time"

	ratedomain "github.com/resellhq/tldpricing/internal/exchangerate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ratedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *ratedomain.ExchangeRate) error {
	return db.WithContext(ctx).Create(rate).Error
}

func (r *repo) FindRateAt(ctx context.Context, db *gorm.DB, base, quote string, at time.Time) (*ratedomain.ExchangeRate, error) {
	var rate ratedomain.ExchangeRate
	err := db.WithContext(ctx).
		Where("base_currency = ?", base).
		Where("quote_currency = ?", quote).
		Where("effective_date <= ?", at).
		Where("expiry_date IS NULL OR expiry_date > ?", at).
		Order("effective_date DESC, created_at DESC").
		Limit(1).
		Take(&rate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, base, quote string) ([]ratedomain.ExchangeRate, error) {
	stmt := db.WithContext(ctx).Model(&ratedomain.ExchangeRate{})
	if base != "" {
		stmt = stmt.Where("base_currency = ?", base)
	}
	if quote != "" {
		stmt = stmt.Where("quote_currency = ?", quote)
	}
	var items []ratedomain.ExchangeRate
	err := stmt.Order("base_currency ASC, quote_currency ASC, effective_date DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
