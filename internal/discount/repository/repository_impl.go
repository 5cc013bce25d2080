package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() discountdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, d *discountdomain.Discount) error {
	return db.WithContext(ctx).Create(d).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*discountdomain.Discount, error) {
	var d discountdomain.Discount
	err := db.WithContext(ctx).Where("id = ?", id).Take(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *repo) FindCurrentAt(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, at time.Time) (*discountdomain.Discount, error) {
	var d discountdomain.Discount
	err := db.WithContext(ctx).
		Where("reseller_company_id = ?", resellerCompanyID).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to > ?", at).
		Order("effective_from DESC, created_at DESC").
		Limit(1).
		Take(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *repo) FindOpen(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID) (*discountdomain.Discount, error) {
	var d discountdomain.Discount
	err := db.WithContext(ctx).
		Where("reseller_company_id = ?", resellerCompanyID).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_to IS NULL").
		Take(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *repo) FindClosedAt(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, effectiveTo time.Time) (*discountdomain.Discount, error) {
	var d discountdomain.Discount
	err := db.WithContext(ctx).
		Where("reseller_company_id = ?", resellerCompanyID).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_to = ?", effectiveTo).
		Order("effective_from DESC").
		Limit(1).
		Take(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *repo) ListHistory(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, includeArchived bool) ([]discountdomain.Discount, error) {
	var items []discountdomain.Discount
	stmt := db.WithContext(ctx).
		Model(&discountdomain.Discount{}).
		Where("reseller_company_id = ?", resellerCompanyID).
		Where("tld_id = ?", tldID)
	if !includeArchived {
		stmt = stmt.Where("is_active = ?", true)
	}
	err := stmt.Order("effective_from DESC, created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListFuture(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, after time.Time) ([]discountdomain.Discount, error) {
	var items []discountdomain.Discount
	err := db.WithContext(ctx).
		Model(&discountdomain.Discount{}).
		Where("reseller_company_id = ?", resellerCompanyID).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_from > ?", after).
		Order("effective_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListOverlapping(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) ([]discountdomain.Discount, error) {
	var items []discountdomain.Discount
	stmt := db.WithContext(ctx).
		Model(&discountdomain.Discount{}).
		Where("reseller_company_id = ?", resellerCompanyID).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_to IS NULL OR effective_to > ?", start)
	if end != nil {
		stmt = stmt.Where("effective_from < ?", *end)
	}
	if excludeID != 0 {
		stmt = stmt.Where("id <> ?", excludeID)
	}
	err := stmt.Order("effective_from ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, d *discountdomain.Discount) error {
	return db.WithContext(ctx).
		Model(&discountdomain.Discount{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"kind":                  d.Kind,
			"percentage":            d.Percentage,
			"amount":                d.Amount,
			"amount_currency":       d.AmountCurrency,
			"apply_to_registration": d.ApplyToRegistration,
			"apply_to_renewal":      d.ApplyToRenewal,
			"apply_to_transfer":     d.ApplyToTransfer,
			"effective_from":        d.EffectiveFrom,
			"effective_to":          d.EffectiveTo,
			"is_active":             d.IsActive,
			"updated_at":            d.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&discountdomain.Discount{}).Error
}

func (r *repo) ArchiveOlderThan(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&discountdomain.Discount{}).
		Where("is_active = ?", true).
		Where("effective_to IS NOT NULL").
		Where("effective_to < ?", cutoff).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
