package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() salesdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, iv *salesdomain.Interval) error {
	return db.WithContext(ctx).Create(iv).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*salesdomain.Interval, error) {
	var iv salesdomain.Interval
	err := db.WithContext(ctx).Where("id = ?", id).Take(&iv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

func (r *repo) FindCurrentAt(ctx context.Context, db *gorm.DB, tldID snowflake.ID, at time.Time) (*salesdomain.Interval, error) {
	var iv salesdomain.Interval
	err := db.WithContext(ctx).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to > ?", at).
		Order("effective_from DESC, created_at DESC").
		Limit(1).
		Take(&iv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

func (r *repo) FindOpen(ctx context.Context, db *gorm.DB, tldID snowflake.ID) (*salesdomain.Interval, error) {
	var iv salesdomain.Interval
	err := db.WithContext(ctx).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_to IS NULL").
		Take(&iv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

func (r *repo) FindClosedAt(ctx context.Context, db *gorm.DB, tldID snowflake.ID, effectiveTo time.Time) (*salesdomain.Interval, error) {
	var iv salesdomain.Interval
	err := db.WithContext(ctx).
		Where("tld_id = ?", tldID).
		Where("is_active = ?", true).
		Where("effective_to = ?", effectiveTo).
		Order("effective_from DESC").
		Limit(1).
		Take(&iv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

func (r *repo) ListHistory(ctx context.Context, db *gorm.DB, tldID snowflake.ID, includeArchived bool) ([]salesdomain.Interval, error) {
	var items []salesdomain.Interval
	stmt := db.WithContext(ctx).
		Model(&salesdomain.Interval{}).
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

func (r *repo) ListFuture(ctx context.Context, db *gorm.DB, tldID snowflake.ID, after time.Time) ([]salesdomain.Interval, error) {
	var items []salesdomain.Interval
	err := db.WithContext(ctx).
		Model(&salesdomain.Interval{}).
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

func (r *repo) ListOverlapping(ctx context.Context, db *gorm.DB, tldID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) ([]salesdomain.Interval, error) {
	var items []salesdomain.Interval
	stmt := db.WithContext(ctx).
		Model(&salesdomain.Interval{}).
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

func (r *repo) Update(ctx context.Context, db *gorm.DB, iv *salesdomain.Interval) error {
	return db.WithContext(ctx).
		Model(&salesdomain.Interval{}).
		Where("id = ?", iv.ID).
		Updates(map[string]interface{}{
			"currency":                      iv.Currency,
			"registration_price":            iv.RegistrationPrice,
			"renewal_price":                 iv.RenewalPrice,
			"transfer_price":                iv.TransferPrice,
			"privacy_price":                 iv.PrivacyPrice,
			"first_year_registration_price": iv.FirstYearRegistrationPrice,
			"is_promotional":                iv.IsPromotional,
			"promotion_name":                iv.PromotionName,
			"effective_from":                iv.EffectiveFrom,
			"effective_to":                  iv.EffectiveTo,
			"is_active":                     iv.IsActive,
			"updated_at":                    iv.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&salesdomain.Interval{}).Error
}

func (r *repo) ArchiveOlderThan(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&salesdomain.Interval{}).
		Where("is_active = ?", true).
		Where("effective_to IS NOT NULL").
		Where("effective_to < ?", cutoff).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
