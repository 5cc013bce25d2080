package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() costdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, iv *costdomain.Interval) error {
	return db.WithContext(ctx).Create(iv).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*costdomain.Interval, error) {
	var iv costdomain.Interval
	err := db.WithContext(ctx).Where("id = ?", id).Take(&iv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

func (r *repo) FindCurrentAt(ctx context.Context, db *gorm.DB, registrarTldID snowflake.ID, at time.Time) (*costdomain.Interval, error) {
	var iv costdomain.Interval
	err := db.WithContext(ctx).
		Where("registrar_tld_id = ?", registrarTldID).
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

func (r *repo) FindOpen(ctx context.Context, db *gorm.DB, registrarTldID snowflake.ID) (*costdomain.Interval, error) {
	var iv costdomain.Interval
	err := db.WithContext(ctx).
		Where("registrar_tld_id = ?", registrarTldID).
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

func (r *repo) FindClosedAt(ctx context.Context, db *gorm.DB, registrarTldID snowflake.ID, effectiveTo time.Time) (*costdomain.Interval, error) {
	var iv costdomain.Interval
	err := db.WithContext(ctx).
		Where("registrar_tld_id = ?", registrarTldID).
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

func (r *repo) ListHistory(ctx context.Context, db *gorm.DB, registrarTldID snowflake.ID, includeArchived bool) ([]costdomain.Interval, error) {
	var items []costdomain.Interval
	stmt := db.WithContext(ctx).
		Model(&costdomain.Interval{}).
		Where("registrar_tld_id = ?", registrarTldID)
	if !includeArchived {
		stmt = stmt.Where("is_active = ?", true)
	}
	err := stmt.Order("effective_from DESC, created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListFuture(ctx context.Context, db *gorm.DB, registrarTldID snowflake.ID, after time.Time) ([]costdomain.Interval, error) {
	var items []costdomain.Interval
	err := db.WithContext(ctx).
		Model(&costdomain.Interval{}).
		Where("registrar_tld_id = ?", registrarTldID).
		Where("is_active = ?", true).
		Where("effective_from > ?", after).
		Order("effective_from ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListOverlapping(ctx context.Context, db *gorm.DB, registrarTldID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) ([]costdomain.Interval, error) {
	var items []costdomain.Interval
	stmt := db.WithContext(ctx).
		Model(&costdomain.Interval{}).
		Where("registrar_tld_id = ?", registrarTldID).
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

func (r *repo) Update(ctx context.Context, db *gorm.DB, iv *costdomain.Interval) error {
	return db.WithContext(ctx).
		Model(&costdomain.Interval{}).
		Where("id = ?", iv.ID).
		Updates(map[string]interface{}{
			"currency":                     iv.Currency,
			"registration_cost":            iv.RegistrationCost,
			"renewal_cost":                 iv.RenewalCost,
			"transfer_cost":                iv.TransferCost,
			"privacy_cost":                 iv.PrivacyCost,
			"first_year_registration_cost": iv.FirstYearRegistrationCost,
			"effective_from":               iv.EffectiveFrom,
			"effective_to":                 iv.EffectiveTo,
			"is_active":                    iv.IsActive,
			"updated_at":                   iv.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&costdomain.Interval{}).Error
}

func (r *repo) ArchiveOlderThan(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&costdomain.Interval{}).
		Where("is_active = ?", true).
		Where("effective_to IS NOT NULL").
		Where("effective_to < ?", cutoff).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
