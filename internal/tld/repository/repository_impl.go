package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tlddomain "github.com/resellhq/tldpricing/internal/tld/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tlddomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *tlddomain.Tld) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tlddomain.Tld, error) {
	var t tlddomain.Tld
	err := db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*tlddomain.Tld, error) {
	var t tlddomain.Tld
	err := db.WithContext(ctx).Where("name = ?", name).Take(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]tlddomain.Tld, error) {
	var items []tlddomain.Tld
	stmt := db.WithContext(ctx).Model(&tlddomain.Tld{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	return db.WithContext(ctx).
		Model(&tlddomain.Tld{}).
		Where("id = ?", id).
		Update("active", active).Error
}
