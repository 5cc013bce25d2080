package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, d *Discount) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Discount, error)
	FindCurrentAt(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, at time.Time) (*Discount, error)
	FindOpen(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID) (*Discount, error)
	FindClosedAt(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, effectiveTo time.Time) (*Discount, error)
	ListHistory(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, includeArchived bool) ([]Discount, error)
	ListFuture(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, after time.Time) ([]Discount, error)
	ListOverlapping(ctx context.Context, db *gorm.DB, resellerCompanyID, tldID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) ([]Discount, error)
	Update(ctx context.Context, db *gorm.DB, d *Discount) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ArchiveOlderThan(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error)
}
