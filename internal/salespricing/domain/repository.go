package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, iv *Interval) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Interval, error)
	FindCurrentAt(ctx context.Context, db *gorm.DB, tldID snowflake.ID, at time.Time) (*Interval, error)
	FindOpen(ctx context.Context, db *gorm.DB, tldID snowflake.ID) (*Interval, error)
	FindClosedAt(ctx context.Context, db *gorm.DB, tldID snowflake.ID, effectiveTo time.Time) (*Interval, error)
	ListHistory(ctx context.Context, db *gorm.DB, tldID snowflake.ID, includeArchived bool) ([]Interval, error)
	ListFuture(ctx context.Context, db *gorm.DB, tldID snowflake.ID, after time.Time) ([]Interval, error)
	ListOverlapping(ctx context.Context, db *gorm.DB, tldID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) ([]Interval, error)
	Update(ctx context.Context, db *gorm.DB, iv *Interval) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ArchiveOlderThan(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error)
}
