package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *Tld) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tld, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Tld, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Tld, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error
}
