package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *Registrar) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Registrar, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Registrar, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error

	InsertRelation(ctx context.Context, db *gorm.DB, rel *RegistrarTld) error
	FindRelationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RegistrarTld, error)
	FindRelation(ctx context.Context, db *gorm.DB, registrarID, tldID snowflake.ID) (*RegistrarTld, error)

	// ListActiveRelationsByTld returns relations for the TLD whose registrar
	// is itself active, in stable insertion order.
	ListActiveRelationsByTld(ctx context.Context, db *gorm.DB, tldID snowflake.ID) ([]RegistrarTld, error)
	SetRelationActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error

	UpsertPreference(ctx context.Context, db *gorm.DB, pref *SelectionPreference) error
	FindPreference(ctx context.Context, db *gorm.DB, registrarID snowflake.ID) (*SelectionPreference, error)
}
