package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() registrardomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reg *registrardomain.Registrar) error {
	return db.WithContext(ctx).Create(reg).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*registrardomain.Registrar, error) {
	var reg registrardomain.Registrar
	err := db.WithContext(ctx).Where("id = ?", id).Take(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]registrardomain.Registrar, error) {
	stmt := db.WithContext(ctx).Model(&registrardomain.Registrar{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var items []registrardomain.Registrar
	err := stmt.Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	return db.WithContext(ctx).
		Model(&registrardomain.Registrar{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (r *repo) InsertRelation(ctx context.Context, db *gorm.DB, rel *registrardomain.RegistrarTld) error {
	return db.WithContext(ctx).Create(rel).Error
}

func (r *repo) FindRelationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*registrardomain.RegistrarTld, error) {
	var rel registrardomain.RegistrarTld
	err := db.WithContext(ctx).Where("id = ?", id).Take(&rel).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

func (r *repo) FindRelation(ctx context.Context, db *gorm.DB, registrarID, tldID snowflake.ID) (*registrardomain.RegistrarTld, error) {
	var rel registrardomain.RegistrarTld
	err := db.WithContext(ctx).
		Where("registrar_id = ?", registrarID).
		Where("tld_id = ?", tldID).
		Take(&rel).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

func (r *repo) ListActiveRelationsByTld(ctx context.Context, db *gorm.DB, tldID snowflake.ID) ([]registrardomain.RegistrarTld, error) {
	var items []registrardomain.RegistrarTld
	err := db.WithContext(ctx).
		Model(&registrardomain.RegistrarTld{}).
		Joins("JOIN registrars ON registrars.id = registrar_tlds.registrar_id AND registrars.active = ?", true).
		Where("registrar_tlds.tld_id = ?", tldID).
		Where("registrar_tlds.active = ?", true).
		Order("registrar_tlds.created_at ASC, registrar_tlds.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetRelationActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	return db.WithContext(ctx).
		Model(&registrardomain.RegistrarTld{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (r *repo) UpsertPreference(ctx context.Context, db *gorm.DB, pref *registrardomain.SelectionPreference) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "registrar_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"priority",
				"offers_hosting",
				"offers_email",
				"offers_ssl",
				"max_cost_difference_threshold",
				"prefer_for_hosting_customers",
				"updated_at",
			}),
		}).
		Create(pref).Error
}

func (r *repo) FindPreference(ctx context.Context, db *gorm.DB, registrarID snowflake.ID) (*registrardomain.SelectionPreference, error) {
	var pref registrardomain.SelectionPreference
	err := db.WithContext(ctx).Where("registrar_id = ?", registrarID).Take(&pref).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}
