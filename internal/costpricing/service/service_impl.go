package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	"github.com/resellhq/tldpricing/internal/schedule"
	"github.com/resellhq/tldpricing/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Guard *schedule.Guard
	Repo  costdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	guard *schedule.Guard
	repo  costdomain.Repository
}

func New(p Params) costdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("costpricing.service"),
		genID: p.GenID,
		clock: p.Clock,
		guard: p.Guard,
		repo:  p.Repo,
	}
}

// normalizeToMinutePrecision truncates to minute precision in UTC so window
// boundaries line up exactly across families.
func normalizeToMinutePrecision(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func (s *Service) Create(ctx context.Context, req costdomain.CreateRequest) (*costdomain.Response, error) {
	key, err := parseID(req.RegistrarTldID)
	if err != nil {
		return nil, costdomain.ErrInvalidRegistrarTld
	}

	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	if err := validateCosts(req.RegistrationCost, req.RenewalCost, req.TransferCost, req.PrivacyCost, req.FirstYearRegistrationCost); err != nil {
		return nil, err
	}

	effectiveFrom := normalizeToMinutePrecision(s.clock.Now())
	if req.EffectiveFrom != nil {
		effectiveFrom = normalizeToMinutePrecision(*req.EffectiveFrom)
		if err := s.guard.ValidateScheduleDate(effectiveFrom); err != nil {
			return nil, err
		}
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != nil {
		normalized := normalizeToMinutePrecision(*req.EffectiveTo)
		if !normalized.After(effectiveFrom) {
			return nil, costdomain.ErrInvalidEffectiveTo
		}
		effectiveTo = &normalized
	}

	var entity *costdomain.Interval
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.repo.FindOpen(ctx, tx, key)
		if err != nil {
			return err
		}
		if open != nil {
			if !effectiveFrom.After(open.EffectiveFrom) {
				return costdomain.ErrEffectiveOverlap
			}
			// Close the window in force; the new one takes over at its start.
			open.EffectiveTo = &effectiveFrom
			open.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, tx, open); err != nil {
				return err
			}
		}

		overlapping, err := s.repo.ListOverlapping(ctx, tx, key, effectiveFrom, effectiveTo, 0)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return costdomain.ErrEffectiveOverlap
		}

		now := s.clock.Now()
		entity = &costdomain.Interval{
			ID:                        s.genID.Generate(),
			RegistrarTldID:            key,
			Currency:                  currency,
			RegistrationCost:          req.RegistrationCost,
			RenewalCost:               req.RenewalCost,
			TransferCost:              req.TransferCost,
			PrivacyCost:               req.PrivacyCost,
			FirstYearRegistrationCost: req.FirstYearRegistrationCost,
			EffectiveFrom:             effectiveFrom,
			EffectiveTo:               effectiveTo,
			IsActive:                  true,
			CreatedAt:                 now,
			UpdatedAt:                 now,
		}
		if err := s.repo.Insert(ctx, tx, entity); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return costdomain.ErrConflict
			}
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("cost pricing interval created",
		zap.Int64("registrar_tld_id", key.Int64()),
		zap.Time("effective_from", effectiveFrom),
	)
	return toResponse(entity), nil
}

func (s *Service) Update(ctx context.Context, id string, req costdomain.UpdateRequest) (*costdomain.Response, error) {
	intervalID, err := parseID(id)
	if err != nil {
		return nil, costdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, intervalID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, costdomain.ErrNotFound
	}

	if !s.guard.CanEdit(entity.EffectiveFrom) {
		return nil, schedule.ErrRecordLocked
	}

	if req.Currency != nil {
		currency, err := normalizeCurrency(*req.Currency)
		if err != nil {
			return nil, err
		}
		entity.Currency = currency
	}
	applyCost(&entity.RegistrationCost, req.RegistrationCost)
	applyCost(&entity.RenewalCost, req.RenewalCost)
	applyCost(&entity.TransferCost, req.TransferCost)
	applyCost(&entity.PrivacyCost, req.PrivacyCost)
	if req.FirstYearRegistrationCost != nil {
		entity.FirstYearRegistrationCost = req.FirstYearRegistrationCost
	}
	if err := validateCosts(entity.RegistrationCost, entity.RenewalCost, entity.TransferCost, entity.PrivacyCost, entity.FirstYearRegistrationCost); err != nil {
		return nil, err
	}

	previousFrom := entity.EffectiveFrom
	if req.EffectiveFrom != nil {
		newFrom := normalizeToMinutePrecision(*req.EffectiveFrom)
		if err := s.guard.ValidateScheduleDate(newFrom); err != nil {
			return nil, err
		}
		entity.EffectiveFrom = newFrom
	}
	if req.EffectiveTo != nil {
		newTo := normalizeToMinutePrecision(*req.EffectiveTo)
		entity.EffectiveTo = &newTo
	}
	if entity.EffectiveTo != nil && !entity.EffectiveTo.After(entity.EffectiveFrom) {
		return nil, costdomain.ErrInvalidEffectiveTo
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !entity.EffectiveFrom.Equal(previousFrom) {
			// Keep the predecessor window aligned with the moved start.
			pred, err := s.repo.FindClosedAt(ctx, tx, entity.RegistrarTldID, previousFrom)
			if err != nil {
				return err
			}
			if pred != nil {
				if !entity.EffectiveFrom.After(pred.EffectiveFrom) {
					return costdomain.ErrEffectiveOverlap
				}
				newFrom := entity.EffectiveFrom
				pred.EffectiveTo = &newFrom
				pred.UpdatedAt = s.clock.Now()
				if err := s.repo.Update(ctx, tx, pred); err != nil {
					return err
				}
			}
		}

		overlapping, err := s.repo.ListOverlapping(ctx, tx, entity.RegistrarTldID, entity.EffectiveFrom, entity.EffectiveTo, entity.ID)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return costdomain.ErrEffectiveOverlap
		}

		entity.UpdatedAt = s.clock.Now()
		return s.repo.Update(ctx, tx, entity)
	}); err != nil {
		return nil, err
	}

	return toResponse(entity), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	intervalID, err := parseID(id)
	if err != nil {
		return costdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, intervalID)
	if err != nil {
		return err
	}
	if entity == nil {
		return costdomain.ErrNotFound
	}

	if !s.guard.CanDelete(entity.EffectiveFrom) {
		return schedule.ErrRecordLocked
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Delete(ctx, tx, entity.ID); err != nil {
			return err
		}
		// The predecessor that was closed to make room gets its end back.
		pred, err := s.repo.FindClosedAt(ctx, tx, entity.RegistrarTldID, entity.EffectiveFrom)
		if err != nil {
			return err
		}
		if pred != nil {
			pred.EffectiveTo = entity.EffectiveTo
			pred.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, tx, pred); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return costdomain.ErrConflict
				}
				return err
			}
		}
		return nil
	})
}

func (s *Service) GetCurrent(ctx context.Context, registrarTldID string, at *time.Time) (*costdomain.Response, error) {
	key, err := parseID(registrarTldID)
	if err != nil {
		return nil, costdomain.ErrInvalidRegistrarTld
	}

	instant := s.clock.Now()
	if at != nil {
		instant = at.UTC()
	}

	entity, err := s.repo.FindCurrentAt(ctx, s.db, key, instant)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, costdomain.ErrNotFound
	}
	return toResponse(entity), nil
}

func (s *Service) ListHistory(ctx context.Context, registrarTldID string, includeArchived bool) ([]costdomain.Response, error) {
	key, err := parseID(registrarTldID)
	if err != nil {
		return nil, costdomain.ErrInvalidRegistrarTld
	}

	items, err := s.repo.ListHistory(ctx, s.db, key, includeArchived)
	if err != nil {
		return nil, err
	}
	resp := make([]costdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ListFuture(ctx context.Context, registrarTldID string) ([]costdomain.Response, error) {
	key, err := parseID(registrarTldID)
	if err != nil {
		return nil, costdomain.ErrInvalidRegistrarTld
	}

	items, err := s.repo.ListFuture(ctx, s.db, key, s.clock.Now())
	if err != nil {
		return nil, err
	}
	resp := make([]costdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func applyCost(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

func validateCosts(registration, renewal, transfer, privacy decimal.Decimal, firstYear *decimal.Decimal) error {
	for _, amount := range []decimal.Decimal{registration, renewal, transfer, privacy} {
		if amount.IsNegative() {
			return costdomain.ErrInvalidAmount
		}
	}
	if firstYear != nil && firstYear.IsNegative() {
		return costdomain.ErrInvalidAmount
	}
	return nil
}

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if len(currency) != 3 {
		return "", costdomain.ErrInvalidCurrency
	}
	return currency, nil
}

func toResponse(iv *costdomain.Interval) *costdomain.Response {
	return &costdomain.Response{
		ID:                        iv.ID,
		RegistrarTldID:            iv.RegistrarTldID,
		Currency:                  iv.Currency,
		RegistrationCost:          iv.RegistrationCost,
		RenewalCost:               iv.RenewalCost,
		TransferCost:              iv.TransferCost,
		PrivacyCost:               iv.PrivacyCost,
		FirstYearRegistrationCost: iv.FirstYearRegistrationCost,
		EffectiveFrom:             iv.EffectiveFrom,
		EffectiveTo:               iv.EffectiveTo,
		IsActive:                  iv.IsActive,
		CreatedAt:                 iv.CreatedAt,
		UpdatedAt:                 iv.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
