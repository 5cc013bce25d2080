package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
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
	Repo  salesdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	guard *schedule.Guard
	repo  salesdomain.Repository
}

func New(p Params) salesdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("salespricing.service"),
		genID: p.GenID,
		clock: p.Clock,
		guard: p.Guard,
		repo:  p.Repo,
	}
}

func normalizeToMinutePrecision(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func (s *Service) Create(ctx context.Context, req salesdomain.CreateRequest) (*salesdomain.Response, error) {
	key, err := parseID(req.TldID)
	if err != nil {
		return nil, salesdomain.ErrInvalidTld
	}

	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	if err := validatePrices(req.RegistrationPrice, req.RenewalPrice, req.TransferPrice, req.PrivacyPrice, req.FirstYearRegistrationPrice); err != nil {
		return nil, err
	}

	promotionName, err := normalizePromotion(req.IsPromotional, req.PromotionName)
	if err != nil {
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
			return nil, salesdomain.ErrInvalidEffectiveTo
		}
		effectiveTo = &normalized
	}

	var entity *salesdomain.Interval
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.repo.FindOpen(ctx, tx, key)
		if err != nil {
			return err
		}
		if open != nil {
			if !effectiveFrom.After(open.EffectiveFrom) {
				return salesdomain.ErrEffectiveOverlap
			}
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
			return salesdomain.ErrEffectiveOverlap
		}

		now := s.clock.Now()
		entity = &salesdomain.Interval{
			ID:                         s.genID.Generate(),
			TldID:                      key,
			Currency:                   currency,
			RegistrationPrice:          req.RegistrationPrice,
			RenewalPrice:               req.RenewalPrice,
			TransferPrice:              req.TransferPrice,
			PrivacyPrice:               req.PrivacyPrice,
			FirstYearRegistrationPrice: req.FirstYearRegistrationPrice,
			IsPromotional:              req.IsPromotional,
			PromotionName:              promotionName,
			EffectiveFrom:              effectiveFrom,
			EffectiveTo:                effectiveTo,
			IsActive:                   true,
			CreatedAt:                  now,
			UpdatedAt:                  now,
		}
		if err := s.repo.Insert(ctx, tx, entity); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return salesdomain.ErrConflict
			}
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("sales pricing interval created",
		zap.Int64("tld_id", key.Int64()),
		zap.Time("effective_from", effectiveFrom),
		zap.Bool("promotional", entity.IsPromotional),
	)
	return toResponse(entity), nil
}

func (s *Service) Update(ctx context.Context, id string, req salesdomain.UpdateRequest) (*salesdomain.Response, error) {
	intervalID, err := parseID(id)
	if err != nil {
		return nil, salesdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, intervalID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, salesdomain.ErrNotFound
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
	applyPrice(&entity.RegistrationPrice, req.RegistrationPrice)
	applyPrice(&entity.RenewalPrice, req.RenewalPrice)
	applyPrice(&entity.TransferPrice, req.TransferPrice)
	applyPrice(&entity.PrivacyPrice, req.PrivacyPrice)
	if req.FirstYearRegistrationPrice != nil {
		entity.FirstYearRegistrationPrice = req.FirstYearRegistrationPrice
	}
	if req.IsPromotional != nil {
		entity.IsPromotional = *req.IsPromotional
	}
	if req.PromotionName != nil {
		entity.PromotionName = req.PromotionName
	}
	promotionName, err := normalizePromotion(entity.IsPromotional, entity.PromotionName)
	if err != nil {
		return nil, err
	}
	entity.PromotionName = promotionName

	if err := validatePrices(entity.RegistrationPrice, entity.RenewalPrice, entity.TransferPrice, entity.PrivacyPrice, entity.FirstYearRegistrationPrice); err != nil {
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
		return nil, salesdomain.ErrInvalidEffectiveTo
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !entity.EffectiveFrom.Equal(previousFrom) {
			pred, err := s.repo.FindClosedAt(ctx, tx, entity.TldID, previousFrom)
			if err != nil {
				return err
			}
			if pred != nil {
				if !entity.EffectiveFrom.After(pred.EffectiveFrom) {
					return salesdomain.ErrEffectiveOverlap
				}
				newFrom := entity.EffectiveFrom
				pred.EffectiveTo = &newFrom
				pred.UpdatedAt = s.clock.Now()
				if err := s.repo.Update(ctx, tx, pred); err != nil {
					return err
				}
			}
		}

		overlapping, err := s.repo.ListOverlapping(ctx, tx, entity.TldID, entity.EffectiveFrom, entity.EffectiveTo, entity.ID)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return salesdomain.ErrEffectiveOverlap
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
		return salesdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, intervalID)
	if err != nil {
		return err
	}
	if entity == nil {
		return salesdomain.ErrNotFound
	}

	if !s.guard.CanDelete(entity.EffectiveFrom) {
		return schedule.ErrRecordLocked
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Delete(ctx, tx, entity.ID); err != nil {
			return err
		}
		pred, err := s.repo.FindClosedAt(ctx, tx, entity.TldID, entity.EffectiveFrom)
		if err != nil {
			return err
		}
		if pred != nil {
			pred.EffectiveTo = entity.EffectiveTo
			pred.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, tx, pred); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return salesdomain.ErrConflict
				}
				return err
			}
		}
		return nil
	})
}

func (s *Service) GetCurrent(ctx context.Context, tldID string, at *time.Time) (*salesdomain.Response, error) {
	key, err := parseID(tldID)
	if err != nil {
		return nil, salesdomain.ErrInvalidTld
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
		return nil, salesdomain.ErrNotFound
	}
	return toResponse(entity), nil
}

func (s *Service) ListHistory(ctx context.Context, tldID string, includeArchived bool) ([]salesdomain.Response, error) {
	key, err := parseID(tldID)
	if err != nil {
		return nil, salesdomain.ErrInvalidTld
	}

	items, err := s.repo.ListHistory(ctx, s.db, key, includeArchived)
	if err != nil {
		return nil, err
	}
	resp := make([]salesdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ListFuture(ctx context.Context, tldID string) ([]salesdomain.Response, error) {
	key, err := parseID(tldID)
	if err != nil {
		return nil, salesdomain.ErrInvalidTld
	}

	items, err := s.repo.ListFuture(ctx, s.db, key, s.clock.Now())
	if err != nil {
		return nil, err
	}
	resp := make([]salesdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func applyPrice(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

func validatePrices(registration, renewal, transfer, privacy decimal.Decimal, firstYear *decimal.Decimal) error {
	for _, amount := range []decimal.Decimal{registration, renewal, transfer, privacy} {
		if amount.IsNegative() {
			return salesdomain.ErrInvalidAmount
		}
	}
	if firstYear != nil && firstYear.IsNegative() {
		return salesdomain.ErrInvalidAmount
	}
	return nil
}

// normalizePromotion requires a name on promotional windows and drops any
// stale name on non-promotional ones.
func normalizePromotion(isPromotional bool, name *string) (*string, error) {
	if !isPromotional {
		return nil, nil
	}
	if name == nil {
		return nil, salesdomain.ErrInvalidPromotion
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, salesdomain.ErrInvalidPromotion
	}
	return &trimmed, nil
}

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if len(currency) != 3 {
		return "", salesdomain.ErrInvalidCurrency
	}
	return currency, nil
}

func toResponse(iv *salesdomain.Interval) *salesdomain.Response {
	return &salesdomain.Response{
		ID:                         iv.ID,
		TldID:                      iv.TldID,
		Currency:                   iv.Currency,
		RegistrationPrice:          iv.RegistrationPrice,
		RenewalPrice:               iv.RenewalPrice,
		TransferPrice:              iv.TransferPrice,
		PrivacyPrice:               iv.PrivacyPrice,
		FirstYearRegistrationPrice: iv.FirstYearRegistrationPrice,
		IsPromotional:              iv.IsPromotional,
		PromotionName:              iv.PromotionName,
		EffectiveFrom:              iv.EffectiveFrom,
		EffectiveTo:                iv.EffectiveTo,
		IsActive:                   iv.IsActive,
		CreatedAt:                  iv.CreatedAt,
		UpdatedAt:                  iv.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
