package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
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
	Repo  discountdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	guard *schedule.Guard
	repo  discountdomain.Repository
}

func New(p Params) discountdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("discount.service"),
		genID: p.GenID,
		clock: p.Clock,
		guard: p.Guard,
		repo:  p.Repo,
	}
}

func normalizeToMinutePrecision(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

var hundred = decimal.NewFromInt(100)

// validateValue enforces the tagged union: a percentage discount carries only
// a percentage in (0, 100], a fixed discount only a positive amount with a
// currency.
func validateValue(kind discountdomain.Kind, percentage, amount *decimal.Decimal, amountCurrency *string) error {
	switch kind {
	case discountdomain.KindPercentage:
		if percentage == nil || amount != nil || amountCurrency != nil {
			return discountdomain.ErrInvalidValue
		}
		if !percentage.IsPositive() || percentage.GreaterThan(hundred) {
			return discountdomain.ErrInvalidValue
		}
	case discountdomain.KindFixedAmount:
		if amount == nil || percentage != nil {
			return discountdomain.ErrInvalidValue
		}
		if !amount.IsPositive() {
			return discountdomain.ErrInvalidValue
		}
		if amountCurrency == nil {
			return discountdomain.ErrInvalidCurrency
		}
	default:
		return discountdomain.ErrInvalidKind
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req discountdomain.CreateRequest) (*discountdomain.Response, error) {
	resellerID, err := parseID(req.ResellerCompanyID)
	if err != nil {
		return nil, discountdomain.ErrInvalidReseller
	}
	tldID, err := parseID(req.TldID)
	if err != nil {
		return nil, discountdomain.ErrInvalidTld
	}

	var amountCurrency *string
	if req.AmountCurrency != nil {
		normalized, err := normalizeCurrency(*req.AmountCurrency)
		if err != nil {
			return nil, err
		}
		amountCurrency = &normalized
	}
	if err := validateValue(req.Kind, req.Percentage, req.Amount, amountCurrency); err != nil {
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
			return nil, discountdomain.ErrInvalidEffectiveTo
		}
		effectiveTo = &normalized
	}

	var entity *discountdomain.Discount
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.repo.FindOpen(ctx, tx, resellerID, tldID)
		if err != nil {
			return err
		}
		if open != nil {
			if !effectiveFrom.After(open.EffectiveFrom) {
				return discountdomain.ErrEffectiveOverlap
			}
			open.EffectiveTo = &effectiveFrom
			open.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, tx, open); err != nil {
				return err
			}
		}

		overlapping, err := s.repo.ListOverlapping(ctx, tx, resellerID, tldID, effectiveFrom, effectiveTo, 0)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return discountdomain.ErrEffectiveOverlap
		}

		now := s.clock.Now()
		entity = &discountdomain.Discount{
			ID:                  s.genID.Generate(),
			ResellerCompanyID:   resellerID,
			TldID:               tldID,
			Kind:                req.Kind,
			Percentage:          req.Percentage,
			Amount:              req.Amount,
			AmountCurrency:      amountCurrency,
			ApplyToRegistration: req.ApplyToRegistration,
			ApplyToRenewal:      req.ApplyToRenewal,
			ApplyToTransfer:     req.ApplyToTransfer,
			EffectiveFrom:       effectiveFrom,
			EffectiveTo:         effectiveTo,
			IsActive:            true,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := s.repo.Insert(ctx, tx, entity); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return discountdomain.ErrConflict
			}
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("discount created",
		zap.Int64("reseller_company_id", resellerID.Int64()),
		zap.Int64("tld_id", tldID.Int64()),
		zap.String("kind", string(entity.Kind)),
	)
	return toResponse(entity), nil
}

func (s *Service) Update(ctx context.Context, id string, req discountdomain.UpdateRequest) (*discountdomain.Response, error) {
	discountID, err := parseID(id)
	if err != nil {
		return nil, discountdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, discountID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, discountdomain.ErrNotFound
	}

	if !s.guard.CanEdit(entity.EffectiveFrom) {
		return nil, schedule.ErrRecordLocked
	}

	if req.Kind != nil {
		entity.Kind = *req.Kind
		// Switching kinds invalidates the old value field.
		entity.Percentage = nil
		entity.Amount = nil
		entity.AmountCurrency = nil
	}
	if req.Percentage != nil {
		entity.Percentage = req.Percentage
	}
	if req.Amount != nil {
		entity.Amount = req.Amount
	}
	if req.AmountCurrency != nil {
		normalized, err := normalizeCurrency(*req.AmountCurrency)
		if err != nil {
			return nil, err
		}
		entity.AmountCurrency = &normalized
	}
	if req.ApplyToRegistration != nil {
		entity.ApplyToRegistration = *req.ApplyToRegistration
	}
	if req.ApplyToRenewal != nil {
		entity.ApplyToRenewal = *req.ApplyToRenewal
	}
	if req.ApplyToTransfer != nil {
		entity.ApplyToTransfer = *req.ApplyToTransfer
	}
	if err := validateValue(entity.Kind, entity.Percentage, entity.Amount, entity.AmountCurrency); err != nil {
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
		return nil, discountdomain.ErrInvalidEffectiveTo
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !entity.EffectiveFrom.Equal(previousFrom) {
			pred, err := s.repo.FindClosedAt(ctx, tx, entity.ResellerCompanyID, entity.TldID, previousFrom)
			if err != nil {
				return err
			}
			if pred != nil {
				if !entity.EffectiveFrom.After(pred.EffectiveFrom) {
					return discountdomain.ErrEffectiveOverlap
				}
				newFrom := entity.EffectiveFrom
				pred.EffectiveTo = &newFrom
				pred.UpdatedAt = s.clock.Now()
				if err := s.repo.Update(ctx, tx, pred); err != nil {
					return err
				}
			}
		}

		overlapping, err := s.repo.ListOverlapping(ctx, tx, entity.ResellerCompanyID, entity.TldID, entity.EffectiveFrom, entity.EffectiveTo, entity.ID)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return discountdomain.ErrEffectiveOverlap
		}

		entity.UpdatedAt = s.clock.Now()
		return s.repo.Update(ctx, tx, entity)
	}); err != nil {
		return nil, err
	}

	return toResponse(entity), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	discountID, err := parseID(id)
	if err != nil {
		return discountdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, discountID)
	if err != nil {
		return err
	}
	if entity == nil {
		return discountdomain.ErrNotFound
	}

	if !s.guard.CanDelete(entity.EffectiveFrom) {
		return schedule.ErrRecordLocked
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Delete(ctx, tx, entity.ID); err != nil {
			return err
		}
		pred, err := s.repo.FindClosedAt(ctx, tx, entity.ResellerCompanyID, entity.TldID, entity.EffectiveFrom)
		if err != nil {
			return err
		}
		if pred != nil {
			pred.EffectiveTo = entity.EffectiveTo
			pred.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, tx, pred); err != nil {
				if db.IsDuplicateKeyErr(err) {
					return discountdomain.ErrConflict
				}
				return err
			}
		}
		return nil
	})
}

func (s *Service) GetCurrent(ctx context.Context, resellerCompanyID, tldID string, at *time.Time) (*discountdomain.Response, error) {
	resellerID, err := parseID(resellerCompanyID)
	if err != nil {
		return nil, discountdomain.ErrInvalidReseller
	}
	tld, err := parseID(tldID)
	if err != nil {
		return nil, discountdomain.ErrInvalidTld
	}

	instant := s.clock.Now()
	if at != nil {
		instant = at.UTC()
	}

	entity, err := s.repo.FindCurrentAt(ctx, s.db, resellerID, tld, instant)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, discountdomain.ErrNotFound
	}
	return toResponse(entity), nil
}

func (s *Service) ListHistory(ctx context.Context, resellerCompanyID, tldID string, includeArchived bool) ([]discountdomain.Response, error) {
	resellerID, err := parseID(resellerCompanyID)
	if err != nil {
		return nil, discountdomain.ErrInvalidReseller
	}
	tld, err := parseID(tldID)
	if err != nil {
		return nil, discountdomain.ErrInvalidTld
	}

	items, err := s.repo.ListHistory(ctx, s.db, resellerID, tld, includeArchived)
	if err != nil {
		return nil, err
	}
	resp := make([]discountdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ListFuture(ctx context.Context, resellerCompanyID, tldID string) ([]discountdomain.Response, error) {
	resellerID, err := parseID(resellerCompanyID)
	if err != nil {
		return nil, discountdomain.ErrInvalidReseller
	}
	tld, err := parseID(tldID)
	if err != nil {
		return nil, discountdomain.ErrInvalidTld
	}

	items, err := s.repo.ListFuture(ctx, s.db, resellerID, tld, s.clock.Now())
	if err != nil {
		return nil, err
	}
	resp := make([]discountdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if len(currency) != 3 {
		return "", discountdomain.ErrInvalidCurrency
	}
	return currency, nil
}

func toResponse(d *discountdomain.Discount) *discountdomain.Response {
	return &discountdomain.Response{
		ID:                  d.ID,
		ResellerCompanyID:   d.ResellerCompanyID,
		TldID:               d.TldID,
		Kind:                d.Kind,
		Percentage:          d.Percentage,
		Amount:              d.Amount,
		AmountCurrency:      d.AmountCurrency,
		ApplyToRegistration: d.ApplyToRegistration,
		ApplyToRenewal:      d.ApplyToRenewal,
		ApplyToTransfer:     d.ApplyToTransfer,
		EffectiveFrom:       d.EffectiveFrom,
		EffectiveTo:         d.EffectiveTo,
		IsActive:            d.IsActive,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
