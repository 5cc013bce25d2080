package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	ratedomain "github.com/resellhq/tldpricing/internal/exchangerate/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Config *config.PricingConfigHolder
	Repo   ratedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	cfg   *config.PricingConfigHolder
	repo  ratedomain.Repository
}

func New(p Params) ratedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("exchangerate.service"),
		genID: p.GenID,
		clock: p.Clock,
		cfg:   p.Config,
		repo:  p.Repo,
	}
}

// AsConverter exposes the already-built service through the conversion-only
// interface so consumers do not depend on the admin surface.
func AsConverter(s ratedomain.Service) ratedomain.Converter {
	return s.(*Service)
}

func (s *Service) Create(ctx context.Context, req ratedomain.CreateRequest) (*ratedomain.Response, error) {
	base, err := normalizeCurrency(req.BaseCurrency)
	if err != nil {
		return nil, err
	}
	quote, err := normalizeCurrency(req.QuoteCurrency)
	if err != nil {
		return nil, err
	}
	if base == quote {
		return nil, ratedomain.ErrInvalidCurrency
	}
	if !req.Rate.IsPositive() {
		return nil, ratedomain.ErrInvalidRate
	}

	effectiveDate := s.clock.Now().UTC().Truncate(time.Minute)
	if req.EffectiveDate != nil {
		effectiveDate = req.EffectiveDate.UTC().Truncate(time.Minute)
	}
	var expiryDate *time.Time
	if req.ExpiryDate != nil {
		normalized := req.ExpiryDate.UTC().Truncate(time.Minute)
		if !normalized.After(effectiveDate) {
			return nil, ratedomain.ErrInvalidExpiry
		}
		expiryDate = &normalized
	}

	now := s.clock.Now()
	entity := &ratedomain.ExchangeRate{
		ID:            s.genID.Generate(),
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          req.Rate,
		EffectiveDate: effectiveDate,
		ExpiryDate:    expiryDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.log.Info("exchange rate published",
		zap.String("pair", base+"/"+quote),
		zap.String("rate", req.Rate.String()),
	)
	return toResponse(entity), nil
}

func (s *Service) List(ctx context.Context, base, quote string) ([]ratedomain.Response, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))

	items, err := s.repo.List(ctx, s.db, base, quote)
	if err != nil {
		return nil, err
	}
	resp := make([]ratedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

// Convert applies the published rate plus the configured markup. The markup
// compensates for rate drift between publishes and settlement.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}

	rate, err := s.repo.FindRateAt(ctx, s.db, from, to, at)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, ratedomain.ErrConversionUnavailable
	}

	markupPct := decimal.NewFromFloat(s.cfg.Get().ConversionMarkupPct)
	multiplier := decimal.NewFromInt(1).Add(markupPct.Div(decimal.NewFromInt(100)))
	return amount.Mul(rate.Rate).Mul(multiplier).Round(2), nil
}

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if len(currency) != 3 {
		return "", ratedomain.ErrInvalidCurrency
	}
	return currency, nil
}

func toResponse(rate *ratedomain.ExchangeRate) *ratedomain.Response {
	return &ratedomain.Response{
		ID:            rate.ID,
		BaseCurrency:  rate.BaseCurrency,
		QuoteCurrency: rate.QuoteCurrency,
		Rate:          rate.Rate,
		EffectiveDate: rate.EffectiveDate,
		ExpiryDate:    rate.ExpiryDate,
		CreatedAt:     rate.CreatedAt,
		UpdatedAt:     rate.UpdatedAt,
	}
}
