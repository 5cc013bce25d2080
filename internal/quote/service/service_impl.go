package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	"github.com/resellhq/tldpricing/internal/operation"
	quotedomain "github.com/resellhq/tldpricing/internal/quote/domain"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Config   *config.PricingConfigHolder
	Sales    salesdomain.Service
	Discount discountdomain.Service
	Selector registrardomain.Selector
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	cfg      *config.PricingConfigHolder
	sales    salesdomain.Service
	discount discountdomain.Service
	selector registrardomain.Selector
}

func New(p Params) quotedomain.Service {
	return &Service{
		log:      p.Log.Named("quote.service"),
		clock:    p.Clock,
		cfg:      p.Config,
		sales:    p.Sales,
		discount: p.Discount,
		selector: p.Selector,
	}
}

var hundred = decimal.NewFromInt(100)

func (s *Service) CalculatePrice(ctx context.Context, req quotedomain.PriceRequest) (*quotedomain.PriceResult, error) {
	op, err := operation.Parse(req.Operation)
	if err != nil {
		return nil, quotedomain.ErrInvalidOperation
	}
	if !op.Purchasable() {
		return nil, quotedomain.ErrInvalidOperation
	}
	if req.Years < 1 {
		return nil, quotedomain.ErrInvalidYears
	}

	at := s.clock.Now()
	if req.At != nil {
		at = req.At.UTC()
	}

	sales, err := s.sales.GetCurrent(ctx, req.TldID, &at)
	if err != nil {
		if errors.Is(err, salesdomain.ErrNotFound) {
			return nil, quotedomain.ErrPricingNotConfigured
		}
		if errors.Is(err, salesdomain.ErrInvalidTld) {
			return nil, quotedomain.ErrInvalidTld
		}
		return nil, err
	}

	unitPrice := unitPriceFor(sales, op, req.IsFirstYear)
	years := decimal.NewFromInt(int64(req.Years))
	basePrice := unitPrice.Mul(years)

	result := &quotedomain.PriceResult{
		BasePrice:     basePrice,
		Currency:      sales.Currency,
		IsPromotional: sales.IsPromotional,
		PromotionName: sales.PromotionName,
	}

	if req.ResellerCompanyID != nil {
		s.applyDiscount(ctx, result, op, *req.ResellerCompanyID, req.TldID, at, req.Years)
	}

	result.FinalPrice = basePrice.Sub(result.DiscountAmount)
	if result.FinalPrice.IsNegative() {
		// A fixed discount larger than the line clamps to free, never to a
		// credit.
		result.FinalPrice = decimal.Zero
	}

	s.attachRegistrar(ctx, result, req.TldID, req.CustomerID)
	return result, nil
}

// unitPriceFor picks the per-year price, honoring the first-year registration
// override when present.
func unitPriceFor(sales *salesdomain.Response, op operation.Type, isFirstYear bool) decimal.Decimal {
	if op == operation.Registration && isFirstYear && sales.FirstYearRegistrationPrice != nil {
		return *sales.FirstYearRegistrationPrice
	}
	switch op {
	case operation.Renewal:
		return sales.RenewalPrice
	case operation.Transfer:
		return sales.TransferPrice
	default:
		return sales.RegistrationPrice
	}
}

func (s *Service) applyDiscount(ctx context.Context, result *quotedomain.PriceResult, op operation.Type, resellerCompanyID, tldID string, at time.Time, years int) {
	disc, err := s.discount.GetCurrent(ctx, resellerCompanyID, tldID, &at)
	if err != nil {
		if !errors.Is(err, discountdomain.ErrNotFound) {
			s.log.Warn("discount lookup failed", zap.Error(err))
		}
		return
	}

	applies := false
	switch op {
	case operation.Registration:
		applies = disc.ApplyToRegistration
	case operation.Renewal:
		applies = disc.ApplyToRenewal
	case operation.Transfer:
		applies = disc.ApplyToTransfer
	}
	if !applies {
		return
	}

	if result.IsPromotional && !s.cfg.Get().AllowDiscountOnPromotion {
		result.DiscountDescription = "discount not stacked with promotion"
		return
	}

	switch disc.Kind {
	case discountdomain.KindPercentage:
		if disc.Percentage == nil {
			return
		}
		result.DiscountAmount = result.BasePrice.Mul(disc.Percentage.Div(hundred)).Round(2)
		result.IsDiscountApplied = true
		result.DiscountDescription = fmt.Sprintf("%s%% reseller discount", disc.Percentage.String())
	case discountdomain.KindFixedAmount:
		if disc.Amount == nil || disc.AmountCurrency == nil {
			return
		}
		// A fixed discount in another currency cannot be subtracted from this
		// line; skip rather than convert.
		if *disc.AmountCurrency != result.Currency {
			result.DiscountDescription = "discount currency mismatch"
			return
		}
		result.DiscountAmount = disc.Amount.Mul(decimal.NewFromInt(int64(years)))
		result.IsDiscountApplied = true
		result.DiscountDescription = fmt.Sprintf("%s %s off per year", disc.Amount.String(), *disc.AmountCurrency)
	}
}

// attachRegistrar is advisory: a quote without a registrar recommendation is
// still a valid quote.
func (s *Service) attachRegistrar(ctx context.Context, result *quotedomain.PriceResult, tldID string, customerID *string) {
	sel, err := s.selector.SelectOptimalRegistrar(ctx, tldID, customerID)
	if err != nil {
		if !errors.Is(err, registrardomain.ErrNoActiveRegistrar) {
			s.log.Warn("registrar selection failed", zap.Error(err))
		}
		return
	}
	result.Registrar = &quotedomain.RegistrarSummary{
		RegistrarID:   sel.RegistrarID,
		RegistrarName: sel.RegistrarName,
		LowConfidence: sel.LowConfidence,
	}
}
