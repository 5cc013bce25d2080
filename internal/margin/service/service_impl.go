package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	ratedomain "github.com/resellhq/tldpricing/internal/exchangerate/domain"
	margindomain "github.com/resellhq/tldpricing/internal/margin/domain"
	"github.com/resellhq/tldpricing/internal/operation"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	tlddomain "github.com/resellhq/tldpricing/internal/tld/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	Config        *config.PricingConfigHolder
	TldRepo       tlddomain.Repository
	SalesRepo     salesdomain.Repository
	CostRepo      costdomain.Repository
	RegistrarRepo registrardomain.Repository
	Selector      registrardomain.Selector
	Converter     ratedomain.Converter
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	clock         clock.Clock
	cfg           *config.PricingConfigHolder
	tldRepo       tlddomain.Repository
	salesRepo     salesdomain.Repository
	costRepo      costdomain.Repository
	registrarRepo registrardomain.Repository
	selector      registrardomain.Selector
	converter     ratedomain.Converter
}

func New(p Params) margindomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("margin.service"),
		clock:         p.Clock,
		cfg:           p.Config,
		tldRepo:       p.TldRepo,
		salesRepo:     p.SalesRepo,
		costRepo:      p.CostRepo,
		registrarRepo: p.RegistrarRepo,
		selector:      p.Selector,
		converter:     p.Converter,
	}
}

var hundred = decimal.NewFromInt(100)

func (s *Service) CalculateMargin(ctx context.Context, req margindomain.MarginRequest) (*margindomain.MarginResult, error) {
	tldID, err := snowflake.ParseString(req.TldID)
	if err != nil {
		return nil, margindomain.ErrInvalidTld
	}
	op, err := operation.Parse(req.Operation)
	if err != nil {
		return nil, margindomain.ErrInvalidOperation
	}

	at := s.clock.Now()
	if req.At != nil {
		at = req.At.UTC()
	}

	var registrarID *snowflake.ID
	if req.RegistrarID != nil {
		id, err := snowflake.ParseString(*req.RegistrarID)
		if err != nil {
			return nil, margindomain.ErrInvalidRegistrar
		}
		registrarID = &id
	}

	return s.computeMargin(ctx, tldID, "", op, registrarID, at)
}

// computeMargin resolves price, cost, and the registrar, then derives the
// margin. Cost is converted into the sales currency; if that conversion is
// unavailable the margin is not computed at all.
func (s *Service) computeMargin(ctx context.Context, tldID snowflake.ID, tldName string, op operation.Type, registrarID *snowflake.ID, at time.Time) (*margindomain.MarginResult, error) {
	sales, err := s.salesRepo.FindCurrentAt(ctx, s.db, tldID, at)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		return nil, salesdomain.ErrNotFound
	}
	price := sales.PriceFor(op)

	var relationID snowflake.ID
	var chosenRegistrar snowflake.ID
	if registrarID != nil {
		rel, err := s.registrarRepo.FindRelation(ctx, s.db, *registrarID, tldID)
		if err != nil {
			return nil, err
		}
		if rel == nil {
			return nil, registrardomain.ErrRelationNotFound
		}
		relationID = rel.ID
		chosenRegistrar = rel.RegistrarID
	} else {
		sel, err := s.selector.SelectOptimalRegistrar(ctx, tldID.String(), nil)
		if err != nil {
			return nil, err
		}
		relationID = sel.RegistrarTldID
		chosenRegistrar = sel.RegistrarID
	}

	cost, err := s.costRepo.FindCurrentAt(ctx, s.db, relationID, at)
	if err != nil {
		return nil, err
	}
	if cost == nil {
		return nil, costdomain.ErrNotFound
	}

	costAmount := cost.CostFor(op)
	if cost.Currency != sales.Currency {
		converted, err := s.converter.Convert(ctx, costAmount, cost.Currency, sales.Currency, at)
		if err != nil {
			return nil, err
		}
		costAmount = converted
	}

	marginAmount := price.Sub(costAmount)
	result := &margindomain.MarginResult{
		TldID:            tldID,
		TldName:          tldName,
		Operation:        string(op),
		RegistrarID:      chosenRegistrar,
		Price:            price,
		Cost:             costAmount,
		Currency:         sales.Currency,
		MarginAmount:     marginAmount,
		IsNegativeMargin: marginAmount.IsNegative(),
	}

	if !price.IsZero() {
		pct := marginAmount.Div(price).Mul(hundred).Round(2)
		result.MarginPercentage = &pct
		threshold := decimal.NewFromFloat(s.cfg.Get().LowMarginThresholdPct)
		result.IsLowMargin = !pct.IsNegative() && pct.LessThan(threshold)
	}
	return result, nil
}

func (s *Service) NegativeMarginReport(ctx context.Context) ([]margindomain.MarginResult, error) {
	return s.report(ctx, func(r *margindomain.MarginResult) bool {
		return r.IsNegativeMargin
	})
}

func (s *Service) LowMarginReport(ctx context.Context) ([]margindomain.MarginResult, error) {
	return s.report(ctx, func(r *margindomain.MarginResult) bool {
		return r.IsLowMargin
	})
}

// report computes the registration margin for every active TLD and keeps the
// entries matching the predicate. Unresolvable TLDs are skipped; anything
// else aborts the batch.
func (s *Service) report(ctx context.Context, keep func(*margindomain.MarginResult) bool) ([]margindomain.MarginResult, error) {
	tlds, err := s.tldRepo.List(ctx, s.db, true)
	if err != nil {
		return nil, err
	}

	at := s.clock.Now()
	results := make([]margindomain.MarginResult, 0)
	for i := range tlds {
		result, err := s.computeMargin(ctx, tlds[i].ID, tlds[i].Name, operation.Registration, nil, at)
		if err != nil {
			if isSkippable(err) {
				continue
			}
			return nil, err
		}
		if keep(result) {
			results = append(results, *result)
		}
	}
	return results, nil
}

func isSkippable(err error) bool {
	return errors.Is(err, salesdomain.ErrNotFound) ||
		errors.Is(err, costdomain.ErrNotFound) ||
		errors.Is(err, registrardomain.ErrNoActiveRegistrar) ||
		errors.Is(err, ratedomain.ErrConversionUnavailable)
}
