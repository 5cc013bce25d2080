package archival

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	"github.com/resellhq/tldpricing/internal/observability/metrics"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Family names one archivable interval family.
type Family string

const (
	FamilyCostPricing  Family = "cost_pricing"
	FamilySalesPricing Family = "sales_pricing"
	FamilyDiscount     Family = "discounts"
)

var ErrUnknownFamily = errors.New("unknown_archival_family")

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Config       *config.PricingConfigHolder
	Metrics      *metrics.Metrics
	CostRepo     costdomain.Repository
	SalesRepo    salesdomain.Repository
	DiscountRepo discountdomain.Repository
}

// Sweeper archives closed interval records past their family's retention
// horizon. It never deletes and never touches open windows, so a partial run
// can always be retried from scratch.
type Sweeper struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	cfg          *config.PricingConfigHolder
	metrics      *metrics.Metrics
	costRepo     costdomain.Repository
	salesRepo    salesdomain.Repository
	discountRepo discountdomain.Repository
}

func New(p Params) *Sweeper {
	return &Sweeper{
		db:           p.DB,
		log:          p.Log.Named("archival.sweeper"),
		clock:        p.Clock,
		cfg:          p.Config,
		metrics:      p.Metrics,
		costRepo:     p.CostRepo,
		salesRepo:    p.SalesRepo,
		discountRepo: p.DiscountRepo,
	}
}

// ArchiveFamily sweeps one family using its configured retention and returns
// how many records were archived.
func (s *Sweeper) ArchiveFamily(ctx context.Context, family Family) (int64, error) {
	retention := s.cfg.Get().Retention

	var years int
	switch family {
	case FamilyCostPricing:
		years = retention.CostPricingYears
	case FamilySalesPricing:
		years = retention.SalesPricingYears
	case FamilyDiscount:
		years = retention.DiscountYears
	default:
		return 0, ErrUnknownFamily
	}

	now := s.clock.Now()
	cutoff := now.AddDate(-years, 0, 0)

	var archived int64
	var err error
	switch family {
	case FamilyCostPricing:
		archived, err = s.costRepo.ArchiveOlderThan(ctx, s.db, cutoff, now)
	case FamilySalesPricing:
		archived, err = s.salesRepo.ArchiveOlderThan(ctx, s.db, cutoff, now)
	case FamilyDiscount:
		archived, err = s.discountRepo.ArchiveOlderThan(ctx, s.db, cutoff, now)
	}
	if err != nil {
		return 0, err
	}

	s.metrics.ArchivedRecords.WithLabelValues(string(family)).Add(float64(archived))
	return archived, nil
}

// SweepAll runs every family once and reports per-family counts. The first
// failure aborts the sweep; already-archived families stay archived.
func (s *Sweeper) SweepAll(ctx context.Context) (map[Family]int64, error) {
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	log.Info("archival sweep started")

	counts := make(map[Family]int64, 3)
	for _, family := range []Family{FamilyCostPricing, FamilySalesPricing, FamilyDiscount} {
		archived, err := s.ArchiveFamily(ctx, family)
		if err != nil {
			s.metrics.ArchivalRuns.WithLabelValues("error").Inc()
			log.Error("archival sweep failed",
				zap.String("family", string(family)),
				zap.Error(err),
			)
			return counts, err
		}
		counts[family] = archived
	}

	s.metrics.ArchivalRuns.WithLabelValues("ok").Inc()
	log.Info("archival sweep finished",
		zap.Int64("cost_pricing", counts[FamilyCostPricing]),
		zap.Int64("sales_pricing", counts[FamilySalesPricing]),
		zap.Int64("discounts", counts[FamilyDiscount]),
	)
	return counts, nil
}

// RunForever sweeps on a fixed cadence until the context is cancelled.
func (s *Sweeper) RunForever(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepAll(ctx); err != nil {
				s.log.Warn("scheduled sweep failed", zap.Error(err))
			}
		}
	}
}
