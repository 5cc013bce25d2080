package archival

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	costrepository "github.com/resellhq/tldpricing/internal/costpricing/repository"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	discountrepository "github.com/resellhq/tldpricing/internal/discount/repository"
	"github.com/resellhq/tldpricing/internal/observability/metrics"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	salesrepository "github.com/resellhq/tldpricing/internal/salespricing/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type sweeperFixture struct {
	sweeper *Sweeper
	db      *gorm.DB
	fc      *clock.FakeClock
	node    *snowflake.Node
}

func setupSweeper(t *testing.T) *sweeperFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(
		&costdomain.Interval{},
		&salesdomain.Interval{},
		&discountdomain.Discount{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fc := clock.NewFakeClock(baseTime)

	sweeper := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Clock:        fc,
		Config:       config.NewPricingConfigHolderFrom(config.DefaultPricingConfig()),
		Metrics:      metrics.New(),
		CostRepo:     costrepository.Provide(),
		SalesRepo:    salesrepository.Provide(),
		DiscountRepo: discountrepository.Provide(),
	})
	return &sweeperFixture{sweeper: sweeper, db: db, fc: fc, node: node}
}

func (f *sweeperFixture) seedCost(t *testing.T, from time.Time, to *time.Time) {
	t.Helper()
	err := f.db.Create(&costdomain.Interval{
		ID:               f.node.Generate(),
		RegistrarTldID:   f.node.Generate(),
		Currency:         "USD",
		RegistrationCost: decimal.RequireFromString("8.00"),
		RenewalCost:      decimal.RequireFromString("8.00"),
		TransferCost:     decimal.RequireFromString("8.00"),
		PrivacyCost:      decimal.Zero,
		EffectiveFrom:    from,
		EffectiveTo:      to,
		IsActive:         true,
		CreatedAt:        from,
		UpdatedAt:        from,
	}).Error
	if err != nil {
		t.Fatalf("seed cost: %v", err)
	}
}

func (f *sweeperFixture) seedSales(t *testing.T, from time.Time, to *time.Time) {
	t.Helper()
	err := f.db.Create(&salesdomain.Interval{
		ID:                f.node.Generate(),
		TldID:             f.node.Generate(),
		Currency:          "USD",
		RegistrationPrice: decimal.RequireFromString("12.00"),
		RenewalPrice:      decimal.RequireFromString("12.00"),
		TransferPrice:     decimal.RequireFromString("12.00"),
		PrivacyPrice:      decimal.Zero,
		EffectiveFrom:     from,
		EffectiveTo:       to,
		IsActive:          true,
		CreatedAt:         from,
		UpdatedAt:         from,
	}).Error
	if err != nil {
		t.Fatalf("seed sales: %v", err)
	}
}

func TestSweepArchivesOnlyExpiredClosedWindows(t *testing.T) {
	f := setupSweeper(t)
	ctx := context.Background()

	// Default retention: cost 5y, sales 5y, discounts 3y.
	ancientEnd := baseTime.AddDate(-6, 0, 0)
	ancientStart := ancientEnd.AddDate(-1, 0, 0)
	recentEnd := baseTime.AddDate(-1, 0, 0)
	recentStart := recentEnd.AddDate(-1, 0, 0)

	f.seedCost(t, ancientStart, &ancientEnd) // past retention
	f.seedCost(t, recentStart, &recentEnd)   // closed but within retention
	f.seedCost(t, recentStart, nil)          // open, never archived
	f.seedSales(t, ancientStart, &ancientEnd)

	counts, err := f.sweeper.SweepAll(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if counts[FamilyCostPricing] != 1 {
		t.Fatalf("expected 1 archived cost interval, got %d", counts[FamilyCostPricing])
	}
	if counts[FamilySalesPricing] != 1 {
		t.Fatalf("expected 1 archived sales interval, got %d", counts[FamilySalesPricing])
	}
	if counts[FamilyDiscount] != 0 {
		t.Fatalf("expected no discounts archived, got %d", counts[FamilyDiscount])
	}

	var activeCost int64
	if err := f.db.Model(&costdomain.Interval{}).Where("is_active = ?", true).Count(&activeCost).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if activeCost != 2 {
		t.Fatalf("expected open and recent windows untouched, got %d active", activeCost)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	f := setupSweeper(t)
	ctx := context.Background()

	end := baseTime.AddDate(-6, 0, 0)
	start := end.AddDate(-1, 0, 0)
	f.seedCost(t, start, &end)

	first, err := f.sweeper.SweepAll(ctx)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first[FamilyCostPricing] != 1 {
		t.Fatalf("expected 1 archived, got %d", first[FamilyCostPricing])
	}

	second, err := f.sweeper.SweepAll(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second[FamilyCostPricing] != 0 {
		t.Fatalf("expected idempotent sweep, got %d", second[FamilyCostPricing])
	}
}

func TestArchiveFamilyRejectsUnknown(t *testing.T) {
	f := setupSweeper(t)

	_, err := f.sweeper.ArchiveFamily(context.Background(), Family("bogus"))
	if !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("expected ErrUnknownFamily, got %v", err)
	}
}
