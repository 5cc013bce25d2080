package service

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
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	"github.com/resellhq/tldpricing/internal/salespricing/repository"
	"github.com/resellhq/tldpricing/internal/schedule"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func setupSalesService(t *testing.T, fc *clock.FakeClock) salesdomain.Service {
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

	if err := db.AutoMigrate(&salesdomain.Interval{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_sales_pricing_open
		ON sales_pricing_intervals (tld_id)
		WHERE effective_to IS NULL AND is_active`).Error; err != nil {
		t.Fatalf("create index: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	holder := config.NewPricingConfigHolderFrom(config.DefaultPricingConfig())
	guard := schedule.New(schedule.Params{Clock: fc, Config: holder})

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fc,
		Guard: guard,
		Repo:  repository.Provide(),
	})
}

func makeSalesRequest(key snowflake.ID, from *time.Time) salesdomain.CreateRequest {
	return salesdomain.CreateRequest{
		TldID:             key.String(),
		Currency:          "USD",
		RegistrationPrice: decimal.RequireFromString("12.00"),
		RenewalPrice:      decimal.RequireFromString("14.00"),
		TransferPrice:     decimal.RequireFromString("11.00"),
		PrivacyPrice:      decimal.RequireFromString("4.00"),
		EffectiveFrom:     from,
	}
}

func TestCreatePromotionRequiresName(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc := setupSalesService(t, fc)
	key := snowflake.ID(1001)

	req := makeSalesRequest(key, nil)
	req.IsPromotional = true
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, salesdomain.ErrInvalidPromotion) {
		t.Fatalf("expected ErrInvalidPromotion, got %v", err)
	}

	name := "spring-sale"
	req.PromotionName = &name
	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create promotional: %v", err)
	}
	if !created.IsPromotional || created.PromotionName == nil || *created.PromotionName != "spring-sale" {
		t.Fatalf("expected promotion to round-trip, got %+v", created)
	}
}

func TestCreateDropsNameWhenNotPromotional(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc := setupSalesService(t, fc)
	key := snowflake.ID(1002)

	name := "leftover"
	req := makeSalesRequest(key, nil)
	req.PromotionName = &name
	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PromotionName != nil {
		t.Fatalf("expected promotion name dropped, got %q", *created.PromotionName)
	}
}

func TestScheduledPriceChangeTakesOver(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc := setupSalesService(t, fc)
	key := snowflake.ID(1003)
	ctx := context.Background()

	first, err := svc.Create(ctx, makeSalesRequest(key, nil))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	from := baseTime.Add(24 * time.Hour)
	req := makeSalesRequest(key, &from)
	req.RegistrationPrice = decimal.RequireFromString("15.00")
	second, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	current, err := svc.GetCurrent(ctx, key.String(), nil)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current.ID != first.ID {
		t.Fatalf("expected first interval still in force")
	}

	fc.Advance(25 * time.Hour)
	current, err = svc.GetCurrent(ctx, key.String(), nil)
	if err != nil {
		t.Fatalf("get current after advance: %v", err)
	}
	if current.ID != second.ID {
		t.Fatalf("expected scheduled interval in force after its start")
	}
	if !current.RegistrationPrice.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("expected new price, got %s", current.RegistrationPrice)
	}
}

func TestUpdateTogglePromotionOff(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc := setupSalesService(t, fc)
	key := snowflake.ID(1004)
	ctx := context.Background()

	from := baseTime.Add(24 * time.Hour)
	name := "flash"
	req := makeSalesRequest(key, &from)
	req.IsPromotional = true
	req.PromotionName = &name
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	off := false
	updated, err := svc.Update(ctx, created.ID.String(), salesdomain.UpdateRequest{IsPromotional: &off})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsPromotional || updated.PromotionName != nil {
		t.Fatalf("expected promotion cleared, got %+v", updated)
	}
}

func TestSalesScheduleHorizonEnforced(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc := setupSalesService(t, fc)
	key := snowflake.ID(1005)

	farOut := baseTime.AddDate(2, 0, 0)
	_, err := svc.Create(context.Background(), makeSalesRequest(key, &farOut))
	if !errors.Is(err, schedule.ErrScheduleTooFarAhead) {
		t.Fatalf("expected ErrScheduleTooFarAhead, got %v", err)
	}
}
