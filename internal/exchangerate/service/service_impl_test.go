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
	ratedomain "github.com/resellhq/tldpricing/internal/exchangerate/domain"
	"github.com/resellhq/tldpricing/internal/exchangerate/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func setupRateService(t *testing.T, fc *clock.FakeClock, cfg config.PricingConfig) (*Service, ratedomain.Converter) {
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

	if err := db.AutoMigrate(&ratedomain.ExchangeRate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fc,
		Config: config.NewPricingConfigHolderFrom(cfg),
		Repo:   repository.Provide(),
	}).(*Service)
	return svc, AsConverter(svc)
}

func publishRate(t *testing.T, svc *Service, base, quote, rate string) {
	t.Helper()
	_, err := svc.Create(context.Background(), ratedomain.CreateRequest{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          decimal.RequireFromString(rate),
	})
	if err != nil {
		t.Fatalf("publish %s/%s: %v", base, quote, err)
	}
}

func TestConvertIdentityNeedsNoRate(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	cfg := config.DefaultPricingConfig()
	cfg.ConversionMarkupPct = 2.5
	_, conv := setupRateService(t, fc, cfg)

	amount := decimal.RequireFromString("42.00")
	got, err := conv.Convert(context.Background(), amount, "USD", "usd", fc.Now())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	// Identity conversion carries no markup either.
	if !got.Equal(amount) {
		t.Fatalf("expected identity, got %s", got)
	}
}

func TestConvertAppliesRateAndMarkup(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	cfg := config.DefaultPricingConfig()
	cfg.ConversionMarkupPct = 2.5
	svc, conv := setupRateService(t, fc, cfg)

	publishRate(t, svc, "USD", "EUR", "0.90")

	got, err := conv.Convert(context.Background(), decimal.RequireFromString("100.00"), "USD", "EUR", fc.Now())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	// 100 * 0.90 * 1.025 = 92.25
	if !got.Equal(decimal.RequireFromString("92.25")) {
		t.Fatalf("expected 92.25, got %s", got)
	}
}

func TestConvertNoInverseFallback(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc, conv := setupRateService(t, fc, config.DefaultPricingConfig())

	publishRate(t, svc, "USD", "EUR", "0.90")

	_, err := conv.Convert(context.Background(), decimal.RequireFromString("10.00"), "EUR", "USD", fc.Now())
	if !errors.Is(err, ratedomain.ErrConversionUnavailable) {
		t.Fatalf("expected ErrConversionUnavailable, got %v", err)
	}
}

func TestConvertHonorsEffectiveWindow(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc, conv := setupRateService(t, fc, config.DefaultPricingConfig())

	expiry := baseTime.Add(24 * time.Hour)
	_, err := svc.Create(context.Background(), ratedomain.CreateRequest{
		BaseCurrency:  "USD",
		QuoteCurrency: "EUR",
		Rate:          decimal.RequireFromString("0.90"),
		ExpiryDate:    &expiry,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if _, err := conv.Convert(context.Background(), decimal.RequireFromString("10.00"), "USD", "EUR", fc.Now()); err != nil {
		t.Fatalf("convert inside window: %v", err)
	}

	after := expiry.Add(time.Hour)
	_, err = conv.Convert(context.Background(), decimal.RequireFromString("10.00"), "USD", "EUR", after)
	if !errors.Is(err, ratedomain.ErrConversionUnavailable) {
		t.Fatalf("expected expired rate to be unavailable, got %v", err)
	}
}

func TestNewestRateWins(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	cfg := config.DefaultPricingConfig()
	cfg.ConversionMarkupPct = 0
	svc, conv := setupRateService(t, fc, cfg)

	publishRate(t, svc, "USD", "EUR", "0.90")
	fc.Advance(time.Hour)
	publishRate(t, svc, "USD", "EUR", "0.95")

	got, err := conv.Convert(context.Background(), decimal.RequireFromString("100.00"), "USD", "EUR", fc.Now())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("95.00")) {
		t.Fatalf("expected latest rate, got %s", got)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	fc := clock.NewFakeClock(baseTime)
	svc, _ := setupRateService(t, fc, config.DefaultPricingConfig())
	ctx := context.Background()

	_, err := svc.Create(ctx, ratedomain.CreateRequest{
		BaseCurrency:  "USD",
		QuoteCurrency: "USD",
		Rate:          decimal.RequireFromString("1"),
	})
	if !errors.Is(err, ratedomain.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency for same pair, got %v", err)
	}

	_, err = svc.Create(ctx, ratedomain.CreateRequest{
		BaseCurrency:  "USD",
		QuoteCurrency: "EUR",
		Rate:          decimal.RequireFromString("0"),
	})
	if !errors.Is(err, ratedomain.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}
