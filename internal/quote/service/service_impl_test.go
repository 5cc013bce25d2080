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
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	discountrepository "github.com/resellhq/tldpricing/internal/discount/repository"
	discountservice "github.com/resellhq/tldpricing/internal/discount/service"
	quotedomain "github.com/resellhq/tldpricing/internal/quote/domain"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	salesrepository "github.com/resellhq/tldpricing/internal/salespricing/repository"
	salesservice "github.com/resellhq/tldpricing/internal/salespricing/service"
	"github.com/resellhq/tldpricing/internal/schedule"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type selectorStub struct {
	selection *registrardomain.Selection
	err       error
}

func (s *selectorStub) SelectOptimalRegistrar(ctx context.Context, tldID string, customerID *string) (*registrardomain.Selection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

type quoteFixture struct {
	svc      quotedomain.Service
	sales    salesdomain.Service
	discount discountdomain.Service
	holder   *config.PricingConfigHolder
	fc       *clock.FakeClock
	node     *snowflake.Node
}

func setupQuote(t *testing.T, sel registrardomain.Selector) *quoteFixture {
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

	if err := db.AutoMigrate(&salesdomain.Interval{}, &discountdomain.Discount{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fc := clock.NewFakeClock(baseTime)
	holder := config.NewPricingConfigHolderFrom(config.DefaultPricingConfig())
	guard := schedule.New(schedule.Params{Clock: fc, Config: holder})

	sales := salesservice.New(salesservice.Params{
		DB: db, Log: zap.NewNop(), GenID: node, Clock: fc, Guard: guard,
		Repo: salesrepository.Provide(),
	})
	discount := discountservice.New(discountservice.Params{
		DB: db, Log: zap.NewNop(), GenID: node, Clock: fc, Guard: guard,
		Repo: discountrepository.Provide(),
	})

	if sel == nil {
		sel = &selectorStub{err: registrardomain.ErrNoActiveRegistrar}
	}
	svc := New(Params{
		Log:      zap.NewNop(),
		Clock:    fc,
		Config:   holder,
		Sales:    sales,
		Discount: discount,
		Selector: sel,
	})
	return &quoteFixture{svc: svc, sales: sales, discount: discount, holder: holder, fc: fc, node: node}
}

func (f *quoteFixture) seedSales(t *testing.T, tldID snowflake.ID, registration string, promotional bool) {
	t.Helper()
	req := salesdomain.CreateRequest{
		TldID:             tldID.String(),
		Currency:          "USD",
		RegistrationPrice: decimal.RequireFromString(registration),
		RenewalPrice:      decimal.RequireFromString("14.00"),
		TransferPrice:     decimal.RequireFromString("11.00"),
		PrivacyPrice:      decimal.RequireFromString("4.00"),
	}
	if promotional {
		name := "promo"
		req.IsPromotional = true
		req.PromotionName = &name
	}
	if _, err := f.sales.Create(context.Background(), req); err != nil {
		t.Fatalf("seed sales: %v", err)
	}
}

func (f *quoteFixture) seedPercentageDiscount(t *testing.T, resellerID, tldID snowflake.ID, pct string) {
	t.Helper()
	p := decimal.RequireFromString(pct)
	_, err := f.discount.Create(context.Background(), discountdomain.CreateRequest{
		ResellerCompanyID:   resellerID.String(),
		TldID:               tldID.String(),
		Kind:                discountdomain.KindPercentage,
		Percentage:          &p,
		ApplyToRegistration: true,
		ApplyToRenewal:      true,
	})
	if err != nil {
		t.Fatalf("seed discount: %v", err)
	}
}

func TestCalculatePriceWithPercentageDiscount(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()
	resellerID := f.node.Generate()

	f.seedSales(t, tldID, "40.00", false)
	f.seedPercentageDiscount(t, resellerID, tldID, "15")

	reseller := resellerID.String()
	result, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:             tldID.String(),
		Operation:         "REGISTRATION",
		Years:             2,
		IsFirstYear:       true,
		ResellerCompanyID: &reseller,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if !result.BasePrice.Equal(decimal.RequireFromString("80.00")) {
		t.Fatalf("expected base 80.00, got %s", result.BasePrice)
	}
	if !result.DiscountAmount.Equal(decimal.RequireFromString("12.00")) {
		t.Fatalf("expected discount 12.00, got %s", result.DiscountAmount)
	}
	if !result.FinalPrice.Equal(decimal.RequireFromString("68.00")) {
		t.Fatalf("expected final 68.00, got %s", result.FinalPrice)
	}
	if !result.IsDiscountApplied || result.Currency != "USD" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCalculatePriceFirstYearOverride(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()

	override := decimal.RequireFromString("1.99")
	_, err := f.sales.Create(context.Background(), salesdomain.CreateRequest{
		TldID:                      tldID.String(),
		Currency:                   "USD",
		RegistrationPrice:          decimal.RequireFromString("12.00"),
		RenewalPrice:               decimal.RequireFromString("14.00"),
		TransferPrice:              decimal.RequireFromString("11.00"),
		PrivacyPrice:               decimal.RequireFromString("4.00"),
		FirstYearRegistrationPrice: &override,
	})
	if err != nil {
		t.Fatalf("seed sales: %v", err)
	}

	result, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:       tldID.String(),
		Operation:   "REGISTRATION",
		Years:       1,
		IsFirstYear: true,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !result.FinalPrice.Equal(override) {
		t.Fatalf("expected first-year override, got %s", result.FinalPrice)
	}

	// Renewals never use the override.
	result, err = f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:       tldID.String(),
		Operation:   "RENEWAL",
		Years:       1,
		IsFirstYear: true,
	})
	if err != nil {
		t.Fatalf("calculate renewal: %v", err)
	}
	if !result.FinalPrice.Equal(decimal.RequireFromString("14.00")) {
		t.Fatalf("expected renewal price, got %s", result.FinalPrice)
	}
}

func TestCalculatePriceStackingPolicy(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()
	resellerID := f.node.Generate()

	f.seedSales(t, tldID, "40.00", true)
	f.seedPercentageDiscount(t, resellerID, tldID, "15")

	reseller := resellerID.String()
	req := quotedomain.PriceRequest{
		TldID:             tldID.String(),
		Operation:         "REGISTRATION",
		Years:             1,
		ResellerCompanyID: &reseller,
	}

	// Default config disallows stacking with promotions.
	result, err := f.svc.CalculatePrice(context.Background(), req)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.IsDiscountApplied || !result.DiscountAmount.IsZero() {
		t.Fatalf("expected discount withheld on promotion, got %+v", result)
	}

	cfg := config.DefaultPricingConfig()
	cfg.AllowDiscountOnPromotion = true
	f.holder.Store(cfg)

	result, err = f.svc.CalculatePrice(context.Background(), req)
	if err != nil {
		t.Fatalf("calculate with stacking: %v", err)
	}
	if !result.IsDiscountApplied {
		t.Fatalf("expected discount applied when stacking allowed")
	}
}

func TestCalculatePriceClampsToZero(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()
	resellerID := f.node.Generate()

	f.seedSales(t, tldID, "5.00", false)

	amount := decimal.RequireFromString("50.00")
	currency := "USD"
	_, err := f.discount.Create(context.Background(), discountdomain.CreateRequest{
		ResellerCompanyID:   resellerID.String(),
		TldID:               tldID.String(),
		Kind:                discountdomain.KindFixedAmount,
		Amount:              &amount,
		AmountCurrency:      &currency,
		ApplyToRegistration: true,
	})
	if err != nil {
		t.Fatalf("seed discount: %v", err)
	}

	reseller := resellerID.String()
	result, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:             tldID.String(),
		Operation:         "REGISTRATION",
		Years:             1,
		ResellerCompanyID: &reseller,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !result.FinalPrice.IsZero() {
		t.Fatalf("expected price clamped to zero, got %s", result.FinalPrice)
	}
	if result.FinalPrice.IsNegative() {
		t.Fatalf("price must never be negative")
	}
}

func TestCalculatePriceSkipsCrossCurrencyFixedDiscount(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()
	resellerID := f.node.Generate()

	f.seedSales(t, tldID, "40.00", false)

	amount := decimal.RequireFromString("5.00")
	currency := "EUR"
	_, err := f.discount.Create(context.Background(), discountdomain.CreateRequest{
		ResellerCompanyID:   resellerID.String(),
		TldID:               tldID.String(),
		Kind:                discountdomain.KindFixedAmount,
		Amount:              &amount,
		AmountCurrency:      &currency,
		ApplyToRegistration: true,
	})
	if err != nil {
		t.Fatalf("seed discount: %v", err)
	}

	reseller := resellerID.String()
	result, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:             tldID.String(),
		Operation:         "REGISTRATION",
		Years:             1,
		ResellerCompanyID: &reseller,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.IsDiscountApplied {
		t.Fatalf("expected cross-currency discount skipped")
	}
	if !result.FinalPrice.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected undiscounted price, got %s", result.FinalPrice)
	}
}

func TestCalculatePricePricingNotConfigured(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()

	_, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:     tldID.String(),
		Operation: "REGISTRATION",
		Years:     1,
	})
	if !errors.Is(err, quotedomain.ErrPricingNotConfigured) {
		t.Fatalf("expected ErrPricingNotConfigured, got %v", err)
	}
}

func TestCalculatePriceRegistrarIsAdvisory(t *testing.T) {
	regID := snowflake.ID(77)
	sel := &selectorStub{selection: &registrardomain.Selection{
		RegistrarID:   regID,
		RegistrarName: "alpha",
	}}
	f := setupQuote(t, sel)
	tldID := f.node.Generate()
	f.seedSales(t, tldID, "40.00", false)

	result, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:     tldID.String(),
		Operation: "REGISTRATION",
		Years:     1,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Registrar == nil || result.Registrar.RegistrarID != regID {
		t.Fatalf("expected registrar recommendation")
	}
}

func TestCalculatePriceRejectsPrivacyAndBadYears(t *testing.T) {
	f := setupQuote(t, nil)
	tldID := f.node.Generate()
	f.seedSales(t, tldID, "40.00", false)

	_, err := f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:     tldID.String(),
		Operation: "PRIVACY",
		Years:     1,
	})
	if !errors.Is(err, quotedomain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for privacy, got %v", err)
	}

	_, err = f.svc.CalculatePrice(context.Background(), quotedomain.PriceRequest{
		TldID:     tldID.String(),
		Operation: "REGISTRATION",
		Years:     0,
	})
	if !errors.Is(err, quotedomain.ErrInvalidYears) {
		t.Fatalf("expected ErrInvalidYears, got %v", err)
	}
}
