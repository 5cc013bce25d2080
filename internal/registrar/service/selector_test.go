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
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	costrepository "github.com/resellhq/tldpricing/internal/costpricing/repository"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	"github.com/resellhq/tldpricing/internal/registrar/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type selectorFixture struct {
	svc      *Service
	costRepo costdomain.Repository
	db       *gorm.DB
	fc       *clock.FakeClock
	node     *snowflake.Node
}

func setupSelector(t *testing.T) *selectorFixture {
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
		&registrardomain.Registrar{},
		&registrardomain.RegistrarTld{},
		&registrardomain.SelectionPreference{},
		&costdomain.Interval{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fc := clock.NewFakeClock(baseTime)
	costRepo := costrepository.Provide()

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fc,
		Repo:     repository.Provide(),
		CostRepo: costRepo,
	}).(*Service)

	return &selectorFixture{svc: svc, costRepo: costRepo, db: db, fc: fc, node: node}
}

func (f *selectorFixture) addRegistrar(t *testing.T, name string, active bool) snowflake.ID {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), registrardomain.CreateRequest{
		Name:   name,
		Code:   name,
		Active: &active,
	})
	if err != nil {
		t.Fatalf("create registrar %s: %v", name, err)
	}
	return resp.ID
}

func (f *selectorFixture) addRelation(t *testing.T, registrarID, tldID snowflake.ID) snowflake.ID {
	t.Helper()
	rel, err := f.svc.AddTld(context.Background(), registrardomain.AddTldRequest{
		RegistrarID: registrarID.String(),
		TldID:       tldID.String(),
	})
	if err != nil {
		t.Fatalf("add relation: %v", err)
	}
	return rel.ID
}

func (f *selectorFixture) addCost(t *testing.T, relationID snowflake.ID, registration string) {
	t.Helper()
	now := f.fc.Now()
	err := f.costRepo.Insert(context.Background(), f.db, &costdomain.Interval{
		ID:               f.node.Generate(),
		RegistrarTldID:   relationID,
		Currency:         "USD",
		RegistrationCost: decimal.RequireFromString(registration),
		RenewalCost:      decimal.RequireFromString(registration),
		TransferCost:     decimal.RequireFromString(registration),
		PrivacyCost:      decimal.Zero,
		EffectiveFrom:    now.Add(-time.Hour),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		t.Fatalf("seed cost: %v", err)
	}
}

func TestSelectCheapestRegistrar(t *testing.T) {
	f := setupSelector(t)
	tldID := f.node.Generate()

	regA := f.addRegistrar(t, "alpha", true)
	regB := f.addRegistrar(t, "bravo", true)
	regC := f.addRegistrar(t, "charlie", true)

	f.addCost(t, f.addRelation(t, regA, tldID), "10.00")
	relB := f.addRelation(t, regB, tldID)
	f.addCost(t, relB, "5.00")
	f.addCost(t, f.addRelation(t, regC, tldID), "8.00")

	sel, err := f.svc.SelectOptimalRegistrar(context.Background(), tldID.String(), nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.RegistrarID != regB {
		t.Fatalf("expected cheapest registrar, got %s", sel.RegistrarName)
	}
	if sel.RegistrarTldID != relB {
		t.Fatalf("expected relation of cheapest registrar")
	}
	if sel.LowConfidence {
		t.Fatalf("expected cost-based selection")
	}
	if sel.RegistrationCost == nil || !sel.RegistrationCost.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("expected cost 5.00, got %v", sel.RegistrationCost)
	}
}

func TestSelectSkipsInactiveRegistrars(t *testing.T) {
	f := setupSelector(t)
	tldID := f.node.Generate()

	cheapButInactive := f.addRegistrar(t, "inactive", false)
	activeReg := f.addRegistrar(t, "active", true)

	f.addCost(t, f.addRelation(t, cheapButInactive, tldID), "1.00")
	f.addCost(t, f.addRelation(t, activeReg, tldID), "9.00")

	sel, err := f.svc.SelectOptimalRegistrar(context.Background(), tldID.String(), nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.RegistrarID != activeReg {
		t.Fatalf("expected inactive registrar to be excluded")
	}
}

func TestSelectFallbackWithoutCosts(t *testing.T) {
	f := setupSelector(t)
	tldID := f.node.Generate()

	first := f.addRegistrar(t, "first", true)
	f.addRelation(t, first, tldID)
	second := f.addRegistrar(t, "second", true)
	f.addRelation(t, second, tldID)

	sel, err := f.svc.SelectOptimalRegistrar(context.Background(), tldID.String(), nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !sel.LowConfidence {
		t.Fatalf("expected low-confidence fallback")
	}
	if sel.RegistrarID != first {
		t.Fatalf("expected first enumerated relation, got %s", sel.RegistrarName)
	}
	if sel.RegistrationCost != nil {
		t.Fatalf("fallback carries no cost")
	}
}

func TestSelectNoActiveRegistrar(t *testing.T) {
	f := setupSelector(t)
	tldID := f.node.Generate()

	_, err := f.svc.SelectOptimalRegistrar(context.Background(), tldID.String(), nil)
	if !errors.Is(err, registrardomain.ErrNoActiveRegistrar) {
		t.Fatalf("expected ErrNoActiveRegistrar, got %v", err)
	}
}

func TestSelectPriorityBreaksCostTies(t *testing.T) {
	f := setupSelector(t)
	tldID := f.node.Generate()
	ctx := context.Background()

	regA := f.addRegistrar(t, "tie-a", true)
	regB := f.addRegistrar(t, "tie-b", true)
	f.addCost(t, f.addRelation(t, regA, tldID), "7.50")
	f.addCost(t, f.addRelation(t, regB, tldID), "7.50")

	if _, err := f.svc.SetPreference(ctx, registrardomain.PreferenceRequest{
		RegistrarID: regB.String(),
		Priority:    1,
	}); err != nil {
		t.Fatalf("set preference: %v", err)
	}

	sel, err := f.svc.SelectOptimalRegistrar(ctx, tldID.String(), nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.RegistrarID != regB {
		t.Fatalf("expected preferred registrar to win the tie")
	}
}
