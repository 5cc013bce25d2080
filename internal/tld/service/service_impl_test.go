package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	tlddomain "github.com/resellhq/tldpricing/internal/tld/domain"
	"github.com/resellhq/tldpricing/internal/tld/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTldService(t *testing.T) tlddomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := gdb.AutoMigrate(&tlddomain.Tld{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateNormalizesName(t *testing.T) {
	svc := setupTldService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, tlddomain.CreateRequest{Name: " IO "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Name != ".io" {
		t.Fatalf("expected normalized name .io, got %q", resp.Name)
	}
	if !resp.Active {
		t.Fatalf("expected active by default")
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := setupTldService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, tlddomain.CreateRequest{Name: ".dev"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, tlddomain.CreateRequest{Name: "dev"})
	if !errors.Is(err, tlddomain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := setupTldService(t)

	_, err := svc.Create(context.Background(), tlddomain.CreateRequest{Name: " . "})
	if !errors.Is(err, tlddomain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	svc := setupTldService(t)

	_, err := svc.Get(context.Background(), "999999999")
	if !errors.Is(err, tlddomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListActiveOnlyFiltersDeactivated(t *testing.T) {
	svc := setupTldService(t)
	ctx := context.Background()

	kept, err := svc.Create(ctx, tlddomain.CreateRequest{Name: ".io"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	dropped, err := svc.Create(ctx, tlddomain.CreateRequest{Name: ".net"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetActive(ctx, dropped.ID.String(), false); err != nil {
		t.Fatalf("set active: %v", err)
	}

	active, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Fatalf("expected only %s active, got %+v", kept.Name, active)
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
}
