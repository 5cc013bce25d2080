package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	tlddomain "github.com/resellhq/tldpricing/internal/tld/domain"
	"github.com/resellhq/tldpricing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  tlddomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  tlddomain.Repository
}

func New(p Params) tlddomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tld.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req tlddomain.CreateRequest) (*tlddomain.Response, error) {
	name := normalizeName(req.Name)
	if name == "" {
		return nil, tlddomain.ErrInvalidName
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	entity := &tlddomain.Tld{
		ID:     s.genID.Generate(),
		Name:   name,
		Active: active,
	}
	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, tlddomain.ErrDuplicate
		}
		return nil, err
	}

	s.log.Info("tld created", zap.String("name", name))
	return toResponse(entity), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]tlddomain.Response, error) {
	items, err := s.repo.List(ctx, s.db, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]tlddomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*tlddomain.Response, error) {
	tldID, err := parseID(id)
	if err != nil {
		return nil, tlddomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, tldID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, tlddomain.ErrNotFound
	}
	return toResponse(entity), nil
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*tlddomain.Response, error) {
	tldID, err := parseID(id)
	if err != nil {
		return nil, tlddomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, tldID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, tlddomain.ErrNotFound
	}
	if err := s.repo.SetActive(ctx, s.db, tldID, active); err != nil {
		return nil, err
	}
	entity.Active = active
	return toResponse(entity), nil
}

// normalizeName lowercases and guarantees the leading dot (".io").
func normalizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" || name == "." {
		return ""
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	return name
}

func toResponse(t *tlddomain.Tld) *tlddomain.Response {
	return &tlddomain.Response{
		ID:     t.ID,
		Name:   t.Name,
		Active: t.Active,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
