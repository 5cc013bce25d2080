package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	"github.com/resellhq/tldpricing/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     registrardomain.Repository
	CostRepo costdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     registrardomain.Repository
	costRepo costdomain.Repository
}

func New(p Params) registrardomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("registrar.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		costRepo: p.CostRepo,
	}
}

// AsSelector exposes the already-built service through the selection-only
// interface.
func AsSelector(s registrardomain.Service) registrardomain.Selector {
	return s.(*Service)
}

func (s *Service) Create(ctx context.Context, req registrardomain.CreateRequest) (*registrardomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, registrardomain.ErrInvalidName
	}
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, registrardomain.ErrInvalidCode
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now()
	entity := &registrardomain.Registrar{
		ID:        s.genID.Generate(),
		Name:      name,
		Code:      code,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, registrardomain.ErrDuplicate
		}
		return nil, err
	}

	s.log.Info("registrar created", zap.String("code", code))
	return toResponse(entity), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]registrardomain.Response, error) {
	items, err := s.repo.List(ctx, s.db, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]registrardomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*registrardomain.Response, error) {
	registrarID, err := parseID(id)
	if err != nil {
		return nil, registrardomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, registrarID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, registrardomain.ErrNotFound
	}
	return toResponse(entity), nil
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*registrardomain.Response, error) {
	registrarID, err := parseID(id)
	if err != nil {
		return nil, registrardomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, registrarID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, registrardomain.ErrNotFound
	}
	if err := s.repo.SetActive(ctx, s.db, registrarID, active); err != nil {
		return nil, err
	}
	entity.Active = active
	return toResponse(entity), nil
}

func (s *Service) AddTld(ctx context.Context, req registrardomain.AddTldRequest) (*registrardomain.RelationResponse, error) {
	registrarID, err := parseID(req.RegistrarID)
	if err != nil {
		return nil, registrardomain.ErrInvalidID
	}
	tldID, err := parseID(req.TldID)
	if err != nil {
		return nil, registrardomain.ErrInvalidTld
	}

	reg, err := s.repo.FindByID(ctx, s.db, registrarID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, registrardomain.ErrNotFound
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now()
	rel := &registrardomain.RegistrarTld{
		ID:          s.genID.Generate(),
		RegistrarID: registrarID,
		TldID:       tldID,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertRelation(ctx, s.db, rel); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, registrardomain.ErrDuplicateRelation
		}
		return nil, err
	}

	return &registrardomain.RelationResponse{
		ID:          rel.ID,
		RegistrarID: rel.RegistrarID,
		TldID:       rel.TldID,
		Active:      rel.Active,
	}, nil
}

func (s *Service) SetRelationActive(ctx context.Context, relationID string, active bool) error {
	relID, err := parseID(relationID)
	if err != nil {
		return registrardomain.ErrInvalidID
	}
	rel, err := s.repo.FindRelationByID(ctx, s.db, relID)
	if err != nil {
		return err
	}
	if rel == nil {
		return registrardomain.ErrRelationNotFound
	}
	return s.repo.SetRelationActive(ctx, s.db, relID, active)
}

func (s *Service) SetPreference(ctx context.Context, req registrardomain.PreferenceRequest) (*registrardomain.PreferenceResponse, error) {
	registrarID, err := parseID(req.RegistrarID)
	if err != nil {
		return nil, registrardomain.ErrInvalidID
	}
	reg, err := s.repo.FindByID(ctx, s.db, registrarID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, registrardomain.ErrNotFound
	}

	threshold := decimal.Zero
	if req.MaxCostDifferenceThreshold != nil {
		threshold = *req.MaxCostDifferenceThreshold
	}

	now := s.clock.Now()
	pref := &registrardomain.SelectionPreference{
		ID:                         s.genID.Generate(),
		RegistrarID:                registrarID,
		Priority:                   req.Priority,
		OffersHosting:              req.OffersHosting,
		OffersEmail:                req.OffersEmail,
		OffersSsl:                  req.OffersSsl,
		MaxCostDifferenceThreshold: threshold,
		PreferForHostingCustomers:  req.PreferForHostingCustomers,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	if err := s.repo.UpsertPreference(ctx, s.db, pref); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindPreference(ctx, s.db, registrarID)
	if err != nil {
		return nil, err
	}
	return toPreferenceResponse(stored), nil
}

func (s *Service) GetPreference(ctx context.Context, registrarID string) (*registrardomain.PreferenceResponse, error) {
	id, err := parseID(registrarID)
	if err != nil {
		return nil, registrardomain.ErrInvalidID
	}
	pref, err := s.repo.FindPreference(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, registrardomain.ErrNotFound
	}
	return toPreferenceResponse(pref), nil
}

func toResponse(r *registrardomain.Registrar) *registrardomain.Response {
	return &registrardomain.Response{
		ID:     r.ID,
		Name:   r.Name,
		Code:   r.Code,
		Active: r.Active,
	}
}

func toPreferenceResponse(p *registrardomain.SelectionPreference) *registrardomain.PreferenceResponse {
	return &registrardomain.PreferenceResponse{
		ID:                         p.ID,
		RegistrarID:                p.RegistrarID,
		Priority:                   p.Priority,
		OffersHosting:              p.OffersHosting,
		OffersEmail:                p.OffersEmail,
		OffersSsl:                  p.OffersSsl,
		MaxCostDifferenceThreshold: p.MaxCostDifferenceThreshold,
		PreferForHostingCustomers:  p.PreferForHostingCustomers,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
