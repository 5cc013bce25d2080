package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	"go.uber.org/zap"
)

// SelectOptimalRegistrar picks the cheapest active registrar offering the TLD
// by current registration cost. When no relation has a resolvable current
// cost the first enumerated relation is returned with LowConfidence set.
// customerID is accepted for segment-aware selection but not yet consulted.
func (s *Service) SelectOptimalRegistrar(ctx context.Context, tldID string, customerID *string) (*registrardomain.Selection, error) {
	tld, err := parseID(tldID)
	if err != nil {
		return nil, registrardomain.ErrInvalidTld
	}

	relations, err := s.repo.ListActiveRelationsByTld(ctx, s.db, tld)
	if err != nil {
		return nil, err
	}
	if len(relations) == 0 {
		return nil, registrardomain.ErrNoActiveRegistrar
	}

	now := s.clock.Now()
	var best *registrardomain.Selection
	bestPriority := 0
	for i := range relations {
		rel := &relations[i]
		cost, err := s.costRepo.FindCurrentAt(ctx, s.db, rel.ID, now)
		if err != nil {
			return nil, err
		}
		if cost == nil {
			continue
		}

		priority, err := s.relationPriority(ctx, rel.RegistrarID)
		if err != nil {
			return nil, err
		}

		registration := cost.RegistrationCost
		if best != nil {
			if registration.GreaterThan(*best.RegistrationCost) {
				continue
			}
			// Equal costs fall through to the priority ordinal.
			if registration.Equal(*best.RegistrationCost) && priority >= bestPriority {
				continue
			}
		}
		best = &registrardomain.Selection{
			RegistrarID:      rel.RegistrarID,
			RegistrarTldID:   rel.ID,
			RegistrationCost: &registration,
			CostCurrency:     cost.Currency,
		}
		bestPriority = priority
	}

	if best == nil {
		// No relation has a configured cost yet. Still route somewhere, but
		// tell the caller the choice was not cost-based.
		fallback := &relations[0]
		best = &registrardomain.Selection{
			RegistrarID:    fallback.RegistrarID,
			RegistrarTldID: fallback.ID,
			LowConfidence:  true,
		}
		s.log.Warn("registrar selection fell back to first active relation",
			zap.Int64("tld_id", tld.Int64()),
			zap.Int64("registrar_id", fallback.RegistrarID.Int64()),
		)
	}

	reg, err := s.repo.FindByID(ctx, s.db, best.RegistrarID)
	if err != nil {
		return nil, err
	}
	if reg != nil {
		best.RegistrarName = reg.Name
	}
	return best, nil
}

const defaultSelectionPriority = 100

func (s *Service) relationPriority(ctx context.Context, registrarID snowflake.ID) (int, error) {
	pref, err := s.repo.FindPreference(ctx, s.db, registrarID)
	if err != nil {
		return 0, err
	}
	if pref == nil {
		return defaultSelectionPriority, nil
	}
	return pref.Priority, nil
}
