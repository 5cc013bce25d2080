package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	"go.uber.org/fx"
)

// ErrPolicyViolation is the root of every schedule policy failure. Callers
// match it with errors.Is; the concrete sentinels below say which rule broke.
var (
	ErrPolicyViolation     = errors.New("policy_violation")
	ErrScheduleInPast      = fmt.Errorf("%w: schedule_in_past", ErrPolicyViolation)
	ErrScheduleTooFarAhead = fmt.Errorf("%w: schedule_too_far_ahead", ErrPolicyViolation)
	ErrRecordLocked        = fmt.Errorf("%w: record_locked", ErrPolicyViolation)
)

// Guard enforces that pricing records only ever change before their effective
// window begins.
type Guard struct {
	clock clock.Clock
	cfg   *config.PricingConfigHolder
}

type Params struct {
	fx.In

	Clock  clock.Clock
	Config *config.PricingConfigHolder
}

func New(p Params) *Guard {
	return &Guard{clock: p.Clock, cfg: p.Config}
}

// ValidateScheduleDate accepts effective dates from now onward, bounded by the
// configured scheduling horizon. Comparison happens at minute precision since
// interval boundaries are normalized the same way on write.
func (g *Guard) ValidateScheduleDate(effectiveFrom time.Time) error {
	now := g.clock.Now().UTC().Truncate(time.Minute)
	if effectiveFrom.Before(now) {
		return ErrScheduleInPast
	}
	horizon := g.cfg.Get().MaxScheduleHorizonDays
	if horizon > 0 && effectiveFrom.After(now.AddDate(0, 0, horizon)) {
		return ErrScheduleTooFarAhead
	}
	return nil
}

// CanEdit reports whether a record with the given effective start may still be
// modified. Records are immutable once their window has begun.
func (g *Guard) CanEdit(effectiveFrom time.Time) bool {
	return effectiveFrom.After(g.clock.Now())
}

// CanDelete mirrors CanEdit: only future records may be removed.
func (g *Guard) CanDelete(effectiveFrom time.Time) bool {
	return effectiveFrom.After(g.clock.Now())
}

var Module = fx.Module("schedule.guard",
	fx.Provide(New),
)
