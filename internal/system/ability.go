package system

import (
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

// Cast carries what an activation acts on: the chosen grid position for
// targeted abilities, or the bus notice for reactive ones.
type Cast struct {
	Target   world.Point
	Targeted bool
	Notice   *Notice
}

// Affordable reports whether pool plus health covers the cost. Paying the
// exact sum is allowed even though it kills the owner.
func (s *Sim) Affordable(e *Effect) bool {
	if e.Cost <= 0 {
		return true
	}
	h, ok := s.Healths.Get(e.Owner)
	if !ok {
		return false
	}
	blood := 0
	if p, ok := s.Pools.Get(e.Owner); ok {
		blood = p.Blood
	}
	return blood+h.Current >= e.Cost
}

// CanActivate checks the cooldown, resource and applicability gates
// without changing any state.
func (s *Sim) CanActivate(e *Effect, c Cast) error {
	if !e.attached || !s.Alive(e.Owner) {
		return ErrInvalidEntity
	}
	if e.Cooldown > 0 {
		return ErrOnCooldown
	}
	if !s.Affordable(e) {
		return ErrInsufficientResources
	}
	if !s.applicable(e, c) {
		return ErrNotApplicable
	}
	return nil
}

// Activate pays for and runs an effect body. A cost paid partly in health
// may kill the owner, in which case the body does not run.
func (s *Sim) Activate(e *Effect, c Cast) error {
	if err := s.CanActivate(e, c); err != nil {
		return fmt.Errorf("activate %s: %w", e.ID, err)
	}
	s.pay(e)
	// A zero-length cooldown still holds the effect until the owner's turn
	// ends, so a reactive effect fires at most once per round.
	e.Cooldown = e.CooldownLength + 1
	e.Related = e.Related[:0]
	if !s.Alive(e.Owner) {
		return nil
	}
	s.run(e, c)
	s.log.Debug("ability activated",
		zap.String("owner", s.Name(e.Owner)), zap.String("ability", e.ID),
		zap.Int("count", e.Count), zap.Int("related", len(e.Related)))
	return nil
}

// pay spends the pool first and takes any shortfall from health through
// the regular damage path.
func (s *Sim) pay(e *Effect) {
	if e.Cost <= 0 {
		return
	}
	rest := e.Cost
	if p, ok := s.Pools.Get(e.Owner); ok {
		spent := min(p.Blood, rest)
		p.Blood -= spent
		rest -= spent
	}
	if rest > 0 {
		s.applyDamage(e.Owner, e.Owner, rest)
	}
}

// tickCooldowns advances every ability of id by one turn.
func (s *Sim) tickCooldowns(id ecs.EntityID) {
	set, ok := s.Effects.Get(id)
	if !ok {
		return
	}
	for _, e := range set.Abilities {
		if e.Cooldown > 0 {
			e.Cooldown--
		}
	}
}

// react is the bus handler of every reactive effect.
func (s *Sim) react(e *Effect, n *Notice) {
	if !e.attached {
		return
	}
	err := s.Activate(e, Cast{Notice: n})
	if err != nil {
		s.log.Debug("reaction skipped",
			zap.String("owner", s.Name(e.Owner)), zap.String("ability", e.ID),
			zap.Stringer("event", n.Kind), zap.Error(err))
	}
}
