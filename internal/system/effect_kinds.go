package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

// inRange reports whether p is within the effect's range of its owner.
// Range 0 means unlimited.
func (s *Sim) inRange(e *Effect, p world.Point) bool {
	from, ok := s.Position(e.Owner)
	if !ok || !s.level.InBounds(p) {
		return false
	}
	return e.Range == 0 || from.Chebyshev(p) <= e.Range
}

// targetAt returns a living entity other than the owner standing on p.
func (s *Sim) targetAt(e *Effect, p world.Point) (ecs.EntityID, bool) {
	id, ok := s.level.Occupant(p)
	if !ok || id == e.Owner || !s.Alive(id) {
		return ecs.NoEntity, false
	}
	return id, true
}

// missing logs an absent component an effect depends on.
func (s *Sim) missing(e *Effect, component string) {
	s.log.Error("effect owner lacks component",
		zap.String("owner", s.Name(e.Owner)), zap.String("ability", e.ID),
		zap.String("component", component))
}

// applicable is the per-kind activation filter.
func (s *Sim) applicable(e *Effect, c Cast) bool {
	n := c.Notice
	switch e.Kind {
	case KindBloodBolt:
		if !c.Targeted || !s.inRange(e, c.Target) {
			return false
		}
		_, ok := s.targetAt(e, c.Target)
		return ok
	case KindBlink:
		return c.Targeted && s.inRange(e, c.Target) && s.CanStep(e.Owner, c.Target)
	case KindHaste:
		if !s.Turns.Has(e.Owner) {
			s.missing(e, "TurnState")
			return false
		}
		return true
	case KindShockwave:
		return len(s.adjacentLiving(e.Owner)) > 0
	case KindChainStrike:
		return n != nil && n.Tx != nil && !n.Tx.Periodic && n.Tx.Attacker == e.Owner && len(n.Tx.targets) > 0
	case KindThorns:
		return n != nil && n.Kind == event.Attacked && n.Tx != nil && !n.Tx.Periodic &&
			n.Other != e.Owner && s.Alive(n.Other)
	case KindBloodSiphon:
		if !s.Pools.Has(e.Owner) {
			s.missing(e, "Pool")
			return false
		}
		return n != nil && s.level.Blood(n.To) > 0
	case KindRend:
		return n != nil && e.Status != "" && n.Tx != nil && !n.Tx.Periodic && s.Alive(n.Other)
	case KindFeast:
		h, ok := s.Healths.Get(e.Owner)
		return ok && h.Current < h.Max
	}
	return false
}

// run dispatches the effect body for e's kind.
func (s *Sim) run(e *Effect, c Cast) {
	mag := s.Magnitude(e)
	switch e.Kind {
	case KindBloodBolt:
		target, _ := s.targetAt(e, c.Target)
		tx := NewTransaction(e.Owner, mag)
		tx.Label = "blasts"
		tx.AddTarget(target)
		e.Related = append(e.Related, target)
		s.resolveFromEffect(e, tx)

	case KindBlink:
		if s.Relocate(e.Owner, c.Target) {
			s.note("%s blinks", s.Name(e.Owner))
		}

	case KindHaste:
		t := s.Turns.Must(e.Owner)
		t.Debt -= int(mag)

	case KindShockwave:
		origin, _ := s.Position(e.Owner)
		for _, id := range s.adjacentLiving(e.Owner) {
			if s.Push(id, origin, int(mag)) > 0 {
				e.Related = append(e.Related, id)
			}
		}

	case KindChainStrike:
		tx := c.Notice.Tx
		first, ok := s.Position(tx.targets[0])
		if !ok {
			return
		}
		limit := int(mag)
		for _, id := range s.level.InRadius(first, 1) {
			if len(e.Related) >= limit {
				break
			}
			if id == tx.Attacker || tx.Contains(id) || !s.Alive(id) {
				continue
			}
			tx.AddTarget(id)
			e.Related = append(e.Related, id)
		}

	case KindThorns:
		attacker := c.Notice.Other
		tx := NewTransaction(e.Owner, 0)
		tx.Bonus = mag
		tx.Label = "pricks"
		tx.AddTarget(attacker)
		e.Related = append(e.Related, attacker)
		s.resolveFromEffect(e, tx)

	case KindBloodSiphon:
		got := s.level.TakeBlood(c.Notice.To)
		s.Pools.Must(e.Owner).Blood += got
		if got > 0 && s.Players.Has(e.Owner) {
			s.note("%s absorbs %d blood", s.Name(e.Owner), got)
		}

	case KindRend:
		target := c.Notice.Other
		if _, err := s.ApplyStatus(target, e.Status, e.Owner); err != nil {
			s.log.Error("rend: status not applied", zap.String("status", e.Status), zap.Error(err))
			return
		}
		e.Related = append(e.Related, target)

	case KindFeast:
		if healed := s.heal(e.Owner, int(mag)); healed > 0 {
			s.note("%s feasts for %d", s.Name(e.Owner), healed)
		}
	}
	s.emit(Hint{Kind: HintAbility, Entity: e.Owner, Label: e.ID, Amount: len(e.Related)})
}

func (s *Sim) resolveFromEffect(e *Effect, tx *Transaction) {
	if err := s.Resolve(tx); err != nil {
		s.log.Debug("effect transaction not resolved",
			zap.String("ability", e.ID), zap.Error(err))
	}
}

// adjacentLiving lists living blocking entities next to id in placement order.
func (s *Sim) adjacentLiving(id ecs.EntityID) []ecs.EntityID {
	pos, ok := s.Position(id)
	if !ok {
		return nil
	}
	var out []ecs.EntityID
	for _, other := range s.level.InRadius(pos, 1) {
		if other != id && s.Alive(other) {
			out = append(out, other)
		}
	}
	return out
}

// tick runs one periodic firing of a status.
func (s *Sim) tick(e *Effect) {
	mag := s.Magnitude(e)
	switch e.Kind {
	case KindBleed:
		source := e.Source
		if !s.Valid(source) {
			source = e.Owner
		}
		tx := NewTransaction(source, 0)
		tx.Bonus = mag
		tx.Label = "bleeds"
		tx.Periodic = true
		tx.AddTarget(e.Owner)
		if err := s.Resolve(tx); err != nil {
			s.log.Debug("bleed tick not resolved", zap.Error(err))
		}
	case KindRegeneration:
		s.heal(e.Owner, int(mag))
	case KindRoot:
	}
}
