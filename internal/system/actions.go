package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

// Move steps one tile in Dir.
type Move struct{ Dir world.Point }

func (Move) Name() string { return "move" }

func (m Move) Perform(s *Sim, a *Action) bool {
	from, ok := s.Position(a.Owner)
	if !ok {
		return false
	}
	return s.Relocate(a.Owner, from.Add(m.Dir))
}

// Attack opens a one-target transaction. It succeeds even when no damage
// lands.
type Attack struct{ Target ecs.EntityID }

func (Attack) Name() string { return "attack" }

func (t Attack) Perform(s *Sim, a *Action) bool {
	if _, err := s.Attack(a.Owner, t.Target); err != nil {
		s.log.Debug("attack not resolved", zap.Error(err))
	}
	return true
}

// UseAbility activates a player-triggered ability. Targeted abilities
// carry one input request for the target tile.
type UseAbility struct{ Ability string }

func (u UseAbility) Name() string { return "ability:" + u.Ability }

func (u UseAbility) Perform(s *Sim, a *Action) bool {
	e := s.ability(a.Owner, u.Ability)
	if e == nil || !e.PlayerTriggered {
		return false
	}
	c := Cast{}
	if e.Has(CapTargeted) {
		if len(a.Requests) == 0 {
			return false
		}
		c.Target, c.Targeted = a.Value(0), true
	}
	if err := s.Activate(e, c); err != nil {
		s.log.Debug("ability use failed", zap.String("ability", u.Ability), zap.Error(err))
		return false
	}
	return true
}

func (s *Sim) ability(owner ecs.EntityID, id string) *Effect {
	set, ok := s.Effects.Get(owner)
	if !ok {
		return nil
	}
	return set.Find(id)
}

// NewAbilityAction builds a UseAbility action, adding a target request
// when the ability needs one. Fails with ErrNotTriggerable for passives.
func (s *Sim) NewAbilityAction(owner ecs.EntityID, abilityID string) (*Action, error) {
	e := s.ability(owner, abilityID)
	if e == nil {
		return nil, ErrUnknownAbility
	}
	if !e.PlayerTriggered {
		return nil, ErrNotTriggerable
	}
	a := NewAction(owner, UseAbility{Ability: abilityID})
	if e.Has(CapTargeted) {
		a.Request("Choose a target for "+e.Name, func(p world.Point) bool {
			return s.applicable(e, Cast{Target: p, Targeted: true})
		})
	}
	return a, nil
}

// Pickup takes the first item on the owner's tile.
type Pickup struct{}

func (Pickup) Name() string { return "pickup" }

func (Pickup) Perform(s *Sim, a *Action) bool {
	pos, ok := s.Position(a.Owner)
	if !ok {
		return false
	}
	items := s.level.ItemsAt(pos)
	if len(items) == 0 {
		return false
	}
	inv, ok := s.Inventories.Get(a.Owner)
	if !ok {
		s.log.Error("pickup: owner has no inventory", zap.String("owner", s.Name(a.Owner)))
		return false
	}
	item := items[0]
	it, isItem := s.Items.Get(item)
	if !isItem {
		return false
	}

	if it.Kind == "blood_vial" {
		pool, ok := s.Pools.Get(a.Owner)
		if !ok {
			s.log.Error("pickup: owner has no blood pool", zap.String("owner", s.Name(a.Owner)))
			return false
		}
		pool.Blood += it.Amount
		s.level.Remove(item)
		s.world.MarkForDestruction(item)
	} else {
		if len(inv.Items) >= inv.Capacity {
			return false
		}
		s.level.Remove(item)
		inv.Items = append(inv.Items, item)
	}
	s.emit(Hint{Kind: HintPickup, Entity: a.Owner, Other: item, From: pos, To: pos})
	s.note("%s picks up %s", s.Name(a.Owner), s.Name(item))
	s.fire(a.Owner, &Notice{Kind: event.Pickup, Other: item})
	return true
}

// Wait passes the turn.
type Wait struct{}

func (Wait) Name() string { return "wait" }

func (Wait) Perform(_ *Sim, a *Action) bool {
	a.Loggable = false
	return true
}

// Stairs descends when standing on a staircase.
type Stairs struct{}

func (Stairs) Name() string { return "stairs" }

func (Stairs) Perform(s *Sim, a *Action) bool {
	pos, ok := s.Position(a.Owner)
	if !ok || s.level.Tile(pos).Feature != world.FeatureStairs || s.dungeon == nil {
		return false
	}
	if err := s.dungeon.Descend(a.Owner); err != nil {
		s.log.Warn("descend failed", zap.Error(err))
		return false
	}
	s.note("%s descends the stairs", s.Name(a.Owner))
	return true
}

// Door opens or closes an adjacent door. A door with anything in its
// doorway will not close.
type Door struct{ At world.Point }

func (Door) Name() string { return "door" }

func (d Door) Perform(s *Sim, a *Action) bool {
	pos, ok := s.Position(a.Owner)
	if !ok || pos.Chebyshev(d.At) != 1 || !s.level.InBounds(d.At) {
		return false
	}
	t := s.level.Tile(d.At)
	switch t.Feature {
	case world.FeatureDoorClosed:
		t.Feature = world.FeatureDoorOpen
		s.note("%s opens a door", s.Name(a.Owner))
	case world.FeatureDoorOpen:
		if _, occupied := s.level.Occupant(d.At); occupied || len(t.Items) > 0 {
			return false
		}
		t.Feature = world.FeatureDoorClosed
		s.note("%s closes a door", s.Name(a.Owner))
	default:
		return false
	}
	s.emit(Hint{Kind: HintDoor, Entity: a.Owner, From: pos, To: d.At})
	return true
}

// Altar trades blood for the altar's ability, once per altar.
type Altar struct{}

func (Altar) Name() string { return "altar" }

func (Altar) Perform(s *Sim, a *Action) bool {
	pos, ok := s.Position(a.Owner)
	if !ok {
		return false
	}
	t := s.level.Tile(pos)
	if t.Feature != world.FeatureAltar || t.AltarUsed || t.AltarAbility == "" {
		return false
	}
	pool, ok := s.Pools.Get(a.Owner)
	if !ok {
		s.log.Error("altar: owner has no blood pool", zap.String("owner", s.Name(a.Owner)))
		return false
	}
	if pool.Blood < t.AltarCost {
		return false
	}
	if _, err := s.Acquire(a.Owner, t.AltarAbility); err != nil {
		s.log.Error("altar: ability not granted", zap.String("ability", t.AltarAbility), zap.Error(err))
		return false
	}
	pool.Blood -= t.AltarCost
	t.AltarUsed = true
	s.note("%s offers %d blood and gains %s", s.Name(a.Owner), t.AltarCost, t.AltarAbility)
	return true
}
