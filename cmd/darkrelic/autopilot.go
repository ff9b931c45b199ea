package main

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/system"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

var stairsAt = world.Point{X: 16, Y: 7}

// autopilot plays the player: fight the nearest monster, drink vials,
// visit the altar, then take the stairs. It answers its own input
// requests one step after asking, like a player clicking a tile.
type autopilot struct {
	sim    *system.Sim
	log    *zap.Logger
	last   *system.Action
	target world.Point

	offered   bool // the current target was already offered once
	cancelled bool // the last request was cancelled; walk instead
}

func newAutopilot(sim *system.Sim, log *zap.Logger) *autopilot {
	return &autopilot{sim: sim, log: log}
}

func (p *autopilot) NextAction(s *system.Sim, player ecs.EntityID) *system.Action {
	a := p.choose(s, player)
	p.last = a
	return a
}

func (p *autopilot) choose(s *system.Sim, player ecs.EntityID) *system.Action {
	// A failed action costs nothing; waiting keeps it from being retried
	// forever within one step.
	if p.last != nil && p.last.Performed() && !p.last.Success {
		return system.NewAction(player, system.Wait{})
	}
	pos, ok := s.Position(player)
	if !ok {
		return nil
	}
	level := s.Level()
	if len(level.ItemsAt(pos)) > 0 {
		return system.NewAction(player, system.Pickup{})
	}
	if t := level.Tile(pos); t.Feature == world.FeatureAltar && !t.AltarUsed {
		if pool, ok := s.Pools.Get(player); ok && pool.Blood >= t.AltarCost {
			return system.NewAction(player, system.Altar{})
		}
	}

	foe, foePos, found := p.nearestFoe(s, pos)
	if !found {
		if pos == stairsAt {
			return system.NewAction(player, system.Stairs{})
		}
		return p.walk(s, player, pos, stairsAt)
	}
	if pos.Chebyshev(foePos) == 1 {
		return system.NewAction(player, system.Attack{Target: foe})
	}
	if p.cancelled {
		p.cancelled = false
	} else if a := p.bolt(s, player, pos, foePos); a != nil {
		return a
	}
	return p.walk(s, player, pos, foePos)
}

func (p *autopilot) nearestFoe(s *system.Sim, from world.Point) (ecs.EntityID, world.Point, bool) {
	best, bestPos, bestDist := ecs.NoEntity, world.Point{}, -1
	for _, id := range s.Level().Entities() {
		if !s.Brains.Has(id) || !s.Alive(id) {
			continue
		}
		at, _ := s.Position(id)
		if d := from.Chebyshev(at); bestDist < 0 || d < bestDist {
			best, bestPos, bestDist = id, at, d
		}
	}
	return best, bestPos, bestDist >= 0
}

// bolt casts Blood Bolt when it is ready and paid for entirely in blood.
func (p *autopilot) bolt(s *system.Sim, player ecs.EntityID, from, at world.Point) *system.Action {
	set, ok := s.Effects.Get(player)
	if !ok {
		return nil
	}
	e := set.Find("blood_bolt")
	pool, hasPool := s.Pools.Get(player)
	if e == nil || e.Cooldown > 0 || !hasPool || pool.Blood < e.Cost || from.Chebyshev(at) > e.Range {
		return nil
	}
	a, err := s.NewAbilityAction(player, "blood_bolt")
	if err != nil {
		return nil
	}
	p.target = at
	p.offered = false
	return a
}

// walk steps toward to, opening a closed door in the way.
func (p *autopilot) walk(s *system.Sim, player ecs.EntityID, from, to world.Point) *system.Action {
	dir := to.Sub(from).Sign()
	next := from.Add(dir)
	level := s.Level()
	if level.InBounds(next) && level.Tile(next).Feature == world.FeatureDoorClosed {
		return system.NewAction(player, system.Door{At: next})
	}
	if s.CanStep(player, next) {
		return system.NewAction(player, system.Move{Dir: dir})
	}
	for _, d := range world.Directions {
		if d.Chebyshev(dir) == 1 && s.CanStep(player, from.Add(d)) {
			return system.NewAction(player, system.Move{Dir: d})
		}
	}
	return system.NewAction(player, system.Wait{})
}

func (p *autopilot) Prompt(req *system.InputRequest) {
	p.log.Debug("input requested", zap.String("prompt", req.Prompt))
}

// Candidate offers the chosen target once. If it was refused (the foe
// moved away), the request is cancelled on the next poll.
func (p *autopilot) Candidate(*system.InputRequest) (system.Input, bool) {
	if p.offered {
		p.cancelled = true
		return system.Input{Cancel: true}, true
	}
	p.offered = true
	return system.Input{Pos: p.target}, true
}
