package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

// decide picks a monster's action: attack the player when adjacent,
// otherwise step toward it, otherwise wait.
func (s *Sim) decide(id ecs.EntityID) *Action {
	target := s.player
	pos, ok := s.Position(id)
	if !ok || !s.Alive(target) {
		return NewAction(id, Wait{})
	}
	tpos, ok := s.Position(target)
	if !ok {
		return NewAction(id, Wait{})
	}
	if pos.Chebyshev(tpos) == 1 {
		return NewAction(id, Attack{Target: target})
	}
	if dir, ok := s.stepToward(id, pos, tpos); ok {
		return NewAction(id, Move{Dir: dir})
	}
	return NewAction(id, Wait{})
}

// stepToward tries the direct step first, then the two side-steps.
func (s *Sim) stepToward(id ecs.EntityID, from, to world.Point) (world.Point, bool) {
	d := to.Sub(from).Sign()
	candidates := make([]world.Point, 0, 3)
	candidates = append(candidates, d)
	switch {
	case d.X != 0 && d.Y != 0:
		candidates = append(candidates, world.Point{X: d.X}, world.Point{Y: d.Y})
	case d.X != 0:
		candidates = append(candidates, world.Point{X: d.X, Y: 1}, world.Point{X: d.X, Y: -1})
	case d.Y != 0:
		candidates = append(candidates, world.Point{X: 1, Y: d.Y}, world.Point{X: -1, Y: d.Y})
	}
	for _, c := range candidates {
		if c == (world.Point{}) {
			continue
		}
		if s.CanStep(id, from.Add(c)) {
			return c, true
		}
	}
	return world.Point{}, false
}
