package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

// CanStep reports whether id may enter to: the tile must be open and
// unoccupied, and no status may hold the entity in place.
func (s *Sim) CanStep(id ecs.EntityID, to world.Point) bool {
	if !s.level.CanEnter(to) {
		return false
	}
	return !s.Immobilized(id)
}

// Relocate moves id to to and fires its Move hook. Used by walking,
// blinking and being pushed alike.
func (s *Sim) Relocate(id ecs.EntityID, to world.Point) bool {
	from, ok := s.Position(id)
	if !ok || !s.CanStep(id, to) {
		return false
	}
	if err := s.level.Move(id, to); err != nil {
		return false
	}
	s.emit(Hint{Kind: HintMove, Entity: id, From: from, To: to})
	s.fire(id, &Notice{Kind: event.Move, From: from, To: to})
	return true
}

// Push slides id away from origin up to distance tiles, stopping at the
// first tile it cannot enter. Returns the number of tiles travelled.
func (s *Sim) Push(id ecs.EntityID, origin world.Point, distance int) int {
	pos, ok := s.Position(id)
	if !ok {
		return 0
	}
	dir := pos.Sub(origin).Sign()
	if dir == (world.Point{}) {
		return 0
	}
	moved := 0
	for moved < distance && s.Alive(id) {
		pos, _ = s.Position(id)
		if !s.Relocate(id, pos.Add(dir)) {
			break
		}
		moved++
	}
	return moved
}
