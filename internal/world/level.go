package world

import (
	"errors"
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrBlocked     = errors.New("position blocks movement")
	ErrOccupied    = errors.New("position occupied")
	ErrNotPlaced   = errors.New("entity not on level")
	ErrPlaced      = errors.New("entity already on level")
)

type placement struct {
	pos      Point
	blocking bool
}

// Level is a rectangular grid with an ordered entity list. Entities() returns
// entities in placement order, which is the scheduler's enumeration order.
// Accessed only from the simulation goroutine, no locks.
type Level struct {
	width, height int
	tiles         []Tile
	order         []ecs.EntityID
	placed        map[ecs.EntityID]placement
}

func NewLevel(width, height int) *Level {
	return &Level{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
		placed: make(map[ecs.EntityID]placement, 64),
	}
}

// ParseLevel builds a level from rows of glyphs:
//
//	#  wall       .  floor      +  closed door
//	'  open door  >  stairs     _  altar
func ParseLevel(rows []string) (*Level, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse level: no rows")
	}
	width := len(rows[0])
	l := NewLevel(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parse level: row %d has width %d, want %d", y, len(row), width)
		}
		for x, ch := range row {
			t := l.Tile(Point{X: x, Y: y})
			switch ch {
			case '#':
				t.Wall = true
			case '.':
			case '+':
				t.Feature = FeatureDoorClosed
			case '\'':
				t.Feature = FeatureDoorOpen
			case '>':
				t.Feature = FeatureStairs
			case '_':
				t.Feature = FeatureAltar
			default:
				return nil, fmt.Errorf("parse level: unknown glyph %q at %d,%d", ch, x, y)
			}
		}
	}
	return l, nil
}

func (l *Level) Width() int  { return l.width }
func (l *Level) Height() int { return l.height }

func (l *Level) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.width && p.Y < l.height
}

// Tile returns the tile at p, or nil when p is out of bounds.
func (l *Level) Tile(p Point) *Tile {
	if !l.InBounds(p) {
		return nil
	}
	return &l.tiles[p.Y*l.width+p.X]
}

// BlocksMovement reports terrain blocking: bounds, walls and closed doors.
func (l *Level) BlocksMovement(p Point) bool {
	t := l.Tile(p)
	return t == nil || t.Wall || t.Feature == FeatureDoorClosed
}

// Occupant returns the blocking actor on p.
func (l *Level) Occupant(p Point) (ecs.EntityID, bool) {
	t := l.Tile(p)
	if t == nil || t.Occupant.IsZero() {
		return ecs.NoEntity, false
	}
	return t.Occupant, true
}

// CanEnter reports whether an actor may step onto p.
func (l *Level) CanEnter(p Point) bool {
	if l.BlocksMovement(p) {
		return false
	}
	_, occupied := l.Occupant(p)
	return !occupied
}

// Place puts an entity on the level. Blocking entities occupy the tile.
func (l *Level) Place(id ecs.EntityID, p Point, blocking bool) error {
	if _, ok := l.placed[id]; ok {
		return ErrPlaced
	}
	t := l.Tile(p)
	if t == nil {
		return ErrOutOfBounds
	}
	if blocking {
		if l.BlocksMovement(p) {
			return ErrBlocked
		}
		if !t.Occupant.IsZero() {
			return ErrOccupied
		}
		t.Occupant = id
	} else {
		t.Items = append(t.Items, id)
	}
	l.placed[id] = placement{pos: p, blocking: blocking}
	l.order = append(l.order, id)
	return nil
}

// Move relocates a blocking entity. The destination must be enterable.
func (l *Level) Move(id ecs.EntityID, to Point) error {
	pl, ok := l.placed[id]
	if !ok {
		return ErrNotPlaced
	}
	if !pl.blocking {
		return fmt.Errorf("move %d: not a blocking entity", id)
	}
	if pl.pos == to {
		return nil
	}
	if !l.InBounds(to) {
		return ErrOutOfBounds
	}
	if l.BlocksMovement(to) {
		return ErrBlocked
	}
	if !l.CanEnter(to) {
		return ErrOccupied
	}
	l.Tile(pl.pos).Occupant = ecs.NoEntity
	l.Tile(to).Occupant = id
	pl.pos = to
	l.placed[id] = pl
	return nil
}

// Remove takes an entity off the level. Returns false if it was not placed.
func (l *Level) Remove(id ecs.EntityID) bool {
	pl, ok := l.placed[id]
	if !ok {
		return false
	}
	t := l.Tile(pl.pos)
	if pl.blocking {
		t.Occupant = ecs.NoEntity
	} else {
		for i, item := range t.Items {
			if item == id {
				t.Items = append(t.Items[:i], t.Items[i+1:]...)
				break
			}
		}
	}
	delete(l.placed, id)
	for i, e := range l.order {
		if e == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Position returns where an entity is placed.
func (l *Level) Position(id ecs.EntityID) (Point, bool) {
	pl, ok := l.placed[id]
	return pl.pos, ok
}

// Contains reports whether the entity is on the level.
func (l *Level) Contains(id ecs.EntityID) bool {
	_, ok := l.placed[id]
	return ok
}

// Entities returns a copy of the entity list in placement order.
func (l *Level) Entities() []ecs.EntityID {
	return append([]ecs.EntityID(nil), l.order...)
}

// ItemsAt returns a copy of the non-blocking entities on p.
func (l *Level) ItemsAt(p Point) []ecs.EntityID {
	t := l.Tile(p)
	if t == nil {
		return nil
	}
	return append([]ecs.EntityID(nil), t.Items...)
}

// InRadius returns blocking entities within Chebyshev radius r of center,
// in placement order.
func (l *Level) InRadius(center Point, r int) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range l.order {
		pl := l.placed[id]
		if pl.blocking && pl.pos.Chebyshev(center) <= r {
			out = append(out, id)
		}
	}
	return out
}

func (l *Level) Blood(p Point) int {
	if t := l.Tile(p); t != nil {
		return t.Blood
	}
	return 0
}

func (l *Level) AddBlood(p Point, amount int) {
	if t := l.Tile(p); t != nil && amount > 0 {
		t.Blood += amount
	}
}

// TakeBlood empties the tile's blood and returns how much there was.
func (l *Level) TakeBlood(p Point) int {
	t := l.Tile(p)
	if t == nil {
		return 0
	}
	n := t.Blood
	t.Blood = 0
	return n
}
