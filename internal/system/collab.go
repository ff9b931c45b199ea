package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

// Map is the tile/map query surface. *world.Level implements it.
type Map interface {
	InBounds(p world.Point) bool
	Tile(p world.Point) *world.Tile
	BlocksMovement(p world.Point) bool
	CanEnter(p world.Point) bool
	Occupant(p world.Point) (ecs.EntityID, bool)
	Place(id ecs.EntityID, p world.Point, blocking bool) error
	Move(id ecs.EntityID, to world.Point) error
	Remove(id ecs.EntityID) bool
	Position(id ecs.EntityID) (world.Point, bool)
	Contains(id ecs.EntityID) bool
	Entities() []ecs.EntityID
	ItemsAt(p world.Point) []ecs.EntityID
	InRadius(center world.Point, r int) []ecs.EntityID
	Blood(p world.Point) int
	AddBlood(p world.Point, amount int)
	TakeBlood(p world.Point) int
}

var _ Map = (*world.Level)(nil)

// Presenter receives animation descriptors of completed actions and tells
// the turn loop whether playback is still running.
type Presenter interface {
	Enqueue(owner ecs.EntityID, hints []Hint)
	Playing() bool
}

// Journal receives human-readable turn and attack summaries.
type Journal interface {
	Record(line string)
}

// Knowledge recomputes what the viewer knows (field of view) after its turn.
type Knowledge interface {
	Recompute(viewer ecs.EntityID)
}

// Dungeon performs level transitions.
type Dungeon interface {
	Descend(player ecs.EntityID) error
}

// Input is one polled answer to an outstanding input request.
type Input struct {
	Pos    world.Point
	Cancel bool
}

// InputSource is the player's keyboard/pointer, polled once per step.
type InputSource interface {
	// NextAction returns the player's chosen action, or nil when no command
	// arrived this step.
	NextAction(s *Sim, player ecs.EntityID) *Action
	// Prompt shows a request's prompt. Called once per request.
	Prompt(req *InputRequest)
	// Candidate returns the current candidate for req, if any.
	Candidate(req *InputRequest) (Input, bool)
}

// Formulas evaluates scripted stack formulas and the level curve.
// *scripting.Engine implements it.
type Formulas interface {
	Formula(name string, count int) (float64, bool)
	ExpForLevel(level int) (int, bool)
}

// ActionListener observes every successfully performed action.
type ActionListener func(a *Action)

type nopPresenter struct{}

func (nopPresenter) Enqueue(ecs.EntityID, []Hint) {}
func (nopPresenter) Playing() bool                { return false }

type nopJournal struct{}

func (nopJournal) Record(string) {}

type nopKnowledge struct{}

func (nopKnowledge) Recompute(ecs.EntityID) {}
