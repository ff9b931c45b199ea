package system

import (
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/component"
	"github.com/ejohnd98/DarkRelic-sub001/internal/config"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/data"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

// Deps holds the collaborators a Sim is built from. Nil collaborators are
// replaced by no-op implementations; Level, Config and Log are required.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Level     Map
	Abilities *data.AbilityTable
	Statuses  *data.StatusTable
	Monsters  *data.MonsterTable
	Formulas  Formulas
	Presenter Presenter
	Journal   Journal
	Knowledge Knowledge
	Dungeon   Dungeon
}

// Sim is the simulation context: entity stores, the event bus, the active
// level and the external collaborators. It is threaded explicitly through
// scheduler, action and ability code; there is no package-level state.
// Accessed only from the simulation goroutine, no locks.
type Sim struct {
	cfg *config.Config
	log *zap.Logger

	world *ecs.World
	bus   *event.Bus[*Notice]
	level Map

	Identities  *ecs.PtrComponentStore[component.Identity]
	Healths     *ecs.PtrComponentStore[component.Health]
	Attributes  *ecs.PtrComponentStore[component.Attributes]
	Turns       *ecs.PtrComponentStore[component.TurnState]
	Experience  *ecs.PtrComponentStore[component.Experience]
	Pools       *ecs.PtrComponentStore[component.Pool]
	Players     *ecs.PtrComponentStore[component.Player]
	Brains      *ecs.PtrComponentStore[component.Brain]
	Inventories *ecs.PtrComponentStore[component.Inventory]
	Items       *ecs.PtrComponentStore[component.Item]
	Effects     *ecs.PtrComponentStore[EffectSet]

	abilities *data.AbilityTable
	statuses  *data.StatusTable
	monsters  *data.MonsterTable
	formulas  Formulas

	presenter Presenter
	journal   Journal
	knowledge Knowledge
	dungeon   Dungeon
	listeners []ActionListener

	player  ecs.EntityID
	current *Action // action being performed, collects hints and journal lines
	txDepth int
	removed []func(ecs.EntityID)
}

// New builds a Sim and registers every component store with the ECS registry.
func New(deps Deps) *Sim {
	s := &Sim{
		cfg:         deps.Config,
		log:         deps.Log,
		world:       ecs.NewWorld(),
		bus:         event.NewBus[*Notice](),
		level:       deps.Level,
		Identities:  ecs.NewPtrComponentStore[component.Identity](),
		Healths:     ecs.NewPtrComponentStore[component.Health](),
		Attributes:  ecs.NewPtrComponentStore[component.Attributes](),
		Turns:       ecs.NewPtrComponentStore[component.TurnState](),
		Experience:  ecs.NewPtrComponentStore[component.Experience](),
		Pools:       ecs.NewPtrComponentStore[component.Pool](),
		Players:     ecs.NewPtrComponentStore[component.Player](),
		Brains:      ecs.NewPtrComponentStore[component.Brain](),
		Inventories: ecs.NewPtrComponentStore[component.Inventory](),
		Items:       ecs.NewPtrComponentStore[component.Item](),
		Effects:     ecs.NewPtrComponentStore[EffectSet](),
		abilities:   deps.Abilities,
		statuses:    deps.Statuses,
		monsters:    deps.Monsters,
		formulas:    deps.Formulas,
		presenter:   deps.Presenter,
		journal:     deps.Journal,
		knowledge:   deps.Knowledge,
		dungeon:     deps.Dungeon,
	}
	if s.cfg == nil {
		s.cfg = config.Defaults()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.presenter == nil {
		s.presenter = nopPresenter{}
	}
	if s.journal == nil {
		s.journal = nopJournal{}
	}
	if s.knowledge == nil {
		s.knowledge = nopKnowledge{}
	}

	reg := s.world.Registry()
	reg.Register(s.Identities)
	reg.Register(s.Healths)
	reg.Register(s.Attributes)
	reg.Register(s.Turns)
	reg.Register(s.Experience)
	reg.Register(s.Pools)
	reg.Register(s.Players)
	reg.Register(s.Brains)
	reg.Register(s.Inventories)
	reg.Register(s.Items)
	reg.Register(s.Effects)
	return s
}

func (s *Sim) Config() *config.Config       { return s.cfg }
func (s *Sim) Log() *zap.Logger             { return s.log }
func (s *Sim) World() *ecs.World            { return s.world }
func (s *Sim) Bus() *event.Bus[*Notice]     { return s.bus }
func (s *Sim) Level() Map                   { return s.level }
func (s *Sim) Player() ecs.EntityID         { return s.player }
func (s *Sim) Presenter() Presenter         { return s.presenter }
func (s *Sim) AddListener(l ActionListener) { s.listeners = append(s.listeners, l) }

// OnRemove registers a hook run whenever an entity leaves play.
func (s *Sim) OnRemove(fn func(ecs.EntityID)) { s.removed = append(s.removed, fn) }

// Valid reports whether the entity is still in play.
func (s *Sim) Valid(id ecs.EntityID) bool { return s.world.Valid(id) }

// Alive reports whether the entity is in play and has living health.
func (s *Sim) Alive(id ecs.EntityID) bool {
	if !s.world.Valid(id) {
		return false
	}
	h, ok := s.Healths.Get(id)
	return ok && !h.Dead
}

// Name returns the display name used in logs and the journal.
func (s *Sim) Name(id ecs.EntityID) string {
	if ident, ok := s.Identities.Get(id); ok && ident.Name != "" {
		return ident.Name
	}
	return fmt.Sprintf("entity#%d", id.Index())
}

// Position returns the entity's grid position on the active level.
func (s *Sim) Position(id ecs.EntityID) (world.Point, bool) {
	return s.level.Position(id)
}

// SpawnActor creates a schedulable actor from a monster template, places it
// and grants the template's abilities.
func (s *Sim) SpawnActor(tmpl *data.MonsterTemplate, at world.Point) (ecs.EntityID, error) {
	id := s.world.CreateEntity()
	turnLength := tmpl.TurnLength
	if turnLength <= 0 {
		turnLength = s.cfg.Scheduler.DefaultTurnLength
	}
	s.Identities.Set(id, &component.Identity{Name: tmpl.Name, Template: tmpl.ID})
	s.Healths.Set(id, &component.Health{Current: tmpl.MaxHealth, Max: tmpl.MaxHealth})
	s.Attributes.Set(id, &component.Attributes{Strength: tmpl.Strength})
	s.Turns.Set(id, &component.TurnState{TurnLength: turnLength})
	s.Experience.Set(id, &component.Experience{Level: 1, Reward: tmpl.Exp})
	s.Pools.Set(id, &component.Pool{Blood: tmpl.Blood})
	s.Effects.Set(id, &EffectSet{})
	if tmpl.Inventory > 0 {
		s.Inventories.Set(id, &component.Inventory{Capacity: tmpl.Inventory})
	}

	if err := s.level.Place(id, at, true); err != nil {
		s.world.MarkForDestruction(id)
		return ecs.NoEntity, fmt.Errorf("spawn %s at %v: %w", tmpl.ID, at, err)
	}
	for _, abilityID := range tmpl.Abilities {
		if _, err := s.Acquire(id, abilityID); err != nil {
			s.log.Error("spawn: ability not granted",
				zap.String("template", tmpl.ID), zap.String("ability", abilityID), zap.Error(err))
		}
	}
	s.log.Debug("actor spawned",
		zap.Uint64("entity", uint64(id)), zap.String("template", tmpl.ID),
		zap.Int("x", at.X), zap.Int("y", at.Y))
	return id, nil
}

// SpawnMonster spawns a template from the monster table with an AI brain.
func (s *Sim) SpawnMonster(templateID string, at world.Point) (ecs.EntityID, error) {
	if s.monsters == nil {
		return ecs.NoEntity, fmt.Errorf("spawn %s: no monster table", templateID)
	}
	tmpl := s.monsters.Get(templateID)
	if tmpl == nil {
		return ecs.NoEntity, fmt.Errorf("spawn %s: unknown monster", templateID)
	}
	id, err := s.SpawnActor(tmpl, at)
	if err != nil {
		return ecs.NoEntity, err
	}
	s.Brains.Set(id, &component.Brain{})
	return id, nil
}

// SpawnPlayer spawns the player-controlled actor.
func (s *Sim) SpawnPlayer(tmpl *data.MonsterTemplate, at world.Point) (ecs.EntityID, error) {
	id, err := s.SpawnActor(tmpl, at)
	if err != nil {
		return ecs.NoEntity, err
	}
	s.Players.Set(id, &component.Player{})
	s.player = id
	return id, nil
}

// SpawnItem drops a pickable, non-blocking item entity.
func (s *Sim) SpawnItem(name, kind string, amount int, at world.Point) (ecs.EntityID, error) {
	id := s.world.CreateEntity()
	s.Identities.Set(id, &component.Identity{Name: name})
	s.Items.Set(id, &component.Item{Kind: kind, Amount: amount})
	if err := s.level.Place(id, at, false); err != nil {
		s.world.MarkForDestruction(id)
		return ecs.NoEntity, fmt.Errorf("spawn item %s at %v: %w", name, at, err)
	}
	return id, nil
}

// Remove takes an entity out of play: off the level, out of every bus
// subscription and queued for component cleanup, all in one call.
func (s *Sim) Remove(id ecs.EntityID) {
	if !s.world.Valid(id) {
		return
	}
	s.level.Remove(id)
	dropped := s.bus.Drop(id)
	if inv, ok := s.Inventories.Get(id); ok {
		for _, item := range inv.Items {
			s.world.MarkForDestruction(item)
		}
	}
	s.world.MarkForDestruction(id)
	for _, fn := range s.removed {
		fn(id)
	}
	s.log.Debug("entity removed",
		zap.Uint64("entity", uint64(id)), zap.String("name", s.Name(id)),
		zap.Int("subscriptions", dropped))
}

// emit routes a hint to the action being performed, or straight to the
// presenter when nothing is being performed (status ticks).
func (s *Sim) emit(h Hint) {
	if s.current != nil {
		s.current.Hints = append(s.current.Hints, h)
		return
	}
	s.presenter.Enqueue(h.Entity, []Hint{h})
}

// note routes a journal line the same way emit routes hints.
func (s *Sim) note(format string, args ...any) {
	line := sentence(fmt.Sprintf(format, args...))
	if s.current != nil {
		s.current.Lines = append(s.current.Lines, line)
		return
	}
	s.journal.Record(line)
}
