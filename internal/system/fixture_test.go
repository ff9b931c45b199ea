package system

import (
	"testing"
	"time"

	"github.com/ejohnd98/DarkRelic-sub001/internal/config"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/data"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap/zaptest"
)

type fakePresenter struct {
	batches [][]Hint
	playing bool
}

func (p *fakePresenter) Enqueue(_ ecs.EntityID, hints []Hint) {
	p.batches = append(p.batches, append([]Hint(nil), hints...))
}
func (p *fakePresenter) Playing() bool { return p.playing }

type fakeJournal struct{ lines []string }

func (j *fakeJournal) Record(line string) { j.lines = append(j.lines, line) }

type fakeKnowledge struct{ calls []ecs.EntityID }

func (k *fakeKnowledge) Recompute(id ecs.EntityID) { k.calls = append(k.calls, id) }

type fakeDungeon struct{ descended int }

func (d *fakeDungeon) Descend(ecs.EntityID) error { d.descended++; return nil }

// fakeInput hands out queued actions and candidates, one per call.
type fakeInput struct {
	actions    []func(s *Sim, player ecs.EntityID) *Action
	candidates []Input
	prompts    []string
}

func (in *fakeInput) NextAction(s *Sim, player ecs.EntityID) *Action {
	if len(in.actions) == 0 {
		return nil
	}
	next := in.actions[0]
	in.actions = in.actions[1:]
	return next(s, player)
}

func (in *fakeInput) Prompt(req *InputRequest) { in.prompts = append(in.prompts, req.Prompt) }

func (in *fakeInput) Candidate(*InputRequest) (Input, bool) {
	if len(in.candidates) == 0 {
		return Input{}, false
	}
	c := in.candidates[0]
	in.candidates = in.candidates[1:]
	return c, true
}

type fixture struct {
	sim       *Sim
	level     *world.Level
	presenter *fakePresenter
	journal   *fakeJournal
	knowledge *fakeKnowledge
	dungeon   *fakeDungeon
}

var testAbilities = []*data.AbilityTemplate{
	{ID: "blood_bolt", Name: "Blood Bolt", Kind: "blood_bolt", Cost: 5, Cooldown: 2, PlayerTriggered: true, Range: 4,
		Magnitude: data.Formula{Base: 1.5, PerStack: 0.5}},
	{ID: "blink", Name: "Blink", Kind: "blink", Cost: 2, PlayerTriggered: true, Range: 3},
	{ID: "haste", Name: "Haste", Kind: "haste", Cost: 1, Cooldown: 3, PlayerTriggered: true,
		Magnitude: data.Formula{Base: 5}},
	{ID: "shockwave", Name: "Shockwave", Kind: "shockwave", Cost: 0, PlayerTriggered: true,
		Magnitude: data.Formula{Base: 2}},
	{ID: "chain_strike", Name: "Chain Strike", Kind: "chain_strike",
		Triggers: []event.Kind{event.TransactionCreated}, Magnitude: data.Formula{Base: 1, PerStack: 1}},
	{ID: "thorns", Name: "Thorns", Kind: "thorns",
		Triggers: []event.Kind{event.Attacked}, Magnitude: data.Formula{Base: 2}},
	{ID: "blood_siphon", Name: "Blood Siphon", Kind: "blood_siphon",
		Triggers: []event.Kind{event.Move}},
	{ID: "rend", Name: "Rend", Kind: "rend", Status: "bleed",
		Triggers: []event.Kind{event.AttackOther}},
	{ID: "feast", Name: "Feast", Kind: "feast",
		Triggers: []event.Kind{event.Kill}, Magnitude: data.Formula{Base: 4}},
	{ID: "frenzy", Name: "Frenzy", Kind: "frenzy", Magnitude: data.Formula{Base: 3, PerStack: 2}},
	{ID: "brute", Name: "Brute", Kind: "brute", Magnitude: data.Formula{Base: 2}},
	{ID: "swiftness", Name: "Swiftness", Kind: "swiftness", Magnitude: data.Formula{Base: 0.5}},
}

var testStatuses = []*data.StatusTemplate{
	{ID: "bleed", Name: "Bleed", Kind: "bleed", Interval: 100 * time.Millisecond, Duration: 3,
		Magnitude: data.Formula{Base: 2}},
	{ID: "regeneration", Name: "Regeneration", Kind: "regeneration", Interval: 100 * time.Millisecond,
		Magnitude: data.Formula{Base: 1}},
	{ID: "root", Name: "Root", Kind: "root", Interval: 100 * time.Millisecond, Duration: 2},
}

func newFixture(t *testing.T, rows ...string) *fixture {
	t.Helper()
	if len(rows) == 0 {
		rows = []string{
			"#######",
			"#.....#",
			"#.....#",
			"#.....#",
			"#######",
		}
	}
	level, err := world.ParseLevel(rows)
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}
	f := &fixture{
		level:     level,
		presenter: &fakePresenter{},
		journal:   &fakeJournal{},
		knowledge: &fakeKnowledge{},
		dungeon:   &fakeDungeon{},
	}
	f.sim = New(Deps{
		Config:    config.Defaults(),
		Log:       zaptest.NewLogger(t),
		Level:     level,
		Abilities: data.NewAbilityTable(testAbilities...),
		Statuses:  data.NewStatusTable(testStatuses...),
		Presenter: f.presenter,
		Journal:   f.journal,
		Knowledge: f.knowledge,
		Dungeon:   f.dungeon,
	})
	return f
}

// actor spawns a hand-built template at x,y.
func (f *fixture) actor(t *testing.T, name string, x, y, health, strength int, abilities ...string) ecs.EntityID {
	t.Helper()
	id, err := f.sim.SpawnActor(&data.MonsterTemplate{
		ID:         name,
		Name:       name,
		MaxHealth:  health,
		Strength:   strength,
		TurnLength: 10,
		Exp:        7,
		Abilities:  abilities,
	}, world.Point{X: x, Y: y})
	if err != nil {
		t.Fatalf("spawn %s: %v", name, err)
	}
	return id
}

func (f *fixture) player(t *testing.T, x, y, health, strength int, abilities ...string) ecs.EntityID {
	t.Helper()
	id, err := f.sim.SpawnPlayer(&data.MonsterTemplate{
		ID:         "player",
		Name:       "you",
		MaxHealth:  health,
		Strength:   strength,
		TurnLength: 10,
		Inventory:  2,
		Abilities:  abilities,
	}, world.Point{X: x, Y: y})
	if err != nil {
		t.Fatalf("spawn player: %v", err)
	}
	return id
}

func (f *fixture) health(id ecs.EntityID) int { return f.sim.Healths.Must(id).Current }
func (f *fixture) debt(id ecs.EntityID) int   { return f.sim.Turns.Must(id).Debt }

func (f *fixture) effect(t *testing.T, owner ecs.EntityID, id string) *Effect {
	t.Helper()
	e := f.sim.ability(owner, id)
	if e == nil {
		t.Fatalf("%s missing on %s", id, f.sim.Name(owner))
	}
	return e
}
