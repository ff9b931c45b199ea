package system

import (
	"errors"
	"testing"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

func TestPerformFiresStartAndEnd(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 1)
	var order []string
	f.sim.Bus().Subscribe(hero, event.ActionStarted, hero, func(*Notice) { order = append(order, "started") })
	f.sim.Bus().Subscribe(hero, event.Move, hero, func(*Notice) { order = append(order, "move") })
	f.sim.Bus().Subscribe(hero, event.ActionEnded, hero, func(*Notice) { order = append(order, "ended") })
	var completed []*Action
	f.sim.AddListener(func(a *Action) { completed = append(completed, a) })

	a := NewAction(hero, Move{Dir: world.Point{X: 1}})
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if !a.Success {
		t.Fatal("move failed")
	}
	if len(order) != 3 || order[0] != "started" || order[1] != "move" || order[2] != "ended" {
		t.Errorf("unexpected order %v", order)
	}
	if len(f.presenter.batches) != 1 || f.presenter.batches[0][0].Kind != HintMove {
		t.Errorf("expected one move hint batch, got %v", f.presenter.batches)
	}
	if len(completed) != 1 || completed[0] != a {
		t.Error("listener not notified")
	}
}

func TestPerformTwiceIsInvariantViolation(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 1)
	a := NewAction(hero, Wait{})
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if err := f.sim.Perform(a); !errors.Is(err, ErrAlreadyPerformed) {
		t.Errorf("expected ErrAlreadyPerformed, got %v", err)
	}
}

func TestPendingInputNeverPerformed(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 1)
	started := 0
	f.sim.Bus().Subscribe(hero, event.ActionStarted, hero, func(*Notice) { started++ })

	a := NewAction(hero, Wait{})
	a.Request("Pick a tile", nil)
	if err := f.sim.Perform(a); !errors.Is(err, ErrInputPending) {
		t.Fatalf("expected ErrInputPending, got %v", err)
	}
	if a.Performed() || started != 0 {
		t.Error("action with pending input was performed")
	}
}

func TestAbortedActionNeverPerformed(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 1)
	a := NewAction(hero, Wait{})
	req := a.Request("Pick a tile", nil)
	req.Offer(world.Point{X: 2, Y: 1})
	a.Request("Pick another", nil).Cancel()

	if err := f.sim.Perform(a); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if a.Performed() {
		t.Error("aborted action performed")
	}
}

func TestInputRequestProtocol(t *testing.T) {
	a := NewAction(1, Wait{})
	floorOnly := func(p world.Point) bool { return p.X > 0 }
	first := a.Request("first", floorOnly)
	second := a.Request("second", nil)

	if a.NextRequest() != first {
		t.Fatal("expected first request")
	}
	if !first.MarkPrompted() || first.MarkPrompted() {
		t.Error("prompt must be recorded exactly once")
	}
	if first.Offer(world.Point{X: 0}) {
		t.Error("invalid candidate accepted")
	}
	if !first.Offer(world.Point{X: 2}) || first.Offer(world.Point{X: 3}) {
		t.Error("a filled request must accept exactly one value")
	}
	if a.NextRequest() != second || a.Ready() {
		t.Fatal("expected second request outstanding")
	}
	second.Offer(world.Point{X: 4})
	if !a.Ready() || a.Value(0) != (world.Point{X: 2}) {
		t.Error("expected ready action holding the first value")
	}
}

func TestFailedMoveDoesNotReport(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 1)
	a := NewAction(hero, Move{Dir: world.Point{X: -1}})
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if a.Success {
		t.Error("move into a wall succeeded")
	}
	if len(f.presenter.batches) != 0 || len(f.journal.lines) != 0 {
		t.Error("failed action reported")
	}
}

func TestAttackActionAlwaysSucceeds(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 0)
	rat := f.actor(t, "rat", 2, 1, 10, 1)

	a := NewAction(hero, Attack{Target: rat})
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if !a.Success || f.health(rat) != 10 {
		t.Errorf("success %v, rat health %d", a.Success, f.health(rat))
	}
	if len(f.journal.lines) != 1 || f.journal.lines[0] != "Hero hits rat for 0" {
		t.Errorf("unexpected journal %q", f.journal.lines)
	}
}

func TestAbilityActionNeedsTarget(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 4, "blood_bolt", "thorns")
	rat := f.actor(t, "rat", 3, 1, 30, 1)
	f.sim.Pools.Must(hero).Blood = 5

	if _, err := f.sim.NewAbilityAction(hero, "thorns"); !errors.Is(err, ErrNotTriggerable) {
		t.Errorf("expected ErrNotTriggerable, got %v", err)
	}
	a, err := f.sim.NewAbilityAction(hero, "blood_bolt")
	if err != nil {
		t.Fatal(err)
	}
	req := a.NextRequest()
	if req == nil {
		t.Fatal("bolt should request a target")
	}
	if req.Offer(world.Point{X: 2, Y: 2}) {
		t.Error("empty tile accepted as bolt target")
	}
	if !req.Offer(world.Point{X: 3, Y: 1}) {
		t.Fatal("rat tile rejected")
	}
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if !a.Success || f.health(rat) != 24 {
		t.Errorf("success %v, rat health %d", a.Success, f.health(rat))
	}
}

func TestPickupWithoutInventory(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 1) // no inventory slots

	if _, err := f.sim.SpawnItem("relic", "relic", 0, world.Point{X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	a := NewAction(hero, Pickup{})
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if a.Success {
		t.Error("pickup without inventory succeeded")
	}
}

func TestPickupFillsInventory(t *testing.T) {
	f := newFixture(t)
	hero := f.player(t, 1, 1, 30, 1)
	at := world.Point{X: 1, Y: 1}
	picked := 0
	f.sim.Bus().Subscribe(hero, event.Pickup, hero, func(*Notice) { picked++ })

	for _, name := range []string{"first relic", "second relic", "third relic"} {
		if _, err := f.sim.SpawnItem(name, "relic", 0, at); err != nil {
			t.Fatal(err)
		}
	}
	vial, err := f.sim.SpawnItem("blood vial", "blood_vial", 6, world.Point{X: 2, Y: 1})
	if err != nil {
		t.Fatal(err)
	}

	results := make([]bool, 0, 3)
	for i := 0; i < 3; i++ {
		a := NewAction(hero, Pickup{})
		if err := f.sim.Perform(a); err != nil {
			t.Fatal(err)
		}
		results = append(results, a.Success)
	}
	if !results[0] || !results[1] || results[2] {
		t.Errorf("expected two pickups then a full inventory, got %v", results)
	}
	if picked != 2 {
		t.Errorf("expected 2 pickup events, got %d", picked)
	}

	if err := f.sim.Perform(NewAction(hero, Move{Dir: world.Point{X: 1}})); err != nil {
		t.Fatal(err)
	}
	a := NewAction(hero, Pickup{})
	if err := f.sim.Perform(a); err != nil {
		t.Fatal(err)
	}
	if !a.Success || f.sim.Pools.Must(hero).Blood != 6 {
		t.Errorf("vial not drunk: success %v pool %d", a.Success, f.sim.Pools.Must(hero).Blood)
	}
	if f.sim.Valid(vial) {
		t.Error("vial should be consumed")
	}
}

func TestDoorToggle(t *testing.T) {
	f := newFixture(t,
		"#####",
		"#.+.#",
		"#####",
	)
	hero := f.actor(t, "hero", 1, 1, 30, 1)
	door := world.Point{X: 2, Y: 1}

	if err := f.sim.Perform(NewAction(hero, Move{Dir: world.Point{X: 1}})); err != nil {
		t.Fatal(err)
	}
	if pos, _ := f.sim.Position(hero); pos != (world.Point{X: 1, Y: 1}) {
		t.Fatal("walked through a closed door")
	}

	open := NewAction(hero, Door{At: door})
	if err := f.sim.Perform(open); err != nil || !open.Success {
		t.Fatalf("open failed: %v", err)
	}
	if f.level.Tile(door).Feature != world.FeatureDoorOpen {
		t.Fatal("door not open")
	}

	rat := f.actor(t, "rat", 2, 1, 5, 1)
	blocked := NewAction(hero, Door{At: door})
	if err := f.sim.Perform(blocked); err != nil {
		t.Fatal(err)
	}
	if blocked.Success {
		t.Error("closed a door on the rat in the doorway")
	}

	f.sim.Remove(rat)
	shut := NewAction(hero, Door{At: door})
	if err := f.sim.Perform(shut); err != nil || !shut.Success {
		t.Fatalf("close failed: %v", err)
	}
	if f.level.Tile(door).Feature != world.FeatureDoorClosed {
		t.Error("door not closed")
	}
}

func TestStairsAndAltar(t *testing.T) {
	f := newFixture(t,
		"#####",
		"#>._#",
		"#####",
	)
	hero := f.player(t, 2, 1, 30, 1)
	f.level.Tile(world.Point{X: 3, Y: 1}).AltarAbility = "brute"
	f.level.Tile(world.Point{X: 3, Y: 1}).AltarCost = 4

	stairs := NewAction(hero, Stairs{})
	if err := f.sim.Perform(stairs); err != nil {
		t.Fatal(err)
	}
	if stairs.Success {
		t.Error("descended without standing on stairs")
	}

	f.sim.Relocate(hero, world.Point{X: 3, Y: 1})
	poor := NewAction(hero, Altar{})
	if err := f.sim.Perform(poor); err != nil {
		t.Fatal(err)
	}
	if poor.Success {
		t.Error("altar accepted too little blood")
	}

	f.sim.Pools.Must(hero).Blood = 5
	offer := NewAction(hero, Altar{})
	if err := f.sim.Perform(offer); err != nil || !offer.Success {
		t.Fatalf("altar offer failed: %v", err)
	}
	if f.sim.ability(hero, "brute") == nil || f.sim.Pools.Must(hero).Blood != 1 {
		t.Error("altar did not trade blood for brute")
	}
	again := NewAction(hero, Altar{})
	if err := f.sim.Perform(again); err != nil {
		t.Fatal(err)
	}
	if again.Success {
		t.Error("altar used twice")
	}

	f.sim.Relocate(hero, world.Point{X: 2, Y: 1})
	f.sim.Relocate(hero, world.Point{X: 1, Y: 1})
	down := NewAction(hero, Stairs{})
	if err := f.sim.Perform(down); err != nil || !down.Success {
		t.Fatalf("descend failed: %v", err)
	}
	if f.dungeon.descended != 1 {
		t.Error("dungeon not asked to descend")
	}
}
