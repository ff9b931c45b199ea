package system

import (
	"errors"
	"testing"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

func TestAttackLeavesTargetAlive(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "rat", 2, 1, 15, 2)

	tx, err := f.sim.Attack(hero, rat)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if got := f.health(rat); got != 5 {
		t.Errorf("expected 5 health left, got %d", got)
	}
	if len(tx.Events) != 1 || tx.Events[0].Dealt != 10 || tx.Events[0].Killed {
		t.Errorf("unexpected damage events %+v", tx.Events[0])
	}
	if b := f.level.Blood(world.Point{X: 2, Y: 1}); b != 0 {
		t.Errorf("no blood expected, got %d", b)
	}
}

func TestAttackKillsTarget(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "rat", 2, 1, 8, 2)

	tx, err := f.sim.Attack(hero, rat)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if !tx.Events[0].Killed {
		t.Error("expected killed flag")
	}
	if f.sim.Alive(rat) || f.sim.Valid(rat) {
		t.Error("rat should be out of play")
	}
	if f.level.Contains(rat) {
		t.Error("rat still on the level")
	}
	// max(ceil(8 × 0.25), 1)
	if b := f.level.Blood(world.Point{X: 2, Y: 1}); b != 2 {
		t.Errorf("expected blood 2, got %d", b)
	}
	if xp := f.sim.Experience.Must(hero).Exp; xp != 7 {
		t.Errorf("expected 7 exp, got %d", xp)
	}
	if f.sim.Bus().Referencing(rat) {
		t.Error("bus still references the dead rat")
	}
}

func TestKillWithoutExperienceOnAttacker(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "rat", 2, 1, 3, 2)
	f.sim.Experience.Remove(hero)

	if _, err := f.sim.Attack(hero, rat); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if f.sim.Alive(rat) {
		t.Error("rat should be dead")
	}
}

func TestChainTargetDamagedInSamePass(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 2, 30, 10, "chain_strike")
	first := f.actor(t, "first", 2, 2, 30, 1)
	second := f.actor(t, "second", 3, 2, 30, 1)

	tx, err := f.sim.Attack(hero, first)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if f.health(first) != 20 || f.health(second) != 20 {
		t.Errorf("expected both at 20, got %d and %d", f.health(first), f.health(second))
	}
	targets := tx.Targets()
	if len(targets) != 2 || targets[0] != first || targets[1] != second {
		t.Errorf("unexpected target order %v", targets)
	}
	chain := f.effect(t, hero, "chain_strike")
	if len(chain.Related) != 1 || chain.Related[0] != second {
		t.Errorf("expected related [second], got %v", chain.Related)
	}
}

func TestDeadTargetSkippedOnLaterPasses(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "rat", 2, 1, 5, 1)

	tx := NewTransaction(hero, 1)
	tx.AddTarget(rat)
	if tx.AddTarget(rat) {
		t.Error("duplicate target accepted")
	}
	if err := f.sim.Resolve(tx); err != nil {
		t.Fatal(err)
	}
	if err := f.sim.Resolve(tx); err != nil {
		t.Fatal(err)
	}
	if len(tx.Events) != 1 {
		t.Errorf("dead target damaged again: %d events", len(tx.Events))
	}
}

func TestAttackedHandlerAdjustsDamage(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "rat", 2, 1, 30, 1)

	var order []string
	f.sim.Bus().Subscribe(hero, event.AttackOther, hero, func(n *Notice) {
		order = append(order, "attack_other")
		n.Damage.Added += 2
	})
	f.sim.Bus().Subscribe(rat, event.Attacked, rat, func(n *Notice) {
		order = append(order, "attacked")
		if f.health(rat) != 30 {
			t.Error("damage applied before the attacked event")
		}
		n.Damage.Multiplier = 0.5
	})

	if _, err := f.sim.Attack(hero, rat); err != nil {
		t.Fatal(err)
	}
	if got := f.health(rat); got != 24 {
		t.Errorf("expected 24 health, got %d", got)
	}
	if len(order) != 2 || order[0] != "attack_other" || order[1] != "attacked" {
		t.Errorf("unexpected event order %v", order)
	}
}

func TestThornsReentryIsBounded(t *testing.T) {
	f := newFixture(t)
	a := f.actor(t, "a", 1, 1, 100, 10, "thorns")
	b := f.actor(t, "b", 2, 1, 100, 10, "thorns")

	if _, err := f.sim.Attack(a, b); err != nil {
		t.Fatal(err)
	}
	if got := f.health(a); got != 98 {
		t.Errorf("a: expected 98, got %d", got)
	}
	if got := f.health(b); got != 88 {
		t.Errorf("b: expected 88, got %d", got)
	}
	if f.sim.txDepth != 0 {
		t.Errorf("depth not unwound: %d", f.sim.txDepth)
	}
}

func TestResolveRefusedAtDepthLimit(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "rat", 2, 1, 30, 1)
	f.sim.txDepth = f.sim.Config().Combat.MaxTransactionDepth

	_, err := f.sim.Attack(hero, rat)
	if !errors.Is(err, ErrTransactionDepth) {
		t.Fatalf("expected ErrTransactionDepth, got %v", err)
	}
	if f.health(rat) != 30 {
		t.Error("refused transaction dealt damage")
	}
}

func TestDamageTruncatesAndClamps(t *testing.T) {
	tests := []struct {
		name string
		ev   DamageEvent
		want int
	}{
		{"plain", DamageEvent{Base: 10, Multiplier: 1}, 10},
		{"truncates", DamageEvent{Base: 7, Multiplier: 1.5}, 10},
		{"added before multiplier", DamageEvent{Base: 4, Added: 2, Multiplier: 2}, 12},
		{"negative clamps", DamageEvent{Base: 1, Added: -5, Multiplier: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Damage(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKillJournalLine(t *testing.T) {
	f := newFixture(t)
	hero := f.actor(t, "hero", 1, 1, 30, 10)
	rat := f.actor(t, "giant rat", 2, 1, 5, 1)

	if _, err := f.sim.Attack(hero, rat); err != nil {
		t.Fatal(err)
	}
	want := []string{"Hero hits giant rat for 10", "Hero kills giant rat"}
	if len(f.journal.lines) != len(want) {
		t.Fatalf("unexpected journal %q", f.journal.lines)
	}
	for i := range want {
		if f.journal.lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, f.journal.lines[i], want[i])
		}
	}
}
