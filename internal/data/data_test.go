package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
)

const abilityYAML = `
abilities:
  - id: chain_strike
    name: Chain Strike
    cost: 2
    cooldown: 1
    triggers: [transaction_created]
    magnitude: {base: 1, per_stack: 1}
  - id: blood_bolt
    name: Blood Bolt
    cost: 5
    cooldown: 3
    player_triggered: true
    range: 5
    magnitude: {base: 1.5, per_stack: 0.5, script: formula_bolt}
`

func TestParseAbilityTable(t *testing.T) {
	tbl, err := ParseAbilityTable([]byte(abilityYAML))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("expected 2 abilities, got %d", tbl.Count())
	}
	chain := tbl.Get("chain_strike")
	if chain == nil {
		t.Fatal("chain_strike missing")
	}
	if chain.Kind != "chain_strike" {
		t.Errorf("kind should default to id, got %q", chain.Kind)
	}
	if len(chain.Triggers) != 1 || chain.Triggers[0] != event.TransactionCreated {
		t.Errorf("unexpected triggers %v", chain.Triggers)
	}
	bolt := tbl.Get("blood_bolt")
	if !bolt.PlayerTriggered || bolt.Range != 5 || bolt.Magnitude.Script != "formula_bolt" {
		t.Errorf("unexpected bolt template %+v", bolt)
	}
	ids := tbl.IDs()
	if ids[0] != "blood_bolt" || ids[1] != "chain_strike" {
		t.Errorf("IDs not sorted: %v", ids)
	}
}

func TestParseAbilityTableRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown trigger": "abilities:\n  - id: x\n    triggers: [explode]\n",
		"missing id":      "abilities:\n  - name: x\n",
		"duplicate":       "abilities:\n  - id: x\n  - id: x\n",
		"negative cost":   "abilities:\n  - id: x\n    cost: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAbilityTable([]byte(body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFormulaLinearIsPureInCount(t *testing.T) {
	f := Formula{Base: 2, PerStack: 0.5}
	tests := []struct {
		count int
		want  float64
	}{
		{0, 2},
		{1, 2},
		{2, 2.5},
		{5, 4},
	}
	for _, tt := range tests {
		if got := f.Linear(tt.count); got != tt.want {
			t.Errorf("Linear(%d) = %v, want %v", tt.count, got, tt.want)
		}
		if f.Linear(tt.count) != f.Linear(tt.count) {
			t.Errorf("Linear(%d) not reproducible", tt.count)
		}
	}
}

func TestLoadStatusAndMonsterTables(t *testing.T) {
	dir := t.TempDir()
	statusPath := filepath.Join(dir, "statuses.yaml")
	monsterPath := filepath.Join(dir, "monsters.yaml")
	if err := os.WriteFile(statusPath, []byte(`
statuses:
  - id: bleed
    name: Bleeding
    interval_ms: 250
    duration: 4
    magnitude: {base: 2}
  - id: regeneration
    interval_ms: 1000
`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(monsterPath, []byte(`
monsters:
  - id: rat
    name: rat
    max_health: 6
    strength: 2
    exp: 3
  - id: ghoul
    name: ghoul
    max_health: 20
    strength: 4
    abilities: [thorns]
`), 0o644); err != nil {
		t.Fatal(err)
	}

	statuses, err := LoadStatusTable(statusPath)
	if err != nil {
		t.Fatal(err)
	}
	bleed := statuses.Get("bleed")
	if bleed == nil || bleed.Interval != 250*time.Millisecond || bleed.Duration != 4 {
		t.Errorf("unexpected bleed %+v", bleed)
	}
	if regen := statuses.Get("regeneration"); regen == nil || regen.Duration != 0 {
		t.Errorf("regeneration should be infinite, got %+v", regen)
	}

	monsters, err := LoadMonsterTable(monsterPath)
	if err != nil {
		t.Fatal(err)
	}
	if ids := monsters.IDs(); len(ids) != 2 || ids[0] != "rat" || ids[1] != "ghoul" {
		t.Errorf("unexpected order %v", ids)
	}
	if g := monsters.Get("ghoul"); len(g.Abilities) != 1 || g.Abilities[0] != "thorns" {
		t.Errorf("unexpected ghoul abilities %v", g.Abilities)
	}
}

func TestParseMonsterTableRejectsZeroHealth(t *testing.T) {
	if _, err := ParseMonsterTable([]byte("monsters:\n  - id: ghost\n    max_health: 0\n")); err == nil {
		t.Fatal("expected error")
	}
}
