package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func shippedTables(t *testing.T) *tables {
	t.Helper()
	tb := &tables{
		dataDir:    filepath.Join("..", "..", "data", "yaml"),
		scriptsDir: filepath.Join("..", "..", "scripts"),
		outDir:     t.TempDir(),
	}
	t.Cleanup(tb.close)
	return tb
}

func TestShippedDataResolves(t *testing.T) {
	tb := shippedTables(t)
	for _, name := range allOrder {
		if err := commands[name](tb); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	raw, err := os.ReadFile(filepath.Join(tb.outDir, "curves.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "id: blood_bolt") {
		t.Error("curve file misses blood_bolt")
	}
}

func TestCurvesPreferScripts(t *testing.T) {
	tb := shippedTables(t)
	curves, err := buildCurves(tb, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range curves.Abilities {
		if c.ID != "blood_bolt" {
			continue
		}
		if len(c.Stacks) != curveStacks || c.Stacks[0] != 1.5 || c.Stacks[2] != 2.5 {
			t.Errorf("unexpected blood_bolt curve %v", c.Stacks)
		}
	}
	want := []int{10, 15, 23}
	if len(curves.Levels) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(curves.Levels))
	}
	for i, step := range curves.Levels {
		if step.Exp != want[i] {
			t.Errorf("level %d: exp %d, want %d", step.Level, step.Exp, want[i])
		}
	}
}

func TestRefsReportUnknownAbility(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("abilities.yaml", "abilities:\n  - id: thorns\n    triggers: [attacked]\n")
	write("statuses.yaml", "statuses: []\n")
	write("monsters.yaml", "monsters:\n  - id: rat\n    max_health: 3\n    abilities: [thorns, missing]\n")

	tb := &tables{dataDir: dir, scriptsDir: filepath.Join(dir, "none"), outDir: dir}
	defer tb.close()
	err := checkRefs(tb)
	if err == nil || !strings.Contains(err.Error(), "1 unresolved") {
		t.Errorf("expected one unresolved reference, got %v", err)
	}
}
