// datacheck validates the YAML data tables and Lua scripts the simulation
// loads, and can export the resulting formula curves.
//
// Usage:
//
//	go run ./cmd/datacheck <command> [-datadir path] [-scripts path] [-outdir path]
//
// Commands: abilities, statuses, monsters, refs, curves, all
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ejohnd98/DarkRelic-sub001/internal/data"
	"github.com/ejohnd98/DarkRelic-sub001/internal/scripting"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// tables is everything a check may need, loaded lazily.
type tables struct {
	dataDir    string
	scriptsDir string
	outDir     string

	abilities *data.AbilityTable
	statuses  *data.StatusTable
	monsters  *data.MonsterTable
	lua       *scripting.Engine
}

func (t *tables) loadAbilities() error {
	if t.abilities != nil {
		return nil
	}
	tbl, err := data.LoadAbilityTable(filepath.Join(t.dataDir, "abilities.yaml"))
	if err != nil {
		return err
	}
	t.abilities = tbl
	return nil
}

func (t *tables) loadStatuses() error {
	if t.statuses != nil {
		return nil
	}
	tbl, err := data.LoadStatusTable(filepath.Join(t.dataDir, "statuses.yaml"))
	if err != nil {
		return err
	}
	t.statuses = tbl
	return nil
}

func (t *tables) loadMonsters() error {
	if t.monsters != nil {
		return nil
	}
	tbl, err := data.LoadMonsterTable(filepath.Join(t.dataDir, "monsters.yaml"))
	if err != nil {
		return err
	}
	t.monsters = tbl
	return nil
}

func (t *tables) loadLua() error {
	if t.lua != nil {
		return nil
	}
	engine, err := scripting.NewEngine(t.scriptsDir, zap.NewNop())
	if err != nil {
		return err
	}
	t.lua = engine
	return nil
}

func (t *tables) close() {
	if t.lua != nil {
		t.lua.Close()
	}
}

// ---------------------------------------------------------------------------
// Checks
// ---------------------------------------------------------------------------

func checkAbilities(t *tables) error {
	if err := t.loadAbilities(); err != nil {
		return err
	}
	fmt.Printf("  abilities: %d ok\n", t.abilities.Count())
	return nil
}

func checkStatuses(t *tables) error {
	if err := t.loadStatuses(); err != nil {
		return err
	}
	fmt.Printf("  statuses: %d ok\n", t.statuses.Count())
	return nil
}

func checkMonsters(t *tables) error {
	if err := t.loadMonsters(); err != nil {
		return err
	}
	fmt.Printf("  monsters: %d ok\n", t.monsters.Count())
	return nil
}

// checkRefs verifies every cross-table name resolves: monster abilities,
// ability statuses and scripted formulas.
func checkRefs(t *tables) error {
	for _, load := range []func() error{t.loadAbilities, t.loadStatuses, t.loadMonsters, t.loadLua} {
		if err := load(); err != nil {
			return err
		}
	}
	var problems []string
	for _, id := range t.monsters.IDs() {
		for _, ability := range t.monsters.Get(id).Abilities {
			if t.abilities.Get(ability) == nil {
				problems = append(problems, fmt.Sprintf("monster %s: unknown ability %q", id, ability))
			}
		}
	}
	for _, id := range t.abilities.IDs() {
		a := t.abilities.Get(id)
		if a.Status != "" && t.statuses.Get(a.Status) == nil {
			problems = append(problems, fmt.Sprintf("ability %s: unknown status %q", id, a.Status))
		}
		if a.Magnitude.Script != "" && !t.lua.Has(a.Magnitude.Script) {
			problems = append(problems, fmt.Sprintf("ability %s: lua function %q not defined", id, a.Magnitude.Script))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		return fmt.Errorf("%d unresolved references", len(problems))
	}
	fmt.Println("  references: ok")
	return nil
}

// ---------------------------------------------------------------------------
// Curve export
// ---------------------------------------------------------------------------

type curveFile struct {
	Abilities []abilityCurve `yaml:"abilities"`
	Levels    []levelStep    `yaml:"levels"`
}

type abilityCurve struct {
	ID     string    `yaml:"id"`
	Script string    `yaml:"script,omitempty"`
	Stacks []float64 `yaml:"stacks"`
}

type levelStep struct {
	Level int `yaml:"level"`
	Exp   int `yaml:"exp"`
}

const curveStacks = 5

func buildCurves(t *tables, levels int) (*curveFile, error) {
	if err := t.loadAbilities(); err != nil {
		return nil, err
	}
	if err := t.loadLua(); err != nil {
		return nil, err
	}
	out := &curveFile{}
	for _, id := range t.abilities.IDs() {
		a := t.abilities.Get(id)
		c := abilityCurve{ID: id, Script: a.Magnitude.Script}
		for n := 1; n <= curveStacks; n++ {
			v := a.Magnitude.Linear(n)
			if a.Magnitude.Script != "" {
				if scripted, ok := t.lua.Formula(a.Magnitude.Script, n); ok {
					v = scripted
				}
			}
			c.Stacks = append(c.Stacks, v)
		}
		out.Abilities = append(out.Abilities, c)
	}
	for lvl := 1; lvl <= levels; lvl++ {
		exp, ok := t.lua.ExpForLevel(lvl)
		if !ok {
			break
		}
		out.Levels = append(out.Levels, levelStep{Level: lvl, Exp: exp})
	}
	return out, nil
}

func exportCurves(t *tables) error {
	curves, err := buildCurves(t, 10)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(t.outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", t.outDir, err)
	}
	path := filepath.Join(t.outDir, "curves.yaml")
	if err := writeYAML(path, curves, "# Generated by datacheck curves. Do not edit."); err != nil {
		return err
	}
	fmt.Printf("  curves: %d abilities, %d levels -> %s\n", len(curves.Abilities), len(curves.Levels), path)
	return nil
}

func writeYAML(path string, v any, comment string) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if comment != "" {
		fmt.Fprintln(f, comment)
		fmt.Fprintln(f)
	}
	_, err = f.Write(out)
	return err
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: datacheck <command> [-datadir path] [-scripts path] [-outdir path]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  abilities   validate abilities.yaml")
	fmt.Fprintln(os.Stderr, "  statuses    validate statuses.yaml")
	fmt.Fprintln(os.Stderr, "  monsters    validate monsters.yaml")
	fmt.Fprintln(os.Stderr, "  refs        resolve names across tables and scripts")
	fmt.Fprintln(os.Stderr, "  curves      write stack and level curves to <outdir>/curves.yaml")
	fmt.Fprintln(os.Stderr, "  all         run every check, then curves")
}

var commands = map[string]func(*tables) error{
	"abilities": checkAbilities,
	"statuses":  checkStatuses,
	"monsters":  checkMonsters,
	"refs":      checkRefs,
	"curves":    exportCurves,
}

// Ordered list for "all" (deterministic output)
var allOrder = []string{"abilities", "statuses", "monsters", "refs", "curves"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	dataDir := fs.String("datadir", filepath.Join("data", "yaml"), "YAML table directory")
	scriptsDir := fs.String("scripts", "scripts", "Lua scripts directory")
	outDir := fs.String("outdir", filepath.Join("build", "data"), "curve output directory")
	_ = fs.Parse(os.Args[2:])

	t := &tables{dataDir: *dataDir, scriptsDir: *scriptsDir, outDir: *outDir}
	defer t.close()

	order := []string{cmd}
	if cmd == "all" {
		order = allOrder
	} else if _, ok := commands[cmd]; !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	for _, name := range order {
		if err := commands[name](t); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR [%s]: %v\n", name, err)
			t.close()
			os.Exit(1)
		}
	}
	fmt.Println("Done!")
}
