package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"gopkg.in/yaml.v3"
)

// AbilityTemplate holds static data for one acquirable ability.
type AbilityTemplate struct {
	ID              string
	Name            string
	Kind            string // effect kind the simulation dispatches on
	Cost            int    // blood; shortfall is paid in health
	Cooldown        int    // turns
	PlayerTriggered bool
	Range           int          // targeted abilities: max Chebyshev distance
	Triggers        []event.Kind // reactive abilities: owner hook points
	Magnitude       Formula
	Status          string // status template attached by the effect, if any
}

// AbilityTable holds all ability templates indexed by ID.
type AbilityTable struct {
	abilities map[string]*AbilityTemplate
}

// Get returns a template by ID, or nil if not found.
func (t *AbilityTable) Get(id string) *AbilityTemplate {
	return t.abilities[id]
}

// Count returns total loaded abilities.
func (t *AbilityTable) Count() int {
	return len(t.abilities)
}

// IDs returns all template IDs in sorted order.
func (t *AbilityTable) IDs() []string {
	ids := make([]string, 0, len(t.abilities))
	for id := range t.abilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewAbilityTable builds a table from already constructed templates.
func NewAbilityTable(templates ...*AbilityTemplate) *AbilityTable {
	t := &AbilityTable{abilities: make(map[string]*AbilityTemplate, len(templates))}
	for _, tmpl := range templates {
		t.abilities[tmpl.ID] = tmpl
	}
	return t
}

// --- YAML loading ---

type abilityEntry struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Kind            string   `yaml:"kind"`
	Cost            int      `yaml:"cost"`
	Cooldown        int      `yaml:"cooldown"`
	PlayerTriggered bool     `yaml:"player_triggered"`
	Range           int      `yaml:"range"`
	Triggers        []string `yaml:"triggers"`
	Magnitude       Formula  `yaml:"magnitude"`
	Status          string   `yaml:"status"`
}

type abilityListFile struct {
	Abilities []abilityEntry `yaml:"abilities"`
}

// LoadAbilityTable loads ability templates from YAML.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read abilities: %w", err)
	}
	return ParseAbilityTable(raw)
}

// ParseAbilityTable decodes ability templates from YAML bytes.
func ParseAbilityTable(raw []byte) (*AbilityTable, error) {
	var f abilityListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse abilities: %w", err)
	}
	t := &AbilityTable{abilities: make(map[string]*AbilityTemplate, len(f.Abilities))}
	for i := range f.Abilities {
		e := &f.Abilities[i]
		if e.ID == "" {
			return nil, fmt.Errorf("ability #%d: missing id", i)
		}
		if _, dup := t.abilities[e.ID]; dup {
			return nil, fmt.Errorf("ability %s: duplicate id", e.ID)
		}
		if e.Cost < 0 || e.Cooldown < 0 {
			return nil, fmt.Errorf("ability %s: negative cost or cooldown", e.ID)
		}
		triggers := make([]event.Kind, 0, len(e.Triggers))
		for _, name := range e.Triggers {
			k, ok := event.ParseKind(name)
			if !ok {
				return nil, fmt.Errorf("ability %s: unknown trigger %q", e.ID, name)
			}
			triggers = append(triggers, k)
		}
		kind := e.Kind
		if kind == "" {
			kind = e.ID
		}
		t.abilities[e.ID] = &AbilityTemplate{
			ID:              e.ID,
			Name:            e.Name,
			Kind:            kind,
			Cost:            e.Cost,
			Cooldown:        e.Cooldown,
			PlayerTriggered: e.PlayerTriggered,
			Range:           e.Range,
			Triggers:        triggers,
			Magnitude:       e.Magnitude,
			Status:          e.Status,
		}
	}
	return t, nil
}
