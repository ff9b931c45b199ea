package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MonsterTemplate holds static data for a spawnable actor type.
type MonsterTemplate struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	MaxHealth  int      `yaml:"max_health"`
	Strength   int      `yaml:"strength"`
	TurnLength int      `yaml:"turn_length"` // 0 = scheduler default
	Exp        int      `yaml:"exp"`         // awarded to the killer
	Blood      int      `yaml:"blood"`       // starting pool
	Inventory  int      `yaml:"inventory"`   // slots (0 = no inventory)
	Abilities  []string `yaml:"abilities"`
}

type monsterListFile struct {
	Monsters []MonsterTemplate `yaml:"monsters"`
}

// MonsterTable holds all monster templates indexed by ID.
type MonsterTable struct {
	monsters map[string]*MonsterTemplate
	order    []string
}

// Get returns a template by ID, or nil if not found.
func (t *MonsterTable) Get(id string) *MonsterTemplate {
	return t.monsters[id]
}

// Count returns total loaded monsters.
func (t *MonsterTable) Count() int {
	return len(t.monsters)
}

// IDs returns template IDs in file order.
func (t *MonsterTable) IDs() []string {
	return append([]string(nil), t.order...)
}

// LoadMonsterTable loads monster templates from YAML.
func LoadMonsterTable(path string) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monsters: %w", err)
	}
	return ParseMonsterTable(raw)
}

// ParseMonsterTable decodes monster templates from YAML bytes.
func ParseMonsterTable(raw []byte) (*MonsterTable, error) {
	var f monsterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse monsters: %w", err)
	}
	t := &MonsterTable{monsters: make(map[string]*MonsterTemplate, len(f.Monsters))}
	for i := range f.Monsters {
		m := &f.Monsters[i]
		if m.ID == "" {
			return nil, fmt.Errorf("monster #%d: missing id", i)
		}
		if m.MaxHealth <= 0 {
			return nil, fmt.Errorf("monster %s: max_health must be positive", m.ID)
		}
		if _, dup := t.monsters[m.ID]; dup {
			return nil, fmt.Errorf("monster %s: duplicate id", m.ID)
		}
		t.monsters[m.ID] = m
		t.order = append(t.order, m.ID)
	}
	return t, nil
}
