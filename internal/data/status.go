package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StatusTemplate holds static data for a time-driven status effect.
type StatusTemplate struct {
	ID        string
	Name      string
	Kind      string
	Interval  time.Duration // time between ticks
	Duration  int           // ticks before self-detach (0 = infinite)
	Magnitude Formula
}

// StatusTable holds all status templates indexed by ID.
type StatusTable struct {
	statuses map[string]*StatusTemplate
}

// Get returns a template by ID, or nil if not found.
func (t *StatusTable) Get(id string) *StatusTemplate {
	return t.statuses[id]
}

// Count returns total loaded statuses.
func (t *StatusTable) Count() int {
	return len(t.statuses)
}

// NewStatusTable builds a table from already constructed templates.
func NewStatusTable(templates ...*StatusTemplate) *StatusTable {
	t := &StatusTable{statuses: make(map[string]*StatusTemplate, len(templates))}
	for _, tmpl := range templates {
		t.statuses[tmpl.ID] = tmpl
	}
	return t
}

type statusEntry struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	IntervalMs int     `yaml:"interval_ms"`
	Duration   int     `yaml:"duration"`
	Magnitude  Formula `yaml:"magnitude"`
}

type statusListFile struct {
	Statuses []statusEntry `yaml:"statuses"`
}

// LoadStatusTable loads status templates from YAML.
func LoadStatusTable(path string) (*StatusTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statuses: %w", err)
	}
	return ParseStatusTable(raw)
}

// ParseStatusTable decodes status templates from YAML bytes.
func ParseStatusTable(raw []byte) (*StatusTable, error) {
	var f statusListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse statuses: %w", err)
	}
	t := &StatusTable{statuses: make(map[string]*StatusTemplate, len(f.Statuses))}
	for i := range f.Statuses {
		e := &f.Statuses[i]
		if e.ID == "" {
			return nil, fmt.Errorf("status #%d: missing id", i)
		}
		if e.IntervalMs <= 0 {
			return nil, fmt.Errorf("status %s: interval_ms must be positive", e.ID)
		}
		if e.Duration < 0 {
			return nil, fmt.Errorf("status %s: negative duration", e.ID)
		}
		kind := e.Kind
		if kind == "" {
			kind = e.ID
		}
		t.statuses[e.ID] = &StatusTemplate{
			ID:        e.ID,
			Name:      e.Name,
			Kind:      kind,
			Interval:  time.Duration(e.IntervalMs) * time.Millisecond,
			Duration:  e.Duration,
			Magnitude: e.Magnitude,
		}
	}
	return t, nil
}
