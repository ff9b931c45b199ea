package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
)

// Stat names a derived statistic.
type Stat uint8

const (
	StatStrength Stat = iota
	StatTurnLength
)

// EffectiveStat returns (base + Σ additive) × Π multiplicative over the
// entity's stat-modifier abilities. Calling it never changes state.
func (s *Sim) EffectiveStat(id ecs.EntityID, stat Stat) float64 {
	base := 0.0
	switch stat {
	case StatStrength:
		if a, ok := s.Attributes.Get(id); ok {
			base = float64(a.Strength)
		}
	case StatTurnLength:
		if t, ok := s.Turns.Get(id); ok {
			base = float64(t.TurnLength)
		}
	}

	set, ok := s.Effects.Get(id)
	if !ok {
		return base
	}
	add, mul := 0.0, 1.0
	for _, e := range set.Abilities {
		if !e.Has(CapStatModifier) {
			continue
		}
		a, m := s.modifier(e, stat)
		add += a
		mul *= m
	}
	return (base + add) * mul
}

// modifier returns the additive and multiplicative terms e contributes.
func (s *Sim) modifier(e *Effect, stat Stat) (float64, float64) {
	switch e.Kind {
	case KindFrenzy:
		if stat != StatStrength {
			break
		}
		if pos, ok := s.Position(e.Owner); ok && s.level.Blood(pos) > 0 {
			return s.Magnitude(e), 1
		}
	case KindBrute:
		if stat == StatStrength {
			return 0, s.Magnitude(e)
		}
	case KindSwiftness:
		if stat == StatTurnLength {
			return 0, s.Magnitude(e)
		}
	}
	return 0, 1
}

// TurnLength is the debt charged per successful turn, at least 1.
func (s *Sim) TurnLength(id ecs.EntityID) int {
	n := int(s.EffectiveStat(id, StatTurnLength))
	if n < 1 {
		return 1
	}
	return n
}
