package system

import (
	"math"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"go.uber.org/zap"
)

// kill marks target dead, pays out experience and blood, and removes it
// from play before the killer's Kill hook runs.
func (s *Sim) kill(target, killer ecs.EntityID) {
	h := s.Healths.Must(target)
	h.Dead = true
	pos, placed := s.Position(target)

	if killer != target {
		s.awardExp(killer, target)
	}
	if placed {
		blood := int(math.Ceil(float64(h.Max) * s.cfg.Combat.BloodFraction))
		if blood < s.cfg.Combat.MinBlood {
			blood = s.cfg.Combat.MinBlood
		}
		s.level.AddBlood(pos, blood)
	}

	name := s.Name(target)
	s.Remove(target)
	s.log.Info("entity killed",
		zap.String("victim", name), zap.String("killer", s.Name(killer)))

	if killer != target && s.Valid(killer) {
		s.fire(killer, &Notice{Kind: event.Kill, Other: target})
	}
	s.emit(Hint{Kind: HintDeath, Entity: target, Other: killer, From: pos, To: pos})
	if killer == target {
		s.note("%s dies", name)
	} else {
		s.note("%s kills %s", s.Name(killer), name)
	}
}

func (s *Sim) awardExp(killer, victim ecs.EntityID) {
	kx, ok := s.Experience.Get(killer)
	if !ok || !s.Valid(killer) {
		return
	}
	vx, ok := s.Experience.Get(victim)
	if !ok || vx.Reward <= 0 {
		return
	}
	kx.Exp += vx.Reward
}

// ExpToNext returns the experience needed to leave level.
func (s *Sim) ExpToNext(level int) int {
	if s.formulas != nil {
		if v, ok := s.formulas.ExpForLevel(level); ok && v > 0 {
			return v
		}
	}
	p := s.cfg.Progression
	return int(math.Round(float64(p.ExpBase) * math.Pow(p.ExpGrowth, float64(level-1))))
}

// progress applies pending level-ups. Each level raises max health and
// heals by the same amount. Returns the number of levels gained.
func (s *Sim) progress(id ecs.EntityID) int {
	xp, ok := s.Experience.Get(id)
	if !ok {
		return 0
	}
	gained := 0
	for xp.Level < s.cfg.Progression.MaxLevel {
		need := s.ExpToNext(xp.Level)
		if need <= 0 || xp.Exp < need {
			break
		}
		xp.Exp -= need
		xp.Level++
		gained++
		if h, ok := s.Healths.Get(id); ok {
			h.Max += s.cfg.Progression.HealthPerLevel
			h.Current += s.cfg.Progression.HealthPerLevel
		}
	}
	if gained > 0 {
		s.log.Info("level up",
			zap.String("entity", s.Name(id)), zap.Int("level", xp.Level))
		s.note("%s reaches level %d", s.Name(id), xp.Level)
	}
	return gained
}
