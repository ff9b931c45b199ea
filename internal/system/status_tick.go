package system

import (
	"time"

	coresys "github.com/ejohnd98/DarkRelic-sub001/internal/core/system"
	"go.uber.org/zap"
)

// StatusTickSystem advances statuses by elapsed time, independent of turns.
type StatusTickSystem struct {
	sim *Sim
}

func NewStatusTickSystem(sim *Sim) *StatusTickSystem {
	return &StatusTickSystem{sim: sim}
}

func (st *StatusTickSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (st *StatusTickSystem) Update(dt time.Duration) error {
	s := st.sim
	for _, id := range s.level.Entities() {
		set, ok := s.Effects.Get(id)
		if !ok || len(set.Statuses) == 0 {
			continue
		}
		statuses := append([]*Effect(nil), set.Statuses...)
		for _, e := range statuses {
			if !e.attached || !s.Alive(id) {
				continue
			}
			st.advance(e, dt)
		}
	}
	return nil
}

// advance fires e at most once per call; leftover time carries over.
func (st *StatusTickSystem) advance(e *Effect, dt time.Duration) {
	s := st.sim
	e.Elapsed += dt
	if e.Interval <= 0 || e.Elapsed < e.Interval {
		return
	}
	e.Elapsed -= e.Interval
	e.Ticks++
	s.tick(e)
	if e.Duration > 0 && e.Ticks >= e.Duration {
		s.Detach(e)
		s.log.Debug("status expired",
			zap.String("owner", s.Name(e.Owner)), zap.String("status", e.ID), zap.Int("ticks", e.Ticks))
	}
}
