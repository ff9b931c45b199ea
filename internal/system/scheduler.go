package system

import (
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"go.uber.org/zap"
)

// Scheduler orders turns by debt. The eligible list keeps the order the
// level enumerated entities in when it was last rebuilt; ties are never
// broken by debt.
type Scheduler struct {
	sim      *Sim
	eligible []ecs.EntityID
	acting   ecs.EntityID
}

// NewScheduler binds a scheduler to sim and forgets entities as they leave
// play.
func NewScheduler(sim *Sim) *Scheduler {
	sc := &Scheduler{sim: sim}
	sim.OnRemove(sc.Forget)
	return sc
}

// Schedulable reports whether id takes turns on the active level.
func (sc *Scheduler) Schedulable(id ecs.EntityID) bool {
	s := sc.sim
	return s.Valid(id) && s.Turns.Has(id) && s.level.Contains(id)
}

func (sc *Scheduler) ready(id ecs.EntityID) bool {
	return sc.Schedulable(id) && sc.sim.Turns.Must(id).Debt <= 0
}

// Eligible returns a copy of the eligible list.
func (sc *Scheduler) Eligible() []ecs.EntityID {
	return append([]ecs.EntityID(nil), sc.eligible...)
}

// prune drops entries that left play or were charged since enumeration.
func (sc *Scheduler) prune() {
	kept := sc.eligible[:0]
	for _, id := range sc.eligible {
		if sc.ready(id) {
			kept = append(kept, id)
		}
	}
	sc.eligible = kept
}

// refresh re-enumerates the level. Reports whether any schedulable entity
// exists at all.
func (sc *Scheduler) refresh() bool {
	sc.eligible = sc.eligible[:0]
	found := false
	for _, id := range sc.sim.level.Entities() {
		if !sc.Schedulable(id) {
			continue
		}
		found = true
		if sc.sim.Turns.Must(id).Debt <= 0 {
			sc.eligible = append(sc.eligible, id)
		}
	}
	return found
}

// Recover makes sure someone is eligible, recovering debt for every
// schedulable entity one unit at a time. The loop is bounded; running out
// of iterations is an invariant violation.
func (sc *Scheduler) Recover() error {
	sc.prune()
	if len(sc.eligible) > 0 {
		return nil
	}
	s := sc.sim
	unit := s.cfg.Scheduler.RecoveryUnit
	bound := s.cfg.Scheduler.MaxRecoveryIterations
	for i := 0; ; i++ {
		if !sc.refresh() {
			return ErrNoActors
		}
		if len(sc.eligible) > 0 {
			return nil
		}
		if i == bound {
			break
		}
		for _, id := range s.level.Entities() {
			if sc.Schedulable(id) {
				s.Turns.Must(id).Debt -= unit
			}
		}
	}
	s.log.Error("debt recovery exhausted", zap.Int("iterations", bound))
	return ErrRecoveryExhausted
}

// Peek returns the next eligible entity without removing it.
func (sc *Scheduler) Peek() (ecs.EntityID, bool) {
	if len(sc.eligible) == 0 {
		return ecs.NoEntity, false
	}
	return sc.eligible[0], true
}

// Pop removes the front entity, which must be id.
func (sc *Scheduler) Pop(id ecs.EntityID) error {
	if len(sc.eligible) == 0 || sc.eligible[0] != id {
		front := ecs.NoEntity
		if len(sc.eligible) > 0 {
			front = sc.eligible[0]
		}
		sc.sim.log.Error("turn mismatch",
			zap.Uint64("actor", uint64(id)), zap.Uint64("front", uint64(front)))
		return fmt.Errorf("pop %d: %w", id, ErrTurnMismatch)
	}
	sc.eligible = sc.eligible[1:]
	return nil
}

// Forget drops a removed entity from the eligible list. The acting entity
// stays until its turn is finalized.
func (sc *Scheduler) Forget(id ecs.EntityID) {
	if id == sc.acting {
		return
	}
	for i, other := range sc.eligible {
		if other == id {
			sc.eligible = append(sc.eligible[:i:i], sc.eligible[i+1:]...)
			return
		}
	}
}

// Begin marks id as the entity whose action is being assembled. Beginning
// again for the same entity is a no-op; beginning another entity while a
// live one is still Waiting is an invariant violation.
func (sc *Scheduler) Begin(id ecs.EntityID) error {
	s := sc.sim
	if prev := sc.acting; prev != ecs.NoEntity && prev != id {
		if t, ok := s.Turns.Get(prev); ok && t.Waiting && s.Valid(prev) {
			s.log.Error("turn begun while another is waiting",
				zap.Uint64("actor", uint64(id)), zap.Uint64("waiting", uint64(prev)))
			return fmt.Errorf("begin %d: %w", id, ErrTurnInProgress)
		}
	}
	sc.acting = id
	if t, ok := s.Turns.Get(id); ok {
		t.Waiting = true
	}
	return nil
}

// Finalize ends id's turn. A failed action ends the turn-taking phase
// without charging debt; the entity stays at the front.
func (sc *Scheduler) Finalize(id ecs.EntityID, a *Action) error {
	s := sc.sim
	sc.acting = ecs.NoEntity
	t, hasTurn := s.Turns.Get(id)
	if hasTurn {
		t.Waiting = false
	}
	if !a.Success {
		return nil
	}
	if s.Valid(id) {
		s.progress(id)
	}
	if err := sc.Pop(id); err != nil {
		return err
	}
	if !s.Valid(id) || !hasTurn {
		return nil
	}
	t.Debt += s.TurnLength(id)
	s.tickCooldowns(id)
	if id == s.player {
		s.knowledge.Recompute(id)
	}
	return nil
}

// Cancel ends id's turn-taking phase without performing anything, as when
// the player aborts an input request.
func (sc *Scheduler) Cancel(id ecs.EntityID) {
	sc.acting = ecs.NoEntity
	if t, ok := sc.sim.Turns.Get(id); ok {
		t.Waiting = false
	}
}
