package system

import (
	"fmt"
	"time"

	coresys "github.com/ejohnd98/DarkRelic-sub001/internal/core/system"
	"go.uber.org/zap"
)

// TurnSystem resolves turns during PhaseUpdate until the player must be
// asked for input, an animation starts playing or the per-step turn limit
// is hit. A deferred player action is polled once per step.
type TurnSystem struct {
	sim   *Sim
	sched *Scheduler
	input InputSource

	pending *Action
}

func NewTurnSystem(sim *Sim, sched *Scheduler, input InputSource) *TurnSystem {
	return &TurnSystem{sim: sim, sched: sched, input: input}
}

func (ts *TurnSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Pending returns the action waiting on player input, if any.
func (ts *TurnSystem) Pending() *Action { return ts.pending }

func (ts *TurnSystem) Update(_ time.Duration) error {
	s := ts.sim
	if s.presenter.Playing() {
		return nil
	}
	for i := 0; i < s.cfg.Sim.MaxTurnsPerStep; i++ {
		if ts.pending != nil {
			done, err := ts.drive()
			if err != nil || !done {
				return err
			}
			continue
		}

		if err := ts.sched.Recover(); err != nil {
			return fmt.Errorf("turn: %w", err)
		}
		id, _ := ts.sched.Peek()
		if err := ts.sched.Begin(id); err != nil {
			return fmt.Errorf("turn: %w", err)
		}

		if !s.Players.Has(id) {
			if err := ts.act(s.decide(id)); err != nil {
				return err
			}
		} else {
			var a *Action
			if ts.input != nil {
				a = ts.input.NextAction(s, id)
			}
			if a == nil {
				return nil // still Waiting; ask again next step
			}
			if !a.Ready() {
				ts.pending = a
				continue
			}
			if err := ts.act(a); err != nil {
				return err
			}
		}

		if s.presenter.Playing() {
			return nil
		}
	}
	return nil
}

// act performs a and finalizes the turn. A failed monster action is
// replaced by a wait so a monster can never stall the loop.
func (ts *TurnSystem) act(a *Action) error {
	s := ts.sim
	if err := s.Perform(a); err != nil {
		ts.sched.Cancel(a.Owner)
		return err
	}
	if !a.Success && !s.Players.Has(a.Owner) && s.Valid(a.Owner) {
		a = NewAction(a.Owner, Wait{})
		if err := s.Perform(a); err != nil {
			ts.sched.Cancel(a.Owner)
			return err
		}
	}
	return ts.sched.Finalize(a.Owner, a)
}

// drive advances the deferred input protocol by at most one candidate.
// Reports true once the pending action is performed or discarded.
func (ts *TurnSystem) drive() (bool, error) {
	s := ts.sim
	a := ts.pending
	if !s.Valid(a.Owner) {
		ts.discard(a, "owner left play")
		return true, nil
	}
	req := a.NextRequest()
	if req == nil {
		ts.pending = nil
		return true, ts.act(a)
	}
	if req.Abort {
		ts.discard(a, "aborted")
		return true, nil
	}
	if ts.input == nil {
		return false, nil
	}
	if req.MarkPrompted() {
		ts.input.Prompt(req)
	}
	in, ok := ts.input.Candidate(req)
	if !ok {
		return false, nil
	}
	if in.Cancel {
		req.Cancel()
		ts.discard(a, "cancelled")
		return true, nil
	}
	if !req.Offer(in.Pos) || !a.Ready() {
		return false, nil
	}
	ts.pending = nil
	return true, ts.act(a)
}

func (ts *TurnSystem) discard(a *Action, reason string) {
	ts.pending = nil
	ts.sched.Cancel(a.Owner)
	ts.sim.log.Debug("pending action discarded",
		zap.String("action", a.String()), zap.String("reason", reason))
}
