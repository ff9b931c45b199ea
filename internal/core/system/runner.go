package system

import (
	"fmt"
	"sort"
	"time"
)

// Runner executes systems in phase order each step. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	steps   uint64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs one step. The first system error halts the step.
func (r *Runner) Tick(dt time.Duration) error {
	r.ensureSorted()
	r.steps++
	for _, s := range r.systems {
		if err := s.Update(dt); err != nil {
			return fmt.Errorf("step %d phase %d: %w", r.steps, s.Phase(), err)
		}
	}
	return nil
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() != phase {
			continue
		}
		if err := s.Update(dt); err != nil {
			return fmt.Errorf("phase %d: %w", phase, err)
		}
	}
	return nil
}

// Steps returns how many full steps have run.
func (r *Runner) Steps() uint64 { return r.steps }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
