package system

import "time"

// Phase defines execution ordering within a single simulation step.
type Phase int

const (
	PhaseInput      Phase = iota // 0: poll the player input source
	PhaseUpdate                  // 1: turn processing
	PhasePostUpdate              // 2: time-driven status ticks
	PhaseOutput                  // 3: hand results to presentation
	PhaseCleanup                 // 4: destroy queued entities
)

// System is the interface every simulation system implements.
// Update returns an error only for invariant violations; the runner
// stops the step at the first one.
type System interface {
	Phase() Phase
	Update(dt time.Duration) error
}
