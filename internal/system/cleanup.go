package system

import (
	"time"

	coresys "github.com/ejohnd98/DarkRelic-sub001/internal/core/system"
)

// CleanupSystem flushes the destroy queue at the end of each step.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	sim *Sim
}

func NewCleanupSystem(sim *Sim) *CleanupSystem {
	return &CleanupSystem{sim: sim}
}

func (c *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (c *CleanupSystem) Update(_ time.Duration) error {
	c.sim.world.FlushDestroyQueue()
	return nil
}
