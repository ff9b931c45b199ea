package main

import (
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/system"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

// logPresenter stands in for animation playback: hints are logged and
// playback finishes immediately.
type logPresenter struct {
	log *zap.Logger
}

func (p *logPresenter) Enqueue(owner ecs.EntityID, hints []system.Hint) {
	p.log.Debug("presentation hints",
		zap.Uint64("owner", uint64(owner)), zap.Int("count", len(hints)))
}

func (p *logPresenter) Playing() bool { return false }

// consoleJournal prints turn summaries.
type consoleJournal struct {
	lines int
}

func (j *consoleJournal) Record(line string) {
	j.lines++
	fmt.Printf("  \033[90m%4d\033[0m %s\n", j.lines, line)
}

// sight marks tiles within a fixed radius of the viewer as explored.
type sight struct {
	level    *world.Level
	radius   int
	explored map[world.Point]struct{}
}

func newSight(level *world.Level) *sight {
	return &sight{level: level, radius: 4, explored: make(map[world.Point]struct{}, 128)}
}

func (v *sight) Recompute(viewer ecs.EntityID) {
	pos, ok := v.level.Position(viewer)
	if !ok {
		return
	}
	for dy := -v.radius; dy <= v.radius; dy++ {
		for dx := -v.radius; dx <= v.radius; dx++ {
			p := world.Point{X: pos.X + dx, Y: pos.Y + dy}
			if v.level.InBounds(p) {
				v.explored[p] = struct{}{}
			}
		}
	}
}
