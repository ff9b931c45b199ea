package main

import (
	"fmt"
	"math/rand"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/data"
	"github.com/ejohnd98/DarkRelic-sub001/internal/system"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

var arenaRows = []string{
	"###################",
	"#.......#.........#",
	"#.......+.........#",
	"#.......#....._...#",
	"#####'###.........#",
	"#.................#",
	"#.................#",
	"#...............>.#",
	"###################",
}

var (
	playerStart = world.Point{X: 2, Y: 2}
	altarAt     = world.Point{X: 14, Y: 3}
)

func newArena() (*world.Level, error) {
	l, err := world.ParseLevel(arenaRows)
	if err != nil {
		return nil, err
	}
	altar := l.Tile(altarAt)
	altar.AltarAbility = "thorns"
	altar.AltarCost = 6
	return l, nil
}

// populate places the player, a few monsters on random free floor tiles
// and some blood vials. Returns the number of monsters spawned.
func populate(sim *system.Sim, level *world.Level, monsters *data.MonsterTable, rng *rand.Rand) (int, error) {
	tmpl := monsters.Get("player")
	if tmpl == nil {
		return 0, fmt.Errorf("monster table has no player template")
	}
	if _, err := sim.SpawnPlayer(tmpl, playerStart); err != nil {
		return 0, err
	}

	var floor []world.Point
	for y := 0; y < level.Height(); y++ {
		for x := 0; x < level.Width(); x++ {
			p := world.Point{X: x, Y: y}
			if level.CanEnter(p) && level.Tile(p).Feature == world.FeatureNone && p.Chebyshev(playerStart) > 3 {
				floor = append(floor, p)
			}
		}
	}
	rng.Shuffle(len(floor), func(i, j int) { floor[i], floor[j] = floor[j], floor[i] })

	spawned := 0
	for _, id := range monsters.IDs() {
		if id == "player" {
			continue
		}
		for n := 0; n < 2 && len(floor) > 0; n++ {
			at := floor[0]
			floor = floor[1:]
			if _, err := sim.SpawnMonster(id, at); err != nil {
				return spawned, err
			}
			spawned++
		}
	}
	for n := 0; n < 3 && len(floor) > 0; n++ {
		at := floor[0]
		floor = floor[1:]
		if _, err := sim.SpawnItem("blood vial", "blood_vial", 4, at); err != nil {
			return spawned, err
		}
	}
	return spawned, nil
}

// dungeon ends the run when the player takes the stairs.
type dungeon struct {
	descended bool
}

func (d *dungeon) Descend(ecs.EntityID) error {
	d.descended = true
	return nil
}
