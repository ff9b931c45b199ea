package world

import "github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"

// Feature is the interactive fixture on a tile.
type Feature uint8

const (
	FeatureNone Feature = iota
	FeatureDoorClosed
	FeatureDoorOpen
	FeatureStairs
	FeatureAltar
)

// Tile holds per-cell state. Occupant is the single blocking actor;
// Items are non-blocking entities lying on the floor in drop order.
type Tile struct {
	Wall     bool
	Feature  Feature
	Blood    int
	Occupant ecs.EntityID
	Items    []ecs.EntityID

	AltarAbility string // ability granted by an altar
	AltarCost    int    // blood the altar asks for
	AltarUsed    bool
}
