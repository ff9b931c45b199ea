package component

import "github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"

// Inventory holds picked-up item entities in pickup order.
type Inventory struct {
	Capacity int
	Items    []ecs.EntityID
}

// Item marks a pickable entity. Blood vials add Amount to the pool on pickup.
type Item struct {
	Kind   string // "blood_vial", "relic", ...
	Amount int
}
