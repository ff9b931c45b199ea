package system

import (
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
)

// Notice is the payload of every bus event.
//
//	Move               From, To
//	Attacked           Other = attacker, Tx, Damage
//	AttackOther        Other = target, Tx, Damage
//	Pickup             Other = item
//	TransactionCreated Tx
//	ActionStarted/Ended Action
//	Kill               Other = victim
type Notice struct {
	Kind   event.Kind
	Source ecs.EntityID // entity whose bus fired
	Other  ecs.EntityID
	From   world.Point
	To     world.Point
	Action *Action
	Tx     *Transaction
	Damage *DamageEvent
}

// HintKind classifies a presentation hint.
type HintKind uint8

const (
	HintMove HintKind = iota
	HintAttack
	HintDamage
	HintDeath
	HintAbility
	HintPickup
	HintDoor
	HintStatus
)

// Hint is an opaque animation descriptor for the presentation collaborator.
type Hint struct {
	Kind   HintKind
	Entity ecs.EntityID
	Other  ecs.EntityID
	From   world.Point
	To     world.Point
	Amount int
	Label  string
}

func (s *Sim) fire(target ecs.EntityID, n *Notice) int {
	n.Source = target
	return s.bus.Fire(target, n.Kind, n)
}
