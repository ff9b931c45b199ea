package component

// Identity names an entity for logs and the journal.
// Pure data with no methods. Mutations happen in system functions.
type Identity struct {
	Name     string
	Template string // monster/item template ID ("" for hand-built entities)
}

// Health is the hit point pool. Dead is set once Current reaches zero or
// below and never cleared.
type Health struct {
	Current int
	Max     int
	Dead    bool
}

// Attributes holds base stats before stat modifiers.
type Attributes struct {
	Strength int
}

// TurnState is the scheduling counter of a schedulable entity.
// Debt <= 0 means eligible. Waiting is set while an action for this
// entity is being assembled; the scheduler refuses to begin another
// entity's turn until it clears.
type TurnState struct {
	Debt       int
	TurnLength int
	Waiting    bool
}

// Experience is level state. Reward is granted to whoever kills the owner.
type Experience struct {
	Level  int
	Exp    int
	Reward int
}

// Pool is the shared ability currency (blood).
type Pool struct {
	Blood int
}

// Player marks the player-controlled entity.
type Player struct{}

// Brain marks an AI-controlled entity.
type Brain struct{}
