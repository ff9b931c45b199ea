package event

// Kind names a hook point an entity exposes on its bus.
type Kind uint8

const (
	Move               Kind = iota // owner moved to a new tile
	Attacked                       // owner is about to take damage
	AttackOther                    // owner is about to damage a target
	Pickup                         // owner picked up an item
	TransactionCreated             // owner opened an attack transaction
	ActionStarted                  // owner began performing an action
	ActionEnded                    // owner finished performing an action
	Kill                           // owner killed a target
	kindCount
)

var kindNames = [kindCount]string{
	Move:               "move",
	Attacked:           "attacked",
	AttackOther:        "attack_other",
	Pickup:             "pickup",
	TransactionCreated: "transaction_created",
	ActionStarted:      "action_started",
	ActionEnded:        "action_ended",
	Kill:               "kill",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a template trigger name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
