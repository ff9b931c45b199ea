package system

import "errors"

// Invariant violations: returned to the caller and logged at error level.
// Continuing after one of these risks corrupting turn order.
var (
	ErrAlreadyPerformed  = errors.New("action already performed")
	ErrAborted           = errors.New("action aborted by input request")
	ErrInputPending      = errors.New("action has unfilled input requests")
	ErrInvalidEntity     = errors.New("entity removed from play")
	ErrTurnMismatch      = errors.New("popped entity does not match actor")
	ErrRecoveryExhausted = errors.New("debt recovery exceeded iteration bound")
	ErrNoActors          = errors.New("no schedulable entities on level")
	ErrTurnInProgress    = errors.New("another entity is still assembling its action")
)

// Precondition failures: the activation or action fails, nothing else happens.
var (
	ErrOnCooldown            = errors.New("ability on cooldown")
	ErrInsufficientResources = errors.New("insufficient blood and health")
	ErrNotApplicable         = errors.New("ability has nothing to act on")
	ErrNotTriggerable        = errors.New("ability is not player triggered")
	ErrTransactionDepth      = errors.New("attack transaction nesting limit reached")
)

// Missing dependencies and lookups.
var (
	ErrUnknownAbility = errors.New("unknown ability template")
	ErrUnknownStatus  = errors.New("unknown status template")
	ErrUnknownKind    = errors.New("unknown effect kind")
)
