package system

import (
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"go.uber.org/zap"
)

// DamageEvent is the mutable record of one hit. Attacked/AttackOther
// subscribers may adjust Added and Multiplier before it is applied.
type DamageEvent struct {
	Attacker   ecs.EntityID
	Target     ecs.EntityID
	Base       float64
	Added      float64
	Multiplier float64
	Dealt      int // filled in once applied
	Killed     bool
}

// Damage is the final integer amount, never negative.
func (d *DamageEvent) Damage() int {
	v := int((d.Base + d.Added) * d.Multiplier)
	if v < 0 {
		return 0
	}
	return v
}

// Transaction is one attack resolution against an ordered, duplicate-free
// target set. Targets appended while it resolves are damaged in the same
// pass.
type Transaction struct {
	Attacker   ecs.EntityID
	Multiplier float64 // scales the attacker's strength
	Bonus      float64 // flat damage added to every hit
	Label      string  // journal verb ("hits", "blasts")
	Periodic   bool    // opened by a status tick; effects reacting to attacks ignore it

	targets []ecs.EntityID
	seen    map[ecs.EntityID]struct{}
	Events  []*DamageEvent
}

// NewTransaction opens a transaction for attacker.
func NewTransaction(attacker ecs.EntityID, multiplier float64) *Transaction {
	return &Transaction{
		Attacker:   attacker,
		Multiplier: multiplier,
		Label:      "hits",
		seen:       make(map[ecs.EntityID]struct{}, 4),
	}
}

// AddTarget appends a target. Returns false if it is already in the set.
func (tx *Transaction) AddTarget(id ecs.EntityID) bool {
	if _, dup := tx.seen[id]; dup {
		return false
	}
	tx.seen[id] = struct{}{}
	tx.targets = append(tx.targets, id)
	return true
}

// Targets returns a copy of the target set in insertion order.
func (tx *Transaction) Targets() []ecs.EntityID {
	out := make([]ecs.EntityID, len(tx.targets))
	copy(out, tx.targets)
	return out
}

// Contains reports whether id is in the target set.
func (tx *Transaction) Contains(id ecs.EntityID) bool {
	_, ok := tx.seen[id]
	return ok
}

// Resolve runs the transaction. Reactive effects fired from inside a
// resolution may open nested transactions up to the configured depth.
func (s *Sim) Resolve(tx *Transaction) error {
	if s.txDepth >= s.cfg.Combat.MaxTransactionDepth {
		s.log.Debug("transaction refused: nesting limit",
			zap.Uint64("attacker", uint64(tx.Attacker)), zap.Int("depth", s.txDepth))
		return ErrTransactionDepth
	}
	s.txDepth++
	defer func() { s.txDepth-- }()

	if s.Valid(tx.Attacker) {
		s.fire(tx.Attacker, &Notice{Kind: event.TransactionCreated, Tx: tx})
	}

	// Index loop: targets appended by handlers are visited too.
	for i := 0; i < len(tx.targets); i++ {
		target := tx.targets[i]
		if !s.Alive(target) {
			continue
		}
		s.hit(tx, target)
	}
	return nil
}

func (s *Sim) hit(tx *Transaction, target ecs.EntityID) {
	strength := 0.0
	if s.Valid(tx.Attacker) {
		strength = s.EffectiveStat(tx.Attacker, StatStrength)
	}
	ev := &DamageEvent{
		Attacker:   tx.Attacker,
		Target:     target,
		Base:       strength * tx.Multiplier,
		Added:      tx.Bonus,
		Multiplier: 1,
	}
	tx.Events = append(tx.Events, ev)

	if s.Valid(tx.Attacker) {
		s.fire(tx.Attacker, &Notice{Kind: event.AttackOther, Other: target, Tx: tx, Damage: ev})
		if !s.Alive(target) {
			return
		}
	}
	s.fire(target, &Notice{Kind: event.Attacked, Other: tx.Attacker, Tx: tx, Damage: ev})
	if !s.Alive(target) {
		return
	}

	from, _ := s.Position(tx.Attacker)
	to, _ := s.Position(target)
	s.emit(Hint{Kind: HintAttack, Entity: tx.Attacker, Other: target, From: from, To: to})

	ev.Dealt = ev.Damage()
	s.note("%s %s %s for %d", s.Name(tx.Attacker), tx.Label, s.Name(target), ev.Dealt)
	ev.Killed = s.applyDamage(target, tx.Attacker, ev.Dealt)
}

// applyDamage subtracts health and kills the target at zero or below.
// Returns true when this call killed it. No bus events fire here.
func (s *Sim) applyDamage(target, source ecs.EntityID, amount int) bool {
	h, ok := s.Healths.Get(target)
	if !ok || h.Dead {
		return false
	}
	h.Current -= amount
	s.emit(Hint{Kind: HintDamage, Entity: target, Other: source, Amount: amount})
	if h.Current > 0 {
		return false
	}
	s.kill(target, source)
	return true
}

// heal restores health up to the maximum and returns the amount restored.
func (s *Sim) heal(id ecs.EntityID, amount int) int {
	h, ok := s.Healths.Get(id)
	if !ok || h.Dead || amount <= 0 {
		return 0
	}
	before := h.Current
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
	return h.Current - before
}

// Attack opens and resolves a single-target transaction at the
// configured melee multiplier.
func (s *Sim) Attack(attacker, target ecs.EntityID) (*Transaction, error) {
	tx := NewTransaction(attacker, s.cfg.Combat.AttackMultiplier)
	tx.AddTarget(target)
	if err := s.Resolve(tx); err != nil {
		return tx, fmt.Errorf("attack: %w", err)
	}
	return tx, nil
}
