package system

import (
	"fmt"
	"time"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/data"
	"go.uber.org/zap"
)

// EffectKind is the variant tag of an Effect. All behaviour is dispatched
// by switching on it (effect_kinds.go).
type EffectKind uint8

const (
	KindNone EffectKind = iota
	// triggerable
	KindBloodBolt
	KindBlink
	KindHaste
	KindShockwave
	// reactive
	KindChainStrike
	KindThorns
	KindBloodSiphon
	KindRend
	KindFeast
	// stat modifiers
	KindFrenzy
	KindBrute
	KindSwiftness
	// statuses
	KindBleed
	KindRegeneration
	KindRoot
)

var kindByName = map[string]EffectKind{
	"blood_bolt":   KindBloodBolt,
	"blink":        KindBlink,
	"haste":        KindHaste,
	"shockwave":    KindShockwave,
	"chain_strike": KindChainStrike,
	"thorns":       KindThorns,
	"blood_siphon": KindBloodSiphon,
	"rend":         KindRend,
	"feast":        KindFeast,
	"frenzy":       KindFrenzy,
	"brute":        KindBrute,
	"swiftness":    KindSwiftness,
	"bleed":        KindBleed,
	"regeneration": KindRegeneration,
	"root":         KindRoot,
}

// ParseEffectKind maps a template kind name to its variant.
func ParseEffectKind(name string) (EffectKind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Capability is the explicit capability set of an effect kind.
type Capability uint8

const (
	CapTriggerable  Capability = 1 << iota // activated by an action
	CapReactive                            // activated by bus events
	CapStatModifier                        // contributes stat terms
	CapTicking                             // time-driven status
	CapTargeted                            // needs a grid position from input
)

var capabilities = map[EffectKind]Capability{
	KindBloodBolt:    CapTriggerable | CapTargeted,
	KindBlink:        CapTriggerable | CapTargeted,
	KindHaste:        CapTriggerable,
	KindShockwave:    CapTriggerable,
	KindChainStrike:  CapReactive,
	KindThorns:       CapReactive,
	KindBloodSiphon:  CapReactive,
	KindRend:         CapReactive,
	KindFeast:        CapReactive,
	KindFrenzy:       CapStatModifier,
	KindBrute:        CapStatModifier,
	KindSwiftness:    CapStatModifier,
	KindBleed:        CapTicking,
	KindRegeneration: CapTicking,
	KindRoot:         CapTicking,
}

// Effect is an ability or status instance attached to one owner.
type Effect struct {
	ID              string // template ID
	Name            string
	Kind            EffectKind
	Owner           ecs.EntityID
	Source          ecs.EntityID // statuses: entity that applied it
	Count           int          // stack count, >= 1
	Cost            int
	CooldownLength  int
	Cooldown        int
	PlayerTriggered bool
	Range           int
	Triggers        []event.Kind
	Magnitude       data.Formula
	Status          string // status template this effect applies

	// Related lists the entities the last activation touched.
	Related []ecs.EntityID

	Interval time.Duration // statuses: time between ticks
	Duration int           // statuses: ticks before detach, 0 = infinite
	Elapsed  time.Duration
	Ticks    int

	subs     []event.Handle
	attached bool
}

func (e *Effect) Has(c Capability) bool { return capabilities[e.Kind]&c != 0 }

// Attached reports whether the effect is still on its owner.
func (e *Effect) Attached() bool { return e.attached }

// EffectSet is the per-entity component holding abilities and statuses in
// acquisition order.
type EffectSet struct {
	Abilities []*Effect
	Statuses  []*Effect
}

// Find returns the ability with the given template ID.
func (set *EffectSet) Find(id string) *Effect {
	for _, e := range set.Abilities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// FindStatus returns the status with the given template ID.
func (set *EffectSet) FindStatus(id string) *Effect {
	for _, e := range set.Statuses {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// newAbility clones a template into a fresh instance.
func newAbility(tmpl *data.AbilityTemplate, owner ecs.EntityID) (*Effect, error) {
	kind, ok := ParseEffectKind(tmpl.Kind)
	if !ok {
		return nil, fmt.Errorf("ability %s kind %q: %w", tmpl.ID, tmpl.Kind, ErrUnknownKind)
	}
	return &Effect{
		ID:              tmpl.ID,
		Name:            tmpl.Name,
		Kind:            kind,
		Owner:           owner,
		Count:           1,
		Cost:            tmpl.Cost,
		CooldownLength:  tmpl.Cooldown,
		PlayerTriggered: tmpl.PlayerTriggered,
		Range:           tmpl.Range,
		Triggers:        append([]event.Kind(nil), tmpl.Triggers...),
		Magnitude:       tmpl.Magnitude,
		Status:          tmpl.Status,
	}, nil
}

// newStatus clones a status template into a fresh instance.
func newStatus(tmpl *data.StatusTemplate, owner, source ecs.EntityID) (*Effect, error) {
	kind, ok := ParseEffectKind(tmpl.Kind)
	if !ok {
		return nil, fmt.Errorf("status %s kind %q: %w", tmpl.ID, tmpl.Kind, ErrUnknownKind)
	}
	return &Effect{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		Kind:      kind,
		Owner:     owner,
		Source:    source,
		Count:     1,
		Magnitude: tmpl.Magnitude,
		Interval:  tmpl.Interval,
		Duration:  tmpl.Duration,
	}, nil
}

func (s *Sim) effectSet(id ecs.EntityID) *EffectSet {
	set, ok := s.Effects.Get(id)
	if !ok {
		set = &EffectSet{}
		s.Effects.Set(id, set)
	}
	return set
}

// Acquire grants an ability. Acquiring one the owner already has increases
// its stack count instead.
func (s *Sim) Acquire(owner ecs.EntityID, abilityID string) (*Effect, error) {
	if !s.world.Valid(owner) {
		return nil, fmt.Errorf("acquire %s: %w", abilityID, ErrInvalidEntity)
	}
	var tmpl *data.AbilityTemplate
	if s.abilities != nil {
		tmpl = s.abilities.Get(abilityID)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("acquire %s: %w", abilityID, ErrUnknownAbility)
	}

	set := s.effectSet(owner)
	if e := set.Find(abilityID); e != nil {
		e.Count++
		s.log.Debug("ability stacked",
			zap.Uint64("owner", uint64(owner)), zap.String("ability", abilityID), zap.Int("count", e.Count))
		return e, nil
	}

	e, err := newAbility(tmpl, owner)
	if err != nil {
		return nil, err
	}
	s.attach(set, e, false)
	return e, nil
}

// ApplyStatus attaches a status to target. Re-applying an active status
// stacks it and restarts its duration.
func (s *Sim) ApplyStatus(target ecs.EntityID, statusID string, source ecs.EntityID) (*Effect, error) {
	if !s.Alive(target) {
		return nil, fmt.Errorf("apply %s: %w", statusID, ErrInvalidEntity)
	}
	var tmpl *data.StatusTemplate
	if s.statuses != nil {
		tmpl = s.statuses.Get(statusID)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("apply %s: %w", statusID, ErrUnknownStatus)
	}

	set := s.effectSet(target)
	if e := set.FindStatus(statusID); e != nil {
		e.Count++
		e.Ticks = 0
		e.Source = source
		return e, nil
	}

	e, err := newStatus(tmpl, target, source)
	if err != nil {
		return nil, err
	}
	s.attach(set, e, true)
	s.emit(Hint{Kind: HintStatus, Entity: target, Other: source, Label: e.ID})
	return e, nil
}

func (s *Sim) attach(set *EffectSet, e *Effect, status bool) {
	e.attached = true
	if status {
		set.Statuses = append(set.Statuses, e)
	} else {
		set.Abilities = append(set.Abilities, e)
	}
	if !e.Has(CapReactive) {
		return
	}
	for _, kind := range e.Triggers {
		eff := e
		h := s.bus.Subscribe(e.Owner, kind, e.Owner, func(n *Notice) {
			s.react(eff, n)
		})
		e.subs = append(e.subs, h)
	}
}

// Detach removes an effect from its owner and drops its subscriptions.
func (s *Sim) Detach(e *Effect) {
	if !e.attached {
		return
	}
	e.attached = false
	for _, h := range e.subs {
		s.bus.Unsubscribe(h)
	}
	e.subs = nil

	set, ok := s.Effects.Get(e.Owner)
	if !ok {
		return
	}
	set.Abilities = removeEffect(set.Abilities, e)
	set.Statuses = removeEffect(set.Statuses, e)
}

func removeEffect(list []*Effect, e *Effect) []*Effect {
	for i, other := range list {
		if other == e {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Magnitude evaluates the effect's stack formula. It depends on Count only.
func (s *Sim) Magnitude(e *Effect) float64 {
	if e.Magnitude.Script != "" && s.formulas != nil {
		if v, ok := s.formulas.Formula(e.Magnitude.Script, e.Count); ok {
			return v
		}
	}
	return e.Magnitude.Linear(e.Count)
}

// Immobilized reports whether a status holds the entity in place.
func (s *Sim) Immobilized(id ecs.EntityID) bool {
	set, ok := s.Effects.Get(id)
	if !ok {
		return false
	}
	for _, e := range set.Statuses {
		if e.Kind == KindRoot {
			return true
		}
	}
	return false
}
