package event

import "github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"

// Handle identifies one subscription. Zero is never issued.
type Handle uint64

type key struct {
	target ecs.EntityID
	kind   Kind
}

type subscription[P any] struct {
	handle Handle
	key    key
	owner  ecs.EntityID
	fn     func(P)
	dead   bool
}

// Bus maps (entity, kind) to an ordered subscriber list. Fire runs every
// subscriber synchronously in registration order before returning.
// Single goroutine only (simulation loop), no locks.
type Bus[P any] struct {
	next     Handle
	subs     map[key][]*subscription[P]
	byHandle map[Handle]*subscription[P]
}

func NewBus[P any]() *Bus[P] {
	return &Bus[P]{
		subs:     make(map[key][]*subscription[P]),
		byHandle: make(map[Handle]*subscription[P]),
	}
}

// Subscribe registers fn on target's hook kind. owner is the entity whose
// effect holds the subscription; Drop(owner) removes it as well.
func (b *Bus[P]) Subscribe(target ecs.EntityID, kind Kind, owner ecs.EntityID, fn func(P)) Handle {
	b.next++
	k := key{target: target, kind: kind}
	s := &subscription[P]{handle: b.next, key: k, owner: owner, fn: fn}
	b.subs[k] = append(b.subs[k], s)
	b.byHandle[s.handle] = s
	return s.handle
}

// Unsubscribe removes a subscription. Safe to call from inside a handler:
// the removed subscriber is skipped for the rest of the current Fire.
func (b *Bus[P]) Unsubscribe(h Handle) bool {
	s, ok := b.byHandle[h]
	if !ok {
		return false
	}
	s.dead = true
	delete(b.byHandle, h)

	list := b.subs[s.key]
	kept := make([]*subscription[P], 0, len(list))
	for _, other := range list {
		if other != s {
			kept = append(kept, other)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, s.key)
	} else {
		b.subs[s.key] = kept
	}
	return true
}

// Fire invokes every live subscriber of (target, kind) in registration
// order. Subscribers added while firing are not called for this event.
// Returns the number of handlers invoked.
func (b *Bus[P]) Fire(target ecs.EntityID, kind Kind, payload P) int {
	list := b.subs[key{target: target, kind: kind}]
	if len(list) == 0 {
		return 0
	}
	snapshot := make([]*subscription[P], len(list))
	copy(snapshot, list)

	n := 0
	for _, s := range snapshot {
		if s.dead {
			continue
		}
		s.fn(payload)
		n++
	}
	return n
}

// Drop removes every subscription that targets id or is owned by id.
// Called together with map removal so no handler outlives its entity.
func (b *Bus[P]) Drop(id ecs.EntityID) int {
	var doomed []Handle
	for h, s := range b.byHandle {
		if s.key.target == id || s.owner == id {
			doomed = append(doomed, h)
		}
	}
	for _, h := range doomed {
		b.Unsubscribe(h)
	}
	return len(doomed)
}

// Count returns the number of subscribers on (target, kind).
func (b *Bus[P]) Count(target ecs.EntityID, kind Kind) int {
	return len(b.subs[key{target: target, kind: kind}])
}

// Referencing reports whether any subscription targets or is owned by id.
func (b *Bus[P]) Referencing(id ecs.EntityID) bool {
	for _, s := range b.byHandle {
		if s.key.target == id || s.owner == id {
			return true
		}
	}
	return false
}

// Len returns the total number of live subscriptions.
func (b *Bus[P]) Len() int { return len(b.byHandle) }
