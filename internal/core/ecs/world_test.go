package ecs

import "testing"

type health struct{ hp int }

func TestEntityPoolNeverReusesIDs(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	if a.IsZero() {
		t.Fatal("first entity must not be the zero ID")
	}
	p.Destroy(a)
	b := p.Create()
	if a == b {
		t.Fatalf("reused ID %d after destroy", a)
	}
	if a.Index() != b.Index() {
		t.Errorf("expected index reuse, got %d and %d", a.Index(), b.Index())
	}
	if p.Alive(a) {
		t.Error("stale ID reported alive")
	}
	if !p.Alive(b) {
		t.Error("fresh ID reported dead")
	}
	if p.Alive(NoEntity) {
		t.Error("zero ID reported alive")
	}
}

func TestWorldDeferredDestruction(t *testing.T) {
	w := NewWorld()
	hp := NewPtrComponentStore[health]()
	w.Registry().Register(hp)
	if w.Registry().Len() != 1 {
		t.Fatalf("expected 1 registered store, got %d", w.Registry().Len())
	}

	id := w.CreateEntity()
	hp.Set(id, &health{hp: 3})

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	if w.Valid(id) {
		t.Error("entity still valid after being marked")
	}
	if !w.Alive(id) {
		t.Error("entity should stay alive until the flush")
	}
	if _, ok := hp.Get(id); !ok {
		t.Error("components must stay readable until the flush")
	}
	if w.PendingDestruction() != 1 {
		t.Errorf("expected 1 pending destruction, got %d", w.PendingDestruction())
	}

	w.FlushDestroyQueue()
	if w.Alive(id) {
		t.Error("entity alive after flush")
	}
	if hp.Has(id) || hp.Len() != 0 {
		t.Error("component survived flush")
	}
}
