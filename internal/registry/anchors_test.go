package registry

import (
	"sync"
	"testing"
)

func TestAnchorRegistry(t *testing.T) {
	r := NewAnchorRegistry()

	first := r.RegisterFunction("uri-a", "add")
	if first != 1 {
		t.Errorf("first anchor = %d, want 1", first)
	}
	second := r.RegisterFunction("uri-a", "subtract")
	if second != 2 {
		t.Errorf("second anchor = %d, want 2", second)
	}
	if again := r.RegisterFunction("uri-a", "add"); again != first {
		t.Errorf("re-registration = %d, want %d", again, first)
	}

	// Functions and types share the counter but not the namespace.
	typeAnchor := r.RegisterType("uri-a", "add")
	if typeAnchor == first {
		t.Errorf("type anchor %d collides with function anchor", typeAnchor)
	}

	q, ok := r.LookupFunction(first)
	if !ok || q.URI != "uri-a" || q.Name != "add" {
		t.Errorf("LookupFunction(%d) = %v, %v", first, q, ok)
	}
	if _, ok := r.LookupFunction(99); ok {
		t.Error("LookupFunction of unassigned anchor should fail")
	}
	if _, ok := r.LookupType(typeAnchor); !ok {
		t.Error("LookupType of assigned anchor should succeed")
	}
}

func TestAnchorRegistryConcurrent(t *testing.T) {
	r := NewAnchorRegistry()
	var wg sync.WaitGroup
	anchors := make([]uint32, 32)
	for i := range anchors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			anchors[i] = r.RegisterFunction("uri", "same")
		}(i)
	}
	wg.Wait()
	for i, a := range anchors {
		if a != anchors[0] {
			t.Fatalf("anchors[%d] = %d, want %d", i, a, anchors[0])
		}
	}
}
