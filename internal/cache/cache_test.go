package cache

import "testing"

func TestPutUpdatesExistingEntryWithoutGrowing(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Put("alpha", 1)
	c.Put("beta", 2)
	c.Put("alpha", 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if v, ok := c.Get("alpha"); !ok || v != 3 {
		t.Fatalf("expected updated value 3, got %d (hit %v)", v, ok)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Put("alpha", 1)
	c.Put("beta", 2)
	c.Get("alpha")
	c.Put("gamma", 3)

	if _, ok := c.Get("beta"); ok {
		t.Fatalf("expected beta to be evicted")
	}
	for _, key := range []string{"alpha", "gamma"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("expected %s to remain cached", key)
		}
	}
}

func TestZeroSizeHoldsOneEntry(t *testing.T) {
	c := NewLRU[int, string](0)

	c.Put(1, "one")
	c.Put(2, "two")

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	if v, ok := c.Get(2); !ok || v != "two" {
		t.Fatalf("expected latest entry to be kept, got %q", v)
	}
}

func TestRemoveFuncDropsMatchingKeys(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Put("a/1", 1)
	c.Put("a/2", 2)
	c.Put("b/1", 3)

	if n := c.RemoveFunc(func(k string) bool { return k[0] == 'a' }); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", c.Len())
	}
	if _, ok := c.Get("b/1"); !ok {
		t.Fatalf("expected b/1 to remain cached")
	}
}
