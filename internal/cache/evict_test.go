package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestTrim_RemovesOldestFirst(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	ns := Namespace{
		"a_a_a": entryAt(t, base, time.Hour),
		"b_b_b": entryAt(t, base.Add(100*time.Millisecond), time.Hour),
		"c_c_c": entryAt(t, base.Add(200*time.Millisecond), time.Hour),
	}

	evicted := trim(ns, 2)
	if evicted != 1 {
		t.Fatalf("trim evicted %d entries, want 1", evicted)
	}
	if _, ok := ns["a_a_a"]; ok {
		t.Error("oldest entry survived eviction")
	}
	if len(ns) != 2 {
		t.Errorf("namespace holds %d entries after trim, want 2", len(ns))
	}
}

func TestTrim_UnderCapacity(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	ns := Namespace{"a_a_a": entryAt(t, base, time.Hour)}

	if evicted := trim(ns, 5); evicted != 0 {
		t.Errorf("trim evicted %d entries under capacity", evicted)
	}
	if len(ns) != 1 {
		t.Errorf("namespace holds %d entries, want 1", len(ns))
	}
}

func TestTrim_IgnoresFreshness(t *testing.T) {
	// The oldest entry goes even when it is the only one that has not
	// expired yet: capacity is a hard ceiling independent of TTL.
	base := time.UnixMilli(1_700_000_000_000)
	ns := Namespace{
		"a_a_a": entryAt(t, base, time.Hour),
		"b_b_b": entryAt(t, base.Add(time.Second), time.Millisecond),
		"c_c_c": entryAt(t, base.Add(2*time.Second), time.Millisecond),
	}

	trim(ns, 2)
	if _, ok := ns["a_a_a"]; ok {
		t.Error("eviction should not prefer expired entries over old ones")
	}
}

func TestTrim_ManyWrites(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	ns := Namespace{}
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("v%d_a%d_n%d", i, i, i)
		ns[key] = entryAt(t, base.Add(time.Duration(i)*time.Second), time.Hour)
		trim(ns, 5)
		if len(ns) > 5 {
			t.Fatalf("namespace exceeded capacity after write %d: %d entries", i, len(ns))
		}
	}

	// The five most recent writes survive.
	for i := 15; i < 20; i++ {
		key := fmt.Sprintf("v%d_a%d_n%d", i, i, i)
		if _, ok := ns[key]; !ok {
			t.Errorf("recent entry %s missing after trims", key)
		}
	}
}
