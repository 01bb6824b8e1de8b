package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileAdapter(t *testing.T) *FileAdapter {
	t.Helper()
	adapter, err := NewFileAdapter(filepath.Join(t.TempDir(), "wordweave", "cache.bin"), 3)
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	return adapter
}

func TestFileAdapter_RoundTrip(t *testing.T) {
	adapter := newTestFileAdapter(t)

	base := time.UnixMilli(1_700_000_000_000)
	store := Store{
		"poems": Namespace{
			"dance_ethereal_moonlight": entryAt(t, base, time.Hour),
			"whisper_golden_river":     entryAt(t, base.Add(time.Second), time.Hour),
		},
		"theme-analyses": Namespace{
			"dance_ethereal_moonlight": entryAt(t, base, time.Minute),
		},
	}

	if err := adapter.Save(store); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d namespaces, want 2", len(loaded))
	}
	if len(loaded["poems"]) != 2 || len(loaded["theme-analyses"]) != 1 {
		t.Errorf("namespace counts wrong after round trip: %d poems, %d analyses",
			len(loaded["poems"]), len(loaded["theme-analyses"]))
	}
	got := loaded["poems"]["dance_ethereal_moonlight"]
	want := store["poems"]["dance_ethereal_moonlight"]
	if got.WrittenAt != want.WrittenAt || got.TTL != want.TTL || string(got.Data) != string(want.Data) {
		t.Errorf("entry mismatch after round trip: got %+v, want %+v", got, want)
	}
}

func TestFileAdapter_MissingBlob(t *testing.T) {
	adapter := newTestFileAdapter(t)

	store, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load of missing blob failed: %v", err)
	}
	if len(store) != 0 {
		t.Errorf("expected empty store, got %d namespaces", len(store))
	}
}

func TestFileAdapter_CorruptBlob(t *testing.T) {
	adapter := newTestFileAdapter(t)

	if err := os.WriteFile(adapter.Path(), []byte("not a cache blob"), 0o644); err != nil {
		t.Fatalf("could not write corrupt blob: %v", err)
	}

	store, err := adapter.Load()
	if err == nil {
		t.Error("expected an error for a corrupt blob")
	}
	if len(store) != 0 {
		t.Errorf("expected empty store for corrupt blob, got %d namespaces", len(store))
	}
}

func TestFileAdapter_MalformedEntryDropped(t *testing.T) {
	adapter := newTestFileAdapter(t)

	// One well-formed and one malformed entry: only the well-formed one
	// survives the load, with no error.
	blob := `{
		"poems": {
			"dance_ethereal_moonlight": {"data": "ok", "writtenAt": 1700000000000, "ttl": 3600000},
			"broken_broken_broken": {"data": "bad", "writtenAt": "yesterday", "ttl": 3600000}
		}
	}`
	if err := os.WriteFile(adapter.Path(), []byte(blob), 0o644); err != nil {
		t.Fatalf("could not write blob: %v", err)
	}

	store, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(store["poems"]) != 1 {
		t.Fatalf("loaded %d entries, want 1", len(store["poems"]))
	}
	if _, ok := store["poems"]["dance_ethereal_moonlight"]; !ok {
		t.Error("well-formed entry missing after load")
	}
}

func TestFileAdapter_PlainJSONBlob(t *testing.T) {
	// Blobs written before compression was introduced load fine.
	adapter := newTestFileAdapter(t)

	store := Store{"poems": Namespace{"a_b_c": entryAt(t, time.UnixMilli(1_700_000_000_000), time.Hour)}}
	raw, err := json.Marshal(store)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(adapter.Path(), raw, 0o644); err != nil {
		t.Fatalf("could not write blob: %v", err)
	}

	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded["poems"]) != 1 {
		t.Errorf("loaded %d entries, want 1", len(loaded["poems"]))
	}
}

func TestFileAdapter_SaveReplacesBlob(t *testing.T) {
	adapter := newTestFileAdapter(t)

	base := time.UnixMilli(1_700_000_000_000)
	if err := adapter.Save(Store{"poems": Namespace{"a_b_c": entryAt(t, base, time.Hour)}}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := adapter.Save(Store{}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("blob not replaced: loaded %d namespaces", len(loaded))
	}

	// No temp file left behind by the atomic write.
	if _, err := os.Stat(adapter.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
