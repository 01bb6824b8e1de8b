package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Service is the cache façade the rest of the CLI talks to. It owns the
// in-memory store and the durable blob exclusively; construct one instance
// at startup and pass it to whatever needs it.
//
// Operations are synchronous and hold a single lock for their full
// duration, persistence side effect included, so the capacity invariant
// holds the moment any write returns. Persistence faults degrade the cache
// to best-effort misses; they are logged and never surfaced to callers.
type Service struct {
	mu         sync.Mutex
	categories map[string]Category
	store      Store
	adapter    Adapter

	// now is replaced in tests to control entry ages.
	now func() time.Time
}

// Item pairs a parsed input with its cached payload, for enumeration.
type Item struct {
	Input     Input
	Data      json.RawMessage
	WrittenAt time.Time
}

// Stats is a read-only snapshot of cache occupancy.
type Stats struct {
	// Counts holds the live entry count per configured category.
	Counts map[string]int

	// SerializedBytes is the size of the store as it would be serialized,
	// before compression.
	SerializedBytes int
}

// Total returns the entry count across all categories.
func (st Stats) Total() int {
	total := 0
	for _, n := range st.Counts {
		total += n
	}
	return total
}

// Producer generates the artifact for a cache miss during warming.
type Producer func(ctx context.Context, in Input) (json.RawMessage, error)

// New constructs the service, loads persisted state through the adapter,
// sweeps expired entries eagerly, and persists the swept store back.
func New(categories []Category, adapter Adapter) (*Service, error) {
	if adapter == nil {
		return nil, fmt.Errorf("cache: nil adapter")
	}
	byName := make(map[string]Category, len(categories))
	for _, c := range categories {
		if c.Name == "" || c.MaxItems <= 0 || c.TTL <= 0 {
			return nil, fmt.Errorf("cache: invalid category %+v", c)
		}
		if _, ok := byName[c.Name]; ok {
			return nil, fmt.Errorf("cache: duplicate category %q", c.Name)
		}
		byName[c.Name] = c
	}

	s := &Service{
		categories: byName,
		store:      Store{},
		adapter:    adapter,
		now:        time.Now,
	}
	s.load()
	return s, nil
}

func (s *Service) load() {
	store, err := s.adapter.Load()
	if err != nil {
		log.Warn("cache: starting empty, could not load persisted store", "error", err)
		s.store = Store{}
		return
	}
	if removed := store.Sweep(s.now()); removed > 0 {
		log.Debug("cache: swept expired entries at load", "removed", removed)
	}
	s.store = store
	s.persist()
}

// Put derives the key for in, stores data in the category with the current
// timestamp and the category's configured TTL, evicts down to capacity, and
// persists. Returns an error only for bad input or an unknown category;
// persistence faults are swallowed.
func (s *Service) Put(category string, in Input, data json.RawMessage) error {
	key, err := in.Key()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	s.store.put(category, key, newEntry(data, s.now(), cat.TTL))
	if evicted := trim(s.store[category], cat.MaxItems); evicted > 0 {
		log.Debug("cache: evicted oldest entries", "category", category, "evicted", evicted)
	}
	s.persist()
	return nil
}

// Get returns the cached payload for in, or false on a miss. An entry past
// its TTL is deleted as a side effect of the read (and that deletion
// persisted) before the miss is reported.
func (s *Service) Get(category string, in Input) (json.RawMessage, bool) {
	key, err := in.Key()
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.store.get(category, key)
	if !ok {
		return nil, false
	}
	if e.Expired(s.now()) {
		s.store.remove(category, key)
		s.persist()
		return nil, false
	}
	return e.Data, true
}

// Remove unconditionally deletes the entry for in, if present.
func (s *Service) Remove(category string, in Input) {
	key, err := in.Key()
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.remove(category, key) {
		s.persist()
	}
}

// Clear drops the entire namespace for one category. Other categories are
// untouched.
func (s *Service) Clear(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.clear(category)
	s.persist()
}

// ClearAll resets the store to empty.
func (s *Service) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = Store{}
	s.persist()
}

// Stats reports per-category entry counts and the total serialized size of
// the store. Read-only: no mutation, no persistence.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.categories))
	for name := range s.categories {
		counts[name] = s.store.count(name)
	}

	size := 0
	if raw, err := json.Marshal(s.store); err == nil {
		size = len(raw)
	}
	return Stats{Counts: counts, SerializedBytes: size}
}

// ListAll returns a snapshot of the category's non-expired entries, most
// recently written first. Keys that cannot be parsed back into an input are
// skipped.
func (s *Service) ListAll(category string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	items := make([]Item, 0, s.store.count(category))
	for key, e := range s.store[category] {
		if e.Expired(now) {
			continue
		}
		in, err := ParseKey(key)
		if err != nil {
			log.Debug("cache: skipping unparseable key", "category", category, "key", key)
			continue
		}
		items = append(items, Item{Input: in, Data: e.Data, WrittenAt: e.WrittenTime()})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].WrittenAt.After(items[j].WrittenAt)
	})
	return items
}

// Warm checks each candidate and fills misses through produce. Best-effort:
// a candidate that fails to produce or store is logged and skipped, and a
// canceled context stops the sweep early. Returns the number of entries
// actually produced and stored.
func (s *Service) Warm(ctx context.Context, category string, candidates []Input, produce Producer) int {
	warmed := 0
	for _, in := range candidates {
		if ctx.Err() != nil {
			log.Debug("cache: warm canceled", "category", category, "warmed", warmed)
			break
		}
		if _, ok := s.Get(category, in); ok {
			continue
		}
		data, err := produce(ctx, in)
		if err != nil {
			log.Warn("cache: warm candidate failed", "category", category, "input", in.String(), "error", err)
			continue
		}
		if err := s.Put(category, in, data); err != nil {
			log.Warn("cache: warm store failed", "category", category, "input", in.String(), "error", err)
			continue
		}
		warmed++
	}
	return warmed
}

// persist writes the store through the adapter. Best-effort: a failed save
// must never fail the logical operation that triggered it.
func (s *Service) persist() {
	if err := s.adapter.Save(s.store); err != nil {
		log.Warn("cache: persist failed", "error", err)
	}
}

// PutValue marshals a typed payload and stores it under the category. Use
// one concrete payload type per category to keep call sites type-safe over
// the opaque entry machinery.
func PutValue[T any](s *Service, category string, in Input, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: failed to encode payload: %w", err)
	}
	return s.Put(category, in, raw)
}

// GetValue retrieves and decodes a typed payload. A cached payload that no
// longer decodes into T is dropped and reported as a miss.
func GetValue[T any](s *Service, category string, in Input) (T, bool) {
	var v T
	raw, ok := s.Get(category, in)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn("cache: dropping undecodable payload", "category", category, "input", in.String(), "error", err)
		s.Remove(category, in)
		var zero T
		return zero, false
	}
	return v, true
}
