package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Common errors for cache operations
var (
	// ErrUnknownCategory is returned when an operation names a category
	// that was not configured at construction time.
	ErrUnknownCategory = errors.New("unknown cache category")

	// ErrSeparatorInField is returned when a key field contains the
	// separator character and exact key derivation is impossible.
	ErrSeparatorInField = errors.New("field contains key separator")

	// ErrMalformedKey is returned when a stored key cannot be split back
	// into its input fields.
	ErrMalformedKey = errors.New("malformed cache key")
)

// Category names used by the WordWeave CLI.
const (
	CategoryPoems       = "poems"
	CategoryThemes      = "theme-analyses"
	CategoryPreferences = "user-preferences"
)

// Category is the static configuration for one namespace. It is never
// persisted; entries copy the TTL at write time so later configuration
// changes do not retroactively alter stored entries.
type Category struct {
	Name     string
	MaxItems int
	TTL      time.Duration
}

// DefaultCategories returns the category table the CLI ships with.
func DefaultCategories() []Category {
	return []Category{
		{Name: CategoryPoems, MaxItems: 50, TTL: 7 * 24 * time.Hour},
		{Name: CategoryThemes, MaxItems: 20, TTL: 24 * time.Hour},
		{Name: CategoryPreferences, MaxItems: 1, TTL: 30 * 24 * time.Hour},
	}
}

// Entry is one cached artifact. Timestamps and TTLs are epoch/duration
// milliseconds so the persisted blob matches the schema the original
// frontend wrote to browser storage.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	WrittenAt int64           `json:"writtenAt"`
	TTL       int64           `json:"ttl"`
}

func newEntry(data json.RawMessage, now time.Time, ttl time.Duration) Entry {
	return Entry{
		Data:      data,
		WrittenAt: now.UnixMilli(),
		TTL:       ttl.Milliseconds(),
	}
}

// WrittenTime returns the entry's write timestamp as a time.Time.
func (e Entry) WrittenTime() time.Time {
	return time.UnixMilli(e.WrittenAt)
}

// Namespace holds the entries of one category, keyed by derived item key.
type Namespace map[string]Entry

// Store maps category names to namespaces. It is the sole unit of
// persistence.
type Store map[string]Namespace
