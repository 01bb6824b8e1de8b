package cache

import "time"

// Expired reports whether the entry is older than its own TTL at now.
// Expiration is checked lazily on reads and eagerly by Sweep; entries are
// never aged out by a background timer.
func (e Entry) Expired(now time.Time) bool {
	return now.UnixMilli()-e.WrittenAt > e.TTL
}

// Sweep removes every expired entry from every namespace and returns the
// number removed. Run once after loading persisted state.
func (s Store) Sweep(now time.Time) int {
	removed := 0
	for _, ns := range s {
		for key, entry := range ns {
			if entry.Expired(now) {
				delete(ns, key)
				removed++
			}
		}
	}
	return removed
}
