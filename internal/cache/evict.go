package cache

import "sort"

// trim enforces a category's capacity after a write, removing the entries
// with the smallest WrittenAt first until the namespace holds at most
// maxItems. TTL is never consulted: the capacity bound is a hard ceiling
// independent of freshness. Returns the number of entries evicted.
func trim(ns Namespace, maxItems int) int {
	if maxItems <= 0 || len(ns) <= maxItems {
		return 0
	}

	type aged struct {
		key       string
		writtenAt int64
	}
	entries := make([]aged, 0, len(ns))
	for key, entry := range ns {
		entries = append(entries, aged{key: key, writtenAt: entry.WrittenAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].writtenAt < entries[j].writtenAt
	})

	excess := len(entries) - maxItems
	for _, e := range entries[:excess] {
		delete(ns, e.key)
	}
	return excess
}
