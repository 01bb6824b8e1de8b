package cache

// Store mutation helpers. All locking lives in Service; these assume the
// caller already holds the service lock. Categories are fully independent:
// no helper ever touches a namespace other than the one named.

func (s Store) put(category, key string, e Entry) {
	ns, ok := s[category]
	if !ok {
		ns = make(Namespace)
		s[category] = ns
	}
	ns[key] = e
}

func (s Store) get(category, key string) (Entry, bool) {
	ns, ok := s[category]
	if !ok {
		return Entry{}, false
	}
	e, ok := ns[key]
	return e, ok
}

// remove deletes the entry if present, reporting whether it existed.
func (s Store) remove(category, key string) bool {
	ns, ok := s[category]
	if !ok {
		return false
	}
	if _, ok := ns[key]; !ok {
		return false
	}
	delete(ns, key)
	return true
}

// clear drops the whole namespace for one category.
func (s Store) clear(category string) {
	delete(s, category)
}

func (s Store) count(category string) int {
	return len(s[category])
}
