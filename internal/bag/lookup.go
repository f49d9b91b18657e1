package bag

import "strings"

// Lookup resolves keys against a Bag ignoring case, memoizing the
// lowercased key to the canonical (first-seen) casing. The common case,
// repeated lookups under any casing, is O(1) after the first miss; the
// miss falls back to a linear scan of the bag.
//
// The cache maps to canonical keys, not values, so it never holds stale
// data; it only needs invalidation when a key is removed.
type Lookup struct {
	cache map[string]string // lowercased key -> canonical key
}

// NewLookup creates an empty lookup cache.
func NewLookup() *Lookup {
	return &Lookup{cache: make(map[string]string)}
}

// Resolve returns the canonical key matching key case-insensitively.
func (l *Lookup) Resolve(b *Bag, key string) (string, bool) {
	// Exact hit needs no normalization.
	if b.Has(key) {
		return key, true
	}

	lower := strings.ToLower(key)
	if canonical, ok := l.cache[lower]; ok {
		if b.Has(canonical) {
			return canonical, true
		}
		delete(l.cache, lower)
	}

	for _, k := range b.Keys() {
		if strings.ToLower(k) == lower {
			l.cache[lower] = k
			return k, true
		}
	}
	return "", false
}

// Remember records key as the canonical casing for its lowercased form.
func (l *Lookup) Remember(key string) {
	l.cache[strings.ToLower(key)] = key
}

// Forget drops the cache entry for key, under any casing.
func (l *Lookup) Forget(key string) {
	delete(l.cache, strings.ToLower(key))
}

// Reset drops every cache entry.
func (l *Lookup) Reset() {
	l.cache = make(map[string]string)
}
