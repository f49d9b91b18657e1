package bag

// Bag is an ordered property bag mapping exact keys to raw wire
// strings. Iteration order is insertion order; overwriting a key keeps
// its position.
type Bag struct {
	keys    []string
	entries map[string]string
}

// NewBag creates an empty property bag.
func NewBag() *Bag {
	return &Bag{entries: make(map[string]string)}
}

// Set stores raw under key, appending the key if it is new.
func (b *Bag) Set(key, raw string) {
	if _, ok := b.entries[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.entries[key] = raw
}

// Get returns the raw value for an exact key.
func (b *Bag) Get(key string) (string, bool) {
	raw, ok := b.entries[key]
	return raw, ok
}

// Has reports whether the exact key exists.
func (b *Bag) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

// Delete removes an exact key. Reports whether it was present.
func (b *Bag) Delete(key string) bool {
	if _, ok := b.entries[key]; !ok {
		return false
	}
	delete(b.entries, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (b *Bag) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len returns the number of entries.
func (b *Bag) Len() int {
	return len(b.entries)
}
