package part

import "fmt"

// Entry binds a key to a class inside a Registry.
type Entry struct {
	Key   Key
	Class *Class
}

// EntriesOf returns one entry per class, keyed by the class's own key.
func EntriesOf(classes ...*Class) []Entry {
	entries := make([]Entry, 0, len(classes))
	for _, c := range classes {
		entries = append(entries, Entry{Key: c.Key, Class: c})
	}
	return entries
}

// Registry is an ordered, immutable mapping from keys to part classes.
// Iteration follows declaration order.
type Registry struct {
	entries []Entry
	index   map[Key]int
}

// NewRegistry builds a registry from entries. It panics on a nil class or
// a key that appears twice.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[Key]int, len(entries)),
	}
	for _, e := range entries {
		if e.Class == nil {
			panic(fmt.Sprintf("part: nil class for key %q", e.Key))
		}
		if _, exists := r.index[e.Key]; exists {
			panic(fmt.Sprintf("part: duplicate key %q", e.Key))
		}
		r.index[e.Key] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Merge combines registries into one. Keys must be unique across all
// inputs; a collision panics.
func Merge(registries ...*Registry) *Registry {
	var all []Entry
	for _, r := range registries {
		all = append(all, r.entries...)
	}
	return NewRegistry(all...)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Get returns the class registered under key.
func (r *Registry) Get(key Key) (*Class, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.entries[i].Class, true
}

// Has reports whether key is registered.
func (r *Registry) Has(key Key) bool {
	_, ok := r.index[key]
	return ok
}

// Keys returns all keys in declaration order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// Classes returns all classes in declaration order.
func (r *Registry) Classes() []*Class {
	classes := make([]*Class, len(r.entries))
	for i, e := range r.entries {
		classes[i] = e.Class
	}
	return classes
}

// Entries returns a copy of the entries in declaration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ReverseLookup maps part classes back to the key they are registered
// under. It is read-only once built.
type ReverseLookup struct {
	keys map[*Class]Key
}

// NewReverseLookup builds a reverse lookup over the given registries, in
// order. A class registered under several keys maps to the last one seen.
func NewReverseLookup(registries ...*Registry) ReverseLookup {
	keys := make(map[*Class]Key)
	for _, r := range registries {
		for _, e := range r.entries {
			keys[e.Class] = e.Key
		}
	}
	return ReverseLookup{keys: keys}
}

// Key returns the key for class c.
func (l ReverseLookup) Key(c *Class) (Key, bool) {
	k, ok := l.keys[c]
	return k, ok
}

// MustKey returns the key for class c and panics when c is unknown.
func (l ReverseLookup) MustKey(c *Class) Key {
	k, ok := l.keys[c]
	if !ok {
		panic(fmt.Sprintf("part: no key registered for class %v", c))
	}
	return k
}

// Len returns the number of classes in the lookup.
func (l ReverseLookup) Len() int { return len(l.keys) }
