// Package utils provides shared utilities for text, collections, math, and logging.
package utils

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// OrderedSet is a string set that remembers insertion order.
// The zero value is ready to use.
type OrderedSet struct {
	seen  map[string]struct{}
	items []string
}

// NewOrderedSet returns an empty set with room for n items.
func NewOrderedSet(n int) *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{}, n), items: make([]string, 0, n)}
}

// Add inserts s if absent and reports whether it was added.
func (o *OrderedSet) Add(s string) bool {
	if o.seen == nil {
		o.seen = make(map[string]struct{})
	}
	if _, ok := o.seen[s]; ok {
		return false
	}
	o.seen[s] = struct{}{}
	o.items = append(o.items, s)
	return true
}

// Contains reports whether s is in the set.
func (o *OrderedSet) Contains(s string) bool {
	_, ok := o.seen[s]
	return ok
}

// Len returns the number of items.
func (o *OrderedSet) Len() int {
	return len(o.items)
}

// Items returns a copy of the items in insertion order. Never nil.
func (o *OrderedSet) Items() []string {
	out := make([]string, len(o.items))
	copy(out, o.items)
	return out
}
