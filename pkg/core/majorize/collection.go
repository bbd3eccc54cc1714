package majorize

import "iter"

// Collection is an ordered, keyed set of nodes. Keys must return the same
// order on every call for the duration of a solve.
type Collection[K comparable, T any] interface {
	Keys() []K
	Get(k K) T
	Set(k K, v T)
}

// Slice adapts a slice to [Collection], keyed by index.
type Slice[T any] []T

// Keys returns 0..len(s)-1.
func (s Slice[T]) Keys() []int {
	keys := make([]int, len(s))
	for i := range keys {
		keys[i] = i
	}
	return keys
}

// Get returns s[i].
func (s Slice[T]) Get(i int) T { return s[i] }

// Set stores v at s[i].
func (s Slice[T]) Set(i int, v T) { s[i] = v }

// Ordered is a map that remembers insertion order.
// The zero value is not usable; create one with [NewOrdered].
type Ordered[K comparable, T any] struct {
	keys []K
	vals map[K]T
}

// NewOrdered returns an empty ordered map.
func NewOrdered[K comparable, T any]() *Ordered[K, T] {
	return &Ordered[K, T]{vals: make(map[K]T)}
}

// Put stores v under k. New keys are appended; existing keys keep their place.
func (o *Ordered[K, T]) Put(k K, v T) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// Lookup returns the value under k and whether it exists.
func (o *Ordered[K, T]) Lookup(k K) (T, bool) {
	v, ok := o.vals[k]
	return v, ok
}

// Len returns the number of entries.
func (o *Ordered[K, T]) Len() int { return len(o.keys) }

// Keys returns a copy of the keys in insertion order.
func (o *Ordered[K, T]) Keys() []K {
	keys := make([]K, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value under k, or the zero value.
func (o *Ordered[K, T]) Get(k K) T { return o.vals[k] }

// Set is [Ordered.Put].
func (o *Ordered[K, T]) Set(k K, v T) { o.Put(k, v) }

// All iterates over entries in insertion order.
func (o *Ordered[K, T]) All() iter.Seq2[K, T] {
	return func(yield func(K, T) bool) {
		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

var (
	_ Collection[int, struct{}]    = Slice[struct{}](nil)
	_ Collection[string, struct{}] = (*Ordered[string, struct{}])(nil)
)
