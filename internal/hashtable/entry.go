package hashtable

import "strconv"

// Key is what a Table stores. HashCode may return any value, including
// negative ones; the probers normalize it into the slot range.
type Key[K any] interface {
	HashCode() int32
	Equal(other K) bool
	String() string
}

type Entry[K Key[K]] struct {
	key       K
	frequency int
	probes    int
}

func newEntry[K Key[K]](key K) *Entry[K] {
	return &Entry[K]{
		key:       key,
		frequency: 1,
	}
}

func (e *Entry[K]) Key() K {
	return e.key
}

func (e *Entry[K]) Frequency() int {
	return e.frequency
}

// Probes is the number of slots examined when the entry was first placed.
func (e *Entry[K]) Probes() int {
	return e.probes
}

// sameKey reports whether e and other hold equal keys, whatever their
// counters.
func (e *Entry[K]) sameKey(other *Entry[K]) bool {
	return e.key.Equal(other.key)
}

func (e *Entry[K]) bumpFrequency() {
	e.frequency++
}

func (e *Entry[K]) String() string {
	return e.key.String() + " " + strconv.Itoa(e.frequency) + " " + strconv.Itoa(e.probes)
}
