package hashtable

import (
	"errors"
	"fmt"
)

const MinCapacity = 3

var (
	ErrTableFull        = errors.New("hash table is full")
	ErrUndefinedAverage = errors.New("average probes undefined for an empty table")
	ErrInvalidCapacity  = errors.New("invalid table capacity")
)

// Table is a fixed capacity open addressing hash table. Every distinct
// key lives in one slot on its own probe sequence; inserting a key that
// is already present only bumps its frequency.
type Table[K Key[K]] struct {
	slots       []*Entry[K]
	capacity    int
	count       int
	totalProbes int
	prober      Prober
}

func New[K Key[K]](capacity int, prober Prober) (*Table[K], error) {
	if prober == nil {
		return nil, errors.New("prober must not be nil")
	}
	if capacity < MinCapacity {
		return nil, fmt.Errorf("%w: %d is below %d", ErrInvalidCapacity, capacity, MinCapacity)
	}
	if _, ok := prober.(DoubleHashProbe); ok && capacity-2 <= 0 {
		return nil, fmt.Errorf("%w: double hashing needs capacity-2 > 0, got %d", ErrInvalidCapacity, capacity)
	}

	return &Table[K]{
		slots:    make([]*Entry[K], capacity),
		capacity: capacity,
		prober:   prober,
	}, nil
}

// Insert stores key and returns the slot it occupies. A duplicate key
// bumps the frequency of the existing entry and leaves the probe totals
// untouched.
func (t *Table[K]) Insert(key K) (int, error) {
	hash := key.HashCode()
	slot := t.prober.Home(hash, t.capacity)
	step := t.prober.Step(hash, t.capacity)
	candidate := newEntry(key)

	for probes := 1; probes <= t.capacity; probes++ {
		entry := t.slots[slot]

		if entry == nil {
			candidate.probes = probes
			t.slots[slot] = candidate
			t.count++
			t.totalProbes += probes
			return slot, nil
		}

		if entry.sameKey(candidate) {
			entry.bumpFrequency()
			return slot, nil
		}

		slot = (slot + step) % t.capacity
	}

	return -1, fmt.Errorf("%w: no empty slot for %s after %d probes", ErrTableFull, key.String(), t.capacity)
}

// Search returns the entry for key or nil. The returned entry must not
// be retained across later inserts.
func (t *Table[K]) Search(key K) *Entry[K] {
	_, entry := t.find(key)
	return entry
}

// Locate is Search that also reports the slot, -1 when key is absent.
func (t *Table[K]) Locate(key K) (int, *Entry[K]) {
	return t.find(key)
}

func (t *Table[K]) find(key K) (int, *Entry[K]) {
	hash := key.HashCode()
	slot := t.prober.Home(hash, t.capacity)
	step := t.prober.Step(hash, t.capacity)

	for probes := 0; probes < t.capacity; probes++ {
		entry := t.slots[slot]
		if entry == nil {
			return -1, nil
		}
		if entry.key.Equal(key) {
			return slot, entry
		}
		slot = (slot + step) % t.capacity
	}

	return -1, nil
}

// At returns the entry stored in slot, or nil.
func (t *Table[K]) At(slot int) *Entry[K] {
	if slot < 0 || slot >= t.capacity {
		return nil
	}
	return t.slots[slot]
}

func (t *Table[K]) Size() int {
	return t.count
}

func (t *Table[K]) Capacity() int {
	return t.capacity
}

func (t *Table[K]) Prober() Prober {
	return t.prober
}

// TotalProbes is the sum of Probes over every entry ever created.
func (t *Table[K]) TotalProbes() int {
	return t.totalProbes
}

func (t *Table[K]) AverageProbes() (float64, error) {
	if t.count == 0 {
		return 0, ErrUndefinedAverage
	}
	return float64(t.totalProbes) / float64(t.count), nil
}

func (t *Table[K]) LoadFactor() float64 {
	return float64(t.count) / float64(t.capacity)
}
