package hashtable

import (
	"fmt"
	"strings"
)

// Prober turns a key hash into the start slot and the stride of its
// probe sequence. Slot i of the sequence is (home + i*step) mod capacity.
type Prober interface {
	Home(hash int32, capacity int) int
	Step(hash int32, capacity int) int
	Name() string
}

type LinearProbe struct{}

func (LinearProbe) Home(hash int32, capacity int) int {
	return PositiveMod(int(hash), capacity)
}

func (LinearProbe) Step(hash int32, capacity int) int {
	return 1
}

func (LinearProbe) Name() string {
	return "linear"
}

// DoubleHashProbe needs a prime capacity for every step in
// [1, capacity-2] to be coprime with it.
type DoubleHashProbe struct{}

func (DoubleHashProbe) Home(hash int32, capacity int) int {
	return PositiveMod(int(hash), capacity)
}

func (DoubleHashProbe) Step(hash int32, capacity int) int {
	return 1 + PositiveMod(int(hash), capacity-2)
}

func (DoubleHashProbe) Name() string {
	return "double"
}

// PositiveMod returns dividend mod divisor in [0, divisor-1].
func PositiveMod(dividend, divisor int) int {
	r := dividend % divisor
	if r < 0 {
		r += divisor
	}
	return r
}

// ProbeSequence returns the first capacity slots visited for hash.
func ProbeSequence(p Prober, hash int32, capacity int) []int {
	return ProbeSlots(p, hash, capacity, capacity)
}

// ProbeSlots returns the first n slots visited for hash.
func ProbeSlots(p Prober, hash int32, capacity, n int) []int {
	home := p.Home(hash, capacity)
	step := p.Step(hash, capacity)

	slots := make([]int, n)
	for i := 0; i < n; i++ {
		slots[i] = (home + i*step) % capacity
	}
	return slots
}

func ParseProber(name string) (Prober, error) {
	switch strings.ToLower(name) {
	case "linear", "linear-probing":
		return LinearProbe{}, nil
	case "double", "double-hashing":
		return DoubleHashProbe{}, nil
	}
	return nil, fmt.Errorf("unknown probe strategy %q", name)
}

// MethodName is the label the experiment report uses for p.
func MethodName(p Prober) string {
	switch p.(type) {
	case LinearProbe:
		return "Linear Probing"
	case DoubleHashProbe:
		return "Double Hashing"
	}
	return p.Name()
}
