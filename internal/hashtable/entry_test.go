package hashtable

import "testing"

func TestEntrySameKeyIgnoresCounters(t *testing.T) {
	a := newEntry(key("a", 1))
	other := newEntry(key("a", 1))
	other.probes = 4
	other.bumpFrequency()
	other.bumpFrequency()

	if !a.sameKey(other) || !other.sameKey(a) {
		t.Error("Expected entries with equal keys to match regardless of frequency and probes")
	}

	// testKey equality is by name, so a different hash still matches.
	if !a.sameKey(newEntry(key("a", 99))) {
		t.Error("Expected a to match an entry with an equal key")
	}
	if a.sameKey(newEntry(key("b", 1))) {
		t.Error("Expected a not to match b")
	}
}

func TestEntryNew(t *testing.T) {
	e := newEntry(key("a", 1))

	if e.Frequency() != 1 {
		t.Errorf("Expected frequency 1, got %d", e.Frequency())
	}
	if e.Probes() != 0 {
		t.Errorf("Expected 0 probes before placement, got %d", e.Probes())
	}
	if e.String() != "a 1 0" {
		t.Errorf("Expected \"a 1 0\", got %q", e.String())
	}
}
