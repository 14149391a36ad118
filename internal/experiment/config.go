package experiment

import (
	"fmt"

	"github.com/lojhan/openaddr/internal/primes"
	"github.com/lojhan/openaddr/internal/source"
)

type DebugLevel int

const (
	// DebugSummary prints the summary only.
	DebugSummary DebugLevel = iota
	// DebugDump also saves both tables to dump files.
	DebugDump
	// DebugInserts logs every insert.
	DebugInserts
)

const (
	DefaultWordList = "word-list.txt"
	LinearDumpFile  = "linear-dump.txt"
	DoubleDumpFile  = "double-dump.txt"
)

type Config struct {
	Source     source.Kind
	LoadFactor float64
	DebugLevel DebugLevel

	Min int
	Max int

	// Seed drives the random number source and is the start time, in Unix
	// milliseconds, of the date source.
	Seed int64

	WordList    string
	DumpDir     string
	MetricsFile string
}

func DefaultConfig() Config {
	return Config{
		Source:     source.RandomNumbers,
		LoadFactor: 0.5,
		DebugLevel: DebugSummary,
		Min:        primes.DefaultMin,
		Max:        primes.DefaultMax,
		WordList:   DefaultWordList,
		DumpDir:    ".",
	}
}

func (c Config) Validate() error {
	if c.Source < source.RandomNumbers || c.Source > source.WordList {
		return fmt.Errorf("data source must be 1, 2 or 3, got %d", c.Source)
	}
	if c.LoadFactor < 0 || c.LoadFactor > 1 {
		return fmt.Errorf("load factor must be in [0, 1], got %g", c.LoadFactor)
	}
	if c.DebugLevel < DebugSummary || c.DebugLevel > DebugInserts {
		return fmt.Errorf("debug level must be 0, 1 or 2, got %d", c.DebugLevel)
	}
	if c.Min > c.Max {
		return fmt.Errorf("twin prime range is empty: min %d > max %d", c.Min, c.Max)
	}
	if c.Source == source.WordList && c.WordList == "" {
		return fmt.Errorf("word list path is required for data source %d", c.Source)
	}
	return nil
}
