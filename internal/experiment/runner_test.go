package experiment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lojhan/openaddr/internal/persistence"
	"github.com/lojhan/openaddr/internal/primes"
	"github.com/lojhan/openaddr/internal/source"
)

// [100, 200] holds the twin primes 101 and 103.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Min = 100
	cfg.Max = 200
	cfg.Seed = 1700000000000
	cfg.DumpDir = ""
	return cfg
}

func TestTargetSize(t *testing.T) {
	require.Equal(t, 47896, TargetSize(95791, 0.5))
	require.Equal(t, 95791, TargetSize(95791, 1))
	require.Equal(t, 0, TargetSize(95791, 0))
	require.Equal(t, 1, TargetSize(103, 0.001))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := map[string]func(*Config){
		"source low":       func(c *Config) { c.Source = 0 },
		"source high":      func(c *Config) { c.Source = 4 },
		"load factor low":  func(c *Config) { c.LoadFactor = -0.1 },
		"load factor high": func(c *Config) { c.LoadFactor = 1.01 },
		"debug level":      func(c *Config) { c.DebugLevel = 3 },
		"range":            func(c *Config) { c.Min, c.Max = 10, 5 },
		"word list":        func(c *Config) { c.Source, c.WordList = source.WordList, "" },
	}

	for name, mutate := range tests {
		cfg := DefaultConfig()
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

func TestRunRandomNumbers(t *testing.T) {
	var out bytes.Buffer

	results, err := Run(context.Background(), smallConfig(), zap.NewNop(), &out)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "Linear Probing", results[0].Method)
	require.Equal(t, "Double Hashing", results[1].Method)

	for _, r := range results {
		require.Equal(t, 103, r.Capacity)
		require.Equal(t, 52, r.Target)
		require.Equal(t, 52, r.Size)
		require.Equal(t, r.Attempts-r.Size, r.Duplicates)
		require.GreaterOrEqual(t, r.AverageProbes, 1.0)
		require.Empty(t, r.DumpPath)
	}

	// Both tables consume the same key stream.
	require.Equal(t, results[0].Attempts, results[1].Attempts)

	report := out.String()
	require.True(t, strings.HasPrefix(report,
		"HashtableExperiment: Found a twin prime for table capacity: 103\n"+
			"HashtableExperiment: Input: Random Numbers Loadfactor: 0.50\n"))
	require.Contains(t, report, "\n\t\tUsing Linear Probing\n")
	require.Contains(t, report, "\n\t\tUsing Double Hashing\n")
	require.Contains(t, report, "HashtableExperiment: size of hash table is: 52\n")
	require.Less(t, strings.Index(report, "Linear Probing"), strings.Index(report, "Double Hashing"))
	require.NotContains(t, report, "Saved dump")
}

func TestRunDatesWithDump(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	cfg.Source = source.Dates
	cfg.LoadFactor = 1
	cfg.DebugLevel = DebugDump
	cfg.DumpDir = dir

	var out bytes.Buffer
	results, err := Run(context.Background(), cfg, zap.NewNop(), &out)
	require.NoError(t, err)

	for _, r := range results {
		require.Equal(t, 103, r.Size)
		require.Equal(t, 103, r.Attempts)
		require.Equal(t, 0, r.Duplicates)

		records, err := persistence.LoadDump(r.DumpPath)
		require.NoError(t, err)
		require.Len(t, records, 103)
		for i, record := range records {
			require.Equal(t, i, record.Slot)
			require.Equal(t, 1, record.Frequency)
		}
	}

	require.Equal(t, filepath.Join(dir, LinearDumpFile), results[0].DumpPath)
	require.Equal(t, filepath.Join(dir, DoubleDumpFile), results[1].DumpPath)
	require.Contains(t, out.String(), "HashtableExperiment: Saved dump of hash table to "+results[0].DumpPath+"\n")
	require.Contains(t, out.String(), "Input: Dates       Loadfactor: 1.00")
}

func TestRunWordListExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\na\nc\nb\nd\n"), 0644))

	core, logs := observer.New(zapcore.WarnLevel)

	cfg := smallConfig()
	cfg.Source = source.WordList
	cfg.WordList = path
	cfg.LoadFactor = 1

	var out bytes.Buffer
	results, err := Run(context.Background(), cfg, zap.New(core), &out)
	require.NoError(t, err)

	for _, r := range results {
		require.Equal(t, 4, r.Size)
		require.Equal(t, 6, r.Attempts)
		require.Equal(t, 2, r.Duplicates)
	}
	require.Contains(t, out.String(), "Inserted 6 elements, of which 2 were duplicates\n")
	require.Equal(t, 2, logs.FilterMessage("source exhausted before reaching target").Len())
}

func TestRunWordListMissing(t *testing.T) {
	cfg := smallConfig()
	cfg.Source = source.WordList
	cfg.WordList = filepath.Join(t.TempDir(), "missing.txt")

	_, err := Run(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunDebugInserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ny\nx\n"), 0644))

	core, logs := observer.New(zapcore.DebugLevel)

	cfg := smallConfig()
	cfg.Source = source.WordList
	cfg.WordList = path
	cfg.LoadFactor = 1
	cfg.DebugLevel = DebugInserts

	var out bytes.Buffer
	_, err := Run(context.Background(), cfg, zap.New(core), &out)
	require.NoError(t, err)

	// "x" hashes to 120 and "y" to 121, slots 17 and 18 of 103 for both methods.
	trace := "Inserted \"x\" at position 17\n" +
		"Inserted \"y\" at position 18\n" +
		"Found duplicate element \"x\" at position 17\n" +
		"HashtableExperiment: size of hash table is: 2\n"
	linear := strings.Index(out.String(), "Using Linear Probing\n"+trace)
	double := strings.Index(out.String(), "Using Double Hashing\n"+trace)
	require.NotEqual(t, -1, linear, out.String())
	require.NotEqual(t, -1, double, out.String())
	require.Less(t, linear, double)

	inserted := logs.FilterMessage("inserted")
	require.Equal(t, 4, inserted.Len())
	duplicates := logs.FilterMessage("found duplicate")
	require.Equal(t, 2, duplicates.Len())

	fields := duplicates.All()[0].ContextMap()
	require.Equal(t, "x", fields["key"])
	require.Contains(t, []interface{}{"linear", "double"}, fields["table"])
}

func TestRunZeroLoadFactor(t *testing.T) {
	cfg := smallConfig()
	cfg.LoadFactor = 0

	var out bytes.Buffer
	results, err := Run(context.Background(), cfg, zap.NewNop(), &out)
	require.NoError(t, err)

	for _, r := range results {
		require.Equal(t, 0, r.Size)
		require.True(t, math.IsNaN(r.AverageProbes))
	}
	require.Contains(t, out.String(), "Avg. no. of probes = undefined\n")
}

func TestRunNoTwinPrime(t *testing.T) {
	cfg := smallConfig()
	cfg.Min, cfg.Max = 24, 28

	_, err := Run(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	require.True(t, errors.Is(err, primes.ErrNoTwinPrimeInRange))
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.LoadFactor = 2

	_, err := Run(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, smallConfig(), zap.NewNop(), &bytes.Buffer{})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestRunMetricsFile(t *testing.T) {
	cfg := smallConfig()
	cfg.MetricsFile = filepath.Join(t.TempDir(), "openaddr.prom")

	_, err := Run(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "openaddr_hashtable_inserts_total")
	require.Contains(t, string(data), "openaddr_hashtable_insert_probes_bucket")
}
