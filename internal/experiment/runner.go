package experiment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lojhan/openaddr/internal/hashtable"
	"github.com/lojhan/openaddr/internal/keys"
	"github.com/lojhan/openaddr/internal/persistence"
	"github.com/lojhan/openaddr/internal/primes"
	"github.com/lojhan/openaddr/internal/source"
)

type Result struct {
	Method        string
	Capacity      int
	Target        int
	Size          int
	Attempts      int
	Duplicates    int
	AverageProbes float64 // NaN when nothing was inserted
	DumpPath      string
	Trace         string // per-insert lines at DebugInserts
}

type method struct {
	prober   hashtable.Prober
	dumpFile string
}

var methods = []method{
	{prober: hashtable.LinearProbe{}, dumpFile: LinearDumpFile},
	{prober: hashtable.DoubleHashProbe{}, dumpFile: DoubleDumpFile},
}

func TargetSize(capacity int, loadFactor float64) int {
	return int(math.Ceil(float64(capacity) * loadFactor))
}

// Run sizes the tables, loads linear probing and double hashing tables
// side by side and writes the summary report to out.
func Run(ctx context.Context, cfg Config, logger *zap.Logger, out io.Writer) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	capacity, err := primes.FindTwinPrime(cfg.Min, cfg.Max)
	if err != nil {
		return nil, fmt.Errorf("failed to size hash table: %w", err)
	}
	target := TargetSize(capacity, cfg.LoadFactor)

	logger.Info("starting experiment",
		zap.Stringer("source", cfg.Source),
		zap.Float64("loadFactor", cfg.LoadFactor),
		zap.Int("capacity", capacity),
		zap.Int("target", target))

	writeHeader(out, capacity, cfg)

	var results []Result
	switch cfg.Source {
	case source.RandomNumbers:
		results, err = runAll(ctx, cfg, logger, capacity, target, func() (source.Source[keys.Int], error) {
			return source.NewRandomInts(cfg.Seed), nil
		})
	case source.Dates:
		start := time.UnixMilli(cfg.Seed)
		results, err = runAll(ctx, cfg, logger, capacity, target, func() (source.Source[keys.Date], error) {
			return source.NewDates(start), nil
		})
	case source.WordList:
		results, err = runAll(ctx, cfg, logger, capacity, target, func() (source.Source[keys.Word], error) {
			return source.OpenWordList(cfg.WordList)
		})
	}
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		writeResult(out, r)
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return results, fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("saved metrics", zap.String("file", cfg.MetricsFile))
	}

	return results, nil
}

func runAll[K hashtable.Key[K]](ctx context.Context, cfg Config, logger *zap.Logger, capacity, target int, open func() (source.Source[K], error)) ([]Result, error) {
	results := make([]Result, len(methods))
	attempts := atomic.NewInt64(0)

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range methods {
		i, m := i, m
		g.Go(func() error {
			r, err := runMethod(gctx, cfg, logger, m, capacity, target, open, attempts)
			if err != nil {
				return fmt.Errorf("%s: %w", hashtable.MethodName(m.prober), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("experiment finished", zap.Int64("attempts", attempts.Load()))
	return results, nil
}

func runMethod[K hashtable.Key[K]](ctx context.Context, cfg Config, logger *zap.Logger, m method, capacity, target int, open func() (source.Source[K], error), attempts *atomic.Int64) (result Result, err error) {
	table, err := hashtable.New[K](capacity, m.prober)
	if err != nil {
		return Result{}, err
	}

	// Each table opens its own source so both see the same key stream.
	src, err := open()
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = multierr.Append(err, src.Close())
	}()

	tableLogger := logger.With(zap.String("table", m.prober.Name()))
	inst := hashtable.NewInstrumented(table, m.prober.Name())

	// Goroutines finish in any order, so the trace is buffered per table
	// and written with the report.
	var trace *bytes.Buffer
	if cfg.DebugLevel == DebugInserts {
		trace = new(bytes.Buffer)
	}

	count, err := Load(ctx, inst, src, target, tableLogger, trace)
	attempts.Add(int64(count))
	if err != nil {
		return Result{}, err
	}

	result = Result{
		Method:     hashtable.MethodName(m.prober),
		Capacity:   capacity,
		Target:     target,
		Size:       table.Size(),
		Attempts:   count,
		Duplicates: count - table.Size(),
	}
	if trace != nil {
		result.Trace = trace.String()
	}

	if avg, err := table.AverageProbes(); err == nil {
		result.AverageProbes = avg
	} else {
		result.AverageProbes = math.NaN()
	}

	if cfg.DebugLevel == DebugDump {
		path := filepath.Join(cfg.DumpDir, m.dumpFile)
		if err := persistence.SaveDump(path, table); err != nil {
			return Result{}, err
		}
		result.DumpPath = path
		tableLogger.Info("saved dump", zap.String("file", path))
	}

	return result, nil
}

// Load inserts keys from src until the table holds target keys or src
// runs dry, and returns the number of insert attempts. A non-nil trace
// receives one line per insert.
func Load[K hashtable.Key[K]](ctx context.Context, table *hashtable.Instrumented[K], src source.Source[K], target int, logger *zap.Logger, trace *bytes.Buffer) (int, error) {
	count := 0
	for table.Table().Size() < target {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		key, err := src.Next()
		if errors.Is(err, io.EOF) {
			logger.Warn("source exhausted before reaching target",
				zap.Int("size", table.Table().Size()),
				zap.Int("target", target))
			break
		}
		if err != nil {
			return count, err
		}

		size := table.Table().Size()
		slot, err := table.Insert(key)
		count++
		if err != nil {
			return count, err
		}

		if trace != nil {
			if table.Table().Size() == size {
				fmt.Fprintf(trace, "Found duplicate element \"%s\" at position %d\n", key.String(), slot)
				logger.Debug("found duplicate", zap.Stringer("key", key), zap.Int("slot", slot))
			} else {
				fmt.Fprintf(trace, "Inserted \"%s\" at position %d\n", key.String(), slot)
				logger.Debug("inserted", zap.Stringer("key", key), zap.Int("slot", slot))
			}
		}
	}
	return count, nil
}
