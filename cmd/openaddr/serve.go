package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lojhan/openaddr/internal/command"
	"github.com/lojhan/openaddr/internal/experiment"
	"github.com/lojhan/openaddr/internal/hashtable"
	"github.com/lojhan/openaddr/internal/keys"
	"github.com/lojhan/openaddr/internal/logging"
	"github.com/lojhan/openaddr/internal/primes"
	"github.com/lojhan/openaddr/internal/server"
	"github.com/lojhan/openaddr/internal/source"
)

type serveOptions struct {
	probe string
	addr  string
}

func newServeCommand(flags *globalFlags) *cobra.Command {
	cfg := experiment.DefaultConfig()
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <dataSource> <loadFactor>",
		Short: "Load one table and answer queries about it over TCP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parseExperimentArgs(args, &cfg); err != nil {
				return err
			}

			prober, err := hashtable.ParseProber(opts.probe)
			if err != nil {
				return err
			}

			logger, err := logging.New(flags.logLevel, flags.logFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			switch cfg.Source {
			case source.RandomNumbers:
				return serveTable(cmd.Context(), logger, cfg, prober, opts.addr, keys.ParseInt,
					func() (source.Source[keys.Int], error) { return source.NewRandomInts(cfg.Seed), nil })
			case source.Dates:
				return serveTable(cmd.Context(), logger, cfg, prober, opts.addr, keys.ParseDate,
					func() (source.Source[keys.Date], error) { return source.NewDates(time.UnixMilli(cfg.Seed)), nil })
			default:
				return serveTable(cmd.Context(), logger, cfg, prober, opts.addr, keys.ParseWord,
					func() (source.Source[keys.Word], error) { return source.OpenWordList(cfg.WordList) })
			}
		},
	}

	addSizingFlags(cmd, &cfg)
	addSourceFlags(cmd, &cfg)
	cmd.Flags().StringVar(&opts.probe, "probe", "double", "Probe strategy: linear or double")
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "Listen address")

	return cmd
}

func serveTable[K hashtable.Key[K]](ctx context.Context, logger *zap.Logger, cfg experiment.Config, prober hashtable.Prober, addr string, parse command.Parser[K], open func() (source.Source[K], error)) (err error) {
	capacity, err := primes.FindTwinPrime(cfg.Min, cfg.Max)
	if err != nil {
		return fmt.Errorf("failed to size hash table: %w", err)
	}

	table, err := hashtable.New[K](capacity, prober)
	if err != nil {
		return err
	}
	inst := hashtable.NewInstrumented(table, prober.Name())

	src, err := open()
	if err != nil {
		return err
	}
	count, err := experiment.Load(ctx, inst, src, experiment.TargetSize(capacity, cfg.LoadFactor), logger, nil)
	if err = multierr.Append(err, src.Close()); err != nil {
		return err
	}

	logger.Info("table loaded",
		zap.String("probe", prober.Name()),
		zap.Int("capacity", capacity),
		zap.Int("size", table.Size()),
		zap.Int("attempts", count))

	srv := server.NewServer(logger)
	srv.RegisterCommand("PING", command.PingCommand)
	srv.RegisterCommand("SIZE", command.SizeCommand(inst))
	srv.RegisterCommand("CAPACITY", command.CapacityCommand(inst))
	srv.RegisterCommand("STATS", command.StatsCommand(inst))
	srv.RegisterCommand("SEARCH", command.SearchCommand(inst, parse))
	srv.RegisterCommand("PROBE", command.ProbeCommand(inst, parse))
	srv.RegisterCommand("DUMP", command.DumpCommand(inst))

	logger.Info("starting inspection server", zap.String("addr", addr))
	return listenUntilDone(ctx, srv, addr, logger)
}

// listenUntilDone runs srv until it fails to start, or until ctx is done or
// SIGINT/SIGTERM arrives, in which case it stops srv once it has booted.
func listenUntilDone(ctx context.Context, srv *server.Server, addr string, logger *zap.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		select {
		case <-sigChan:
		case <-ctx.Done():
		case <-done:
			return
		}
		select {
		case <-srv.Ready():
		case <-done:
			return
		}

		logger.Info("shutting down server")
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(stopCtx); err != nil {
			logger.Error("error stopping server", zap.Error(err))
		}
	}()

	err := srv.Start(addr)
	close(done)
	<-stopped
	return err
}
