package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lojhan/openaddr/internal/experiment"
	"github.com/lojhan/openaddr/internal/logging"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	cfg := experiment.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run <dataSource> <loadFactor> [<debugLevel>]",
		Short: "Load both tables and print the probe summary",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parseExperimentArgs(args, &cfg); err != nil {
				return err
			}

			level := flags.logLevel
			if cfg.DebugLevel == experiment.DebugInserts {
				level = "debug"
			}
			logger, err := logging.New(level, flags.logFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = experiment.Run(ctx, cfg, logger, cmd.OutOrStdout())
			return err
		},
	}

	addSizingFlags(cmd, &cfg)
	addSourceFlags(cmd, &cfg)
	cmd.Flags().StringVar(&cfg.DumpDir, "dump-dir", ".", "Directory for the dump files of debug level 1")
	cmd.Flags().StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")

	return cmd
}
