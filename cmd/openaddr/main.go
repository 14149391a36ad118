package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lojhan/openaddr/internal/experiment"
	"github.com/lojhan/openaddr/internal/primes"
	"github.com/lojhan/openaddr/internal/source"
)

type globalFlags struct {
	logLevel string
	logFile  string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "openaddr",
		Short: "Open addressing hash table experiments",
		Long: "Compares linear probing and double hashing on a twin prime sized table.\n\n" +
			"Data sources: 1 = random numbers, 2 = dates, 3 = word list.\n" +
			"Debug levels: 0 = summary, 1 = summary and dump both tables, 2 = log every insert.",
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Also write JSON logs to this file, rotated")

	rootCmd.AddCommand(newRunCommand(&flags))
	rootCmd.AddCommand(newServeCommand(&flags))
	rootCmd.AddCommand(newTwinPrimeCommand())

	return rootCmd
}

// parseExperimentArgs reads <dataSource> <loadFactor> [<debugLevel>].
func parseExperimentArgs(args []string, cfg *experiment.Config) error {
	kind, err := source.ParseKind(args[0])
	if err != nil {
		return err
	}
	cfg.Source = kind

	loadFactor, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid load factor %q: %w", args[1], err)
	}
	cfg.LoadFactor = loadFactor

	if len(args) == 3 {
		level, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid debug level %q: %w", args[2], err)
		}
		cfg.DebugLevel = experiment.DebugLevel(level)
	}

	return cfg.Validate()
}

func addSizingFlags(cmd *cobra.Command, cfg *experiment.Config) {
	cmd.Flags().IntVar(&cfg.Min, "min", primes.DefaultMin, "Lower bound of the twin prime search")
	cmd.Flags().IntVar(&cfg.Max, "max", primes.DefaultMax, "Upper bound of the twin prime search")
}

func addSourceFlags(cmd *cobra.Command, cfg *experiment.Config) {
	cmd.Flags().Int64Var(&cfg.Seed, "seed", time.Now().UnixMilli(), "Random seed and date source start, in Unix milliseconds")
	cmd.Flags().StringVar(&cfg.WordList, "word-list", experiment.DefaultWordList, "Word list file for data source 3")
}

func newTwinPrimeCommand() *cobra.Command {
	cfg := experiment.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "twinprime",
		Short: "Print the table capacity found by the twin prime search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := primes.FindTwinPrime(cfg.Min, cfg.Max)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "The larger twin prime in the range [%d, %d] is: %d\n", cfg.Min, cfg.Max, p)
			return nil
		},
	}
	addSizingFlags(cmd, &cfg)

	return cmd
}
