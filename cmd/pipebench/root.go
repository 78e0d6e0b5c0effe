package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipebench/internal/config"
)

type flags struct {
	configPath  string
	runs        int
	size        int
	seed        uint64
	chart       string
	graphDir    string
	record      string
	metricsFile string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "pipebench",
		Short: "Benchmark a quicksort on simulated pipelined CPUs",
		Long: `pipebench sorts random inputs on simulated CPUs where every comparison costs
20µs divided by the number of pipeline stages. It prints the statistics of every
configuration, draws them as a bar chart and prints a summary table.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())

			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return errors.Wrap(err, "invalid log level")
			}

			logger.SetLevel(level)

			return runBenchmark(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&f.runs, "runs", 0, "number of runs per configuration")
	fs.IntVar(&f.size, "size", 0, "number of values to sort per run")
	fs.Uint64Var(&f.seed, "seed", 0, "seed of the random inputs, random when 0")
	fs.StringVar(&f.chart, "chart", "", "SVG chart path, empty to disable (default performance.svg)")
	fs.StringVar(&f.graphDir, "graph-dir", "", "directory receiving a DOT graph of the pipeline per configuration")
	fs.StringVar(&f.record, "record", "", "file receiving every run (.db, .sqlite, .sqlite3, .jsonl or .json)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "file receiving Prometheus metrics in textfile format")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (default info)")

	return cmd
}

// load reads the configuration file then applies the flags set on the command line.
func (f *flags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed

	if changed("runs") {
		cfg.Runs = f.runs
	}

	if changed("size") {
		cfg.InputSize = f.size
	}

	if changed("seed") {
		cfg.Seed = f.seed
	}

	if changed("chart") {
		cfg.Chart = f.chart
	}

	if changed("graph-dir") {
		cfg.GraphDir = f.graphDir
	}

	if changed("record") {
		cfg.Record = f.record
	}

	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}

	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	return cfg, cfg.Validate()
}
