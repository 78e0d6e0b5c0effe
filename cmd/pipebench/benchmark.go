package main

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askiada/go-pipebench/internal/config"
	"github.com/askiada/go-pipebench/pkg/experiment"
	"github.com/askiada/go-pipebench/pkg/metrics"
	"github.com/askiada/go-pipebench/pkg/record"
	"github.com/askiada/go-pipebench/pkg/report"
)

func runBenchmark(ctx context.Context, cfg config.Config, out io.Writer, logger logrus.FieldLogger) (err error) {
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	expCfg := cfg.Experiment()
	expCfg.Options = append(expCfg.Options, experiment.WithLogger(logger))

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
		expCfg.Options = append(expCfg.Options, experiment.WithMetrics(m))
	}

	if cfg.Record != "" {
		var recorder record.Recorder

		recorder, err = record.Open(ctx, cfg.Record)
		if err != nil {
			return err
		}

		defer func() {
			closeErr := recorder.Close()
			if err == nil && closeErr != nil {
				err = errors.Wrapf(closeErr, "unable to close %s", cfg.Record)
			}
		}()

		expCfg.Options = append(expCfg.Options, experiment.WithRecorder(recorder))
	}

	var printErr error

	expCfg.OnResult = func(res experiment.Result) {
		if printErr == nil {
			printErr = report.WriteSummary(out, res)
		}
	}

	logger.WithFields(logrus.Fields{
		"cpus": len(cfg.CPUs),
		"runs": cfg.Runs,
		"size": cfg.InputSize,
		"seed": cfg.Seed,
	}).Info("starting benchmark")

	results, err := experiment.Run(ctx, expCfg)
	if err != nil {
		return err
	}

	if printErr != nil {
		return printErr
	}

	if cfg.Chart != "" {
		err = report.SaveChart(cfg.Chart, results)
		if err != nil {
			return err
		}

		logger.WithField("path", cfg.Chart).Info("chart written")
	}

	err = report.WriteTable(out, results)
	if err != nil {
		return err
	}

	if m != nil {
		err = m.WriteTextfile(cfg.MetricsFile)
		if err != nil {
			return err
		}

		logger.WithField("path", cfg.MetricsFile).Info("metrics written")
	}

	return nil
}
