package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pacerlabs/pacer/internal/config"
	"github.com/pacerlabs/pacer/internal/feeder"
	"github.com/pacerlabs/pacer/internal/httpaction"
	"github.com/pacerlabs/pacer/internal/output"
	"github.com/pacerlabs/pacer/internal/runner"
	"github.com/pacerlabs/pacer/internal/threshold"
	"github.com/pacerlabs/pacer/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

type logrusFailureLogger struct {
	log *logrus.Logger
}

func (l *logrusFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.log.WithError(err).Error("transaction failed")
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	// Fail on bad threshold syntax before any load is generated.
	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	var fd feeder.Feeder
	if cfg.Feeder.Path != "" {
		fd, err = feeder.Open(cfg.Feeder.Path, cfg.Feeder.Type)
		if err != nil {
			return fmt.Errorf("open feeder: %w", err)
		}
		defer fd.Close()
		log.WithFields(logrus.Fields{
			"path":    cfg.Feeder.Path,
			"records": fd.Len(),
		}).Debug("feeder loaded")
	}

	action, err := httpaction.New(cfg, fd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("trace provider shutdown")
		}
	}()

	var act runner.Action = action
	if provider.Enabled() {
		act = tracing.WrapAction(provider.Tracer(), cfg.TestName, act)
	}

	opts := runner.Options{
		TestName:   cfg.TestName,
		Iterations: cfg.Iterations,
		Duration:   cfg.Duration,
		Users:      cfg.Users,
		Pacing:     cfg.Pacing,
		ThinkTime:  cfg.ThinkTime,
	}
	if cfg.LogErrors {
		opts.FailureLogger = &logrusFailureLogger{log: log}
	}

	r := runner.New(opts)
	collector := r.Collector()

	// The summary block is buffered so a progress tick cannot interleave with
	// it; JSON mode suppresses it entirely.
	var summary bytes.Buffer
	var progress *output.ProgressReporter
	if cfg.JSONOutput {
		collector.SetOutput(io.Discard)
	} else {
		collector.SetOutput(&summary)
		progress = output.NewProgressReporter(collector, progressInterval, os.Stdout)
		progress.Start()
	}

	log.WithFields(logrus.Fields{
		"test":       cfg.TestName,
		"target":     cfg.Target,
		"iterations": cfg.Iterations,
		"duration":   cfg.Duration,
	}).Debug("starting run")

	report := r.Run(ctx, act)

	if progress != nil {
		progress.Stop()
		if _, err := os.Stdout.Write(summary.Bytes()); err != nil {
			return err
		}
	}

	if cfg.JSONOutput {
		if err := output.WriteJSON(os.Stdout, report); err != nil {
			return err
		}
	}
	if cfg.JSONFile != "" {
		if err := output.WriteJSONFile(cfg.JSONFile, report); err != nil {
			return err
		}
		log.WithField("path", cfg.JSONFile).Debug("json report written")
	}

	evaluator := threshold.NewEvaluator(thresholds)
	results := evaluator.Evaluate(report)
	if cfg.JSONOutput {
		output.PrintThresholdResults(os.Stderr, results)
	} else {
		output.PrintThresholdResults(os.Stdout, results)
	}

	if cfg.HTMLOutput != "" {
		if err := output.WriteHTMLFile(cfg.HTMLOutput, report, results); err != nil {
			return err
		}
		log.WithField("path", cfg.HTMLOutput).Debug("html report written")
	}

	if threshold.AnyFailed(results) {
		return fmt.Errorf("thresholds not met")
	}
	if report.FailedTransactions > 0 {
		return fmt.Errorf("%d transactions failed", report.FailedTransactions)
	}
	return nil
}
