package runner

import (
	"context"
	"fmt"

	"github.com/pacerlabs/pacer/internal/metrics"
)

// Runner owns the sequential execution loop and exactly one collector for
// its lifetime. No other component records transactions on its behalf.
type Runner struct {
	opt       Options
	collector *metrics.Collector
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt, collector: metrics.NewCollector()}
}

// Collector exposes the owned collector for progress displays and for
// callers that inspect per-transaction metrics after a run. Concurrent use
// while the loop is recording is limited to read-only snapshots.
func (r *Runner) Collector() *metrics.Collector {
	return r.collector
}

// RunTransaction executes one measured invocation. The think-time wait
// happens before the action and is included in the recorded duration.
// Exactly one metric is recorded on every exit path, and the action's error
// is returned unchanged; deciding whether a single failure is fatal is the
// caller's responsibility.
func (r *Runner) RunTransaction(ctx context.Context, stepName string, action Action) (err error) {
	start := r.opt.NowFunc()
	defer func() {
		m := metrics.TransactionMetric{
			Timestamp: start,
			Duration:  r.opt.NowFunc().Sub(start),
			Status:    metrics.StatusPass,
			StepName:  stepName,
		}
		if err != nil {
			m.Status = metrics.StatusFail
			m.Error = err.Error()
		}
		r.collector.Record(m)
	}()

	if r.opt.ThinkTime > 0 {
		r.opt.SleepFunc(r.opt.ThinkTime)
	}
	return action.Do(ctx)
}

// Run executes the load-test loop and returns the final report. Iterations
// are numbered from 1 and labeled "Iter-<n>". A cancelled context stops the
// loop at the top of the next pass; a configured duration takes strict
// priority over the iteration count. Errors from individual transactions are
// swallowed here so one failing iteration does not abort the test.
func (r *Runner) Run(ctx context.Context, action Action) metrics.PerformanceReport {
	loopStart := r.opt.NowFunc()
	count := 0
	for {
		if ctx.Err() != nil {
			break
		}
		if r.opt.Duration > 0 {
			if r.opt.NowFunc().Sub(loopStart) >= r.opt.Duration {
				break
			}
		} else if count >= r.opt.Iterations {
			break
		}
		count++

		passStart := r.opt.NowFunc()
		if err := r.RunTransaction(ctx, fmt.Sprintf("Iter-%d", count), action); err != nil {
			if r.opt.FailureLogger != nil {
				r.opt.FailureLogger.LogFailure(err)
			}
		}

		// Pacing is a floor on inter-iteration spacing, not a fixed-rate
		// scheduler: a pass slower than the pacing interval runs back to back.
		if elapsed := r.opt.NowFunc().Sub(passStart); r.opt.Pacing > elapsed {
			r.opt.SleepFunc(r.opt.Pacing - elapsed)
		}
	}
	return r.collector.GenerateReport(r.opt.TestName)
}
