// Package metrics accumulates per-transaction measurements and reduces them
// into a percentile-based performance report.
//
// # Collector
//
// The central [Collector] type owns the ordered sequence of recorded
// transactions:
//
//	collector := metrics.NewCollector()
//	collector.Record(metrics.TransactionMetric{
//		Timestamp: start,
//		Duration:  elapsed,
//		Status:    metrics.StatusPass,
//		StepName:  "Iter-1",
//	})
//	report := collector.GenerateReport("checkout-flow")
//
// GenerateReport is a pure computation over the entire accumulated sequence
// and may be called any number of times; each call reflects everything
// recorded so far. It also writes the human-readable summary block to the
// collector's output sink.
//
// # Percentiles
//
// Duration percentiles use nearest-rank estimation: durations are sorted
// ascending and percentile p maps to index ceil(p/100*n)-1. Interpolated
// percentile methods produce different values on the same input and must not
// be substituted; downstream expectations are recorded against nearest-rank
// results.
//
// # Live statistics
//
// [Collector.LiveStats] serves progress displays during a run. It reads an
// HdrHistogram instead of sorting the recorded durations, so its percentiles
// are approximations; final report numbers never come from the histogram.
package metrics
