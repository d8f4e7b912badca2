package metrics

import (
	"fmt"
	"io"
	"time"
)

// DurationStats holds the duration block of a report, in whole milliseconds.
// Percentiles are nearest-rank values taken from the recorded durations.
type DurationStats struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
	Avg int64 `json:"avg"`
	P50 int64 `json:"p50"`
	P90 int64 `json:"p90"`
	P95 int64 `json:"p95"`
	P99 int64 `json:"p99"`
}

// StepStats is the per-step breakdown carried by the structured report.
type StepStats struct {
	Total  int   `json:"total"`
	Passed int   `json:"passed"`
	Failed int   `json:"failed"`
	AvgMs  int64 `json:"avg_ms"`
	P95Ms  int64 `json:"p95_ms"`
}

// PerformanceReport is a computed snapshot of a collector's sequence. It is
// never mutated after creation; generate a new one to pick up later metrics.
type PerformanceReport struct {
	RunID              string               `json:"run_id"`
	TestName           string               `json:"test_name"`
	StartTime          time.Time            `json:"start_time"`
	EndTime            time.Time            `json:"end_time"`
	TotalTransactions  int                  `json:"total_transactions"`
	PassedTransactions int                  `json:"passed_transactions"`
	FailedTransactions int                  `json:"failed_transactions"`
	ErrorRate          float64              `json:"error_rate"`
	Throughput         float64              `json:"throughput"`
	Duration           DurationStats        `json:"duration"`
	Steps              map[string]StepStats `json:"steps,omitempty"`
}

const rule = "============================================================"

// WriteSummary emits the operator-facing summary block. The layout is pinned
// by golden-output tests; downstream parsers read this block verbatim. p50 is
// carried in the structured report but deliberately absent here.
func WriteSummary(w io.Writer, r PerformanceReport) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "PERFORMANCE REPORT: %s\n", r.TestName)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total Transactions: %d\n", r.TotalTransactions)
	fmt.Fprintf(w, "Passed:             %d\n", r.PassedTransactions)
	fmt.Fprintf(w, "Failed:             %d\n", r.FailedTransactions)
	fmt.Fprintf(w, "Error Rate:         %.2f%%\n", r.ErrorRate)
	fmt.Fprintf(w, "Throughput:         %.2f ops/sec\n", r.Throughput)
	fmt.Fprintln(w, "Duration (ms):")
	fmt.Fprintf(w, "  Min: %d\n", r.Duration.Min)
	fmt.Fprintf(w, "  Max: %d\n", r.Duration.Max)
	fmt.Fprintf(w, "  Avg: %d\n", r.Duration.Avg)
	fmt.Fprintf(w, "  p90: %d\n", r.Duration.P90)
	fmt.Fprintf(w, "  p95: %d\n", r.Duration.P95)
	fmt.Fprintf(w, "  p99: %d\n", r.Duration.P99)
	fmt.Fprintln(w, rule)
}
