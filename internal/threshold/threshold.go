// Package threshold evaluates performance assertions against a generated
// report, for callers that gate a build or a pipeline on latency and error
// budgets.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pacerlabs/pacer/internal/metrics"
)

// Threshold is one assertion that can pass or fail.
type Threshold struct {
	Metric    string  // "transaction_duration", "transaction_failed", "transactions"
	Aggregate string  // "p50", "p90", "p95", "p99", "avg", "min", "max", "rate", "count"
	Operator  string  // "<", "<=", ">", ">=", "=="
	Value     float64 // the value to compare against
	Raw       string  // original threshold string for display
}

// Result is the outcome of evaluating one threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator checks thresholds against a performance report.
type Evaluator struct {
	thresholds []Threshold
}

func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate checks all thresholds against the report.
func (e *Evaluator) Evaluate(report metrics.PerformanceReport) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}
	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, report))
	}
	return results
}

// AnyFailed reports whether at least one result did not pass.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return true
		}
	}
	return false
}

func evaluateOne(t Threshold, report metrics.PerformanceReport) Result {
	actual, err := extractValue(t, report)
	if err != nil {
		return Result{Threshold: t, Pass: false, Message: fmt.Sprintf("error: %v", err)}
	}

	pass := compare(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}
	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string.
// Supported formats:
//   - "transaction_duration:p95 < 500"   (latency percentile in ms)
//   - "transaction_duration:avg < 200"   (average latency in ms)
//   - "transaction_failed:rate < 0.01"   (failure rate as decimal)
//   - "transaction_failed:count < 10"    (failure count)
//   - "transactions:rate > 10"           (transactions per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'transaction_duration:p95 < 500')", s)
	}

	value, err := strconv.ParseFloat(matches[4], 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", matches[4], err)
	}

	t := Threshold{
		Metric:    matches[1],
		Aggregate: matches[2],
		Operator:  matches[3],
		Value:     value,
		Raw:       s,
	}
	if !validMetric(t.Metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: transaction_duration, transaction_failed, transactions)", t.Metric)
	}
	if !validAggregate(t.Aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: p50, p90, p95, p99, avg, min, max, rate, count)", t.Aggregate)
	}
	if !validOperator(t.Operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", t.Operator)
	}
	return t, nil
}

// ParseMultiple parses multiple threshold strings, collecting all errors.
func ParseMultiple(specs []string) ([]Threshold, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	result := make([]Threshold, 0, len(specs))
	var problems []string
	for i, s := range specs {
		t, err := Parse(s)
		if err != nil {
			problems = append(problems, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(problems, "; "))
	}
	return result, nil
}

func validMetric(metric string) bool {
	switch metric {
	case "transaction_duration", "transaction_failed", "transactions":
		return true
	}
	return false
}

func validAggregate(aggregate string) bool {
	switch aggregate {
	case "p50", "p90", "p95", "p99", "avg", "min", "max", "rate", "count":
		return true
	}
	return false
}

func validOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func extractValue(t Threshold, report metrics.PerformanceReport) (float64, error) {
	switch t.Metric {
	case "transaction_duration":
		return extractDuration(t.Aggregate, report.Duration)
	case "transaction_failed":
		return extractFailures(t.Aggregate, report)
	case "transactions":
		return extractTransactions(t.Aggregate, report)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractDuration(aggregate string, d metrics.DurationStats) (float64, error) {
	switch aggregate {
	case "p50":
		return float64(d.P50), nil
	case "p90":
		return float64(d.P90), nil
	case "p95":
		return float64(d.P95), nil
	case "p99":
		return float64(d.P99), nil
	case "avg":
		return float64(d.Avg), nil
	case "min":
		return float64(d.Min), nil
	case "max":
		return float64(d.Max), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for transaction_duration", aggregate)
	}
}

func extractFailures(aggregate string, report metrics.PerformanceReport) (float64, error) {
	switch aggregate {
	case "count":
		return float64(report.FailedTransactions), nil
	case "rate":
		if report.TotalTransactions == 0 {
			return 0, nil
		}
		return float64(report.FailedTransactions) / float64(report.TotalTransactions), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for transaction_failed (use 'count' or 'rate')", aggregate)
	}
}

func extractTransactions(aggregate string, report metrics.PerformanceReport) (float64, error) {
	switch aggregate {
	case "count":
		return float64(report.TotalTransactions), nil
	case "rate":
		return report.Throughput, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for transactions (use 'count' or 'rate')", aggregate)
	}
}

func compare(actual float64, operator string, expected float64) bool {
	epsilon := 1e-9
	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
