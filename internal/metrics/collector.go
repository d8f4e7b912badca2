package metrics

import (
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/oklog/ulid/v2"
)

// Collector accumulates transaction metrics for a single run. It is owned by
// exactly one runner; recording and report generation from independent
// execution streams is not supported without external synchronization, but
// the internal mutex keeps a progress reporter's LiveStats reads safe.
type Collector struct {
	mu      sync.Mutex
	metrics []TransactionMetric
	hist    *hdrhistogram.Histogram
	start   time.Time
	out     io.Writer
	now     func() time.Time
}

// NewCollector creates a collector whose start time is fixed at construction.
// The summary sink defaults to stdout.
func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:  h,
		start: time.Now(),
		out:   os.Stdout,
		now:   time.Now,
	}
}

// SetOutput redirects the summary block emitted by GenerateReport.
// A nil writer discards the summary.
func (c *Collector) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	c.mu.Lock()
	c.out = w
	c.mu.Unlock()
}

// StartTime returns the collector's fixed creation time.
func (c *Collector) StartTime() time.Time {
	return c.start
}

// Record appends one transaction metric to the ordered sequence.
func (c *Collector) Record(m TransactionMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics = append(c.metrics, m)

	if m.Duration > 0 {
		us := m.Duration.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
}

// Metrics returns a copy of the recorded sequence, in recording order.
func (c *Collector) Metrics() []TransactionMetric {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TransactionMetric, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// LiveStats is a cheap snapshot for progress displays. Percentiles come from
// the histogram and are approximate.
type LiveStats struct {
	Total      int64
	Passed     int64
	Failed     int64
	Throughput float64
	P50Ms      float64
	P99Ms      float64
}

// LiveStats computes a streaming snapshot without sorting recorded durations.
func (c *Collector) LiveStats() LiveStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s LiveStats
	for _, m := range c.metrics {
		s.Total++
		if m.Status == StatusFail {
			s.Failed++
		} else {
			s.Passed++
		}
	}
	if c.hist.TotalCount() > 0 {
		s.P50Ms = float64(c.hist.ValueAtQuantile(50)) / 1000
		s.P99Ms = float64(c.hist.ValueAtQuantile(99)) / 1000
	}
	s.Throughput = throughput(int(s.Total), c.now().Sub(c.start))
	return s
}

// GenerateReport reduces the entire accumulated sequence into a
// PerformanceReport and writes the summary block to the configured sink.
// Calling it again after further Record calls reflects the cumulative total;
// nothing is invalidated or archived.
func (c *Collector) GenerateReport(testName string) PerformanceReport {
	c.mu.Lock()

	end := c.now()
	total := len(c.metrics)
	var passed, failed int
	durations := make([]time.Duration, 0, total)
	var sum time.Duration
	for _, m := range c.metrics {
		if m.Status == StatusFail {
			failed++
		} else {
			passed++
		}
		durations = append(durations, m.Duration)
		sum += m.Duration
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	report := PerformanceReport{
		RunID:              ulid.Make().String(),
		TestName:           testName,
		StartTime:          c.start,
		EndTime:            end,
		TotalTransactions:  total,
		PassedTransactions: passed,
		FailedTransactions: failed,
		Throughput:         throughput(total, end.Sub(c.start)),
		Steps:              stepBreakdown(c.metrics),
	}
	if total > 0 {
		report.ErrorRate = float64(failed) / float64(total) * 100
		avg := time.Duration(int64(sum) / int64(total))
		report.Duration = DurationStats{
			Min: durations[0].Milliseconds(),
			Max: durations[total-1].Milliseconds(),
			Avg: avg.Milliseconds(),
			P50: nearestRank(durations, 50).Milliseconds(),
			P90: nearestRank(durations, 90).Milliseconds(),
			P95: nearestRank(durations, 95).Milliseconds(),
			P99: nearestRank(durations, 99).Milliseconds(),
		}
	}

	out := c.out
	c.mu.Unlock()

	WriteSummary(out, report)
	return report
}

// nearestRank indexes the ascending-sorted durations at ceil(p/100*n)-1.
// Returns 0 for an empty input. Not an interpolated percentile.
func nearestRank(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := ceilDiv(p, n) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func ceilDiv(p float64, n int) int {
	rank := p / 100 * float64(n)
	idx := int(rank)
	if rank > float64(idx) {
		idx++
	}
	return idx
}

// throughput divides the transaction count by the collector's wall-clock
// lifetime in seconds. A zero span divides by 1 instead so an instant report
// does not blow up; this is a degenerate-case policy, not a precision fix.
func throughput(total int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs == 0 {
		secs = 1
	}
	return float64(total) / secs
}

func stepBreakdown(all []TransactionMetric) map[string]StepStats {
	if len(all) == 0 {
		return nil
	}
	durations := make(map[string][]time.Duration)
	stats := make(map[string]StepStats)
	for _, m := range all {
		s := stats[m.StepName]
		s.Total++
		if m.Status == StatusFail {
			s.Failed++
		} else {
			s.Passed++
		}
		stats[m.StepName] = s
		durations[m.StepName] = append(durations[m.StepName], m.Duration)
	}
	for name, ds := range durations {
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
		var sum time.Duration
		for _, d := range ds {
			sum += d
		}
		s := stats[name]
		s.AvgMs = time.Duration(int64(sum) / int64(len(ds))).Milliseconds()
		s.P95Ms = nearestRank(ds, 95).Milliseconds()
		stats[name] = s
	}
	return stats
}
