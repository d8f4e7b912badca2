package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pacerlabs/pacer/internal/metrics"
)

// ProgressReporter displays a live progress line on a terminal. It reads the
// collector's streaming snapshot, so the percentiles shown are approximate;
// the final report recomputes them exactly.
type ProgressReporter struct {
	collector *metrics.Collector
	interval  time.Duration
	writer    io.Writer

	mu       sync.Mutex
	active   bool
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		interval:  interval,
		writer:    writer,
	}
}

// Start begins displaying progress updates in a background goroutine. A
// stopped reporter may be started again.
func (p *ProgressReporter) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return
	}
	p.active = true
	p.ticker = time.NewTicker(p.interval)
	p.done = make(chan struct{})
	p.finished = make(chan struct{})
	go p.run(p.ticker, p.done, p.finished)
}

// Stop halts progress updates and terminates the line.
func (p *ProgressReporter) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	ticker, done, finished := p.ticker, p.done, p.finished
	p.mu.Unlock()

	close(done)
	ticker.Stop()
	<-finished
	fmt.Fprintln(p.writer)
}

func (p *ProgressReporter) run(ticker *time.Ticker, done, finished chan struct{}) {
	defer close(finished)
	for {
		select {
		case <-ticker.C:
			s := p.collector.LiveStats()
			fmt.Fprintf(p.writer,
				"\rTransactions: %d | Passed: %d | Failed: %d | Throughput: %.1f/s | ~p50: %.1fms | ~p99: %.1fms",
				s.Total, s.Passed, s.Failed, s.Throughput, s.P50Ms, s.P99Ms)
		case <-done:
			return
		}
	}
}
