// Package output renders a finished run for machines and humans: JSON and
// HTML artifacts plus a live progress line while the run is in flight.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pacerlabs/pacer/internal/metrics"
	"github.com/pacerlabs/pacer/internal/threshold"
)

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, report metrics.PerformanceReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintThresholdResults lists every threshold outcome, one line each.
func PrintThresholdResults(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	passed := 0
	for _, r := range results {
		if r.Pass {
			passed++
		}
	}
	fmt.Fprintf(w, "\nThresholds (%d/%d passed):\n", passed, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "  %s\n", r.Message)
	}
}
