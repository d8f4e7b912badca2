package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/pacerlabs/pacer/internal/metrics"
	"github.com/pacerlabs/pacer/internal/threshold"
)

// WriteJSONFile renders the report to a JSON file on disk.
func WriteJSONFile(path string, report metrics.PerformanceReport) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		return err
	}
	return writeArtifact(path, buf.Bytes())
}

// WriteHTMLFile renders the report to a standalone HTML file on disk.
func WriteHTMLFile(path string, report metrics.PerformanceReport, thresholdResults []threshold.Result) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, report, thresholdResults); err != nil {
		return err
	}
	return writeArtifact(path, buf.Bytes())
}

// writeArtifact replaces path with data under an advisory file lock, so
// concurrent runs pointed at the same artifact path do not interleave writes.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock artifact %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace artifact %s: %w", path, err)
	}
	return nil
}
