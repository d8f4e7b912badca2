// Package feeder provides per-transaction data records from file-backed
// datasets with deterministic round-robin selection.
package feeder

import (
	"context"
	"fmt"
	"sync"
)

// Record is a single row of data with named fields.
type Record map[string]string

// Feeder hands out records in deterministic round-robin order, wrapping
// around when the dataset is exhausted. Implementations are safe for
// concurrent use.
type Feeder interface {
	Next(ctx context.Context) (Record, error)
	Close() error
	Len() int
}

// Open builds a feeder for the given dataset type: "csv", "json" or "yaml".
func Open(path, kind string) (Feeder, error) {
	switch kind {
	case "csv":
		return NewCSVFeeder(path)
	case "json":
		return NewJSONFeeder(path)
	case "yaml":
		return NewYAMLFeeder(path)
	default:
		return nil, fmt.Errorf("unsupported feeder type %q", kind)
	}
}

// ring is the shared round-robin cursor behind every file feeder.
type ring struct {
	records []Record
	index   int
	mu      sync.Mutex
}

func newRing(records []Record) *ring {
	return &ring{records: records}
}

func (r *ring) Next(ctx context.Context) (Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record := r.records[r.index]
	r.index = (r.index + 1) % len(r.records)
	return record, nil
}

func (r *ring) Close() error { return nil }

func (r *ring) Len() int { return len(r.records) }
