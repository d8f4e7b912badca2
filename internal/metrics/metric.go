package metrics

import "time"

// Status marks a transaction outcome.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// TransactionMetric is one immutable record per executed action.
// Error is set only when Status is StatusFail. Duration covers the full
// invocation including any think-time wait. StepName labels the iteration or
// step that produced the metric; duplicate step names are allowed.
type TransactionMetric struct {
	Timestamp time.Time
	Duration  time.Duration
	Status    Status
	Error     string
	StepName  string
}
