package runner

import (
	"context"
	"time"
)

// Action abstracts executing a single measured operation.
// Implementations should return an error for failed transactions.
type Action interface {
	Do(ctx context.Context) error
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context) error

func (f ActionFunc) Do(ctx context.Context) error { return f(ctx) }

// FailureLogger receives errors that Run swallows at loop level.
type FailureLogger interface {
	LogFailure(err error)
}

// Options configure the Runner.
type Options struct {
	TestName   string        // report label
	Iterations int           // loop passes when Duration is zero (default 1)
	Duration   time.Duration // wall-clock cap; takes priority over Iterations when > 0
	Users      int           // concurrency hint for an outer harness; not enforced here
	Pacing     time.Duration // minimum spacing between consecutive iteration starts
	ThinkTime  time.Duration // wait inserted before each action executes

	FailureLogger FailureLogger // optional; nil means swallowed errors are not logged

	NowFunc   func() time.Time      // optional injection for tests
	SleepFunc func(d time.Duration) // optional injection for tests
}

func (o *Options) normalize() {
	if o.Iterations <= 0 {
		o.Iterations = 1
	}
	if o.Duration < 0 {
		o.Duration = 0
	}
	if o.Users <= 0 {
		o.Users = 1
	}
	if o.Pacing < 0 {
		o.Pacing = 0
	}
	if o.ThinkTime < 0 {
		o.ThinkTime = 0
	}
	if o.NowFunc == nil {
		o.NowFunc = time.Now
	}
	if o.SleepFunc == nil {
		o.SleepFunc = time.Sleep
	}
}
