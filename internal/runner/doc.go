// Package runner drives a bounded or timed sequence of invocations of a
// caller-supplied action, enforcing pacing and think-time, recording one
// metric per invocation, and producing the final performance report.
//
// # Basic Usage
//
//	r := runner.New(runner.Options{
//		TestName:   "checkout-flow",
//		Iterations: 100,
//		Pacing:     500 * time.Millisecond,
//		ThinkTime:  200 * time.Millisecond,
//	})
//	report := r.Run(ctx, action)
//
// # Action
//
// The [Action] interface is the opaque operation being measured:
//
//	type Action interface {
//		Do(ctx context.Context) error
//	}
//
// The runner does not know or care whether the action drives a browser,
// calls an API, or queries a database. [ActionFunc] adapts a bare function.
//
// # Execution model
//
// There is exactly one active control flow: iterations execute strictly
// sequentially, and the next action never starts before the current
// iteration's metric has been recorded. Context cancellation is the external
// stop signal; it is observed only at the top of the next iteration and
// never interrupts a wait or an in-flight action. The runner imposes no
// per-action timeout and performs no retries.
//
// A failing iteration is recorded, reported through the optional
// [FailureLogger], and swallowed by [Runner.Run] so the load test continues.
// [Runner.RunTransaction] called directly re-raises the same error.
package runner
