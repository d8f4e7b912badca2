// Package httpaction turns a target configuration into a runnable load-test
// action that issues one HTTP request per transaction.
package httpaction

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pacerlabs/pacer/internal/check"
	"github.com/pacerlabs/pacer/internal/config"
	"github.com/pacerlabs/pacer/internal/feeder"
)

// HTTPError marks a response with a 4xx/5xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Capture enough of the body for error messages and JSON checks without
// buffering huge payloads.
const maxCapturedBodyBytes = 64 * 1024

// Action issues one HTTP request per invocation. A non-2xx/3xx status or a
// failed body check fails the transaction.
type Action struct {
	client  *http.Client
	builder *Builder
	checks  []check.Check
}

func New(cfg *config.Config, fd feeder.Feeder) (*Action, error) {
	builder, err := NewBuilder(cfg, fd)
	if err != nil {
		return nil, err
	}

	checks := make([]check.Check, 0, len(cfg.Checks))
	for _, c := range cfg.Checks {
		checks = append(checks, check.Check{
			JSONPath: c.JSONPath,
			Equals:   c.Equals,
			Contains: c.Contains,
		})
	}

	return &Action{
		client:  &http.Client{Timeout: cfg.Timeout},
		builder: builder,
		checks:  checks,
	}, nil
}

func (a *Action) Do(ctx context.Context) error {
	req, err := a.builder.Build(ctx)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	snippet, err := io.ReadAll(io.LimitReader(resp.Body, maxCapturedBodyBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	return check.EvaluateAll(a.checks, snippet)
}
