// Package config defines the run descriptor for a load test and loads it
// from config files and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the immutable run descriptor. Missing optional fields are
// defaulted by the loader, never treated as errors.
type Config struct {
	TestName   string        `mapstructure:"test_name"`
	Iterations int           `mapstructure:"iterations"`
	Duration   time.Duration `mapstructure:"duration"`
	Users      int           `mapstructure:"users"`
	Pacing     time.Duration `mapstructure:"pacing"`
	ThinkTime  time.Duration `mapstructure:"think_time"`

	Target   string            `mapstructure:"target"`
	Method   string            `mapstructure:"method"`
	Headers  map[string]string `mapstructure:"headers"`
	Body     string            `mapstructure:"body"`
	BodyFile string            `mapstructure:"body_file"`
	Timeout  time.Duration     `mapstructure:"timeout"`

	Checks     []Check       `mapstructure:"checks"`
	Feeder     FeederConfig  `mapstructure:"feeder"`
	Thresholds []string      `mapstructure:"thresholds"`
	Tracing    TracingConfig `mapstructure:"tracing"`

	JSONOutput bool   `mapstructure:"json_output"`
	JSONFile   string `mapstructure:"json_file"`
	HTMLOutput string `mapstructure:"html_output"`
	LogErrors  bool   `mapstructure:"log_errors"`
	Verbose    bool   `mapstructure:"verbose"`
	ConfigFile string `mapstructure:"-"`
}

// Check asserts on a JSON field of the response body; a failed check fails
// the transaction.
type Check struct {
	JSONPath string `mapstructure:"jsonpath"`
	Equals   string `mapstructure:"equals"`
	Contains string `mapstructure:"contains"`
}

// FeederConfig points at a dataset for per-transaction data injection.
type FeederConfig struct {
	Path string `mapstructure:"path"`
	Type string `mapstructure:"type"` // "csv", "json" or "yaml"
}

// TracingConfig configures the OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" (default) or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// ValidationError carries every issue found in one pass.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.Target) == "" {
		issues = append(issues, "target is required (use --help for usage information)")
	}
	if c.Iterations < 0 {
		issues = append(issues, "iterations must be >= 0")
	}
	if c.Duration < 0 {
		issues = append(issues, "duration must be >= 0")
	}
	if c.Users < 0 {
		issues = append(issues, "users must be >= 0")
	}
	if c.Pacing < 0 {
		issues = append(issues, "pacing must be >= 0")
	}
	if c.ThinkTime < 0 {
		issues = append(issues, "think-time must be >= 0")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if strings.TrimSpace(c.Body) != "" && strings.TrimSpace(c.BodyFile) != "" {
		issues = append(issues, "body and body-file are mutually exclusive")
	}

	issues = append(issues, validateChecks(c.Checks)...)
	issues = append(issues, validateFeeder(c.Feeder)...)
	issues = append(issues, validateTracing(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateChecks(checks []Check) []string {
	var issues []string
	for idx, chk := range checks {
		if strings.TrimSpace(chk.JSONPath) == "" {
			issues = append(issues, fmt.Sprintf("checks[%d]: jsonpath is required", idx))
		}
		if chk.Equals == "" && chk.Contains == "" {
			issues = append(issues, fmt.Sprintf("checks[%d]: equals or contains is required", idx))
		}
	}
	return issues
}

func validateFeeder(feeder FeederConfig) []string {
	if strings.TrimSpace(feeder.Path) == "" {
		return nil
	}
	switch feeder.Type {
	case "csv", "json", "yaml":
		return nil
	case "":
		return []string{"feeder: type is required when path is specified"}
	default:
		return []string{fmt.Sprintf("feeder: type must be 'csv', 'json' or 'yaml', got %q", feeder.Type)}
	}
}

func validateTracing(tr TracingConfig) []string {
	var issues []string
	switch strings.ToLower(tr.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", tr.Protocol))
	}
	if tr.SampleRate < 0 || tr.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", tr.SampleRate))
	}
	return issues
}
