package config

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pacer",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Run shape flags
	flags.StringP("name", "n", "Load Test", "Test name used as the report label")
	flags.IntP("iterations", "i", 1, "Number of loop passes when no duration is set")
	flags.DurationP("duration", "d", 0, "How long to run the loop (takes priority over iterations)")
	flags.IntP("users", "u", 1, "Concurrency hint recorded for outer harnesses (not enforced)")
	flags.Duration("pacing", 0, "Minimum spacing between consecutive iteration starts")
	flags.Duration("think-time", 0, "Wait inserted before each transaction executes")

	// Target flags
	flags.String("target", "", "Target URL to exercise")
	flags.String("method", "GET", "HTTP method to use")
	flags.StringSlice("header", nil, "Additional request header in key=value form")
	flags.String("body", "", "Inline request body payload")
	flags.String("body-file", "", "Path to file containing the request body")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")

	// Data and assertion flags
	flags.String("feeder-path", "", "Path to CSV, JSON or YAML dataset for per-transaction injection")
	flags.String("feeder-type", "", "Type of feeder file: 'csv', 'json' or 'yaml'")
	flags.StringSlice("threshold", nil, "Performance assertion, e.g. 'transaction_duration:p95 < 500'")

	// Output flags
	flags.Bool("json-output", false, "Emit the structured report as JSON on stdout")
	flags.String("json-file", "", "Write the structured report as JSON to the specified file path")
	flags.String("html-output", "", "Write an HTML report to the specified file path")
	flags.Bool("log-errors", false, "Log each failed transaction to stderr")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.Bool("trace", false, "Enable OpenTelemetry tracing")
	flags.String("trace-endpoint", "", "OTLP endpoint for trace export")
	flags.String("trace-protocol", "", "OTLP protocol: 'grpc' or 'http'")
	flags.Bool("trace-insecure", false, "Disable TLS for the OTLP exporter")
	flags.String("trace-service", "", "Service name reported on spans")
	flags.Float64("trace-sample-rate", 1.0, "Fraction of transactions sampled, 0.0-1.0 (0 exports no spans)")
}
