package config

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader resolves a Config from a config file and command-line arguments.
// Flags win over file settings; file settings win over defaults.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and the optional config file.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			_ = cmd.Usage()
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flags := cmd.Flags()
	if helpFlag := flags.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			_ = cmd.Usage()
			return nil, ErrHelpRequested
		}
	}

	configPath := flags.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		_ = cmd.Usage()
		return nil, ErrHelpRequested
	}

	cfg := &Config{
		TestName:   "Load Test",
		Iterations: 1,
		Users:      1,
		Method:     "GET",
		Headers:    map[string]string{},
		Timeout:    30 * time.Second,
		Tracing:    TracingConfig{SampleRate: 1.0},
	}

	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
		cfg.ConfigFile = configPath
	}

	if err := applyFlagOverrides(cfg, flags); err != nil {
		return nil, err
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.Target = strings.TrimSpace(cfg.Target)
	cfg.BodyFile = strings.TrimSpace(cfg.BodyFile)
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	return cfg, nil
}

// applyFlagOverrides copies every flag the user actually set onto the config.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) error {
	if flags.Changed("name") {
		cfg.TestName, _ = flags.GetString("name")
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("duration") {
		cfg.Duration, _ = flags.GetDuration("duration")
	}
	if flags.Changed("users") {
		cfg.Users, _ = flags.GetInt("users")
	}
	if flags.Changed("pacing") {
		cfg.Pacing, _ = flags.GetDuration("pacing")
	}
	if flags.Changed("think-time") {
		cfg.ThinkTime, _ = flags.GetDuration("think-time")
	}
	if flags.Changed("target") {
		cfg.Target, _ = flags.GetString("target")
	}
	if flags.Changed("method") {
		cfg.Method, _ = flags.GetString("method")
	}
	if flags.Changed("header") {
		entries, _ := flags.GetStringSlice("header")
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for _, entry := range entries {
			key, value, err := splitHeader(entry)
			if err != nil {
				return err
			}
			cfg.Headers[http.CanonicalHeaderKey(key)] = value
		}
	}
	if flags.Changed("body") {
		cfg.Body, _ = flags.GetString("body")
	}
	if flags.Changed("body-file") {
		cfg.BodyFile, _ = flags.GetString("body-file")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("feeder-path") {
		cfg.Feeder.Path, _ = flags.GetString("feeder-path")
	}
	if flags.Changed("feeder-type") {
		cfg.Feeder.Type, _ = flags.GetString("feeder-type")
	}
	if flags.Changed("threshold") {
		cfg.Thresholds, _ = flags.GetStringSlice("threshold")
	}
	if flags.Changed("json-output") {
		cfg.JSONOutput, _ = flags.GetBool("json-output")
	}
	if flags.Changed("json-file") {
		cfg.JSONFile, _ = flags.GetString("json-file")
	}
	if flags.Changed("html-output") {
		cfg.HTMLOutput, _ = flags.GetString("html-output")
	}
	if flags.Changed("log-errors") {
		cfg.LogErrors, _ = flags.GetBool("log-errors")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("trace") {
		cfg.Tracing.Enabled, _ = flags.GetBool("trace")
	}
	if flags.Changed("trace-endpoint") {
		cfg.Tracing.Endpoint, _ = flags.GetString("trace-endpoint")
	}
	if flags.Changed("trace-protocol") {
		cfg.Tracing.Protocol, _ = flags.GetString("trace-protocol")
	}
	if flags.Changed("trace-insecure") {
		cfg.Tracing.Insecure, _ = flags.GetBool("trace-insecure")
	}
	if flags.Changed("trace-service") {
		cfg.Tracing.ServiceName, _ = flags.GetString("trace-service")
	}
	if flags.Changed("trace-sample-rate") {
		cfg.Tracing.SampleRate, _ = flags.GetFloat64("trace-sample-rate")
	}
	return nil
}

func splitHeader(entry string) (string, string, error) {
	key, value, found := strings.Cut(entry, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("invalid header %q: expected key=value", entry)
	}
	return key, strings.TrimSpace(value), nil
}
