package httpaction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/pacerlabs/pacer/internal/config"
	"github.com/pacerlabs/pacer/internal/feeder"
	"github.com/pacerlabs/pacer/internal/tracing"
)

// Builder constructs one HTTP request per transaction. Target, headers and
// body may carry ${field} placeholders resolved from the feeder's next
// record.
type Builder struct {
	method  string
	target  string
	headers http.Header
	body    string
	feeder  feeder.Feeder
}

func NewBuilder(cfg *config.Config, fd feeder.Feeder) (*Builder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	target := strings.TrimSpace(cfg.Target)
	if target == "" {
		return nil, errors.New("target URL is required")
	}

	body := cfg.Body
	if cfg.BodyFile != "" {
		data, err := os.ReadFile(cfg.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		body = string(data)
	}

	headers := http.Header{}
	for key, value := range cfg.Headers {
		headers.Set(key, value)
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodGet
	}

	return &Builder{
		method:  method,
		target:  target,
		headers: headers,
		body:    body,
		feeder:  fd,
	}, nil
}

// Build assembles the next request, consuming one feeder record when a
// feeder is configured.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	var record feeder.Record
	if b.feeder != nil {
		var err error
		record, err = b.feeder.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("feeder: %w", err)
		}
	}

	target := feeder.Expand(b.target, record)
	var bodyReader *strings.Reader
	if b.body != "" {
		bodyReader = strings.NewReader(feeder.Expand(b.body, record))
	}

	var req *http.Request
	var err error
	if bodyReader != nil {
		req, err = http.NewRequestWithContext(ctx, b.method, target, bodyReader)
	} else {
		req, err = http.NewRequestWithContext(ctx, b.method, target, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, values := range b.headers {
		for _, value := range values {
			req.Header.Add(key, feeder.Expand(value, record))
		}
	}
	tracing.InjectHTTPHeaders(ctx, req.Header)
	return req, nil
}
