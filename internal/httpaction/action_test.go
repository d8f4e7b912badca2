package httpaction_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pacerlabs/pacer/internal/config"
	"github.com/pacerlabs/pacer/internal/feeder"
	"github.com/pacerlabs/pacer/internal/httpaction"
)

func TestActionSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{"status": "ok"}`)
	}))
	defer srv.Close()

	cfg := &config.Config{Target: srv.URL + "/health", Method: "GET"}
	action, err := httpaction.New(cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := action.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotPath != "/health" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestActionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := &config.Config{Target: srv.URL}
	action, err := httpaction.New(cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = action.Do(context.Background())
	var httpErr *httpaction.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "upstream exploded") {
		t.Errorf("body snippet = %q", httpErr.Body)
	}
}

func TestActionBodyCheckFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status": "degraded"}`)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Target: srv.URL,
		Checks: []config.Check{{JSONPath: "status", Equals: "ok"}},
	}
	action, err := httpaction.New(cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = action.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), `got "degraded"`) {
		t.Fatalf("expected check failure, got %v", err)
	}
}

func TestActionFeederSubstitution(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	dataPath := filepath.Join(t.TempDir(), "users.csv")
	if err := os.WriteFile(dataPath, []byte("user\nalice\nbob\n"), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	fd, err := feeder.NewCSVFeeder(dataPath)
	if err != nil {
		t.Fatalf("feeder: %v", err)
	}

	cfg := &config.Config{
		Target:  srv.URL + "/login",
		Method:  "POST",
		Body:    `{"user": "${user}"}`,
		Headers: map[string]string{"X-User": "${user}"},
	}
	action, err := httpaction.New(cfg, fd)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := action.Do(ctx); err != nil {
			t.Fatalf("do %d: %v", i, err)
		}
	}

	want := []string{`{"user": "alice"}`, `{"user": "bob"}`, `{"user": "alice"}`}
	for i := range want {
		if bodies[i] != want[i] {
			t.Errorf("body %d = %q, want %q", i, bodies[i], want[i])
		}
	}
}

func TestNewBuilderRequiresTarget(t *testing.T) {
	if _, err := httpaction.NewBuilder(&config.Config{}, nil); err == nil {
		t.Fatal("expected error for missing target")
	}
	if _, err := httpaction.NewBuilder(nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestBuilderReadsBodyFile(t *testing.T) {
	bodyPath := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(bodyPath, []byte(`{"from": "file"}`), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}

	builder, err := httpaction.NewBuilder(&config.Config{
		Target:   "https://example.com",
		Method:   "post",
		BodyFile: bodyPath,
	}, nil)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.Method != "POST" {
		t.Errorf("method = %q", req.Method)
	}
	data, _ := io.ReadAll(req.Body)
	if string(data) != `{"from": "file"}` {
		t.Errorf("body = %q", data)
	}
}
