package feeder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pacerlabs/pacer/internal/feeder"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCSVFeederRoundRobin(t *testing.T) {
	path := writeFile(t, "users.csv", "username,password\nalice,s3cret\nbob,hunter2\n")

	f, err := feeder.NewCSVFeeder(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer f.Close()

	if f.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", f.Len())
	}

	ctx := context.Background()
	var usernames []string
	for i := 0; i < 4; i++ {
		rec, err := f.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		usernames = append(usernames, rec["username"])
	}
	want := []string{"alice", "bob", "alice", "bob"}
	for i := range want {
		if usernames[i] != want[i] {
			t.Fatalf("round-robin order %v, want %v", usernames, want)
		}
	}
}

func TestCSVFeederRejectsRaggedRows(t *testing.T) {
	path := writeFile(t, "bad.csv", "a,b\n1\n")
	if _, err := feeder.NewCSVFeeder(path); err == nil {
		t.Fatal("expected error for ragged row")
	}
}

func TestCSVFeederRequiresData(t *testing.T) {
	path := writeFile(t, "empty.csv", "a,b\n")
	if _, err := feeder.NewCSVFeeder(path); err == nil {
		t.Fatal("expected error for header-only file")
	}
}

func TestJSONFeeder(t *testing.T) {
	path := writeFile(t, "data.json", `[{"id": 1, "name": "alice"}, {"id": 2, "name": "bob"}]`)

	f, err := feeder.NewJSONFeeder(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer f.Close()

	rec, err := f.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec["id"] != "1" || rec["name"] != "alice" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestYAMLFeeder(t *testing.T) {
	path := writeFile(t, "data.yaml", "- sku: A-100\n  qty: 3\n- sku: B-200\n  qty: 1\n")

	f, err := feeder.NewYAMLFeeder(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer f.Close()

	if f.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", f.Len())
	}
	rec, err := f.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec["sku"] != "A-100" || rec["qty"] != "3" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestOpenDispatchesOnType(t *testing.T) {
	path := writeFile(t, "users.csv", "u\nalice\n")
	if _, err := feeder.Open(path, "csv"); err != nil {
		t.Errorf("csv open: %v", err)
	}
	if _, err := feeder.Open(path, "xml"); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestNextHonorsContext(t *testing.T) {
	path := writeFile(t, "users.csv", "u\nalice\n")
	f, err := feeder.NewCSVFeeder(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Next(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestExpand(t *testing.T) {
	rec := feeder.Record{"user": "alice", "token": "t-1"}

	cases := []struct {
		template string
		want     string
	}{
		{`{"user": "${user}", "token": "${token}"}`, `{"user": "alice", "token": "t-1"}`},
		{"no placeholders", "no placeholders"},
		{"${missing}", "${missing}"},
		{"prefix-$user", "prefix-$user"},
	}
	for _, tc := range cases {
		if got := feeder.Expand(tc.template, rec); got != tc.want {
			t.Errorf("Expand(%q) = %q, want %q", tc.template, got, tc.want)
		}
	}

	if got := feeder.Expand("${user}", nil); got != "${user}" {
		t.Errorf("nil record should leave template unchanged, got %q", got)
	}
}

func TestExpandPreservesDollarLiterals(t *testing.T) {
	rec := feeder.Record{"user": "alice"}

	template := `{"user": "${user}", "price": "$9.99", "note": "save $100"}`
	want := `{"user": "alice", "price": "$9.99", "note": "save $100"}`
	if got := feeder.Expand(template, rec); got != want {
		t.Errorf("Expand(%q) = %q, want %q", template, got, want)
	}
}
