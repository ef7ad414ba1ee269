package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/lib.rs", true},
		{"src/lib_derived.rs", false},
		{"src/.lib.rs.swp", false},
		{"src/.derive-123.tmp", false},
		{"Cargo.toml", false},
		{"src/derived.rs", true},
	}
	for _, tt := range tests {
		if got := relevant(tt.path, "_derived"); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if !relevant("lib_derived.rs", "") {
		t.Error("empty suffix should not filter outputs")
	}
}

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify goroutines on windows are not tracked reliably by goleak")
	}
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "target"), 0755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan []string, 10)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Root:     root,
			Suffix:   "_derived",
			Debounce: 20 * time.Millisecond,
			Logger:   slog.New(slog.DiscardHandler),
		}, func(ctx context.Context, changed []string) error {
			calls <- changed
			return errors.New("errors are logged, not fatal")
		})
	}()

	if got := receive(t, calls); got != nil {
		t.Fatalf("first call changed = %v, want nil", got)
	}

	// Outputs and build dirs are ignored; sources in new dirs are picked up.
	write(t, filepath.Join(root, "lib_derived.rs"))
	write(t, filepath.Join(root, "target", "x.rs"))
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	write(t, filepath.Join(root, "lib.rs"))
	write(t, filepath.Join(root, "src", "mod.rs"))

	var got []string
	deadline := time.After(5 * time.Second)
	for len(dedupe(got)) < 2 {
		select {
		case changed := <-calls:
			got = append(got, changed...)
		case <-deadline:
			t.Fatalf("timed out; changes so far: %v", got)
		}
	}
	if diff := cmp.Diff([]string{"lib.rs", "src/mod.rs"}, dedupe(got)); diff != "" {
		t.Errorf("changed paths mismatch (-want +got):\n%s", diff)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_MissingRoot(t *testing.T) {
	err := Run(context.Background(), Options{Root: filepath.Join(t.TempDir(), "missing")}, func(context.Context, []string) error {
		t.Error("fn called for a missing root")
		return nil
	})
	if err == nil {
		t.Error("Run() with missing root should fail")
	}
}

func receive(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run")
		return nil
	}
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("pub struct S {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
