package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckSink(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fresh_derived.rs"), []byte("fresh"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old_derived.rs"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewCheckSink(dir)
	ctx := context.Background()
	writes := map[string]string{
		"old_derived.rs":         "new",
		"fresh_derived.rs":       "fresh",
		"src/missing_derived.rs": "anything",
	}
	for p, c := range writes {
		if err := s.WriteFile(ctx, p, []byte(c)); err != nil {
			t.Fatalf("WriteFile(%q) error = %v", p, err)
		}
	}

	want := []Mismatch{
		{Path: "old_derived.rs", Drift: DriftStale},
		{Path: "src/missing_derived.rs", Drift: DriftMissing},
	}
	if diff := cmp.Diff(want, s.Mismatches()); diff != "" {
		t.Errorf("Mismatches() mismatch (-want +got):\n%s", diff)
	}
	if s.Checked() != 3 {
		t.Errorf("Checked() = %d, want 3", s.Checked())
	}
	if s.UpToDate() {
		t.Error("UpToDate() = true, want false")
	}

	// Nothing is written.
	if _, err := os.Stat(filepath.Join(dir, "src")); !os.IsNotExist(err) {
		t.Errorf("CheckSink created a directory: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "old_derived.rs"))
	if string(got) != "old" {
		t.Errorf("CheckSink modified a file: %q", got)
	}
}

func TestCheckSink_UpToDate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib_derived.rs"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewCheckSink(dir)
	if err := s.WriteFile(context.Background(), "lib_derived.rs", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if !s.UpToDate() || len(s.Mismatches()) != 0 {
		t.Errorf("UpToDate() = %v, Mismatches() = %v", s.UpToDate(), s.Mismatches())
	}
	if got := (Mismatch{Path: "a.rs", Drift: DriftStale}).String(); got != "a.rs: stale" {
		t.Errorf("String() = %q", got)
	}
}
