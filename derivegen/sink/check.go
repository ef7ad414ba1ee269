package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
)

// Drift describes why a generated file on disk does not match.
type Drift string

const (
	DriftMissing Drift = "missing" // no file on disk
	DriftStale   Drift = "stale"   // content differs
)

// Mismatch is one out-of-date output found by a CheckSink.
type Mismatch struct {
	Path  string
	Drift Drift
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.Path, m.Drift)
}

// CheckSink compares generated content against the files below Root
// without writing anything.
type CheckSink struct {
	Root string

	mu         sync.Mutex
	checked    int
	mismatches []Mismatch
}

// NewCheckSink creates a CheckSink comparing against root.
func NewCheckSink(root string) *CheckSink {
	return &CheckSink{Root: root}
}

// WriteFile records whether content matches the file at path.
func (s *CheckSink) WriteFile(ctx context.Context, path string, content []byte) error {
	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var drift Drift
	existing, err := os.ReadFile(fullPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		drift = DriftMissing
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	case !bytes.Equal(existing, content):
		drift = DriftStale
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked++
	if drift != "" {
		s.mismatches = append(s.mismatches, Mismatch{Path: path, Drift: drift})
	}
	return nil
}

// Checked returns the number of files compared.
func (s *CheckSink) Checked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked
}

// Mismatches returns the out-of-date outputs sorted by path.
func (s *CheckSink) Mismatches() []Mismatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Mismatch(nil), s.mismatches...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// UpToDate reports whether every compared file matched.
func (s *CheckSink) UpToDate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mismatches) == 0
}
