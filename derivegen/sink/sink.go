// Package sink provides the destinations generated Rust files are written to.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OutputSink receives generated file content.
// Implementations must be safe for concurrent calls.
type OutputSink interface {
	// WriteFile stores content under path, a clean slash-separated path
	// relative to the sink's root.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes generated files below a root directory.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files.
	// If false, writing to an existing path fails.
	Overwrite bool

	// SkipUnchanged leaves files whose content already matches untouched,
	// so their modification time does not change.
	SkipUnchanged bool
}

// NewFilesystemSink returns a sink that overwrites files below root and
// skips files that are already up to date.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{
		Root:          root,
		Mode:          0644,
		Overwrite:     true,
		SkipUnchanged: true,
	}
}

// WriteFile writes content to path below Root, creating parent directories.
// The write goes through a temp file in the target directory and a rename,
// so readers never observe a partial file.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.SkipUnchanged {
		if existing, err := os.ReadFile(fullPath); err == nil && bytes.Equal(existing, content) {
			return nil
		}
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := writeTemp(dir, content, mode)
	if err != nil {
		return err
	}
	// Leftover temps match .derive-*.tmp if removal fails.
	discard := func() { _ = os.Remove(tmp) }

	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmp, fullPath); err != nil {
			discard()
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	}
	// Link fails with EEXIST instead of racing a stat.
	err = os.Link(tmp, fullPath)
	discard()
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", path)
		}
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func writeTemp(dir string, content []byte, mode os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, ".derive-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	_, werr := f.Write(content)
	cerr := f.Close()
	switch {
	case werr != nil:
		err = fmt.Errorf("write temp file: %w", werr)
	case cerr != nil:
		err = fmt.Errorf("close temp file: %w", cerr)
	default:
		if cherr := os.Chmod(name, mode); cherr != nil {
			err = fmt.Errorf("set file mode: %w", cherr)
		}
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// resolve validates p and joins it to root, refusing results outside root.
func resolve(root, p string) (string, error) {
	if err := ValidatePath(p); err != nil {
		return "", fmt.Errorf("invalid path %q: %w", p, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root directory: %w", err)
	}
	full := filepath.Join(absRoot, filepath.FromSlash(p))
	if full != absRoot && !strings.HasPrefix(full, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes root directory: %q", p)
	}
	return full, nil
}

// MemorySink keeps generated files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// Files returns a copy of all stored files.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, content := range s.files {
		out[p] = bytes.Clone(content)
	}
	return out
}

// Paths returns the stored paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Get returns the content stored at path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return nil
	}
	return bytes.Clone(content)
}

// Reset removes all stored files.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// ValidatePath checks that p is usable as an output path: non-empty,
// relative, slash separated, clean and free of ".." components.
func ValidatePath(p string) error {
	if p == "" {
		return errors.New("path is empty")
	}
	if strings.HasPrefix(p, "/") || filepath.IsAbs(p) || hasDriveLetter(p) {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(p, `\`) {
		return errors.New("path must use / as separator")
	}
	for _, elem := range strings.Split(p, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := path.Clean(p); cleaned != p {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, p)
	}
	return nil
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}
