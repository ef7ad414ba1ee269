// Package watch reruns generation when Rust sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a watch loop.
type Options struct {
	// Root is the directory tree to watch.
	Root string

	// Suffix marks generated files; changes to them are ignored so that
	// writing outputs does not trigger another run.
	Suffix string

	// Debounce is how long the tree must be quiet before a run starts.
	Debounce time.Duration

	// Logger receives watcher diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// RunFunc performs one generation pass. changed holds the root-relative
// slash paths that triggered it, sorted; it is nil for the first pass.
type RunFunc func(ctx context.Context, changed []string) error

// Run calls fn once, then again after every debounced batch of .rs
// changes below opts.Root, until ctx is cancelled. Errors from fn are
// logged and do not stop the loop.
func Run(ctx context.Context, opts Options, fn RunFunc) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, root); err != nil {
		return err
	}
	logger.InfoContext(ctx, "watching", slog.String("root", root))

	invoke := func(changed []string) {
		if err := fn(ctx, changed); err != nil && ctx.Err() == nil {
			logger.ErrorContext(ctx, "generation failed", slog.Any("error", err))
		}
	}
	invoke(nil)

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := addTree(w, ev.Name); err != nil {
						logger.WarnContext(ctx, "watch new directory", slog.String("path", ev.Name), slog.Any("error", err))
					}
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !relevant(ev.Name, opts.Suffix) {
				continue
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				continue
			}
			pending[filepath.ToSlash(rel)] = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watcher error", slog.Any("error", err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			logger.DebugContext(ctx, "sources changed", slog.Any("paths", changed))
			invoke(changed)
		}
	}
}

// addTree watches dir and every directory below it that the provider would
// scan.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func skipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}

// relevant reports whether a change to path should trigger a run.
func relevant(path, suffix string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".rs" {
		return false
	}
	return suffix == "" || !strings.HasSuffix(base, suffix+".rs")
}
