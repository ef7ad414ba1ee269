// Package provider extracts records from Rust source files and converts
// them to the intermediate representation.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/broady/derive/derivegen/ir"
	"golang.org/x/sync/errgroup"
)

// SourceProvider extracts records by parsing Rust source with tree-sitter.
type SourceProvider struct {
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// SourceInputOptions configures source-based extraction.
type SourceInputOptions struct {
	// Root is the directory Inputs are resolved against and that output
	// paths are relative to. Defaults to the current directory.
	Root string

	// Inputs are .rs files or directories to scan, relative to Root or absolute.
	// Directories are walked recursively.
	Inputs []string

	// Suffix marks generated files (stem + Suffix + ".rs"); they are skipped
	// when walking directories. Empty disables the filter.
	Suffix string

	// Concurrency bounds the number of files parsed at once.
	// Defaults to GOMAXPROCS.
	Concurrency int
}

// BuildSchema parses every input file and returns a Schema holding the
// files that contain at least one deriving record, sorted by path.
func (p *SourceProvider) BuildSchema(ctx context.Context, opts SourceInputOptions) (*ir.Schema, error) {
	if len(opts.Inputs) == 0 {
		return nil, fmt.Errorf("no inputs specified")
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := expandInputs(root, opts.Inputs, opts.Suffix)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "expanded inputs", slog.Int("files", len(paths)))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*parsed, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, rel := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			res, err := parse(gctx, rel, content)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	schema := &ir.Schema{Root: root}
	for _, res := range results {
		for _, w := range res.warnings {
			schema.AddWarning(w)
		}
		if len(res.file.Records) == 0 {
			continue
		}
		logger.DebugContext(ctx, "extracted records",
			slog.String("file", res.file.Path),
			slog.Int("records", len(res.file.Records)),
		)
		schema.AddFile(res.file)
	}
	return schema, nil
}

// ParseFile extracts the deriving records of a single file.
// path is used for source positions only.
func ParseFile(ctx context.Context, path string, content []byte) (*ir.File, []ir.Warning, error) {
	res, err := parse(ctx, path, content)
	if err != nil {
		return nil, nil, err
	}
	return res.file, res.warnings, nil
}

// ExtractError reports a declaration the providers cannot turn into a record,
// or a file that does not parse.
type ExtractError struct {
	Source  ir.Source
	Record  string
	Message string
}

func (e *ExtractError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Record, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}
