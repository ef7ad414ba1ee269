// Package derivegen generates Rust impl blocks for structs that derive
// Ctor, Gtor, Stor or Constdef.
//
// Example:
//
//	res, err := derivegen.FromInputs("src").
//	    Root("./mycrate").
//	    WithLogger(logger).
//	    Generate(ctx)
package derivegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/broady/derive/derivegen/ir"
	"github.com/broady/derive/derivegen/provider"
	"github.com/broady/derive/derivegen/rust"
	"github.com/broady/derive/derivegen/sink"
)

// Result reports the outcome of a generation run.
type Result struct {
	// Files lists the generated files, in input order.
	Files []rust.OutputFile

	// Records is the number of records code was generated for.
	Records int

	// Warnings are non-fatal issues found while reading inputs.
	Warnings []ir.Warning
}

// CheckResult reports whether generated files on disk are current.
type CheckResult struct {
	// Checked is the number of outputs compared.
	Checked int

	// Mismatches lists missing or stale outputs, sorted by path.
	Mismatches []sink.Mismatch

	// Warnings are non-fatal issues found while reading inputs.
	Warnings []ir.Warning
}

// UpToDate reports whether every output matched.
func (r *CheckResult) UpToDate() bool { return len(r.Mismatches) == 0 }

// Generate reads the configured inputs and writes generated files below
// cfg.Root.
func Generate(ctx context.Context, cfg *Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = applyConfigDefaults(cfg)
	start := time.Now()

	gen, err := run(ctx, cfg, logger, sink.NewFilesystemSink(cfg.Root))
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "generation completed",
		slog.Int("files", len(gen.Files)),
		slog.Int("records", gen.RecordsGenerated),
		slog.Duration("duration", time.Since(start)),
	)
	return &Result{Files: gen.Files, Records: gen.RecordsGenerated, Warnings: gen.Warnings}, nil
}

// Check generates in memory and compares the result with the files on disk.
// Nothing is written.
func Check(ctx context.Context, cfg *Config, logger *slog.Logger) (*CheckResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = applyConfigDefaults(cfg)

	checker := sink.NewCheckSink(cfg.Root)
	gen, err := run(ctx, cfg, logger, checker)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{
		Checked:    checker.Checked(),
		Mismatches: checker.Mismatches(),
		Warnings:   gen.Warnings,
	}
	for _, m := range res.Mismatches {
		logger.InfoContext(ctx, "output out of date",
			slog.String("path", m.Path),
			slog.String("drift", string(m.Drift)),
		)
	}
	return res, nil
}

// run validates cfg, builds the schema and emits it to out.
// cfg must already have defaults applied.
func run(ctx context.Context, cfg *Config, logger *slog.Logger, out sink.OutputSink) (*rust.GenerateResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &provider.SourceProvider{Logger: logger}
	schema, err := p.BuildSchema(ctx, provider.SourceInputOptions{
		Root:        cfg.Root,
		Inputs:      cfg.Inputs,
		Suffix:      cfg.Suffix,
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	if errs := schema.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid schema: %w", errors.Join(errs...))
	}
	for _, w := range schema.Warnings {
		attrs := []any{slog.String("code", w.Code)}
		if w.Source != nil {
			attrs = append(attrs, slog.String("source", w.Source.String()))
		}
		logger.WarnContext(ctx, w.Message, attrs...)
	}
	logger.DebugContext(ctx, "schema built",
		slog.Int("files", len(schema.Files)),
		slog.Int("records", schema.RecordCount()),
	)

	gen := &rust.RustGenerator{}
	res, err := gen.Generate(ctx, schema, rust.GenerateOptions{
		Sink:   out,
		Config: cfg.generatorConfig(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate: %w", err)
	}
	return res, nil
}

// Generator provides a fluent API for code generation.
// Create with FromInputs() or FromConfig() and configure with method chaining.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// FromInputs creates a Generator reading the given files or directories.
func FromInputs(inputs ...string) *Generator {
	return &Generator{cfg: Config{Inputs: inputs}}
}

// FromConfig creates a Generator from a loaded config. cfg is copied.
func FromConfig(cfg *Config) *Generator {
	return &Generator{cfg: *cfg}
}

// Root sets the directory inputs and outputs are relative to.
func (g *Generator) Root(dir string) *Generator {
	g.cfg.Root = dir
	return g
}

// Suffix sets the output file suffix.
func (g *Generator) Suffix(s string) *Generator {
	g.cfg.Suffix = s
	return g
}

// OutDir writes outputs below dir instead of next to their inputs.
func (g *Generator) OutDir(dir string) *Generator {
	g.cfg.OutDir = dir
	return g
}

// Header adds comment text below the generated-code banner.
func (g *Generator) Header(text string) *Generator {
	g.cfg.Header = text
	return g
}

// NoVerify skips re-parsing generated output.
func (g *Generator) NoVerify() *Generator {
	g.cfg.Verify = ptr(false)
	return g
}

// NoComments omits doc comments on generated methods.
func (g *Generator) NoComments() *Generator {
	g.cfg.Comments = ptr(false)
	return g
}

// Concurrency bounds the number of files parsed at once.
func (g *Generator) Concurrency(n int) *Generator {
	g.cfg.Concurrency = n
	return g
}

// WithLogger sets the logger. Default: slog.Default().
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.logger = logger
	return g
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate writes generated files to disk.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	return Generate(ctx, &g.cfg, g.logger)
}

// Check compares generated output with the files on disk.
func (g *Generator) Check(ctx context.Context) (*CheckResult, error) {
	return Check(ctx, &g.cfg, g.logger)
}
