// Package rust emits Rust impl blocks for records that derive Ctor, Gtor,
// Stor or Constdef.
//
// Each input file with deriving records produces one output file holding
// plain impl blocks, meant to be pulled into the input's module with
// include!("<stem>_derived.rs").
package rust

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/broady/derive/derivegen/ir"
)

// RustGenerator implements Generator.
type RustGenerator struct{}

// Name returns "rust".
func (g *RustGenerator) Name() string { return "rust" }

// Generate emits every file in schema. The first record that cannot be
// generated aborts the run; nothing is written for files after it.
func (g *RustGenerator) Generate(ctx context.Context, schema *ir.Schema, opts GenerateOptions) (*GenerateResult, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	config := opts.Config
	if config.Suffix == "" {
		config.Suffix = DefaultSuffix
	}

	result := &GenerateResult{Warnings: append([]ir.Warning(nil), schema.Warnings...)}
	emitter := NewEmitter(config)
	for _, file := range schema.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, n, err := g.emitFile(emitter, config, file)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}

		outPath := OutputPath(config.OutDir, file.Path, config.Suffix)
		if config.Verify {
			if err := Verify(ctx, outPath, content); err != nil {
				return nil, err
			}
		}
		if err := opts.Sink.WriteFile(ctx, outPath, content); err != nil {
			return nil, fmt.Errorf("write %s: %w", outPath, err)
		}
		result.Files = append(result.Files, OutputFile{Path: outPath, Source: file.Path, Size: int64(len(content))})
		result.RecordsGenerated += n
	}
	return result, nil
}

// emitFile renders one output file and returns the number of records that
// produced code.
func (g *RustGenerator) emitFile(e *Emitter, config GeneratorConfig, file *ir.File) ([]byte, int, error) {
	var body bytes.Buffer
	n := 0
	for _, r := range file.Records {
		var block bytes.Buffer
		wrote, err := e.EmitRecord(&block, r)
		if err != nil {
			return nil, 0, err
		}
		if !wrote {
			continue
		}
		body.WriteString("\n")
		body.Write(block.Bytes())
		n++
	}
	if n == 0 {
		return nil, 0, nil
	}

	var buf bytes.Buffer
	buf.WriteString(Banner)
	buf.WriteString("\n// source: ")
	buf.WriteString(file.Path)
	buf.WriteString("\n")
	if config.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(config.Header, "\n"), "\n") {
			buf.WriteString(strings.TrimRight("// "+line, " "))
			buf.WriteString("\n")
		}
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), n, nil
}

// OutputPath returns the slash path of the file generated for input:
// OutputPath("gen", "src/lib.rs", "_derived") == "gen/src/lib_derived.rs".
func OutputPath(outDir, input, suffix string) string {
	dir, file := path.Split(input)
	stem := strings.TrimSuffix(file, ".rs")
	return path.Join(outDir, dir, stem+suffix+".rs")
}
