package rust

import (
	"context"

	"github.com/broady/derive/derivegen/ir"
	"github.com/broady/derive/derivegen/sink"
)

// Generator turns a schema into generated source files.
type Generator interface {
	// Name returns the generator's identifier.
	Name() string

	// Generate writes one output file per schema file to opts.Sink.
	Generate(ctx context.Context, schema *ir.Schema, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains emission settings.
	Config GeneratorConfig
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written, in schema order.
	Files []OutputFile

	// RecordsGenerated is the number of records impl blocks were emitted for.
	RecordsGenerated int

	// Warnings contains non-fatal issues encountered.
	Warnings []ir.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the sink-relative path of the generated file.
	Path string

	// Source is the schema-relative path of the input it was generated from.
	Source string

	// Size is the number of bytes written.
	Size int64
}

// GeneratorConfig controls naming and formatting of output files.
type GeneratorConfig struct {
	// Suffix is appended to the input file stem: lib.rs -> lib<Suffix>.rs.
	// Default: "_derived".
	Suffix string

	// OutDir places outputs under this slash-separated directory, mirroring
	// the input layout. Empty writes next to each input.
	OutDir string

	// Header is extra comment text written below the generated-code banner.
	// Each line is prefixed with "// ".
	Header string

	// IndentSize is the number of spaces per indent level. Default: 4.
	IndentSize int

	// EmitComments controls doc comments on generated methods.
	EmitComments bool

	// Verify re-parses each output and fails on syntax errors.
	Verify bool
}

// DefaultSuffix is the output file suffix used when none is configured.
const DefaultSuffix = "_derived"

// Banner is the first line of every generated file.
const Banner = "// Code generated by derive. DO NOT EDIT."
