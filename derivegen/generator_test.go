package derivegen

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/derive/derivegen/constdef"
	"github.com/broady/derive/derivegen/provider"
	"github.com/broady/derive/derivegen/sink"
)

var quiet = slog.New(slog.DiscardHandler)

const pointSrc = `#[derive(Ctor, Constdef)]
pub struct Point {
    x: i32,
    y: i32,
}
`

func writeCrate(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestGenerator_Generate(t *testing.T) {
	root := writeCrate(t, map[string]string{
		"src/lib.rs":        pointSrc,
		"src/plain.rs":      "pub struct Plain { a: u8 }\n",
		"src/shapes/mod.rs": "#[derive(Stor)]\npub struct Circle {\n    r: f64,\n}\n",
	})

	res, err := FromInputs("src").Root(root).WithLogger(quiet).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Records != 2 {
		t.Errorf("Records = %d, want 2", res.Records)
	}
	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	if got := strings.Join(paths, ","); got != "src/lib_derived.rs,src/shapes/mod_derived.rs" {
		t.Errorf("Files = %s", got)
	}

	lib := readFile(t, filepath.Join(root, "src", "lib_derived.rs"))
	for _, want := range []string{
		"// Code generated by derive. DO NOT EDIT.",
		"pub fn new(x: i32, y: i32) -> Self {",
		"pub const fn default() -> Self {",
		"x: 0,",
		"impl ::core::default::Default for Point {",
	} {
		if !strings.Contains(lib, want) {
			t.Errorf("lib_derived.rs missing %q:\n%s", want, lib)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "src", "plain_derived.rs")); !os.IsNotExist(err) {
		t.Error("no output expected for a file without deriving records")
	}

	// A second run skips generated files as inputs and produces the same output.
	res2, err := FromInputs("src").Root(root).WithLogger(quiet).Generate(context.Background())
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if len(res2.Files) != len(res.Files) {
		t.Errorf("second run generated %d files, want %d", len(res2.Files), len(res.Files))
	}
	if readFile(t, filepath.Join(root, "src", "lib_derived.rs")) != lib {
		t.Error("output is not deterministic")
	}
}

func TestGenerator_Options(t *testing.T) {
	root := writeCrate(t, map[string]string{"lib.rs": pointSrc})

	g := FromInputs("lib.rs").
		Root(root).
		OutDir("gen").
		Suffix("_impl").
		Header("SPDX-License-Identifier: MIT").
		NoComments().
		NoVerify().
		Concurrency(1).
		WithLogger(quiet)
	if cfg := g.Config(); *cfg.Verify || *cfg.Comments || cfg.Concurrency != 1 {
		t.Errorf("Config() = %+v", cfg)
	}
	if _, err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := readFile(t, filepath.Join(root, "gen", "lib_impl.rs"))
	if !strings.Contains(out, "// SPDX-License-Identifier: MIT\n") {
		t.Errorf("header missing:\n%s", out)
	}
	if strings.Contains(out, "///") {
		t.Errorf("doc comments emitted with NoComments:\n%s", out)
	}
}

func TestGenerator_Check(t *testing.T) {
	root := writeCrate(t, map[string]string{
		"src/a.rs": pointSrc,
		"src/b.rs": strings.ReplaceAll(pointSrc, "Point", "Other"),
	})
	ctx := context.Background()
	g := FromInputs("src").Root(root).WithLogger(quiet)

	res, err := g.Check(ctx)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.UpToDate() || len(res.Mismatches) != 2 || res.Mismatches[0].Drift != sink.DriftMissing {
		t.Errorf("before generation: %+v", res)
	}
	if _, err := os.Stat(filepath.Join(root, "src", "a_derived.rs")); !os.IsNotExist(err) {
		t.Error("Check() wrote output")
	}

	if _, err := g.Generate(ctx); err != nil {
		t.Fatal(err)
	}
	res, err = g.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !res.UpToDate() || res.Checked != 2 {
		t.Errorf("after generation: %+v", res)
	}

	// Editing the source makes its output stale.
	src := filepath.Join(root, "src", "b.rs")
	if err := os.WriteFile(src, []byte(strings.ReplaceAll(readFile(t, src), "y: i32", "y: u8")), 0644); err != nil {
		t.Fatal(err)
	}
	res, err = g.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []sink.Mismatch{{Path: "src/b_derived.rs", Drift: sink.DriftStale}}
	if len(res.Mismatches) != 1 || res.Mismatches[0] != want[0] {
		t.Errorf("Mismatches = %v, want %v", res.Mismatches, want)
	}
}

func TestGenerator_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unprovable default", func(t *testing.T) {
		root := writeCrate(t, map[string]string{"lib.rs": "#[derive(Constdef)]\npub struct S {\n    name: String,\n}\n"})
		_, err := FromInputs("lib.rs").Root(root).WithLogger(quiet).Generate(ctx)
		if !errors.Is(err, constdef.ErrUnprovableDefault) {
			t.Fatalf("error = %v, want ErrUnprovableDefault", err)
		}
		if !strings.Contains(err.Error(), "lib.rs:3:5") {
			t.Errorf("error %q should name the field position", err)
		}
		if _, err := os.Stat(filepath.Join(root, "lib_derived.rs")); !os.IsNotExist(err) {
			t.Error("output written despite error")
		}
	})

	t.Run("extract error", func(t *testing.T) {
		root := writeCrate(t, map[string]string{"lib.rs": "#[derive(Ctor)]\npub enum E { A }\n"})
		_, err := FromInputs("lib.rs").Root(root).WithLogger(quiet).Generate(ctx)
		var extractErr *provider.ExtractError
		if !errors.As(err, &extractErr) {
			t.Errorf("error = %v, want *provider.ExtractError", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := FromInputs().WithLogger(quiet).Generate(ctx)
		if err == nil || !strings.Contains(err.Error(), "invalid config") {
			t.Errorf("error = %v, want invalid config", err)
		}
	})

	t.Run("nil logger", func(t *testing.T) {
		root := writeCrate(t, map[string]string{"lib.rs": pointSrc})
		if _, err := Generate(ctx, &Config{Root: root, Inputs: []string{"lib.rs"}}, nil); err != nil {
			t.Errorf("Generate() error = %v", err)
		}
	})
}

func TestFromConfig(t *testing.T) {
	cfg := &Config{Inputs: []string{"src"}, Suffix: "_x"}
	g := FromConfig(cfg).Suffix("_y")
	if cfg.Suffix != "_x" {
		t.Error("FromConfig should copy the config")
	}
	if g.Config().Suffix != "_y" {
		t.Errorf("Suffix = %q", g.Config().Suffix)
	}
}
