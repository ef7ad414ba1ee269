package derivegen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/broady/derive/derivegen/rust"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the configuration for a generation run.
// It can be loaded from a derive.yaml file with LoadConfig.
type Config struct {
	// Root is the directory inputs are resolved against. Output paths are
	// relative to it. Default: the current directory.
	Root string `yaml:"root"`

	// Inputs are .rs files or directories, relative to Root.
	// e.g. []string{"src"}
	Inputs []string `yaml:"inputs" validate:"required,min=1,dive,required"`

	// OutDir places generated files under this directory (relative to Root),
	// mirroring the input layout. Default: next to each input.
	OutDir string `yaml:"out_dir" validate:"omitempty,excludes=..,excludesall=\\"`

	// Suffix is appended to the input stem to name outputs.
	// Default: "_derived".
	Suffix string `yaml:"suffix" validate:"omitempty,excludesall=/\\ ."`

	// Verify re-parses generated files and fails on syntax errors.
	// Default: true.
	Verify *bool `yaml:"verify"`

	// Comments controls doc comments on generated methods. Default: true.
	Comments *bool `yaml:"comments"`

	// Header is comment text added below the generated-code banner,
	// e.g. a license notice.
	Header string `yaml:"header"`

	// Indent is the number of spaces per indent level. Default: 4.
	Indent int `yaml:"indent" validate:"gte=0,lte=16"`

	// Concurrency bounds the number of files parsed at once.
	// Default: GOMAXPROCS.
	Concurrency int `yaml:"concurrency" validate:"gte=0"`
}

// LoadConfig reads a YAML config file. A relative Root is resolved against
// the directory containing the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// ParseConfig decodes YAML config data. Unknown keys are an error.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the config after defaults are applied.
func (c *Config) Validate() error {
	err := validate.Struct(applyConfigDefaults(c))
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// applyConfigDefaults returns a copy of cfg with defaults filled in.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg
	result.Inputs = append([]string(nil), cfg.Inputs...)

	if result.Root == "" {
		result.Root = "."
	}
	if result.Suffix == "" {
		result.Suffix = rust.DefaultSuffix
	}
	if result.Verify == nil {
		result.Verify = ptr(true)
	}
	if result.Comments == nil {
		result.Comments = ptr(true)
	}
	if result.Indent == 0 {
		result.Indent = 4
	}
	result.OutDir = filepath.ToSlash(filepath.Clean(result.OutDir))
	if result.OutDir == "." {
		result.OutDir = ""
	}
	return &result
}

// generatorConfig maps a defaulted Config onto emitter settings.
func (c *Config) generatorConfig() rust.GeneratorConfig {
	return rust.GeneratorConfig{
		Suffix:       c.Suffix,
		OutDir:       c.OutDir,
		Header:       c.Header,
		IndentSize:   c.Indent,
		EmitComments: *c.Comments,
		Verify:       *c.Verify,
	}
}

func ptr[T any](v T) *T { return &v }
