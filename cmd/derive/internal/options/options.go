// Package options holds the flags shared by the gen and check commands.
package options

import (
	"errors"
	"io/fs"
	"os"

	"github.com/broady/derive/derivegen"
)

// DefaultConfigFile is loaded from the working directory when --config is
// not given and the file exists.
const DefaultConfigFile = "derive.yaml"

// Flags selects inputs and output naming. Flags override config file values.
type Flags struct {
	Inputs   []string `arg:"" optional:"" help:"Rust files or directories to scan, relative to --root."`
	Config   string   `help:"Load settings from a YAML file (default: ./derive.yaml if present)." short:"c" type:"existingfile"`
	Root     string   `help:"Directory inputs and outputs are relative to."`
	Out      string   `help:"Write outputs below this directory, relative to root." short:"o"`
	Suffix   string   `help:"Suffix appended to input file stems (default: _derived)."`
	NoVerify bool     `help:"Skip the syntax check of generated files." name:"no-verify"`
}

// Resolve merges the config file, if any, with the flags.
func (f *Flags) Resolve() (*derivegen.Config, error) {
	cfg := &derivegen.Config{}
	path := f.Config
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if path != "" {
		loaded, err := derivegen.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(f.Inputs) > 0 {
		cfg.Inputs = f.Inputs
	}
	if f.Root != "" {
		cfg.Root = f.Root
	}
	if f.Out != "" {
		cfg.OutDir = f.Out
	}
	if f.Suffix != "" {
		cfg.Suffix = f.Suffix
	}
	if f.NoVerify {
		verify := false
		cfg.Verify = &verify
	}
	if len(cfg.Inputs) == 0 {
		cfg.Inputs = []string{"."}
	}
	return cfg, nil
}
