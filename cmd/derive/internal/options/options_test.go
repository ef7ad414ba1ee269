package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_FlagsOnly(t *testing.T) {
	f := &Flags{Root: "crate", Out: "gen", Suffix: "_impl", NoVerify: true}
	cfg, err := f.Resolve()
	require.NoError(t, err)
	require.Equal(t, []string{"."}, cfg.Inputs)
	require.Equal(t, "crate", cfg.Root)
	require.Equal(t, "gen", cfg.OutDir)
	require.Equal(t, "_impl", cfg.Suffix)
	require.NotNil(t, cfg.Verify)
	require.False(t, *cfg.Verify)
}

func TestResolve_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "derive.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inputs: [src]\nsuffix: _gen\nheader: MIT\n"), 0644))

	cfg, err := (&Flags{Config: path}).Resolve()
	require.NoError(t, err)
	require.Equal(t, []string{"src"}, cfg.Inputs)
	require.Equal(t, "_gen", cfg.Suffix)
	require.Equal(t, "MIT", cfg.Header)
	require.Equal(t, dir, cfg.Root)
	require.Nil(t, cfg.Verify)

	// Flags win over the file.
	cfg, err = (&Flags{Config: path, Inputs: []string{"lib.rs"}, Suffix: "_x"}).Resolve()
	require.NoError(t, err)
	require.Equal(t, []string{"lib.rs"}, cfg.Inputs)
	require.Equal(t, "_x", cfg.Suffix)
}

func TestResolve_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "derive.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nope: 1\n"), 0644))
	_, err := (&Flags{Config: path}).Resolve()
	require.Error(t, err)
}
