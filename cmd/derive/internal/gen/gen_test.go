package gen

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/broady/derive/cmd/derive/internal/options"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func TestCmd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("#[derive(Gtor)]\npub struct S {\n    a: u8,\n}\n"), 0644))

	var out bytes.Buffer
	cmd := &Cmd{Flags: options.Flags{Root: root}, Stdout: &out}
	require.NoError(t, cmd.Run(context.Background(), quiet))
	require.Equal(t, "lib.rs -> lib_derived.rs\n", out.String())

	data, err := os.ReadFile(filepath.Join(root, "lib_derived.rs"))
	require.NoError(t, err)
	require.Contains(t, string(data), "pub fn get_a(&self) -> u8 {")
}

func TestCmd_Error(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("#[derive(Constdef)]\npub struct S {\n    v: Vec<u8>,\n}\n"), 0644))

	cmd := &Cmd{Flags: options.Flags{Root: root}, Stdout: &bytes.Buffer{}}
	err := cmd.Run(context.Background(), quiet)
	require.ErrorContains(t, err, `field "v"`)
}

func TestCmd_Watch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("#[derive(Ctor)]\npub struct S {}\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	cmd := &Cmd{Flags: options.Flags{Root: root}, Watch: true, Stdout: &out}
	done := make(chan error, 1)
	go func() { done <- cmd.Run(ctx, quiet) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(root, "lib_derived.rs"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
