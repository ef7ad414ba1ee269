package check

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/broady/derive/cmd/derive/internal/options"
	"github.com/broady/derive/derivegen"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func TestCmd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("#[derive(Stor)]\npub struct S {\n    a: u8,\n}\n"), 0644))
	ctx := context.Background()

	var out bytes.Buffer
	cmd := &Cmd{Flags: options.Flags{Root: root}, Stdout: &out}
	require.ErrorIs(t, cmd.Run(ctx, quiet), ErrOutOfDate)
	require.Equal(t, "missing: lib_derived.rs\n", out.String())

	_, err := derivegen.FromInputs(".").Root(root).WithLogger(quiet).Generate(ctx)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, cmd.Run(ctx, quiet))
	require.Equal(t, "ok: 1 generated files up to date\n", out.String())
}
