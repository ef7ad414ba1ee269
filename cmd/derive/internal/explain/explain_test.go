package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/broady/derive/derivegen/constdef"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func TestCmd(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"u8", "0"},
		{"core::primitive::f64", "0.0"},
		{"[f32; 30]", "[0.0; 30]"},
		{"((u8, u16), bool)", "((0, 0), false)"},
		{"(char,)", "('\\0',)"},
		{"()", "()"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			var out bytes.Buffer
			cmd := &Cmd{Type: tt.typ, Stdout: &out}
			require.NoError(t, cmd.Run(context.Background(), quiet))
			require.Equal(t, tt.want+"\n", out.String())
		})
	}
}

func TestCmd_Unprovable(t *testing.T) {
	var out bytes.Buffer
	cmd := &Cmd{Type: "[(u8, u8); 2]", Stdout: &out}
	err := cmd.Run(context.Background(), quiet)
	require.True(t, errors.Is(err, constdef.ErrUnprovableDefault), "got %v", err)
	require.Empty(t, out.String())
}

func TestCmd_InvalidType(t *testing.T) {
	cmd := &Cmd{Type: "[u8;", Stdout: &bytes.Buffer{}}
	require.Error(t, cmd.Run(context.Background(), quiet))
}

func TestCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := &Cmd{Type: "[bool; 2]", JSON: true, Stdout: &out}
	require.NoError(t, cmd.Run(context.Background(), quiet))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "[false; 2]", got["default"])
	desc, ok := got["descriptor"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "array", desc["kind"])
	require.Equal(t, "2", desc["length"])

	out.Reset()
	cmd = &Cmd{Type: "String", JSON: true, Stdout: &out}
	err := cmd.Run(context.Background(), quiet)
	require.ErrorIs(t, err, constdef.ErrUnprovableDefault)
	require.Contains(t, out.String(), `"error": "type not provable as compile-time default"`)
}

func TestCmd_JSONKeepsTypeText(t *testing.T) {
	var out bytes.Buffer
	cmd := &Cmd{Type: "&'static str", JSON: true, Stdout: &out}
	require.ErrorIs(t, cmd.Run(context.Background(), quiet), constdef.ErrUnprovableDefault)
	require.Contains(t, out.String(), `"type": "&'static str"`)
	require.Contains(t, out.String(), `"text": "&'static str"`)
	require.NotContains(t, out.String(), `\u0026`)
}
