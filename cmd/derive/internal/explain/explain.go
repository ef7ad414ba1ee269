// Package explain implements the default command, which shows how a single
// type expression is reduced to a compile-time default.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/derive/derivegen/constdef"
	"github.com/broady/derive/derivegen/ir"
	"github.com/broady/derive/derivegen/provider"
)

type Cmd struct {
	Type string `arg:"" help:"Rust type expression, e.g. '[(u8, bool); 4]'."`
	JSON bool   `help:"Print the parsed descriptor and result as JSON." name:"json"`

	Stdout io.Writer `kong:"-"`
}

// Result is the JSON form of an explanation.
type Result struct {
	Type       string            `json:"type"`
	Descriptor ir.TypeDescriptor `json:"descriptor"`
	Default    string            `json:"default,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}

	td, err := provider.ParseType(ctx, c.Type)
	if err != nil {
		return err
	}
	logger.DebugContext(ctx, "parsed type",
		slog.String("kind", td.Kind().String()),
		slog.String("descriptor", td.String()),
	)

	res := Result{Type: c.Type, Descriptor: td}
	expr, ok := constdef.Analyze(td)
	if ok {
		res.Default = constdef.Render(expr)
	} else {
		err = fmt.Errorf("%s: %w", c.Type, constdef.ErrUnprovableDefault)
		res.Error = constdef.ErrUnprovableDefault.Error()
	}

	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res.Default)
	return nil
}
