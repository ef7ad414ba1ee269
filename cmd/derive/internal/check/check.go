// Package check implements the check command.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/derive/cmd/derive/internal/options"
	"github.com/broady/derive/derivegen"
)

// ErrOutOfDate is returned when at least one generated file is missing or stale.
var ErrOutOfDate = errors.New("generated files are out of date; run derive gen")

type Cmd struct {
	options.Flags `embed:""`

	Stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := c.Resolve()
	if err != nil {
		return err
	}
	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}

	res, err := derivegen.Check(ctx, cfg, logger)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, m := range res.Mismatches {
		fmt.Fprintf(out, "%s: %s\n", m.Drift, m.Path)
	}
	if !res.UpToDate() {
		return ErrOutOfDate
	}
	fmt.Fprintf(out, "ok: %d generated files up to date\n", res.Checked)
	return nil
}
