// Package gen implements the gen command.
package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/broady/derive/cmd/derive/internal/options"
	"github.com/broady/derive/derivegen"
	"github.com/broady/derive/derivegen/watch"
)

type Cmd struct {
	options.Flags `embed:""`

	Watch    bool          `help:"Regenerate when sources change." short:"w"`
	Debounce time.Duration `help:"Quiet period before regenerating in watch mode." default:"100ms"`

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

	generate := func(ctx context.Context) error {
		res, err := derivegen.Generate(ctx, cfg, logger)
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			fmt.Fprintf(out, "%s -> %s\n", f.Source, f.Path)
		}
		return nil
	}

	if !c.Watch {
		return generate(ctx)
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = "_derived"
	}
	return watch.Run(ctx, watch.Options{
		Root:     root,
		Suffix:   suffix,
		Debounce: c.Debounce,
		Logger:   logger,
	}, func(ctx context.Context, changed []string) error {
		if changed != nil {
			logger.InfoContext(ctx, "regenerating", slog.Any("changed", changed))
		}
		return generate(ctx)
	})
}
