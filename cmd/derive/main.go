package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/broady/derive/cmd/derive/internal/check"
	"github.com/broady/derive/cmd/derive/internal/explain"
	"github.com/broady/derive/cmd/derive/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Version VersionCmd  `cmd:"" help:"Print version information."`
	Gen     gen.Cmd     `cmd:"" help:"Generate impl blocks for deriving structs."`
	Check   check.Cmd   `cmd:"" help:"Report generated files that are missing or out of date."`
	Default explain.Cmd `cmd:"" help:"Print the compile-time default of a type expression."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("derive"),
		kong.Description("Generate constructors, accessors and compile-time defaults for Rust structs."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err := kctx.Run(logger)
	kctx.FatalIfErrorf(err)
}
