package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/conorfennell/flashdeck/internal/config"
)

const usage = `Usage: flashdeck <command> [flags] [args]

Commands:
  serve                      Run the flashcard server
  list                       List every card
  add                        Add a card (--question, --answer)
  edit <id>                  Edit a card (--question and/or --answer)
  rm <id>                    Delete a card after confirmation
  study                      Review the deck in random order
  import <dir|git-url>       Import Q:/A: markdown files

Run "flashdeck <command> --help" for flags.
`

// env is what a command needs from the process.
type env struct {
	cfg    *config.Config
	flags  *pflag.FlagSet
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
}

type command func(ctx context.Context, e *env) error

var commands = map[string]struct {
	run   command
	flags func(*pflag.FlagSet)
}{
	"serve":  {run: runServe},
	"list":   {run: runList},
	"add":    {run: runAdd, flags: cardFlags},
	"edit":   {run: runEdit, flags: cardFlags},
	"rm":     {run: runRemove, flags: removeFlags},
	"study":  {run: runStudy},
	"import": {run: runImport},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return 2
	}

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	if cmd.flags != nil {
		cmd.flags(flags)
	}
	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.Log, stderr)
	slog.SetDefault(logger)

	e := &env{
		cfg:    cfg,
		flags:  flags,
		stdin:  stdin,
		stdout: stdout,
		logger: logger,
	}
	if err := cmd.run(ctx, e); err != nil {
		logger.Error("command failed", "command", name, "error", err)
		return 1
	}
	return 0
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
