package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kencat"),
		kong.Description("Convert document extraction output to text, Markdown, tables or page layouts"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"formats": formatNames()},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no files provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if cli.Config != "" {
		if cfg, err = LoadConfig(cli.Config); err != nil {
			return err
		}
	}
	cli.apply(kctx, &cfg)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format, opts, err := cfg.Options(logger)
	if err != nil {
		return err
	}

	out := stdout
	if cli.Output != "" {
		file, err := os.Create(cli.Output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	cmd := &ConvertCmd{
		Files:   cli.Files,
		Format:  format,
		Options: opts,
		Jobs:    cfg.Jobs,
	}
	return cmd.Run(ctx, out)
}
