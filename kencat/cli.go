package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/hanpama/kenvert"
)

// CLI defines the command-line interface structure for Kong.
//
// Option flags carry no Kong defaults so that only flags given on the
// command line override the config file.
type CLI struct {
	Config string `short:"c" help:"YAML config file with default options."`
	Output string `short:"o" help:"Write to this file instead of stdout."`

	Format               string `short:"f" help:"Output format: ${formats} (default: markdown)."`
	ReturnLocations      bool   `name:"locations" help:"Include locations in json output."`
	DuplicateMergedCells bool   `name:"duplicate-merged-cells" negatable:"" help:"Copy merged cell text into every covered position (default: true)."`
	Validation           string `help:"Incomplete table handling: backfill or strict (default: backfill)."`
	UseFirstRowAsHeader  bool   `name:"header" negatable:"" help:"Use the first table row as frame columns (default: true)."`
	PageWidth            int    `name:"page-width" help:"Layout page width in characters (default: 300)."`
	PageHeight           int    `name:"page-height" help:"Layout page height in lines (default: 100)."`
	Resize               bool   `negatable:"" help:"Grow layout pages instead of truncating text (default: true)."`
	Jobs                 int    `short:"j" help:"Files converted concurrently (default: 4)."`
	Verbose              bool   `short:"v" help:"Log conversion details to stderr."`

	Files []string `arg:"" name:"file" help:"Extraction output JSON files."`
}

// apply copies every flag given on the command line onto cfg.
func (c *CLI) apply(kctx *kong.Context, cfg *Config) {
	for _, flag := range kctx.Flags() {
		if !flag.Set {
			continue
		}
		switch flag.Name {
		case "format":
			cfg.Format = c.Format
		case "locations":
			cfg.ReturnLocations = c.ReturnLocations
		case "duplicate-merged-cells":
			cfg.DuplicateMergedCells = c.DuplicateMergedCells
		case "validation":
			cfg.Validation = c.Validation
		case "header":
			cfg.UseFirstRowAsHeader = c.UseFirstRowAsHeader
		case "page-width":
			cfg.PageWidth = c.PageWidth
		case "page-height":
			cfg.PageHeight = c.PageHeight
		case "resize":
			cfg.Resize = c.Resize
		case "jobs":
			cfg.Jobs = c.Jobs
		}
	}
}

func formatNames() string {
	var names []string
	for _, f := range kenvert.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ConvertCmd converts a batch of files.
type ConvertCmd struct {
	Files   []string
	Format  kenvert.Format
	Options kenvert.Options
	Jobs    int
}

// Run converts every file, at most Jobs at a time, and writes the results
// to w in argument order. Nothing is written if any file fails.
func (cmd *ConvertCmd) Run(ctx context.Context, w io.Writer) error {
	outputs := make([][]byte, len(cmd.Files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmd.Jobs, 1))

	for i, path := range cmd.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := cmd.convert(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, out := range outputs {
		if len(cmd.Files) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", cmd.Files[i])
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *ConvertCmd) convert(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var buf bytes.Buffer
	if err := kenvert.Convert(file, &buf, cmd.Format, cmd.Options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
