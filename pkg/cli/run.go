package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/unprivate/unprivate/internal/fs"
	"github.com/unprivate/unprivate/pkg/api"
)

var (
	ErrTransformFailed = errors.New("transform failed")
	ErrStdinOutdir     = errors.New("--outdir needs file arguments, stdin has no file name")
)

var sourceExtensions = []string{".js", ".mjs", ".cjs"}

const stdinPath = "<stdin>"

// The terminal check fatih/color does on startup, used for "--color=auto"
var terminalNoColor = color.NoColor

// One input file and what happened to it
type unit struct {
	path       string
	prettyPath string
	input      string
	result     api.TransformResult
}

func applyColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = terminalNoColor
	}
}

func (rc *rootCommand) readUnits(stdin io.Reader, args []string) ([]unit, error) {
	if len(args) == 0 {
		contents, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []unit{{prettyPath: stdinPath, input: string(contents)}}, nil
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, ok := rc.fs.Abs(arg)
		if !ok {
			abs = arg
		}
		paths = append(paths, abs)
	}

	files, err := fs.CollectFiles(rc.fs, paths, sourceExtensions)
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}

	units := make([]unit, 0, len(files))
	for _, file := range files {
		prettyPath := rc.prettyPath(file)
		contents, err := rc.fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", prettyPath, err)
		}
		units = append(units, unit{path: file, prettyPath: prettyPath, input: contents})
	}
	return units, nil
}

func (rc *rootCommand) prettyPath(path string) string {
	if rel, ok := rc.fs.Rel(rc.fs.Cwd(), path); ok {
		path = rel
	}
	return strings.ReplaceAll(path, "\\", "/")
}

func transformOptions(cfg *Config, u unit) api.TransformOptions {
	return api.TransformOptions{
		LogLevel:         api.LogLevelSilent,
		Sourcefile:       u.prettyPath,
		Prefix:           cfg.Prefix,
		Minify:           cfg.Minify,
		ExtendedAlphabet: cfg.ExtendedAlphabet,
		PerFileReset:     cfg.PerFileReset,
		MinifyWhitespace: cfg.MinifyWhitespace,
	}
}

// transformUnits runs every unit through one session. Units that share state
// go one after the other in argument order. Independent units run in
// parallel.
func transformUnits(ctx context.Context, session *api.Session, cfg *Config, units []unit) error {
	if !cfg.PerFileReset {
		for i := range units {
			if err := ctx.Err(); err != nil {
				return err
			}
			units[i].result = session.Transform(units[i].input, transformOptions(cfg, units[i]))
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			units[i].result = session.Transform(units[i].input, transformOptions(cfg, units[i]))
			return nil
		})
	}
	return g.Wait()
}

// reportMessages prints diagnostics at or above the configured level and
// returns the number of units that failed
func reportMessages(w io.Writer, units []unit, logLevel string) int {
	failed := 0
	for _, u := range units {
		if len(u.result.Errors) > 0 {
			failed++
		}
		if logLevel == "info" || logLevel == "warning" {
			for _, text := range api.FormatMessages(u.result.Warnings, api.WarningMessage) {
				fmt.Fprint(w, text)
			}
		}
		if logLevel != "silent" {
			for _, text := range api.FormatMessages(u.result.Errors, api.ErrorMessage) {
				fmt.Fprint(w, text)
			}
		}
	}
	return failed
}

// outputPath mirrors the input's place under the working directory. Inputs
// outside of it go straight into "outdir" by file name so nothing is ever
// written above "outdir".
func (rc *rootCommand) outputPath(outdir string, u unit) string {
	rel, ok := rc.fs.Rel(rc.fs.Cwd(), u.path)
	if !ok || rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "..\\") {
		rel = rc.fs.Base(u.path)
	}
	return rc.fs.Join(outdir, rel)
}

func (rc *rootCommand) writeOutputs(w io.Writer, cfg *Config, units []unit) error {
	outdir, ok := rc.fs.Abs(cfg.OutDir)
	if !ok {
		outdir = cfg.OutDir
	}

	type written struct {
		path string
		size int
	}
	var files []written
	width := 0

	for _, u := range units {
		path := rc.outputPath(outdir, u)
		if err := rc.fs.WriteFile(path, u.result.Code); err != nil {
			return fmt.Errorf("write %s: %w", rc.prettyPath(path), err)
		}
		pretty := rc.prettyPath(path)
		files = append(files, written{path: pretty, size: len(u.result.Code)})
		if len(pretty) > width {
			width = len(pretty)
		}
	}

	if cfg.LogLevel != "info" {
		return nil
	}

	renames := 0
	for _, u := range units {
		renames += len(u.result.Renames)
	}
	fmt.Fprintln(w)
	for _, file := range files {
		fmt.Fprintf(w, "  %-*s  %s\n", width, file.path, color.CyanString(humanize.Bytes(uint64(file.size))))
	}
	fmt.Fprintln(w)
	color.New(color.FgGreen).Fprintf(w, "Done: %s in %s\n",
		plural(renames, "private member"), plural(len(files), "file"))
	return nil
}

func plural(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(count)), noun)
}
