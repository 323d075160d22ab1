// Package cli implements the "unprivate" command. It replaces private class
// members ("#name") in JavaScript files with public ones.
//
//	unprivate src/ --outdir dist
//	unprivate --minify --map-out renames.yaml lib.js > lib.out.js
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unprivate/unprivate/internal/config"
	"github.com/unprivate/unprivate/internal/fs"
	"github.com/unprivate/unprivate/pkg/api"
)

// Version is overwritten at link time with "-ldflags -X"
var Version = "0.1.0"

type rootCommand struct {
	fs         fs.FS
	configPath string
}

// NewRootCommand builds the command tree. All files are read and written
// through "filesystem"; stdin and stdout come from the command's streams.
func NewRootCommand(filesystem fs.FS) *cobra.Command {
	rc := &rootCommand{fs: filesystem}

	cmd := &cobra.Command{
		Use:   "unprivate [flags] [files or directories...]",
		Short: "Replace private class members with public ones",
		Long: `Rewrite JavaScript so that private class members ("#name") become public
members. Directories are searched for .js, .mjs and .cjs files. Without any
file arguments the input is read from stdin and written to stdout.

Configuration is read from .unprivate.yaml (or --config), then UNPRIVATE_*
environment variables, then flags.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rc.run,
	}

	flags := cmd.Flags()
	flags.String("prefix", config.DefaultPrefix, "Prefix for the public name of each private member")
	flags.Bool("minify", false, "Use single-character names instead of prefixed names")
	flags.Bool("a-to-z", false, "Start minified names with Latin-1 letters")
	flags.Bool("by-file", false, "Forget every class at the start of each file (files run in parallel)")
	flags.Bool("minify-whitespace", false, "Remove whitespace from the output")
	flags.String("outdir", "", "Write output files to this directory instead of stdout")
	flags.String("map-out", "", "Write the rename map to this YAML file")
	flags.Bool("print-map", false, "Print the rename map as a table on stderr")
	flags.Bool("diff", false, "Print a diff of each file instead of the output")
	flags.String("log-level", defaultLogLevel, "Log level: info, warning, error or silent")
	flags.String("color", defaultColor, "Color mode: auto, always or never")
	flags.Int("cache-size", defaultCacheSize, "Number of results to cache with --by-file (0 disables the cache)")
	flags.StringVar(&rc.configPath, "config", "", "Config file (default .unprivate.yaml)")

	cmd.AddCommand(versionCommand())

	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unprivate %s\n", Version)
		},
	}
}

func (rc *rootCommand) run(cmd *cobra.Command, args []string) error {
	configPath := rc.configPath
	if configPath != "" {
		if abs, ok := rc.fs.Abs(configPath); ok {
			configPath = abs
		}
	}

	cfg, err := LoadConfig(fs.Afero(rc.fs), rc.fs.Cwd(), configPath, cmd.Flags())
	if err != nil {
		return err
	}
	applyColor(cfg.Color)

	if len(args) == 0 && cfg.OutDir != "" && !cfg.Diff {
		return ErrStdinOutdir
	}

	units, err := rc.readUnits(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	session := api.NewSession(cfg.CacheSize)
	if err := transformUnits(cmd.Context(), session, cfg, units); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if failed := reportMessages(stderr, units, cfg.LogLevel); failed > 0 {
		return fmt.Errorf("%w: %d of %d files had errors", ErrTransformFailed, failed, len(units))
	}

	if cfg.MapOut != "" {
		mapOut, ok := rc.fs.Abs(cfg.MapOut)
		if !ok {
			mapOut = cfg.MapOut
		}
		if err := writeRenameMap(rc.fs, mapOut, units); err != nil {
			return err
		}
	}
	if cfg.PrintMap {
		printRenameTable(stderr, units)
	}

	stdout := cmd.OutOrStdout()
	switch {
	case cfg.Diff:
		for _, u := range units {
			fmt.Fprint(stdout, unifiedDiff(u.prettyPath, u.input, string(u.result.Code)))
		}

	case cfg.OutDir != "":
		return rc.writeOutputs(stderr, cfg, units)

	default:
		for _, u := range units {
			if _, err := stdout.Write(u.result.Code); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}

	return nil
}
