package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/bjaus/cdl"
	"github.com/bjaus/cdl/internal/logging"
	"github.com/bjaus/cdl/internal/ncfile"
)

const name = "cdldump"

// overridden during build with ldflags
var version = "dev"

var errUsage = errors.New("usage")

func init() {
	// -h and -v belong to --header and --variables, as in ncdump.
	cli.HelpFlag = &cli.BoolFlag{Name: "help", Usage: "show help"}
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     "Print a NetCDF classic file or YAML dataset as CDL",
		ArgsUsage: "FILE",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Description: `Reads FILE and writes its CDL representation to stdout.
Files ending in .yaml or .yml are read as dataset descriptions; anything
else is read as a NetCDF classic (CDF-1/CDF-2) file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "header",
				Aliases: []string{"h"},
				Usage:   "Print the header only, no data",
				Sources: cli.EnvVars("CDLDUMP_HEADER"),
			},
			&cli.StringSliceFlag{
				Name:    "variables",
				Aliases: []string{"v"},
				Usage:   "Print data for these variables only (comma separated, can be repeated)",
			},
			&cli.IntFlag{
				Name:    "line-length",
				Aliases: []string{"l"},
				Usage:   "Wrap data lines at this many columns",
				Value:   cdl.DefaultLineWidth,
				Sources: cli.EnvVars("CDLDUMP_LINE_LENGTH"),
			},
			&cli.StringFlag{
				Name:    "full-indices",
				Aliases: []string{"f"},
				Usage:   "Annotate every value with its index: c (0-based, row-major) or f/fortran (1-based, column-major)",
				Sources: cli.EnvVars("CDLDUMP_FULL_INDICES"),
			},
			&cli.StringFlag{
				Name:    "precision",
				Aliases: []string{"p"},
				Usage:   "Digits after the decimal point for float[,double] data",
				Value:   fmt.Sprintf("%d,%d", cdl.DefaultFloatPrecision, cdl.DefaultDoublePrecision),
				Sources: cli.EnvVars("CDLDUMP_PRECISION"),
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Name on the opening line (default: FILE without directory and extension)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level on stderr (debug, info, warn, error)",
				Sources: cli.EnvVars("CDLDUMP_LOG_LEVEL", logging.EnvLogLevel),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := logging.SetDefaultStructuredLoggerWithLevel(stderr, name, version, cmd.String("log-level"))

			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: %s [flags] FILE", errUsage, name)
			}
			path := cmd.Args().First()

			opts, err := buildOptions(cmd, path)
			if err != nil {
				return err
			}
			opts.Logger = logger

			ds, err := load(path)
			if err != nil {
				return err
			}
			logger.Debug("rendering", "path", path, "indices", opts.Indices.String(), "headerOnly", opts.HeaderOnly)
			return cdl.Render(ctx, stdout, ds, opts)
		},
	}
}

func buildOptions(cmd *cli.Command, path string) (cdl.Options, error) {
	opts := cdl.DefaultOptions()
	opts.HeaderOnly = cmd.Bool("header")
	opts.LineWidth = cmd.Int("line-length")

	opts.Name = cmd.String("name")
	if opts.Name == "" {
		base := filepath.Base(path)
		opts.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	for _, v := range cmd.StringSlice("variables") {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				opts.Variables = append(opts.Variables, part)
			}
		}
	}

	mode, err := cdl.ParseIndexMode(cmd.String("full-indices"))
	if err != nil {
		return opts, err
	}
	opts.Indices = mode

	fp, dp, err := parsePrecision(cmd.String("precision"))
	if err != nil {
		return opts, err
	}
	opts.FloatPrecision, opts.DoublePrecision = fp, dp
	return opts, nil
}

// parsePrecision reads "F" or "F,D". A single value applies to both float
// and double data.
func parsePrecision(s string) (float, double int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("%w: precision %q", cdl.ErrInvalidOptions, s)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("%w: precision %q", cdl.ErrInvalidOptions, s)
		}
		vals[i] = n
	}
	if len(vals) == 1 {
		return vals[0], vals[0], nil
	}
	return vals[0], vals[1], nil
}

func load(path string) (*cdl.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ds, err := cdl.LoadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		slog.Debug("loaded yaml dataset", "path", path)
		return ds, nil
	default:
		return ncfile.Open(path)
	}
}
