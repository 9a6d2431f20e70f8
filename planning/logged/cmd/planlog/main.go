// Package main is a small tool for inspecting planning records.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/personalrobotics/prgo/logging"
	"github.com/personalrobotics/prgo/planning/logged"
)

const (
	flagDir     = "dir"
	flagPrefix  = "prefix"
	flagLogFile = "log-file"
	flagDebug   = "debug"
	flagNoColor = "no-color"
)

func main() {
	if err := newApp(afero.NewOsFs(), os.Stdout).Run(os.Args); err != nil {
		logging.NewLogger("planlog").Errorw("planlog failed", "error", err)
		os.Exit(1)
	}
}

// planlog holds what the commands share once global flags are parsed.
type planlog struct {
	fs     afero.Fs
	logger logging.Logger
	closer io.Closer
}

func (pl *planlog) setup(c *cli.Context) error {
	if c.Bool(flagNoColor) {
		color.NoColor = true
	}
	if path := c.String(flagLogFile); path != "" {
		logger, closer, err := logging.NewFileLogger("planlog", logging.FileConfig{Filename: path, MaxSizeMB: 10})
		if err != nil {
			return err
		}
		pl.logger, pl.closer = logger, closer
	} else {
		pl.logger = logging.NewLogger("planlog")
	}
	if c.Bool(flagDebug) {
		pl.logger.SetLevel(zapcore.DebugLevel)
	}
	return nil
}

func (pl *planlog) teardown(c *cli.Context) error {
	if pl.closer == nil {
		return nil
	}
	err := pl.closer.Close()
	pl.closer = nil
	return err
}

func newApp(fs afero.Fs, out io.Writer) *cli.App {
	pl := &planlog{fs: fs}
	return &cli.App{
		Name:      "planlog",
		Usage:     "inspect planning records written by a logged planner",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagLogFile, Usage: "also write planlog's own logs to this file as JSON", EnvVars: []string{"PRGO_PLANLOG_LOG_FILE"}},
			&cli.BoolFlag{Name: flagDebug, Usage: "log at debug level"},
			&cli.BoolFlag{Name: flagNoColor, Usage: "disable colored output"},
		},
		Before: pl.setup,
		After:  pl.teardown,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "summarize every record in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagDir, Value: ".", Usage: "record directory", EnvVars: []string{"PRGO_PLANLOG_DIR"}},
					&cli.StringFlag{Name: flagPrefix, Value: "log", Usage: "record file prefix", EnvVars: []string{"PRGO_PLANLOG_PREFIX"}},
				},
				Action: func(c *cli.Context) error {
					rendered, err := renderRecords(pl.fs, pl.logger, c.String(flagDir), c.String(flagPrefix))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, rendered)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "print one record",
				ArgsUsage: "<record.yaml>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one record path")
					}
					rec, err := logged.ReadRecord(pl.fs, c.Args().First())
					if err != nil {
						return err
					}
					pl.logger.Debugw("showing planning record", "record", c.Args().First())
					enc := yaml.NewEncoder(c.App.Writer)
					enc.SetIndent(2)
					return multierr.Combine(enc.Encode(rec), enc.Close())
				},
			},
		},
	}
}

func okCell(ok bool) string {
	if ok {
		return color.GreenString("ok")
	}
	return color.RedString("failed")
}

func renderRecords(fs afero.Fs, logger logging.Logger, dir, prefix string) (string, error) {
	paths, err := logged.ListRecords(fs, dir, prefix)
	if err != nil {
		return "", errors.Wrapf(err, "listing %q", dir)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Record", "Method", "Planner", "OK", "Outcome"})
	failed := 0
	for i, path := range paths {
		rec, err := logged.ReadRecord(fs, path)
		if err != nil {
			logger.Warnw("skipping unreadable planning record", "record", path, "error", err)
			t.AppendRow(table.Row{i + 1, filepath.Base(path), "", "", color.YellowString("unreadable"), err.Error()})
			failed++
			continue
		}
		outcome := rec.Result.Exception
		if rec.Result.OK {
			outcome = fmt.Sprintf("planner_used=%v waypoints %v -> %v", rec.Result.PlannerUsed, rec.Result.TrajFirst, rec.Result.TrajLast)
		} else {
			failed++
		}
		t.AppendRow(table.Row{i + 1, filepath.Base(path), rec.Request.Method, rec.Request.Planner, okCell(rec.Result.OK), outcome})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d records", len(paths)), "", "", "", fmt.Sprintf("%d failed", failed)})
	logger.Debugw("listed planning records", "dir", dir, "count", len(paths), "failed", failed)
	return t.Render(), nil
}
