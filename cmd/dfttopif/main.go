/*
 * main.go, part of dftpif.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Command dfttopif converts the files of DFT calculations into PIF records.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rmera/dftpif/config"
	"github.com/rmera/dftpif/driver"
	"github.com/rmera/dftpif/quality"
)

const version = "1.0.0"

// globals are the flags shared by all the commands.
type globals struct {
	configPath    string
	verbose       bool
	qualityReport bool
	inline        bool
	logFormat     string
	catalog       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	g := new(globals)
	root := &cobra.Command{
		Use:           "dfttopif",
		Short:         "Convert DFT calculations to PIF records",
		Version:       version,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "HCL configuration file")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "narrate the conversion")
	pf.BoolVar(&g.qualityReport, "quality-report", false, "ask the validation service for a quality report")
	pf.BoolVar(&g.inline, "inline", false, "embed the quality report in the record and leave out file references")
	pf.StringVar(&g.logFormat, "log-format", "", "log format, text or json")
	pf.StringVar(&g.catalog, "catalog", "", "bbolt catalog where records are stored")
	root.AddCommand(
		newConvertCmd(g),
		newWatchCmd(g),
		newShowCmd(g),
		newListCmd(g),
		newServeCmd(g),
	)
	return root
}

// load reads the configuration and lets the flags that were set on cmd override it.
func (g *globals) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = g.verbose
	}
	if flags.Changed("quality-report") {
		cfg.QualityReport = g.qualityReport
	}
	if flags.Changed("inline") {
		cfg.Inline = g.inline
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = g.logFormat
	}
	if flags.Changed("catalog") {
		cfg.Catalog = g.catalog
	}
	return cfg, cfg.Validate()
}

// setup loads the configuration and builds the logger and the conversion options from it.
func (g *globals) setup(cmd *cobra.Command) (*config.Config, driver.Options, error) {
	cfg, err := g.load(cmd)
	if err != nil {
		return nil, driver.Options{}, err
	}
	level := "info"
	if cfg.Verbose {
		level = "debug"
	}
	logger := newLogger(level, cfg.LogFormat, cmd.ErrOrStderr())
	opts := driver.Options{
		Verbose:       cfg.Verbose,
		QualityReport: cfg.QualityReport,
		Inline:        cfg.Inline,
		Logger:        logger,
		ScratchRoot:   cfg.ScratchRoot,
	}
	if cfg.QualityReport {
		opts.Reporter = quality.NewClient(cfg.Report.Endpoint)
		if s3 := cfg.Report.S3; s3 != nil && !cfg.Inline {
			sink, err := quality.NewS3Sink(quality.S3Config{
				Endpoint:  s3.Endpoint,
				Region:    s3.Region,
				AccessKey: s3.AccessKey,
				SecretKey: s3.SecretKey,
				Bucket:    s3.Bucket,
				Prefix:    s3.Prefix,
				UseSSL:    s3.UseSSL,
			})
			if err != nil {
				return nil, driver.Options{}, err
			}
			opts.Sink = sink
		}
	}
	return cfg, opts, nil
}

func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
