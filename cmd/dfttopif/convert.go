/*
 * convert.go, part of dftpif.
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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/catalog"
	"github.com/rmera/dftpif/driver"
	"github.com/rmera/dftpif/pifplot"
)

func newConvertCmd(g *globals) *cobra.Command {
	var output, plotDOS string
	var indent bool
	cmd := &cobra.Command{
		Use:   "convert PATH...",
		Short: "Convert a calculation directory, tar archive or list of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := g.setup(cmd)
			if err != nil {
				return err
			}
			sys, err := driver.Convert(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			if cfg.Catalog != "" {
				key, err := store(cfg.Catalog, sys, args[0])
				if err != nil {
					return err
				}
				opts.Logger.Info("record stored", "catalog", cfg.Catalog, "key", key)
			}
			if plotDOS != "" {
				err := pifplot.SaveDOS(sys, "", plotDOS)
				switch {
				case errors.Is(err, pifplot.ErrNoDOS):
					opts.Logger.Warn("no density of states to plot")
				case err != nil:
					return err
				}
			}
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeRecord(w, sys, indent)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the record to this file instead of the standard output")
	cmd.Flags().StringVar(&plotDOS, "plot-dos", "", "save a plot of the density of states to this file")
	cmd.Flags().BoolVar(&indent, "indent", true, "indent the JSON output")
	return cmd
}

func writeRecord(w io.Writer, sys *pif.ChemicalSystem, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(sys); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

func store(path string, sys *pif.ChemicalSystem, source string) (string, error) {
	c, err := catalog.Open(path)
	if err != nil {
		return "", err
	}
	defer c.Close()
	return c.Put(sys, source)
}
