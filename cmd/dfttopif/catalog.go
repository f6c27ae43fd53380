/*
 * catalog.go, part of dftpif.
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
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmera/dftpif/catalog"
)

var errNoCatalog = errors.New("no catalog configured, use --catalog")

func openCatalog(g *globals, cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := g.load(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog == "" {
		return nil, errNoCatalog
	}
	return catalog.Open(cfg.Catalog)
}

func newShowCmd(g *globals) *cobra.Command {
	var indent bool
	cmd := &cobra.Command{
		Use:   "show KEY",
		Short: "Print a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(g, cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			sys, err := c.Get(args[0])
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), sys, indent)
		},
	}
	cmd.Flags().BoolVar(&indent, "indent", true, "indent the JSON output")
	return cmd
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(g, cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			entries, err := c.List()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s  %s\n", e.Key, e.Formula, e.Stored.Format(time.RFC3339), e.Source)
			}
			return nil
		},
	}
}
