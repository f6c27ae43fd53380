/*
 * wien2k.go, part of dftpif.
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

package structure

import (
	"fmt"
	"strconv"
	"strings"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/v3"
)

//ParseWien2kStruct reads a Wien2k case.struct file. Every atom listed
//(each inequivalent atom times its multiplicity) is included. The cell is
//the conventional cell built from the lattice parameters.
func ParseWien2kStruct(text string) (*Structure, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("struct: only %d lines", len(lines))
	}
	unit := pif.Bohr2A
	if strings.Contains(strings.ToLower(lines[2]), "unit=ang") {
		unit = 1
	}
	params, err := fixedFloats(lines[3], 10, 6)
	if err != nil {
		return nil, fmt.Errorf("struct: lattice parameters: %w", err)
	}
	cell, err := v3.CellFromParameters(params[0]*unit, params[1]*unit, params[2]*unit, params[3], params[4], params[5])
	if err != nil {
		return nil, fmt.Errorf("struct: %w", err)
	}
	var symbols []string
	var frac []float64
	pending := 0 //positions read for the current atom, still without symbol
	for _, line := range lines[4:] {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "X=") && strings.Contains(line, "Z="):
			xyz, err := labeledFloats(line, "X=", "Y=", "Z=")
			if err != nil {
				return nil, fmt.Errorf("struct: %w", err)
			}
			frac = append(frac, xyz...)
			pending++
		case strings.Contains(line, "NPT=") && pending > 0:
			sym := CleanSymbol(trimmed)
			if sym == "" {
				return nil, fmt.Errorf("struct: cannot get an element from %q", trimmed)
			}
			for i := 0; i < pending; i++ {
				symbols = append(symbols, sym)
			}
			pending = 0
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("struct: no atoms found")
	}
	if pending != 0 {
		return nil, fmt.Errorf("struct: %d positions without an element line", pending)
	}
	fm, err := v3.NewMatrix(frac)
	if err != nil {
		return nil, err
	}
	return New(symbols, cell, fm.ToCartesian(cell))
}

//fixedFloats reads n fields of the given width. Wien2k writes the lattice
//parameters in Fortran fixed format, where numbers can run together.
func fixedFloats(line string, width, n int) ([]float64, error) {
	ret := make([]float64, n)
	for i := 0; i < n; i++ {
		if len(line) < (i+1)*width {
			return nil, fmt.Errorf("line too short: %q", line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(line[i*width:(i+1)*width]), 64)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}

func labeledFloats(line string, labels ...string) ([]float64, error) {
	ret := make([]float64, len(labels))
	for i, l := range labels {
		idx := strings.Index(line, l)
		if idx < 0 {
			return nil, fmt.Errorf("no %s in %q", l, line)
		}
		f := strings.Fields(line[idx+len(l):])
		if len(f) == 0 {
			return nil, fmt.Errorf("no value after %s in %q", l, line)
		}
		v, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}
