/*
 * poscar.go, part of dftpif.
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
	"math"
	"strconv"
	"strings"

	"github.com/rmera/dftpif/v3"
)

//ParsePOSCAR reads a VASP POSCAR/CONTCAR. Files without a species line (VASP 4 format)
//take the element names from species (usually the POTCAR order) or, failing that, from the
//comment line.
func ParsePOSCAR(text string, species []string) (*Structure, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) < 8 {
		return nil, fmt.Errorf("POSCAR: only %d lines", len(lines))
	}
	scale, err := strconv.ParseFloat(firstField(lines[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("POSCAR: scale factor: %w", err)
	}
	cellRows := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		cellRows[i], err = floats(lines[2+i], 3)
		if err != nil {
			return nil, fmt.Errorf("POSCAR: lattice vector %d: %w", i+1, err)
		}
	}
	cell, err := v3.FromRows(cellRows)
	if err != nil {
		return nil, err
	}
	if scale < 0 {
		vol, err := v3.Volume(cell)
		if err != nil || vol == 0 {
			return nil, fmt.Errorf("POSCAR: cannot scale cell to volume %g", -scale)
		}
		scale = math.Cbrt(-scale / vol)
	}
	cell.Scale(scale)

	l := 5
	names := strings.Fields(lines[5])
	if len(names) == 0 {
		return nil, fmt.Errorf("POSCAR: empty species/counts line")
	}
	if _, err := strconv.Atoi(names[0]); err == nil {
		names = species
		if len(names) == 0 {
			names = strings.Fields(lines[0])
		}
	} else {
		l++
	}
	var counts []int
	for _, f := range strings.Fields(lines[l]) {
		n, err := strconv.Atoi(f)
		if err != nil {
			break
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 || len(counts) > len(names) {
		return nil, fmt.Errorf("POSCAR: %d atom counts for species %v", len(counts), names)
	}
	var symbols []string
	for i, n := range counts {
		sym := CleanSymbol(names[i])
		if sym == "" {
			return nil, fmt.Errorf("POSCAR: %q is not an element", names[i])
		}
		for j := 0; j < n; j++ {
			symbols = append(symbols, sym)
		}
	}
	l++
	if l < len(lines) && strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[l])), "s") {
		l++ //Selective dynamics
	}
	if l >= len(lines) {
		return nil, fmt.Errorf("POSCAR: missing coordinate mode line")
	}
	mode := strings.ToLower(strings.TrimSpace(lines[l]))
	cartesian := strings.HasPrefix(mode, "c") || strings.HasPrefix(mode, "k")
	l++
	if len(lines)-l < len(symbols) {
		return nil, fmt.Errorf("POSCAR: %d coordinates expected, %d lines left", len(symbols), len(lines)-l)
	}
	rows := make([][]float64, len(symbols))
	for i := range symbols {
		rows[i], err = floats(lines[l+i], 3)
		if err != nil {
			return nil, fmt.Errorf("POSCAR: atom %d: %w", i+1, err)
		}
	}
	pos, err := v3.FromRows(rows)
	if err != nil {
		return nil, err
	}
	if cartesian {
		pos.Scale(scale)
	} else {
		pos = pos.ToCartesian(cell)
	}
	return New(symbols, cell, pos)
}

func firstField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

//floats parses the first n fields of line.
func floats(line string, n int) ([]float64, error) {
	f := strings.Fields(line)
	if len(f) < n {
		return nil, fmt.Errorf("%d numbers expected in %q", n, strings.TrimSpace(line))
	}
	ret := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}
