/*
 * structure.go, part of dftpif.
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
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/v3"
)

//ErrUnknownElement is returned when a symbol has no entry in the element table.
var ErrUnknownElement = errors.New("structure: unknown element")

//Structure is a periodic atomic structure. Cell holds the lattice vectors,
//one per row, and Positions the cartesian coordinates of each atom, all in Angstrom.
//Cell and Positions may be nil when the source only gives the composition.
type Structure struct {
	Symbols   []string
	Cell      *v3.Matrix
	Positions *v3.Matrix
}

//New returns a structure after checking that symbols and positions are consistent.
func New(symbols []string, cell, positions *v3.Matrix) (*Structure, error) {
	if positions != nil && positions.NVecs() != len(symbols) {
		return nil, fmt.Errorf("structure: %d symbols for %d positions", len(symbols), positions.NVecs())
	}
	if cell != nil && cell.NVecs() != 3 {
		return nil, fmt.Errorf("structure: a cell needs 3 vectors, got %d", cell.NVecs())
	}
	return &Structure{Symbols: symbols, Cell: cell, Positions: positions}, nil
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int { return len(S.Symbols) }

//Counts returns how many atoms of each element are in the structure.
func (S *Structure) Counts() map[string]int {
	c := make(map[string]int)
	for _, s := range S.Symbols {
		c[s]++
	}
	return c
}

//Formula returns the composition of the structure, see Formula.
func (S *Structure) Formula() string {
	return FormulaFromCounts(S.Counts())
}

//Formula returns the composition for the given list of symbols, with the elements
//in alphabetical order and the count omitted when it is 1, i.e. "LaMnO3".
func Formula(symbols []string) string {
	c := make(map[string]int)
	for _, s := range symbols {
		c[s]++
	}
	return FormulaFromCounts(c)
}

//FormulaFromCounts renders the given element counts as a formula, see Formula.
func FormulaFromCounts(counts map[string]int) string {
	syms := make([]string, 0, len(counts))
	for s, n := range counts {
		if n > 0 {
			syms = append(syms, s)
		}
	}
	sort.Strings(syms)
	var b strings.Builder
	for _, s := range syms {
		b.WriteString(s)
		if counts[s] > 1 {
			b.WriteString(strconv.Itoa(counts[s]))
		}
	}
	return b.String()
}

//Volume returns the volume of the cell in cubic Angstrom.
func (S *Structure) Volume() (float64, error) {
	if S.Cell == nil {
		return 0, fmt.Errorf("structure: no cell information")
	}
	return v3.Volume(S.Cell)
}

//Mass returns the total mass of the atoms in the structure, in atomic mass units.
func (S *Structure) Mass() (float64, error) {
	var m float64
	for _, s := range S.Symbols {
		sm, ok := Mass(s)
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrUnknownElement, s)
		}
		m += sm
	}
	return m, nil
}

//Density returns the mass density of the structure in g/cm^3.
func (S *Structure) Density() (float64, error) {
	vol, err := S.Volume()
	if err != nil {
		return 0, err
	}
	if vol == 0 {
		return 0, fmt.Errorf("structure: zero cell volume")
	}
	m, err := S.Mass()
	if err != nil {
		return 0, err
	}
	return m * pif.Amu2G / (vol * pif.A32Cm3), nil
}

//CleanSymbol turns a label such as "Si1", "FE" or "O_2" into an element symbol,
//returning "" if no element matches.
func CleanSymbol(label string) string {
	letters := make([]rune, 0, 2)
	for _, r := range label {
		if len(letters) == 2 || !isLetter(r) {
			break
		}
		letters = append(letters, r)
	}
	if len(letters) == 0 {
		return ""
	}
	first := strings.ToUpper(string(letters[0]))
	if len(letters) == 2 {
		two := first + strings.ToLower(string(letters[1]))
		if IsElement(two) {
			return two
		}
	}
	if IsElement(first) {
		return first
	}
	return ""
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
