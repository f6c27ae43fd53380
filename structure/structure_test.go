/*
 * structure_test.go, part of dftpif.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lamno3 = `LaMnO3 cubic perovskite
   1.00000000000000
     3.9000000000000000    0.0000000000000000    0.0000000000000000
     0.0000000000000000    3.9000000000000000    0.0000000000000000
     0.0000000000000000    0.0000000000000000    3.9000000000000000
   La   Mn   O
     1     1     3
Direct
  0.0000000000000000  0.0000000000000000  0.0000000000000000
  0.5000000000000000  0.5000000000000000  0.5000000000000000
  0.5000000000000000  0.5000000000000000  0.0000000000000000
  0.5000000000000000  0.0000000000000000  0.5000000000000000
  0.0000000000000000  0.5000000000000000  0.5000000000000000
`

const alniVasp4 = `Al Ni
  2.88
  1.0 0.0 0.0
  0.0 1.0 0.0
  0.0 0.0 1.0
  1 1
Selective dynamics
Cartesian
  0.0 0.0 0.0 T T T
  0.5 0.5 0.5 T T T
`

const sio2Struct = `SiO2 quartz
H   LATTICE,NONEQUIV.ATOMS:  2 154_P3221
MODE OF CALC=RELA unit=bohr
  9.285720  9.285720 10.213696 90.000000 90.000000120.000000
ATOM  -1: X=0.46970000 Y=0.00000000 Z=0.33333333
          MULT= 3          ISPLIT= 8
      -1: X=0.00000000 Y=0.46970000 Z=0.66666667
      -1: X=0.53030000 Y=0.53030000 Z=0.00000000
Si1        NPT=  781  R0=0.00010000 RMT=    1.5100   Z: 14.00000
LOCAL ROT MATRIX:    1.0000000 0.0000000 0.0000000
                     0.0000000 1.0000000 0.0000000
                     0.0000000 0.0000000 1.0000000
ATOM  -2: X=0.41350000 Y=0.26690000 Z=0.21910000
          MULT= 6          ISPLIT= 8
      -2: X=0.73310000 Y=0.14660000 Z=0.55243333
      -2: X=0.85340000 Y=0.58650000 Z=0.88576667
      -2: X=0.26690000 Y=0.41350000 Z=0.78090000
      -2: X=0.14660000 Y=0.73310000 Z=0.44756667
      -2: X=0.58650000 Y=0.85340000 Z=0.11423333
O 1        NPT=  781  R0=0.00010000 RMT=    1.3400   Z:  8.00000
LOCAL ROT MATRIX:    1.0000000 0.0000000 0.0000000
                     0.0000000 1.0000000 0.0000000
                     0.0000000 0.0000000 1.0000000
   6      NUMBER OF SYMMETRY OPERATIONS
`

func TestParsePOSCAR(Te *testing.T) {
	s, err := ParsePOSCAR(lamno3, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 5, s.Len())
	assert.Equal(Te, "LaMnO3", s.Formula())
	pos := s.Positions.Rows()
	assert.InDelta(Te, 1.95, pos[1][0], 1e-12)
	vol, err := s.Volume()
	require.NoError(Te, err)
	assert.InDelta(Te, 3.9*3.9*3.9, vol, 1e-9)
	d, err := s.Density()
	require.NoError(Te, err)
	assert.InDelta(Te, 6.76, d, 0.05)
}

func TestParsePOSCARVasp4(Te *testing.T) {
	s, err := ParsePOSCAR(alniVasp4, []string{"Al", "Ni"})
	require.NoError(Te, err)
	assert.Equal(Te, "AlNi", s.Formula())
	assert.InDelta(Te, 1.44, s.Positions.At(1, 2), 1e-12)

	s, err = ParsePOSCAR(alniVasp4, nil)
	require.NoError(Te, err, "species should come from the comment line")
	assert.Equal(Te, []string{"Al", "Ni"}, s.Symbols)
}

func TestParsePOSCARErrors(Te *testing.T) {
	_, err := ParsePOSCAR("too\nshort\n", nil)
	assert.Error(Te, err)
	_, err = ParsePOSCAR(alniVasp4, []string{"Xx", "Yy"})
	assert.Error(Te, err)
}

func TestParseWien2kStruct(Te *testing.T) {
	s, err := ParseWien2kStruct(sio2Struct)
	require.NoError(Te, err)
	assert.Equal(Te, "O6Si3", s.Formula())
	assert.Equal(Te, 9, s.Positions.NVecs())
	vol, err := s.Volume()
	require.NoError(Te, err)
	assert.InDelta(Te, 113.0, vol, 1.0)
}

func TestFormula(Te *testing.T) {
	assert.Equal(Te, "XY2", FormulaFromCounts(map[string]int{"Y": 2, "X": 1}))
	assert.Equal(Te, Formula([]string{"O", "Mn", "La", "O", "O"}), Formula([]string{"La", "Mn", "O", "O", "O"}))
	assert.Equal(Te, "Fe", CleanSymbol("FE"))
	assert.Equal(Te, "O", CleanSymbol("O_2"))
	assert.Equal(Te, "", CleanSymbol("12"))
}

func TestMassUnknownElement(Te *testing.T) {
	s := &Structure{Symbols: []string{"La", "Qq"}}
	_, err := s.Mass()
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrUnknownElement))
	assert.Contains(Te, err.Error(), `"Qq"`)
}
