/*
 * abinit_test.go, part of dftpif.
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

package dft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestABINIT(Te *testing.T) {
	x, err := BindABINIT(NewContext(dirFiles(Te, "abinit"), nil))
	require.NoError(Te, err)
	A := x.(*ABINIT)
	v, err := A.Version()
	require.NoError(Te, err)
	assert.Equal(Te, "8.10.3", v)

	c, err := A.CutoffEnergy()
	require.NoError(Te, err)
	assert.Equal(Te, 12.0, scalar(Te, c))
	assert.Equal(Te, "Ha", c.Units())

	c, err = A.XCFunctional()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"GGA (PBE)"}, c.Tags())

	c, err = A.KPPRA()
	require.NoError(Te, err)
	assert.Equal(Te, 512.0, scalar(Te, c))

	c, err = A.SpinOrbit()
	require.NoError(Te, err)
	assert.True(Te, c.IsFalse())

	c, err = A.Relaxed()
	require.NoError(Te, err)
	assert.True(Te, c.IsFalse())

	c, err = A.Pseudopotentials()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"14si.pspnc"}, c.Tags())

	c, err = A.USettings()
	require.NoError(Te, err)
	assert.Nil(Te, c)

	c, err = A.InputFile()
	require.NoError(Te, err)
	assert.Equal(Te, "si.files", c.Files[0].RelativePath)

	comp, err := A.Composition()
	require.NoError(Te, err)
	assert.Equal(Te, "Si2", comp)

	p, err := A.Converged()
	require.NoError(Te, err)
	assert.False(Te, p.IsFalse())

	p, err = A.TotalEnergy()
	require.NoError(Te, err)
	assert.Equal(Te, -8.86520379648560, scalar(Te, p))
	assert.Equal(Te, "Ha", p.Units())

	p, err = A.Pressure()
	require.NoError(Te, err)
	assert.Equal(Te, 0.36322, scalar(Te, p))
	assert.Equal(Te, "GPa", p.Units())

	p, err = A.Stresses()
	require.NoError(Te, err)
	assert.Equal(Te, "GPa", p.Units())
	assert.Equal(Te, -0.363219862, p.Matrix()[1][1])
	assert.Equal(Te, 0.0, p.Matrix()[0][1])

	p, err = A.Forces()
	require.NoError(Te, err)
	assert.Len(Te, p.Matrix(), 2)

	p, err = A.Positions()
	require.NoError(Te, err)
	assert.InDelta(Te, 1.3573782956, p.Matrix()[1][2], 1e-9)

	p, err = A.Density()
	require.NoError(Te, err)
	assert.InDelta(Te, 2.33, scalar(Te, p), 0.01)
}

func TestEchoVars(Te *testing.T) {
	vars := echoVars([]string{
		"            acell      1.0E+01  1.0E+01  1.0E+01 Bohr",
		"P           mkmem          10",
		"-          fftalg         312",
		"            rprim      0.0  0.5  0.5",
		"                       0.5  0.0  0.5",
		"            typat      3*1 2",
	})
	assert.Equal(Te, []string{"1.0E+01", "1.0E+01", "1.0E+01", "Bohr"}, vars["acell"])
	assert.Equal(Te, []string{"10"}, vars["mkmem"])
	assert.Equal(Te, []string{"312"}, vars["fftalg"])
	assert.Len(Te, vars["rprim"], 6)
	assert.Equal(Te, []float64{1, 1, 1, 2}, numbers(vars["typat"]))
	assert.Equal(Te, []float64{10, 10, 10}, numbers(vars["acell"]))
}
