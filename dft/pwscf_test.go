/*
 * pwscf_test.go, part of dftpif.
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
	"errors"
	"strings"
	"testing"

	pif "github.com/rmera/dftpif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindPWSCF(Te *testing.T, dir string) *PWSCF {
	Te.Helper()
	x, err := BindPWSCF(NewContext(dirFiles(Te, dir), nil))
	require.NoError(Te, err)
	return x.(*PWSCF)
}

func scalar(Te *testing.T, q interface{ Scalar() (float64, bool) }) float64 {
	Te.Helper()
	v, ok := q.Scalar()
	require.True(Te, ok)
	return v
}

func TestPWSCFStatic(Te *testing.T) {
	P := bindPWSCF(Te, "pwscf")
	v, err := P.Version()
	require.NoError(Te, err)
	assert.Equal(Te, "6.4.1", v)

	c, err := P.CutoffEnergy()
	require.NoError(Te, err)
	assert.Equal(Te, 30.0, scalar(Te, c))
	assert.Equal(Te, "Ry", c.Units())

	c, err = P.XCFunctional()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"PBE"}, c.Tags())

	c, err = P.KPPRA()
	require.NoError(Te, err)
	assert.Equal(Te, 128.0, scalar(Te, c))

	c, err = P.Pseudopotentials()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Si.pbe-n-rrkjus_psl.1.0.0.UPF"}, c.Tags())

	c, err = P.USettings()
	require.NoError(Te, err)
	assert.Nil(Te, c)

	c, err = P.Relaxed()
	require.NoError(Te, err)
	assert.True(Te, c.IsFalse())

	p, err := P.Converged()
	require.NoError(Te, err)
	assert.False(Te, p.IsFalse())

	p, err = P.TotalEnergy()
	require.NoError(Te, err)
	assert.Equal(Te, -15.85112358, scalar(Te, p))
	assert.Equal(Te, "Ry", p.Units())

	p, err = P.Pressure()
	require.NoError(Te, err)
	assert.Equal(Te, -12.34, scalar(Te, p))

	p, err = P.Stresses()
	require.NoError(Te, err)
	assert.Equal(Te, -12.34, p.Matrix()[2][2])

	p, err = P.Forces()
	require.NoError(Te, err)
	assert.Equal(Te, "Ry/bohr", p.Units())
	assert.Len(Te, p.Matrix(), 2)

	p, err = P.TotalForce()
	require.NoError(Te, err)
	assert.Equal(Te, 0.0, scalar(Te, p))

	p, err = P.TotalMagnetization()
	require.NoError(Te, err)
	assert.Nil(Te, p)

	p, err = P.BandGap()
	require.NoError(Te, err)
	assert.Equal(Te, 0.8, scalar(Te, p))

	comp, err := P.Composition()
	require.NoError(Te, err)
	assert.Equal(Te, "Si2", comp)

	p, err = P.Density()
	require.NoError(Te, err)
	assert.InDelta(Te, 2.37, scalar(Te, p), 0.01)
}

func TestPWSCFEnergyTerms(Te *testing.T) {
	P := bindPWSCF(Te, "pwscf")
	extra := P.ExtraResults()
	require.Len(Te, extra, 4)
	assert.Equal(Te, "Hartree energy contribution", extra[1].Name)
	p, err := extra[1].Get(P)
	require.NoError(Te, err)
	assert.Equal(Te, 1.08070374, scalar(Te, p))
	p, err = extra[3].Get(P)
	require.NoError(Te, err)
	assert.Equal(Te, -16.89969146, scalar(Te, p))

	all := Results(P)
	assert.Len(Te, all, len(BaseResults())+4)
}

func TestPWSCFRelaxation(Te *testing.T) {
	P := bindPWSCF(Te, "pwscf-relax")
	c, err := P.Relaxed()
	require.NoError(Te, err)
	assert.False(Te, c.IsFalse())

	p, err := P.Converged()
	require.NoError(Te, err)
	assert.False(Te, p.IsFalse())

	p, err = P.TotalEnergy()
	require.NoError(Te, err)
	assert.Equal(Te, -199.62345678, scalar(Te, p))

	c, err = P.KPPRA()
	require.NoError(Te, err)
	assert.Equal(Te, 2.0, scalar(Te, c))

	c, err = P.USettings()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Type: Simplified", "Mn1: L=2, U=4, J=0"}, c.Tags())

	c, err = P.VdWSettings()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Grimme D2"}, c.Tags())

	c, err = P.Pseudopotentials()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Mn.pbe-sp-van_mit.UPF", "O.pbe-rrkjus.UPF"}, c.Tags())

	p, err = P.TotalMagnetization()
	require.NoError(Te, err)
	assert.Equal(Te, 5.0, scalar(Te, p))

	comp, err := P.Composition()
	require.NoError(Te, err)
	assert.Equal(Te, "MnO", comp)

	//final cell: alat= 8.4 bohr, crystal coordinates
	p, err = P.Positions()
	require.NoError(Te, err)
	side := 0.502 * 8.4 * pif.Bohr2A
	assert.InDelta(Te, side, p.Matrix()[1][0], 1e-6)

	p, err = P.Density()
	require.NoError(Te, err)
	assert.InDelta(Te, 5.30, scalar(Te, p), 0.02)

	//no dos.x file
	p, err = P.DOS()
	require.NoError(Te, err)
	assert.Nil(Te, p)
}

func TestCardUnit(Te *testing.T) {
	u, a := cardUnit("CELL_PARAMETERS (alat=  8.40000000)")
	assert.Equal(Te, "alat", u)
	assert.Equal(Te, 8.4, a)
	u, _ = cardUnit("ATOMIC_POSITIONS {angstrom}")
	assert.Equal(Te, "angstrom", u)
	u, _ = cardUnit("ATOMIC_POSITIONS")
	assert.Equal(Te, "", u)
}

func TestPWSCFMissingCutoff(Te *testing.T) {
	files := copyDir(Te, "pwscf", func(name, content string) string {
		if name == "si.pw.out" {
			return stripLines(content, "kinetic-energy cutoff")
		}
		return content
	})
	x, err := BindPWSCF(NewContext(files, nil))
	require.NoError(Te, err)
	_, err = x.CutoffEnergy()
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrMalformed))
	var e Error
	require.True(Te, errors.As(err, &e))
	assert.Equal(Te, "CutoffEnergy", e.Field())
}

func TestPWSCFExplicitKPoints(Te *testing.T) {
	files := copyDir(Te, "pwscf", func(name, content string) string {
		if name != "si.pw.in" {
			return content
		}
		return strings.Replace(content, "K_POINTS automatic\n 4 4 4 1 1 1",
			"K_POINTS tpiba\n3\n 0.0 0.0 0.0 1\n 0.5 0.0 0.0 2\n 0.5 0.5 0.0 1", 1)
	})
	x, err := BindPWSCF(NewContext(files, nil))
	require.NoError(Te, err)
	c, err := x.(*PWSCF).KPPRA()
	require.NoError(Te, err)
	require.NotNil(Te, c)
	assert.Equal(Te, 8.0, scalar(Te, c))
}
