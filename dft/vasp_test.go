/*
 * vasp_test.go, part of dftpif.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindVASP(Te *testing.T, files []string) *VASP {
	Te.Helper()
	x, err := BindVASP(NewContext(files, nil))
	require.NoError(Te, err)
	return x.(*VASP)
}

func TestVASPSettings(Te *testing.T) {
	V := bindVASP(Te, dirFiles(Te, "vasp"))
	v, err := V.Version()
	require.NoError(Te, err)
	assert.Equal(Te, "5.3.2", v)

	c, err := V.CutoffEnergy()
	require.NoError(Te, err)
	e, _ := c.Scalar()
	assert.Equal(Te, 400.0, e)
	assert.Equal(Te, "eV", c.Units())

	c, err = V.XCFunctional()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"PAW_PBE"}, c.Tags())

	c, err = V.Pseudopotentials()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"La", "Mn", "O"}, c.Tags())

	c, err = V.Relaxed()
	require.NoError(Te, err)
	assert.False(Te, c.IsFalse())

	c, err = V.SpinOrbit()
	require.NoError(Te, err)
	assert.True(Te, c.IsFalse())

	c, err = V.KPPRA()
	require.NoError(Te, err)
	k, _ := c.Scalar()
	assert.Equal(Te, 8640.0, k)

	c, err = V.USettings()
	require.NoError(Te, err)
	assert.Nil(Te, c)

	c, err = V.VdWSettings()
	require.NoError(Te, err)
	assert.Nil(Te, c)

	c, err = V.InputFile()
	require.NoError(Te, err)
	assert.Equal(Te, "INCAR", c.Files[0].RelativePath)
}

func TestVASPResults(Te *testing.T) {
	V := bindVASP(Te, dirFiles(Te, "vasp"))
	p, err := V.Converged()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"True"}, p.Tags())

	p, err = V.TotalEnergy()
	require.NoError(Te, err)
	e, _ := p.Scalar()
	assert.Equal(Te, -39.85550532, e)
	assert.Equal(Te, "eV", p.Units())

	p, err = V.Pressure()
	require.NoError(Te, err)
	pr, _ := p.Scalar()
	assert.Equal(Te, -2.41, pr)
	assert.Equal(Te, "kbar", p.Units())

	p, err = V.Stresses()
	require.NoError(Te, err)
	assert.Equal(Te, [][]float64{{-2.40, 0.01, 0.03}, {0.01, -2.42, 0.02}, {0.03, 0.02, -2.41}}, p.Matrix())

	p, err = V.Forces()
	require.NoError(Te, err)
	f := p.Matrix()
	require.Len(Te, f, 5)
	assert.Equal(Te, []float64{0.0012, 0, 0}, f[4])
	assert.Equal(Te, "eV/angstrom", p.Units())

	p, err = V.TotalMagnetization()
	require.NoError(Te, err)
	m, _ := p.Scalar()
	assert.InDelta(Te, 4.0, m, 1e-5)

	p, err = V.BandGap()
	require.NoError(Te, err)
	g, _ := p.Scalar()
	assert.Equal(Te, 2.0, g)

	p, err = V.DOS()
	require.NoError(Te, err)
	assert.Len(Te, p.Vector(), 11)
	energy, ok := p.Condition("Energy")
	require.True(Te, ok)
	assert.Equal(Te, -2.0, energy.Vector()[0])

	comp, err := V.Composition()
	require.NoError(Te, err)
	assert.Equal(Te, "LaMnO3", comp)

	//relaxed, so the CONTCAR cell (3.912) is used
	p, err = V.Positions()
	require.NoError(Te, err)
	assert.InDelta(Te, 1.956, p.Matrix()[1][0], 1e-9)

	p, err = V.Density()
	require.NoError(Te, err)
	d, _ := p.Scalar()
	assert.InDelta(Te, 6.71, d, 0.01)
}

func TestVASPMissingVersion(Te *testing.T) {
	files := copyDir(Te, "vasp", func(name, content string) string {
		if name == "OUTCAR" {
			return strings.Replace(content, "vasp.5.3.2", "unknown", 1)
		}
		return content
	})
	V := bindVASP(Te, files)
	_, err := V.Version()
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrMalformed))
	var e Error
	require.True(Te, errors.As(err, &e))
	assert.Equal(Te, "Version", e.Field())
	assert.Contains(Te, err.Error(), "OUTCAR")

	//the rest of the fields are still there
	p, err := V.TotalEnergy()
	require.NoError(Te, err)
	assert.NotNil(Te, p)
}

func TestVASPUSettings(Te *testing.T) {
	files := copyDir(Te, "vasp", func(name, content string) string {
		if name != "OUTCAR" {
			return content
		}
		return strings.Replace(content, " Ionic relaxation\n", ` LDA+U is selected, type is set to LDAUTYPE =  2
   angular momentum for each species LDAUL =    -1    2   -1
   U (eV)           for each species LDAUU =    0.0  3.9  0.0
   J (eV)           for each species LDAUJ =    0.0  0.0  0.0

 Ionic relaxation
`, 1)
	})
	V := bindVASP(Te, files)
	c, err := V.USettings()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Type: 2", "Mn: L=2, U=3.9, J=0"}, c.Tags())
}

func TestVASPConvergedIsCached(Te *testing.T) {
	files := copyDir(Te, "vasp", nil)
	V := bindVASP(Te, files)
	first, err := V.Converged()
	require.NoError(Te, err)
	for _, f := range files {
		if strings.HasSuffix(f, "OUTCAR") {
			require.NoError(Te, os.Remove(f))
		}
	}
	second, err := V.Converged()
	require.NoError(Te, err)
	assert.Equal(Te, first.Tags(), second.Tags())
}

func TestVASPStaticConvergence(Te *testing.T) {
	files := copyDir(Te, "vasp", func(name, content string) string {
		if name != "OUTCAR" {
			return content
		}
		content = strings.Replace(content, "NSW    =     20", "NSW    =      0", 1)
		return strings.Replace(content, "Iteration    2(  11)", "Iteration    2(  60)", 1)
	})
	V := bindVASP(Te, files)
	p, err := V.Converged()
	require.NoError(Te, err)
	assert.True(Te, p.IsFalse())
	r, err := V.Relaxed()
	require.NoError(Te, err)
	assert.True(Te, r.IsFalse())
}

func TestVASPBindNeedsOUTCAR(Te *testing.T) {
	var files []string
	for _, f := range dirFiles(Te, "vasp") {
		if !strings.HasSuffix(f, "OUTCAR") {
			files = append(files, f)
		}
	}
	_, err := BindVASP(NewContext(files, nil))
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrMalformed))
}

func TestParseINCAR(Te *testing.T) {
	tags := ParseINCAR([]string{"encut = 400 ; prec=Accurate", "LSORBIT = .TRUE. # soc", "! ISPIN = 2"})
	assert.Equal(Te, "400", tags["ENCUT"])
	assert.Equal(Te, "Accurate", tags["PREC"])
	assert.True(Te, incarBool(tags["LSORBIT"]))
	_, ok := tags["ISPIN"]
	assert.False(Te, ok)
}

// Without the irreducible k-point list in the OUTCAR, the KPOINTS file is used.
func TestVASPKPointsFile(Te *testing.T) {
	cases := []struct {
		name    string
		kpoints string
		kppra   float64
	}{
		{"grid", "auto\n0\nGamma\n4 4 4\n0 0 0\n", 320},
		{"gamma-only", "gamma\n0\nGamma\n1 1 1\n0 0 0\n", 5},
		{"explicit", "list\n3\nReciprocal\n0.0 0.0 0.0 1\n0.5 0.0 0.0 4\n0.5 0.5 0.0 3\n", 40},
	}
	for _, c := range cases {
		Te.Run(c.name, func(Te *testing.T) {
			files := copyDir(Te, "vasp", func(name, content string) string {
				if name == "OUTCAR" {
					return stripLines(content, "irreducible k-points")
				}
				return content
			})
			kp := filepath.Join(filepath.Dir(files[0]), "KPOINTS")
			require.NoError(Te, os.WriteFile(kp, []byte(c.kpoints), 0o644))
			V := bindVASP(Te, append(files, kp))
			cond, err := V.KPPRA()
			require.NoError(Te, err)
			require.NotNil(Te, cond)
			v, _ := cond.Scalar()
			assert.Equal(Te, c.kppra, v)
		})
	}
}
