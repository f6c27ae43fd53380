/*
 * pif_test.go, part of dftpif.
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

package pif

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityRoundTrip(Te *testing.T) {
	values := []float64{-39.85550532, 0, 1e-300, math.MaxFloat64, 0.1 + 0.2}
	for _, v := range values {
		q := Scalar(v, "eV")
		got, ok := q.Scalar()
		require.True(Te, ok)
		assert.Equal(Te, v, got)
		assert.Equal(Te, "eV", q.Units())
	}
	q := Vector([]float64{1, 2, 3}, "kbar")
	assert.Equal(Te, []float64{1, 2, 3}, q.Vector())
	assert.Equal(Te, "kbar", q.Units())
	_, ok := q.Scalar()
	assert.False(Te, ok)
}

func TestQuantityIsImmutable(Te *testing.T) {
	in := []float64{1, 2, 3}
	q := Vector(in, "")
	in[0] = 100
	out := q.Vector()
	out[1] = 100
	assert.Equal(Te, []float64{1, 2, 3}, q.Vector())

	m := [][]float64{{1, 0}, {0, 1}}
	qm := Matrix(m, "kbar")
	m[0][0] = 5
	assert.Equal(Te, 1.0, qm.Matrix()[0][0])
}

func TestTagsHaveNoUnits(Te *testing.T) {
	q := Tags("PAW_PBE")
	assert.Equal(Te, TagKind, q.Kind())
	assert.Equal(Te, "", q.Units())
	assert.Equal(Te, "", Quantity{}.Units())
	assert.True(Te, Flag(false).IsFalse())
	assert.False(Te, Flag(true).IsFalse())
	assert.False(Te, Tags("False", "True").IsFalse())
}

func TestAddConditionsExtends(Te *testing.T) {
	energy := Condition{Name: "Energy", Quantity: Vector([]float64{-1, 0, 1}, "eV")}
	p := NewProperty("Density of States", Vector([]float64{0, 1, 0}, DOSUnits), energy)
	defaults := []Condition{
		*NewCondition("Cutoff Energy", Scalar(400, "eV")),
		*NewCondition("XC Functional", Tags("PAW_PBE")),
	}
	p.AddConditions(defaults...)
	require.Len(Te, p.Conditions, 3)
	assert.Equal(Te, "Energy", p.Conditions[0].Name)
	c, ok := p.Condition("Cutoff Energy")
	require.True(Te, ok)
	v, _ := c.Scalar()
	assert.Equal(Te, 400.0, v)
}

func TestNormalizeUnit(Te *testing.T) {
	assert.Equal(Te, "kbar", NormalizeUnit("kB"))
	assert.Equal(Te, "Ry/bohr", NormalizeUnit("Ry/au"))
	assert.Equal(Te, "eV", NormalizeUnit("eV"))
	assert.Equal(Te, "furlong", NormalizeUnit("furlong"))
}

func TestSystemJSON(Te *testing.T) {
	m := NewMethod(MethodDFT, Software{Name: "VASP", Version: "5.3.2"})
	energy := NewProperty("Total Energy", Scalar(-39.85550532, "eV"), *NewCondition("XC Functional", Tags("PAW_PBE")))
	energy.Method = m
	energy.DataType = DataTypeComputational
	stress := NewProperty("Stresses", Matrix([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, "kbar"))
	stress.Method = m
	stress.DataType = DataTypeComputational
	out := FileProperty("Output File", "OUTCAR")
	out.Method = m
	sys := &ChemicalSystem{Formula: "LaMnO3", Properties: []*Property{energy, stress, out}}

	data, err := json.Marshal(sys)
	require.NoError(Te, err)
	assert.Contains(Te, string(data), `"chemicalFormula":"LaMnO3"`)
	assert.Contains(Te, string(data), `"dataType":"COMPUTATIONAL"`)

	var back ChemicalSystem
	require.NoError(Te, json.Unmarshal(data, &back))
	assert.Equal(Te, "LaMnO3", back.Formula)
	require.Len(Te, back.Properties, 3)
	v, ok := back.Property("Total Energy").Scalar()
	require.True(Te, ok)
	assert.Equal(Te, -39.85550532, v)
	assert.Equal(Te, []string{"PAW_PBE"}, back.Properties[0].Conditions[0].Tags())
	assert.Equal(Te, MatrixKind, back.Property("Stresses").Kind())
	assert.Equal(Te, "OUTCAR", back.Property("Output File").Files[0].RelativePath)
	require.Len(Te, back.Methods(), 1)
	assert.Equal(Te, "5.3.2", back.Methods()[0].Software[0].Version)
}
