/*
 * common_test.go, part of dftpif.
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
	"testing"

	"github.com/rmera/dftpif/structure"
	"github.com/rmera/dftpif/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubicCell(Te *testing.T, a float64) *v3.Matrix {
	Te.Helper()
	cell, err := v3.NewMatrix([]float64{a, 0, 0, 0, a, 0, 0, 0, a})
	require.NoError(Te, err)
	return cell
}

func TestDensityProperty(Te *testing.T) {
	s := &structure.Structure{Symbols: []string{"Si", "Si"}, Cell: cubicCell(Te, 3)}
	p, err := densityProperty(pwscfName, s)
	require.NoError(Te, err)
	require.NotNil(Te, p)
	assert.Equal(Te, "g/cm^3", p.Units())

	p, err = densityProperty(pwscfName, &structure.Structure{Symbols: []string{"Si"}})
	assert.NoError(Te, err)
	assert.Nil(Te, p)
}

// An element missing from the table is a problem with the file, and must not abort the record.
func TestDensityUnknownElement(Te *testing.T) {
	s := &structure.Structure{Symbols: []string{"Si", "Xx"}, Cell: cubicCell(Te, 3)}
	_, err := densityProperty(vaspName, s)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrMalformed))
	assert.False(Te, errors.Is(err, ErrAlgorithm))
	var e Error
	require.True(Te, errors.As(err, &e))
	assert.Equal(Te, "Density", e.Field())
	assert.Contains(Te, err.Error(), "Xx")
}
