/*
 * catalog_test.go, part of dftpif.
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

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pif "github.com/rmera/dftpif"
)

func record() *pif.ChemicalSystem {
	m := pif.NewMethod(pif.MethodDFT, pif.Software{Name: "VASP", Version: "5.3.2"})
	p := pif.NewProperty("Total Energy", pif.Scalar(-39.8555, "eV"),
		pif.Condition{Name: "Cutoff Energy", Quantity: pif.Scalar(400, "eV")})
	p.Method = m
	p.DataType = pif.DataTypeComputational
	return &pif.ChemicalSystem{Formula: "LaMnO3", Properties: []*pif.Property{p}}
}

func TestCatalog(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "records.db")
	c, err := Open(path)
	require.NoError(Te, err)

	key, err := c.Put(record(), "runs/LaMnO3")
	require.NoError(Te, err)
	other, err := c.Put(&pif.ChemicalSystem{Formula: "Si"}, "runs/Si")
	require.NoError(Te, err)
	assert.NotEqual(Te, key, other)

	sys, err := c.Get(key)
	require.NoError(Te, err)
	assert.Equal(Te, "LaMnO3", sys.Formula)
	e := sys.Property("Total Energy")
	require.NotNil(Te, e)
	v, _ := e.Scalar()
	assert.Equal(Te, -39.8555, v)
	require.NotNil(Te, e.Method)
	assert.Equal(Te, "5.3.2", e.Method.Software[0].Version)

	entries, err := c.List()
	require.NoError(Te, err)
	require.Len(Te, entries, 2)
	assert.Equal(Te, key, entries[0].Key)
	assert.Equal(Te, "runs/Si", entries[1].Source)
	require.NoError(Te, c.Close())

	//records survive reopening
	c, err = Open(path)
	require.NoError(Te, err)
	defer c.Close()
	require.NoError(Te, c.Delete(other))
	_, err = c.Get(other)
	assert.ErrorIs(Te, err, ErrNotFound)
	assert.ErrorIs(Te, c.Delete(other), ErrNotFound)
	entries, err = c.List()
	require.NoError(Te, err)
	assert.Len(Te, entries, 1)
}
