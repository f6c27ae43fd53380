/*
 * common.go, part of dftpif.
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
	"fmt"
	"path/filepath"
	"strconv"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/structure"
)

//Small builders shared by the extractors.

func scalarCondition(v float64, units string) *pif.Condition {
	return pif.NewCondition("", pif.Scalar(v, units))
}

func tagCondition(tags ...string) *pif.Condition {
	return pif.NewCondition("", pif.Tags(tags...))
}

func flagCondition(b bool) *pif.Condition {
	return pif.NewCondition("", pif.Flag(b))
}

func scalarProperty(v float64, units string) *pif.Property {
	return pif.NewProperty("", pif.Scalar(v, units))
}

// fileCondition references path by its base name, so records do not depend on
// where the files were unpacked.
func fileCondition(path string) *pif.Condition {
	if path == "" {
		return nil
	}
	return pif.FileCondition("", filepath.Base(path))
}

func fileProperty(path string) *pif.Property {
	if path == "" {
		return nil
	}
	return pif.FileProperty("", filepath.Base(path))
}

// dosProperty builds the density of states property, with the energy axis as a condition.
func dosProperty(energy, dos []float64) *pif.Property {
	return pif.NewProperty("", pif.Vector(dos, pif.DOSUnits),
		pif.Condition{Name: "Energy", Quantity: pif.Vector(energy, pif.EV)})
}

func positionsProperty(s *structure.Structure) *pif.Property {
	if s == nil || s.Positions == nil {
		return nil
	}
	return pif.NewProperty("", pif.Matrix(s.Positions.Rows(), pif.Angstrom))
}

func densityProperty(program string, s *structure.Structure) (*pif.Property, error) {
	if s == nil || s.Cell == nil {
		return nil, nil
	}
	d, err := s.Density()
	if errors.Is(err, structure.ErrUnknownElement) {
		return nil, malformed(program, "Density", "", "%s", err)
	}
	if err != nil {
		return nil, algorithmFailure(program, "Density", "", "%s", err)
	}
	return scalarProperty(d, "g/cm^3"), nil
}

// uSpecies holds the DFT+U parameters for one species.
type uSpecies struct {
	symbol string
	l      int
	u, j   float64
}

// uTags renders DFT+U parameters, one tag for the type and one per species.
func uTags(typ string, species []uSpecies) *pif.Condition {
	tags := []string{"Type: " + typ}
	for _, s := range species {
		tags = append(tags, fmt.Sprintf("%s: L=%d, U=%s, J=%s", s.symbol, s.l, ftoa(s.u), ftoa(s.j)))
	}
	return tagCondition(tags...)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// matrixFromVoigt builds a symmetric 3x3 tensor from xx yy zz xy yz zx.
func matrixFromVoigt(v []float64) [][]float64 {
	return [][]float64{
		{v[0], v[3], v[5]},
		{v[3], v[1], v[4]},
		{v[5], v[4], v[2]},
	}
}
