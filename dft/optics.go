/*
 * optics.go, part of dftpif.
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
	"strings"

	pif "github.com/rmera/dftpif"
)

// opticsColumn is one quantity in an optics file, given by the columns
// of its xx and zz components (column 0 is the photon energy in eV).
type opticsColumn struct {
	name   string
	units  string
	xx, zz int
}

var opticsFiles = []struct {
	ext  string
	cols []opticsColumn
}{
	{".absorp", []opticsColumn{{"Absorption coefficient", "10^4/cm", 3, 4}}},
	{".eloss", []opticsColumn{{"Electron energy loss", "", 1, 2}}},
	{".epsilon", []opticsColumn{
		{"Dielectric function (real part)", "", 1, 3},
		{"Dielectric function (imaginary part)", "", 2, 4},
	}},
	{".reflectivity", []opticsColumn{{"Reflectivity", "", 1, 2}}},
	{".refraction", []opticsColumn{
		{"Refractive index", "", 1, 3},
		{"Extinction coefficient", "", 2, 4},
	}},
	{".sigmak", []opticsColumn{
		{"Optical conductivity (real part)", "10^15/sec", 1, 3},
		{"Optical conductivity (imaginary part)", "10^15/sec", 2, 4},
	}},
}

// ExtraResults returns one result per quantity in the optics files.
// The table is the same for every run; results for missing files are absent.
func (W *Wien2k) ExtraResults() []ResultField {
	var ret []ResultField
	for _, o := range opticsFiles {
		for _, c := range o.cols {
			ext, col := o.ext, c
			ret = append(ret, ResultField{
				Name:     col.name,
				Kind:     pif.VectorKind,
				Optional: true,
				Get:      func(Extractor) (*pif.Property, error) { return W.optic(ext, col) },
			})
		}
	}
	return ret
}

// optic reads one quantity from an optics file, averaging the tensor
// components as (2xx+zz)/3. Rows with non-positive energies are skipped.
func (W *Wien2k) optic(ext string, col opticsColumn) (*pif.Property, error) {
	file, ok := W.optics[ext]
	if !ok {
		return nil, nil
	}
	field := strings.ReplaceAll(col.name, " ", "")
	lines, err := W.lines(field, file)
	if err != nil {
		return nil, err
	}
	var values, wavelength, frequency []float64
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) == 0 || strings.HasPrefix(f[0], "#") {
			continue
		}
		if len(f) <= col.zz || len(f) <= col.xx {
			return nil, malformed(wien2kName, field, file, "%d columns needed, line has %d", col.zz+1, len(f))
		}
		v, err := parseFloats(f, len(f))
		if err != nil {
			return nil, malformed(wien2kName, field, file, "%s", err)
		}
		e := v[0]
		if e <= 0 {
			continue
		}
		values = append(values, (2*v[col.xx]+v[col.zz])/3)
		wavelength = append(wavelength, pif.EVNm/e)
		frequency = append(frequency, e*pif.EV2Hz)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return pif.NewProperty("", pif.Vector(values, col.units),
		pif.Condition{Name: "Wavelength", Quantity: pif.Vector(wavelength, "nm")},
		pif.Condition{Name: "Frequency", Quantity: pif.Vector(frequency, "1/s")},
	), nil
}
