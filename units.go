/*
 * units.go, part of dftpif.
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

//Conversions
const (
	Bohr2A = 0.529177249
	A2Bohr = 1 / Bohr2A
	Ry2eV  = 13.605693
	Ha2eV  = 27.211386
	A32Cm3 = 1e-24        //cubic Angstrom to cubic cm
	Amu2G  = 1.660539e-24 //atomic mass unit to gram
	EV2Hz  = 2.418e14     //photon energy (eV) to frequency (1/s)
	EVNm   = 1240.0       //photon energy (eV) times wavelength (nm)
)

//Unit names
const (
	EV       = "eV"
	Angstrom = "angstrom"
	DOSUnits = "number of states per unit cell"
)

// Units as printed by the codes, and the names used in records.
var unitNames = map[string]string{
	"kB":             "kbar",
	"kb":             "kbar",
	"Ry/au":          "Ry/bohr",
	"Ry/bohr":        "Ry/bohr",
	"eV/Angst":       "eV/angstrom",
	"eV/Angstrom":    "eV/angstrom",
	"hartree/bohr^3": "Ha/bohr^3",
	"Hartree":        "Ha",
	"hartree":        "Ha",
	"Ha":             "Ha",
	"a.u.":           "bohr",
	"Bohr":           "bohr",
	"ev":             "eV",
	"Angst":          Angstrom,
	"Angstrom":       Angstrom,
	"Ang":            Angstrom,
}

// NormalizeUnit translates a unit abbreviation found in an output file into the name used in
// records. Unknown units are returned unchanged.
func NormalizeUnit(u string) string {
	if n, ok := unitNames[u]; ok {
		return n
	}
	return u
}
