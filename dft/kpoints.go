/*
 * kpoints.go, part of dftpif.
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

import "math"

// KPoints is the k-point sampling requested in an input file: the Gamma point only,
// a regular grid, or an explicit list of points with integer weights.
type KPoints struct {
	Gamma   bool
	Grid    [3]int
	Weights []float64
}

// Count returns the total number of k-points before symmetry reduction.
func (K KPoints) Count() int {
	switch {
	case K.Gamma:
		return 1
	case len(K.Weights) > 0:
		var w float64
		for _, v := range K.Weights {
			w += math.Trunc(v)
		}
		return int(w)
	}
	return K.Grid[0] * K.Grid[1] * K.Grid[2]
}

// KPPRA returns the number of k-points per reciprocal atom for a cell with natoms atoms.
func KPPRA(K KPoints, natoms int) int {
	return K.Count() * natoms
}
