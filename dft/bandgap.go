/*
 * bandgap.go, part of dftpif.
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
	"fmt"

	gscalar "gonum.org/v1/gonum/floats/scalar"
)

// dosThreshold is the density of states below which a state is considered empty.
const dosThreshold = 1e-3

// BandGapFromDOS returns the band gap, rounded to 3 decimals, for a density of states on an
// ascending energy grid. Energies are shifted by fermi first. The gap is 0 when the band edges
// are less than two grid steps apart (exactly two steps also counts as no gap).
// It fails if either band edge cannot be found.
func BandGapFromDOS(energy, dos []float64, fermi float64) (float64, error) {
	if len(energy) != len(dos) || len(energy) < 2 {
		return 0, fmt.Errorf("band gap needs at least 2 points with one density each, got %d energies and %d densities", len(energy), len(dos))
	}
	step := energy[1] - energy[0]
	if step <= 0 {
		return 0, fmt.Errorf("energy grid is not ascending")
	}
	var bottom, top float64
	var haveBottom, haveTop bool
	for i, e := range energy {
		e -= fermi
		if dos[i] <= dosThreshold {
			continue
		}
		if e < 0 {
			bottom = e
			haveBottom = true
		} else if e > 0 {
			top = e
			haveTop = true
			break
		}
	}
	if !haveTop {
		return 0, fmt.Errorf("no conduction band edge found above the Fermi level")
	}
	if !haveBottom {
		return 0, fmt.Errorf("no valence band edge found below the Fermi level")
	}
	if top-bottom < 2*step*(1+1e-6) {
		return 0, nil
	}
	return gscalar.Round(top-bottom, 3), nil
}
