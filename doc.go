/*
 * doc.go, part of dftpif.
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

/*Package pif is the main package of the dftpif library. It provides the canonical record types
(ChemicalSystem, Property, Condition, Method) into which the output of density functional theory
codes is converted, and the Quantity type that carries every value in those records.



	**dftpif Capabilities**


    Detects which DFT code (VASP, Quantum Espresso PWSCF, Wien2k, ABINIT) produced a set of files
	and binds a code-specific extractor to them (package dft).

    Extracts calculation settings (cutoff energy, exchange-correlation functional, k-point
	density, spin-orbit coupling, DFT+U and vdW corrections, pseudopotentials) and results
	(total energy, band gap, pressure, stresses, density of states, forces, positions, density,
	magnetization, code-specific extras such as energy decompositions and optical spectra).

    Assembles the extracted fields into a single ChemicalSystem record, attaching the settings
	as conditions to every property (package driver).

    Reads directories, file lists and (compressed) tarballs, using collision-free scratch areas.

    Optionally sends the raw files to an external validation service and attaches the returned
	quality report (package quality).

    Records can be JSON-encoded in a PIF-like layout, stored in a local catalog (package catalog)
	and the density of states can be plotted (package pifplot).


A Quantity is immutable. It holds at most one of a scalar, a vector, a matrix or a list of tags,
plus a units string. Boolean values are stored as the tags "True" or "False".

*/
package pif
