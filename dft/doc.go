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

/*
Package dft detects which density functional theory code produced a set of files and extracts
the calculation settings and results from them.

Each supported code (VASP, Quantum Espresso's PWSCF, Wien2k and ABINIT) provides a Parser with
two steps. Probe is a cheap look at file names and the first lines of each file, and never fails.
Bind claims the files and returns an Extractor, or an error if the files belong to the code but
are malformed. A Registry tries its parsers in order and only moves on to the next one when
Probe says the files are not for it.

An Extractor has one accessor per setting or result. An accessor returns nil, nil when the
quantity is simply not in the output. Errors are returned only when something that should
be there is missing or unreadable (ErrMalformed) or when a derived quantity cannot be computed
(ErrAlgorithm). The descriptor tables returned by Settings and Results list every accessor,
with the name it gets in the record, so the schema can be inspected without parsing anything.
*/
package dft
