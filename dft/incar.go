/*
 * incar.go, part of dftpif.
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

import "strings"

// ParseINCAR returns the tags set in the lines of a VASP INCAR file, with
// upper-case keys. Comments start with # or !, and several assignments can
// share a line when separated by ";".
func ParseINCAR(lines []string) map[string]string {
	tags := make(map[string]string)
	for _, l := range lines {
		if i := strings.IndexAny(l, "#!"); i >= 0 {
			l = l[:i]
		}
		for _, stmt := range strings.Split(l, ";") {
			k, v, ok := strings.Cut(stmt, "=")
			if !ok {
				continue
			}
			k = strings.ToUpper(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			tags[k] = strings.TrimSpace(v)
		}
	}
	return tags
}

// incarBool interprets a VASP logical (.TRUE., T, .FALSE., F).
func incarBool(v string) bool {
	v = strings.ToUpper(strings.Trim(strings.TrimSpace(v), "."))
	return strings.HasPrefix(v, "T")
}
