/*
 * search.go, part of dftpif.
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
	"strconv"
	"strings"
)

//Helpers to look for markers in the lines of an output file.

// firstIndex returns the index of the first line at or after from containing str, or -1.
func firstIndex(lines []string, str string, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], str) {
			return i
		}
	}
	return -1
}

// lastIndex returns the index of the last line containing str, or -1.
func lastIndex(lines []string, str string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], str) {
			return i
		}
	}
	return -1
}

// allIndexes returns the indexes of all the lines containing str.
func allIndexes(lines []string, str string) []int {
	var ret []int
	for i, l := range lines {
		if strings.Contains(l, str) {
			ret = append(ret, i)
		}
	}
	return ret
}

// lastLine returns the last line containing str.
func lastLine(lines []string, str string) (string, bool) {
	i := lastIndex(lines, str)
	if i < 0 {
		return "", false
	}
	return lines[i], true
}

// firstLine returns the first line containing str.
func firstLine(lines []string, str string) (string, bool) {
	i := firstIndex(lines, str, 0)
	if i < 0 {
		return "", false
	}
	return lines[i], true
}

// containsFold reports whether any line contains str, ignoring case.
func containsFold(lines []string, str string) bool {
	str = strings.ToLower(str)
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), str) {
			return true
		}
	}
	return false
}

// field returns the i-th whitespace separated field of line.
func field(line string, i int) (string, error) {
	f := strings.Fields(line)
	if i >= len(f) || i < 0 {
		return "", fmt.Errorf("field %d not found in %q", i, strings.TrimSpace(line))
	}
	return f[i], nil
}

// floatField parses the i-th field of line as a float.
func floatField(line string, i int) (float64, error) {
	f, err := field(line, i)
	if err != nil {
		return 0, err
	}
	return parseFloat(f)
}

// intField parses the i-th field of line as an int.
func intField(line string, i int) (int, error) {
	f, err := field(line, i)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimRight(f, ";,"))
}

// parseFloat parses s as a float, accepting Fortran "D" exponents and trailing punctuation.
func parseFloat(s string) (float64, error) {
	s = strings.TrimRight(s, ";,")
	s = strings.Replace(strings.Replace(s, "D", "E", 1), "d", "e", 1)
	return strconv.ParseFloat(s, 64)
}

// afterEq returns the fields after the first "=" in line.
func afterEq(line string) []string {
	i := strings.Index(line, "=")
	if i < 0 {
		return nil
	}
	return strings.Fields(line[i+1:])
}

// floatsAfter parses n floats following the first occurrence of marker in line.
func floatsAfter(line, marker string, n int) ([]float64, error) {
	i := strings.Index(line, marker)
	if i < 0 {
		return nil, fmt.Errorf("%q not found in %q", marker, strings.TrimSpace(line))
	}
	return parseFloats(strings.Fields(strings.Trim(line[i+len(marker):], " ()")), n)
}

// parseFloats parses the first n strings in fields. Parentheses around the numbers are ignored.
func parseFloats(fields []string, n int) ([]float64, error) {
	ret := make([]float64, 0, n)
	for _, f := range fields {
		if len(ret) == n {
			break
		}
		f = strings.Trim(f, "()")
		if f == "" {
			continue
		}
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	if len(ret) < n {
		return nil, fmt.Errorf("%d numbers expected, found %d", n, len(ret))
	}
	return ret, nil
}
