/*
 * quantity.go, part of dftpif.
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

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the shape of the value held by a Quantity.
type Kind int

const (
	Absent Kind = iota
	ScalarKind
	VectorKind
	MatrixKind
	TagKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case VectorKind:
		return "vector"
	case MatrixKind:
		return "matrix"
	case TagKind:
		return "tag"
	default:
		return "absent"
	}
}

// Quantity is a physical value with optional units. At most one of
// the value fields is set, according to kind. The zero value is an absent Quantity.
type Quantity struct {
	kind   Kind
	scalar float64
	vector []float64
	matrix [][]float64
	tags   []string
	units  string
}

// Scalar returns a scalar Quantity with the given units.
func Scalar(v float64, units string) Quantity {
	return Quantity{kind: ScalarKind, scalar: v, units: units}
}

// Vector returns a vector Quantity. The slice is copied.
func Vector(v []float64, units string) Quantity {
	c := make([]float64, len(v))
	copy(c, v)
	return Quantity{kind: VectorKind, vector: c, units: units}
}

// Matrix returns a matrix Quantity. The rows are copied.
func Matrix(m [][]float64, units string) Quantity {
	return Quantity{kind: MatrixKind, matrix: copyMatrix(m), units: units}
}

// Tags returns a Quantity holding one or more strings. Tags carry no units.
func Tags(tags ...string) Quantity {
	c := make([]string, len(tags))
	copy(c, tags)
	return Quantity{kind: TagKind, tags: c}
}

// Flag returns the tag "True" or "False".
func Flag(b bool) Quantity {
	if b {
		return Tags("True")
	}
	return Tags("False")
}

func copyMatrix(m [][]float64) [][]float64 {
	c := make([][]float64, len(m))
	for i, row := range m {
		c[i] = make([]float64, len(row))
		copy(c[i], row)
	}
	return c
}

func (q Quantity) Kind() Kind { return q.kind }

func (q Quantity) IsAbsent() bool { return q.kind == Absent }

// Units returns the units of q. Absent and tag quantities have no units.
func (q Quantity) Units() string {
	if q.kind == Absent || q.kind == TagKind {
		return ""
	}
	return q.units
}

// Scalar returns the scalar value and true, or 0 and false if q is not a scalar.
func (q Quantity) Scalar() (float64, bool) {
	if q.kind != ScalarKind {
		return 0, false
	}
	return q.scalar, true
}

// Vector returns a copy of the vector value, or nil.
func (q Quantity) Vector() []float64 {
	if q.kind != VectorKind {
		return nil
	}
	c := make([]float64, len(q.vector))
	copy(c, q.vector)
	return c
}

// Matrix returns a copy of the matrix value, or nil.
func (q Quantity) Matrix() [][]float64 {
	if q.kind != MatrixKind {
		return nil
	}
	return copyMatrix(q.matrix)
}

// Tags returns a copy of the tags, or nil.
func (q Quantity) Tags() []string {
	if q.kind != TagKind {
		return nil
	}
	c := make([]string, len(q.tags))
	copy(c, q.tags)
	return c
}

// IsFalse is true only for the single tag "False".
func (q Quantity) IsFalse() bool {
	return q.kind == TagKind && len(q.tags) == 1 && q.tags[0] == "False"
}

// Len returns the number of elements (rows, for matrices) in q.
func (q Quantity) Len() int {
	switch q.kind {
	case ScalarKind:
		return 1
	case VectorKind:
		return len(q.vector)
	case MatrixKind:
		return len(q.matrix)
	case TagKind:
		return len(q.tags)
	}
	return 0
}

func (q Quantity) String() string {
	var s string
	switch q.kind {
	case ScalarKind:
		s = strconv.FormatFloat(q.scalar, 'g', -1, 64)
	case VectorKind:
		s = fmt.Sprint(q.vector)
	case MatrixKind:
		s = fmt.Sprint(q.matrix)
	case TagKind:
		return strings.Join(q.tags, ", ")
	default:
		return "<absent>"
	}
	if q.units != "" {
		s += " " + q.units
	}
	return s
}
