/*
 * v3.go, part of dftpif.
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

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space.
//Within the package it is understood that a "vector" is a row vector, i.e. the
//cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

//Generate and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//Returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//FromRows builds a Matrix from a slice of 3-element rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	data := make([]float64, 0, 3*len(rows))
	for i, r := range rows {
		if len(r) != 3 {
			return nil, Error{fmt.Sprintf("Row %d has %d elements", i, len(r)), []string{"FromRows"}, true}
		}
		data = append(data, r...)
	}
	return NewMatrix(data)
}

//return the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(not3xXMatrix)
	}
	return r
}

//Returns a view of the ith vector of F.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//Rows returns a copy of the contents of F as a slice of rows.
func (F *Matrix) Rows() [][]float64 {
	n := F.NVecs()
	ret := make([][]float64, n)
	for i := 0; i < n; i++ {
		ret[i] = mat.Row(nil, i, F.Dense)
	}
	return ret
}

//Scale multiplies every element of F by s, in place.
func (F *Matrix) Scale(s float64) {
	F.Dense.Scale(s, F.Dense)
}

//ToCartesian returns the cartesian coordinates for the fractional
//coordinates in F, given the lattice vectors (one per row) in cell.
func (F *Matrix) ToCartesian(cell *Matrix) *Matrix {
	ret := Zeros(F.NVecs())
	ret.Mul(F.Dense, cell.Dense)
	return ret
}

//Volume returns the volume of the cell spanned by the 3 vectors of cell.
func Volume(cell *Matrix) (float64, error) {
	if cell.NVecs() != 3 {
		return 0, Error{fmt.Sprintf("A cell needs 3 vectors, got %d", cell.NVecs()), []string{"Volume"}, true}
	}
	return math.Abs(mat.Det(cell.Dense)), nil
}

//CellFromParameters builds the lattice vectors from the lengths a, b, c and the angles
//alpha, beta, gamma (degrees). a is put along x and b in the xy plane.
func CellFromParameters(a, b, c, alpha, beta, gamma float64) (*Matrix, error) {
	deg := math.Pi / 180
	ca, cb, cg := math.Cos(alpha*deg), math.Cos(beta*deg), math.Cos(gamma*deg)
	sg := math.Sin(gamma * deg)
	if sg < appzero {
		return nil, Error{"Gamma angle gives a degenerate cell", []string{"CellFromParameters"}, true}
	}
	cx := c * cb
	cy := c * (ca - cb*cg) / sg
	cz2 := c*c - cx*cx - cy*cy
	if cz2 <= 0 {
		return nil, Error{"Cell angles are not consistent", []string{"CellFromParameters"}, true}
	}
	return NewMatrix([]float64{
		a, 0, 0,
		b * cg, b * sg, 0,
		cx, cy, math.Sqrt(cz2),
	})
}

const appzero float64 = 0.000000000001 //Everything equal or less than this is considered zero.

//Errors

//Error is the error type for the package. It keeps a trail of the functions
//the error went through.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return fmt.Sprintf("%s  Message: %s", "v3", err.message)
}

//Decorate adds the name of a function to the trail and returns the whole trail.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns whether the error is critical or it can be ignored.
func (err Error) Critical() bool { return err.critical }

//PanicMsg is the type used for the panics of the package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const not3xXMatrix = PanicMsg("v3: A Matrix should have 3 columns")
