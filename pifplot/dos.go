/*
 * dos.go, part of dftpif.
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

// Package pifplot draws the density of states stored in a record.
package pifplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	pif "github.com/rmera/dftpif"
)

// DOSProperty is the name of the property plotted.
const DOSProperty = "Density of States"

// ErrNoDOS is returned for records without a density of states.
var ErrNoDOS = errors.New("record has no density of states")

// DOSPoints returns the density of states of sys as (energy, density) pairs.
func DOSPoints(sys *pif.ChemicalSystem) (plotter.XYs, error) {
	p := sys.Property(DOSProperty)
	if p == nil {
		return nil, ErrNoDOS
	}
	e, ok := p.Condition("Energy")
	if !ok {
		return nil, fmt.Errorf("DOSPoints: %s has no Energy condition", DOSProperty)
	}
	energy, dos := e.Vector(), p.Vector()
	if len(energy) != len(dos) || len(dos) == 0 {
		return nil, fmt.Errorf("DOSPoints: %d energies for %d densities", len(energy), len(dos))
	}
	pts := make(plotter.XYs, len(dos))
	for i := range dos {
		pts[i].X = energy[i]
		pts[i].Y = dos[i]
	}
	return pts, nil
}

// DOS builds the plot of the density of states of sys. Energies are relative
// to the Fermi level, which is drawn as a dashed line.
func DOS(sys *pif.ChemicalSystem, title string) (*plot.Plot, error) {
	pts, err := DOSPoints(sys)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	if title == "" {
		title = sys.Formula
	}
	p.Title.Text = title
	p.X.Label.Text = "E - E_F (eV)"
	p.Y.Label.Text = "DOS (states/cell)"
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(line)
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		ys[i] = pt.Y
	}
	fermi, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 0, Y: floats.Max(ys)}})
	if err != nil {
		return nil, err
	}
	fermi.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	fermi.LineStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(fermi)
	return p, nil
}

// SaveDOS writes the DOS plot of sys to path. The image format is taken from the
// extension of path.
func SaveDOS(sys *pif.ChemicalSystem, title, path string) error {
	p, err := DOS(sys, title)
	if err != nil {
		return fmt.Errorf("SaveDOS: %w", err)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// WriteDOS writes the DOS plot of sys to w as a PNG image.
func WriteDOS(w io.Writer, sys *pif.ChemicalSystem, title string) error {
	p, err := DOS(sys, title)
	if err != nil {
		return fmt.Errorf("WriteDOS: %w", err)
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("WriteDOS: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
