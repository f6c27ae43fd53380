/*
 * extractor.go, part of dftpif.
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
	pif "github.com/rmera/dftpif"
)

// Extractor gives access to the settings and results of one calculation.
// Accessors return nil, nil when the quantity is absent from the files.
// The names of the returned conditions and properties are set by whoever
// consumes the descriptor tables, see Settings and Results.
type Extractor interface {
	Name() string
	Version() (string, error)
	Composition() (string, error)
	Context() *Context

	//Settings
	CutoffEnergy() (*pif.Condition, error)
	XCFunctional() (*pif.Condition, error)
	Relaxed() (*pif.Condition, error)
	KPPRA() (*pif.Condition, error)
	SpinOrbit() (*pif.Condition, error)
	USettings() (*pif.Condition, error)
	VdWSettings() (*pif.Condition, error)
	Pseudopotentials() (*pif.Condition, error)
	InputFile() (*pif.Condition, error)
	StructureFile() (*pif.Condition, error)

	//Results
	Converged() (*pif.Property, error)
	TotalEnergy() (*pif.Property, error)
	BandGap() (*pif.Property, error)
	Pressure() (*pif.Property, error)
	Stresses() (*pif.Property, error)
	DOS() (*pif.Property, error)
	Positions() (*pif.Property, error)
	Forces() (*pif.Property, error)
	TotalForce() (*pif.Property, error)
	Density() (*pif.Property, error)
	TotalMagnetization() (*pif.Property, error)
	OutputFile() (*pif.Property, error)
}

// ExtraResults is implemented by extractors with code-specific results.
type ExtraResults interface {
	ExtraResults() []ResultField
}

// Validator is implemented by extractors whose files can be checked by
// the quality report service. The map goes from the name the service expects to the path.
type Validator interface {
	ValidationFiles() map[string]string
}

// SettingField describes one setting: the condition name, the accessor, the
// expected value kind and whether the field can be absent in a valid output.
type SettingField struct {
	Name     string
	Kind     pif.Kind
	Optional bool
	Get      func(Extractor) (*pif.Condition, error)
}

// ResultField describes one result, like SettingField.
type ResultField struct {
	Name     string
	Kind     pif.Kind
	Optional bool
	Get      func(Extractor) (*pif.Property, error)
}

//File references have no value, only files.
var baseSettings = []SettingField{
	{"XC Functional", pif.TagKind, true, Extractor.XCFunctional},
	{"Relaxed", pif.TagKind, true, Extractor.Relaxed},
	{"Cutoff Energy", pif.ScalarKind, true, Extractor.CutoffEnergy},
	{"k-Points per Reciprocal Atom", pif.ScalarKind, true, Extractor.KPPRA},
	{"Spin-Orbit Coupling", pif.TagKind, true, Extractor.SpinOrbit},
	{"DFT+U", pif.TagKind, true, Extractor.USettings},
	{"vdW Interactions", pif.TagKind, true, Extractor.VdWSettings},
	{"Pseudopotentials", pif.TagKind, true, Extractor.Pseudopotentials},
	{"Input File", pif.Absent, true, Extractor.InputFile},
	{"Structure File", pif.Absent, true, Extractor.StructureFile},
}

var baseResults = []ResultField{
	{"Converged", pif.TagKind, true, Extractor.Converged},
	{"Total Energy", pif.ScalarKind, false, Extractor.TotalEnergy},
	{"Band Gap Energy", pif.ScalarKind, true, Extractor.BandGap},
	{"Pressure", pif.ScalarKind, true, Extractor.Pressure},
	{"Stresses", pif.MatrixKind, true, Extractor.Stresses},
	{"Density of States", pif.VectorKind, true, Extractor.DOS},
	{"Positions", pif.MatrixKind, true, Extractor.Positions},
	{"Forces", pif.MatrixKind, true, Extractor.Forces},
	{"Total Force", pif.ScalarKind, true, Extractor.TotalForce},
	{"Density", pif.ScalarKind, true, Extractor.Density},
	{"Total Magnetization", pif.ScalarKind, true, Extractor.TotalMagnetization},
	{"Output File", pif.Absent, true, Extractor.OutputFile},
}

// BaseSettings returns the settings every extractor provides.
func BaseSettings() []SettingField {
	return append([]SettingField(nil), baseSettings...)
}

// BaseResults returns the results every extractor provides.
func BaseResults() []ResultField {
	return append([]ResultField(nil), baseResults...)
}

// Settings returns the setting descriptors for x, in record order.
func Settings(x Extractor) []SettingField {
	return BaseSettings()
}

// Results returns the result descriptors for x: the base ones followed by the
// code-specific ones, in record order.
func Results(x Extractor) []ResultField {
	ret := BaseResults()
	if e, ok := x.(ExtraResults); ok {
		ret = append(ret, e.ExtraResults()...)
	}
	return ret
}
