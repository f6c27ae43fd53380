/*
 * record.go, part of dftpif.
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

// DataTypeComputational is the data type stamped on every property produced by this library.
const DataTypeComputational = "COMPUTATIONAL"

// MethodDFT is the name of the method attached to all properties.
const MethodDFT = "Density Functional Theory"

// FileReference points to a file, relative to wherever the record is stored or was produced.
type FileReference struct {
	RelativePath string `json:"relativePath"`
}

// Software identifies a program and its release.
type Software struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Method is the provenance of a property. One Method is built per conversion and
// shared by all the properties of the resulting record.
type Method struct {
	Name     string     `json:"name"`
	Software []Software `json:"software,omitempty"`
}

// NewMethod returns a Method with the given name and software.
func NewMethod(name string, sw ...Software) *Method {
	m := &Method{Name: name}
	m.Software = append(m.Software, sw...)
	return m
}

// Condition is a named setting under which a property was computed.
type Condition struct {
	Name string
	Quantity
	Files []FileReference
}

// NewCondition returns a condition with the given name and value.
func NewCondition(name string, q Quantity) *Condition {
	return &Condition{Name: name, Quantity: q}
}

// FileCondition returns a condition whose only content is a reference to path.
func FileCondition(name, path string) *Condition {
	return &Condition{Name: name, Files: []FileReference{{RelativePath: path}}}
}

// HasFiles reports whether c references any file.
func (c Condition) HasFiles() bool {
	return len(c.Files) > 0
}

// Property is a named computed result, with the conditions it was computed under,
// its provenance and its data type.
type Property struct {
	Name string
	Quantity
	Conditions []Condition
	Method     *Method
	DataType   string
	Files      []FileReference
}

// NewProperty returns a property with the given value and (code-specific) conditions.
func NewProperty(name string, q Quantity, conds ...Condition) *Property {
	p := &Property{Name: name, Quantity: q}
	p.AddConditions(conds...)
	return p
}

// FileProperty returns a property whose only content is a reference to path.
func FileProperty(name, path string) *Property {
	return &Property{Name: name, Files: []FileReference{{RelativePath: path}}}
}

// AddConditions appends conds to the conditions already in p. Existing conditions
// are kept, the list is only ever extended.
func (p *Property) AddConditions(conds ...Condition) {
	p.Conditions = append(p.Conditions, conds...)
}

// Condition returns the first condition called name.
func (p *Property) Condition(name string) (Condition, bool) {
	for _, c := range p.Conditions {
		if c.Name == name {
			return c, true
		}
	}
	return Condition{}, false
}

// ChemicalSystem is the record produced by one conversion: a composition and the list
// of computed properties. QualityReport is only set when a quality report was requested inline.
type ChemicalSystem struct {
	Formula       string
	Properties    []*Property
	QualityReport []byte
}

// Property returns the first property called name, or nil.
func (s *ChemicalSystem) Property(name string) *Property {
	for _, p := range s.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Methods returns the distinct methods referenced by the properties of s, in order of appearance.
func (s *ChemicalSystem) Methods() []*Method {
	var ret []*Method
	seen := make(map[*Method]bool)
	for _, p := range s.Properties {
		if p.Method == nil || seen[p.Method] {
			continue
		}
		seen[p.Method] = true
		ret = append(ret, p.Method)
	}
	return ret
}
