/*
 * json.go, part of dftpif.
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
	"encoding/json"
	"fmt"
)

//The JSON layout follows the Physical Information File (PIF) conventions: scalar values
//are lists of {"value": x} objects, strings are stored as scalars, vectors and matrices
//as nested lists.

type jsonScalar struct {
	Value any `json:"value"`
}

type jsonValue struct {
	Name     string           `json:"name"`
	Scalars  []jsonScalar     `json:"scalars,omitempty"`
	Vectors  [][]jsonScalar   `json:"vectors,omitempty"`
	Matrices [][][]jsonScalar `json:"matrices,omitempty"`
	Units    string           `json:"units,omitempty"`
	Files    []FileReference  `json:"files,omitempty"`
}

type jsonProperty struct {
	jsonValue
	Conditions []jsonValue `json:"conditions,omitempty"`
	Methods    []*Method   `json:"methods,omitempty"`
	DataType   string      `json:"dataType,omitempty"`
}

type jsonSystem struct {
	Category      string          `json:"category"`
	Formula       string          `json:"chemicalFormula,omitempty"`
	Properties    []jsonProperty  `json:"properties,omitempty"`
	QualityReport json.RawMessage `json:"qualityReport,omitempty"`
}

const systemCategory = "system.chemical"

func scalarsOf(v []float64) []jsonScalar {
	ret := make([]jsonScalar, len(v))
	for i, f := range v {
		ret[i] = jsonScalar{f}
	}
	return ret
}

func encodeQuantity(name string, q Quantity, files []FileReference) jsonValue {
	j := jsonValue{Name: name, Units: q.Units(), Files: files}
	switch q.kind {
	case ScalarKind:
		j.Scalars = []jsonScalar{{q.scalar}}
	case VectorKind:
		j.Vectors = [][]jsonScalar{scalarsOf(q.vector)}
	case MatrixKind:
		m := make([][]jsonScalar, len(q.matrix))
		for i, row := range q.matrix {
			m[i] = scalarsOf(row)
		}
		j.Matrices = [][][]jsonScalar{m}
	case TagKind:
		for _, t := range q.tags {
			j.Scalars = append(j.Scalars, jsonScalar{t})
		}
	}
	return j
}

func floatsOf(s []jsonScalar) ([]float64, error) {
	ret := make([]float64, len(s))
	for i, v := range s {
		f, ok := v.Value.(float64)
		if !ok {
			return nil, fmt.Errorf("pif: non-numeric value %v in numeric list", v.Value)
		}
		ret[i] = f
	}
	return ret, nil
}

func decodeQuantity(j jsonValue) (Quantity, error) {
	switch {
	case len(j.Matrices) > 0:
		m := make([][]float64, len(j.Matrices[0]))
		for i, row := range j.Matrices[0] {
			r, err := floatsOf(row)
			if err != nil {
				return Quantity{}, err
			}
			m[i] = r
		}
		return Quantity{kind: MatrixKind, matrix: m, units: j.Units}, nil
	case len(j.Vectors) > 0:
		v, err := floatsOf(j.Vectors[0])
		if err != nil {
			return Quantity{}, err
		}
		return Quantity{kind: VectorKind, vector: v, units: j.Units}, nil
	case len(j.Scalars) == 0:
		return Quantity{}, nil
	}
	if _, ok := j.Scalars[0].Value.(string); ok {
		tags := make([]string, 0, len(j.Scalars))
		for _, s := range j.Scalars {
			tags = append(tags, fmt.Sprint(s.Value))
		}
		return Tags(tags...), nil
	}
	v, err := floatsOf(j.Scalars)
	if err != nil {
		return Quantity{}, err
	}
	if len(v) == 1 {
		return Scalar(v[0], j.Units), nil
	}
	return Vector(v, j.Units), nil
}

// MarshalJSON encodes the system in the PIF layout.
func (s *ChemicalSystem) MarshalJSON() ([]byte, error) {
	js := jsonSystem{Category: systemCategory, Formula: s.Formula, QualityReport: s.QualityReport}
	for _, p := range s.Properties {
		jp := jsonProperty{jsonValue: encodeQuantity(p.Name, p.Quantity, p.Files), DataType: p.DataType}
		for _, c := range p.Conditions {
			jp.Conditions = append(jp.Conditions, encodeQuantity(c.Name, c.Quantity, c.Files))
		}
		if p.Method != nil {
			jp.Methods = []*Method{p.Method}
		}
		js.Properties = append(js.Properties, jp)
	}
	return json.Marshal(js)
}

// UnmarshalJSON decodes a system written by MarshalJSON. Equal methods are
// decoded into one shared *Method.
func (s *ChemicalSystem) UnmarshalJSON(data []byte) error {
	var js jsonSystem
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	if js.Category != "" && js.Category != systemCategory {
		return fmt.Errorf("pif: unexpected category %q", js.Category)
	}
	s.Formula = js.Formula
	s.QualityReport = []byte(js.QualityReport)
	s.Properties = nil
	var methods []*Method
	for _, jp := range js.Properties {
		q, err := decodeQuantity(jp.jsonValue)
		if err != nil {
			return fmt.Errorf("pif: property %s: %w", jp.Name, err)
		}
		p := &Property{Name: jp.Name, Quantity: q, Files: jp.Files, DataType: jp.DataType}
		for _, jc := range jp.Conditions {
			cq, err := decodeQuantity(jc)
			if err != nil {
				return fmt.Errorf("pif: condition %s of %s: %w", jc.Name, jp.Name, err)
			}
			p.Conditions = append(p.Conditions, Condition{Name: jc.Name, Quantity: cq, Files: jc.Files})
		}
		if len(jp.Methods) > 0 {
			p.Method, methods = internMethod(methods, jp.Methods[0])
		}
		s.Properties = append(s.Properties, p)
	}
	return nil
}

func internMethod(known []*Method, m *Method) (*Method, []*Method) {
	for _, k := range known {
		if sameMethod(k, m) {
			return k, known
		}
	}
	return m, append(known, m)
}

func sameMethod(a, b *Method) bool {
	if a.Name != b.Name || len(a.Software) != len(b.Software) {
		return false
	}
	for i := range a.Software {
		if a.Software[i] != b.Software[i] {
			return false
		}
	}
	return true
}
