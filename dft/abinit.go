/*
 * abinit.go, part of dftpif.
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
	"path/filepath"
	"strconv"
	"strings"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/structure"
	"github.com/rmera/dftpif/v3"
)

const abinitName = "ABINIT"

// ABINITParser recognizes an ABINIT main output file.
var ABINITParser = Parser{Code: abinitName, Probe: probeABINIT, Bind: BindABINIT}

func isABINITOutput(head []string) bool {
	for i := 0; i < len(head) && i < 2; i++ {
		if strings.Contains(head[i], "ABINIT") {
			return true
		}
	}
	return false
}

func probeABINIT(C *Context) bool {
	return len(C.Matching(2, isABINITOutput)) > 0
}

const (
	echoStart = "echo values of preprocessed input variables"
	echoFinal = "echo values of variables after computation"
)

// ABINIT extracts data from the main output file of an ABINIT run. Settings come from
// the echo of the input variables at the beginning of the file, and the final
// structure of relaxations from the echo at the end.
type ABINIT struct {
	ctx       *Context
	out       string
	files     string
	vars      map[string][]string
	final     map[string][]string
	converged *bool
}

// BindABINIT binds an ABINIT extractor. The "files" file, if present, is kept as the input reference.
func BindABINIT(C *Context) (Extractor, error) {
	outs := C.Matching(2, isABINITOutput)
	if len(outs) != 1 {
		return nil, Error{ErrMalformed, abinitName, "", "expected one output file, found: " + strings.Join(outs, ", "), []string{"Bind"}, true}
	}
	A := &ABINIT{ctx: C, out: outs[0]}
	if f := C.ByExt(".files"); len(f) > 0 {
		A.files = f[0]
	}
	C.Input, C.Output = A.files, A.out
	return A, nil
}

func (A *ABINIT) Name() string       { return abinitName }
func (A *ABINIT) Context() *Context { return A.ctx }

func (A *ABINIT) output(field string) ([]string, error) {
	l, err := A.ctx.Lines(A.out)
	if err != nil {
		return nil, malformed(abinitName, field, A.out, "cannot read: %s", err)
	}
	return l, nil
}

// Version reads the ".Version X of ABINIT" line.
func (A *ABINIT) Version() (string, error) {
	lines, err := A.output("Version")
	if err != nil {
		return "", err
	}
	for i := 0; i < len(lines) && i < 5; i++ {
		f := strings.Fields(lines[i])
		for j := 0; j+1 < len(f); j++ {
			if strings.TrimLeft(f[j], ".") == "Version" {
				return f[j+1], nil
			}
		}
	}
	return "", malformed(abinitName, "Version", A.out, "no .Version line")
}

// echoVars parses an echo block: each variable starts a line, its values can continue
// on the next lines. Memory and print markers in the first column are dropped.
func echoVars(lines []string) map[string][]string {
	vars := make(map[string][]string)
	var current string
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) == 0 {
			continue
		}
		if len(f[0]) == 1 && !isDigit(f[0][0]) {
			f = f[1:] //"P", "-" and similar markers
			if len(f) == 0 {
				continue
			}
		}
		first := f[0][0]
		if isDigit(first) || first == '-' || first == '+' || first == '.' {
			if current != "" {
				vars[current] = append(vars[current], f...)
			}
			continue
		}
		current = f[0]
		vars[current] = append([]string(nil), f[1:]...)
	}
	return vars
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// block returns the lines after the marker up to the next separator line.
func block(lines []string, marker string) []string {
	i := firstIndex(lines, marker, 0)
	if i < 0 {
		return nil
	}
	var ret []string
	for _, l := range lines[i+1:] {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "=====") || strings.Contains(t, "echo values of") || strings.Contains(t, "chkinp:") {
			break
		}
		ret = append(ret, l)
	}
	return ret
}

func (A *ABINIT) echo(field string) (pre, final map[string][]string, err error) {
	if A.vars != nil {
		return A.vars, A.final, nil
	}
	lines, err := A.output(field)
	if err != nil {
		return nil, nil, err
	}
	b := block(lines, echoStart)
	if b == nil {
		return nil, nil, malformed(abinitName, field, A.out, "no %q block", echoStart)
	}
	A.vars = echoVars(b)
	A.final = echoVars(block(lines, echoFinal))
	return A.vars, A.final, nil
}

// variable returns the values of name in the input echo.
func (A *ABINIT) variable(field, name string) ([]string, bool, error) {
	pre, _, err := A.echo(field)
	if err != nil {
		return nil, false, err
	}
	v, ok := pre[name]
	return v, ok, nil
}

// numbers expands n*v repetitions and drops non numeric tokens such as units.
func numbers(vals []string) []float64 {
	var ret []float64
	for _, v := range vals {
		rep := 1
		if n, x, ok := strings.Cut(v, "*"); ok {
			r, err := strconv.Atoi(n)
			if err != nil {
				continue
			}
			rep, v = r, x
		}
		f, err := parseFloat(v)
		if err != nil {
			continue
		}
		for i := 0; i < rep; i++ {
			ret = append(ret, f)
		}
	}
	return ret
}

func (A *ABINIT) intVariable(field, name string) (int, bool, error) {
	v, ok, err := A.variable(field, name)
	if err != nil || !ok {
		return 0, false, err
	}
	n := numbers(v)
	if len(n) == 0 {
		return 0, false, malformed(abinitName, field, A.out, "no value for %s", name)
	}
	return int(n[0]), true, nil
}

func (A *ABINIT) natom(field string) (int, error) {
	n, ok, err := A.intVariable(field, "natom")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, malformed(abinitName, field, A.out, "no natom in the input echo")
	}
	return n, nil
}

func (A *ABINIT) CutoffEnergy() (*pif.Condition, error) {
	v, ok, err := A.variable("CutoffEnergy", "ecut")
	if err != nil {
		return nil, err
	}
	if !ok || len(v) == 0 {
		return nil, malformed(abinitName, "CutoffEnergy", A.out, "no ecut in the input echo")
	}
	e, err := parseFloat(v[0])
	if err != nil {
		return nil, malformed(abinitName, "CutoffEnergy", A.out, "bad ecut: %s", err)
	}
	unit := "Hartree"
	if len(v) > 1 {
		unit = v[1]
	}
	return scalarCondition(e, pif.NormalizeUnit(unit)), nil
}

var abinitIXC = map[int]string{
	1:       "LDA (Teter Pade)",
	2:       "LDA (Perdew-Zunger)",
	7:       "LDA (Perdew-Wang 92)",
	11:      "GGA (PBE)",
	14:      "GGA (revPBE)",
	15:      "GGA (RPBE)",
	23:      "GGA (Wu-Cohen)",
	-1012:   "LDA (Perdew-Wang 92)",
	-101130: "GGA (PBE)",
	-106131: "GGA (BLYP)",
}

func (A *ABINIT) XCFunctional() (*pif.Condition, error) {
	ixc, ok, err := A.intVariable("XCFunctional", "ixc")
	if err != nil || !ok {
		return nil, err
	}
	if name, ok := abinitIXC[ixc]; ok {
		return tagCondition(name), nil
	}
	return tagCondition("ixc=" + strconv.Itoa(ixc)), nil
}

func (A *ABINIT) isRelaxed() (bool, error) {
	ionmov, ok, err := A.intVariable("Relaxed", "ionmov")
	if err != nil {
		return false, err
	}
	return ok && ionmov > 0, nil
}

func (A *ABINIT) Relaxed() (*pif.Condition, error) {
	r, err := A.isRelaxed()
	if err != nil {
		return nil, err
	}
	return flagCondition(r), nil
}

// KPPRA uses ngkpt (times the number of shifts) or, without a grid, the number of k-points.
func (A *ABINIT) KPPRA() (*pif.Condition, error) {
	n, err := A.natom("KPPRA")
	if err != nil {
		return nil, err
	}
	var k KPoints
	nshift := 1
	if grid, ok, err := A.variable("KPPRA", "ngkpt"); err != nil {
		return nil, err
	} else if g := numbers(grid); ok && len(g) >= 3 {
		k.Grid = [3]int{int(g[0]), int(g[1]), int(g[2])}
		if s, ok, err := A.intVariable("KPPRA", "nshiftk"); err != nil {
			return nil, err
		} else if ok && s > 0 {
			nshift = s
		}
	} else {
		nkpt, ok, err := A.intVariable("KPPRA", "nkpt")
		if err != nil || !ok {
			return nil, err
		}
		if nkpt == 1 {
			k.Gamma = true
		} else {
			k.Weights = make([]float64, nkpt)
			for i := range k.Weights {
				k.Weights[i] = 1
			}
		}
	}
	return scalarCondition(float64(KPPRA(k, n)*nshift), ""), nil
}

func (A *ABINIT) SpinOrbit() (*pif.Condition, error) {
	n, ok, err := A.intVariable("SpinOrbit", "nspinor")
	if err != nil {
		return nil, err
	}
	return flagCondition(ok && n == 2), nil
}

// typeSymbols returns the element of each atom type, from znucl.
func (A *ABINIT) typeSymbols(field string) ([]string, error) {
	z, ok, err := A.variable(field, "znucl")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, malformed(abinitName, field, A.out, "no znucl in the input echo")
	}
	var ret []string
	for _, v := range numbers(z) {
		s := structure.Symbol(int(v + 0.5))
		if s == "" {
			return nil, malformed(abinitName, field, A.out, "bad znucl %g", v)
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// symbols returns the element of each atom.
func (A *ABINIT) symbols(field string) ([]string, error) {
	types, err := A.typeSymbols(field)
	if err != nil {
		return nil, err
	}
	n, err := A.natom(field)
	if err != nil {
		return nil, err
	}
	typat := []float64{1}
	if t, ok, err := A.variable(field, "typat"); err != nil {
		return nil, err
	} else if ok {
		typat = numbers(t)
	}
	if len(typat) == 1 && n > 1 {
		for len(typat) < n {
			typat = append(typat, typat[0])
		}
	}
	if len(typat) != n {
		return nil, malformed(abinitName, field, A.out, "%d types for %d atoms", len(typat), n)
	}
	ret := make([]string, n)
	for i, t := range typat {
		if int(t) < 1 || int(t) > len(types) {
			return nil, malformed(abinitName, field, A.out, "atom %d has type %d, only %d types", i+1, int(t), len(types))
		}
		ret[i] = types[int(t)-1]
	}
	return ret, nil
}

func (A *ABINIT) Composition() (string, error) {
	s, err := A.symbols("Composition")
	if err != nil {
		return "", err
	}
	return structure.Formula(s), nil
}

// USettings reads usepawu, lpawu, upawu and jpawu. Types with lpawu=-1 have no U.
func (A *ABINIT) USettings() (*pif.Condition, error) {
	use, ok, err := A.intVariable("USettings", "usepawu")
	if err != nil || !ok || use == 0 {
		return nil, err
	}
	types, err := A.typeSymbols("USettings")
	if err != nil {
		return nil, err
	}
	get := func(name string) []float64 {
		v, _, _ := A.variable("USettings", name)
		return numbers(v)
	}
	l, u, j := get("lpawu"), get("upawu"), get("jpawu")
	var species []uSpecies
	for i, sym := range types {
		if i >= len(l) || int(l[i]) < 0 {
			continue
		}
		s := uSpecies{symbol: sym, l: int(l[i])}
		if i < len(u) {
			s.u = u[i]
		}
		if i < len(j) {
			s.j = j[i]
		}
		species = append(species, s)
	}
	return uTags(strconv.Itoa(use), species), nil
}

var abinitVdW = map[int]string{
	1:  "vdW-DF1",
	2:  "vdW-DF2",
	5:  "Grimme D2",
	6:  "Grimme D3",
	7:  "Grimme D3-BJ",
	10: "vdW-WF (Wannier functions)",
	11: "vdW-WF (Wannier functions)",
	14: "vdW-QHO-WF",
}

func (A *ABINIT) VdWSettings() (*pif.Condition, error) {
	n, ok, err := A.intVariable("VdWSettings", "vdw_xc")
	if err != nil || !ok || n == 0 {
		return nil, err
	}
	if name, ok := abinitVdW[n]; ok {
		return tagCondition(name), nil
	}
	return tagCondition("vdw_xc=" + strconv.Itoa(n)), nil
}

// Pseudopotentials reads the "psp file is" lines, one per atom type.
func (A *ABINIT) Pseudopotentials() (*pif.Condition, error) {
	lines, err := A.output("Pseudopotentials")
	if err != nil {
		return nil, err
	}
	var names []string
	seen := make(map[string]bool)
	for _, i := range allIndexes(lines, "psp file is") {
		f := strings.Fields(lines[i])
		name := filepath.Base(f[len(f)-1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	return tagCondition(names...), nil
}

func (A *ABINIT) InputFile() (*pif.Condition, error)     { return fileCondition(A.files), nil }
func (A *ABINIT) StructureFile() (*pif.Condition, error) { return nil, nil }
func (A *ABINIT) OutputFile() (*pif.Property, error)     { return fileProperty(A.out), nil }

func (A *ABINIT) isConverged() (bool, error) {
	if A.converged != nil {
		return *A.converged, nil
	}
	relaxed, err := A.isRelaxed()
	if err != nil {
		return false, err
	}
	lines, err := A.output("Converged")
	if err != nil {
		return false, err
	}
	var c bool
	if relaxed {
		c = lastIndex(lines, "gradients are converged") >= 0
	} else {
		for _, i := range allIndexes(lines, "At SCF step") {
			if strings.Contains(lines[i], "converged") {
				c = true
			}
		}
	}
	A.converged = &c
	return c, nil
}

func (A *ABINIT) Converged() (*pif.Property, error) {
	c, err := A.isConverged()
	if err != nil {
		return nil, err
	}
	return pif.NewProperty("", pif.Flag(c)), nil
}

// TotalEnergy reads the last "Etotal=" line, or the etotal of the final echo, in Hartree.
func (A *ABINIT) TotalEnergy() (*pif.Property, error) {
	lines, err := A.output("TotalEnergy")
	if err != nil {
		return nil, err
	}
	if l, ok := lastLine(lines, "Etotal="); ok {
		f := afterEq(l)
		if len(f) == 0 {
			return nil, malformed(abinitName, "TotalEnergy", A.out, "bad Etotal line")
		}
		e, err := parseFloat(f[0])
		if err != nil {
			return nil, malformed(abinitName, "TotalEnergy", A.out, "bad Etotal: %s", err)
		}
		return scalarProperty(e, "Ha"), nil
	}
	_, final, err := A.echo("TotalEnergy")
	if err != nil {
		return nil, err
	}
	if e := numbers(final["etotal"]); len(e) > 0 {
		return scalarProperty(e[0], "Ha"), nil
	}
	return nil, nil
}

func (A *ABINIT) Pressure() (*pif.Property, error) {
	lines, err := A.output("Pressure")
	if err != nil {
		return nil, err
	}
	l, ok := lastLine(lines, "Pressure=")
	if !ok {
		return nil, nil
	}
	i := strings.Index(l, "Pressure=")
	f := strings.Fields(l[i+len("Pressure="):])
	if len(f) < 2 {
		return nil, malformed(abinitName, "Pressure", A.out, "bad pressure line %q", strings.TrimSpace(l))
	}
	p, err := parseFloat(f[0])
	if err != nil {
		return nil, malformed(abinitName, "Pressure", A.out, "bad pressure: %s", err)
	}
	return scalarProperty(p, pif.NormalizeUnit(strings.TrimRight(f[1], "]"))), nil
}

// Stresses reads the last "Cartesian components of stress tensor" block, made of
// "sigma(i j)= value" pairs.
func (A *ABINIT) Stresses() (*pif.Property, error) {
	lines, err := A.output("Stresses")
	if err != nil {
		return nil, err
	}
	i := lastIndex(lines, "Cartesian components of stress tensor")
	if i < 0 {
		return nil, nil
	}
	unit := ""
	if o, c := strings.Index(lines[i], "("), strings.LastIndex(lines[i], ")"); o >= 0 && c > o {
		unit = pif.NormalizeUnit(lines[i][o+1 : c])
	}
	m := [][]float64{make([]float64, 3), make([]float64, 3), make([]float64, 3)}
	found := 0
	for j := i + 1; j < len(lines) && j <= i+3; j++ {
		for _, part := range strings.Split(lines[j], "sigma(")[1:] {
			idx, val, ok := strings.Cut(part, ")=")
			if !ok {
				continue
			}
			ij := strings.Fields(idx)
			f := strings.Fields(val)
			if len(ij) != 2 || len(f) == 0 {
				continue
			}
			r, err1 := strconv.Atoi(ij[0])
			c, err2 := strconv.Atoi(ij[1])
			v, err3 := parseFloat(f[0])
			if err1 != nil || err2 != nil || err3 != nil || r < 1 || r > 3 || c < 1 || c > 3 {
				return nil, malformed(abinitName, "Stresses", A.out, "bad stress element %q", strings.TrimSpace(part))
			}
			m[r-1][c-1], m[c-1][r-1] = v, v
			found++
		}
	}
	if found != 6 {
		return nil, malformed(abinitName, "Stresses", A.out, "%d stress components, 6 expected", found)
	}
	return pif.NewProperty("", pif.Matrix(m, unit)), nil
}

func (A *ABINIT) Forces() (*pif.Property, error) {
	lines, err := A.output("Forces")
	if err != nil {
		return nil, err
	}
	i := lastIndex(lines, "cartesian forces (eV/Angstrom)")
	if i < 0 {
		return nil, nil
	}
	n, err := A.natom("Forces")
	if err != nil {
		return nil, err
	}
	if i+n >= len(lines) {
		return nil, malformed(abinitName, "Forces", A.out, "truncated force block")
	}
	forces := make([][]float64, n)
	for a := 0; a < n; a++ {
		v, err := parseFloats(strings.Fields(lines[i+1+a]), 4)
		if err != nil {
			return nil, malformed(abinitName, "Forces", A.out, "bad force for atom %d: %s", a+1, err)
		}
		forces[a] = v[1:]
	}
	return pif.NewProperty("", pif.Matrix(forces, pif.NormalizeUnit("eV/Angstrom"))), nil
}

func (A *ABINIT) BandGap() (*pif.Property, error)            { return nil, nil }
func (A *ABINIT) DOS() (*pif.Property, error)                { return nil, nil }
func (A *ABINIT) TotalForce() (*pif.Property, error)         { return nil, nil }
func (A *ABINIT) TotalMagnetization() (*pif.Property, error) { return nil, nil }

// outputStructure builds the structure from acell, rprim and xangst (or xred), taken from the
// final echo for relaxations.
func (A *ABINIT) outputStructure(field string) (*structure.Structure, error) {
	pre, final, err := A.echo(field)
	if err != nil {
		return nil, err
	}
	relaxed, err := A.isRelaxed()
	if err != nil {
		return nil, err
	}
	get := func(name string) []string {
		if v, ok := final[name]; relaxed && ok {
			return v
		}
		return pre[name]
	}
	symbols, err := A.symbols(field)
	if err != nil {
		return nil, err
	}
	acellRaw := get("acell")
	acell := numbers(acellRaw)
	if len(acell) == 1 {
		acell = []float64{acell[0], acell[0], acell[0]}
	}
	if len(acell) < 3 {
		return nil, nil
	}
	scale := pif.Bohr2A
	for _, t := range acellRaw {
		if strings.HasPrefix(strings.ToLower(t), "ang") {
			scale = 1
		}
	}
	rprim := numbers(get("rprim"))
	if len(rprim) == 0 {
		rprim = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
	if len(rprim) != 9 {
		return nil, malformed(abinitName, field, A.out, "rprim has %d elements", len(rprim))
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rprim[3*r+c] *= acell[r] * scale
		}
	}
	cell, err := v3.NewMatrix(rprim)
	if err != nil {
		return nil, malformed(abinitName, field, A.out, "%s", err)
	}
	var pos *v3.Matrix
	if x := numbers(get("xangst")); len(x) == 3*len(symbols) {
		pos, err = v3.NewMatrix(x)
	} else if x := numbers(get("xred")); len(x) == 3*len(symbols) {
		pos, err = v3.NewMatrix(x)
		if err == nil {
			pos = pos.ToCartesian(cell)
		}
	} else {
		return nil, malformed(abinitName, field, A.out, "no atomic positions for %d atoms", len(symbols))
	}
	if err != nil {
		return nil, malformed(abinitName, field, A.out, "%s", err)
	}
	s, err := structure.New(symbols, cell, pos)
	if err != nil {
		return nil, malformed(abinitName, field, A.out, "%s", err)
	}
	return s, nil
}

func (A *ABINIT) Positions() (*pif.Property, error) {
	s, err := A.outputStructure("Positions")
	if err != nil {
		return nil, err
	}
	return positionsProperty(s), nil
}

func (A *ABINIT) Density() (*pif.Property, error) {
	s, err := A.outputStructure("Density")
	if err != nil {
		return nil, err
	}
	return densityProperty(abinitName, s)
}
