/*
 * pwscf.go, part of dftpif.
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

const pwscfName = "PWSCF"

// probeLines is the number of lines read from each file when probing.
const probeLines = 64

// PWSCFParser recognizes a Quantum Espresso pw.x input and standard output.
var PWSCFParser = Parser{Code: pwscfName, Probe: probePWSCF, Bind: BindPWSCF}

func isPWSCFOutput(head []string) bool {
	for _, l := range head {
		if strings.Contains(l, "Program PWSCF") {
			return true
		}
	}
	return false
}

func isPWSCFInput(head []string) bool {
	return containsFold(head, "&control")
}

func isDOSX(head []string) bool {
	return len(head) > 0 && strings.Contains(head[0], "E (eV)") && strings.Contains(head[0], "Int dos(E)")
}

func probePWSCF(C *Context) bool {
	return len(C.Matching(probeLines, isPWSCFOutput)) > 0 && len(C.Matching(probeLines, isPWSCFInput)) > 0
}

// PWSCF extracts data from a pw.x input file, its standard output and, optionally,
// a total density of states written by dos.x.
type PWSCF struct {
	ctx       *Context
	in, out   string
	dos       string
	converged *bool
	relaxed   *bool
}

// BindPWSCF binds a PWSCF extractor. More than one input or output file is an error.
func BindPWSCF(C *Context) (Extractor, error) {
	outs := C.Matching(probeLines, isPWSCFOutput)
	ins := C.Matching(probeLines, isPWSCFInput)
	switch {
	case len(outs) != 1:
		return nil, Error{ErrMalformed, pwscfName, "", "expected one output file, found " + strconv.Itoa(len(outs)), []string{"Bind"}, true}
	case len(ins) != 1:
		return nil, Error{ErrMalformed, pwscfName, "", "expected one input file, found " + strconv.Itoa(len(ins)), []string{"Bind"}, true}
	}
	P := &PWSCF{ctx: C, in: ins[0], out: outs[0]}
	if dos := C.Matching(1, isDOSX); len(dos) > 0 {
		P.dos = dos[0]
	}
	C.Input, C.Output = P.in, P.out
	return P, nil
}

func (P *PWSCF) Name() string       { return pwscfName }
func (P *PWSCF) Context() *Context { return P.ctx }

func (P *PWSCF) output(field string) ([]string, error) {
	l, err := P.ctx.Lines(P.out)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "cannot read: %s", err)
	}
	return l, nil
}

func (P *PWSCF) input(field string) ([]string, error) {
	l, err := P.ctx.Lines(P.in)
	if err != nil {
		return nil, malformed(pwscfName, field, P.in, "cannot read: %s", err)
	}
	return l, nil
}

// Version reads the "Program PWSCF v.X" line.
func (P *PWSCF) Version() (string, error) {
	lines, err := P.output("Version")
	if err != nil {
		return "", err
	}
	l, ok := firstLine(lines, "Program PWSCF")
	if ok {
		for _, f := range strings.Fields(l) {
			if strings.HasPrefix(f, "v.") && len(f) > 2 {
				return strings.TrimPrefix(f, "v."), nil
			}
		}
	}
	return "", malformed(pwscfName, "Version", P.out, "no Program PWSCF v.X line")
}

// scalarAfterEq reads "value unit" after the "=" of the last (or first) line containing marker.
func (P *PWSCF) scalarAfterEq(field, marker string, last bool) (float64, string, bool, error) {
	lines, err := P.output(field)
	if err != nil {
		return 0, "", false, err
	}
	var l string
	var ok bool
	if last {
		l, ok = lastLine(lines, marker)
	} else {
		l, ok = firstLine(lines, marker)
	}
	if !ok {
		return 0, "", false, nil
	}
	f := afterEq(l)
	if len(f) == 0 {
		return 0, "", false, malformed(pwscfName, field, P.out, "no value in %q", strings.TrimSpace(l))
	}
	v, err := parseFloat(f[0])
	if err != nil {
		return 0, "", false, malformed(pwscfName, field, P.out, "bad value in %q", strings.TrimSpace(l))
	}
	unit := ""
	if len(f) > 1 {
		unit = f[1]
	}
	return v, unit, true, nil
}

func (P *PWSCF) CutoffEnergy() (*pif.Condition, error) {
	v, u, ok, err := P.scalarAfterEq("CutoffEnergy", "kinetic-energy cutoff", false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, malformed(pwscfName, "CutoffEnergy", P.out, "no kinetic-energy cutoff line")
	}
	return scalarCondition(v, u), nil
}

func (P *PWSCF) xc() (string, error) {
	lines, err := P.output("XCFunctional")
	if err != nil {
		return "", err
	}
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), "exchange-correlation") && strings.Contains(l, "=") {
			return strings.Join(afterEq(l), " "), nil
		}
	}
	return "", nil
}

func (P *PWSCF) XCFunctional() (*pif.Condition, error) {
	xc, err := P.xc()
	if err != nil || xc == "" {
		return nil, err
	}
	return tagCondition(xc), nil
}

func (P *PWSCF) isRelaxed() (bool, error) {
	if P.relaxed != nil {
		return *P.relaxed, nil
	}
	lines, err := P.output("Relaxed")
	if err != nil {
		return false, err
	}
	r := firstIndex(lines, "Geometry Optimization", 0) >= 0
	P.relaxed = &r
	return r, nil
}

func (P *PWSCF) Relaxed() (*pif.Condition, error) {
	r, err := P.isRelaxed()
	if err != nil {
		return nil, err
	}
	return flagCondition(r), nil
}

func (P *PWSCF) natoms(field string) (int, error) {
	lines, err := P.output(field)
	if err != nil {
		return 0, err
	}
	l, ok := firstLine(lines, "number of atoms/cell")
	if !ok {
		return 0, malformed(pwscfName, field, P.out, "no number of atoms/cell line")
	}
	n, err := intField(l, 4)
	if err != nil {
		return 0, malformed(pwscfName, field, P.out, "bad number of atoms: %s", err)
	}
	return n, nil
}

// kpoints reads the K_POINTS card of the input.
func (P *PWSCF) kpoints() (KPoints, bool, error) {
	lines, err := P.input("KPPRA")
	if err != nil {
		return KPoints{}, false, err
	}
	for i, l := range lines {
		f := strings.Fields(l)
		if len(f) == 0 || strings.ToUpper(f[0]) != "K_POINTS" {
			continue
		}
		style := "tpiba"
		if len(f) > 1 {
			style = strings.ToLower(strings.Trim(strings.Join(f[1:], ""), "{}()"))
		}
		var k KPoints
		switch {
		case style == "gamma":
			k.Gamma = true
		case style == "automatic":
			if i+1 >= len(lines) {
				return k, false, malformed(pwscfName, "KPPRA", P.in, "K_POINTS automatic without grid")
			}
			for j := 0; j < 3; j++ {
				if k.Grid[j], err = intField(lines[i+1], j); err != nil {
					return k, false, malformed(pwscfName, "KPPRA", P.in, "bad k-point grid: %s", err)
				}
			}
		default:
			if i+1 >= len(lines) {
				return k, false, malformed(pwscfName, "KPPRA", P.in, "K_POINTS without count")
			}
			n, err := intField(lines[i+1], 0)
			if err != nil || i+1+n >= len(lines) {
				return k, false, malformed(pwscfName, "KPPRA", P.in, "bad k-point list")
			}
			k.Weights = make([]float64, n)
			for j := 0; j < n; j++ {
				if k.Weights[j], err = floatField(lines[i+2+j], 3); err != nil {
					return k, false, malformed(pwscfName, "KPPRA", P.in, "bad k-point weight: %s", err)
				}
			}
		}
		return k, true, nil
	}
	return KPoints{}, false, nil
}

func (P *PWSCF) KPPRA() (*pif.Condition, error) {
	k, ok, err := P.kpoints()
	if err != nil || !ok {
		return nil, err
	}
	n, err := P.natoms("KPPRA")
	if err != nil {
		return nil, err
	}
	return scalarCondition(float64(KPPRA(k, n)), ""), nil
}

func (P *PWSCF) SpinOrbit() (*pif.Condition, error) {
	lines, err := P.output("SpinOrbit")
	if err != nil {
		return nil, err
	}
	return flagCondition(firstIndex(lines, "with spin-orbit", 0) >= 0), nil
}

// Pseudopotentials returns the base names of the pseudopotential files, one per atomic type.
func (P *PWSCF) Pseudopotentials() (*pif.Condition, error) {
	lines, err := P.output("Pseudopotentials")
	if err != nil {
		return nil, err
	}
	l, ok := firstLine(lines, "number of atomic types")
	if !ok {
		return nil, nil
	}
	ntypes, err := intField(l, 5)
	if err != nil {
		return nil, malformed(pwscfName, "Pseudopotentials", P.out, "bad number of atomic types: %s", err)
	}
	var names []string
	for _, i := range allIndexes(lines, "PseudoPot. #") {
		if len(names) == ntypes || i+1 >= len(lines) {
			break
		}
		names = append(names, filepath.Base(strings.TrimSpace(lines[i+1])))
	}
	if len(names) == 0 {
		return nil, nil
	}
	return tagCondition(names...), nil
}

// USettings reads the table after the "LDA+U calculation" (or "DFT+U calculation") line.
func (P *PWSCF) USettings() (*pif.Condition, error) {
	lines, err := P.output("USettings")
	if err != nil {
		return nil, err
	}
	i := firstIndex(lines, "LDA+U calculation", 0)
	if i < 0 {
		i = firstIndex(lines, "DFT+U calculation", 0)
	}
	if i < 0 {
		return nil, nil
	}
	typ, _ := field(lines[i], 0)
	var species []uSpecies
	for j := i + 1; j < len(lines) && j <= i+15; j++ {
		f := strings.Fields(lines[j])
		if len(f) != 6 {
			continue
		}
		l, err := strconv.Atoi(f[1])
		if err != nil {
			continue
		}
		u, err1 := parseFloat(f[2])
		jv, err2 := parseFloat(f[4])
		if err1 != nil || err2 != nil {
			return nil, malformed(pwscfName, "USettings", P.out, "bad DFT+U row %q", strings.TrimSpace(lines[j]))
		}
		species = append(species, uSpecies{f[0], l, u, jv})
	}
	return uTags(typ, species), nil
}

var pwscfVdW = map[string]string{
	"xdm":                  "Becke-Johnson XDM",
	"ts":                   "Tkatchenko-Scheffler",
	"ts-vdw":               "Tkatchenko-Scheffler",
	"tkatchenko-scheffler": "Tkatchenko-Scheffler",
	"grimme-d2":            "Grimme D2",
	"dft-d":                "Grimme D2",
	"grimme-d3":            "Grimme D3",
	"dft-d3":               "Grimme D3",
	"mbd":                  "Many-body dispersion",
	"many-body-dispersion": "Many-body dispersion",
	"mbd_vdw":              "Many-body dispersion",
}

// VdWSettings uses the functional if it is a vdW-DF one, or the vdw_corr input variable.
func (P *PWSCF) VdWSettings() (*pif.Condition, error) {
	xc, err := P.xc()
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(xc), "vdw") {
		return tagCondition(xc), nil
	}
	lines, err := P.input("VdWSettings")
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		k, v, ok := strings.Cut(l, "=")
		if !ok || strings.ToLower(strings.TrimSpace(k)) != "vdw_corr" {
			continue
		}
		v = strings.ToLower(strings.Trim(strings.TrimSpace(v), "'\","))
		if name, ok := pwscfVdW[v]; ok {
			return tagCondition(name), nil
		}
		return nil, nil
	}
	return nil, nil
}

func (P *PWSCF) InputFile() (*pif.Condition, error)     { return fileCondition(P.in), nil }
func (P *PWSCF) StructureFile() (*pif.Condition, error) { return nil, nil }
func (P *PWSCF) OutputFile() (*pif.Property, error)     { return fileProperty(P.out), nil }

func (P *PWSCF) isConverged() (bool, error) {
	if P.converged != nil {
		return *P.converged, nil
	}
	relaxed, err := P.isRelaxed()
	if err != nil {
		return false, err
	}
	lines, err := P.output("Converged")
	if err != nil {
		return false, err
	}
	var c bool
	if relaxed {
		for _, l := range lines {
			if strings.Contains(l, "End of") && strings.Contains(l, "Geometry Optimization") {
				c = true
				break
			}
		}
	} else {
		c = firstIndex(lines, "convergence has been achieved", 0) >= 0
	}
	P.converged = &c
	return c, nil
}

func (P *PWSCF) Converged() (*pif.Property, error) {
	c, err := P.isConverged()
	if err != nil {
		return nil, err
	}
	return pif.NewProperty("", pif.Flag(c)), nil
}

// TotalEnergy reads the last "!    total energy" line.
func (P *PWSCF) TotalEnergy() (*pif.Property, error) {
	lines, err := P.output("TotalEnergy")
	if err != nil {
		return nil, err
	}
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		if !strings.HasPrefix(l, "!") || !strings.Contains(l, "total energy") {
			continue
		}
		f := afterEq(l)
		if len(f) < 2 {
			break
		}
		e, err := parseFloat(f[0])
		if err != nil {
			return nil, malformed(pwscfName, "TotalEnergy", P.out, "bad total energy: %s", err)
		}
		return scalarProperty(e, f[1]), nil
	}
	return nil, nil
}

// Pressure reads the P= value of the last stress block (kbar).
func (P *PWSCF) Pressure() (*pif.Property, error) {
	lines, err := P.output("Pressure")
	if err != nil {
		return nil, err
	}
	l, ok := lastLine(lines, "total   stress")
	if !ok {
		return nil, nil
	}
	v, err := floatsAfter(l, "P=", 1)
	if err != nil {
		return nil, malformed(pwscfName, "Pressure", P.out, "%s", err)
	}
	return scalarProperty(v[0], "kbar"), nil
}

// Stresses reads the kbar columns of the last stress block.
func (P *PWSCF) Stresses() (*pif.Property, error) {
	lines, err := P.output("Stresses")
	if err != nil {
		return nil, err
	}
	i := lastIndex(lines, "total   stress")
	if i < 0 {
		return nil, nil
	}
	if i+3 >= len(lines) {
		return nil, malformed(pwscfName, "Stresses", P.out, "truncated stress block")
	}
	m := make([][]float64, 3)
	for r := 0; r < 3; r++ {
		v, err := parseFloats(strings.Fields(lines[i+1+r]), 6)
		if err != nil {
			return nil, malformed(pwscfName, "Stresses", P.out, "bad stress row: %s", err)
		}
		m[r] = v[3:]
	}
	return pif.NewProperty("", pif.Matrix(m, "kbar")), nil
}

// Forces reads the total forces of the last force block. Later lines of the block
// (per-contribution forces) are ignored.
func (P *PWSCF) Forces() (*pif.Property, error) {
	lines, err := P.output("Forces")
	if err != nil {
		return nil, err
	}
	i := lastIndex(lines, "Forces acting on atoms")
	if i < 0 {
		return nil, nil
	}
	n, err := P.natoms("Forces")
	if err != nil {
		return nil, err
	}
	unit := "Ry/au"
	if o, c := strings.LastIndex(lines[i], ","), strings.LastIndex(lines[i], ")"); o >= 0 && c > o {
		unit = strings.TrimSpace(lines[i][o+1 : c])
	}
	forces := make([][]float64, 0, n)
	for j := i + 1; j < len(lines) && len(forces) < n; j++ {
		if !strings.Contains(lines[j], "force =") {
			continue
		}
		v, err := floatsAfter(lines[j], "force =", 3)
		if err != nil {
			return nil, malformed(pwscfName, "Forces", P.out, "%s", err)
		}
		forces = append(forces, v)
	}
	if len(forces) != n {
		return nil, malformed(pwscfName, "Forces", P.out, "%d forces for %d atoms", len(forces), n)
	}
	return pif.NewProperty("", pif.Matrix(forces, pif.NormalizeUnit(unit))), nil
}

func (P *PWSCF) TotalForce() (*pif.Property, error) {
	lines, err := P.output("TotalForce")
	if err != nil {
		return nil, err
	}
	l, ok := lastLine(lines, "Total force =")
	if !ok {
		return nil, nil
	}
	v, err := floatField(l, 3)
	if err != nil {
		return nil, malformed(pwscfName, "TotalForce", P.out, "%s", err)
	}
	return scalarProperty(v, "Ry/bohr"), nil
}

func (P *PWSCF) TotalMagnetization() (*pif.Property, error) {
	v, u, ok, err := P.scalarAfterEq("TotalMagnetization", "total magnetization", true)
	if err != nil || !ok {
		return nil, err
	}
	if u == "Bohr" {
		u = "Bohr magneton/cell"
	}
	return scalarProperty(v, u), nil
}

// fermi returns the Fermi energy, or the highest occupied level for fixed occupations.
func (P *PWSCF) fermi(field string) (float64, error) {
	lines, err := P.output(field)
	if err != nil {
		return 0, err
	}
	if l, ok := lastLine(lines, "the Fermi energy is"); ok {
		v, err := floatField(l, 4)
		if err != nil {
			return 0, malformed(pwscfName, field, P.out, "bad Fermi energy: %s", err)
		}
		return v, nil
	}
	if l, ok := lastLine(lines, "highest occupied"); ok {
		v, err := floatsAfter(l, ":", 1)
		if err != nil {
			return 0, malformed(pwscfName, field, P.out, "bad highest occupied level: %s", err)
		}
		return v[0], nil
	}
	return 0, malformed(pwscfName, field, P.out, "no Fermi energy in the output")
}

// dosData reads the dos.x file. With spin, up and down densities are summed.
func (P *PWSCF) dosData(field string) (energy, dos []float64, err error) {
	lines, err := P.ctx.Lines(P.dos)
	if err != nil || len(lines) < 2 {
		return nil, nil, malformed(pwscfName, field, P.dos, "unreadable or empty DOS file")
	}
	for _, l := range lines[1:] {
		f := strings.Fields(l)
		if len(f) == 0 || strings.HasPrefix(f[0], "#") {
			continue
		}
		v, err := parseFloats(f, len(f))
		if err != nil || len(v) < 3 {
			return nil, nil, malformed(pwscfName, field, P.dos, "bad DOS line %q", strings.TrimSpace(l))
		}
		d := 0.0
		for _, x := range v[1 : len(v)-1] {
			d += x
		}
		energy = append(energy, v[0])
		dos = append(dos, d)
	}
	return energy, dos, nil
}

func (P *PWSCF) DOS() (*pif.Property, error) {
	if P.dos == "" {
		return nil, nil
	}
	energy, dos, err := P.dosData("DOS")
	if err != nil {
		return nil, err
	}
	ef, err := P.fermi("DOS")
	if err != nil {
		return nil, err
	}
	for i := range energy {
		energy[i] -= ef
	}
	return dosProperty(energy, dos), nil
}

func (P *PWSCF) BandGap() (*pif.Property, error) {
	if P.dos == "" {
		return nil, nil
	}
	energy, dos, err := P.dosData("BandGap")
	if err != nil {
		return nil, err
	}
	ef, err := P.fermi("BandGap")
	if err != nil {
		return nil, err
	}
	gap, err := BandGapFromDOS(energy, dos, ef)
	if err != nil {
		return nil, algorithmFailure(pwscfName, "BandGap", P.dos, "%s", err)
	}
	return scalarProperty(gap, pif.EV), nil
}

// energyTerm reads one of the contributions to the total energy.
func (P *PWSCF) energyTerm(field, marker string) (*pif.Property, error) {
	v, u, ok, err := P.scalarAfterEq(field, marker, true)
	if err != nil || !ok {
		return nil, err
	}
	return scalarProperty(v, u), nil
}

// ExtraResults returns the decomposition of the total energy.
func (P *PWSCF) ExtraResults() []ResultField {
	term := func(field, marker string) func(Extractor) (*pif.Property, error) {
		return func(Extractor) (*pif.Property, error) { return P.energyTerm(field, marker) }
	}
	return []ResultField{
		{"One-electron energy contribution", pif.ScalarKind, true, term("OneElectron", "one-electron contribution")},
		{"Hartree energy contribution", pif.ScalarKind, true, term("Hartree", "hartree contribution")},
		{"Exchange-correlation energy contribution", pif.ScalarKind, true, term("ExchangeCorrelation", "xc contribution")},
		{"Ewald energy contribution", pif.ScalarKind, true, term("Ewald", "ewald contribution")},
	}
}

func (P *PWSCF) Composition() (string, error) {
	s, err := P.outputStructure("Composition")
	if err != nil {
		return "", err
	}
	return s.Formula(), nil
}

func (P *PWSCF) Positions() (*pif.Property, error) {
	s, err := P.outputStructure("Positions")
	if err != nil {
		return nil, err
	}
	return positionsProperty(s), nil
}

func (P *PWSCF) Density() (*pif.Property, error) {
	s, err := P.outputStructure("Density")
	if err != nil {
		return nil, err
	}
	return densityProperty(pwscfName, s)
}

// outputStructure returns the initial structure for static runs and the last
// printed one for relaxations.
func (P *PWSCF) outputStructure(field string) (*structure.Structure, error) {
	lines, err := P.output(field)
	if err != nil {
		return nil, err
	}
	n, err := P.natoms(field)
	if err != nil {
		return nil, err
	}
	l, ok := firstLine(lines, "lattice parameter (alat)")
	if !ok {
		return nil, malformed(pwscfName, field, P.out, "no lattice parameter line")
	}
	alat, err := floatField(l, 4)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "bad lattice parameter: %s", err)
	}
	alat *= pif.Bohr2A
	cell, err := P.initialCell(lines, alat, field)
	if err != nil {
		return nil, err
	}
	relaxed, err := P.isRelaxed()
	if err != nil {
		return nil, err
	}
	if relaxed && lastIndex(lines, "ATOMIC_POSITIONS") >= 0 {
		return P.finalStructure(lines, n, alat, cell, field)
	}
	i := firstIndex(lines, "site n.", 0)
	if i < 0 || i+n >= len(lines) {
		return nil, malformed(pwscfName, field, P.out, "no atomic positions block")
	}
	symbols := make([]string, n)
	data := make([]float64, 0, 3*n)
	for a := 0; a < n; a++ {
		line := lines[i+1+a]
		if f := strings.Fields(line); len(f) > 1 {
			symbols[a] = structure.CleanSymbol(f[1])
		}
		v, err := floatsAfter(line, "= (", 3)
		if err != nil {
			return nil, malformed(pwscfName, field, P.out, "bad position for atom %d: %s", a+1, err)
		}
		data = append(data, v...)
	}
	pos, err := v3.NewMatrix(data)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "%s", err)
	}
	pos.Scale(alat)
	s, err := structure.New(symbols, cell, pos)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "%s", err)
	}
	return s, nil
}

func (P *PWSCF) initialCell(lines []string, alat float64, field string) (*v3.Matrix, error) {
	i := firstIndex(lines, "crystal axes:", 0)
	if i < 0 || i+3 >= len(lines) {
		return nil, malformed(pwscfName, field, P.out, "no crystal axes block")
	}
	data := make([]float64, 0, 9)
	for r := 1; r <= 3; r++ {
		v, err := floatsAfter(lines[i+r], "= (", 3)
		if err != nil {
			return nil, malformed(pwscfName, field, P.out, "bad crystal axis: %s", err)
		}
		data = append(data, v...)
	}
	cell, err := v3.NewMatrix(data)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "%s", err)
	}
	cell.Scale(alat)
	return cell, nil
}

// cardUnit returns the unit option of a card line, i.e. "crystal" for
// "ATOMIC_POSITIONS (crystal)", and the alat value for "CELL_PARAMETERS (alat= 10.2)".
func cardUnit(line string) (string, float64) {
	f := strings.Fields(line)
	if len(f) < 2 {
		return "", 0
	}
	opt := strings.ToLower(strings.Trim(strings.Join(f[1:], " "), "(){} "))
	if strings.HasPrefix(opt, "alat") {
		if _, v, ok := strings.Cut(opt, "="); ok {
			a, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err == nil {
				return "alat", a
			}
		}
		return "alat", 0
	}
	return opt, 0
}

// finalStructure reads the last CELL_PARAMETERS and ATOMIC_POSITIONS cards printed
// during a relaxation. Without CELL_PARAMETERS the initial cell is kept.
func (P *PWSCF) finalStructure(lines []string, n int, alat float64, cell *v3.Matrix, field string) (*structure.Structure, error) {
	if c := lastIndex(lines, "CELL_PARAMETERS"); c >= 0 && c+3 < len(lines) {
		unit, a := cardUnit(lines[c])
		scale := alat
		switch unit {
		case "bohr":
			scale = pif.Bohr2A
		case "angstrom":
			scale = 1
		case "alat":
			if a > 0 {
				scale = a * pif.Bohr2A
			}
		}
		data := make([]float64, 0, 9)
		for r := 1; r <= 3; r++ {
			v, err := parseFloats(strings.Fields(lines[c+r]), 3)
			if err != nil {
				return nil, malformed(pwscfName, field, P.out, "bad cell vector: %s", err)
			}
			data = append(data, v...)
		}
		nc, err := v3.NewMatrix(data)
		if err != nil {
			return nil, malformed(pwscfName, field, P.out, "%s", err)
		}
		nc.Scale(scale)
		cell = nc
		if unit == "alat" && a > 0 {
			alat = a * pif.Bohr2A
		}
	}
	p := lastIndex(lines, "ATOMIC_POSITIONS")
	if p+n >= len(lines) {
		return nil, malformed(pwscfName, field, P.out, "truncated final coordinates")
	}
	unit, _ := cardUnit(lines[p])
	symbols := make([]string, n)
	data := make([]float64, 0, 3*n)
	for a := 0; a < n; a++ {
		f := strings.Fields(lines[p+1+a])
		if len(f) < 4 {
			return nil, malformed(pwscfName, field, P.out, "bad final position for atom %d", a+1)
		}
		symbols[a] = structure.CleanSymbol(f[0])
		v, err := parseFloats(f[1:], 3)
		if err != nil {
			return nil, malformed(pwscfName, field, P.out, "bad final position for atom %d: %s", a+1, err)
		}
		data = append(data, v...)
	}
	pos, err := v3.NewMatrix(data)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "%s", err)
	}
	switch unit {
	case "bohr":
		pos.Scale(pif.Bohr2A)
	case "angstrom":
	case "crystal":
		pos = pos.ToCartesian(cell)
	default:
		pos.Scale(alat)
	}
	s, err := structure.New(symbols, cell, pos)
	if err != nil {
		return nil, malformed(pwscfName, field, P.out, "%s", err)
	}
	return s, nil
}
