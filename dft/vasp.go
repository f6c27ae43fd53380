/*
 * vasp.go, part of dftpif.
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
	"strconv"
	"strings"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/structure"
)

const vaspName = "VASP"

// VASPParser recognizes a directory with an INCAR and an OUTCAR.
var VASPParser = Parser{Code: vaspName, Probe: probeVASP, Bind: BindVASP}

func probeVASP(C *Context) bool {
	if len(C.ByName("INCAR")) > 0 {
		return true
	}
	for _, f := range C.ByName("OUTCAR") {
		if head := C.Head(f, 1); len(head) > 0 && strings.HasPrefix(strings.TrimSpace(head[0]), "vasp.") {
			return true
		}
	}
	return false
}

// VASP extracts data from the INCAR, OUTCAR, POSCAR, CONTCAR, KPOINTS and DOSCAR files of a VASP run.
// Only the OUTCAR is required.
type VASP struct {
	ctx                            *Context
	incar, outcar, poscar, contcar string
	kpoints, doscar                string
	converged                      *bool
	relaxed                        *bool
}

// BindVASP binds a VASP extractor to the files in C.
func BindVASP(C *Context) (Extractor, error) {
	V := &VASP{ctx: C}
	var err error
	if V.outcar, err = single(C, vaspName, "OUTCAR", true); err != nil {
		return nil, err
	}
	if V.incar, err = single(C, vaspName, "INCAR", false); err != nil {
		return nil, err
	}
	for _, o := range []struct {
		name string
		dst  *string
	}{{"POSCAR", &V.poscar}, {"CONTCAR", &V.contcar}, {"KPOINTS", &V.kpoints}, {"DOSCAR", &V.doscar}} {
		if *o.dst, err = single(C, vaspName, o.name, false); err != nil {
			return nil, err
		}
	}
	C.Input, C.Output = V.incar, V.outcar
	return V, nil
}

// single returns the only file called name in C. More than one is an error, and so is none if required.
func single(C *Context, program, name string, required bool) (string, error) {
	f := C.ByName(name)
	switch {
	case len(f) > 1:
		return "", Error{ErrMalformed, program, "", "more than one " + name + " file: " + strings.Join(f, ", "), []string{"Bind"}, true}
	case len(f) == 0 && required:
		return "", Error{ErrMalformed, program, "", "no " + name + " file", []string{"Bind"}, true}
	case len(f) == 0:
		return "", nil
	}
	return f[0], nil
}

func (V *VASP) Name() string       { return vaspName }
func (V *VASP) Context() *Context { return V.ctx }

func (V *VASP) out(field string) ([]string, error) {
	l, err := V.ctx.Lines(V.outcar)
	if err != nil {
		return nil, malformed(vaspName, field, V.outcar, "cannot read: %s", err)
	}
	return l, nil
}

func (V *VASP) incarTags(field string) (map[string]string, error) {
	if V.incar == "" {
		return map[string]string{}, nil
	}
	l, err := V.ctx.Lines(V.incar)
	if err != nil {
		return nil, malformed(vaspName, field, V.incar, "cannot read: %s", err)
	}
	return ParseINCAR(l), nil
}

// Version returns the VASP version from the first lines of the OUTCAR, i.e. "5.3.2" for "vasp.5.3.2".
func (V *VASP) Version() (string, error) {
	lines, err := V.out("Version")
	if err != nil {
		return "", err
	}
	for i := 0; i < len(lines) && i < 5; i++ {
		for _, f := range strings.Fields(lines[i]) {
			if strings.HasPrefix(f, "vasp.") && len(f) > len("vasp.") {
				return strings.TrimPrefix(f, "vasp."), nil
			}
		}
	}
	return "", malformed(vaspName, "Version", V.outcar, "no vasp.X version marker in the first lines")
}

func (V *VASP) CutoffEnergy() (*pif.Condition, error) {
	lines, err := V.out("CutoffEnergy")
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) >= 4 && f[0] == "ENCUT" && f[1] == "=" {
			v, err := parseFloat(f[2])
			if err != nil {
				return nil, malformed(vaspName, "CutoffEnergy", V.outcar, "bad ENCUT line: %s", err)
			}
			return scalarCondition(v, f[3]), nil
		}
	}
	return nil, malformed(vaspName, "CutoffEnergy", V.outcar, "no ENCUT line")
}

// potcars returns the fields of the distinct POTCAR: lines, in order.
func (V *VASP) potcars(field string) ([][]string, error) {
	lines, err := V.out(field)
	if err != nil {
		return nil, err
	}
	var ret [][]string
	seen := make(map[string]bool)
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) < 3 || f[0] != "POTCAR:" {
			continue
		}
		key := strings.Join(f[1:], " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		ret = append(ret, f)
	}
	return ret, nil
}

// XCFunctional returns the POTCAR family (e.g. PAW_PBE), which determines the functional.
func (V *VASP) XCFunctional() (*pif.Condition, error) {
	p, err := V.potcars("XCFunctional")
	if err != nil || len(p) == 0 {
		return nil, err
	}
	return tagCondition(p[0][1]), nil
}

func (V *VASP) Pseudopotentials() (*pif.Condition, error) {
	p, err := V.potcars("Pseudopotentials")
	if err != nil || len(p) == 0 {
		return nil, err
	}
	names := make([]string, len(p))
	for i, f := range p {
		names[i] = f[2]
	}
	return tagCondition(names...), nil
}

// species returns the element symbols in POTCAR order.
func (V *VASP) species() []string {
	p, err := V.potcars("Species")
	if err != nil {
		return nil
	}
	ret := make([]string, 0, len(p))
	for _, f := range p {
		ret = append(ret, structure.CleanSymbol(f[2]))
	}
	return ret
}

// outcarInt returns the integer after "key =" in the first OUTCAR line that has it.
func (V *VASP) outcarInt(field, key string) (int, bool, error) {
	lines, err := V.out(field)
	if err != nil {
		return 0, false, err
	}
	for _, l := range lines {
		f := strings.Fields(l)
		for i := 0; i+2 < len(f); i++ {
			if f[i] == key && f[i+1] == "=" {
				n, err := strconv.Atoi(strings.TrimRight(f[i+2], ";"))
				if err != nil {
					return 0, false, malformed(vaspName, field, V.outcar, "bad %s value %q", key, f[i+2])
				}
				return n, true, nil
			}
		}
	}
	return 0, false, nil
}

func (V *VASP) isRelaxed() (bool, error) {
	if V.relaxed != nil {
		return *V.relaxed, nil
	}
	nsw, ok, err := V.outcarInt("Relaxed", "NSW")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, malformed(vaspName, "Relaxed", V.outcar, "no NSW line")
	}
	ibrion, _, err := V.outcarInt("Relaxed", "IBRION")
	if err != nil {
		return false, err
	}
	r := nsw > 0 && ibrion >= 1 && ibrion <= 3
	V.relaxed = &r
	return r, nil
}

func (V *VASP) Relaxed() (*pif.Condition, error) {
	r, err := V.isRelaxed()
	if err != nil {
		return nil, err
	}
	return flagCondition(r), nil
}

// KPPRA uses the irreducible k-points and weights reported in the OUTCAR, or the
// KPOINTS file if the OUTCAR does not list them.
func (V *VASP) KPPRA() (*pif.Condition, error) {
	nions, ok, err := V.outcarInt("KPPRA", "NIONS")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, malformed(vaspName, "KPPRA", V.outcar, "no NIONS line")
	}
	k, found, err := V.ibzkpt()
	if err != nil {
		return nil, err
	}
	if !found {
		k, found, err = V.kpointsFile()
		if err != nil || !found {
			return nil, err
		}
	}
	return scalarCondition(float64(KPPRA(k, nions)), ""), nil
}

func (V *VASP) ibzkpt() (KPoints, bool, error) {
	lines, err := V.out("KPPRA")
	if err != nil {
		return KPoints{}, false, err
	}
	i := firstIndex(lines, "irreducible k-points", 0)
	if i < 0 {
		return KPoints{}, false, nil
	}
	n, err := intField(lines[i], 1)
	if err != nil {
		return KPoints{}, false, malformed(vaspName, "KPPRA", V.outcar, "bad irreducible k-point count: %s", err)
	}
	j := firstIndex(lines, "Following reciprocal coordinates", i)
	if j < 0 || j+1+n >= len(lines) {
		return KPoints{}, false, nil
	}
	k := KPoints{Weights: make([]float64, n)}
	for p := 0; p < n; p++ {
		w, err := floatField(lines[j+2+p], 3)
		if err != nil {
			return KPoints{}, false, malformed(vaspName, "KPPRA", V.outcar, "bad k-point weight: %s", err)
		}
		k.Weights[p] = w
	}
	return k, true, nil
}

func (V *VASP) kpointsFile() (KPoints, bool, error) {
	if V.kpoints == "" {
		return KPoints{}, false, nil
	}
	lines, err := V.ctx.Lines(V.kpoints)
	if err != nil || len(lines) < 4 {
		return KPoints{}, false, malformed(vaspName, "KPPRA", V.kpoints, "unreadable KPOINTS file")
	}
	n, err := intField(lines[1], 0)
	if err != nil {
		return KPoints{}, false, malformed(vaspName, "KPPRA", V.kpoints, "bad k-point count: %s", err)
	}
	style := strings.ToLower(strings.TrimSpace(lines[2]))
	if n == 0 {
		if strings.HasPrefix(style, "a") {
			return KPoints{}, false, nil //fully automatic, the grid depends on the cell.
		}
		var k KPoints
		for i := 0; i < 3; i++ {
			if k.Grid[i], err = intField(lines[3], i); err != nil {
				return KPoints{}, false, malformed(vaspName, "KPPRA", V.kpoints, "bad grid: %s", err)
			}
		}
		if k.Grid == [3]int{1, 1, 1} {
			k.Gamma = true
		}
		return k, true, nil
	}
	if len(lines) < 3+n {
		return KPoints{}, false, malformed(vaspName, "KPPRA", V.kpoints, "%d k-points announced, file too short", n)
	}
	k := KPoints{Weights: make([]float64, n)}
	for i := 0; i < n; i++ {
		if k.Weights[i], err = floatField(lines[3+i], 3); err != nil {
			return KPoints{}, false, malformed(vaspName, "KPPRA", V.kpoints, "bad weight: %s", err)
		}
	}
	return k, true, nil
}

func (V *VASP) SpinOrbit() (*pif.Condition, error) {
	lines, err := V.out("SpinOrbit")
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) >= 3 && f[0] == "LSORBIT" && f[1] == "=" {
			return flagCondition(incarBool(f[2])), nil
		}
	}
	return nil, nil
}

// USettings reads the LDAU* lines of the OUTCAR. Species with L=-1 have no U.
func (V *VASP) USettings() (*pif.Condition, error) {
	lines, err := V.out("USettings")
	if err != nil {
		return nil, err
	}
	tl, ok := firstLine(lines, "LDAUTYPE")
	if !ok {
		return nil, nil
	}
	typ := afterEq(tl)
	if len(typ) == 0 {
		return nil, malformed(vaspName, "USettings", V.outcar, "no value for LDAUTYPE")
	}
	var vals [3][]string
	for i, key := range []string{"LDAUL", "LDAUU", "LDAUJ"} {
		l, ok := firstLine(lines, key+" =")
		if !ok {
			return nil, malformed(vaspName, "USettings", V.outcar, "DFT+U run without %s line", key)
		}
		vals[i] = afterEq(l)
	}
	species := V.species()
	var ret []uSpecies
	for i, sym := range species {
		if i >= len(vals[0]) || i >= len(vals[1]) || i >= len(vals[2]) {
			return nil, malformed(vaspName, "USettings", V.outcar, "fewer LDAU values than species")
		}
		l, err := strconv.Atoi(vals[0][i])
		if err != nil {
			return nil, malformed(vaspName, "USettings", V.outcar, "bad LDAUL: %s", err)
		}
		if l < 0 {
			continue
		}
		u, err1 := parseFloat(vals[1][i])
		j, err2 := parseFloat(vals[2][i])
		if err1 != nil || err2 != nil {
			return nil, malformed(vaspName, "USettings", V.outcar, "bad LDAUU/LDAUJ values")
		}
		ret = append(ret, uSpecies{sym, l, u, j})
	}
	return uTags(typ[0], ret), nil
}

var vaspIVDW = map[string]string{
	"1":   "Grimme D2",
	"10":  "Grimme D2",
	"11":  "Grimme D3",
	"12":  "Grimme D3-BJ",
	"2":   "Tkatchenko-Scheffler",
	"20":  "Tkatchenko-Scheffler",
	"21":  "Tkatchenko-Scheffler with iterative Hirshfeld partitioning",
	"202": "Many-body dispersion",
	"4":   "dDsC",
}

var vaspVdWGGA = map[string]string{
	"RE": "vdW-DF",
	"OR": "optPBE-vdW",
	"BO": "optB88-vdW",
	"MK": "optB86b-vdW",
	"ML": "vdW-DF2",
}

// VdWSettings reads the IVDW and LUSE_VDW tags of the INCAR.
func (V *VASP) VdWSettings() (*pif.Condition, error) {
	tags, err := V.incarTags("VdWSettings")
	if err != nil {
		return nil, err
	}
	if iv, ok := tags["IVDW"]; ok && iv != "0" {
		if name, ok := vaspIVDW[iv]; ok {
			return tagCondition(name), nil
		}
		return tagCondition("IVDW=" + iv), nil
	}
	if incarBool(tags["LUSE_VDW"]) {
		if name, ok := vaspVdWGGA[strings.ToUpper(tags["GGA"])]; ok {
			return tagCondition(name), nil
		}
		return tagCondition("vdW-DF"), nil
	}
	return nil, nil
}

func (V *VASP) InputFile() (*pif.Condition, error) {
	return fileCondition(V.incar), nil
}

func (V *VASP) StructureFile() (*pif.Condition, error) {
	return fileCondition(V.poscar), nil
}

func (V *VASP) OutputFile() (*pif.Property, error) {
	return fileProperty(V.outcar), nil
}

// ValidationFiles returns the files the quality report service needs, or nil
// if there is no INCAR.
func (V *VASP) ValidationFiles() map[string]string {
	if V.incar == "" {
		return nil
	}
	return map[string]string{"OUTCAR": V.outcar, "INCAR": V.incar}
}

func (V *VASP) isConverged() (bool, error) {
	if V.converged != nil {
		return *V.converged, nil
	}
	relaxed, err := V.isRelaxed()
	if err != nil {
		return false, err
	}
	lines, err := V.out("Converged")
	if err != nil {
		return false, err
	}
	var c bool
	if relaxed {
		c = lastIndex(lines, "reached required accuracy") >= 0
	} else {
		c, err = V.electronicConverged(lines)
		if err != nil {
			return false, err
		}
	}
	V.converged = &c
	return c, nil
}

// electronicConverged compares the electronic steps in the last ionic step with NELM.
func (V *VASP) electronicConverged(lines []string) (bool, error) {
	nelm, ok, err := V.outcarInt("Converged", "NELM")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, malformed(vaspName, "Converged", V.outcar, "no NELM line")
	}
	l, ok := lastLine(lines, "Iteration")
	if !ok {
		return false, nil
	}
	open, closing := strings.Index(l, "("), strings.Index(l, ")")
	if open < 0 || closing < open {
		return false, malformed(vaspName, "Converged", V.outcar, "bad iteration line %q", strings.TrimSpace(l))
	}
	n, err := strconv.Atoi(strings.TrimSpace(l[open+1 : closing]))
	if err != nil {
		return false, malformed(vaspName, "Converged", V.outcar, "bad iteration count: %s", err)
	}
	return n < nelm, nil
}

// Converged is memoised: the OUTCAR is only scanned once.
func (V *VASP) Converged() (*pif.Property, error) {
	c, err := V.isConverged()
	if err != nil {
		return nil, err
	}
	return pif.NewProperty("", pif.Flag(c)), nil
}

func (V *VASP) TotalEnergy() (*pif.Property, error) {
	lines, err := V.out("TotalEnergy")
	if err != nil {
		return nil, err
	}
	l, ok := lastLine(lines, "TOTEN")
	if !ok {
		return nil, nil
	}
	f := afterEq(l)
	if len(f) < 2 {
		return nil, malformed(vaspName, "TotalEnergy", V.outcar, "bad TOTEN line %q", strings.TrimSpace(l))
	}
	e, err := parseFloat(f[0])
	if err != nil {
		return nil, malformed(vaspName, "TotalEnergy", V.outcar, "bad TOTEN value: %s", err)
	}
	return scalarProperty(e, f[1]), nil
}

func (V *VASP) Pressure() (*pif.Property, error) {
	lines, err := V.out("Pressure")
	if err != nil {
		return nil, err
	}
	l, ok := lastLine(lines, "external pressure")
	if !ok {
		return nil, nil
	}
	f := afterEq(l)
	if len(f) < 2 {
		return nil, malformed(vaspName, "Pressure", V.outcar, "bad pressure line %q", strings.TrimSpace(l))
	}
	p, err := parseFloat(f[0])
	if err != nil {
		return nil, malformed(vaspName, "Pressure", V.outcar, "bad pressure: %s", err)
	}
	return scalarProperty(p, pif.NormalizeUnit(f[1])), nil
}

// Stresses reads the last "in kB" line of the OUTCAR (XX YY ZZ XY YZ ZX).
func (V *VASP) Stresses() (*pif.Property, error) {
	lines, err := V.out("Stresses")
	if err != nil {
		return nil, err
	}
	var line string
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "in kB") {
			line = lines[i]
			break
		}
	}
	if line == "" {
		return nil, nil
	}
	v, err := parseFloats(strings.Fields(line)[2:], 6)
	if err != nil {
		return nil, malformed(vaspName, "Stresses", V.outcar, "bad stress line: %s", err)
	}
	return pif.NewProperty("", pif.Matrix(matrixFromVoigt(v), pif.NormalizeUnit("kB"))), nil
}

func (V *VASP) Forces() (*pif.Property, error) {
	lines, err := V.out("Forces")
	if err != nil {
		return nil, err
	}
	i := lastIndex(lines, "TOTAL-FORCE")
	if i < 0 {
		return nil, nil
	}
	nions, ok, err := V.outcarInt("Forces", "NIONS")
	if err != nil {
		return nil, err
	}
	if !ok || i+1+nions >= len(lines) {
		return nil, malformed(vaspName, "Forces", V.outcar, "truncated force block")
	}
	forces := make([][]float64, nions)
	for a := 0; a < nions; a++ {
		v, err := parseFloats(strings.Fields(lines[i+2+a]), 6)
		if err != nil {
			return nil, malformed(vaspName, "Forces", V.outcar, "bad force line for atom %d: %s", a+1, err)
		}
		forces[a] = v[3:]
	}
	return pif.NewProperty("", pif.Matrix(forces, pif.NormalizeUnit("eV/Angst"))), nil
}

func (V *VASP) TotalForce() (*pif.Property, error) { return nil, nil }

func (V *VASP) TotalMagnetization() (*pif.Property, error) {
	lines, err := V.out("TotalMagnetization")
	if err != nil {
		return nil, err
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if !strings.Contains(lines[i], "number of electron") {
			continue
		}
		f := strings.Fields(lines[i])
		for j, w := range f {
			if w == "magnetization" && j+1 < len(f) {
				m, err := parseFloat(f[j+1])
				if err != nil {
					return nil, malformed(vaspName, "TotalMagnetization", V.outcar, "bad magnetization: %s", err)
				}
				return scalarProperty(m, "Bohr magneton"), nil
			}
		}
		return nil, nil
	}
	return nil, nil
}

// dos reads the total density of states from the DOSCAR. Spin-polarised
// densities are summed. Energies are not shifted.
func (V *VASP) dos() (energy, dos []float64, fermi float64, err error) {
	lines, err := V.ctx.Lines(V.doscar)
	if err != nil || len(lines) < 6 {
		return nil, nil, 0, malformed(vaspName, "DOS", V.doscar, "unreadable DOSCAR")
	}
	nedos, err := intField(lines[5], 2)
	if err != nil {
		return nil, nil, 0, malformed(vaspName, "DOS", V.doscar, "bad NEDOS: %s", err)
	}
	if fermi, err = floatField(lines[5], 3); err != nil {
		return nil, nil, 0, malformed(vaspName, "DOS", V.doscar, "bad Fermi energy: %s", err)
	}
	if len(lines) < 6+nedos {
		return nil, nil, 0, malformed(vaspName, "DOS", V.doscar, "%d DOS points announced, file too short", nedos)
	}
	energy = make([]float64, nedos)
	dos = make([]float64, nedos)
	for i := 0; i < nedos; i++ {
		f := strings.Fields(lines[6+i])
		v, err := parseFloats(f, len(f))
		if err != nil || len(v) < 3 {
			return nil, nil, 0, malformed(vaspName, "DOS", V.doscar, "bad DOS line %d", i+1)
		}
		energy[i] = v[0]
		dos[i] = v[1]
		if len(v) >= 5 {
			dos[i] += v[2]
		}
	}
	return energy, dos, fermi, nil
}

// DOS returns the total density of states with the energies relative to the Fermi level.
func (V *VASP) DOS() (*pif.Property, error) {
	if V.doscar == "" {
		return nil, nil
	}
	energy, dos, fermi, err := V.dos()
	if err != nil {
		return nil, err
	}
	for i := range energy {
		energy[i] -= fermi
	}
	return dosProperty(energy, dos), nil
}

func (V *VASP) BandGap() (*pif.Property, error) {
	if V.doscar == "" {
		return nil, nil
	}
	energy, dos, fermi, err := V.dos()
	if err != nil {
		return nil, err
	}
	gap, err := BandGapFromDOS(energy, dos, fermi)
	if err != nil {
		return nil, algorithmFailure(vaspName, "BandGap", V.doscar, "%s", err)
	}
	return scalarProperty(gap, pif.EV), nil
}

// outputStructure returns the final structure: the CONTCAR for relaxations, the POSCAR otherwise.
func (V *VASP) outputStructure(field string) (*structure.Structure, string, error) {
	relaxed, err := V.isRelaxed()
	if err != nil {
		return nil, "", err
	}
	file := V.poscar
	if relaxed && V.contcar != "" || file == "" {
		file = V.contcar
	}
	if file == "" {
		return nil, "", nil
	}
	text, err := V.ctx.Text(file)
	if err != nil {
		return nil, file, malformed(vaspName, field, file, "cannot read: %s", err)
	}
	s, err := structure.ParsePOSCAR(text, V.species())
	if err != nil {
		return nil, file, malformed(vaspName, field, file, "%s", err)
	}
	return s, file, nil
}

// Composition uses the output structure, or the ions per type line of the OUTCAR when
// there is no structure file.
func (V *VASP) Composition() (string, error) {
	s, _, err := V.outputStructure("Composition")
	if err != nil {
		return "", err
	}
	if s != nil {
		return s.Formula(), nil
	}
	lines, err := V.out("Composition")
	if err != nil {
		return "", err
	}
	l, ok := firstLine(lines, "ions per type")
	if !ok {
		return "", malformed(vaspName, "Composition", V.outcar, "no structure file and no ions per type line")
	}
	counts := afterEq(l)
	species := V.species()
	if len(counts) != len(species) {
		return "", malformed(vaspName, "Composition", V.outcar, "%d ion counts for %d species", len(counts), len(species))
	}
	c := make(map[string]int)
	for i, s := range species {
		n, err := strconv.Atoi(counts[i])
		if err != nil {
			return "", malformed(vaspName, "Composition", V.outcar, "bad ion count: %s", err)
		}
		c[s] += n
	}
	return structure.FormulaFromCounts(c), nil
}

func (V *VASP) Positions() (*pif.Property, error) {
	s, _, err := V.outputStructure("Positions")
	if err != nil {
		return nil, err
	}
	return positionsProperty(s), nil
}

func (V *VASP) Density() (*pif.Property, error) {
	s, _, err := V.outputStructure("Density")
	if err != nil {
		return nil, err
	}
	return densityProperty(vaspName, s)
}
