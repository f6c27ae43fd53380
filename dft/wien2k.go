/*
 * wien2k.go, part of dftpif.
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
	"strings"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/structure"
)

const wien2kName = "Wien2k"

// Wien2kParser recognizes the case.scf file of a Wien2k run.
var Wien2kParser = Parser{Code: wien2kName, Probe: probeWien2k, Bind: BindWien2k}

func isWien2kSCF(head []string) bool {
	for _, l := range head {
		if strings.Contains(l, "using WIEN2k") || strings.Contains(l, ":ITE001:  1. ITERATION") {
			return true
		}
	}
	return false
}

func (C *Context) wien2kSCF() []string {
	var ret []string
	for _, f := range C.ByExt(".scf") {
		if isWien2kSCF(C.Head(f, probeLines)) {
			ret = append(ret, f)
		}
	}
	return ret
}

func probeWien2k(C *Context) bool {
	return len(C.wien2kSCF()) > 0
}

// Wien2k extracts data from the case.scf, case.scf2 and case.struct files of a Wien2k run
// and from the optics files written by OPTIC and KRAM.
type Wien2k struct {
	ctx    *Context
	scf    string
	scf2   string
	struc  string
	optics map[string]string
}

// BindWien2k binds a Wien2k extractor. Only the scf file is required.
func BindWien2k(C *Context) (Extractor, error) {
	scf := C.wien2kSCF()
	if len(scf) != 1 {
		return nil, Error{ErrMalformed, wien2kName, "", "expected one Wien2k scf file, found: " + strings.Join(scf, ", "), []string{"Bind"}, true}
	}
	W := &Wien2k{ctx: C, scf: scf[0], optics: make(map[string]string)}
	if f := C.ByExt(".scf2"); len(f) > 0 {
		W.scf2 = f[0]
	}
	if f := C.ByExt(".struct"); len(f) > 0 {
		W.struc = f[0]
	}
	for _, o := range opticsFiles {
		if f := C.ByExt(o.ext); len(f) > 0 {
			W.optics[o.ext] = f[0]
		}
	}
	C.Input, C.Output = W.struc, W.scf
	return W, nil
}

func (W *Wien2k) Name() string       { return wien2kName }
func (W *Wien2k) Context() *Context { return W.ctx }

func (W *Wien2k) lines(field, file string) ([]string, error) {
	l, err := W.ctx.Lines(file)
	if err != nil {
		return nil, malformed(wien2kName, field, file, "cannot read: %s", err)
	}
	return l, nil
}

// Version reads the :LABEL3: line, i.e. "16.1" for "using WIEN2k_16.1".
func (W *Wien2k) Version() (string, error) {
	lines, err := W.lines("Version", W.scf)
	if err != nil {
		return "", err
	}
	if l, ok := firstLine(lines, ":LABEL3:"); ok {
		if v, err := field(l, 2); err == nil {
			return strings.TrimPrefix(v, "WIEN2k_"), nil
		}
	}
	return "", malformed(wien2kName, "Version", W.scf, "no :LABEL3: line with the version")
}

func (W *Wien2k) Composition() (string, error) {
	if W.struc == "" {
		return "", malformed(wien2kName, "Composition", "", "no struct file")
	}
	text, err := W.ctx.Text(W.struc)
	if err != nil {
		return "", malformed(wien2kName, "Composition", W.struc, "cannot read: %s", err)
	}
	s, err := structure.ParseWien2kStruct(text)
	if err != nil {
		return "", malformed(wien2kName, "Composition", W.struc, "%s", err)
	}
	return s.Formula(), nil
}

func (W *Wien2k) CutoffEnergy() (*pif.Condition, error)     { return nil, nil }
func (W *Wien2k) XCFunctional() (*pif.Condition, error)     { return nil, nil }
func (W *Wien2k) Relaxed() (*pif.Condition, error)          { return nil, nil }
func (W *Wien2k) KPPRA() (*pif.Condition, error)            { return nil, nil }
func (W *Wien2k) SpinOrbit() (*pif.Condition, error)        { return nil, nil }
func (W *Wien2k) USettings() (*pif.Condition, error)        { return nil, nil }
func (W *Wien2k) VdWSettings() (*pif.Condition, error)      { return nil, nil }
func (W *Wien2k) Pseudopotentials() (*pif.Condition, error) { return nil, nil }
func (W *Wien2k) InputFile() (*pif.Condition, error)        { return nil, nil }
func (W *Wien2k) StructureFile() (*pif.Condition, error)    { return fileCondition(W.struc), nil }

func (W *Wien2k) Converged() (*pif.Property, error)          { return nil, nil }
func (W *Wien2k) Pressure() (*pif.Property, error)           { return nil, nil }
func (W *Wien2k) Stresses() (*pif.Property, error)           { return nil, nil }
func (W *Wien2k) DOS() (*pif.Property, error)                { return nil, nil }
func (W *Wien2k) Positions() (*pif.Property, error)          { return nil, nil }
func (W *Wien2k) Forces() (*pif.Property, error)             { return nil, nil }
func (W *Wien2k) TotalForce() (*pif.Property, error)         { return nil, nil }
func (W *Wien2k) Density() (*pif.Property, error)            { return nil, nil }
func (W *Wien2k) TotalMagnetization() (*pif.Property, error) { return nil, nil }
func (W *Wien2k) OutputFile() (*pif.Property, error)         { return fileProperty(W.scf), nil }

// TotalEnergy reads the last :ENE line, in Rydberg.
func (W *Wien2k) TotalEnergy() (*pif.Property, error) {
	lines, err := W.lines("TotalEnergy", W.scf)
	if err != nil {
		return nil, err
	}
	l, ok := lastLine(lines, ":ENE")
	if !ok {
		return nil, nil
	}
	f := afterEq(l)
	if len(f) == 0 {
		return nil, malformed(wien2kName, "TotalEnergy", W.scf, "bad :ENE line %q", strings.TrimSpace(l))
	}
	e, err := parseFloat(f[0])
	if err != nil {
		return nil, malformed(wien2kName, "TotalEnergy", W.scf, "bad energy: %s", err)
	}
	return scalarProperty(e, "Ry"), nil
}

// BandGap reads the last :GAP line of the scf2 file (or of the scf file), in eV.
func (W *Wien2k) BandGap() (*pif.Property, error) {
	for _, file := range []string{W.scf2, W.scf} {
		if file == "" {
			continue
		}
		lines, err := W.lines("BandGap", file)
		if err != nil {
			return nil, err
		}
		l, ok := lastLine(lines, ":GAP")
		if !ok {
			continue
		}
		f := strings.Fields(l)
		for i := 1; i < len(f); i++ {
			if f[i] != "eV" {
				continue
			}
			g, err := parseFloat(f[i-1])
			if err != nil {
				return nil, malformed(wien2kName, "BandGap", file, "bad gap value: %s", err)
			}
			return scalarProperty(g, pif.EV), nil
		}
		return nil, malformed(wien2kName, "BandGap", file, "no gap in eV in %q", strings.TrimSpace(l))
	}
	return nil, nil
}
