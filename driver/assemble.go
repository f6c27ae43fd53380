/*
 * assemble.go, part of dftpif.
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

package driver

import (
	"errors"
	"fmt"
	"log/slog"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/dft"
	"github.com/rmera/dftpif/quality"
)

// Options control a conversion. The zero value converts with the default
// registry and no quality report.
type Options struct {
	Verbose       bool
	QualityReport bool
	Inline        bool
	Reporter      Reporter
	Sink          quality.Sink
	Logger        *slog.Logger
	Registry      dft.Registry
	ScratchRoot   string
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) registry() dft.Registry {
	if len(o.Registry) == 0 {
		return dft.DefaultRegistry()
	}
	return o.Registry
}

// narrate logs at Info level when the conversion is verbose, at Debug level otherwise.
func (o Options) narrate(msg string, args ...any) {
	if o.Verbose {
		o.logger().Info(msg, args...)
		return
	}
	o.logger().Debug(msg, args...)
}

// FieldError is the failure of a single setting or result. It does not stop
// the rest of the record from being assembled.
type FieldError struct {
	Field string
	Err   error
}

func (f FieldError) Error() string {
	return fmt.Sprintf("%s: %v", f.Field, f.Err)
}

func (f FieldError) Unwrap() error { return f.Err }

// fatal reports whether a field error must stop the whole conversion.
func fatal(err error) bool {
	return errors.Is(err, dft.ErrAlgorithm)
}

// Assemble builds the record for the files bound to x. Failures of single
// fields are returned in the FieldError slice and the field is left out of
// the record. A version that cannot be read, or a derived quantity that cannot
// be computed, aborts the assembly.
func Assemble(x dft.Extractor, opts Options) (*pif.ChemicalSystem, []FieldError, error) {
	var ferrs []FieldError
	version, err := x.Version()
	if err != nil {
		return nil, nil, fmt.Errorf("Assemble: %w", err)
	}
	method := pif.NewMethod(pif.MethodDFT, pif.Software{Name: x.Name(), Version: version})
	sys := new(pif.ChemicalSystem)
	sys.Formula, err = x.Composition()
	if err != nil {
		ferrs = append(ferrs, FieldError{"Composition", err})
		opts.logger().Warn("composition not available", "code", x.Name(), "err", err)
	}
	conds, errs, err := settings(x, opts)
	if err != nil {
		return nil, nil, err
	}
	ferrs = append(ferrs, errs...)
	for _, f := range dft.Results(x) {
		p, err := f.Get(x)
		if err != nil {
			if fatal(err) {
				return nil, nil, fmt.Errorf("Assemble: %s: %w", f.Name, err)
			}
			ferrs = append(ferrs, FieldError{f.Name, err})
			opts.logger().Warn("result not available", "field", f.Name, "err", err)
			continue
		}
		if p == nil {
			continue
		}
		if opts.Inline && len(p.Files) > 0 {
			continue
		}
		//The extractor may hand out the same property twice, so we work on a copy.
		prop := *p
		prop.Conditions = append([]pif.Condition(nil), p.Conditions...)
		prop.Name = f.Name
		prop.Method = method
		prop.DataType = pif.DataTypeComputational
		prop.AddConditions(conds...)
		checkKind(opts, f.Name, f.Kind, prop.Quantity)
		opts.narrate("result", "field", f.Name)
		sys.Properties = append(sys.Properties, &prop)
	}
	return sys, ferrs, nil
}

// settings collects the default conditions for every property of the record.
// Absent and false settings are dropped.
func settings(x dft.Extractor, opts Options) ([]pif.Condition, []FieldError, error) {
	var conds []pif.Condition
	var ferrs []FieldError
	for _, f := range dft.Settings(x) {
		c, err := f.Get(x)
		if err != nil {
			if fatal(err) {
				return nil, nil, fmt.Errorf("Assemble: %s: %w", f.Name, err)
			}
			ferrs = append(ferrs, FieldError{f.Name, err})
			opts.logger().Warn("setting not available", "field", f.Name, "err", err)
			continue
		}
		if c == nil || c.IsFalse() {
			continue
		}
		if opts.Inline && c.HasFiles() {
			continue
		}
		cond := *c
		cond.Name = f.Name
		checkKind(opts, f.Name, f.Kind, cond.Quantity)
		opts.narrate("setting", "field", f.Name)
		conds = append(conds, cond)
	}
	return conds, ferrs, nil
}

func checkKind(opts Options, field string, want pif.Kind, q pif.Quantity) {
	if want != pif.Absent && q.Kind() != want {
		opts.logger().Debug("unexpected value kind", "field", field, "want", want, "got", q.Kind())
	}
}
