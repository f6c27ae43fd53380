/*
 * registry.go, part of dftpif.
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
	"errors"
	"log/slog"
)

// Parser identifies and binds the files of one code.
// Probe must be cheap and must not fail: it only answers whether the files look
// like they come from the code. Bind claims the files, or returns an error
// if they come from the code but cannot be used.
type Parser struct {
	Code  string
	Probe func(*Context) bool
	Bind  func(*Context) (Extractor, error)
}

// Registry is an ordered list of parsers. Earlier parsers take priority.
type Registry []Parser

// DefaultRegistry returns all the supported codes, in priority order.
func DefaultRegistry() Registry {
	return Registry{PWSCFParser, VASPParser, Wien2kParser, ABINITParser}
}

// Codes returns the names of the codes in the registry, in order.
func (R Registry) Codes() []string {
	ret := make([]string, len(R))
	for i, p := range R {
		ret[i] = p.Code
	}
	return ret
}

// Find returns an extractor bound to files by the first parser in R whose Probe
// accepts them. Each attempt gets its own Context. A Bind error is returned as is,
// without trying the remaining parsers, unless it is ErrNotApplicable.
// If no parser accepts the files, the error is a NoParserError.
func (R Registry) Find(files []string, logger *slog.Logger) (Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var tried []string
	for _, p := range R {
		tried = append(tried, p.Code)
		ctx := NewContext(files, logger)
		if !p.Probe(ctx) {
			logger.Debug("parser does not apply", "code", p.Code)
			continue
		}
		x, err := p.Bind(ctx)
		if errors.Is(err, ErrNotApplicable) {
			logger.Debug("parser declined files after probing", "code", p.Code, "err", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("parser bound", "code", p.Code, "input", ctx.Input, "output", ctx.Output)
		return x, nil
	}
	return nil, NoParserError{Tried: tried, Files: len(files)}
}

// Find uses the default registry to bind an extractor to files.
func Find(files []string, logger *slog.Logger) (Extractor, error) {
	return DefaultRegistry().Find(files, logger)
}
