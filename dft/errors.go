/*
 * errors.go, part of dftpif.
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
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is to check them.
var (
	ErrNotApplicable = errors.New("files were not produced by this code")
	ErrNoParser      = errors.New("no applicable parser")
	ErrMalformed     = errors.New("malformed or missing required field")
	ErrAlgorithm     = errors.New("derived quantity cannot be computed")
)

//Error is the error type for the extractors. It records the program, the
//file and, in the decoration trail, the accessor (field) that failed.
type Error struct {
	kind     error
	program  string
	filename string
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	var b strings.Builder
	b.WriteString(err.program)
	if len(err.deco) > 0 {
		b.WriteString("/" + strings.Join(err.deco, "/"))
	}
	b.WriteString(": ")
	if err.filename != "" {
		b.WriteString(err.filename + ": ")
	}
	b.WriteString(err.message)
	if err.kind != nil {
		b.WriteString(" (" + err.kind.Error() + ")")
	}
	return b.String()
}

// Unwrap returns the error kind, one of the Err* variables.
func (err Error) Unwrap() error { return err.kind }

//Decorate adds new information to the error, and returns the whole trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file in which the problem was found, if any.
func (err Error) FileName() string { return err.filename }

//Program returns the code whose extractor failed.
func (err Error) Program() string { return err.program }

//Field returns the accessor that failed, or "" if the error is not related to a single field.
func (err Error) Field() string {
	if len(err.deco) == 0 {
		return ""
	}
	return err.deco[0]
}

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

func malformed(program, field, filename, format string, a ...any) error {
	return Error{ErrMalformed, program, filename, fmt.Sprintf(format, a...), []string{field}, true}
}

func algorithmFailure(program, field, filename, format string, a ...any) error {
	return Error{ErrAlgorithm, program, filename, fmt.Sprintf(format, a...), []string{field}, true}
}

// NoParserError is returned when no parser in a registry claims a file set.
type NoParserError struct {
	Tried []string
	Files int
}

func (err NoParserError) Error() string {
	return fmt.Sprintf("no applicable parser for %d files, tried %s", err.Files, strings.Join(err.Tried, ", "))
}

func (err NoParserError) Unwrap() error { return ErrNoParser }
