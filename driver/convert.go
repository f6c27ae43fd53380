/*
 * convert.go, part of dftpif.
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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pif "github.com/rmera/dftpif"
)

// ErrNoFiles is returned when a conversion is asked for without any path.
var ErrNoFiles = errors.New("no files to convert")

// FilesToPIF converts the calculation made of files. The field errors are
// logged, and are not returned.
func FilesToPIF(ctx context.Context, files []string, opts Options) (*pif.ChemicalSystem, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("FilesToPIF: %w", ErrNoFiles)
	}
	x, err := opts.registry().Find(files, opts.logger())
	if err != nil {
		return nil, fmt.Errorf("FilesToPIF: %w", err)
	}
	opts.narrate("found calculation", "code", x.Name(), "files", len(files))
	sys, ferrs, err := Assemble(x, opts)
	if err != nil {
		return nil, fmt.Errorf("FilesToPIF: %w", err)
	}
	if len(ferrs) > 0 {
		opts.logger().Warn("record is incomplete", "code", x.Name(), "failed", len(ferrs))
	}
	if opts.QualityReport {
		attachQualityReport(ctx, x, sys, opts)
	}
	return sys, nil
}

// DirectoryToPIF converts the regular files directly under dir.
func DirectoryToPIF(ctx context.Context, dir string, opts Options) (*pif.ChemicalSystem, error) {
	files, err := regularFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("DirectoryToPIF: %w", err)
	}
	return FilesToPIF(ctx, files, opts)
}

func regularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

var tarSuffixes = []string{".tar", ".tar.gz", ".tgz", ".tar.zst", ".tzst"}

// IsTarfile reports whether the name of path is that of a, possibly compressed, tar archive.
func IsTarfile(path string) bool {
	low := strings.ToLower(path)
	for _, s := range tarSuffixes {
		if strings.HasSuffix(low, s) {
			return true
		}
	}
	return false
}

// Convert is the entry point for a list of paths. A single directory is
// converted with DirectoryToPIF, a single tar archive with TarfileToPIF.
// Otherwise, the regular files among paths are converted together.
func Convert(ctx context.Context, paths []string, opts Options) (*pif.ChemicalSystem, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("Convert: %w", ErrNoFiles)
	}
	if len(paths) == 1 {
		info, err := os.Stat(paths[0])
		if err != nil {
			return nil, fmt.Errorf("Convert: %w", err)
		}
		switch {
		case info.IsDir():
			return DirectoryToPIF(ctx, paths[0], opts)
		case IsTarfile(paths[0]):
			return TarfileToPIF(ctx, paths[0], opts)
		}
		return FilesToPIF(ctx, paths, opts)
	}
	var files []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return FilesToPIF(ctx, files, opts)
}
