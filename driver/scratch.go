/*
 * scratch.go, part of dftpif.
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
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/dft"
	"github.com/rmera/dftpif/quality"
)

// Scratch is a uniquely named working directory. Two scratch areas never share
// a directory, so conversions can run concurrently.
type Scratch struct {
	Dir string
}

// NewScratch creates a new scratch directory under root, or under the
// system temporary directory if root is empty.
func NewScratch(root string) (*Scratch, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "dftpif-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewScratch: %w", err)
	}
	return &Scratch{Dir: dir}, nil
}

// Close removes the scratch directory and everything in it.
func (s *Scratch) Close() error {
	return os.RemoveAll(s.Dir)
}

// Extract unpacks the tar archive at path, which can be gzip or zstd compressed, in the scratch directory.
func (s *Scratch) Extract(path string) error {
	r, err := dft.Open(path)
	if err != nil {
		return fmt.Errorf("Extract: %w", err)
	}
	defer r.Close()
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Extract: %s: %w", path, err)
		}
		target, err := s.target(hdr.Name)
		if err != nil {
			return fmt.Errorf("Extract: %s: %w", path, err)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("Extract: %w", err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return fmt.Errorf("Extract: %w", err)
			}
		}
	}
}

// target returns where the archive entry name goes. Entries that would land
// outside the scratch directory are an error.
func (s *Scratch) target(name string) (string, error) {
	target := filepath.Join(s.Dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(s.Dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes the extraction directory", name)
	}
	return target, nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// calculationDir returns the first sub-directory of the scratch area, in name
// order, or the scratch directory itself if it has none.
func (s *Scratch) calculationDir() (string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() {
			return filepath.Join(s.Dir, e.Name()), nil
		}
	}
	return s.Dir, nil
}

// TarfileToPIF unpacks the archive at path in a scratch area and converts the
// calculation in it. The scratch area is removed before returning, so unless
// opts has a Sink, quality reports go to their own sub-directory next to the archive.
func TarfileToPIF(ctx context.Context, path string, opts Options) (*pif.ChemicalSystem, error) {
	s, err := NewScratch(opts.ScratchRoot)
	if err != nil {
		return nil, fmt.Errorf("TarfileToPIF: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			opts.logger().Warn("scratch area not removed", "dir", s.Dir, "err", err)
		}
	}()
	if err := s.Extract(path); err != nil {
		return nil, fmt.Errorf("TarfileToPIF: %w", err)
	}
	dir, err := s.calculationDir()
	if err != nil {
		return nil, fmt.Errorf("TarfileToPIF: %w", err)
	}
	opts.narrate("unpacked archive", "archive", path, "dir", dir)
	if opts.Sink == nil {
		opts.Sink = quality.FileSink{Dir: filepath.Dir(path), Unique: true}
	}
	return DirectoryToPIF(ctx, dir, opts)
}
