/*
 * context.go, part of dftpif.
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
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// linesCacheSize is the number of files whose lines a Context keeps in memory.
const linesCacheSize = 32

// Context is the set of candidate files given to one parser. Once an extractor
// binds to it, Input and Output hold the main input and output files.
// A Context belongs to one extractor, it is never reused between parse attempts.
type Context struct {
	files  []string
	Input  string
	Output string
	Log    *slog.Logger
	cache  *lru.Cache[string, []string]
}

// NewContext returns a context for the given files. The list is copied and sorted
// so the result does not depend on the order in which the files were given.
func NewContext(files []string, logger *slog.Logger) *Context {
	f := make([]string, len(files))
	copy(f, files)
	sort.Strings(f)
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []string](linesCacheSize)
	if err != nil {
		panic(err) //only happens for a non-positive size
	}
	return &Context{files: f, Log: logger, cache: cache}
}

// Files returns a copy of the candidate files.
func (C *Context) Files() []string {
	f := make([]string, len(C.files))
	copy(f, C.files)
	return f
}

var compressedSuffixes = []string{".gz", ".zst"}

// BaseName returns the base name of path without a compression suffix.
func BaseName(path string) string {
	b := filepath.Base(path)
	for _, s := range compressedSuffixes {
		b = strings.TrimSuffix(b, s)
	}
	return b
}

// hidden reports whether the file is a resource fork or similar ("._name", ".name") file.
func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// ByName returns the files whose base name (compression suffix removed) is name.
func (C *Context) ByName(name string) []string {
	var ret []string
	for _, f := range C.files {
		if !hidden(f) && BaseName(f) == name {
			ret = append(ret, f)
		}
	}
	return ret
}

// ByExt returns the files with the given extension (compression suffix removed).
func (C *Context) ByExt(ext string) []string {
	var ret []string
	for _, f := range C.files {
		if !hidden(f) && filepath.Ext(BaseName(f)) == ext {
			ret = append(ret, f)
		}
	}
	return ret
}

// Matching returns the files for which the first n lines satisfy ok.
func (C *Context) Matching(n int, ok func(head []string) bool) []string {
	var ret []string
	for _, f := range C.files {
		if hidden(f) {
			continue
		}
		if h := C.Head(f, n); len(h) > 0 && ok(h) {
			ret = append(ret, f)
		}
	}
	return ret
}

// Lines returns all the lines in path. The file is read once and closed before
// returning, later calls are served from the cache.
func (C *Context) Lines(path string) ([]string, error) {
	if l, ok := C.cache.Get(path); ok {
		return l, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, closer, err := decompress(f)
	if err != nil {
		return nil, err
	}
	defer closer()
	var lines []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for s.Scan() {
		lines = append(lines, strings.TrimRight(s.Text(), "\r"))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	C.cache.Add(path, lines)
	return lines, nil
}

// Text returns the whole content of path.
func (C *Context) Text(path string) (string, error) {
	l, err := C.Lines(path)
	if err != nil {
		return "", err
	}
	return strings.Join(l, "\n"), nil
}

// Head returns at most the first n lines of path. It never fails: unreadable
// files give nil. Binary files give whatever lines can be read.
func (C *Context) Head(path string, n int) []string {
	if l, ok := C.cache.Get(path); ok {
		if len(l) > n {
			return l[:n]
		}
		return l
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	r, closer, err := decompress(f)
	if err != nil {
		return nil
	}
	defer closer()
	var lines []string
	br := bufio.NewReader(io.LimitReader(r, 1024*1024))
	for len(lines) < n {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			break
		}
	}
	return lines
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompress returns a reader for the decompressed content of r, if r is
// gzip or zstd compressed, and a function to release the decompressor.
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { gz.Close() }, nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return br, func() {}, nil
}

type decompressedFile struct {
	io.Reader
	f       *os.File
	release func()
}

func (d decompressedFile) Close() error {
	d.release()
	return d.f.Close()
}

// Open opens path for reading, decompressing it if needed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, release, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return decompressedFile{r, f, release}, nil
}
