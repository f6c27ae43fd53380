/*
 * context_test.go, part of dftpif.
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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCompressedFiles(Te *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "vasp", "OUTCAR"))
	require.NoError(Te, err)
	tmp := Te.TempDir()

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err = w.Write(raw)
	require.NoError(Te, err)
	require.NoError(Te, w.Close())
	require.NoError(Te, os.WriteFile(filepath.Join(tmp, "OUTCAR.gz"), gz.Bytes(), 0o644))

	enc, err := zstd.NewWriter(nil)
	require.NoError(Te, err)
	require.NoError(Te, os.WriteFile(filepath.Join(tmp, "INCAR.zst"), enc.EncodeAll([]byte("ENCUT = 400\n"), nil), 0o644))
	require.NoError(Te, enc.Close())
	require.NoError(Te, os.WriteFile(filepath.Join(tmp, "._OUTCAR"), []byte("resource fork"), 0o644))

	files := []string{filepath.Join(tmp, "OUTCAR.gz"), filepath.Join(tmp, "INCAR.zst"), filepath.Join(tmp, "._OUTCAR")}
	C := NewContext(files, nil)
	require.Len(Te, C.ByName("OUTCAR"), 1)
	lines, err := C.Lines(C.ByName("OUTCAR")[0])
	require.NoError(Te, err)
	assert.Equal(Te, bytes.Count(raw, []byte("\n")), len(lines))
	head := C.Head(C.ByName("INCAR")[0], 3)
	assert.Equal(Te, []string{"ENCUT = 400"}, head)

	x, err := Find(files, nil)
	require.NoError(Te, err)
	v, err := x.Version()
	require.NoError(Te, err)
	assert.Equal(Te, "5.3.2", v)
}

func TestContextSortsFiles(Te *testing.T) {
	in := []string{"b", "a", "c"}
	C := NewContext(in, nil)
	assert.Equal(Te, []string{"a", "b", "c"}, C.Files())
	assert.Equal(Te, []string{"b", "a", "c"}, in)
	assert.Equal(Te, "OUTCAR", BaseName("/x/y/OUTCAR.gz"))
}
