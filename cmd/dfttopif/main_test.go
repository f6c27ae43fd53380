/*
 * main_test.go, part of dftpif.
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

package main

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/driver"
	"github.com/rmera/dftpif/quality"
)

const vaspDir = "../../dft/testdata/vasp"

func run(Te *testing.T, args ...string) (string, error) {
	Te.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// tarball packs the files of dir in a plain tar archive.
func tarball(Te *testing.T, dir string) []byte {
	Te.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	entries, err := os.ReadDir(dir)
	require.NoError(Te, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(Te, err)
		require.NoError(Te, tw.WriteHeader(&tar.Header{Name: "calc/" + e.Name(), Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(data))}))
		_, err = tw.Write(data)
		require.NoError(Te, err)
	}
	require.NoError(Te, tw.Close())
	return buf.Bytes()
}

func TestNewLogger(Te *testing.T) {
	var buf bytes.Buffer
	newLogger("debug", "json", &buf).Debug("hello", "code", "VASP")
	assert.Contains(Te, buf.String(), `"level":"DEBUG"`)
	assert.Contains(Te, buf.String(), `"code":"VASP"`)

	buf.Reset()
	newLogger("bogus", "text", &buf).Debug("hidden")
	assert.Empty(Te, buf.String())
}

func TestConvertAndCatalog(Te *testing.T) {
	tmp := Te.TempDir()
	db := filepath.Join(tmp, "records.db")
	out := filepath.Join(tmp, "record.json")
	plot := filepath.Join(tmp, "dos.png")
	_, err := run(Te, "convert", vaspDir, "--catalog", db, "-o", out, "--plot-dos", plot)
	require.NoError(Te, err)

	data, err := os.ReadFile(out)
	require.NoError(Te, err)
	sys := new(pif.ChemicalSystem)
	require.NoError(Te, json.Unmarshal(data, sys))
	assert.Equal(Te, "LaMnO3", sys.Formula)
	assert.NotNil(Te, sys.Property("Total Energy"))
	assert.FileExists(Te, plot)

	listing, err := run(Te, "list", "--catalog", db)
	require.NoError(Te, err)
	require.Contains(Te, listing, "LaMnO3")
	key := strings.Fields(listing)[0]

	shown, err := run(Te, "show", key, "--catalog", db)
	require.NoError(Te, err)
	again := new(pif.ChemicalSystem)
	require.NoError(Te, json.Unmarshal([]byte(shown), again))
	assert.Equal(Te, sys.Formula, again.Formula)
	assert.Len(Te, again.Properties, len(sys.Properties))
}

func TestCatalogIsRequired(Te *testing.T) {
	_, err := run(Te, "list")
	assert.ErrorIs(Te, err, errNoCatalog)
}

func TestConvertNeedsPaths(Te *testing.T) {
	_, err := run(Te, "convert")
	assert.Error(Te, err)
}

func TestServeConvertTarfile(Te *testing.T) {
	archive := tarball(Te, vaspDir)
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calc.tar" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	defer files.Close()

	s := &server{opts: driver.Options{Logger: newLogger("error", "text", &bytes.Buffer{}), ScratchRoot: Te.TempDir()}, client: files.Client()}
	api := httptest.NewServer(s.routes())
	defer api.Close()

	resp, err := http.Post(api.URL+"/convert/from/tarfile", "application/json", strings.NewReader(`{"url": "`+files.URL+`/calc.tar"}`))
	require.NoError(Te, err)
	defer resp.Body.Close()
	require.Equal(Te, http.StatusOK, resp.StatusCode)
	assert.Equal(Te, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	var answer convertResponse
	require.NoError(Te, json.NewDecoder(resp.Body).Decode(&answer))
	require.NotNil(Te, answer.System)
	assert.Equal(Te, "LaMnO3", answer.System.Formula)

	resp2, err := http.Post(api.URL+"/convert/from/tarfile", "application/json", strings.NewReader(`{"url": "`+files.URL+`/missing.tar"}`))
	require.NoError(Te, err)
	resp2.Body.Close()
	assert.Equal(Te, http.StatusBadGateway, resp2.StatusCode)

	resp3, err := http.Post(api.URL+"/convert/from/tarfile", "application/json", strings.NewReader(`{}`))
	require.NoError(Te, err)
	resp3.Body.Close()
	assert.Equal(Te, http.StatusBadRequest, resp3.StatusCode)
}

type scoreReporter struct{}

func (scoreReporter) Validate(ctx context.Context, files map[string]string, inline bool) (quality.Report, error) {
	return quality.Report{Score: 75, Text: "Quality score: 75\n"}, nil
}

func TestServeKeepsQualityReports(Te *testing.T) {
	archive := tarball(Te, vaspDir)
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer files.Close()

	reports := Te.TempDir()
	opts := driver.Options{
		QualityReport: true,
		Reporter:      scoreReporter{},
		Logger:        newLogger("error", "text", &bytes.Buffer{}),
		ScratchRoot:   Te.TempDir(),
	}
	s := &server{opts: reportsTo(opts, reports), client: files.Client()}
	api := httptest.NewServer(s.routes())
	defer api.Close()

	resp, err := http.Post(api.URL+"/convert/from/tarfile", "application/json", strings.NewReader(`{"url": "`+files.URL+`/calc.tar"}`))
	require.NoError(Te, err)
	defer resp.Body.Close()
	require.Equal(Te, http.StatusOK, resp.StatusCode)
	var answer convertResponse
	require.NoError(Te, json.NewDecoder(resp.Body).Decode(&answer))
	p := answer.System.Property(driver.QualityReportName)
	require.NotNil(Te, p)
	require.Len(Te, p.Files, 1)
	data, err := os.ReadFile(filepath.Join(reports, filepath.FromSlash(p.Files[0].RelativePath)))
	require.NoError(Te, err)
	assert.Equal(Te, "Quality score: 75\n", string(data))

	inline := opts
	inline.Inline = true
	assert.Nil(Te, reportsTo(inline, reports).Sink)
}

func TestWatcher(Te *testing.T) {
	dir := Te.TempDir()
	w, err := newWatcher(100*time.Millisecond, nil)
	require.NoError(Te, err)
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready, err := w.Watch(ctx, dir)
	require.NoError(Te, err)

	require.NoError(Te, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	path := filepath.Join(dir, "calc.tar")
	require.NoError(Te, os.WriteFile(path, tarball(Te, vaspDir), 0o644))

	select {
	case got := <-ready:
		assert.Equal(Te, path, got)
	case <-time.After(5 * time.Second):
		Te.Fatal("no calculation reported")
	}
}

func TestWatcherLogsErrors(Te *testing.T) {
	dir := Te.TempDir()
	var buf bytes.Buffer
	w, err := newWatcher(100*time.Millisecond, newLogger("info", "text", &buf))
	require.NoError(Te, err)
	defer w.Close()

	w.follow(filepath.Join(dir, "gone"))
	assert.Contains(Te, buf.String(), "cannot watch directory")
	assert.Contains(Te, buf.String(), "gone")

	ctx, cancel := context.WithCancel(context.Background())
	ready, err := w.Watch(ctx, dir)
	require.NoError(Te, err)
	w.fs.Errors <- errors.New("event queue overflow")
	cancel()
	for range ready {
	}
	assert.Contains(Te, buf.String(), "watcher error")
	assert.Contains(Te, buf.String(), "event queue overflow")
}

func TestTop(Te *testing.T) {
	assert.Equal(Te, filepath.Join("in", "calc"), top("in", filepath.Join("in", "calc", "OUTCAR")))
	assert.Equal(Te, filepath.Join("in", "calc.tar"), top("in", filepath.Join("in", "calc.tar")))
}
