/*
 * quality_test.go, part of dftpif.
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

package quality

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// service answers like the validation service, and records the archive it got.
func service(Te *testing.T, got map[string]string) *httptest.Server {
	Te.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tr := tar.NewReader(r.Body)
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(tr)
			got[hdr.Name] = string(data)
		}
		var answer []string
		switch r.URL.Path {
		case jsonPath:
			answer = []string{`{"score": 92.5, "messages": ["ENCUT is high enough"]}`}
		case textPath:
			answer = []string{"Quality score: 80\nENCUT is high enough\n"}
		default:
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(answer)
	}))
	Te.Cleanup(srv.Close)
	return srv
}

func calcFiles(Te *testing.T) map[string]string {
	dir := Te.TempDir()
	incar := filepath.Join(dir, "INCAR")
	outcar := filepath.Join(dir, "OUTCAR")
	require.NoError(Te, os.WriteFile(incar, []byte("ENCUT = 400\n"), 0o644))
	require.NoError(Te, os.WriteFile(outcar, []byte(" vasp.5.3.2\n"), 0o644))
	return map[string]string{"INCAR": incar, "OUTCAR": outcar}
}

func TestValidateText(Te *testing.T) {
	got := make(map[string]string)
	c := NewClient(service(Te, got).URL + "/")
	rep, err := c.Validate(context.Background(), calcFiles(Te), false)
	require.NoError(Te, err)
	assert.Equal(Te, 80.0, rep.Score)
	assert.Equal(Te, "Quality score: 80\nENCUT is high enough\n", rep.Text)
	assert.Nil(Te, rep.JSON)
	assert.Equal(Te, map[string]string{"INCAR": "ENCUT = 400\n", "OUTCAR": " vasp.5.3.2\n"}, got)
}

func TestValidateInline(Te *testing.T) {
	c := NewClient(service(Te, make(map[string]string)).URL)
	rep, err := c.Validate(context.Background(), calcFiles(Te), true)
	require.NoError(Te, err)
	assert.Equal(Te, 92.5, rep.Score)
	assert.JSONEq(Te, `{"score": 92.5, "messages": ["ENCUT is high enough"]}`, string(rep.JSON))
}

func TestValidateErrors(Te *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL).Validate(context.Background(), calcFiles(Te), false)
	assert.ErrorContains(Te, err, "503")

	_, err = NewClient(srv.URL).Validate(context.Background(), map[string]string{"INCAR": "/does/not/exist"}, false)
	assert.Error(Te, err)
}

func TestParseReports(Te *testing.T) {
	_, err := parseTextReport("\nno score")
	assert.Error(Te, err)
	_, err = parseTextReport("Quality score: high")
	assert.Error(Te, err)
	_, err = parseJSONReport("not json")
	assert.Error(Te, err)
}

func TestFileSink(Te *testing.T) {
	dir := Te.TempDir()
	ref, err := FileSink{Dir: dir}.Store(context.Background(), ReportName, []byte("Quality score: 80\n"))
	require.NoError(Te, err)
	assert.Equal(Te, ReportName, ref)
	data, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(Te, err)
	assert.True(Te, bytes.HasPrefix(data, []byte("Quality score")))

	sink := FileSink{Dir: dir, Unique: true}
	a, err := sink.Store(context.Background(), ReportName, []byte("a"))
	require.NoError(Te, err)
	b, err := sink.Store(context.Background(), ReportName, []byte("b"))
	require.NoError(Te, err)
	assert.NotEqual(Te, a, b)
	assert.False(Te, filepath.IsAbs(a))
	assert.Equal(Te, ReportName, path.Base(a))
	data, err = os.ReadFile(filepath.Join(dir, filepath.FromSlash(a)))
	require.NoError(Te, err)
	assert.Equal(Te, "a", string(data))
}

func TestNewS3SinkValidation(Te *testing.T) {
	_, err := NewS3Sink(S3Config{})
	assert.ErrorContains(Te, err, "endpoint")
	_, err = NewS3Sink(S3Config{Endpoint: "localhost:9000", Bucket: "reports"})
	assert.ErrorContains(Te, err, "access key")
	_, err = NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(Te, err, "bucket")
	s, err := NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "reports"})
	require.NoError(Te, err)
	assert.Equal(Te, "us-east-1", s.region)
}

func TestObjectKey(Te *testing.T) {
	assert.Equal(Te, "reports/1234/quality_report.txt", objectKey("/reports/", "1234", ReportName))
	assert.Equal(Te, "1234/quality_report.txt", objectKey("", "1234", ReportName))
}
