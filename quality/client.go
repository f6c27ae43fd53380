/*
 * client.go, part of dftpif.
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
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rmera/dftpif/dft"
)

// DefaultEndpoint is the public validation service.
const DefaultEndpoint = "https://calval.citrination.com"

const (
	jsonPath = "/validate/json/tarfile"
	textPath = "/validate/tarfile"
)

// Report is the answer of the validation service. JSON is only set for
// inline reports, Text only for plain text ones.
type Report struct {
	Score float64
	Text  string
	JSON  json.RawMessage
}

// Client sends files to the validation service.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient returns a client for the service at endpoint, or at DefaultEndpoint if endpoint is empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{Endpoint: strings.TrimRight(endpoint, "/"), HTTP: &http.Client{Timeout: 2 * time.Minute}}
}

// Validate posts a tar archive with files (archive name to path) to the service.
// Inline reports are JSON documents with a "score" field, the others are text whose
// first line ends with the score.
func (c *Client) Validate(ctx context.Context, files map[string]string, inline bool) (Report, error) {
	body, err := tarFiles(files)
	if err != nil {
		return Report{}, fmt.Errorf("Validate: %w", err)
	}
	path := textPath
	if inline {
		path = jsonPath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return Report{}, fmt.Errorf("Validate: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-tar")
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("Validate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("Validate: service returned %s", resp.Status)
	}
	var answer []string
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return Report{}, fmt.Errorf("Validate: decoding answer: %w", err)
	}
	if len(answer) == 0 {
		return Report{}, fmt.Errorf("Validate: empty answer")
	}
	if inline {
		return parseJSONReport(answer[0])
	}
	return parseTextReport(answer[0])
}

func parseJSONReport(s string) (Report, error) {
	var r struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Report{}, fmt.Errorf("Validate: bad JSON report: %w", err)
	}
	return Report{Score: r.Score, JSON: json.RawMessage(s)}, nil
}

func parseTextReport(s string) (Report, error) {
	first, _, _ := strings.Cut(s, "\n")
	f := strings.Fields(first)
	if len(f) == 0 {
		return Report{}, fmt.Errorf("Validate: report without a score line")
	}
	score, err := strconv.ParseFloat(f[len(f)-1], 64)
	if err != nil {
		return Report{}, fmt.Errorf("Validate: bad score %q: %w", f[len(f)-1], err)
	}
	return Report{Score: score, Text: s}, nil
}

// tarFiles builds an uncompressed tar archive in memory. Compressed files are
// stored decompressed.
func tarFiles(files map[string]string) ([]byte, error) {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range names {
		data, err := readAll(files[name])
		if err != nil {
			return nil, err
		}
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tw.Write(data); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readAll(path string) ([]byte, error) {
	r, err := dft.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
