/*
 * serve.go, part of dftpif.
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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	pif "github.com/rmera/dftpif"
	"github.com/rmera/dftpif/driver"
	"github.com/rmera/dftpif/quality"
)

// maxArchive is the largest archive the server downloads.
const maxArchive = 1 << 30

type server struct {
	opts   driver.Options
	client *http.Client
}

type convertRequest struct {
	URL string `json:"url"`
}

type convertResponse struct {
	System *pif.ChemicalSystem `json:"system"`
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/convert/from/tarfile", s.handleConvertTarfile)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleConvertTarfile downloads the tar archive at the URL given in the request
// and answers with its record.
func (s *server) handleConvertTarfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req convertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "the body must be a JSON object with a url", http.StatusBadRequest)
		return
	}
	scratch, err := driver.NewScratch(s.opts.ScratchRoot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer scratch.Close()
	archive := filepath.Join(scratch.Dir, "file_to_process")
	if err := s.download(r.Context(), req.URL, archive); err != nil {
		s.opts.Logger.Warn("download failed", "url", req.URL, "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	sys, err := driver.TarfileToPIF(r.Context(), archive, s.opts)
	if err != nil {
		s.opts.Logger.Warn("conversion failed", "url", req.URL, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.opts.Logger.Info("converted", "url", req.URL, "formula", sys.Formula)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(convertResponse{System: sys})
}

func (s *server) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, io.LimitReader(resp.Body, maxArchive+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxArchive {
		err = errors.New("archive is too large")
	}
	return err
}

// reportsTo makes quality reports that are not stored elsewhere go to dir.
// Downloaded archives are removed after each request, so reports cannot stay next to them.
func reportsTo(opts driver.Options, dir string) driver.Options {
	if opts.QualityReport && !opts.Inline && opts.Sink == nil {
		opts.Sink = quality.FileSink{Dir: dir, Unique: true}
	}
	return opts
}

func newServeCmd(g *globals) *cobra.Command {
	var addr, reports string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions of tar archives over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := g.setup(cmd)
			if err != nil {
				return err
			}
			s := &server{opts: reportsTo(opts, reports), client: &http.Client{Timeout: 10 * time.Minute}}
			srv := &http.Server{
				Addr:        addr,
				Handler:     s.routes(),
				ReadTimeout: 15 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			opts.Logger.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "address to listen on")
	cmd.Flags().StringVar(&reports, "reports-dir", "reports", "directory for quality reports, when no s3 block is configured")
	return cmd
}
