/*
 * watch.go, part of dftpif.
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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rmera/dftpif/driver"
)

// watcher reports the calculations that appear in a directory: tar archives
// and sub-directories, once they have not changed for settle.
type watcher struct {
	fs     *fsnotify.Watcher
	settle time.Duration
	logger *slog.Logger
}

func newWatcher(settle time.Duration, logger *slog.Logger) (*watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &watcher{fs: w, settle: settle, logger: logger}, nil
}

// follow adds a new sub-directory to the watch list, so that files written
// into it keep delaying its conversion.
func (w *watcher) follow(path string) {
	if err := w.fs.Add(path); err != nil {
		w.logger.Warn("cannot watch directory, it may be converted before it is complete", "path", path, "err", err)
	}
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

// candidate reports whether path could hold a calculation.
func candidate(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir() || driver.IsTarfile(path)
}

// top returns the entry of dir that contains path.
func top(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	first, _, _ := strings.Cut(rel, string(filepath.Separator))
	return filepath.Join(dir, first)
}

// Watch sends on the returned channel every calculation that shows up in dir.
// The channel is closed when ctx is done or the watcher is closed.
func (w *watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.fs.Add(dir); err != nil {
		return nil, err
	}
	ready := make(chan string, 16)
	go func() {
		defer close(ready)
		pending := make(map[string]time.Time)
		tick := time.NewTicker(w.settle / 2)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
					continue
				}
				//files written inside a new directory delay it too
				path := top(dir, ev.Name)
				if !candidate(path) {
					continue
				}
				if path == filepath.Clean(ev.Name) && ev.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						w.follow(path)
					}
				}
				pending[path] = time.Now()
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Error("watcher error", "dir", dir, "err", err)
			case now := <-tick.C:
				for path, last := range pending {
					if now.Sub(last) < w.settle {
						continue
					}
					delete(pending, path)
					select {
					case ready <- path:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return ready, nil
}

func newWatchCmd(g *globals) *cobra.Command {
	var settle time.Duration
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Convert every calculation that is added to DIR",
		Long: "Watches DIR and converts the tar archives and directories that are added to it.\n" +
			"Records are stored in the catalog, which is then required.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if cfg.Catalog == "" {
				return errNoCatalog
			}
			w, err := newWatcher(settle, opts.Logger)
			if err != nil {
				return err
			}
			defer w.Close()
			ready, err := w.Watch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts.Logger.Info("watching", "dir", args[0])
			for path := range ready {
				sys, err := driver.Convert(cmd.Context(), []string{path}, opts)
				if err != nil {
					opts.Logger.Error("conversion failed", "path", path, "err", err)
					continue
				}
				key, err := store(cfg.Catalog, sys, path)
				if err != nil {
					return err
				}
				opts.Logger.Info("converted", "path", path, "formula", sys.Formula, "key", key)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", 2*time.Second, "time a new entry must stay unchanged before it is converted")
	return cmd
}
