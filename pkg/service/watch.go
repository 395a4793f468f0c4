// Zaparoo Library
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Library.
//
// Zaparoo Library is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Library.  If not, see <http://www.gnu.org/licenses/>.

package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// WatchDirs returns the directories whose changes trigger a rescan: the
// configured game directories and the global metadata directory.
func (l *Library) WatchDirs() []string {
	dirs := l.cfg.GameDirs()
	dirs = append(dirs, l.cfg.MetafilesDir(l.configDir))

	var out []string
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		canonical, ok := helpers.CanonicalPath(l.fs, dir)
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}

func addTree(w *fsnotify.Watcher, root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("skipping inaccessible path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.Add(path); addErr != nil {
			log.Warn().Err(addErr).Str("path", path).Msg("failed to watch directory")
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("failed to walk watched directory")
	}
}

// Watch rescans the library whenever files below the watched directories
// change, once no change arrived for the configured debounce period. It
// blocks until ctx is cancelled.
func (l *Library) Watch(ctx context.Context) error {
	dirs := l.WatchDirs()
	if len(dirs) == 0 {
		return errors.New("no existing directories to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close watcher")
		}
	}()

	for _, dir := range dirs {
		addTree(w, dir)
	}
	log.Info().Strs("dirs", dirs).Msg("watching library for changes")

	debounce := l.cfg.WatchDebounce()
	var (
		timer  clockwork.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			log.Debug().Str("path", evt.Name).Str("op", evt.Op.String()).Msg("library changed")

			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					addTree(w, evt.Name)
				}
			}

			if timer == nil {
				timer = l.clock.NewTimer(debounce)
			} else {
				resetTimer(timer, debounce)
			}
			timerC = timer.Chan()

		case <-timerC:
			timerC = nil
			if _, res, err := l.Rescan(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("rescan after change failed")
			} else {
				log.Info().Int("games", res.Games).Dur("elapsed", res.Elapsed).
					Msg("library rescanned after change")
			}

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// resetTimer restarts t, dropping a tick that fired but was not received
// yet so it cannot end the new period early.
func resetTimer(t clockwork.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
	t.Reset(d)
}
