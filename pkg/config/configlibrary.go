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

package config

import (
	"path/filepath"
	"slices"
	"time"
)

// Library lists where the metadata files and game directories live.
type Library struct {
	MetafilesDir string   `toml:"metafiles_dir,omitempty"`
	GameDirs     []string `toml:"game_dirs,omitempty,multiline"`
}

// Watch configures automatic rescans when the library changes on disk.
type Watch struct {
	Debounce string `toml:"debounce,omitempty"`
	Enabled  bool   `toml:"enabled"`
}

const DefaultWatchDebounce = 2 * time.Second

// GameDirs returns the configured game directories.
func (c *Instance) GameDirs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Library.GameDirs)
}

// AddGameDir appends a game directory if it is not already configured.
func (c *Instance) AddGameDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.vals.Library.GameDirs, dir) {
		return
	}
	c.vals.Library.GameDirs = append(c.vals.Library.GameDirs, dir)
}

// MetafilesDir returns the global metadata directory. Defaults to the
// "metafiles" directory inside configDir. Relative values are resolved
// against configDir.
func (c *Instance) MetafilesDir(configDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dir := c.vals.Library.MetafilesDir
	if dir == "" {
		return filepath.Join(configDir, MetafilesDir)
	}
	if !filepath.IsAbs(dir) {
		return filepath.Join(configDir, dir)
	}
	return dir
}

func (c *Instance) WatchEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Watch.Enabled
}

func (c *Instance) SetWatchEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Watch.Enabled = enabled
}

// WatchDebounce returns how long to wait for file changes to settle before
// rescanning. Invalid or missing values use DefaultWatchDebounce.
func (c *Instance) WatchDebounce() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Watch.Debounce == "" {
		return DefaultWatchDebounce
	}
	d, err := time.ParseDuration(c.vals.Watch.Debounce)
	if err != nil || d <= 0 {
		return DefaultWatchDebounce
	}
	return d
}
