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

package assets

import (
	"path/filepath"
	"strings"
)

// MediaDir is the reserved directory name holding asset files next to
// the game files. It is never scanned for games.
const MediaDir = "media"

// Index maps "<directory>/<name>" keys of known games to their handles, so
// media files can be matched back to the game they belong to.
type Index[V any] struct {
	entries map[string]V
}

// NewIndex returns an empty index.
func NewIndex[V any]() *Index[V] {
	return &Index[V]{entries: make(map[string]V)}
}

// Key builds the lookup key for a name inside a directory.
func Key(dir, name string) string {
	return filepath.Join(filepath.Clean(dir), name)
}

// Add registers a key. The first value added for a key is kept.
func (x *Index[V]) Add(key string, v V) {
	if _, ok := x.entries[key]; ok {
		return
	}
	x.entries[key] = v
}

// Get looks up a key directly.
func (x *Index[V]) Get(key string) (V, bool) {
	v, ok := x.entries[key]
	return v, ok
}

// Len returns the number of keys.
func (x *Index[V]) Len() int {
	return len(x.entries)
}

// MediaKey strips the media directory segment below root from a media
// path, turning "<root>/media/<sub>/<name>" into "<root>/<sub>/<name>".
// It returns false if path is not inside "<root>/media".
func MediaKey(root, path string) (string, bool) {
	root = filepath.Clean(root)
	mediaRoot := filepath.Join(root, MediaDir)
	rel, err := filepath.Rel(mediaRoot, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.Join(root, rel), true
}
