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

// Package filefilter selects the game files of a collection from its
// directories using include and exclude rules.
package filefilter

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Group is one side of a filter. A file matches the group if its extension
// is listed, its path is listed, or its path matches the regex.
type Group struct {
	Regex      string
	Extensions []string
	Files      []string
}

// Filter describes which files below Directories belong to a collection.
// Exclude rules always win over include rules.
type Filter struct {
	Collection  string
	Directories []string
	Include     Group
	Exclude     Group
}

// New returns a filter for the collection rooted at dir.
func New(collection, dir string) *Filter {
	return &Filter{
		Collection:  collection,
		Directories: []string{dir},
	}
}

// NeedsScan reports whether the filter has rules that require walking the
// directories, as opposed to only listing explicit files.
func (f *Filter) NeedsScan() bool {
	if len(f.Include.Extensions) > 0 {
		return true
	}
	return compileRegex(f.Include.Regex) != nil
}

type compiled struct {
	includeExts  map[string]struct{}
	excludeExts  map[string]struct{}
	excludeFiles map[string]struct{}
	includeRe    *regexp.Regexp
	excludeRe    *regexp.Regexp
}

// Passes reports whether path is accepted by the exclude-first rules of
// the compiled filter.
func (c *compiled) Passes(path string) bool {
	ext := normalizeExt(filepath.Ext(path))

	if _, ok := c.excludeExts[ext]; ok {
		return false
	}
	if _, ok := c.excludeFiles[path]; ok {
		return false
	}
	if c.excludeRe != nil && c.excludeRe.MatchString(path) {
		return false
	}

	if _, ok := c.includeExts[ext]; ok {
		return true
	}
	return c.includeRe != nil && c.includeRe.MatchString(path)
}

// Resolve returns the canonical paths of every file accepted by the
// filter, without duplicates, in discovery order. Directories that no
// longer exist contribute nothing.
func Resolve(fs afero.Fs, f *Filter) []string {
	dirs := make([]string, 0, len(f.Directories))
	for _, dir := range dedup(f.Directories) {
		canonical, ok := helpers.CanonicalPath(fs, dir)
		if !ok {
			log.Debug().Str("collection", f.Collection).Str("dir", dir).
				Msg("filter directory not found, skipped")
			continue
		}
		dirs = append(dirs, canonical)
	}
	dirs = dedup(dirs)

	c := &compiled{
		includeExts:  extSet(f.Include.Extensions),
		excludeExts:  extSet(f.Exclude.Extensions),
		excludeFiles: make(map[string]struct{}),
		includeRe:    compileRegex(f.Include.Regex),
		excludeRe:    compileRegex(f.Exclude.Regex),
	}

	for _, p := range resolveFiles(fs, dirs, f.Exclude.Files) {
		c.excludeFiles[p] = struct{}{}
	}

	r := &results{seen: make(map[string]struct{})}
	for _, p := range resolveFiles(fs, dirs, f.Include.Files) {
		if _, excluded := c.excludeFiles[p]; excluded {
			continue
		}
		r.add(p)
	}

	if len(c.includeExts) == 0 && c.includeRe == nil {
		return r.paths
	}

	// a base nested inside another one is reached by the outer walk first,
	// so the media directory of every base is skipped by path
	media := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		media[filepath.Join(dir, assets.MediaDir)] = struct{}{}
	}

	visited := make(map[string]struct{})
	for _, dir := range dirs {
		scanDir(fs, dir, c, r, media, visited)
	}
	return r.paths
}

type results struct {
	seen  map[string]struct{}
	paths []string
}

func (r *results) add(p string) {
	if _, ok := r.seen[p]; ok {
		return
	}
	r.seen[p] = struct{}{}
	r.paths = append(r.paths, p)
}

// scanDir adds the matching files directly inside dir first, then descends
// into subdirectories. The media directories of the base directories are
// never entered.
func scanDir(
	fs afero.Fs,
	dir string,
	c *compiled,
	r *results,
	media map[string]struct{},
	visited map[string]struct{},
) {
	if _, ok := visited[dir]; ok {
		return
	}
	visited[dir] = struct{}{}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("failed to read directory")
		return
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			info, err = fs.Stat(path)
			if err != nil {
				continue
			}
		}

		if info.IsDir() {
			if _, skip := media[path]; skip {
				continue
			}
			subdirs = append(subdirs, path)
			continue
		}

		canonical, ok := helpers.CanonicalPath(fs, path)
		if !ok {
			continue
		}
		if c.Passes(canonical) {
			r.add(canonical)
		}
	}

	for _, sub := range subdirs {
		canonical, ok := helpers.CanonicalPath(fs, sub)
		if !ok {
			continue
		}
		scanDir(fs, canonical, c, r, media, visited)
	}
}

func resolveFiles(fs afero.Fs, dirs, files []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		for _, rel := range dedup(files) {
			p, ok := helpers.CanonicalPath(fs, helpers.ResolvePath(dir, rel))
			if !ok {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func compileRegex(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := helpers.GlobalRegexCache.Compile(pattern)
	if err != nil {
		return nil
	}
	return re
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func extSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if n := normalizeExt(ext); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func dedup(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
