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

// Package pegasus reads collections and games from metadata text files
// placed in the game directories, and matches media files found below
// them to the games.
package pegasus

import (
	"context"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// metafileNames are checked in order in every game directory, the first
// one found is used.
var metafileNames = []string{
	"collections.pegasus.txt",
	"metadata.pegasus.txt",
	"collections.txt",
	"metadata.txt",
}

type Provider struct {
	fs           afero.Fs
	gameDirs     []string
	metafilesDir string
}

// New returns a provider reading the metadata file of every game directory
// plus the global metadata files stored in metafilesDir. An empty
// metafilesDir disables the global files.
func New(fs afero.Fs, gameDirs []string, metafilesDir string) *Provider {
	return &Provider{
		fs:           fs,
		gameDirs:     gameDirs,
		metafilesDir: metafilesDir,
	}
}

func (*Provider) Name() string {
	return config.ProviderPegasus
}

// FindMetafile returns the metadata file of a game directory.
func FindMetafile(fs afero.Fs, dir string) (string, bool) {
	for _, name := range metafileNames {
		path := filepath.Join(dir, name)
		info, err := fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// GlobalMetafiles lists the files of dir named like "metadata.txt",
// "metadata.pegasus.txt" or "<anything>.metadata.txt".
func GlobalMetafiles(fs afero.Fs, dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("no global metadata directory")
		return nil
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !reMetafileName.MatchString(entry.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	return out
}

// Discover parses every metadata file, then runs the collected file
// filters. The directory of every game directory and filter becomes a
// root for the media lookup of Enrich.
func (p *Provider) Discover(ctx context.Context, sc *catalog.SearchContext) error {
	parser := NewParser(p.fs, sc)

	for _, path := range GlobalMetafiles(p.fs, p.metafilesDir) {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("found global metadata file")
		if err := parser.ReadFile(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("metadata file ignored")
		}
	}

	seen := make(map[string]struct{}, len(p.gameDirs))
	for _, dir := range p.gameDirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		canonical, ok := helpers.CanonicalPath(p.fs, dir)
		if !ok {
			log.Warn().Str("dir", dir).Msg("game directory not found, ignored")
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}

		path, ok := FindMetafile(p.fs, canonical)
		if !ok {
			log.Warn().Str("dir", canonical).Msg("no metadata file found, directory ignored")
			continue
		}
		log.Info().Str("file", path).Msg("found metadata file")

		sc.AddRootDir(canonical)
		if err := parser.ReadFile(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("metadata file ignored")
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	filters := parser.Filters()
	ApplyFilters(p.fs, sc, filters)
	for _, f := range filters {
		for _, dir := range f.Directories {
			if canonical, ok := helpers.CanonicalPath(p.fs, dir); ok {
				sc.AddRootDir(canonical)
			}
		}
	}

	for _, name := range sc.Collections() {
		coll, _ := sc.Collection(name)
		for _, id := range sc.CollectionGames(name) {
			sc.Game(id).InheritLaunch(coll.Launch, coll.Workdir)
		}
	}

	log.Info().
		Int("games", len(sc.Games())).
		Int("collections", len(sc.Collections())).
		Int("errors", len(parser.Errors())).
		Msg("metadata files processed")

	return nil
}
