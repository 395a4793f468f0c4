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

// Package esde reads the systems and gamelists of EmulationStation and
// its forks. Every system becomes a collection whose games are the files
// with the system's extensions, and gamelist.xml entries add metadata to
// those games.
package esde

import (
	"context"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/filefilter"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Provider struct {
	fs           afero.Fs
	home         string
	systemsFiles []string
}

// New returns a provider reading the first existing file of systemsFiles,
// or of the default locations below home if none are given. An empty home
// is the user's home directory.
func New(fs afero.Fs, home string, systemsFiles []string) *Provider {
	if home == "" {
		home = xdg.Home
	}
	if len(systemsFiles) == 0 {
		systemsFiles = DefaultSystemsFiles(home)
	}
	return &Provider{
		fs:           fs,
		home:         home,
		systemsFiles: systemsFiles,
	}
}

func (*Provider) Name() string {
	return config.ProviderESDE
}

type system struct {
	System
	dir string
}

// systems returns the valid systems of the systems file.
func (p *Provider) systems() []system {
	path, ok := FindSystemsFile(p.fs, p.systemsFiles)
	if !ok {
		log.Debug().Strs("paths", p.systemsFiles).Msg("es_systems.cfg not found")
		return nil
	}

	list, err := ReadSystems(p.fs, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read systems file")
		return nil
	}

	out := make([]system, 0, len(list.Systems))
	for _, s := range list.Systems {
		if err := s.Validate(); err != nil {
			log.Warn().Err(err).Str("path", path).Str("system", s.Name).Msg("system ignored")
			continue
		}
		out = append(out, system{System: s, dir: SystemDir(s.Path, p.home)})
	}
	return out
}

// Discover creates one collection per system and adds the files matching
// the system's extensions below its directory.
func (p *Provider) Discover(ctx context.Context, sc *catalog.SearchContext) error {
	total := 0
	for _, s := range p.systems() {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := s.CollectionName()
		coll := sc.GetOrCreateCollection(name)
		coll.SetShortName(s.Name)
		coll.SetLaunch(LaunchCommand(s.Command))
		coll.SetBaseDir(s.dir)

		f := filefilter.New(name, s.dir)
		f.Include.Extensions = ParseExtensions(s.Extension)

		paths := filefilter.Resolve(p.fs, f)
		for _, path := range paths {
			id, _ := sc.GetOrCreateGame(path)
			sc.AddToCollection(name, id)
			sc.Game(id).InheritLaunch(coll.Launch, coll.Workdir)
		}
		if dir, ok := helpers.CanonicalPath(p.fs, s.dir); ok {
			sc.AddRootDir(dir)
		}

		total += len(paths)
		log.Debug().Str("system", s.Name).Int("count", len(paths)).Msg("scanned system")
	}

	log.Info().Int("games", total).Msg("emulationstation systems scanned")
	return nil
}

// Enrich applies the gamelist.xml of every system to the games already
// known. Entries for unknown files are skipped.
func (p *Provider) Enrich(ctx context.Context, sc *catalog.SearchContext) error {
	for _, s := range p.systems() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var list GameList
		var found bool
		for _, path := range GamelistFiles(s.System, s.dir, p.home) {
			if _, err := p.fs.Stat(path); err != nil {
				continue
			}
			l, err := ReadGameList(p.fs, path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("gamelist ignored")
				continue
			}
			list, found = l, true
			break
		}
		if !found {
			continue
		}

		applied := 0
		for i := range list.Games {
			e := &list.Games[i]
			if e.Path == "" {
				continue
			}
			path, ok := helpers.CanonicalPath(p.fs, ResolveGamePath(e.Path, s.dir, p.home))
			if !ok {
				continue
			}
			id, ok := sc.GameByPath(path)
			if !ok {
				continue
			}
			applyEntry(p.fs, sc.Game(id), e, s.dir, p.home)
			applied++
		}

		log.Debug().Str("system", s.Name).Int("count", applied).Msg("applied gamelist metadata")
	}
	return nil
}
