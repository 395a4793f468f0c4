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

// Package steam reads the installed apps of a local Steam installation.
package steam

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	// CollectionName is the collection every Steam game belongs to.
	CollectionName = "Steam"
	uriScheme      = "steam:"
)

// URI returns the catalog identity of a Steam app.
func URI(appID string) string {
	return uriScheme + appID
}

// AppIDFromURI extracts the app id of a Steam game identity.
func AppIDFromURI(uri string) (string, bool) {
	id, ok := strings.CutPrefix(uri, uriScheme)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// LaunchCommand returns the command starting an app through the Steam
// client.
func LaunchCommand(appID string) string {
	return "steam steam://rungameid/" + appID
}

// DefaultRoots returns the usual locations of the Steam root directory on
// Linux, including the Flatpak package.
func DefaultRoots() []string {
	return []string{
		filepath.Join(xdg.Home, ".steam", "steam"),
		filepath.Join(xdg.DataHome, "Steam"),
		filepath.Join(xdg.Home, ".var", "app", "com.valvesoftware.Steam", "data", "Steam"),
	}
}

type Provider struct {
	fs       afero.Fs
	roots    []string
	cacheDir string
}

// New returns a provider for the Steam installation at root, or the first
// existing default location if root is empty. cacheDir holds cached store
// details as <appid>.json files; it may be empty.
func New(fs afero.Fs, root, cacheDir string) *Provider {
	roots := DefaultRoots()
	if root != "" {
		roots = []string{root}
	}
	return &Provider{
		fs:       fs,
		roots:    roots,
		cacheDir: cacheDir,
	}
}

func (*Provider) Name() string {
	return config.ProviderSteam
}

func (p *Provider) root() (string, bool) {
	for _, root := range p.roots {
		if info, err := p.fs.Stat(filepath.Join(root, "steamapps")); err == nil && info.IsDir() {
			return root, true
		}
	}
	return "", false
}

// Discover adds every installed app, except tools and runtimes, to the
// Steam collection.
func (p *Provider) Discover(ctx context.Context, sc *catalog.SearchContext) error {
	root, ok := p.root()
	if !ok {
		log.Info().Msg("no steam installation found")
		return nil
	}
	log.Info().Str("root", root).Msg("found steam installation")

	count := 0
	for _, dir := range LibraryDirs(p.fs, root) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, app := range ScanManifests(p.fs, dir) {
			if IsTool(app) {
				log.Debug().Str("app", app.Name).Msg("skipping steam tool")
				continue
			}

			id, _ := sc.GetOrCreateGame(URI(app.AppID))
			g := sc.Game(id)
			g.SetTitle(app.Name)
			g.SetLaunch(LaunchCommand(app.AppID))
			if app.InstallDir != "" {
				g.SetWorkdir(filepath.Join(dir, "common", app.InstallDir))
			}
			sc.AddToCollection(CollectionName, id)
			count++
		}
	}

	if count > 0 {
		sc.GetOrCreateCollection(CollectionName).SetShortName("steam")
	}
	log.Info().Int("games", count).Msg("steam apps scanned")
	return nil
}

// Enrich attaches the images of the Steam library cache and the cached
// store details to every Steam game.
func (p *Provider) Enrich(ctx context.Context, sc *catalog.SearchContext) error {
	root, ok := p.root()
	if !ok {
		return nil
	}
	cache := filepath.Join(root, "appcache", "librarycache")

	for _, id := range sc.CollectionGames(CollectionName) {
		if err := ctx.Err(); err != nil {
			return err
		}
		g := sc.Game(id)
		for _, f := range g.Files {
			appID, ok := AppIDFromURI(f.Path)
			if !ok {
				continue
			}
			addLibraryImages(p.fs, g, cache, appID)
			if p.cacheDir != "" {
				applyAppDetails(p.fs, g, filepath.Join(p.cacheDir, appID+".json"), appID)
			}
		}
	}
	return nil
}
