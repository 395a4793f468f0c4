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

// Package lutris reads the installed games of the Lutris game manager from
// its pga.db database.
package lutris

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	CollectionName = "Lutris"
	uriPrefix      = "lutris:rungame/"
	flatpakID      = "net.lutris.Lutris"
)

// Game is one installed game row of pga.db.
type Game struct {
	LastPlayed time.Time
	Name       string
	Slug       string
	Platform   string
	Runner     string
	Directory  string
	Year       int
	PlayTime   time.Duration
}

// URI returns the catalog identity of a Lutris game.
func URI(slug string) string {
	return uriPrefix + slug
}

// SlugFromURI extracts the game slug of a Lutris identity.
func SlugFromURI(uri string) (string, bool) {
	slug, ok := strings.CutPrefix(uri, uriPrefix)
	if !ok || slug == "" {
		return "", false
	}
	return slug, true
}

func LaunchCommand(slug string) string {
	return "lutris " + URI(slug)
}

// DataDirs returns the native and Flatpak Lutris data directories.
func DataDirs() []string {
	return []string{
		filepath.Join(xdg.DataHome, "lutris"),
		filepath.Join(xdg.Home, ".var", "app", flatpakID, "data", "lutris"),
	}
}

// gamesQuery selects installed games. NULL columns are read as zero
// values.
const gamesQuery = `SELECT name, slug,
	COALESCE(platform, ''), COALESCE(runner, ''), COALESCE(directory, ''),
	COALESCE(year, 0), COALESCE(lastplayed, 0), COALESCE(playtime, 0)
	FROM games WHERE installed = 1 ORDER BY name`

// ReadGames returns every installed game with a slug.
func ReadGames(ctx context.Context, db *sql.DB) ([]Game, error) {
	rows, err := db.QueryContext(ctx, gamesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query lutris games: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close lutris query rows")
		}
	}()

	var games []Game
	for rows.Next() {
		var (
			g          Game
			lastPlayed int64
			hours      float64
		)
		err := rows.Scan(&g.Name, &g.Slug, &g.Platform, &g.Runner,
			&g.Directory, &g.Year, &lastPlayed, &hours)
		if err != nil {
			log.Warn().Err(err).Msg("failed to scan lutris game row")
			continue
		}
		if g.Slug == "" {
			continue
		}
		if lastPlayed > 0 {
			g.LastPlayed = time.Unix(lastPlayed, 0).UTC()
		}
		if hours > 0 {
			g.PlayTime = time.Duration(hours * float64(time.Hour))
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return games, fmt.Errorf("error iterating lutris game rows: %w", err)
	}
	return games, nil
}

type Provider struct {
	fs       afero.Fs
	database string
	dataDirs []string
}

// New returns a provider reading database, or pga.db in the first
// existing Lutris data directory if database is empty.
func New(fs afero.Fs, database string) *Provider {
	return &Provider{
		fs:       fs,
		database: database,
		dataDirs: DataDirs(),
	}
}

func (*Provider) Name() string {
	return config.ProviderLutris
}

func (p *Provider) dataDir() (string, bool) {
	if p.database != "" {
		return filepath.Dir(p.database), true
	}
	for _, dir := range p.dataDirs {
		if _, err := p.fs.Stat(filepath.Join(dir, "pga.db")); err == nil {
			return dir, true
		}
	}
	return "", false
}

func (p *Provider) open() (*sql.DB, error) {
	path := p.database
	if path == "" {
		dir, ok := p.dataDir()
		if !ok {
			return nil, os.ErrNotExist
		}
		path = filepath.Join(dir, "pga.db")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, os.ErrNotExist
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open lutris database: %w", err)
	}
	return db, nil
}

// Discover adds every installed Lutris game to the Lutris collection.
func (p *Provider) Discover(ctx context.Context, sc *catalog.SearchContext) error {
	db, err := p.open()
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Msg("lutris database not found")
		return nil
	} else if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close lutris database")
		}
	}()

	games, err := ReadGames(ctx, db)
	if err != nil {
		return err
	}
	Apply(sc, games)
	log.Info().Int("games", len(games)).Msg("lutris games scanned")
	return nil
}

// Apply adds games to the Lutris collection of sc.
func Apply(sc *catalog.SearchContext, games []Game) {
	if len(games) == 0 {
		return
	}
	sc.GetOrCreateCollection(CollectionName).SetShortName("lutris")

	for _, lg := range games {
		id, _ := sc.GetOrCreateGame(URI(lg.Slug))
		g := sc.Game(id)
		g.SetTitle(lg.Name)
		g.SetLaunch(LaunchCommand(lg.Slug))
		g.SetWorkdir(lg.Directory)
		g.AddTags(lg.Platform, lg.Runner)
		if lg.Year > 0 {
			g.SetRelease(time.Date(lg.Year, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
		g.SetPlayStats(0, lg.PlayTime, lg.LastPlayed)
		sc.AddToCollection(CollectionName, id)
	}
}

// artwork lists the image directories of a Lutris data directory.
var artwork = []struct {
	dir string
	t   assets.Type
}{
	{"coverart", assets.BoxFront},
	{"banners", assets.UIBanner},
}

// Enrich attaches the cover art and banners downloaded by Lutris.
func (p *Provider) Enrich(ctx context.Context, sc *catalog.SearchContext) error {
	dir, ok := p.dataDir()
	if !ok {
		return nil
	}

	for _, id := range sc.CollectionGames(CollectionName) {
		if err := ctx.Err(); err != nil {
			return err
		}
		g := sc.Game(id)
		for _, f := range g.Files {
			slug, ok := SlugFromURI(f.Path)
			if !ok {
				continue
			}
			for _, art := range artwork {
				for _, ext := range []string{".jpg", ".png"} {
					path := filepath.Join(dir, art.dir, slug+ext)
					if _, err := p.fs.Stat(path); err == nil {
						g.Assets.Add(art.t, helpers.FileURL(path))
					}
				}
			}
		}
	}
	return nil
}
