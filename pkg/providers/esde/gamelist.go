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

package esde

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// GameEntry represents a game from an EmulationStation gamelist.xml file.
type GameEntry struct {
	Path        string `xml:"path"`
	Name        string `xml:"name"`
	Desc        string `xml:"desc"`
	Developer   string `xml:"developer"`
	Publisher   string `xml:"publisher"`
	Genre       string `xml:"genre"`
	Players     string `xml:"players"`
	Rating      string `xml:"rating"`
	ReleaseDate string `xml:"releasedate"`
	PlayCount   string `xml:"playcount"`
	LastPlayed  string `xml:"lastplayed"`
	Favorite    string `xml:"favorite"`
	Image       string `xml:"image"`
	Marquee     string `xml:"marquee"`
	Video       string `xml:"video"`
}

// GameList represents the structure of an EmulationStation gamelist.xml file.
type GameList struct {
	XMLName xml.Name    `xml:"gameList"`
	Games   []GameEntry `xml:"game"`
}

// DateFormat is the timestamp layout of releasedate and lastplayed.
const DateFormat = "20060102T150405"

var rePlayers = regexp.MustCompile(`(\d+)(-(\d+))?`)

// ReadGameList reads and parses a gamelist.xml file.
func ReadGameList(fs afero.Fs, path string) (GameList, error) {
	f, err := fs.Open(path)
	if err != nil {
		return GameList{}, fmt.Errorf("failed to open gamelist.xml at %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing gamelist.xml file")
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return GameList{}, fmt.Errorf("failed to read gamelist.xml at %s: %w", path, err)
	}

	var gameList GameList
	if err := xml.Unmarshal(data, &gameList); err != nil {
		return GameList{}, fmt.Errorf("failed to parse gamelist.xml: %w", err)
	}
	return gameList, nil
}

// GamelistFiles returns the gamelist.xml locations of a system, in lookup
// order.
func GamelistFiles(sys System, systemDir, home string) []string {
	return []string{
		filepath.Join(systemDir, "gamelist.xml"),
		filepath.Join(home, ".emulationstation", "gamelists", sys.Name, "gamelist.xml"),
		filepath.Join("/etc/emulationstation/gamelists", sys.Name, "gamelist.xml"),
	}
}

// ResolveGamePath resolves a gamelist path to an absolute path. Paths
// starting with "./" or without prefix are relative to the system
// directory, "~/" is the home directory.
func ResolveGamePath(gamePath, systemDir, home string) string {
	switch {
	case filepath.IsAbs(gamePath):
		return filepath.Clean(gamePath)
	case strings.HasPrefix(gamePath, "~/"):
		return filepath.Join(home, gamePath[2:])
	default:
		return filepath.Join(systemDir, strings.TrimPrefix(gamePath, "./"))
	}
}

func parseBool(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "yes") || strings.EqualFold(s, "true") || s == "1"
}

// applyEntry copies the metadata of a gamelist entry onto a game, keeping
// values already set by an earlier source.
func applyEntry(fs afero.Fs, g *catalog.Game, e *GameEntry, systemDir, home string) {
	g.SetTitle(strings.TrimSpace(e.Name))
	g.SetDescription(strings.TrimSpace(e.Desc))
	g.AddDevelopers(strings.TrimSpace(e.Developer))
	g.AddPublishers(strings.TrimSpace(e.Publisher))
	g.AddGenres(strings.TrimSpace(e.Genre))

	if m := rePlayers.FindStringSubmatch(e.Players); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[3])
		g.SetPlayers(max(a, b))
	}

	if r, err := strconv.ParseFloat(strings.TrimSpace(e.Rating), 64); err == nil {
		g.SetRating(r)
	}

	if t, err := time.Parse(DateFormat, strings.TrimSpace(e.ReleaseDate)); err == nil {
		g.SetRelease(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	}

	count, _ := strconv.Atoi(strings.TrimSpace(e.PlayCount))
	lastPlayed, _ := time.Parse(DateFormat, strings.TrimSpace(e.LastPlayed))
	g.SetPlayStats(count, 0, lastPlayed)

	if parseBool(e.Favorite) {
		g.SetFavorite(true)
	}

	for _, a := range []struct {
		path string
		t    assets.Type
	}{
		{e.Image, assets.BoxFront},
		{e.Marquee, assets.ArcadeMarquee},
		{e.Video, assets.Video},
	} {
		if strings.TrimSpace(a.path) == "" {
			continue
		}
		p, ok := helpers.CanonicalPath(fs, ResolveGamePath(strings.TrimSpace(a.path), systemDir, home))
		if !ok {
			continue
		}
		g.Assets.Add(a.t, helpers.FileURL(p))
	}
}
