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

package catalog

import (
	"slices"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
)

// GameID is the handle of a game inside one SearchContext.
type GameID int

// NoGame is the zero handle, never assigned to a game.
const NoGame GameID = 0

// GameFile is one launchable entry of a game. Path is either a canonical
// absolute file path or a launcher URI such as "steam:620".
type GameFile struct {
	LastPlayed time.Time
	Path       string
	Name       string
	PlayCount  int
	PlayTime   time.Duration
}

// Game is a catalog entry. Setters follow the merge policy of the catalog:
// scalar fields keep the first non-empty value they receive and list fields
// accumulate unique values in order.
type Game struct {
	Release     time.Time
	LastPlayed  time.Time
	Assets      assets.Bag
	Title       string
	SortTitle   string
	Summary     string
	Description string
	Launch      string
	Workdir     string
	Developers  []string
	Publishers  []string
	Genres      []string
	Tags        []string
	Files       []GameFile
	Collections []string
	ID          GameID
	Players     int
	Rating      float64
	PlayCount   int
	PlayTime    time.Duration
	Favorite    bool

	hasRating        bool
	launchInherited  bool
	workdirInherited bool
}

func setFirst(field *string, value string) bool {
	if *field != "" || value == "" {
		return false
	}
	*field = value
	return true
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" || slices.Contains(list, v) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func (g *Game) SetTitle(v string) bool       { return setFirst(&g.Title, v) }
func (g *Game) SetSortTitle(v string) bool   { return setFirst(&g.SortTitle, v) }
func (g *Game) SetSummary(v string) bool     { return setFirst(&g.Summary, v) }
func (g *Game) SetDescription(v string) bool { return setFirst(&g.Description, v) }

func (g *Game) AddDevelopers(v ...string) { g.Developers = appendUnique(g.Developers, v...) }
func (g *Game) AddPublishers(v ...string) { g.Publishers = appendUnique(g.Publishers, v...) }
func (g *Game) AddGenres(v ...string)     { g.Genres = appendUnique(g.Genres, v...) }
func (g *Game) AddTags(v ...string)       { g.Tags = appendUnique(g.Tags, v...) }

// SetLaunch sets the game's own launch command. It replaces a command
// inherited from a collection but not one set explicitly before.
func (g *Game) SetLaunch(cmd string) bool {
	if cmd == "" || (g.Launch != "" && !g.launchInherited) {
		return false
	}
	g.Launch = cmd
	g.launchInherited = false
	return true
}

// SetWorkdir sets the game's own working directory, with the same rules
// as SetLaunch.
func (g *Game) SetWorkdir(dir string) bool {
	if dir == "" || (g.Workdir != "" && !g.workdirInherited) {
		return false
	}
	g.Workdir = dir
	g.workdirInherited = false
	return true
}

// InheritLaunch fills the launch command and working directory from a
// collection where the game has none yet.
func (g *Game) InheritLaunch(cmd, workdir string) {
	if g.Launch == "" && cmd != "" {
		g.Launch = cmd
		g.launchInherited = true
	}
	if g.Workdir == "" && workdir != "" {
		g.Workdir = workdir
		g.workdirInherited = true
	}
}

// LaunchInherited reports whether the launch command came from a collection.
func (g *Game) LaunchInherited() bool {
	return g.launchInherited
}

// SetPlayers sets the player count if it is unset.
func (g *Game) SetPlayers(n int) bool {
	if g.Players != 0 || n <= 0 {
		return false
	}
	g.Players = n
	return true
}

// PlayerCount returns the number of players, at least one.
func (g *Game) PlayerCount() int {
	return max(1, g.Players)
}

// SetRating sets the rating, clamped to [0, 1], if no rating was set yet.
func (g *Game) SetRating(r float64) bool {
	if g.hasRating {
		return false
	}
	g.Rating = min(1, max(0, r))
	g.hasRating = true
	return true
}

// HasRating reports whether a rating was set.
func (g *Game) HasRating() bool {
	return g.hasRating
}

func (g *Game) SetRelease(t time.Time) bool {
	if !g.Release.IsZero() || t.IsZero() {
		return false
	}
	g.Release = t
	return true
}

// SetFavorite marks the game as favorite. A favorite flag is never cleared
// by a later source.
func (g *Game) SetFavorite(fav bool) {
	g.Favorite = g.Favorite || fav
}

// SetPlayStats fills the play count, total play time and last played time
// where they are unset.
func (g *Game) SetPlayStats(count int, total time.Duration, last time.Time) {
	if g.PlayCount == 0 && count > 0 {
		g.PlayCount = count
	}
	if g.PlayTime == 0 && total > 0 {
		g.PlayTime = total
	}
	if g.LastPlayed.IsZero() && !last.IsZero() {
		g.LastPlayed = last
	}
}

// PrimaryPath returns the path or URI of the first file, empty if the game
// has no files.
func (g *Game) PrimaryPath() string {
	if len(g.Files) == 0 {
		return ""
	}
	return g.Files[0].Path
}

// File returns the file entry with the given path.
func (g *Game) File(path string) (*GameFile, bool) {
	for i := range g.Files {
		if g.Files[i].Path == path {
			return &g.Files[i], true
		}
	}
	return nil, false
}

// mergeFrom fills the game from other, keeping every value already set.
func (g *Game) mergeFrom(other *Game) {
	g.SetTitle(other.Title)
	g.SetSortTitle(other.SortTitle)
	g.SetSummary(other.Summary)
	g.SetDescription(other.Description)

	if other.launchInherited {
		g.InheritLaunch(other.Launch, "")
	} else {
		g.SetLaunch(other.Launch)
	}
	if other.workdirInherited {
		g.InheritLaunch("", other.Workdir)
	} else {
		g.SetWorkdir(other.Workdir)
	}

	g.AddDevelopers(other.Developers...)
	g.AddPublishers(other.Publishers...)
	g.AddGenres(other.Genres...)
	g.AddTags(other.Tags...)
	g.SetPlayers(other.Players)
	if other.hasRating {
		g.SetRating(other.Rating)
	}
	g.SetRelease(other.Release)
	g.SetFavorite(other.Favorite)
	g.SetPlayStats(other.PlayCount, other.PlayTime, other.LastPlayed)
	g.Assets.Merge(&other.Assets)

	for _, f := range other.Files {
		if _, ok := g.File(f.Path); !ok {
			g.Files = append(g.Files, f)
		}
	}
}

func (g *Game) clone() *Game {
	c := *g
	c.Developers = slices.Clone(g.Developers)
	c.Publishers = slices.Clone(g.Publishers)
	c.Genres = slices.Clone(g.Genres)
	c.Tags = slices.Clone(g.Tags)
	c.Files = slices.Clone(g.Files)
	c.Collections = slices.Clone(g.Collections)
	c.Assets = assets.Bag{}
	c.Assets.Merge(&g.Assets)
	return &c
}
