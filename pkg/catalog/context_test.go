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
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateGame(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	a, created := sc.GetOrCreateGame("/games/a.rom")
	assert.True(t, created)
	b, created := sc.GetOrCreateGame("/games/a.rom")
	assert.False(t, created)
	assert.Equal(t, a, b)

	id, ok := sc.GameByPath("/games/a.rom")
	assert.True(t, ok)
	assert.Equal(t, a, id)
	assert.Equal(t, "/games/a.rom", sc.Game(a).PrimaryPath())

	_, ok = sc.GameByPath("/games/b.rom")
	assert.False(t, ok)
	assert.Nil(t, sc.Game(NoGame))
	assert.Nil(t, sc.Game(GameID(42)))
}

func TestSameTitleGamesAreDistinct(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	a := sc.NewGame("Tetris")
	b := sc.NewGame("Tetris")
	assert.NotEqual(t, a, b)
	assert.Len(t, sc.Games(), 2)
}

func TestAddFileMergesByPath(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()

	first := sc.NewGame("Super Game")
	g := sc.Game(first)
	g.AddDevelopers("Acme")
	g.SetRating(0.5)
	_, err := sc.AddFile(first, "/games/super.rom")
	require.NoError(t, err)
	sc.AddToCollection("A", first)

	second := sc.NewGame("Other Title")
	g2 := sc.Game(second)
	g2.SetSummary("filled from second")
	g2.AddDevelopers("Acme", "Beta")
	g2.SetRating(0.9)
	g2.Assets.Add(assets.Logo, "file:///logo.png")
	sc.AddToCollection("B", second)

	owner, err := sc.AddFile(second, "/games/super.rom")
	require.NoError(t, err)
	assert.Equal(t, first, owner)
	assert.Equal(t, first, sc.Resolve(second))

	merged := sc.Game(second)
	assert.Same(t, sc.Game(first), merged)
	assert.Equal(t, "Super Game", merged.Title)
	assert.Equal(t, "filled from second", merged.Summary)
	assert.Equal(t, []string{"Acme", "Beta"}, merged.Developers)
	assert.InDelta(t, 0.5, merged.Rating, 0.0001)
	assert.Equal(t, "file:///logo.png", merged.Assets.Get(assets.Logo))
	assert.Equal(t, []GameID{first}, sc.CollectionGames("B"))
	assert.Len(t, sc.Games(), 1)
}

func TestAddFileUnknownGame(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	_, err := sc.AddFile(GameID(7), "/a")
	require.ErrorIs(t, err, ErrUnknownGame)
}

func TestAddFileKeepsSecondaryFiles(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	id := sc.NewGame("Multi Disc")
	for _, p := range []string{"/g/disc1.cue", "/g/disc2.cue", "/g/disc1.cue"} {
		got, err := sc.AddFile(id, p)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
	assert.Len(t, sc.Game(id).Files, 2)
}

func TestLaunchInheritance(t *testing.T) {
	t.Parallel()

	var g Game
	g.InheritLaunch("emu {file.path}", "/emu")
	assert.True(t, g.LaunchInherited())
	assert.True(t, g.SetLaunch("custom {file.path}"))
	assert.False(t, g.LaunchInherited())
	assert.False(t, g.SetLaunch("later"))
	assert.Equal(t, "custom {file.path}", g.Launch)

	assert.True(t, g.SetWorkdir("/custom"))
	assert.Equal(t, "/custom", g.Workdir)

	g.InheritLaunch("other", "/other")
	assert.Equal(t, "custom {file.path}", g.Launch)
	assert.Equal(t, "/custom", g.Workdir)
}

func TestGameScalarsFirstWins(t *testing.T) {
	t.Parallel()

	var g Game
	assert.Equal(t, 1, g.PlayerCount())
	assert.True(t, g.SetPlayers(2))
	assert.False(t, g.SetPlayers(4))
	assert.Equal(t, 2, g.PlayerCount())

	assert.False(t, g.HasRating())
	assert.True(t, g.SetRating(1.7))
	assert.InDelta(t, 1.0, g.Rating, 0.0001)
	assert.False(t, g.SetRating(0.2))

	day := time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, g.SetRelease(day))
	assert.False(t, g.SetRelease(day.AddDate(1, 0, 0)))

	g.SetFavorite(true)
	g.SetFavorite(false)
	assert.True(t, g.Favorite)

	last := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	g.SetPlayStats(3, time.Hour, last)
	g.SetPlayStats(9, 2*time.Hour, last.AddDate(1, 0, 0))
	assert.Equal(t, 3, g.PlayCount)
	assert.Equal(t, time.Hour, g.PlayTime)
	assert.Equal(t, last, g.LastPlayed)
}

func TestCollections(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	c := sc.GetOrCreateCollection("My Games")
	c.SetShortName("mygames")
	assert.Same(t, c, sc.GetOrCreateCollection("My Games"))
	assert.NotSame(t, c, sc.GetOrCreateCollection("my games"))
	assert.Equal(t, []string{"My Games", "my games"}, sc.Collections())

	c.SetShortName("other")
	assert.Equal(t, "mygames", c.ShortName)
}

func TestRootDirs(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	sc.AddRootDir("/a")
	sc.AddRootDir("/a")
	sc.AddRootDir("")
	sc.AddRootDir("/b")
	assert.Equal(t, []string{"/a", "/b"}, sc.RootDirs())
}
