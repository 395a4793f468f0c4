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
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeDropsInvalidEntries(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()

	noFiles := sc.NewGame("Metadata Only")
	sc.AddToCollection("Games", noFiles)

	valid, _ := sc.GetOrCreateGame("/games/valid.rom")
	sc.AddToCollection("Games", valid)
	sc.AddToCollection("Games", valid)

	orphan, _ := sc.GetOrCreateGame("/games/orphan.rom")

	empty := sc.NewGame("Ghost")
	sc.AddToCollection("Empty", empty)

	sc.Finalize()

	assert.Nil(t, sc.Game(noFiles))
	assert.Nil(t, sc.Game(orphan))
	assert.NotNil(t, sc.Game(valid))
	assert.Equal(t, []string{"Games"}, sc.Collections())
	assert.Equal(t, []GameID{valid}, sc.CollectionGames("Games"))

	_, ok := sc.GameByPath("/games/orphan.rom")
	assert.False(t, ok)

	g := sc.Game(valid)
	assert.Equal(t, "valid", g.Title, "title derived from the file name")
	assert.Equal(t, []string{"Games"}, g.Collections)
}

func TestFinalizeURITitle(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	id, _ := sc.GetOrCreateGame("steam:620")
	sc.AddToCollection("Steam", id)
	sc.Finalize()

	assert.Equal(t, "steam:620", sc.Game(id).Title)
}

func newSortedContext() (*SearchContext, map[string]GameID) {
	sc := NewSearchContext()
	ids := make(map[string]GameID)
	for _, title := range []string{"game 10", "Zelda", "Game 2", "Éclair", "apple"} {
		id, _ := sc.GetOrCreateGame("/games/" + title + ".rom")
		sc.Game(id).SetTitle(title)
		sc.AddToCollection("Retro", id)
		ids[title] = id
	}
	sc.Game(ids["Zelda"]).SetSortTitle("Legend of Zelda")
	sc.GetOrCreateCollection("Arcade").SetSortName("0 Arcade")
	arcade, _ := sc.GetOrCreateGame("/arcade/pacman.zip")
	sc.AddToCollection("Arcade", arcade)
	sc.AddToCollection("Retro", arcade)
	return sc, ids
}

func titles(games []*Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

func TestSnapshotSorting(t *testing.T) {
	t.Parallel()

	sc, _ := newSortedContext()
	snap := sc.Snapshot()

	assert.Equal(t, 6, snap.GameCount())
	assert.Equal(t, 2, snap.CollectionCount())
	assert.Equal(t, []string{"apple", "Éclair", "Game 2", "game 10", "Zelda", "pacman"},
		titles(snap.CollectionGames("Retro")))

	cols := snap.Collections()
	require.Len(t, cols, 2)
	assert.Equal(t, "Arcade", cols[0].Name)
	assert.Equal(t, "Retro", cols[1].Name)

	pac, ok := snap.GameByPath("/arcade/pacman.zip")
	require.True(t, ok)
	assert.Equal(t, []string{"Arcade", "Retro"}, pac.Collections)
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()

	sc, ids := newSortedContext()
	snap := sc.Snapshot()

	sc.Game(ids["apple"]).AddGenres("Puzzle")
	g, ok := snap.Game(ids["apple"])
	require.True(t, ok)
	assert.Empty(t, g.Genres)
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	b, _ := sc.GetOrCreateGame("/g/b.rom")
	a, _ := sc.GetOrCreateGame("/g/a.rom")
	sc.Game(b).SetFavorite(true)
	sc.AddToCollection("C", a)
	sc.AddToCollection("C", b)

	assert.Equal(t, []FavoriteEntry{
		{Path: "/g/a.rom", Favorite: false},
		{Path: "/g/b.rom", Favorite: true},
	}, sc.Snapshot().Favorites())
}

func TestEmptySnapshot(t *testing.T) {
	t.Parallel()

	snap := EmptySnapshot()
	assert.Zero(t, snap.GameCount())
	assert.Empty(t, snap.Collections())
	assert.Empty(t, snap.FindByTitle("anything", 5))
}

func TestFindByTitle(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	for _, title := range []string{"Chrono Trigger", "Chrono Cross", "Pokémon Red", "Super Metroid", "Metroid"} {
		id, _ := sc.GetOrCreateGame("/g/" + title)
		sc.Game(id).SetTitle(title)
		sc.AddToCollection("SNES", id)
	}
	snap := sc.Snapshot()

	got := snap.FindByTitle("metroid", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Metroid", got[0].Game.Title)
	assert.InDelta(t, 1.0, got[0].Similarity, 0.0001)
	assert.Equal(t, "Super Metroid", got[1].Game.Title)

	got = snap.FindByTitle("pokemon red", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Pokémon Red", got[0].Game.Title)

	got = snap.FindByTitle("chrono trigegr", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Chrono Trigger", got[0].Game.Title)

	assert.Empty(t, snap.FindByTitle("   ", 3))
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	sc := NewSearchContext()
	id, _ := sc.GetOrCreateGame("/g/super.rom")
	g := sc.Game(id)
	g.SetTitle("Super Game")
	g.AddDevelopers("Acme", "Beta")
	g.SetPlayers(2)
	g.SetRelease(time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC))
	sc.AddToCollection("My Games", id)

	var buf bytes.Buffer
	require.NoError(t, sc.Snapshot().WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "collection", records[0][0])
	assert.Equal(t, []string{"My Games", "Super Game", "/g/super.rom", "Acme; Beta"}, records[1][:4])
	assert.Contains(t, records[1], "2001-05-01")
}
