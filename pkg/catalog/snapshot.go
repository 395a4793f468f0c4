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
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Snapshot is the immutable result of a scan. Values returned by its
// methods are owned by the snapshot and must not be modified.
type Snapshot struct {
	gameIndex       map[GameID]*Game
	byPath          map[string]GameID
	collectionIndex map[string]*Collection
	members         map[string][]GameID
	games           []*Game
	collections     []*Collection
}

// FavoriteEntry pairs a game's primary path with its favorite flag.
type FavoriteEntry struct {
	Path     string
	Favorite bool
}

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
}

func gameSortKey(g *Game) string {
	if g.SortTitle != "" {
		return g.SortTitle
	}
	return g.Title
}

func collectionSortKey(c *Collection) string {
	if c.SortName != "" {
		return c.SortName
	}
	return c.Name
}

// Snapshot finalizes the context if needed and returns a sorted, deep
// copied view of it.
func (sc *SearchContext) Snapshot() *Snapshot {
	if !sc.finalized {
		sc.Finalize()
	}

	coll := newCollator()
	snap := &Snapshot{
		gameIndex:       make(map[GameID]*Game),
		byPath:          make(map[string]GameID, len(sc.byPath)),
		collectionIndex: make(map[string]*Collection),
		members:         make(map[string][]GameID),
	}

	for _, id := range sc.Games() {
		g := sc.games[id].clone()
		snap.games = append(snap.games, g)
		snap.gameIndex[id] = g
	}
	for path, id := range sc.byPath {
		snap.byPath[path] = id
	}

	lessGame := func(a, b *Game) bool {
		if c := coll.CompareString(gameSortKey(a), gameSortKey(b)); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	}
	sort.SliceStable(snap.games, func(i, j int) bool {
		return lessGame(snap.games[i], snap.games[j])
	})

	for _, name := range sc.collectionOrder {
		c := sc.collections[name].clone()
		snap.collections = append(snap.collections, c)
		snap.collectionIndex[name] = c

		ids := slices.Clone(sc.members[name])
		sort.SliceStable(ids, func(i, j int) bool {
			return lessGame(snap.gameIndex[ids[i]], snap.gameIndex[ids[j]])
		})
		snap.members[name] = ids
	}
	sort.SliceStable(snap.collections, func(i, j int) bool {
		a, b := snap.collections[i], snap.collections[j]
		if c := coll.CompareString(collectionSortKey(a), collectionSortKey(b)); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})

	for _, g := range snap.games {
		sort.SliceStable(g.Collections, func(i, j int) bool {
			return coll.CompareString(g.Collections[i], g.Collections[j]) < 0
		})
	}

	return snap
}

// Games returns every game, sorted by title.
func (s *Snapshot) Games() []*Game {
	return slices.Clone(s.games)
}

// Collections returns every collection, sorted by name.
func (s *Snapshot) Collections() []*Collection {
	return slices.Clone(s.collections)
}

func (s *Snapshot) GameCount() int       { return len(s.games) }
func (s *Snapshot) CollectionCount() int { return len(s.collections) }

// Game returns a game by handle.
func (s *Snapshot) Game(id GameID) (*Game, bool) {
	g, ok := s.gameIndex[id]
	return g, ok
}

// GameByPath returns the game owning a canonical path or URI.
func (s *Snapshot) GameByPath(path string) (*Game, bool) {
	id, ok := s.byPath[path]
	if !ok {
		return nil, false
	}
	return s.Game(id)
}

// Collection returns a collection by name.
func (s *Snapshot) Collection(name string) (*Collection, bool) {
	c, ok := s.collectionIndex[name]
	return c, ok
}

// CollectionGames returns the members of a collection sorted by title.
func (s *Snapshot) CollectionGames(name string) []*Game {
	ids := s.members[name]
	out := make([]*Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.gameIndex[id])
	}
	return out
}

// Favorites lists the favorite flag of every game keyed by its primary
// path, sorted by path.
func (s *Snapshot) Favorites() []FavoriteEntry {
	out := make([]FavoriteEntry, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, FavoriteEntry{Path: g.PrimaryPath(), Favorite: g.Favorite})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// EmptySnapshot returns a snapshot with no games, used before the first
// scan completes.
func EmptySnapshot() *Snapshot {
	return NewSearchContext().Snapshot()
}
