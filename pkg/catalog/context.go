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

// Package catalog holds the game and collection graph built during a scan
// and the read-only snapshot published once the scan is finished.
package catalog

import (
	"errors"
	"slices"

	"github.com/rs/zerolog/log"
)

var ErrUnknownGame = errors.New("unknown game")

// SearchContext is the aggregation target every provider writes into during
// one scan. Games live in an arena addressed by GameID, files index games
// by canonical path or URI, and collection membership is kept as lists of
// ids until Finalize. It is not safe for concurrent use.
type SearchContext struct {
	byPath          map[string]GameID
	redirect        map[GameID]GameID
	collections     map[string]*Collection
	members         map[string][]GameID
	games           []*Game
	collectionOrder []string
	rootDirs        []string
	finalized       bool
}

// NewSearchContext returns an empty context.
func NewSearchContext() *SearchContext {
	return &SearchContext{
		byPath:      make(map[string]GameID),
		redirect:    make(map[GameID]GameID),
		collections: make(map[string]*Collection),
		members:     make(map[string][]GameID),
		// index 0 is NoGame
		games: []*Game{nil},
	}
}

// resolve follows merge redirects to the surviving game.
func (sc *SearchContext) resolve(id GameID) GameID {
	for {
		next, ok := sc.redirect[id]
		if !ok {
			return id
		}
		id = next
	}
}

// Game returns the game for a handle. Handles of games merged into another
// one return the surviving game.
func (sc *SearchContext) Game(id GameID) *Game {
	id = sc.resolve(id)
	if id <= NoGame || int(id) >= len(sc.games) {
		return nil
	}
	return sc.games[id]
}

// Resolve returns the surviving handle for id.
func (sc *SearchContext) Resolve(id GameID) GameID {
	return sc.resolve(id)
}

// NewGame allocates a game without any file, identified only by its
// handle until a file is attached.
func (sc *SearchContext) NewGame(title string) GameID {
	id := GameID(len(sc.games))
	g := &Game{ID: id}
	g.SetTitle(title)
	sc.games = append(sc.games, g)
	return id
}

// GameByPath returns the game owning a canonical path or URI.
func (sc *SearchContext) GameByPath(path string) (GameID, bool) {
	id, ok := sc.byPath[path]
	if !ok {
		return NoGame, false
	}
	return sc.resolve(id), true
}

// GetOrCreateGame returns the game owning path, creating one with that
// file if none exists. The second result is true if the game is new.
func (sc *SearchContext) GetOrCreateGame(path string) (GameID, bool) {
	if id, ok := sc.GameByPath(path); ok {
		return id, false
	}
	id := sc.NewGame("")
	g := sc.games[id]
	g.Files = append(g.Files, GameFile{Path: path})
	sc.byPath[path] = id
	return id, true
}

// AddFile attaches path to the game. If another game already owns the
// path, the game is merged into that owner: the owner keeps its values,
// missing ones are filled from the game, and the owner's handle is
// returned.
func (sc *SearchContext) AddFile(id GameID, path string) (GameID, error) {
	id = sc.resolve(id)
	g := sc.Game(id)
	if g == nil {
		return NoGame, ErrUnknownGame
	}

	owner, owned := sc.GameByPath(path)
	switch {
	case !owned:
		g.Files = append(g.Files, GameFile{Path: path})
		sc.byPath[path] = id
		return id, nil
	case owner == id:
		return id, nil
	default:
		sc.merge(owner, id)
		return owner, nil
	}
}

// merge folds game src into dst and redirects every reference to src.
func (sc *SearchContext) merge(dst, src GameID) {
	target := sc.games[dst]
	source := sc.games[src]

	log.Debug().
		Str("title", target.Title).
		Str("other", source.Title).
		Msg("merging games sharing a file")

	target.mergeFrom(source)
	for _, f := range source.Files {
		sc.byPath[f.Path] = dst
	}

	sc.games[src] = nil
	sc.redirect[src] = dst
}

// GetOrCreateCollection returns the named collection, creating it on first
// use. Names are case sensitive.
func (sc *SearchContext) GetOrCreateCollection(name string) *Collection {
	if c, ok := sc.collections[name]; ok {
		return c
	}
	c := &Collection{Name: name}
	sc.collections[name] = c
	sc.collectionOrder = append(sc.collectionOrder, name)
	return c
}

// Collection returns the named collection.
func (sc *SearchContext) Collection(name string) (*Collection, bool) {
	c, ok := sc.collections[name]
	return c, ok
}

// AddToCollection records the game as member of the named collection,
// creating the collection if needed.
func (sc *SearchContext) AddToCollection(name string, id GameID) {
	sc.GetOrCreateCollection(name)
	sc.members[name] = append(sc.members[name], id)
}

// CollectionGames returns the live members of a collection.
func (sc *SearchContext) CollectionGames(name string) []GameID {
	var out []GameID
	for _, id := range sc.members[name] {
		id = sc.resolve(id)
		if sc.Game(id) == nil || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Collections returns the collection names in creation order.
func (sc *SearchContext) Collections() []string {
	return slices.Clone(sc.collectionOrder)
}

// Games returns the handles of every live game in creation order.
func (sc *SearchContext) Games() []GameID {
	out := make([]GameID, 0, len(sc.games))
	for id := 1; id < len(sc.games); id++ {
		if sc.games[id] != nil {
			out = append(out, GameID(id))
		}
	}
	return out
}

// AddRootDir registers a directory holding game files. Asset providers
// look for a media directory below every root.
func (sc *SearchContext) AddRootDir(dir string) {
	if dir == "" || slices.Contains(sc.rootDirs, dir) {
		return
	}
	sc.rootDirs = append(sc.rootDirs, dir)
}

// RootDirs returns the registered game root directories.
func (sc *SearchContext) RootDirs() []string {
	return slices.Clone(sc.rootDirs)
}
