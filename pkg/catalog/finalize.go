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
	"strings"

	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/rs/zerolog/log"
)

// Finalize applies the integrity rules once every provider is done: games
// without files or without a collection are dropped, collections without
// games are dropped, the path index is rebuilt from the survivors and the
// membership lists are de-duplicated. It is safe to call more than once.
func (sc *SearchContext) Finalize() {
	for id := 1; id < len(sc.games); id++ {
		g := sc.games[id]
		if g == nil || len(g.Files) > 0 {
			continue
		}
		log.Info().Str("title", g.Title).Msg("game has no launchable entries, ignored")
		sc.games[id] = nil
	}

	for _, g := range sc.games {
		if g != nil {
			g.Collections = g.Collections[:0]
		}
	}

	order := sc.collectionOrder[:0]
	for _, name := range sc.collectionOrder {
		ids := sc.CollectionGames(name)
		if len(ids) == 0 {
			log.Info().Str("collection", name).Msg("collection has no valid games, ignored")
			delete(sc.collections, name)
			delete(sc.members, name)
			continue
		}
		slices.Sort(ids)
		sc.members[name] = ids
		order = append(order, name)
		for _, id := range ids {
			g := sc.games[id]
			g.Collections = appendUnique(g.Collections, name)
		}
	}
	sc.collectionOrder = order

	for id := 1; id < len(sc.games); id++ {
		g := sc.games[id]
		if g == nil || len(g.Collections) > 0 {
			continue
		}
		log.Warn().Str("title", g.Title).Str("path", g.PrimaryPath()).
			Msg("game does not belong to any collection, ignored")
		sc.games[id] = nil
	}

	sc.byPath = make(map[string]GameID)
	for id := 1; id < len(sc.games); id++ {
		g := sc.games[id]
		if g == nil {
			continue
		}
		for _, f := range g.Files {
			sc.byPath[f.Path] = GameID(id)
		}
		if g.Title == "" {
			g.Title = defaultTitle(g.PrimaryPath())
		}
	}

	sc.finalized = true
}

// defaultTitle derives a display title from a file path or URI.
func defaultTitle(path string) string {
	if helpers.ReURI.MatchString(path) || !strings.ContainsAny(path, `/\`) {
		return path
	}
	return helpers.FilenameFromPath(path)
}
