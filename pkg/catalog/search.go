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
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinSimilarity is the lowest Jaro-Winkler score kept by FindByTitle.
	MinSimilarity float32 = 0.8
	containsScore float32 = 0.95
	tieBreakTopN          = 5
)

// TitleMatch is a fuzzy title search result.
type TitleMatch struct {
	Game       *Game
	Similarity float32
}

func removeDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}

// normalizeTitle lowercases, strips diacritics and collapses whitespace.
func normalizeTitle(s string) string {
	s = strings.ToLower(removeDiacritics(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}), " ")
}

// FindByTitle returns up to limit games whose title is close to query,
// best first. Exact matches score 1, titles containing the query score
// just below that and the rest are ranked by Jaro-Winkler similarity, with
// the closest candidates re-ranked by Damerau-Levenshtein distance to
// catch transposed letters.
func (s *Snapshot) FindByTitle(query string, limit int) []TitleMatch {
	q := normalizeTitle(query)
	if q == "" {
		return nil
	}

	var exact, fuzzy []TitleMatch
	for _, g := range s.games {
		title := normalizeTitle(g.Title)
		switch {
		case title == q:
			exact = append(exact, TitleMatch{Game: g, Similarity: 1})
		case strings.Contains(title, q):
			exact = append(exact, TitleMatch{Game: g, Similarity: containsScore})
		default:
			similarity := edlib.JaroWinklerSimilarity(q, title)
			if similarity >= MinSimilarity {
				fuzzy = append(fuzzy, TitleMatch{Game: g, Similarity: similarity})
			}
		}
	}

	sort.SliceStable(exact, func(i, j int) bool {
		return exact[i].Similarity > exact[j].Similarity
	})
	sort.SliceStable(fuzzy, func(i, j int) bool {
		return fuzzy[i].Similarity > fuzzy[j].Similarity
	})
	fuzzy = applyTieBreaker(q, fuzzy, tieBreakTopN)

	log.Debug().Str("query", query).Int("exact", len(exact)).Int("fuzzy", len(fuzzy)).
		Msg("title search")

	out := append(exact, fuzzy...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// applyTieBreaker re-ranks the first topN matches by edit distance.
func applyTieBreaker(query string, matches []TitleMatch, topN int) []TitleMatch {
	if len(matches) < 2 {
		return matches
	}

	n := min(topN, len(matches))
	head := matches[:n]
	distances := make(map[*Game]int, n)
	for _, m := range head {
		distances[m.Game] = edlib.DamerauLevenshteinDistance(query, normalizeTitle(m.Game.Title))
	}
	sort.SliceStable(head, func(i, j int) bool {
		return distances[head[i].Game] < distances[head[j].Game]
	})
	return matches
}
