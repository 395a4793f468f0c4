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
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

const listSeparator = "; "

type csvRow struct {
	Collection string  `csv:"collection"`
	Title      string  `csv:"title"`
	Path       string  `csv:"path"`
	Developers string  `csv:"developers"`
	Publishers string  `csv:"publishers"`
	Genres     string  `csv:"genres"`
	Release    string  `csv:"release"`
	Launch     string  `csv:"launch"`
	Players    int     `csv:"players"`
	Rating     float64 `csv:"rating"`
	PlayCount  int     `csv:"play_count"`
	PlayTime   int64   `csv:"play_time_seconds"`
	Favorite   bool    `csv:"favorite"`
}

// WriteCSV writes one row per game and collection membership, ordered by
// collection and then by title.
func (s *Snapshot) WriteCSV(w io.Writer) error {
	rows := make([]*csvRow, 0, len(s.games))
	for _, c := range s.collections {
		for _, g := range s.CollectionGames(c.Name) {
			row := &csvRow{
				Collection: c.Name,
				Title:      g.Title,
				Path:       g.PrimaryPath(),
				Developers: strings.Join(g.Developers, listSeparator),
				Publishers: strings.Join(g.Publishers, listSeparator),
				Genres:     strings.Join(g.Genres, listSeparator),
				Launch:     g.Launch,
				Players:    g.PlayerCount(),
				Rating:     g.Rating,
				PlayCount:  g.PlayCount,
				PlayTime:   int64(g.PlayTime.Seconds()),
				Favorite:   g.Favorite,
			}
			if !g.Release.IsZero() {
				row.Release = g.Release.Format("2006-01-02")
			}
			rows = append(rows, row)
		}
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write catalog csv: %w", err)
	}
	return nil
}
