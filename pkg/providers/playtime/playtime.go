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

// Package playtime attaches recorded play statistics to catalog games.
package playtime

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/database/playtimedb"
	"github.com/rs/zerolog/log"
)

type StatsSource interface {
	AllStats(ctx context.Context) ([]playtimedb.Stats, error)
}

// Provider discovers nothing. Its enrichment fills play counts, play time
// and last played times from a StatsSource.
type Provider struct {
	src StatsSource
}

func New(src StatsSource) *Provider {
	return &Provider{src: src}
}

func (*Provider) Name() string {
	return config.ProviderPlaytime
}

func (*Provider) Discover(context.Context, *catalog.SearchContext) error {
	return nil
}

func (p *Provider) Enrich(ctx context.Context, sc *catalog.SearchContext) error {
	stats, err := p.src.AllStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read play stats: %w", err)
	}

	totals := make(map[catalog.GameID]*playtimedb.Stats)
	var order []catalog.GameID
	for _, s := range stats {
		id, ok := sc.GameByPath(s.Path)
		if !ok {
			continue
		}
		g := sc.Game(id)
		if f, ok := g.File(s.Path); ok {
			f.PlayCount = s.Count
			f.PlayTime = s.Total
			f.LastPlayed = s.LastPlayed
		}

		t, ok := totals[id]
		if !ok {
			t = &playtimedb.Stats{}
			totals[id] = t
			order = append(order, id)
		}
		t.Count += s.Count
		t.Total += s.Total
		if s.LastPlayed.After(t.LastPlayed) {
			t.LastPlayed = s.LastPlayed
		}
	}

	for _, id := range order {
		t := totals[id]
		sc.Game(id).SetPlayStats(t.Count, t.Total, t.LastPlayed)
	}
	log.Debug().Int("games", len(order)).Msg("play stats applied")
	return nil
}
