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

package playtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/database/playtimedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	err   error
	stats []playtimedb.Stats
}

func (f *fakeSource) AllStats(context.Context) ([]playtimedb.Stats, error) {
	return f.stats, f.err
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	sc := catalog.NewSearchContext()
	id, _ := sc.GetOrCreateGame("/roms/disc1.cue")
	_, err := sc.AddFile(id, "/roms/disc2.cue")
	require.NoError(t, err)
	sc.AddToCollection("PS1", id)

	first := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := first.Add(48 * time.Hour)
	src := &fakeSource{stats: []playtimedb.Stats{
		{Path: "/roms/disc1.cue", Count: 2, Total: time.Hour, LastPlayed: first},
		{Path: "/roms/disc2.cue", Count: 1, Total: 30 * time.Minute, LastPlayed: last},
		{Path: "/roms/unknown.cue", Count: 5, Total: time.Hour},
	}}

	p := New(src)
	require.NoError(t, p.Discover(context.Background(), sc))
	require.NoError(t, p.Enrich(context.Background(), sc))

	g := sc.Game(id)
	assert.Equal(t, 3, g.PlayCount)
	assert.Equal(t, 90*time.Minute, g.PlayTime)
	assert.Equal(t, last, g.LastPlayed)

	f, ok := g.File("/roms/disc2.cue")
	require.True(t, ok)
	assert.Equal(t, 1, f.PlayCount)
	assert.Equal(t, 30*time.Minute, f.PlayTime)
}

func TestEnrichSourceError(t *testing.T) {
	t.Parallel()

	p := New(&fakeSource{err: errors.New("locked")})
	err := p.Enrich(context.Background(), catalog.NewSearchContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read play stats")
}
