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

package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider adds one game per discovery, optionally blocking until
// release is closed.
type fakeProvider struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (*fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Discover(ctx context.Context, sc *catalog.SearchContext) error {
	n := f.calls.Add(1)
	if f.started != nil && n == 1 {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	id, _ := sc.GetOrCreateGame("/games/a.rom")
	sc.AddToCollection("Games", id)
	return nil
}

func (*fakeProvider) Enrich(context.Context, *catalog.SearchContext) error { return nil }

func newConfig(t *testing.T, vals config.Values) *config.Instance {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), vals)
	require.NoError(t, err)
	return cfg
}

func TestRescanPublishes(t *testing.T) {
	t.Parallel()

	var published []*catalog.Snapshot
	l := NewLibrary(newConfig(t, config.BaseDefaults),
		WithProviders(&fakeProvider{}),
		WithOnScan(func(s *catalog.Snapshot) { published = append(published, s) }),
	)
	assert.Equal(t, 0, l.Snapshot().GameCount())

	snap, res, err := l.Rescan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.GameCount())
	assert.Equal(t, 1, res.Games)
	assert.Same(t, snap, l.Snapshot())
	assert.Equal(t, []*catalog.Snapshot{snap}, published)
}

func TestRescanSharesInFlightScan(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{started: make(chan struct{}), release: make(chan struct{})}
	l := NewLibrary(newConfig(t, config.BaseDefaults), WithProviders(p))

	var wg sync.WaitGroup
	snaps := make([]*catalog.Snapshot, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		snaps[0], _, errs[0] = l.Rescan(context.Background())
	}()
	<-p.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		snaps[1], _, errs[1] = l.Rescan(context.Background())
	}()
	close(p.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	calls := p.calls.Load()
	assert.LessOrEqual(t, calls, int32(2))
	if calls == 1 {
		assert.Same(t, snaps[0], snaps[1])
	}
}

func TestRescanJoinerSurvivesFirstCallerCancel(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{started: make(chan struct{}), release: make(chan struct{})}
	l := NewLibrary(newConfig(t, config.BaseDefaults), WithProviders(p))

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := l.Rescan(ctx)
		firstErr <- err
	}()
	<-p.started

	type outcome struct {
		snap *catalog.Snapshot
		err  error
	}
	second := make(chan outcome, 1)
	go func() {
		snap, _, err := l.Rescan(context.Background())
		second <- outcome{snap: snap, err: err}
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(p.release)
	got := <-second
	require.NoError(t, got.err)
	require.NotNil(t, got.snap)
	assert.Equal(t, 1, got.snap.GameCount())
	assert.Same(t, got.snap, l.Snapshot())
}

func TestRescanCancelledKeepsSnapshot(t *testing.T) {
	t.Parallel()

	l := NewLibrary(newConfig(t, config.BaseDefaults), WithProviders(&fakeProvider{}))
	first, _, err := l.Rescan(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, _, err := l.Rescan(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, snap)
	assert.Same(t, first, l.Snapshot())
}

func providerNames(list []providers.Provider) []string {
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name())
	}
	return names
}

func TestProvidersFromConfig(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, config.BaseDefaults)
	dataDir := t.TempDir()
	l := NewLibrary(cfg, WithFs(afero.NewMemMapFs()), WithDirs(t.TempDir(), dataDir, t.TempDir()))

	assert.Equal(t, []string{
		config.ProviderPegasus,
		config.ProviderESDE,
		config.ProviderSteam,
		config.ProviderLutris,
	}, providerNames(l.Providers()))

	require.NoError(t, l.OpenPlaytime(context.Background()))
	require.NotNil(t, l.Playtime())
	assert.Contains(t, providerNames(l.Providers()), config.ProviderPlaytime)

	cfg.SetProviderEnabled(config.ProviderSteam, false)
	cfg.SetProviderEnabled(config.ProviderPlaytime, false)
	assert.Equal(t, []string{
		config.ProviderPegasus,
		config.ProviderESDE,
		config.ProviderLutris,
	}, providerNames(l.Providers()))

	require.NoError(t, l.Close())
	assert.Nil(t, l.Playtime())
}
