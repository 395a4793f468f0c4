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

// Package service keeps the current game library in memory and rebuilds
// it on demand or when the library changes on disk.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/database/playtimedb"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers/esde"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers/lutris"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers/pegasus"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers/playtime"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers/steam"
	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

const scanKey = "scan"

type scanResult struct {
	snap *catalog.Snapshot
	res  providers.Result
}

// flight is the context of the running scan. It is cancelled once every
// caller waiting on the scan has given up.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Library owns the published catalog snapshot. Readers always see a
// complete snapshot; a scan replaces it atomically when it finishes.
type Library struct {
	cfg        *config.Instance
	fs         afero.Fs
	clock      clockwork.Clock
	playtime   *playtimedb.PlaytimeDB
	snapshot   atomic.Pointer[catalog.Snapshot]
	onProgress func(providers.Progress)
	onScan     func(*catalog.Snapshot)
	override   []providers.Provider
	configDir  string
	dataDir    string
	cacheDir   string
	group      singleflight.Group
	flightMu   sync.Mutex
	flight     *flight
}

type Option func(*Library)

func WithFs(fs afero.Fs) Option {
	return func(l *Library) {
		l.fs = fs
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(l *Library) {
		l.clock = clock
	}
}

// WithDirs sets the config, data and cache directories used to locate the
// global metadata files, the play time database and cached store details.
// An empty cacheDir keeps the XDG cache directory.
func WithDirs(configDir, dataDir, cacheDir string) Option {
	return func(l *Library) {
		l.configDir = configDir
		l.dataDir = dataDir
		if cacheDir != "" {
			l.cacheDir = cacheDir
		}
	}
}

// WithProviders replaces the providers built from the config.
func WithProviders(p ...providers.Provider) Option {
	return func(l *Library) {
		l.override = p
	}
}

func WithProgress(fn func(providers.Progress)) Option {
	return func(l *Library) {
		l.onProgress = fn
	}
}

// WithOnScan registers a callback receiving every published snapshot.
func WithOnScan(fn func(*catalog.Snapshot)) Option {
	return func(l *Library) {
		l.onScan = fn
	}
}

func NewLibrary(cfg *config.Instance, opts ...Option) *Library {
	l := &Library{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		clock:    clockwork.NewRealClock(),
		cacheDir: filepath.Join(xdg.CacheHome, config.AppName),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.snapshot.Store(catalog.EmptySnapshot())
	return l
}

// OpenPlaytime opens the play time database if its provider is enabled.
func (l *Library) OpenPlaytime(ctx context.Context) error {
	if l.playtime != nil || !l.cfg.ProviderEnabled(config.ProviderPlaytime) {
		return nil
	}
	db, err := playtimedb.Open(ctx, l.cfg.PlaytimeDatabase(l.dataDir), l.clock)
	if err != nil {
		return fmt.Errorf("failed to open play time database: %w", err)
	}
	l.playtime = db
	return nil
}

// Playtime returns the open play time database, or nil.
func (l *Library) Playtime() *playtimedb.PlaytimeDB {
	return l.playtime
}

func (l *Library) Close() error {
	if l.playtime == nil {
		return nil
	}
	err := l.playtime.Close()
	l.playtime = nil
	return err
}

// Snapshot returns the last published catalog. It is empty until the
// first scan finishes.
func (l *Library) Snapshot() *catalog.Snapshot {
	return l.snapshot.Load()
}

// Providers builds the enabled providers in scan order.
func (l *Library) Providers() []providers.Provider {
	if l.override != nil {
		return l.override
	}

	var list []providers.Provider
	if l.cfg.ProviderEnabled(config.ProviderPegasus) {
		list = append(list, pegasus.New(l.fs, l.cfg.GameDirs(), l.cfg.MetafilesDir(l.configDir)))
	}
	if l.cfg.ProviderEnabled(config.ProviderESDE) {
		list = append(list, esde.New(l.fs, l.cfg.ESHome(), l.cfg.ESSystemsFiles()))
	}
	if l.cfg.ProviderEnabled(config.ProviderSteam) {
		list = append(list, steam.New(l.fs, l.cfg.SteamRoot(), filepath.Join(l.cacheDir, "steam")))
	}
	if l.cfg.ProviderEnabled(config.ProviderLutris) {
		list = append(list, lutris.New(l.fs, l.cfg.LutrisDatabase()))
	}
	if l.playtime != nil && l.cfg.ProviderEnabled(config.ProviderPlaytime) {
		list = append(list, playtime.New(l.playtime))
	}
	return list
}

// Rescan runs a full scan and publishes its snapshot. Callers arriving
// while a scan is running wait for it and share its result instead of
// starting another one. Cancelling ctx only stops this caller's wait; the
// shared scan is cancelled when no caller is left waiting. A failed or
// cancelled scan keeps the previous snapshot.
func (l *Library) Rescan(ctx context.Context) (*catalog.Snapshot, providers.Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, providers.Result{}, err
		}

		f := l.joinFlight(ctx)
		ch := l.group.DoChan(scanKey, func() (any, error) {
			return l.scan(f.ctx)
		})

		var r singleflight.Result
		select {
		case r = <-ch:
			l.leaveFlight(f)
		case <-ctx.Done():
			l.leaveFlight(f)
			return nil, providers.Result{}, ctx.Err()
		}

		if r.Shared {
			log.Debug().Msg("joined in-flight library scan")
		}
		if r.Err != nil {
			if errors.Is(r.Err, context.Canceled) {
				if ctx.Err() == nil {
					// joined a scan abandoned by every other caller
					continue
				}
				return nil, providers.Result{}, r.Err
			}
			return nil, providers.Result{}, fmt.Errorf("library scan failed: %w", r.Err)
		}

		sr, _ := r.Val.(scanResult)
		return sr.snap, sr.res, nil
	}
}

func (l *Library) scan(ctx context.Context) (scanResult, error) {
	m := providers.NewManager(l.Providers(),
		providers.WithClock(l.clock),
		providers.WithProgress(l.onProgress),
	)
	snap, res, err := m.Run(ctx)
	if err != nil {
		return scanResult{}, err
	}

	l.snapshot.Store(snap)
	if l.onScan != nil {
		l.onScan(snap)
	}
	return scanResult{snap: snap, res: res}, nil
}

func (l *Library) joinFlight(ctx context.Context) *flight {
	l.flightMu.Lock()
	defer l.flightMu.Unlock()
	if l.flight == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		l.flight = &flight{ctx: fctx, cancel: cancel}
	}
	l.flight.waiters++
	return l.flight
}

func (l *Library) leaveFlight(f *flight) {
	l.flightMu.Lock()
	defer l.flightMu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if l.flight == f {
		l.flight = nil
		// a later caller starts a fresh scan instead of joining this one
		l.group.Forget(scanKey)
	}
}
