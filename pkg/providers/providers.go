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

// Package providers runs the data sources of a library scan over a shared
// catalog.SearchContext, first discovering games and then enriching them.
package providers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Provider is one source of games and metadata.
//
// Discover adds collections and game identities to the context. Enrich
// attaches metadata and assets to games already known. A provider whose
// source data is missing returns nil and contributes nothing; returned
// errors are logged and never abort a scan.
type Provider interface {
	Name() string
	Discover(ctx context.Context, sc *catalog.SearchContext) error
	Enrich(ctx context.Context, sc *catalog.SearchContext) error
}

type State int32

const (
	StateIdle State = iota
	StateDiscovering
	StateEnriching
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateEnriching:
		return "enriching"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var ErrScanInProgress = errors.New("a scan is already in progress")

// Progress is reported after every provider step.
type Progress struct {
	Provider string
	State    State
	// Fraction is the share of provider steps completed, in [0, 1].
	Fraction float64
}

// Result summarises a finished scan.
type Result struct {
	Games       int
	Collections int
	Discovery   time.Duration
	Enrichment  time.Duration
	Elapsed     time.Duration
}

type Manager struct {
	clock      clockwork.Clock
	onProgress func(Progress)
	providers  []Provider
	state      atomic.Int32
}

type Option func(*Manager)

// WithClock sets the clock used to time scans.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithProgress registers a callback receiving progress updates. It is
// called from the scanning goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(m *Manager) {
		m.onProgress = fn
	}
}

func NewManager(providers []Provider, opts ...Option) *Manager {
	m := &Manager{
		providers: providers,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Providers returns the names of the configured providers in run order.
func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return names
}

func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
}

func (m *Manager) report(p Progress) {
	if m.onProgress != nil {
		m.onProgress(p)
	}
}

// Run performs a full scan: every provider discovers, then every provider
// enriches, then the context is finalized and a snapshot is returned. A
// cancelled context stops the scan between provider steps and nothing is
// returned. Only one scan may run at a time.
func (m *Manager) Run(ctx context.Context) (*catalog.Snapshot, Result, error) {
	current := m.State()
	if current == StateDiscovering || current == StateEnriching ||
		!m.state.CompareAndSwap(int32(current), int32(StateDiscovering)) {
		return nil, Result{}, ErrScanInProgress
	}

	sc := catalog.NewSearchContext()
	total := len(m.providers) * 2
	done := 0
	step := func(name string, state State) {
		done++
		m.report(Progress{
			Provider: name,
			State:    state,
			Fraction: float64(done) / float64(total),
		})
	}

	start := m.clock.Now()
	log.Info().Strs("providers", m.Providers()).Msg("starting library scan")
	m.report(Progress{State: StateDiscovering})

	for _, p := range m.providers {
		if err := ctx.Err(); err != nil {
			return m.cancel(err)
		}
		if err := p.Discover(ctx, sc); err != nil {
			log.Error().Err(err).Str("provider", p.Name()).Msg("provider discovery failed")
		}
		step(p.Name(), StateDiscovering)
	}

	discovered := m.clock.Now()
	log.Info().
		Dur("elapsed", discovered.Sub(start)).
		Int("games", len(sc.Games())).
		Msg("discovery finished")

	m.setState(StateEnriching)
	for _, p := range m.providers {
		if err := ctx.Err(); err != nil {
			return m.cancel(err)
		}
		if err := p.Enrich(ctx, sc); err != nil {
			log.Error().Err(err).Str("provider", p.Name()).Msg("provider enrichment failed")
		}
		step(p.Name(), StateEnriching)
	}

	if err := ctx.Err(); err != nil {
		return m.cancel(err)
	}

	snap := sc.Snapshot()
	end := m.clock.Now()

	res := Result{
		Games:       snap.GameCount(),
		Collections: snap.CollectionCount(),
		Discovery:   discovered.Sub(start),
		Enrichment:  end.Sub(discovered),
		Elapsed:     end.Sub(start),
	}

	m.setState(StateDone)
	m.report(Progress{State: StateDone, Fraction: 1})

	log.Info().
		Int("games", res.Games).
		Int("collections", res.Collections).
		Dur("elapsed", res.Elapsed).
		Msg("library scan finished")

	return snap, res, nil
}

func (m *Manager) cancel(err error) (*catalog.Snapshot, Result, error) {
	log.Warn().Err(err).Msg("library scan cancelled")
	m.setState(StateIdle)
	return nil, Result{}, fmt.Errorf("scan cancelled: %w", err)
}
