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

package config

import (
	"path/filepath"
	"slices"
)

const (
	ProviderPegasus  = "pegasus"
	ProviderESDE     = "esde"
	ProviderSteam    = "steam"
	ProviderLutris   = "lutris"
	ProviderPlaytime = "playtime"
)

// Providers toggles and locates the data sources of a scan. Every provider
// is enabled unless explicitly disabled.
type Providers struct {
	Pegasus  ProviderToggle      `toml:"pegasus,omitempty"`
	ESDE     ProviderESDEValues  `toml:"esde,omitempty"`
	Steam    ProviderSteamValues `toml:"steam,omitempty"`
	Lutris   ProviderDB          `toml:"lutris,omitempty"`
	Playtime ProviderDB          `toml:"playtime,omitempty"`
}

type ProviderToggle struct {
	Enabled *bool `toml:"enabled,omitempty"`
}

type ProviderESDEValues struct {
	Enabled      *bool    `toml:"enabled,omitempty"`
	Home         string   `toml:"home,omitempty"`
	SystemsFiles []string `toml:"systems_files,omitempty,multiline"`
}

type ProviderSteamValues struct {
	Enabled *bool  `toml:"enabled,omitempty"`
	Root    string `toml:"root,omitempty"`
}

type ProviderDB struct {
	Enabled  *bool  `toml:"enabled,omitempty"`
	Database string `toml:"database,omitempty"`
}

func enabled(v *bool) bool {
	return v == nil || *v
}

// ProviderEnabled reports whether the named provider should run.
func (c *Instance) ProviderEnabled(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch name {
	case ProviderPegasus:
		return enabled(c.vals.Providers.Pegasus.Enabled)
	case ProviderESDE:
		return enabled(c.vals.Providers.ESDE.Enabled)
	case ProviderSteam:
		return enabled(c.vals.Providers.Steam.Enabled)
	case ProviderLutris:
		return enabled(c.vals.Providers.Lutris.Enabled)
	case ProviderPlaytime:
		return enabled(c.vals.Providers.Playtime.Enabled)
	default:
		return false
	}
}

// SetProviderEnabled overrides the enabled flag of the named provider.
func (c *Instance) SetProviderEnabled(name string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := &on
	switch name {
	case ProviderPegasus:
		c.vals.Providers.Pegasus.Enabled = v
	case ProviderESDE:
		c.vals.Providers.ESDE.Enabled = v
	case ProviderSteam:
		c.vals.Providers.Steam.Enabled = v
	case ProviderLutris:
		c.vals.Providers.Lutris.Enabled = v
	case ProviderPlaytime:
		c.vals.Providers.Playtime.Enabled = v
	}
}

// ESHome returns the configured EmulationStation home directory, empty
// for the platform defaults.
func (c *Instance) ESHome() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Providers.ESDE.Home
}

// ESSystemsFiles returns extra es_systems.cfg locations to read.
func (c *Instance) ESSystemsFiles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Providers.ESDE.SystemsFiles)
}

// SteamRoot returns the configured Steam installation, empty to search the
// default locations.
func (c *Instance) SteamRoot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Providers.Steam.Root
}

// LutrisDatabase returns the configured pga.db path, empty for the default.
func (c *Instance) LutrisDatabase() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Providers.Lutris.Database
}

// PlaytimeDatabase returns the play time database path. Defaults to a file
// in dataDir.
func (c *Instance) PlaytimeDatabase(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Providers.Playtime.Database != "" {
		return c.vals.Providers.Playtime.Database
	}
	return filepath.Join(dataDir, PlaytimeFile)
}
