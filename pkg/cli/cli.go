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

// Package cli holds the command line flags and output of the
// zaparoo-library command.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers"
	"github.com/rs/zerolog/log"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	if v == "" {
		return fmt.Errorf("empty value")
	}
	*s = append(*s, v)
	return nil
}

type Flags struct {
	Config  *string
	CSV     *string
	Find    *string
	Watch   *bool
	Version *bool
	Debug   *bool
	Dirs    stringList
}

// SetupFlags defines the command flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{
		Config: fs.String(
			"config",
			"",
			"directory holding config.toml and the global metadata files",
		),
		CSV: fs.String(
			"csv",
			"",
			"export the scanned library to a CSV file",
		),
		Find: fs.String(
			"find",
			"",
			"print the games whose title is close to the query",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"keep running and rescan when the library changes",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
	fs.Var(&f.Dirs, "dir", "add a game directory, can be repeated")
	return f
}

// Setup creates the config and data directories, loads the config and
// initializes logging. Directories passed with -dir are added to the
// loaded config without saving it.
//
//nolint:gocritic // config struct copied for immutability
func (f *Flags) Setup(defaults config.Values, writers []io.Writer) (*config.Instance, string, error) {
	configDir := helpers.ConfigDir()
	if *f.Config != "" {
		abs, err := filepath.Abs(*f.Config)
		if err != nil {
			return nil, "", fmt.Errorf("invalid config directory: %w", err)
		}
		configDir = abs
	}

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg, err := config.NewConfig(configDir, defaults)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	debug := cfg.DebugLogging() || *f.Debug
	if err := helpers.InitLogging(helpers.DataDir(), debug, writers); err != nil {
		return nil, "", fmt.Errorf("failed to initialize logging: %w", err)
	}

	for _, dir := range f.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("invalid game directory ignored")
			continue
		}
		cfg.AddGameDir(abs)
	}
	return cfg, configDir, nil
}

// PrintVersion writes the version line.
func PrintVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Zaparoo Library v%s\n", config.AppVersion)
}

// PrintSummary writes one line per collection followed by the totals.
func PrintSummary(w io.Writer, snap *catalog.Snapshot, res providers.Result) {
	for _, c := range snap.Collections() {
		games := snap.CollectionGames(c.Name)
		name := c.Name
		if c.ShortName != "" {
			name = fmt.Sprintf("%s (%s)", c.Name, c.ShortName)
		}
		_, _ = fmt.Fprintf(w, "%-40s %6d games\n", name, len(games))
	}
	_, _ = fmt.Fprintf(w, "%d games in %d collections, scanned in %s\n",
		snap.GameCount(), snap.CollectionCount(), res.Elapsed.Round(time.Millisecond))
}

// PrintMatches writes the fuzzy title matches of query.
func PrintMatches(w io.Writer, snap *catalog.Snapshot, query string, limit int) {
	matches := snap.FindByTitle(query, limit)
	if len(matches) == 0 {
		_, _ = fmt.Fprintf(w, "no games matching %q\n", query)
		return
	}
	for _, m := range matches {
		_, _ = fmt.Fprintf(w, "%.2f  %s  [%s]  %s\n",
			m.Similarity, m.Game.Title, strings.Join(m.Game.Collections, ", "), m.Game.PrimaryPath())
	}
}

// ExportCSV writes the snapshot to path.
func ExportCSV(path string, snap *catalog.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close csv file: %w", closeErr)
		}
	}()

	if err := snap.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
