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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/zaparoo-library/pkg/cli"
	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers"
	"github.com/ZaparooProject/zaparoo-library/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const findLimit = 10

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	if *flags.Version {
		cli.PrintVersion(os.Stdout)
		return nil
	}

	var writers []io.Writer
	if *flags.Debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	cfg, configDir, err := flags.Setup(config.BaseDefaults, writers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lib := service.NewLibrary(cfg,
		service.WithDirs(configDir, helpers.DataDir(), ""),
		service.WithProgress(func(p providers.Progress) {
			log.Debug().Str("provider", p.Provider).Stringer("state", p.State).
				Float64("progress", p.Fraction).Msg("scan progress")
		}),
	)
	if err := lib.OpenPlaytime(ctx); err != nil {
		log.Warn().Err(err).Msg("play time statistics unavailable")
	}
	defer func() {
		if closeErr := lib.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close library")
		}
	}()

	snap, res, err := lib.Rescan(ctx)
	if err != nil {
		return fmt.Errorf("error scanning library: %w", err)
	}
	cli.PrintSummary(os.Stdout, snap, res)

	if *flags.Find != "" {
		cli.PrintMatches(os.Stdout, snap, *flags.Find, findLimit)
	}
	if *flags.CSV != "" {
		if err := cli.ExportCSV(*flags.CSV, snap); err != nil {
			return err
		}
		log.Info().Str("path", *flags.CSV).Msg("library exported")
	}

	if *flags.Watch || cfg.WatchEnabled() {
		if err := lib.Watch(ctx); err != nil {
			return fmt.Errorf("error watching library: %w", err)
		}
	}
	return nil
}
