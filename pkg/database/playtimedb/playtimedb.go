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

// Package playtimedb records play sessions of catalog entries and sums them
// up into per game statistics.
package playtimedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/database"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("play time database is not connected")

// Stats is the play history of one game file or launcher URI.
type Stats struct {
	LastPlayed time.Time
	Path       string
	Count      int
	Total      time.Duration
}

type PlaytimeDB struct {
	sql   *sql.DB
	clock clockwork.Clock
	path  string
}

// Open opens or creates the database at path and applies pending
// migrations.
func Open(ctx context.Context, path string, clock clockwork.Clock) (*PlaytimeDB, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if _, err := os.Stat(path); err != nil {
		if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o750); mkdirErr != nil {
			return nil, fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}

	sqlInstance, err := sql.Open("sqlite3", path+database.SqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlInstance.PingContext(ctx); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &PlaytimeDB{sql: sqlInstance, clock: clock, path: path}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}
	return db, nil
}

// NewWithSQL wraps an existing connection without running migrations.
func NewWithSQL(sqlDB *sql.DB, clock clockwork.Clock) *PlaytimeDB {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PlaytimeDB{sql: sqlDB, clock: clock}
}

func (db *PlaytimeDB) Path() string {
	return db.path
}

func (db *PlaytimeDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *PlaytimeDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// AddPlay records a session of path that started at start and lasted d.
func (db *PlaytimeDB) AddPlay(ctx context.Context, path string, start time.Time, d time.Duration) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	if path == "" {
		return errors.New("play session without path")
	}
	return sqlAddPlay(ctx, db.sql, path, start, max(0, d))
}

// StartSession records the start of a session of path now and returns a
// function that stores it with its elapsed duration.
func (db *PlaytimeDB) StartSession(path string) func(ctx context.Context) error {
	start := db.clock.Now()
	return func(ctx context.Context) error {
		return db.AddPlay(ctx, path, start, db.clock.Since(start))
	}
}

// Stats returns the statistics of one path. A path never played returns
// zero stats.
func (db *PlaytimeDB) Stats(ctx context.Context, path string) (Stats, error) {
	if db.sql == nil {
		return Stats{}, ErrNullSQL
	}
	return sqlStats(ctx, db.sql, path)
}

// AllStats returns the statistics of every played path, ordered by path.
func (db *PlaytimeDB) AllStats(ctx context.Context) ([]Stats, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlAllStats(ctx, db.sql)
}

// Cleanup removes sessions older than retentionDays and returns how many
// were deleted.
func (db *PlaytimeDB) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	cutoff := db.clock.Now().AddDate(0, 0, -retentionDays)
	return sqlCleanup(ctx, db.sql, cutoff)
}
