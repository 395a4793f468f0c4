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

package playtimedb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run play time database migrations: %w", err)
	}
	return nil
}

func sqlAddPlay(ctx context.Context, db *sql.DB, path string, start time.Time, d time.Duration) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO PlaySessions(Path, StartTime, Duration) VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare play session insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx, path, start.Unix(), int64(d/time.Second))
	if err != nil {
		return fmt.Errorf("failed to execute play session insert: %w", err)
	}
	return nil
}

const statsColumns = `Path, COUNT(*), COALESCE(SUM(Duration), 0), COALESCE(MAX(StartTime), 0)`

func scanStats(row interface{ Scan(...any) error }) (Stats, error) {
	var (
		s     Stats
		total int64
		last  int64
	)
	if err := row.Scan(&s.Path, &s.Count, &total, &last); err != nil {
		return Stats{}, err
	}
	s.Total = time.Duration(total) * time.Second
	if last > 0 {
		s.LastPlayed = time.Unix(last, 0).UTC()
	}
	return s, nil
}

func sqlStats(ctx context.Context, db *sql.DB, path string) (Stats, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+statsColumns+`
		FROM PlaySessions WHERE Path = ? GROUP BY Path;
	`, path)

	s, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{Path: path}, nil
	} else if err != nil {
		return Stats{}, fmt.Errorf("failed to query play stats: %w", err)
	}
	return s, nil
}

func sqlAllStats(ctx context.Context, db *sql.DB) ([]Stats, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+statsColumns+`
		FROM PlaySessions GROUP BY Path ORDER BY Path;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query play stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close play stats rows")
		}
	}()

	var list []Stats
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play stats row: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating play stats rows: %w", err)
	}
	return list, nil
}

func sqlCleanup(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `DELETE FROM PlaySessions WHERE StartTime < ?;`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare play session cleanup statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to execute play session cleanup: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
