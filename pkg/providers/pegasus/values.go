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

package pegasus

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	errDateFormat = errors.New("incorrect date format, should be YYYY, YYYY-MM or YYYY-MM-DD")
	errRating     = errors.New("failed to parse rating value")
)

// parsePlayers reads "N" or "N-M" and returns the largest bound, at least
// one. Values not matching the format return 0.
func parsePlayers(s string) int {
	m := rePlayers.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[3])
	return max(1, a, b)
}

// parseRelease reads "YYYY", "YYYY-MM" or "YYYY-MM-DD". Out of range months
// and days are clamped instead of rejected, so "2001-13-40" is 2001-12-31.
func parseRelease(s string) (time.Time, error) {
	m := reDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, errDateFormat
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[3])
	day, _ := strconv.Atoi(m[5])

	year = max(1, year)
	month = min(12, max(1, month))
	day = min(daysIn(year, time.Month(month)), max(1, day))

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// parseRating reads "NN%" or a float between 0 and 1, clamped to [0, 1].
func parseRating(s string) (float64, error) {
	if m := rePercent.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, errRating
		}
		return clamp01(n / 100), nil
	}
	if reFloat.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errRating
		}
		return clamp01(n), nil
	}
	return 0, errRating
}

func clamp01(f float64) float64 {
	return min(1, max(0, f))
}

// tokenizeByComma splits a comma separated list, dropping empty items.
func tokenizeByComma(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
