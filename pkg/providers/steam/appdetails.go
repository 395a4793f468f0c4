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

package steam

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// AppDetails is the subset of a Steam store "appdetails" response used to
// describe a game. Cached responses are read as is, either wrapped in the
// {"<appid>": {"success": ..., "data": ...}} envelope or as the bare data
// object.
type AppDetails struct {
	Name        string   `json:"name"`
	Summary     string   `json:"short_description"`
	Description string   `json:"about_the_game"`
	HeaderImage string   `json:"header_image"`
	Background  string   `json:"background_raw"`
	Developers  []string `json:"developers"`
	Publishers  []string `json:"publishers"`
	Genres      []struct {
		Description string `json:"description"`
	} `json:"genres"`
	ReleaseDate struct {
		Date       string `json:"date"`
		ComingSoon bool   `json:"coming_soon"`
	} `json:"release_date"`
}

type appDetailsEnvelope struct {
	Data    *AppDetails `json:"data"`
	Success bool        `json:"success"`
}

var storeDateFormats = []string{
	"2 Jan, 2006",
	"Jan 2, 2006",
	"Jan 2006",
	"2006",
}

// ReadAppDetails parses a cached appdetails response of one app.
func ReadAppDetails(fs afero.Fs, path, appID string) (AppDetails, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return AppDetails{}, fmt.Errorf("failed to read app details: %w", err)
	}

	var wrapped map[string]appDetailsEnvelope
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if env, ok := wrapped[appID]; ok {
			if !env.Success || env.Data == nil {
				return AppDetails{}, fmt.Errorf("app details for %s not available", appID)
			}
			return *env.Data, nil
		}
	}

	var details AppDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return AppDetails{}, fmt.Errorf("failed to parse app details: %w", err)
	}
	return details, nil
}

// ReleaseTime returns the parsed release date, if the store date is in one
// of the known English formats.
func (d *AppDetails) ReleaseTime() (time.Time, bool) {
	if d.ReleaseDate.ComingSoon || d.ReleaseDate.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range storeDateFormats {
		if t, err := time.Parse(layout, d.ReleaseDate.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func applyAppDetails(fs afero.Fs, g *catalog.Game, path, appID string) {
	if _, err := fs.Stat(path); err != nil {
		return
	}
	d, err := ReadAppDetails(fs, path, appID)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("skipping cached app details")
		return
	}

	g.SetTitle(d.Name)
	g.SetSummary(d.Summary)
	g.SetDescription(d.Description)
	g.AddDevelopers(d.Developers...)
	g.AddPublishers(d.Publishers...)
	for _, genre := range d.Genres {
		g.AddGenres(genre.Description)
	}
	if t, ok := d.ReleaseTime(); ok {
		g.SetRelease(t)
	}
	if d.HeaderImage != "" {
		g.Assets.Add(assets.UISteamGrid, d.HeaderImage)
	}
	if d.Background != "" {
		g.Assets.Add(assets.Background, d.Background)
	}
}
