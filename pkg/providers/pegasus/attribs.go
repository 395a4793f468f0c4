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

import "regexp"

type collAttrib int

const (
	collShortName collAttrib = iota
	collLaunch
	collWorkdir
	collDirectories
	collExtensions
	collFiles
	collRegex
	collSummary
	collDescription
	collSortName
)

type gameAttrib int

const (
	gameFiles gameAttrib = iota
	gameLaunch
	gameWorkdir
	gameDevelopers
	gamePublishers
	gameGenres
	gameTags
	gamePlayers
	gameSummary
	gameDescription
	gameRelease
	gameRating
	gameSortTitle
)

// keys starting with this prefix go to the exclude side of the filter
const ignorePrefix = "ignore-"

var collAttribs = map[string]collAttrib{
	"shortname":         collShortName,
	"launch":            collLaunch,
	"command":           collLaunch,
	"workdir":           collWorkdir,
	"cwd":               collWorkdir,
	"directory":         collDirectories,
	"directories":       collDirectories,
	"extension":         collExtensions,
	"extensions":        collExtensions,
	"file":              collFiles,
	"files":             collFiles,
	"regex":             collRegex,
	"ignore-extension":  collExtensions,
	"ignore-extensions": collExtensions,
	"ignore-file":       collFiles,
	"ignore-files":      collFiles,
	"ignore-regex":      collRegex,
	"summary":           collSummary,
	"description":       collDescription,
	"sortname":          collSortName,
	"sort_name":         collSortName,
	"sort-name":         collSortName,
}

var gameAttribs = map[string]gameAttrib{
	"file":        gameFiles,
	"files":       gameFiles,
	"launch":      gameLaunch,
	"command":     gameLaunch,
	"workdir":     gameWorkdir,
	"cwd":         gameWorkdir,
	"developer":   gameDevelopers,
	"developers":  gameDevelopers,
	"publisher":   gamePublishers,
	"publishers":  gamePublishers,
	"genre":       gameGenres,
	"genres":      gameGenres,
	"tag":         gameTags,
	"tags":        gameTags,
	"players":     gamePlayers,
	"summary":     gameSummary,
	"description": gameDescription,
	"release":     gameRelease,
	"rating":      gameRating,
	"sorttitle":   gameSortTitle,
	"sortname":    gameSortTitle,
	"sort_title":  gameSortTitle,
	"sort_name":   gameSortTitle,
	"sort-title":  gameSortTitle,
	"sort-name":   gameSortTitle,
}

var (
	reAssetKey     = regexp.MustCompile(`^assets?\.(.+)$`)
	rePlayers      = regexp.MustCompile(`^(\d+)(-(\d+))?$`)
	rePercent      = regexp.MustCompile(`^(\d+)%$`)
	reFloat        = regexp.MustCompile(`^\d(\.\d+)?$`)
	reDate         = regexp.MustCompile(`^(\d{4})(-(\d{1,2}))?(-(\d{1,2}))?$`)
	reMetafileName = regexp.MustCompile(`^(.+\.)?metadata(\.pegasus)?\.txt$`)
)
