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

// Package assets classifies media files into asset types and holds the per
// game and per collection asset slots.
package assets

import (
	"sort"
	"strings"
)

// Type is the category of a media file.
type Type int

const (
	Unknown Type = iota
	BoxFront
	BoxBack
	BoxSpine
	BoxFull
	Cartridge
	Logo
	Poster
	ArcadeMarquee
	ArcadeBezel
	ArcadePanel
	ArcadeCabinetLeft
	ArcadeCabinetRight
	UITile
	UIBanner
	UISteamGrid
	Background
	Music
	Screenshot
	Video
	TitleScreen
)

var typeNames = map[Type]string{
	Unknown:            "unknown",
	BoxFront:           "boxFront",
	BoxBack:            "boxBack",
	BoxSpine:           "boxSpine",
	BoxFull:            "boxFull",
	Cartridge:          "cartridge",
	Logo:               "logo",
	Poster:             "poster",
	ArcadeMarquee:      "marquee",
	ArcadeBezel:        "bezel",
	ArcadePanel:        "panel",
	ArcadeCabinetLeft:  "cabinetLeft",
	ArcadeCabinetRight: "cabinetRight",
	UITile:             "tile",
	UIBanner:           "banner",
	UISteamGrid:        "steamgrid",
	Background:         "background",
	Music:              "music",
	Screenshot:         "screenshot",
	Video:              "video",
	TitleScreen:        "titlescreen",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return typeNames[Unknown]
}

// IsMulti reports whether the type holds a list of files instead of one.
func (t Type) IsMulti() bool {
	switch t {
	case Screenshot, Video, Music:
		return true
	default:
		return false
	}
}

// Types returns every known asset type in declaration order.
func Types() []Type {
	types := make([]Type, 0, int(TitleScreen))
	for t := BoxFront; t <= TitleScreen; t++ {
		types = append(types, t)
	}
	return types
}

// aliases maps every accepted spelling of an asset name to its type.
var aliases = map[string]Type{
	"boxfront":  BoxFront,
	"boxFront":  BoxFront,
	"box_front": BoxFront,
	"boxart2D":  BoxFront,
	"boxart2d":  BoxFront,

	"boxback":  BoxBack,
	"boxBack":  BoxBack,
	"box_back": BoxBack,

	"boxspine":  BoxSpine,
	"boxSpine":  BoxSpine,
	"box_spine": BoxSpine,
	"boxside":   BoxSpine,
	"boxSide":   BoxSpine,
	"box_side":  BoxSpine,

	"boxfull":  BoxFull,
	"boxFull":  BoxFull,
	"box_full": BoxFull,
	"box":      BoxFull,

	"cartridge": Cartridge,
	"disc":      Cartridge,
	"cart":      Cartridge,

	"logo":  Logo,
	"wheel": Logo,

	"marquee":       ArcadeMarquee,
	"bezel":         ArcadeBezel,
	"screenmarquee": ArcadeBezel,
	"border":        ArcadeBezel,
	"panel":         ArcadePanel,

	"cabinetleft":   ArcadeCabinetLeft,
	"cabinetLeft":   ArcadeCabinetLeft,
	"cabinet_left":  ArcadeCabinetLeft,
	"cabinetright":  ArcadeCabinetRight,
	"cabinetRight":  ArcadeCabinetRight,
	"cabinet_right": ArcadeCabinetRight,

	"tile":      UITile,
	"banner":    UIBanner,
	"steam":     UISteamGrid,
	"steamgrid": UISteamGrid,
	"grid":      UISteamGrid,

	"poster":     Poster,
	"flyer":      Poster,
	"background": Background,
	"music":      Music,

	"screenshot":  Screenshot,
	"screenshots": Screenshot,
	"video":       Video,
	"videos":      Video,
	"titlescreen": TitleScreen,
}

// prefixOrder lists the aliases longest first so prefix matching is
// deterministic ("boxfront2" matches "boxfront", not "box").
var prefixOrder = func() []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// ParseType maps an asset name (a metadata key suffix or a media file base
// name) to its type. An exact alias match wins, otherwise the longest alias
// the name starts with is used, so "screenshot01" is a Screenshot.
func ParseType(name string) Type {
	if t, ok := aliases[name]; ok {
		return t
	}
	for _, alias := range prefixOrder {
		if strings.HasPrefix(name, alias) {
			return aliases[alias]
		}
	}
	return Unknown
}

// ParseSuffix is the exact-only variant of ParseType used for file name
// suffixes, where a prefix match would misread ordinary title words.
func ParseSuffix(suffix string) Type {
	if t, ok := aliases[suffix]; ok {
		return t
	}
	return Unknown
}
