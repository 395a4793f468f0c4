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

package assets

import (
	"path/filepath"
	"slices"
	"strings"
)

var (
	imageExts = []string{".png", ".jpg"}
	videoExts = []string{".webm", ".mp4", ".avi"}
	audioExts = []string{".mp3", ".ogg", ".wav"}
)

// Extensions returns the allowed file extensions for an asset type, in
// order of preference.
func Extensions(t Type) []string {
	switch t {
	case Unknown:
		return nil
	case Video:
		return videoExts
	case Music:
		return audioExts
	default:
		return imageExts
	}
}

// AllowedExtension reports whether ext (with leading dot, any case) is a
// valid file extension for the asset type.
func AllowedExtension(t Type, ext string) bool {
	return slices.Contains(Extensions(t), strings.ToLower(ext))
}

// Match is the result of classifying a media file by name.
type Match struct {
	// Stem is the file name without extension and without the asset suffix.
	Stem string
	Type Type
}

// DetectFile classifies a media file name by the "<stem>-<suffix>.<ext>"
// convention. A file without a recognised suffix is a BoxFront candidate.
// A recognised suffix with an extension not allowed for its type is
// Unknown, the file is not reassigned to another type.
func DetectFile(name string) Match {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if idx := strings.LastIndex(stem, "-"); idx > 0 {
		if t := ParseSuffix(stem[idx+1:]); t != Unknown {
			if !AllowedExtension(t, ext) {
				return Match{Stem: stem[:idx], Type: Unknown}
			}
			return Match{Stem: stem[:idx], Type: t}
		}
	}

	if AllowedExtension(BoxFront, ext) {
		return Match{Stem: stem, Type: BoxFront}
	}
	return Match{Stem: stem, Type: Unknown}
}

// DetectNamed classifies a file inside a per game media directory, where
// the base name itself is the asset name ("boxFront.png", "screenshot2.jpg").
func DetectNamed(name string) Type {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	t := ParseType(strings.TrimSuffix(base, ext))
	if t == Unknown || !AllowedExtension(t, ext) {
		return Unknown
	}
	return t
}
