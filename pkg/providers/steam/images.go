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
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/spf13/afero"
)

// libraryImages maps the image names of the client's library cache to
// asset types.
var libraryImages = []struct {
	name string
	t    assets.Type
}{
	{"library_600x900", assets.BoxFront},
	{"header", assets.UISteamGrid},
	{"library_hero", assets.Background},
	{"logo", assets.Logo},
}

var imageExts = []string{".jpg", ".png"}

// addLibraryImages looks up the cached images of an app, both in the flat
// "<appid>_<name>.<ext>" layout and in the "<appid>/<name>.<ext>" layout
// of newer clients.
func addLibraryImages(fs afero.Fs, g *catalog.Game, cacheDir, appID string) {
	for _, img := range libraryImages {
		for _, ext := range imageExts {
			candidates := []string{
				filepath.Join(cacheDir, appID+"_"+img.name+ext),
				filepath.Join(cacheDir, appID, img.name+ext),
			}
			for _, path := range candidates {
				if info, err := fs.Stat(path); err == nil && !info.IsDir() {
					g.Assets.Add(img.t, helpers.FileURL(path))
				}
			}
		}
	}
}
