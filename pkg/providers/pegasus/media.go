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
	"context"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Enrich assigns the files found in the media directory of every root to
// the games they are named after. Both layouts are supported:
//
//	media/<game>/<asset>.<ext>
//	media/<game>-<asset>.<ext>
//
// where <game> is the file name of a game file without extension, or the
// game title, relative to the root.
func (p *Provider) Enrich(ctx context.Context, sc *catalog.SearchContext) error {
	index := buildIndex(sc)
	if index.Len() == 0 {
		return nil
	}

	total := 0
	for _, root := range sc.RootDirs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		total += findAssets(p.fs, root, index, sc)
	}

	log.Info().Int("assets", total).Msg("media files assigned")
	return nil
}

func buildIndex(sc *catalog.SearchContext) *assets.Index[catalog.GameID] {
	index := assets.NewIndex[catalog.GameID]()
	for _, id := range sc.Games() {
		g := sc.Game(id)
		for _, f := range g.Files {
			if !filepath.IsAbs(f.Path) {
				continue
			}
			dir := filepath.Dir(f.Path)
			index.Add(assets.Key(dir, helpers.FilenameFromPath(f.Path)), id)
			if g.Title != "" {
				index.Add(assets.Key(dir, g.Title), id)
			}
		}
	}
	return index
}

func findAssets(
	fs afero.Fs,
	root string,
	index *assets.Index[catalog.GameID],
	sc *catalog.SearchContext,
) int {
	mediaDir := filepath.Join(root, assets.MediaDir)
	if info, err := fs.Stat(mediaDir); err != nil || !info.IsDir() {
		return 0
	}

	found := 0
	err := afero.Walk(fs, mediaDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("failed to read media entry")
			return nil
		}
		if info.IsDir() {
			return nil
		}

		id, t, ok := lookupAsset(root, path, index)
		if !ok {
			return nil
		}
		if sc.Game(id).Assets.Add(t, helpers.FileURL(path)) {
			found++
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("dir", mediaDir).Msg("failed to scan media directory")
	}
	return found
}

func lookupAsset(
	root string,
	path string,
	index *assets.Index[catalog.GameID],
) (catalog.GameID, assets.Type, bool) {
	if key, ok := assets.MediaKey(root, filepath.Dir(path)); ok {
		if id, found := index.Get(key); found {
			t := assets.DetectNamed(path)
			return id, t, t != assets.Unknown
		}
	}

	m := assets.DetectFile(path)
	if m.Type == assets.Unknown {
		return catalog.NoGame, assets.Unknown, false
	}
	key, ok := assets.MediaKey(root, filepath.Join(filepath.Dir(path), m.Stem))
	if !ok {
		return catalog.NoGame, assets.Unknown, false
	}
	id, found := index.Get(key)
	return id, m.Type, found
}
