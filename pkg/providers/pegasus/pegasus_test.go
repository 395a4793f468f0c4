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
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/providers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func scan(t *testing.T, p *Provider) *catalog.Snapshot {
	t.Helper()
	snap, _, err := providers.NewManager([]providers.Provider{p}).Run(context.Background())
	require.NoError(t, err)
	return snap
}

const sampleMetafile = `collection: My Games
shortname: mygames
extensions: rom, zip
directories: ./roms

game: Super Game
file: roms/super.rom
developer: Acme
players: 1-2
release: 2001-05
rating: 85%
assets.boxFront: ./media/super-box.png
`

func TestSampleMetafile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/games/metadata.pegasus.txt": sampleMetafile,
		"/games/roms/super.rom":       "",
	})

	snap := scan(t, New(fs, []string{"/games"}, ""))

	require.Equal(t, 1, snap.CollectionCount())
	coll, ok := snap.Collection("My Games")
	require.True(t, ok)
	assert.Equal(t, "mygames", coll.ShortName)

	games := snap.CollectionGames("My Games")
	require.Len(t, games, 1)
	require.Equal(t, 1, snap.GameCount())

	g := games[0]
	assert.Equal(t, "Super Game", g.Title)
	assert.Equal(t, []string{"Acme"}, g.Developers)
	assert.Equal(t, 2, g.PlayerCount())
	assert.Equal(t, time.Date(2001, time.May, 1, 0, 0, 0, 0, time.UTC), g.Release)
	assert.InDelta(t, 0.85, g.Rating, 0.0001)
	assert.Equal(t, "file:///games/media/super-box.png", g.Assets.Get(assets.BoxFront))
	assert.Equal(t, "/games/roms/super.rom", g.PrimaryPath())
	assert.Equal(t, []string{"My Games"}, g.Collections)
}

func TestParserErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/games/metadata.txt": `shortname: early
collection: Errors
x-custom: ignored
unknown: value
regex: [
assets.nonsense: a.png
directory: ./nowhere

game: Broken
file: missing.rom
file: real.rom
file: real.rom
rating: lots
release: May 2001
size: 3
`,
		"/games/real.rom": "",
	})

	sc := catalog.NewSearchContext()
	parser := NewParser(fs, sc)
	require.NoError(t, parser.ReadFile("/games/metadata.txt"))

	var got []string
	var lines []int
	for _, e := range parser.Errors() {
		assert.Equal(t, "/games/metadata.txt", e.Path)
		got = append(got, e.Message)
		lines = append(lines, e.Line)
	}

	assert.Equal(t, []string{
		"no `collection` or `game` defined yet, entry ignored",
		"unrecognized collection property `unknown`, ignored",
		got[2],
		"unknown asset type `nonsense`, entry ignored",
		"directory path `/games/nowhere` not found",
		"missing file `missing.rom`",
		"duplicate file `real.rom`",
		"failed to parse rating value",
		"incorrect date format, should be YYYY, YYYY-MM or YYYY-MM-DD",
		"unrecognized game property `size`, ignored",
	}, got)
	assert.Contains(t, got[2], "invalid regular expression")
	assert.Equal(t, []int{1, 4, 5, 6, 7, 10, 12, 13, 14, 15}, lines)

	require.Len(t, parser.Filters(), 1)
	assert.Equal(t, []string{"/games"}, parser.Filters()[0].Directories)

	id, ok := sc.GameByPath("/games/real.rom")
	require.True(t, ok)
	assert.Equal(t, "Broken", sc.Game(id).Title)
	assert.False(t, sc.Game(id).HasRating())
}

func TestFileErrorMessage(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/games/metadata.txt": "collection: Bad\nsize: 3\n",
	})

	parser := NewParser(fs, catalog.NewSearchContext())
	require.NoError(t, parser.ReadFile("/games/metadata.txt"))
	require.Len(t, parser.Errors(), 1)

	var err error = parser.Errors()[0]
	assert.EqualError(t, err,
		"/games/metadata.txt, line 2: unrecognized collection property `size`, ignored")
}

func TestParserReadFileMissing(t *testing.T) {
	t.Parallel()

	parser := NewParser(afero.NewMemMapFs(), catalog.NewSearchContext())
	require.Error(t, parser.ReadFile("/nope/metadata.txt"))
}

func TestCollectionRules(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/games/metadata.txt": `collection: Arcade
extensions: ZIP
ignore-files: bad.zip
ignore-regex: beta
files:
  extra/special.bin
launch: emu
  {file.path}
workdir: /opt/emu
summary: line one\nline two
sort-name: arcade

game: Custom
file: custom.zip
launch: other {file.path}
`,
		"/games/one.zip":           "",
		"/games/bad.zip":           "",
		"/games/custom.zip":        "",
		"/games/two-beta.zip":      "",
		"/games/extra/special.bin": "",
		"/games/sub/three.zip":     "",
		"/games/media/ad.zip":      "",
	})

	snap := scan(t, New(fs, []string{"/games"}, ""))

	coll, ok := snap.Collection("Arcade")
	require.True(t, ok)
	assert.Equal(t, "emu {file.path}", coll.Launch)
	assert.Equal(t, "/opt/emu", coll.Workdir)
	assert.Equal(t, "line one\nline two", coll.Summary)
	assert.Equal(t, "arcade", coll.SortName)
	assert.Equal(t, "/games", coll.BaseDir)

	var paths []string
	for _, g := range snap.CollectionGames("Arcade") {
		paths = append(paths, g.PrimaryPath())
	}
	assert.ElementsMatch(t, []string{
		"/games/custom.zip",
		"/games/extra/special.bin",
		"/games/one.zip",
		"/games/sub/three.zip",
	}, paths)

	custom, ok := snap.GameByPath("/games/custom.zip")
	require.True(t, ok)
	assert.Equal(t, "other {file.path}", custom.Launch)
	assert.Equal(t, "/opt/emu", custom.Workdir)

	one, ok := snap.GameByPath("/games/one.zip")
	require.True(t, ok)
	assert.Equal(t, "emu {file.path}", one.Launch)
	assert.Equal(t, "one", one.Title)
}

func TestSameFileInTwoMetafilesMerges(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/a/metadata.txt": `collection: A

game: First
file: /shared/game.rom
developer: X
`,
		"/b/metadata.txt": `collection: B

game: Second
file: /shared/game.rom
developer: Y
summary: filled in
players: 4
`,
		"/shared/game.rom": "",
	})

	snap := scan(t, New(fs, []string{"/a", "/b"}, ""))

	require.Equal(t, 1, snap.GameCount())
	g, ok := snap.GameByPath("/shared/game.rom")
	require.True(t, ok)
	assert.Equal(t, "First", g.Title)
	assert.Equal(t, "filled in", g.Summary)
	assert.Equal(t, []string{"X", "Y"}, g.Developers)
	assert.Equal(t, 4, g.Players)
	assert.Equal(t, []string{"A", "B"}, g.Collections)
}

func TestGameWithoutFileIsDropped(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/games/metadata.txt": "collection: Empty\n\ngame: Ghost\ndeveloper: Nobody\n",
	})

	snap := scan(t, New(fs, []string{"/games"}, ""))
	assert.Zero(t, snap.GameCount())
	assert.Zero(t, snap.CollectionCount())
}

func TestFindMetafile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/one/metadata.txt":                     "",
		"/one/collections.txt":                  "",
		"/two/metadata.txt":                     "",
		"/two/metadata.pegasus.txt":             "",
		"/three/collections.pegasus.txt/readme": "",
		"/three/metadata.txt":                   "",
	})

	path, ok := FindMetafile(fs, "/one")
	require.True(t, ok)
	assert.Equal(t, "/one/collections.txt", path)

	path, ok = FindMetafile(fs, "/two")
	require.True(t, ok)
	assert.Equal(t, "/two/metadata.pegasus.txt", path)

	path, ok = FindMetafile(fs, "/three")
	require.True(t, ok)
	assert.Equal(t, "/three/metadata.txt", path)

	_, ok = FindMetafile(fs, "/none")
	assert.False(t, ok)
}

func TestGlobalMetafiles(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/cfg/metafiles/metadata.txt":         "collection: Global\nfile: /roms/g.rom\n",
		"/cfg/metafiles/foo.metadata.txt":     "",
		"/cfg/metafiles/metadata.pegasus.txt": "",
		"/cfg/metafiles/notes.txt":            "",
		"/cfg/metafiles/metadata.txt.bak":     "",
		"/roms/g.rom":                         "",
	})

	assert.Equal(t, []string{
		"/cfg/metafiles/foo.metadata.txt",
		"/cfg/metafiles/metadata.pegasus.txt",
		"/cfg/metafiles/metadata.txt",
	}, GlobalMetafiles(fs, "/cfg/metafiles"))
	assert.Nil(t, GlobalMetafiles(fs, ""))
	assert.Nil(t, GlobalMetafiles(fs, "/missing"))

	snap := scan(t, New(fs, nil, "/cfg/metafiles"))
	g, ok := snap.GameByPath("/roms/g.rom")
	require.True(t, ok)
	assert.Equal(t, []string{"Global"}, g.Collections)
}

func TestEnrichMedia(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/games/metadata.txt": `collection: C
extension: rom

game: Pretty Title
file: x1.rom
`,
		"/games/alpha.rom":                      "",
		"/games/beta.rom":                       "",
		"/games/x1.rom":                         "",
		"/games/media/alpha/boxFront.png":       "",
		"/games/media/alpha/screenshot01.jpg":   "",
		"/games/media/alpha/screenshot02.jpg":   "",
		"/games/media/alpha/logo.gif":           "",
		"/games/media/beta-boxFront.gif":        "",
		"/games/media/beta-logo.png":            "",
		"/games/media/beta.png":                 "",
		"/games/media/gamma-logo.png":           "",
		"/games/media/Pretty Title/marquee.png": "",
		"/games/media/Pretty Title/video.mp4":   "",
	})

	snap := scan(t, New(fs, []string{"/games"}, ""))

	alpha, ok := snap.GameByPath("/games/alpha.rom")
	require.True(t, ok)
	assert.Equal(t, "file:///games/media/alpha/boxFront.png", alpha.Assets.Get(assets.BoxFront))
	assert.Equal(t, []string{
		"file:///games/media/alpha/screenshot01.jpg",
		"file:///games/media/alpha/screenshot02.jpg",
	}, alpha.Assets.List(assets.Screenshot))
	assert.Empty(t, alpha.Assets.Get(assets.Logo))

	beta, ok := snap.GameByPath("/games/beta.rom")
	require.True(t, ok)
	assert.Equal(t, "file:///games/media/beta-logo.png", beta.Assets.Get(assets.Logo))
	assert.Equal(t, "file:///games/media/beta.png", beta.Assets.Get(assets.BoxFront))

	titled, ok := snap.GameByPath("/games/x1.rom")
	require.True(t, ok)
	assert.Equal(t, "file:///games/media/Pretty Title/marquee.png", titled.Assets.Get(assets.ArcadeMarquee))
	assert.Equal(t, []string{"file:///games/media/Pretty Title/video.mp4"}, titled.Assets.List(assets.Video))

	assert.Equal(t, 3, snap.GameCount())
}

func TestDiscoverCancelled(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/games/metadata.txt": "collection: C\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(fs, []string{"/games"}, "").Discover(ctx, catalog.NewSearchContext())
	require.ErrorIs(t, err, context.Canceled)
}
