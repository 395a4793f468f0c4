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

package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath_MemMapFs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/games/a.rom", []byte("x"), 0o644))

	p, ok := CanonicalPath(fs, "/games/../games/./a.rom")
	assert.True(t, ok)
	assert.Equal(t, "/games/a.rom", p)

	_, ok = CanonicalPath(fs, "/games/missing.rom")
	assert.False(t, ok)

	_, ok = CanonicalPath(fs, "")
	assert.False(t, ok)
}

func TestCanonicalPath_OsFsResolvesSymlinks(t *testing.T) {
	t.Parallel()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	target := filepath.Join(dir, "real.rom")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	link := filepath.Join(dir, "link.rom")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	p, ok := CanonicalPath(afero.NewOsFs(), link)
	assert.True(t, ok)
	assert.Equal(t, target, p)
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/games/roms/a.rom", ResolvePath("/games", "./roms/a.rom"))
	assert.Equal(t, "/other/a.rom", ResolvePath("/games", "/other/../other/a.rom"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "roms"), ResolvePath("/games", "~/roms"))
}

func TestPathHasPrefix(t *testing.T) {
	t.Parallel()

	assert.True(t, PathHasPrefix("/roms/game.bin", "/roms"))
	assert.True(t, PathHasPrefix("/roms", "/roms/"))
	assert.False(t, PathHasPrefix("/roms2/game.bin", "/roms"))
}

func TestURLs(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRemoteURL("https://example.com/box.png"))
	assert.True(t, IsRemoteURL("HTTP://example.com/box.png"))
	assert.False(t, IsRemoteURL("ftp://example.com/box.png"))
	assert.False(t, IsRemoteURL("./media/box.png"))

	u := FileURL("/games/media/box.png")
	assert.Equal(t, "file:///games/media/box.png", u)

	p, ok := PathFromURL(u)
	assert.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/games/media/box.png"), p)

	_, ok = PathFromURL("steam:123")
	assert.False(t, ok)
}

func TestFilenameFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Super Game", FilenameFromPath("/roms/Super Game.sfc"))
	assert.Equal(t, "archive.tar", FilenameFromPath("archive.tar.gz"))
	assert.Equal(t, ".hidden", FilenameFromPath("/roms/.hidden"))
	assert.Equal(t, "noext", FilenameFromPath("noext"))
}

func TestRegexCache(t *testing.T) {
	t.Parallel()

	rc := NewRegexCache()
	re1, err := rc.Compile(`\.rom$`)
	require.NoError(t, err)
	re2, err := rc.Compile(`\.rom$`)
	require.NoError(t, err)
	assert.Same(t, re1, re2)

	_, err = rc.Compile(`(`)
	require.Error(t, err)
	_, err = rc.Compile(`(`)
	require.Error(t, err)
	assert.Equal(t, 2, rc.Len())
}

func TestInitLogging(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, InitLogging(dir, true, nil))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
