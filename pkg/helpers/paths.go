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
	"regexp"
	"strings"
	"sync"

	"github.com/ZaparooProject/zaparoo-library/pkg/config"
	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

var (
	userDirOnce        sync.Once
	userDirCache       string
	userDirCacheExists bool
)

// HasUserDir checks for a "user" directory next to the executable and
// returns its absolute path. It is used instead of the XDG directories for
// portable installs. The result is cached after the first call.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exePath := os.Getenv(config.AppEnv)
		if exePath == "" {
			var err error
			exePath, err = os.Executable()
			if err != nil {
				return
			}
		}

		userDir := filepath.Join(filepath.Dir(exePath), config.UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			return
		}

		userDirCache = userDir
		userDirCacheExists = true
	})

	return userDirCache, userDirCacheExists
}

// ConfigDir returns the directory holding the config file and the global
// metadata files.
func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir returns the directory holding databases and logs.
func DataDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

// CanonicalPath returns the absolute, cleaned form of path and whether it
// exists. On the OS filesystem symlinks are resolved as well, other
// filesystems only get the lexical cleanup.
func CanonicalPath(fs afero.Fs, path string) (string, bool) {
	if path == "" {
		return "", false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	if _, ok := fs.(*afero.OsFs); ok {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", false
		}
		return resolved, true
	}

	if _, err := fs.Stat(abs); err != nil {
		return "", false
	}
	return abs, true
}

// ResolvePath joins a relative path onto base. Absolute paths are returned
// cleaned and a leading "~/" is expanded to the user's home directory.
func ResolvePath(base, path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// PathHasPrefix checks if path is within root, respecting separator
// boundaries so "/roms2/game.bin" is not inside "/roms".
func PathHasPrefix(path, root string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	root = filepath.ToSlash(filepath.Clean(root))
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return strings.HasPrefix(path, root)
}

var ReURI = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*)://(.+)$`)

// IsRemoteURL reports whether s is an http or https URL.
func IsRemoteURL(s string) bool {
	m := ReURI.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	scheme := strings.ToLower(m[1])
	return scheme == "http" || scheme == "https"
}

const fileScheme = "file://"

// FileURL converts an absolute local path to a file:// URL.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return fileScheme + p
}

// PathFromURL returns the local path of a file:// URL.
func PathFromURL(u string) (string, bool) {
	if !strings.HasPrefix(u, fileScheme) {
		return "", false
	}
	return filepath.FromSlash(strings.TrimPrefix(u, fileScheme)), true
}

// FilenameFromPath returns the file name without extension. Dot files keep
// their full name.
func FilenameFromPath(p string) string {
	base := filepath.Base(p)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}
