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
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// AppInfo contains metadata for a Steam app from its manifest.
type AppInfo struct {
	AppID      string
	Name       string
	InstallDir string
}

// normalizeVDFKeys recursively lowercases all keys in a map[string]any tree.
// Valve's VDF format is case-insensitive, but Go maps use exact string matching.
func normalizeVDFKeys(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeVDFKeys(nested)
		}
		result[strings.ToLower(k)] = v
	}
	return result
}

func parseVDF(fs afero.Fs, path string) (map[string]any, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("error closing vdf file")
		}
	}()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return normalizeVDFKeys(m), nil
}

// LibraryDirs returns the steamapps directories of every Steam library,
// starting with the one inside the Steam root. Libraries listed in
// libraryfolders.vdf that do not exist are skipped.
func LibraryDirs(fs afero.Fs, root string) []string {
	main := filepath.Join(root, "steamapps")
	dirs := []string{main}

	m, err := parseVDF(fs, filepath.Join(main, "libraryfolders.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("no library folders list")
		return dirs
	}

	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		log.Warn().Msg("libraryfolders is not a map")
		return dirs
	}

	ids := make([]string, 0, len(lfs))
	for id := range lfs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		var libraryPath string
		switch v := lfs[id].(type) {
		case map[string]any:
			libraryPath, _ = v["path"].(string)
		case string:
			// old format: "1" "/path/to/library"
			libraryPath = v
		}
		if libraryPath == "" {
			continue
		}

		dir := filepath.Join(libraryPath, "steamapps")
		if dir == main {
			continue
		}
		if info, err := fs.Stat(dir); err != nil || !info.IsDir() {
			log.Debug().Str("library", id).Str("path", dir).Msg("library folder not found")
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// ReadAppManifest reads an appmanifest_<id>.acf file.
func ReadAppManifest(fs afero.Fs, path string) (AppInfo, error) {
	m, err := parseVDF(fs, path)
	if err != nil {
		return AppInfo{}, err
	}

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		return AppInfo{}, fmt.Errorf("appstate not found in manifest %s", path)
	}

	appID, _ := appState["appid"].(string)
	name, _ := appState["name"].(string)
	if appID == "" || name == "" {
		return AppInfo{}, fmt.Errorf("appid or name missing in manifest %s", path)
	}
	installDir, _ := appState["installdir"].(string)

	return AppInfo{AppID: appID, Name: name, InstallDir: installDir}, nil
}

// ScanManifests reads every app manifest of a steamapps directory.
func ScanManifests(fs afero.Fs, steamAppsDir string) []AppInfo {
	entries, err := afero.ReadDir(fs, steamAppsDir)
	if err != nil {
		log.Debug().Err(err).Str("path", steamAppsDir).Msg("error listing steamapps folder")
		return nil
	}

	var apps []AppInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
			continue
		}
		info, err := ReadAppManifest(fs, filepath.Join(steamAppsDir, name))
		if err != nil {
			log.Warn().Err(err).Msg("app manifest ignored")
			continue
		}
		apps = append(apps, info)
	}
	return apps
}

// redistributables are installed as apps but are not games.
var redistributables = map[string]struct{}{
	"228980":  {}, // Steamworks Common Redistributables
	"1070560": {}, // Steam Linux Runtime
	"1391110": {}, // Steam Linux Runtime - Soldier
	"1628350": {}, // Steam Linux Runtime - Sniper
}

var toolPrefixes = []string{
	"Proton ",
	"Steam Linux Runtime",
	"Steamworks Common Redistributables",
}

// IsTool reports whether the app is a compatibility tool or runtime
// rather than a game.
func IsTool(app AppInfo) bool {
	if _, ok := redistributables[app.AppID]; ok {
		return true
	}
	for _, prefix := range toolPrefixes {
		if strings.HasPrefix(app.Name, prefix) {
			return true
		}
	}
	return false
}
