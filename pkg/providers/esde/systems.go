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

package esde

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// System is one <system> entry of an es_systems.cfg file.
type System struct {
	// Name is the short name of the system, also used for the gamelist
	// directory under the ES home
	Name string `xml:"name"`
	// FullName is the display name, optional
	FullName string `xml:"fullname"`
	// Path is the ROM directory of the system
	Path string `xml:"path"`
	// Extension is a list of file extensions separated by spaces or commas
	Extension string `xml:"extension"`
	// Command is the launch command with ES placeholders like %ROM%
	Command string `xml:"command"`
}

// SystemList is the root of an es_systems.cfg file.
type SystemList struct {
	XMLName xml.Name `xml:"systemList"`
	Systems []System `xml:"system"`
}

var ErrMissingField = errors.New("system entry is missing a required field")

// CollectionName returns the name of the collection the system's games
// are placed in.
func (s System) CollectionName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Name
}

// Validate checks the fields every usable system must have.
func (s System) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", s.Name},
		{"path", s.Path},
		{"extension", s.Extension},
		{"command", s.Command},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: <%s>", ErrMissingField, r.field)
		}
	}
	return nil
}

// ReadSystems reads and parses an es_systems.cfg file.
func ReadSystems(fs afero.Fs, path string) (SystemList, error) {
	f, err := fs.Open(path)
	if err != nil {
		return SystemList{}, fmt.Errorf("failed to open es_systems.cfg at %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing es_systems.cfg file")
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return SystemList{}, fmt.Errorf("failed to read es_systems.cfg at %s: %w", path, err)
	}

	var list SystemList
	if err := xml.Unmarshal(data, &list); err != nil {
		return SystemList{}, fmt.Errorf("failed to parse es_systems.cfg: %w", err)
	}
	return list, nil
}

// DefaultSystemsFiles returns the standard es_systems.cfg locations for a
// home directory, in lookup order.
func DefaultSystemsFiles(home string) []string {
	return []string{
		filepath.Join(home, ".emulationstation", "es_systems.cfg"),
		"/etc/emulationstation/es_systems.cfg",
	}
}

// FindSystemsFile returns the first existing file of candidates.
func FindSystemsFile(fs afero.Fs, candidates []string) (string, bool) {
	for _, path := range candidates {
		if info, err := fs.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

var commandReplacer = strings.NewReplacer(
	`"%ROM%"`, `"{file.path}"`,
	`%ROM%`, `"{file.path}"`,
	`%ROM_RAW%`, `{file.path}`,
	`%BASENAME%`, `{file.basename}`,
)

// LaunchCommand converts an ES command line to the launch command format
// of the catalog.
func LaunchCommand(cmd string) string {
	return commandReplacer.Replace(strings.TrimSpace(cmd))
}

var reListSeparator = regexp.MustCompile(`[,\s]+`)

// ParseExtensions splits the extension field into unique lowercase
// extensions without the leading dot.
func ParseExtensions(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, ext := range reListSeparator.Split(strings.ToLower(raw), -1) {
		ext = strings.TrimPrefix(strings.TrimPrefix(ext, "*"), ".")
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// SystemDir normalizes the path field of a system: backslashes become
// slashes and a leading "~" is the home directory.
func SystemDir(path, home string) string {
	p := strings.ReplaceAll(strings.TrimSpace(path), `\`, "/")
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return filepath.Clean(p)
}
