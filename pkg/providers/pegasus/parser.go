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
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-library/pkg/assets"
	"github.com/ZaparooProject/zaparoo-library/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-library/pkg/filefilter"
	"github.com/ZaparooProject/zaparoo-library/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-library/pkg/metafile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	keyCollection = "collection"
	keyGame       = "game"
	extPrefix     = "x-"
)

// FileError is a problem found in one metadata file.
type FileError struct {
	Path    string
	Line    int
	Message string
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s, line %d: %s", e.Path, e.Line, e.Message)
}

// Parser reads metadata files into a SearchContext. Collections declared
// in the files produce file filters, which are collected across every file
// and only run by ApplyFilters once parsing is done.
type Parser struct {
	fs      afero.Fs
	sc      *catalog.SearchContext
	filters []*filefilter.Filter
	errs    []FileError

	// per file state
	path   string
	dir    string
	coll   *catalog.Collection
	game   catalog.GameID
	filter *filefilter.Filter
}

func NewParser(fs afero.Fs, sc *catalog.SearchContext) *Parser {
	return &Parser{fs: fs, sc: sc}
}

// Filters returns the file filters declared so far, in declaration order.
func (p *Parser) Filters() []*filefilter.Filter {
	return p.filters
}

// Errors returns every syntax and semantic error reported so far.
func (p *Parser) Errors() []FileError {
	return p.errs
}

// ReadFile parses one metadata file. Relative paths inside it resolve
// against the directory of the file. Only a failure to read the file is
// returned, problems in the content are collected by Errors.
func (p *Parser) ReadFile(path string) error {
	p.path = path
	p.dir = filepath.Dir(path)
	p.coll = nil
	p.game = catalog.NoGame
	p.filter = nil

	err := metafile.ReadFile(p.fs, path, p.parseEntry, func(e metafile.Error) {
		p.report(e.Line, e.Message)
	})
	if err != nil {
		return fmt.Errorf("failed to read metadata file: %w", err)
	}
	return nil
}

func (p *Parser) report(line int, msg string) {
	e := FileError{Path: p.path, Line: line, Message: msg}
	log.Warn().Str("file", p.path).Int("line", line).Msg(msg)
	p.errs = append(p.errs, e)
}

func (p *Parser) firstLine(e metafile.Entry) string {
	v, err := metafile.FirstLine(e)
	if errors.Is(err, metafile.ErrMultiLine) {
		log.Warn().Str("file", p.path).Int("line", e.Line).Str("key", e.Key).
			Msg("expected single line value, the rest of the lines are ignored")
	}
	return v
}

func (p *Parser) parseEntry(e metafile.Entry) {
	switch e.Key {
	case keyCollection:
		name := p.firstLine(e)
		p.coll = p.sc.GetOrCreateCollection(name)
		p.coll.SetBaseDir(p.dir)
		p.game = catalog.NoGame
		p.filter = filefilter.New(name, p.dir)
		p.filters = append(p.filters, p.filter)
		return
	case keyGame:
		p.game = p.sc.NewGame(p.firstLine(e))
		if p.coll != nil {
			p.sc.AddToCollection(p.coll.Name, p.game)
			p.sc.Game(p.game).InheritLaunch(p.coll.Launch, p.coll.Workdir)
		}
		return
	}

	if p.coll == nil && p.game == catalog.NoGame {
		p.report(e.Line, "no `collection` or `game` defined yet, entry ignored")
		return
	}

	if strings.HasPrefix(e.Key, extPrefix) {
		return
	}

	if p.parseAssetEntry(e) {
		return
	}

	if p.game != catalog.NoGame {
		p.parseGameEntry(e)
	} else {
		p.parseCollectionEntry(e)
	}
}

// parseAssetEntry handles "asset.<type>" and "assets.<type>" keys. It
// returns false if the key is not an asset key.
func (p *Parser) parseAssetEntry(e metafile.Entry) bool {
	m := reAssetKey.FindStringSubmatch(e.Key)
	if m == nil {
		return false
	}

	t := assets.ParseType(m[1])
	if t == assets.Unknown {
		p.report(e.Line, fmt.Sprintf("unknown asset type `%s`, entry ignored", m[1]))
		return true
	}

	var bag *assets.Bag
	if p.game != catalog.NoGame {
		bag = &p.sc.Game(p.game).Assets
	} else {
		bag = &p.coll.Assets
	}
	for _, line := range e.Values {
		bag.Add(t, p.assetURL(line))
	}
	return true
}

func (p *Parser) assetURL(line string) string {
	if helpers.IsRemoteURL(line) || strings.HasPrefix(line, "file://") {
		return line
	}
	return helpers.FileURL(helpers.ResolvePath(p.dir, line))
}

func (p *Parser) parseCollectionEntry(e metafile.Entry) {
	attrib, ok := collAttribs[e.Key]
	if !ok {
		p.report(e.Line, fmt.Sprintf("unrecognized collection property `%s`, ignored", e.Key))
		return
	}

	group := &p.filter.Include
	if strings.HasPrefix(e.Key, ignorePrefix) {
		group = &p.filter.Exclude
	}

	switch attrib {
	case collShortName:
		p.coll.SetShortName(p.firstLine(e))
	case collLaunch:
		p.coll.SetLaunch(metafile.MergeLines(e.Values))
	case collWorkdir:
		p.coll.SetWorkdir(p.firstLine(e))
	case collDirectories:
		for _, v := range e.Values {
			abs := helpers.ResolvePath(p.dir, v)
			dir, ok := helpers.CanonicalPath(p.fs, abs)
			if !ok {
				p.report(e.Line, fmt.Sprintf("directory path `%s` not found", abs))
				continue
			}
			p.filter.Directories = append(p.filter.Directories, dir)
		}
	case collExtensions:
		group.Extensions = append(group.Extensions,
			tokenizeByComma(strings.ToLower(p.firstLine(e)))...)
	case collFiles:
		group.Files = append(group.Files, e.Values...)
	case collRegex:
		group.Regex = p.firstLine(e)
		if _, err := helpers.GlobalRegexCache.Compile(group.Regex); err != nil {
			p.report(e.Line, fmt.Sprintf("invalid regular expression: %v", err))
		}
	case collSummary:
		p.coll.SetSummary(metafile.ReplaceNewlines(metafile.MergeLines(e.Values)))
	case collDescription:
		p.coll.SetDescription(metafile.ReplaceNewlines(metafile.MergeLines(e.Values)))
	case collSortName:
		p.coll.SetSortName(p.firstLine(e))
	}
}

func (p *Parser) parseGameEntry(e metafile.Entry) {
	attrib, ok := gameAttribs[e.Key]
	if !ok {
		p.report(e.Line, fmt.Sprintf("unrecognized game property `%s`, ignored", e.Key))
		return
	}

	g := p.sc.Game(p.game)
	switch attrib {
	case gameFiles:
		p.addGameFiles(e)
	case gameLaunch:
		g.SetLaunch(metafile.MergeLines(e.Values))
	case gameWorkdir:
		g.SetWorkdir(p.firstLine(e))
	case gameDevelopers:
		g.AddDevelopers(e.Values...)
	case gamePublishers:
		g.AddPublishers(e.Values...)
	case gameGenres:
		g.AddGenres(e.Values...)
	case gameTags:
		g.AddTags(e.Values...)
	case gamePlayers:
		if n := parsePlayers(p.firstLine(e)); n > 0 {
			g.SetPlayers(n)
		}
	case gameSummary:
		g.SetSummary(metafile.ReplaceNewlines(metafile.MergeLines(e.Values)))
	case gameDescription:
		g.SetDescription(metafile.ReplaceNewlines(metafile.MergeLines(e.Values)))
	case gameRelease:
		t, err := parseRelease(p.firstLine(e))
		if err != nil {
			p.report(e.Line, err.Error())
			return
		}
		g.SetRelease(t)
	case gameRating:
		r, err := parseRating(p.firstLine(e))
		if err != nil {
			p.report(e.Line, err.Error())
			return
		}
		g.SetRating(r)
	case gameSortTitle:
		g.SetSortTitle(p.firstLine(e))
	}
}

// addGameFiles attaches the listed files to the current game. A file
// already owned by a game declared elsewhere merges the current game into
// that one, and later entries of this block apply to the merged game.
func (p *Parser) addGameFiles(e metafile.Entry) {
	for _, line := range e.Values {
		path, ok := helpers.CanonicalPath(p.fs, helpers.ResolvePath(p.dir, line))
		if !ok {
			p.report(e.Line, fmt.Sprintf("missing file `%s`", line))
			continue
		}
		if owner, owned := p.sc.GameByPath(path); owned && owner == p.sc.Resolve(p.game) {
			p.report(e.Line, fmt.Sprintf("duplicate file `%s`", line))
			continue
		}

		id, err := p.sc.AddFile(p.game, path)
		if err != nil {
			log.Error().Err(err).Str("file", p.path).Msg("failed to add game file")
			continue
		}
		p.game = id
	}
}

// ApplyFilters runs every filter and adds the accepted files as games of
// the filter's collection. Games without a launch command of their own
// inherit the collection's one.
func ApplyFilters(fs afero.Fs, sc *catalog.SearchContext, filters []*filefilter.Filter) {
	for _, f := range filters {
		coll := sc.GetOrCreateCollection(f.Collection)
		paths := filefilter.Resolve(fs, f)
		for _, path := range paths {
			id, _ := sc.GetOrCreateGame(path)
			sc.AddToCollection(coll.Name, id)
			sc.Game(id).InheritLaunch(coll.Launch, coll.Workdir)
		}
		log.Debug().Str("collection", f.Collection).Int("files", len(paths)).
			Msg("collection filter applied")
	}
}
