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

// Package metafile reads the line oriented key/value text format shared by
// the collection metadata files, custom filters and settings files.
//
// A file is a sequence of entries. Every entry starts with a "key: value"
// line and may continue on the following indented lines:
//
//	description: first paragraph
//	  continues here
//	  .
//	  second paragraph
//
// Lines starting with '#' are comments and a blank line closes the entry.
package metafile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	commentMark   = '#'
	emptyLineMark = "."
	maxLineSize   = 1024 * 1024
)

const (
	MsgNoAttribute   = "line starts with whitespace, but no attribute has been defined yet"
	MsgInvalidLine   = "line invalid, skipped"
	MsgValueMissing  = "attribute value missing, entry ignored"
	utf8BOM          = "\ufeff"
	escapedColon     = `\:`
	escapedNewline   = `\n`
	escapedBackslash = `\\n`
)

// Entry is one key with its ordered value lines. An explicit blank line
// inside a multi-line value is stored as an empty string.
type Entry struct {
	Key    string
	Values []string
	Line   int
}

// Error is a non-fatal syntax problem found at a given line.
type Error struct {
	Message string
	Line    int
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Read parses the stream and calls onEntry for every complete entry and
// onError for every malformed line. Syntax problems never stop the read;
// the returned error is only set if the underlying reader fails.
func Read(r io.Reader, onEntry func(Entry), onError func(Error)) error {
	if onEntry == nil {
		onEntry = func(Entry) {}
	}
	if onError == nil {
		onError = func(Error) {}
	}

	var entry Entry
	closeEntry := func() {
		if entry.Key != "" {
			if len(entry.Values) == 0 {
				onError(Error{Line: entry.Line, Message: MsgValueMissing})
			} else {
				onEntry(entry)
			}
		}
		entry = Entry{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	linenum := 0
	for scanner.Scan() {
		linenum++

		line := strings.TrimSuffix(scanner.Text(), "\r")
		if linenum == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		if strings.HasPrefix(line, string(commentMark)) {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			closeEntry()
			continue
		}

		first, _ := utf8.DecodeRuneInString(line)
		if unicode.IsSpace(first) {
			if entry.Key == "" {
				onError(Error{Line: linenum, Message: MsgNoAttribute})
				continue
			}
			if trimmed == emptyLineMark {
				entry.Values = append(entry.Values, "")
			} else {
				entry.Values = append(entry.Values, trimmed)
			}
			continue
		}

		closeEntry()

		key, value, ok := splitKeyValue(trimmed)
		if !ok {
			onError(Error{Line: linenum, Message: MsgInvalidLine})
			continue
		}

		entry.Key = key
		entry.Line = linenum
		if value != "" {
			entry.Values = append(entry.Values, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read metadata stream: %w", err)
	}

	closeEntry()
	return nil
}

// ReadFile opens the file at path and parses it with Read.
func ReadFile(fsys afero.Fs, path string, onEntry func(Entry), onError func(Error)) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open metadata file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Read(f, onEntry, onError)
}

// splitKeyValue splits at the first colon not preceded by a backslash. The
// key is unescaped, trimmed and lowercased.
func splitKeyValue(line string) (key, value string, ok bool) {
	idx := -1
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i > 0 && line[i-1] == '\\' {
			continue
		}
		idx = i
		break
	}
	if idx < 0 {
		return "", "", false
	}

	key = strings.ReplaceAll(line[:idx], escapedColon, ":")
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}

	return key, strings.TrimSpace(line[idx+1:]), true
}

// MergeLines joins value lines into a single text. Consecutive lines are
// joined with a space and an empty line becomes a paragraph break.
func MergeLines(values []string) string {
	if len(values) == 0 {
		return ""
	}

	size := 0
	for _, v := range values {
		size += len(v) + 2
	}

	var sb strings.Builder
	sb.Grow(size)

	endsWithNewline := false
	for _, v := range values {
		if v == "" {
			sb.WriteString("\n\n")
			endsWithNewline = true
			continue
		}
		if !endsWithNewline {
			sb.WriteByte(' ')
		}
		sb.WriteString(v)
		endsWithNewline = false
	}

	return strings.TrimSpace(sb.String())
}

// ErrMultiLine is returned by FirstLine when the entry has more than one
// value line and only the first one was used.
var ErrMultiLine = errors.New("expected a single line value, ignoring the rest")

// FirstLine returns the first value of the entry.
func FirstLine(e Entry) (string, error) {
	if len(e.Values) == 0 {
		return "", nil
	}
	if len(e.Values) > 1 {
		return e.Values[0], ErrMultiLine
	}
	return e.Values[0], nil
}

// ReplaceNewlines turns the two character sequence `\n` into a newline,
// while `\\n` is kept as a literal `\n`.
func ReplaceNewlines(s string) string {
	if !strings.Contains(s, escapedNewline) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], escapedBackslash):
			sb.WriteString(escapedNewline)
			i += len(escapedBackslash) - 1
		case strings.HasPrefix(s[i:], escapedNewline):
			sb.WriteByte('\n')
			i++
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
