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
	"fmt"
	"regexp"

	"github.com/ZaparooProject/zaparoo-library/pkg/helpers/syncutil"
)

// RegexCache keeps compiled user supplied patterns, so the same filter
// regex declared by many collections is compiled once. Invalid patterns
// are cached too and keep returning their error.
type RegexCache struct {
	cache map[string]regexEntry
	mu    syncutil.RWMutex
}

type regexEntry struct {
	re  *regexp.Regexp
	err error
}

// GlobalRegexCache is the shared instance used by the file filters.
var GlobalRegexCache = NewRegexCache()

func NewRegexCache() *RegexCache {
	return &RegexCache{
		cache: make(map[string]regexEntry),
	}
}

// Compile returns the compiled pattern, compiling it on first use.
func (rc *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	rc.mu.RLock()
	entry, ok := rc.cache[pattern]
	rc.mu.RUnlock()
	if ok {
		return entry.re, entry.err
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if entry, ok := rc.cache[pattern]; ok {
		return entry.re, entry.err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		err = fmt.Errorf("failed to compile regex pattern %q: %w", pattern, err)
	}
	rc.cache[pattern] = regexEntry{re: re, err: err}
	return re, err
}

// Len returns the number of cached patterns.
func (rc *RegexCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.cache)
}
