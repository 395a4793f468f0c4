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

package assets

import "slices"

// Bag holds the asset URLs of one game or collection. Single slots keep the
// first URL assigned, multi slots collect unique URLs in insertion order.
type Bag struct {
	single map[Type]string
	multi  map[Type][]string
}

// Add assigns url to the slot of type t. It returns false if the URL was
// rejected: empty, unknown type, an occupied single slot or a duplicate.
func (b *Bag) Add(t Type, url string) bool {
	if url == "" || t == Unknown {
		return false
	}

	if t.IsMulti() {
		if b.multi == nil {
			b.multi = make(map[Type][]string)
		}
		if slices.Contains(b.multi[t], url) {
			return false
		}
		b.multi[t] = append(b.multi[t], url)
		return true
	}

	if b.single == nil {
		b.single = make(map[Type]string)
	}
	if _, ok := b.single[t]; ok {
		return false
	}
	b.single[t] = url
	return true
}

// Get returns the URL of a single slot, or the first URL of a multi slot.
func (b *Bag) Get(t Type) string {
	if t.IsMulti() {
		if list := b.multi[t]; len(list) > 0 {
			return list[0]
		}
		return ""
	}
	return b.single[t]
}

// List returns every URL stored for the type.
func (b *Bag) List(t Type) []string {
	if t.IsMulti() {
		return slices.Clone(b.multi[t])
	}
	if url, ok := b.single[t]; ok {
		return []string{url}
	}
	return nil
}

// Empty reports whether the bag holds no URL at all.
func (b *Bag) Empty() bool {
	return len(b.single) == 0 && len(b.multi) == 0
}

// Merge fills the bag from another one, following the same slot rules.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, t := range Types() {
		for _, url := range other.List(t) {
			b.Add(t, url)
		}
	}
}
