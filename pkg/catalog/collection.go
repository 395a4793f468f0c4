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

package catalog

import "github.com/ZaparooProject/zaparoo-library/pkg/assets"

// Collection is a named group of games sharing launch settings.
type Collection struct {
	Assets      assets.Bag
	Name        string
	ShortName   string
	SortName    string
	Summary     string
	Description string
	Launch      string
	Workdir     string
	// BaseDir is the directory relative launch paths and workdirs of the
	// member games resolve against.
	BaseDir string
}

func (c *Collection) SetShortName(v string) bool   { return setFirst(&c.ShortName, v) }
func (c *Collection) SetSortName(v string) bool    { return setFirst(&c.SortName, v) }
func (c *Collection) SetSummary(v string) bool     { return setFirst(&c.Summary, v) }
func (c *Collection) SetDescription(v string) bool { return setFirst(&c.Description, v) }
func (c *Collection) SetLaunch(v string) bool      { return setFirst(&c.Launch, v) }
func (c *Collection) SetWorkdir(v string) bool     { return setFirst(&c.Workdir, v) }
func (c *Collection) SetBaseDir(v string) bool     { return setFirst(&c.BaseDir, v) }

func (c *Collection) clone() *Collection {
	cp := *c
	cp.Assets = assets.Bag{}
	cp.Assets.Merge(&c.Assets)
	return &cp
}
