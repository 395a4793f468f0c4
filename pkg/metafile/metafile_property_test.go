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

package metafile

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func keyGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z][a-z0-9_.-]{0,15}`)
}

func valueGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ,.!?()-]{0,30}[A-Za-z0-9]`)
}

// TestPropertyScalarRoundTrip checks a single key: value line survives
// Read and MergeLines unchanged.
func TestPropertyScalarRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		key := keyGen().Draw(t, "key")
		value := valueGen().Draw(t, "value")
		pad := rapid.StringMatching(`[ \t]{0,3}`).Draw(t, "pad")

		var got []Entry
		err := Read(strings.NewReader(key+":"+pad+value+pad+"\n"), func(e Entry) {
			got = append(got, e)
		}, func(e Error) {
			t.Fatalf("unexpected error: %v", e)
		})
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected one entry, got %d", len(got))
		}
		if got[0].Key != key {
			t.Fatalf("key %q != %q", got[0].Key, key)
		}
		if merged := MergeLines(got[0].Values); merged != value {
			t.Fatalf("merged %q != %q", merged, value)
		}
	})
}

// TestPropertyEntriesNeverEmpty checks that no emitted entry has an empty
// value list, whatever the input looks like.
func TestPropertyEntriesNeverEmpty(t *testing.T) {
	t.Parallel()

	lineGen := rapid.OneOf(
		rapid.Just(""),
		rapid.Just("  ."),
		rapid.Just("# comment"),
		rapid.Just("no colon here"),
		rapid.Map(keyGen(), func(k string) string { return k + ":" }),
		rapid.Map(valueGen(), func(v string) string { return "  " + v }),
		rapid.Map(keyGen(), func(k string) string { return k + ": value" }),
	)

	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(lineGen, 0, 40).Draw(t, "lines")

		err := Read(strings.NewReader(strings.Join(lines, "\n")), func(e Entry) {
			if len(e.Values) == 0 {
				t.Fatalf("entry %q at line %d has no values", e.Key, e.Line)
			}
			if e.Line < 1 || e.Line > len(lines) {
				t.Fatalf("entry line %d out of range", e.Line)
			}
		}, nil)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
	})
}

func TestPropertyMergeLinesTrimmed(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOf(rapid.OneOf(rapid.Just(""), valueGen())).Draw(t, "values")
		merged := MergeLines(values)
		if merged != strings.TrimSpace(merged) {
			t.Fatalf("result %q is not trimmed", merged)
		}
		if MergeLines(values) != merged {
			t.Fatalf("not deterministic")
		}
	})
}
