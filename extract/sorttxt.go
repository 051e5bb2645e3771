// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

package extract

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/dcisotools/gdiso/iso9660"
)

// SortField is a record field sorttxt can order by.
type SortField int

const (
	// ByExtentLBA orders by a file's starting logical block address.
	ByExtentLBA SortField = iota
	// ByName orders by a file's fully qualified volume path.
	ByName
	// ByExtentLength orders by a file's size in bytes.
	ByExtentLength
)

// parseCriterion accepts both the spec's full field names
// (extent_lba, name, extent_length) and the authoring tool's
// original short aliases (ex_loc, ex_len), case-insensitively. The
// case of the first rune selects sort order: lowercase ascends,
// uppercase descends.
func parseCriterion(criterion string) (field SortField, ascending bool, err error) {
	if criterion == "" {
		return 0, false, fmt.Errorf("extract: empty sort criterion")
	}
	ascending = unicode.IsLower(rune(criterion[0]))
	switch strings.ToLower(criterion) {
	case "extent_lba", "ex_loc":
		return ByExtentLBA, ascending, nil
	case "name":
		return ByName, ascending, nil
	case "extent_length", "ex_len":
		return ByExtentLength, ascending, nil
	default:
		return 0, false, fmt.Errorf("extract: unrecognized sort criterion %q", criterion)
	}
}

// SortTxt builds a sorttxt ordering file: CRLF-terminated lines of the
// form "{prefix}{name} {rank}" over every file record in records
// (directories are ignored). rank starts at spacer and increases by
// spacer per line; when dummy is non-empty, a trailing line names it
// with rank (count+1) x spacer.
func SortTxt(records []iso9660.Record, criterion, prefix, dummy string, spacer int) (string, error) {
	field, ascending, err := parseCriterion(criterion)
	if err != nil {
		return "", err
	}

	files := make([]iso9660.Record, 0, len(records))
	for _, rec := range records {
		if !rec.IsDir() {
			files = append(files, rec)
		}
	}

	less := lessFunc(field)
	sort.SliceStable(files, func(i, j int) bool {
		if ascending {
			return less(files[i], files[j])
		}
		return less(files[j], files[i])
	})

	var b strings.Builder
	for i, rec := range files {
		rank := (i + 1) * spacer
		fmt.Fprintf(&b, "%s%s %d\r\n", prefix, rec.Name, rank)
	}
	if dummy != "" {
		rank := (len(files) + 1) * spacer
		fmt.Fprintf(&b, "%s%s %d\r\n", prefix, dummy, rank)
	}
	return b.String(), nil
}

func lessFunc(field SortField) func(a, b iso9660.Record) bool {
	switch field {
	case ByExtentLBA:
		return func(a, b iso9660.Record) bool { return a.ExtentLBA < b.ExtentLBA }
	case ByExtentLength:
		return func(a, b iso9660.Record) bool { return a.ExtentLength < b.ExtentLength }
	case ByName:
		return func(a, b iso9660.Record) bool { return a.Name < b.Name }
	default:
		return func(a, b iso9660.Record) bool { return a.ExtentLBA < b.ExtentLBA }
	}
}
