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

package gdi

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dcisotools/gdiso/sector"
)

// trackLinePattern splits a manifest track line into its six fields.
// The filename field may be bare or double-quoted to allow embedded
// spaces, matching the format mkisofs/gdirip and gditools.py produce.
var trackLinePattern = regexp.MustCompile(`^(\d+)\s+(-?\d+)\s+(\d+)\s+(\d+)\s+("[^"]*"|\S+)\s+(\S+)\s*$`)

// Track is one line of a .gdi manifest: a physical track file and
// where it sits on the original disc.
type Track struct {
	Index    int // 1-based track number
	StartLBA int64
	Mode     sector.Mode
	Filename string
}

// ParseManifest reads a .gdi manifest: a first line giving the track
// count N, followed by N whitespace-separated lines of the form
// "track_index start_lba unknown sector_mode filename unknown".
// Blank lines are ignored.
func ParseManifest(r io.Reader) ([]Track, error) {
	scanner := bufio.NewScanner(r)

	var count int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("%w: track count line %q: %v", ErrInvalidGdi, line, err)
		}
		count = n
		break
	}

	tracks := make([]Track, 0, count)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		track, err := parseTrackLine(line)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", ErrInvalidGdi, err)
	}

	if len(tracks) != count {
		return nil, fmt.Errorf("%w: declared %d tracks, found %d", ErrInvalidGdi, count, len(tracks))
	}

	return tracks, nil
}

func parseTrackLine(line string) (Track, error) {
	fields := trackLinePattern.FindStringSubmatch(line)
	if fields == nil {
		return Track{}, fmt.Errorf("%w: malformed track line %q", ErrInvalidGdi, line)
	}

	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return Track{}, fmt.Errorf("%w: track index %q: %v", ErrInvalidGdi, fields[1], err)
	}
	startLBA, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Track{}, fmt.Errorf("%w: start_lba %q: %v", ErrInvalidGdi, fields[2], err)
	}
	modeNum, err := strconv.Atoi(fields[4])
	if err != nil {
		return Track{}, fmt.Errorf("%w: sector_mode %q: %v", ErrInvalidGdi, fields[4], err)
	}
	mode, ok := sector.ModeFromInt(modeNum)
	if !ok {
		return Track{}, fmt.Errorf("%w: unrecognized sector_mode %d", ErrInvalidGdi, modeNum)
	}

	return Track{
		Index:    index,
		StartLBA: startLBA,
		Mode:     mode,
		Filename: strings.Trim(fields[5], `"`),
	}, nil
}
