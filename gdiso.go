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

// Package gdiso reads SEGA Dreamcast GD-ROM disc images described by
// a .gdi manifest: it synthesizes the logical ISO9660 data stream
// from the manifest's track files, parses the filesystem, and drives
// extraction of files, the boot sector image, and a sorttxt ordering
// file.
package gdiso

import (
	"fmt"

	"github.com/dcisotools/gdiso/extract"
	"github.com/dcisotools/gdiso/gdi"
	"github.com/dcisotools/gdiso/iso9660"
)

// Disc is a fully opened GD-ROM image: its .gdi track manifest, the
// composed logical stream built from it, and an ISO9660 reader over
// that stream.
type Disc struct {
	gdiDisc *gdi.Disc
	reader  *iso9660.Reader
	ext     *extract.Extractor
}

// Open opens a .gdi manifest, which may be a bare file or packaged
// inside a .zip/.7z/.rar archive, and parses the ISO9660 volume its
// track files carry.
func Open(path string) (*Disc, error) {
	gdiDisc, err := gdi.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gdiso: open %s: %w", path, err)
	}

	reader, err := iso9660.NewReader(gdiDisc.Source())
	if err != nil {
		_ = gdiDisc.Close()
		return nil, fmt.Errorf("gdiso: parse volume: %w", err)
	}

	return &Disc{
		gdiDisc: gdiDisc,
		reader:  reader,
		ext:     extract.New(reader),
	}, nil
}

// Close releases every physical track file handle this disc opened.
func (d *Disc) Close() error {
	return d.gdiDisc.Close()
}

// Tracks returns the parsed .gdi manifest's track list.
func (d *Disc) Tracks() []gdi.Track { return d.gdiDisc.Tracks }

// PVD returns the volume's parsed primary volume descriptor.
func (d *Disc) PVD() iso9660.PVD { return d.reader.PVD() }

// VolumeLabel returns the PVD volume label, which resolves the CLI's
// --data-folder __volume_label__ convention.
func (d *Disc) VolumeLabel() string { return d.reader.PVD().VolumeLabel }

// GetRecord looks up a case-insensitive filesystem path in the volume.
func (d *Disc) GetRecord(path string) (iso9660.Record, error) {
	return d.reader.GetRecord(path)
}

// List returns every file and directory path in the volume,
// depth-first from the root.
func (d *Disc) List() ([]string, error) {
	records, err := d.reader.GenRecords(true)
	if err != nil {
		return nil, fmt.Errorf("gdiso: list volume: %w", err)
	}
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	return names, nil
}

// ExtractFile extracts a single volume path to targetDir, applying the
// record's decoded timestamp to the output when keepTimestamp is set.
func (d *Disc) ExtractFile(path, targetDir string, keepTimestamp bool) error {
	rec, err := d.reader.GetRecord(path)
	if err != nil {
		return err
	}
	return d.ext.DumpFile(rec, targetDir, keepTimestamp)
}

// ExtractAll extracts every file record in the volume to targetDir, in
// ascending extent-LBA order. In best-effort mode a failed file is
// recorded and extraction continues; otherwise the first failure
// aborts the operation.
func (d *Disc) ExtractAll(targetDir string, keepTimestamp, bestEffort bool) error {
	return d.ext.DumpAll(targetDir, keepTimestamp, bestEffort)
}

// DumpBootSector writes the volume's 16-sector boot image to path.
func (d *Disc) DumpBootSector(path string) error {
	return d.ext.DumpBootSector(path)
}

// SortTxt generates a sorttxt ordering file over every file record in
// the volume. See extract.SortTxt for the criterion/prefix/dummy/
// spacer semantics.
func (d *Disc) SortTxt(criterion, prefix, dummy string, spacer int) (string, error) {
	records, err := d.reader.GenRecords(true)
	if err != nil {
		return "", fmt.Errorf("gdiso: enumerate records: %w", err)
	}
	return extract.SortTxt(records, criterion, prefix, dummy, spacer)
}
