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

// Package extract drives an iso9660.Reader to copy out files, emit
// the boot sector image, and generate a sorttxt ordering file.
package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dcisotools/gdiso/iso9660"
)

// copyBufSize is the recommended buffered-copy chunk size for reading
// ISO9660 extents off rotating media.
const copyBufSize = 1 << 20 // 1 MiB

// Extractor drives an iso9660.Reader to produce files on disk.
type Extractor struct {
	reader *iso9660.Reader
}

// New builds an Extractor over an already-opened ISO9660 reader.
func New(reader *iso9660.Reader) *Extractor {
	return &Extractor{reader: reader}
}

// DumpFile copies rec's extent to targetDir/rec.Name, creating parent
// directories as needed. If keepTimestamp, the decoded directory
// record timestamp is applied to the output file after writing.
func (e *Extractor) DumpFile(rec iso9660.Record, targetDir string, keepTimestamp bool) error {
	if rec.IsDir() {
		return fmt.Errorf("extract: %q is a directory, not a file", rec.Name)
	}

	dest := filepath.Join(targetDir, filepath.FromSlash(rec.Name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract: create parent dirs for %s: %w", dest, err)
	}

	out, err := os.Create(dest) //nolint:gosec // dest is derived from the volume's own records
	if err != nil {
		return fmt.Errorf("extract: create %s: %w", dest, err)
	}

	section := io.NewSectionReader(e.reader.Source(), int64(rec.ExtentLBA)*iso9660.SectorSize, int64(rec.ExtentLength))
	buf := make([]byte, copyBufSize)
	if _, err := io.CopyBuffer(out, section, buf); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract: copy %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("extract: close %s: %w", dest, err)
	}

	if keepTimestamp {
		if t, ok := iso9660.RecordTimestamp(rec); ok {
			if err := os.Chtimes(dest, t, t); err != nil {
				return fmt.Errorf("extract: set timestamp on %s: %w", dest, err)
			}
		}
	}
	return nil
}

// DumpAll extracts every file record in the volume, ordered by
// ascending extent LBA to minimize backwards seeking on rotating
// media. In best-effort mode, a failure on one file is recorded and
// extraction continues; the aggregated errors are returned joined.
// Otherwise the first failure aborts the remaining extraction.
func (e *Extractor) DumpAll(targetDir string, keepTimestamp, bestEffort bool) error {
	records, err := e.reader.GenRecords(true)
	if err != nil {
		return fmt.Errorf("extract: enumerate records: %w", err)
	}

	files := make([]iso9660.Record, 0, len(records))
	for _, rec := range records {
		if !rec.IsDir() {
			files = append(files, rec)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ExtentLBA < files[j].ExtentLBA })

	var errs []error
	for _, rec := range files {
		if err := e.DumpFile(rec, targetDir, keepTimestamp); err != nil {
			if !bestEffort {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DumpBootSector writes the 16-sector boot image to path.
func (e *Extractor) DumpBootSector(path string) error {
	data, err := e.reader.GetBootSector(iso9660.DefaultBootSectorLBA)
	if err != nil {
		return fmt.Errorf("extract: read boot sector: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("extract: write boot sector to %s: %w", path, err)
	}
	return nil
}
