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

// Package iso9660 parses ISO9660 volumes by walking directory extents,
// the way the GD-ROM authoring and extraction tools this module
// targets expect (sorttxt output order, boot sector placement) rather
// than through the path table.
package iso9660

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	intbinary "github.com/dcisotools/gdiso/internal/binary"
	"github.com/dcisotools/gdiso/internal/stream"
)

// SectorSize is the logical sector size ISO9660 extents are addressed
// in (2048 bytes), exported so callers (the extract package) can
// translate extent LBAs to logical byte offsets themselves.
const SectorSize = 2048

const (
	sectorSize = SectorSize

	pvdLBA               = 16
	pvdTypeOffset        = 0
	pvdTypePrimary       = 1
	pvdSystemIDOffset    = 8
	pvdSystemIDLen       = 32
	pvdVolumeLabelOffset = 40
	pvdVolumeLabelLen    = 32
	pvdVolumeSetIDOffset = 190
	pvdVolumeSetIDLen    = 128
	pvdPublisherIDOffset = 318
	pvdPublisherIDLen    = 128
	pvdPreparerIDOffset  = 446
	pvdPreparerIDLen     = 128
	pvdRootRecordOffset  = 156
	pvdRootRecordLen     = 34

	recLenOffset      = 0
	recExtentLBAOff   = 2
	recExtentLenOff   = 10
	recDateOffset     = 18
	recDateLen        = 7
	recFlagsOffset    = 25
	recFlagDir        = 0x02
	recNameLenOffset  = 32
	recNameOffset     = 33

	// DefaultBootSectorLBA is the conventional GD-ROM boot image LBA.
	DefaultBootSectorLBA = 45000
	bootSectorCount      = 16
)

// Record is a decoded ISO9660 directory record. Name is the fully
// qualified path from the volume root (slash-separated, no leading
// separator), built up during traversal.
type Record struct {
	Name         string
	Flags        byte
	ExtentLBA    uint32
	ExtentLength uint32
	Date         [7]byte
}

// IsDir reports whether the record names a directory.
func (r Record) IsDir() bool { return r.Flags&recFlagDir != 0 }

// PVD holds the fields of the primary volume descriptor this module
// cares about: identification strings and the root directory record.
type PVD struct {
	SystemID      string
	VolumeLabel   string
	VolumeSetID   string
	PublisherID   string
	PreparerID    string
	Root          Record
}

// Reader provides record lookup and traversal over an ISO9660 volume
// backed by a logical byte stream (normally the ConcatView produced
// by gdi.Open).
type Reader struct {
	src stream.Source
	pvd PVD
}

// NewReader parses the PVD at logical sector 16 of src and returns a
// Reader ready for lookups.
func NewReader(src stream.Source) (*Reader, error) {
	r := &Reader{src: src}
	pvd, err := r.readPVD()
	if err != nil {
		return nil, err
	}
	r.pvd = pvd
	return r, nil
}

// PVD returns the parsed primary volume descriptor.
func (r *Reader) PVD() PVD { return r.pvd }

// Source returns the underlying logical stream, for callers (the
// extract package) that need direct buffered access instead of the
// whole-extent reads GetFileByRecord/GetBootSector perform.
func (r *Reader) Source() stream.Source { return r.src }

func (r *Reader) readPVD() (PVD, error) {
	buf := make([]byte, sectorSize)
	if _, err := stream.ReadAtClamped(r.src, buf, pvdLBA*sectorSize); err != nil {
		return PVD{}, fmt.Errorf("read PVD: %w", err)
	}

	if buf[pvdTypeOffset] != pvdTypePrimary {
		return PVD{}, ErrBadVolumeDescriptor
	}

	root, err := decodeRecord(buf[pvdRootRecordOffset:pvdRootRecordOffset+pvdRootRecordLen], "")
	if err != nil {
		return PVD{}, fmt.Errorf("decode root record: %w", err)
	}

	return PVD{
		SystemID:    intbinary.CleanString(buf[pvdSystemIDOffset : pvdSystemIDOffset+pvdSystemIDLen]),
		VolumeLabel: intbinary.CleanString(buf[pvdVolumeLabelOffset : pvdVolumeLabelOffset+pvdVolumeLabelLen]),
		VolumeSetID: intbinary.CleanString(buf[pvdVolumeSetIDOffset : pvdVolumeSetIDOffset+pvdVolumeSetIDLen]),
		PublisherID: intbinary.CleanString(buf[pvdPublisherIDOffset : pvdPublisherIDOffset+pvdPublisherIDLen]),
		PreparerID:  intbinary.CleanString(buf[pvdPreparerIDOffset : pvdPreparerIDOffset+pvdPreparerIDLen]),
		Root:        root,
	}, nil
}

// decodeRecord parses a single directory record starting at buf[0].
// parentName is joined onto the decoded filename to produce Name.
func decodeRecord(buf []byte, parentName string) (Record, error) {
	if len(buf) < recNameOffset {
		return Record{}, fmt.Errorf("%w: record header needs %d bytes, have %d", ErrTruncatedRead, recNameOffset, len(buf))
	}

	nameLen := int(buf[recNameLenOffset])
	if recNameOffset+nameLen > len(buf) {
		return Record{}, fmt.Errorf("%w: record name needs %d bytes, have %d", ErrTruncatedRead, recNameOffset+nameLen, len(buf))
	}

	rawName := buf[recNameOffset : recNameOffset+nameLen]
	rec := Record{
		Flags:        buf[recFlagsOffset],
		ExtentLBA:    binary.LittleEndian.Uint32(buf[recExtentLBAOff : recExtentLBAOff+4]),
		ExtentLength: binary.LittleEndian.Uint32(buf[recExtentLenOff : recExtentLenOff+4]),
	}
	copy(rec.Date[:], buf[recDateOffset:recDateOffset+recDateLen])

	if isSelfOrParent(rawName) {
		rec.Name = parentName
		return rec, nil
	}

	rec.Name = joinISOPath(parentName, string(rawName))
	return rec, nil
}

func isSelfOrParent(name []byte) bool {
	return len(name) == 1 && (name[0] == 0x00 || name[0] == 0x01)
}

// joinISOPath joins a parent path and a child name without ever
// producing a leading path separator, per the invariant that record
// names are never rooted with a slash.
func joinISOPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "/" + child
}

// dirChildren decodes every record inside a directory's extent,
// skipping the self (0x00) and parent (0x01) entries. A zero length
// byte signals the remainder of the current 2048-byte sector is
// padding; decoding resumes at the next sector within the extent.
func (r *Reader) dirChildren(dir Record) ([]Record, error) {
	buf := make([]byte, dir.ExtentLength)
	off := int64(dir.ExtentLBA) * sectorSize
	if _, err := stream.ReadAtClamped(r.src, buf, off); err != nil {
		return nil, fmt.Errorf("read directory extent at LBA %d: %w", dir.ExtentLBA, err)
	}

	var children []Record
	pos := 0
	for pos < len(buf) {
		sectorEnd := ((pos / sectorSize) + 1) * sectorSize
		if sectorEnd > len(buf) {
			sectorEnd = len(buf)
		}

		recLen := int(buf[pos])
		if recLen == 0 {
			pos = sectorEnd
			continue
		}
		if pos+recLen > sectorEnd {
			return nil, fmt.Errorf("%w: record at offset %d (length %d) crosses sector boundary at %d", ErrTruncatedRead, pos, recLen, sectorEnd)
		}

		rec, err := decodeRecord(buf[pos:pos+recLen], dir.Name)
		if err != nil {
			return nil, fmt.Errorf("decode directory record at offset %d: %w", pos, err)
		}
		if !isSelfOrParent(buf[pos+recNameOffset : pos+recNameOffset+int(buf[pos+recNameLenOffset])]) {
			children = append(children, rec)
		}

		pos += recLen
	}

	return children, nil
}

// GetRecord looks up path (case-insensitive, components separated by
// '/'; leading/trailing slashes are ignored) starting from the
// volume root.
func (r *Reader) GetRecord(path string) (Record, error) {
	trimmed := strings.Trim(path, "/")
	cur := r.pvd.Root
	if trimmed == "" {
		return cur, nil
	}

	for _, component := range strings.Split(trimmed, "/") {
		if !cur.IsDir() {
			return Record{}, NotFoundError{Path: path}
		}

		children, err := r.dirChildren(cur)
		if err != nil {
			return Record{}, err
		}

		found := false
		for _, child := range children {
			if strings.EqualFold(lastComponent(child.Name), component) {
				cur = child
				found = true
				break
			}
		}
		if !found {
			return Record{}, NotFoundError{Path: path}
		}
	}

	return cur, nil
}

func lastComponent(name string) string {
	if idx := strings.LastIndexByte(name, '/'); idx != -1 {
		return name[idx+1:]
	}
	return name
}

// GenRecords walks the entire tree depth-first, returning every
// directory record and, when includeFiles is true, every file
// record too.
func (r *Reader) GenRecords(includeFiles bool) ([]Record, error) {
	var out []Record
	if err := r.genRecords(r.pvd.Root, includeFiles, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Reader) genRecords(dir Record, includeFiles bool, out *[]Record) error {
	children, err := r.dirChildren(dir)
	if err != nil {
		return err
	}

	for _, child := range children {
		if child.IsDir() {
			*out = append(*out, child)
			if err := r.genRecords(child, includeFiles, out); err != nil {
				return err
			}
			continue
		}
		if includeFiles {
			*out = append(*out, child)
		}
	}

	return nil
}

// GetFileByRecord reads the full extent named by r.
func (r *Reader) GetFileByRecord(rec Record) ([]byte, error) {
	buf := make([]byte, rec.ExtentLength)
	off := int64(rec.ExtentLBA) * sectorSize
	if _, err := stream.ReadAtClamped(r.src, buf, off); err != nil {
		return nil, fmt.Errorf("read file %q: %w", rec.Name, err)
	}
	return buf, nil
}

// GetBootSector reads the 16-sector (32768-byte) boot image starting
// at the given disc LBA.
func (r *Reader) GetBootSector(lba uint32) ([]byte, error) {
	buf := make([]byte, bootSectorCount*sectorSize)
	off := int64(lba) * sectorSize
	if _, err := stream.ReadAtClamped(r.src, buf, off); err != nil {
		return nil, fmt.Errorf("read boot sector at LBA %d: %w", lba, err)
	}
	return buf, nil
}

// RecordTimestamp decodes a record's 7-byte date tuple. The second
// return value is false when the date is unset (year byte 0), in
// which case the Time is the zero value.
func RecordTimestamp(rec Record) (time.Time, bool) {
	return decodeTimestamp(rec.Date)
}

func decodeTimestamp(date [7]byte) (time.Time, bool) {
	if date[0] == 0 {
		return time.Time{}, false
	}

	year := int(date[0]) + 1900
	gmtQuarterHours := int8(date[6]) //nolint:gosec // date[6] is the signed GMT-offset byte by format
	local := time.Date(year, time.Month(date[1]), int(date[2]),
		int(date[3]), int(date[4]), int(date[5]), 0, time.UTC)
	utc := local.Add(-time.Duration(gmtQuarterHours) * 15 * time.Minute)
	return utc, true
}

// GetTimeByRecord is an alias for RecordTimestamp kept for parity
// with the tool this reader's semantics are modeled on.
func (r *Reader) GetTimeByRecord(rec Record) (time.Time, bool) {
	return RecordTimestamp(rec)
}

// GetTime looks up path and returns its decoded timestamp.
func (r *Reader) GetTime(path string) (time.Time, bool, error) {
	rec, err := r.GetRecord(path)
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := RecordTimestamp(rec)
	return t, ok, nil
}
