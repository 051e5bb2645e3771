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

// Package gdi parses a .gdi manifest and builds the logical view
// stack (SectorImage -> OffsetView -> WormholeView -> ConcatView) an
// Iso9660Reader needs to see the disc's ISO9660 volume starting at
// logical sector 0.
package gdi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcisotools/gdiso/archive"
	"github.com/dcisotools/gdiso/internal/stream"
	"github.com/dcisotools/gdiso/sector"
	"github.com/dcisotools/gdiso/view"
)

const (
	sectorSize   = 2048
	tocStartLBA  = 45000
	tocTrackNum  = 3
	pvdWormLen   = 32 * sectorSize
)

// Disc is an opened .gdi set: the track manifest plus the composed
// logical stream an Iso9660Reader reads from.
type Disc struct {
	Tracks []Track
	src    stream.Source
	images []*sector.Image
}

// Source returns the disc's composed logical stream, suitable for
// iso9660.NewReader.
func (d *Disc) Source() stream.Source { return d.src }

// Close releases every physical track file handle opened for this
// disc.
func (d *Disc) Close() error {
	var err error
	for _, img := range d.images {
		if cerr := img.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens a .gdi manifest at path and builds its view stack. path
// may itself be a bare .gdi file, or an archive (.zip/.7z/.rar)
// containing one, in which case the manifest and its track files are
// resolved through the archive package's internal path namespace.
func Open(path string) (*Disc, error) {
	if archive.IsArchiveExtension(filepath.Ext(path)) {
		return openFromArchive(path)
	}
	return openFromDir(path)
}

func openFromDir(path string) (*Disc, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-supplied by design
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	tracks, err := ParseManifest(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	opener := func(t Track) (*sector.Image, error) {
		return sector.Open(filepath.Join(dir, t.Filename), t.Mode)
	}
	return build(tracks, opener)
}

func openFromArchive(path string) (*Disc, error) {
	arc, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	gdiPath, err := archive.DetectGdiFile(arc)
	if err != nil {
		_ = arc.Close()
		return nil, err
	}

	manifest, _, err := arc.Open(gdiPath)
	if err != nil {
		_ = arc.Close()
		return nil, fmt.Errorf("open %s in archive: %w", gdiPath, err)
	}
	tracks, err := ParseManifest(manifest)
	_ = manifest.Close()
	if err != nil {
		_ = arc.Close()
		return nil, err
	}

	archiveDir := filepath.Dir(gdiPath)
	opener := func(t Track) (*sector.Image, error) {
		internalPath := filepath.ToSlash(filepath.Join(archiveDir, t.Filename))
		r, size, closer, oerr := arc.OpenReaderAt(internalPath)
		if oerr != nil {
			return nil, fmt.Errorf("open track %s in archive: %w", internalPath, oerr)
		}
		return sector.OpenReaderAt(r, size, t.Mode, closer)
	}

	disc, err := build(tracks, opener)
	if err != nil {
		_ = arc.Close()
		return nil, err
	}
	// The archive handle itself is no longer needed: every track's
	// bytes have been buffered into its own Closer by OpenReaderAt.
	_ = arc.Close()
	return disc, nil
}

func build(tracks []Track, opener func(Track) (*sector.Image, error)) (*Disc, error) {
	if len(tracks) < tocTrackNum {
		return nil, fmt.Errorf("%w: manifest has %d tracks, need at least %d", ErrInvalidGdi, len(tracks), tocTrackNum)
	}

	toc := tracks[tocTrackNum-1]
	if toc.StartLBA != tocStartLBA {
		return nil, fmt.Errorf("%w: track %d start_lba %d, want %d", ErrInvalidGdi, tocTrackNum, toc.StartLBA, tocStartLBA)
	}

	tocImg, err := opener(toc)
	if err != nil {
		return nil, err
	}
	images := []*sector.Image{tocImg}

	tocOffset := int64(tocStartLBA) * sectorSize
	f1 := view.NewWormhole(view.NewOffset(tocImg, tocOffset), 0, tocOffset, pvdWormLen)

	var f2 stream.Source
	if len(tracks) > tocTrackNum {
		data := tracks[len(tracks)-1]
		dataImg, derr := opener(data)
		if derr != nil {
			closeAll(images)
			return nil, derr
		}
		images = append(images, dataImg)

		tocSectors := tocImg.PhysSize() / int64(toc.Mode.Int())
		offset := sectorSize * (data.StartLBA - (tocStartLBA + tocSectors))
		if offset < 0 {
			closeAll(images)
			return nil, fmt.Errorf("%w: computed data track offset %d is negative", ErrInvalidGdi, offset)
		}
		f2 = view.NewOffset(dataImg, offset)
	}

	return &Disc{
		Tracks: tracks,
		src:    view.NewConcat(f1, f2),
		images: images,
	}, nil
}

func closeAll(images []*sector.Image) {
	for _, img := range images {
		_ = img.Close()
	}
}
