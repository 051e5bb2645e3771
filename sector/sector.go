// Package sector presents a physical GD-ROM track file as a logical
// 2048-byte-sector stream, hiding the 2352-byte raw-sector envelope
// (16-byte sync/header, 288-byte EDC/ECC) when present.
package sector

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcisotools/gdiso/internal/stream"
)

// Mode is a track's physical sector size.
type Mode int

const (
	// ModeUnknown means the caller did not specify a mode and none
	// could be inferred from the file extension.
	ModeUnknown Mode = iota
	// Mode2048 is a track stored as raw 2048-byte user-data sectors.
	Mode2048
	// Mode2352 is a track stored as raw 2352-byte sectors (16-byte
	// sync/header + 2048-byte payload + 288-byte EDC/ECC).
	Mode2352
)

// Int returns the mode's sector size in bytes (2048 or 2352), or 0
// for ModeUnknown.
func (m Mode) Int() int {
	switch m {
	case Mode2048:
		return payloadSize
	case Mode2352:
		return physSectSize
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case Mode2048:
		return "2048"
	case Mode2352:
		return "2352"
	default:
		return "unknown"
	}
}

const (
	payloadSize  = 2048
	physSectSize = 2352
	syncHeader   = 16
	interGap     = 304 // trailing ECC (288) + next sector's sync/header (16)
)

// ErrIO wraps an underlying physical read failure.
var ErrIO = errors.New("sector: i/o failure")

// BadSectorModeError is returned when a track's sector mode is
// unknown or inconsistent with its physical size.
type BadSectorModeError struct {
	Path   string
	Reason string
}

func (e *BadSectorModeError) Error() string {
	return fmt.Sprintf("sector: bad sector mode for %q: %s", e.Path, e.Reason)
}

// extToMode mirrors the teacher's extension-to-console registry
// pattern, applied to sector mode inference instead.
var extToMode = map[string]Mode{
	".iso": Mode2048,
	".bin": Mode2352,
}

// ModeFromExt infers a sector mode from a file extension (including
// the leading dot, case-insensitive). ok is false for an unrecognized
// extension.
func ModeFromExt(ext string) (mode Mode, ok bool) {
	mode, ok = extToMode[strings.ToLower(ext)]
	return mode, ok
}

// ModeFromInt maps a .gdi manifest's numeric sector-mode field (2048
// or 2352) to a Mode. ok is false for any other value.
func ModeFromInt(n int) (mode Mode, ok bool) {
	switch n {
	case payloadSize:
		return Mode2048, true
	case physSectSize:
		return Mode2352, true
	default:
		return ModeUnknown, false
	}
}

// Image is a logical 2048-byte-sector view over a single physical
// track file (or any io.ReaderAt standing in for one, e.g. an archive
// entry). It implements stream.Source and exposes Seek/Read via an
// internal Cursor; it is not safe for concurrent use.
type Image struct {
	phys     io.ReaderAt
	closer   io.Closer
	mode     Mode
	physSize int64
	length   int64
	cursor   *stream.Cursor
}

// Open opens the track file at path. If mode is ModeUnknown, the mode
// is inferred from path's extension; an unrecognized extension with
// no explicit mode is a BadSectorModeError.
func Open(path string, mode Mode) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}
	if mode == ModeUnknown {
		var ok bool
		mode, ok = ModeFromExt(filepath.Ext(path))
		if !ok {
			_ = f.Close()
			reason := fmt.Sprintf("no explicit mode and unrecognized extension %q", filepath.Ext(path))
			if IsBlockDevice(path) {
				reason = "raw block device: sector mode must be specified explicitly"
			}
			return nil, &BadSectorModeError{Path: path, Reason: reason}
		}
	}
	img, err := OpenReaderAt(f, info.Size(), mode, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// OpenReaderAt builds an Image directly from an io.ReaderAt of known
// physical size and mode, optionally closed via closer when the
// Image is closed. Used for archive-backed track sources, which have
// no meaningful extension to infer a mode from.
func OpenReaderAt(r io.ReaderAt, physSize int64, mode Mode, closer io.Closer) (*Image, error) {
	if mode != Mode2048 && mode != Mode2352 {
		return nil, &BadSectorModeError{Reason: fmt.Sprintf("unsupported mode %v", mode)}
	}
	var length int64
	if mode == Mode2048 {
		length = physSize
	} else {
		if physSize%physSectSize != 0 {
			return nil, &BadSectorModeError{Reason: fmt.Sprintf("physical size %d is not a whole number of %d-byte sectors", physSize, physSectSize)}
		}
		length = physSize / physSectSize * payloadSize
	}
	img := &Image{phys: r, closer: closer, mode: mode, physSize: physSize, length: length}
	img.cursor = stream.NewCursor(img)
	return img, nil
}

// Mode reports the track's physical sector mode.
func (im *Image) Mode() Mode { return im.mode }

// Len reports the logical length in bytes.
func (im *Image) Len() int64 { return im.length }

// PhysSize reports the underlying physical track file's size in
// bytes, before sync/header and ECC stripping.
func (im *Image) PhysSize() int64 { return im.physSize }

// Close releases the underlying physical file handle, if any.
func (im *Image) Close() error {
	if im.closer != nil {
		return im.closer.Close()
	}
	return nil
}

// Seek repositions the logical read cursor.
func (im *Image) Seek(offset int64, whence int) (int64, error) {
	return im.cursor.Seek(offset, whence)
}

// Read reads from the current logical cursor position, advancing it.
func (im *Image) Read(p []byte) (int, error) {
	return im.cursor.Read(p)
}

// ReadAt reads len(p) logical bytes starting at logical offset off,
// translating through the physical sector layout. It never blocks
// past the logical end of the track; a short read returns io.EOF.
func (im *Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrIO, off)
	}
	if off >= im.length {
		return 0, io.EOF
	}
	n := len(p)
	if off+int64(n) > im.length {
		n = int(im.length - off)
	}
	if n == 0 {
		return 0, io.EOF
	}
	if im.mode == Mode2048 {
		read, err := im.phys.ReadAt(p[:n], off)
		if err != nil && err != io.EOF {
			return read, fmt.Errorf("%w: %v", ErrIO, err)
		}
		if read < n {
			return read, io.EOF
		}
		return read, nil
	}
	return im.readAt2352(p[:n], off)
}

// physOffset computes the physical byte offset of logical offset L in
// 2352-mode: skip the 16-byte sync/header of each sector's envelope.
func physOffset(l int64) int64 {
	return (l/payloadSize)*physSectSize + l%payloadSize + syncHeader
}

func (im *Image) readAt2352(p []byte, off int64) (int, error) {
	n := len(p)
	start := physOffset(off)

	firstChunk := payloadSize - int(off%payloadSize)
	remaining := n
	if firstChunk > remaining {
		firstChunk = remaining
	}
	remaining -= firstChunk

	fullBlocks := remaining / payloadSize
	tail := remaining % payloadSize

	needed := firstChunk
	if fullBlocks > 0 {
		needed += fullBlocks * (interGap + payloadSize)
	}
	if tail > 0 {
		needed += interGap + tail
	}

	buf := make([]byte, needed)
	read, err := im.phys.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if read < needed {
		return 0, fmt.Errorf("%w: truncated physical track (need %d bytes at %d, got %d)", ErrIO, needed, start, read)
	}

	pos := 0
	bufPos := 0
	copy(p[pos:pos+firstChunk], buf[bufPos:bufPos+firstChunk])
	pos += firstChunk
	bufPos += firstChunk

	for i := 0; i < fullBlocks; i++ {
		bufPos += interGap
		copy(p[pos:pos+payloadSize], buf[bufPos:bufPos+payloadSize])
		pos += payloadSize
		bufPos += payloadSize
	}

	if tail > 0 {
		bufPos += interGap
		copy(p[pos:pos+tail], buf[bufPos:bufPos+tail])
		pos += tail
	}

	if pos < len(p) {
		return pos, io.EOF
	}
	return pos, nil
}
