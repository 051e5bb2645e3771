// Package stream provides the read-only, offset-addressable byte
// stream primitives shared by every layer of the gdi view stack.
package stream

import (
	"fmt"
	"io"
)

// Source is a stateless, length-bounded, random-access byte source.
// Every layer of the view stack (SectorImage, OffsetView, WormholeView,
// ConcatView) implements Source as its core: a pure function of the
// requested offset, which makes the stack's read invariants trivial
// to state and test independently of cursor bookkeeping.
type Source interface {
	io.ReaderAt
	Len() int64
}

// Cursor layers a single mutable read position on top of a Source,
// giving it the Seek/Read contract the spec's views share. No Cursor
// is safe for concurrent use.
type Cursor struct {
	src Source
	pos int64
}

// NewCursor returns a Cursor positioned at offset 0 over src.
func NewCursor(src Source) *Cursor {
	return &Cursor{src: src}
}

// Seek repositions the cursor. whence is one of io.SeekStart,
// io.SeekCurrent, io.SeekEnd.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = c.pos + offset
	case io.SeekEnd:
		abs = c.src.Len() + offset
	default:
		return 0, fmt.Errorf("stream: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("stream: negative position %d", abs)
	}
	c.pos = abs
	return c.pos, nil
}

// Read fills p from the current cursor position and advances the
// cursor by the number of bytes read.
func (c *Cursor) Read(p []byte) (int, error) {
	n, err := c.src.ReadAt(p, c.pos)
	c.pos += int64(n)
	return n, err
}

// Pos reports the current cursor position.
func (c *Cursor) Pos() int64 { return c.pos }

// ReadAtClamped reads into p from src at off, clamping the read to
// src's length and translating an out-of-range request into a clean
// (0, io.EOF) instead of requiring callers to pre-clamp. The Offset
// view's ReadAt and the iso9660 reader's extent reads use it; the
// Wormhole and Concat views clamp themselves and delegate through
// their own helper.
func ReadAtClamped(src Source, p []byte, off int64) (int, error) {
	length := src.Len()
	if off >= length || off < 0 {
		return 0, io.EOF
	}
	n := len(p)
	if off+int64(n) > length {
		n = int(length - off)
	}
	if n == 0 {
		return 0, io.EOF
	}
	read, err := src.ReadAt(p[:n], off)
	if err != nil && err != io.EOF {
		return read, err
	}
	if read < len(p) {
		return read, io.EOF
	}
	return read, nil
}
