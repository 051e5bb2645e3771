package view

import (
	"io"

	"github.com/dcisotools/gdiso/internal/stream"
)

// Concat joins two stream.Source values end to end (in gdi.Open, the
// TOC track's *Wormhole and the data track's *Offset). f2 may be nil,
// in which case Concat behaves exactly like f1.
type Concat struct {
	f1, f2 stream.Source
	f1Len  int64
	total  int64
	cursor *stream.Cursor
}

// NewConcat joins f1 and f2 (f2 may be nil).
func NewConcat(f1, f2 stream.Source) *Concat {
	c := &Concat{f1: f1, f2: f2, f1Len: f1.Len()}
	c.total = c.f1Len
	if f2 != nil {
		c.total += f2.Len()
	}
	c.cursor = stream.NewCursor(c)
	return c
}

// Len reports the combined logical length.
func (c *Concat) Len() int64 { return c.total }

// Seek repositions the logical read cursor.
func (c *Concat) Seek(offset int64, whence int) (int64, error) {
	return c.cursor.Seek(offset, whence)
}

// Read reads from the current logical cursor position, advancing it
// to pos+n even when the read straddles the f1/f2 join.
func (c *Concat) Read(p []byte) (int, error) {
	return c.cursor.Read(p)
}

// ReadAt reads len(p) bytes starting at logical offset off, stitching
// together f1 and f2 if the read straddles their join.
func (c *Concat) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= c.total {
		return 0, io.EOF
	}
	n := len(p)
	if off+int64(n) > c.total {
		n = int(c.total - off)
	}
	if n == 0 {
		return 0, io.EOF
	}
	end := off + int64(n)

	switch {
	case end <= c.f1Len:
		return readAll(c.f1, p[:n], off)
	case off >= c.f1Len:
		if c.f2 == nil {
			return 0, io.EOF
		}
		return readAll(c.f2, p[:n], off-c.f1Len)
	default:
		n1 := int(c.f1Len - off)
		read1, err := readAll(c.f1, p[:n1], off)
		if err != nil {
			return read1, err
		}
		if c.f2 == nil {
			return read1, io.EOF
		}
		read2, err := readAll(c.f2, p[n1:n], 0)
		return read1 + read2, err
	}
}
