// Package view implements the composable logical-stream layers that
// sit on top of a sector.Image: offset padding, wormhole redirection,
// and track concatenation.
package view

import (
	"io"

	"github.com/dcisotools/gdiso/internal/stream"
)

// Offset zero-pads a child stream.Source by a fixed number of bytes.
// Reads before offset return zero bytes; reads at or past it are
// forwarded to the child at (pos - offset).
type Offset struct {
	child  stream.Source
	offset int64
	length int64
	cursor *stream.Cursor
}

// NewOffset wraps child, shifting it forward by offset logical bytes.
func NewOffset(child stream.Source, offset int64) *Offset {
	o := &Offset{child: child, offset: offset, length: child.Len() + offset}
	o.cursor = stream.NewCursor(o)
	return o
}

// Len reports the logical length: the child's length plus the offset.
func (o *Offset) Len() int64 { return o.length }

// Seek repositions the logical read cursor.
func (o *Offset) Seek(offset int64, whence int) (int64, error) {
	return o.cursor.Seek(offset, whence)
}

// Read reads from the current logical cursor position, advancing it.
func (o *Offset) Read(p []byte) (int, error) {
	return o.cursor.Read(p)
}

// ReadAt reads len(p) bytes starting at logical offset off. Bytes
// before offset are zero; bytes at or past it come from the child.
func (o *Offset) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= o.length {
		return 0, io.EOF
	}
	n := len(p)
	if off+int64(n) > o.length {
		n = int(o.length - off)
	}
	if n == 0 {
		return 0, io.EOF
	}

	pos := 0
	if off < o.offset {
		zeros := int(o.offset - off)
		if zeros > n {
			zeros = n
		}
		for i := 0; i < zeros; i++ {
			p[i] = 0
		}
		pos = zeros
	}
	if pos == n {
		return n, nil
	}

	childOff := (off + int64(pos)) - o.offset
	read, err := stream.ReadAtClamped(o.child, p[pos:n], childOff)
	total := pos + read
	if err != nil {
		if err == io.EOF && total == n {
			return total, nil
		}
		return total, err
	}
	return total, nil
}
