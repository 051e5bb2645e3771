package view

import (
	"io"

	"github.com/dcisotools/gdiso/internal/stream"
)

// Wormhole wraps a child stream.Source (normally an *Offset) and
// redirects the logical range [target, target+length) to
// [source, source+length) of the same child. It does not change the
// stream's length; it only remaps where bytes in that range come
// from. Used to fold a GD-ROM's PVD area, which lives at a large
// physical LBA, into low logical sector numbers.
type Wormhole struct {
	child          stream.Source
	target, source int64
	length         int64
	cursor         *stream.Cursor
}

// NewWormhole builds a Wormhole over child with the given
// (target, source, length) triple. target+length must not exceed
// source; callers construct invalid parameters at their own risk, as
// with the rest of the view stack.
func NewWormhole(child stream.Source, target, source, length int64) *Wormhole {
	w := &Wormhole{child: child, target: target, source: source, length: length}
	w.cursor = stream.NewCursor(w)
	return w
}

// Len reports the logical length, unchanged from the child's.
func (w *Wormhole) Len() int64 { return w.child.Len() }

// Seek repositions the logical read cursor.
func (w *Wormhole) Seek(offset int64, whence int) (int64, error) {
	return w.cursor.Seek(offset, whence)
}

// Read reads from the current logical cursor position, advancing it.
// The cursor is left at exactly pos+n after the call regardless of
// how many internal child reads were needed to satisfy it.
func (w *Wormhole) Read(p []byte) (int, error) {
	return w.cursor.Read(p)
}

// ReadAt reads len(p) bytes starting at logical offset off, splitting
// the read across the wormhole boundary as needed.
func (w *Wormhole) ReadAt(p []byte, off int64) (int, error) {
	length := w.Len()
	if off < 0 || off >= length {
		return 0, io.EOF
	}
	n := len(p)
	if off+int64(n) > length {
		n = int(length - off)
	}
	if n == 0 {
		return 0, io.EOF
	}
	end := off + int64(n)
	wormEnd := w.target + w.length

	switch {
	case end <= w.target || off >= wormEnd:
		// Fully before the wormhole, or fully after it: natural offset.
		return readAll(w.child, p[:n], off)

	case off >= w.target && end <= wormEnd:
		// Fully inside the wormhole.
		return readAll(w.child, p[:n], w.source+(off-w.target))

	case off < w.target && end <= wormEnd:
		// Crosses the entry only.
		preLen := int(w.target - off)
		read1, err := readAll(w.child, p[:preLen], off)
		if err != nil {
			return read1, err
		}
		read2, err := readAll(w.child, p[preLen:n], w.source)
		return read1 + read2, err

	case off >= w.target && end > wormEnd:
		// Crosses the exit only.
		inLen := int(wormEnd - off)
		read1, err := readAll(w.child, p[:inLen], w.source+(off-w.target))
		if err != nil {
			return read1, err
		}
		read2, err := readAll(w.child, p[inLen:n], wormEnd)
		return read1 + read2, err

	default:
		// Crosses both edges.
		preLen := int(w.target - off)
		inLen := int(w.length)
		read1, err := readAll(w.child, p[:preLen], off)
		if err != nil {
			return read1, err
		}
		read2, err := readAll(w.child, p[preLen:preLen+inLen], w.source)
		if err != nil {
			return read1 + read2, err
		}
		read3, err := readAll(w.child, p[preLen+inLen:n], wormEnd)
		return read1 + read2 + read3, err
	}
}

// readAll reads exactly len(p) bytes from src at off, treating a
// short read because the request reached src's own end as an error
// (the caller has already clamped against the wormhole's total
// length, so this should only happen on a genuinely malformed view).
func readAll(src stream.Source, p []byte, off int64) (int, error) {
	n, err := src.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
