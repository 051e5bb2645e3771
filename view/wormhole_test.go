package view_test

import (
	"testing"

	"github.com/dcisotools/gdiso/view"
)

// wormholeFixture builds a child of 200 bytes: [0,100) filled with 'A',
// [100,200) filled with 'B'. A wormhole redirects logical [10,30) to
// source 150 (squarely inside the 'B' region), so reads can be told
// apart by content rather than just offset arithmetic.
func wormholeFixture() *byteSource {
	data := make([]byte, 200)
	for i := 0; i < 100; i++ {
		data[i] = 'A'
	}
	for i := 100; i < 200; i++ {
		data[i] = 'B'
	}
	return &byteSource{data: data}
}

func TestWormhole_LenUnchanged(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	if got, want := w.Len(), child.Len(); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}

func TestWormhole_FullyBefore(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	buf := make([]byte, 5)
	if _, err := w.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for _, b := range buf {
		if b != 'A' {
			t.Fatalf("byte = %q, want 'A' (natural offset, before wormhole)", b)
		}
	}
}

func TestWormhole_FullyAfter(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	buf := make([]byte, 5)
	// [40,45) is past wormEnd=30, so it reads naturally from child: still 'A'.
	if _, err := w.ReadAt(buf, 40); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for _, b := range buf {
		if b != 'A' {
			t.Fatalf("byte = %q, want 'A' (natural offset, after wormhole)", b)
		}
	}
}

func TestWormhole_FullyInside(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	buf := make([]byte, 5)
	if _, err := w.ReadAt(buf, 15); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for _, b := range buf {
		if b != 'B' {
			t.Fatalf("byte = %q, want 'B' (redirected to source region)", b)
		}
	}
}

func TestWormhole_CrossesEntry(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	buf := make([]byte, 4) // [8,12): 8,9 natural ('A'), 10,11 redirected ('B')
	if _, err := w.ReadAt(buf, 8); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	want := []byte{'A', 'A', 'B', 'B'}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %q, want %q", i, buf[i], want[i])
		}
	}
}

func TestWormhole_CrossesExit(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	buf := make([]byte, 4) // [28,32): 28,29 redirected ('B'), 30,31 natural ('A')
	if _, err := w.ReadAt(buf, 28); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	want := []byte{'B', 'B', 'A', 'A'}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %q, want %q", i, buf[i], want[i])
		}
	}
}

func TestWormhole_CrossesBothEdges(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)
	buf := make([]byte, 24) // [8,32): A,A, then 20 redirected B's, then A,A
	if _, err := w.ReadAt(buf, 8); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if buf[0] != 'A' || buf[1] != 'A' {
		t.Fatalf("pre-wormhole bytes = %q, want AA", buf[:2])
	}
	for i := 2; i < 22; i++ {
		if buf[i] != 'B' {
			t.Fatalf("byte %d = %q, want 'B'", i, buf[i])
		}
	}
	if buf[22] != 'A' || buf[23] != 'A' {
		t.Fatalf("post-wormhole bytes = %q, want AA", buf[22:24])
	}
}

// TestWormhole_RedirectMatchesDirectChildRead is testable property #3:
// for any range entirely inside [target, target+length), the bytes
// equal those read from the child directly at source+(start-target).
func TestWormhole_RedirectMatchesDirectChildRead(t *testing.T) {
	t.Parallel()
	child := wormholeFixture()
	w := view.NewWormhole(child, 10, 150, 20)

	viaWormhole := make([]byte, 10)
	if _, err := w.ReadAt(viaWormhole, 12); err != nil {
		t.Fatalf("ReadAt via wormhole: %v", err)
	}
	viaChild := make([]byte, 10)
	if _, err := child.ReadAt(viaChild, 150+(12-10)); err != nil {
		t.Fatalf("ReadAt direct: %v", err)
	}
	if string(viaWormhole) != string(viaChild) {
		t.Fatalf("wormhole read = %q, direct child read = %q", viaWormhole, viaChild)
	}
}

// TestWormhole_S6 mirrors the base spec's worked scenario S6: a
// Wormhole with (target=0, source=92160000, length=65536) wrapping an
// OffsetView with offset=92160000 over a SectorImage; reading
// [0,65536) through the wormhole returns the same bytes as reading
// the underlying SectorImage at logical offset [0,65536) directly
// (disc sectors 45000..45031's payload, folded down to sector 0).
func TestWormhole_S6(t *testing.T) {
	t.Parallel()
	const tocOffset = 92160000 // 45000 * 2048
	const wormLen = 65536      // 32 * 2048

	image := make([]byte, wormLen)
	for i := range image {
		image[i] = byte(i)
	}
	sectorImage := &byteSource{data: image}
	offsetView := view.NewOffset(sectorImage, tocOffset)
	w := view.NewWormhole(offsetView, 0, tocOffset, wormLen)

	got := make([]byte, wormLen)
	if _, err := w.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for i := range image {
		if got[i] != image[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], image[i])
		}
	}
}
