package view_test

import (
	"io"
	"testing"

	"github.com/dcisotools/gdiso/view"
)

func TestConcat_LenIsSum(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("FIRST")}
	f2 := &byteSource{data: []byte("SECONDARY")}
	c := view.NewConcat(f1, f2)
	if got, want := c.Len(), int64(len("FIRST")+len("SECONDARY")); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}

func TestConcat_NilSecondIsIdentity(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("ONLYONE")}
	c := view.NewConcat(f1, nil)
	if got, want := c.Len(), f1.Len(); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	buf := make([]byte, f1.Len())
	if _, err := c.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "ONLYONE" {
		t.Fatalf("ReadAt = %q, want %q", buf, "ONLYONE")
	}
}

func TestConcat_NilSecondEOFPastF1(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("ABC")}
	c := view.NewConcat(f1, nil)
	buf := make([]byte, 2)
	n, err := c.ReadAt(buf, 3)
	if n != 0 || err != io.EOF {
		t.Fatalf("ReadAt past f1 with nil f2 = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestConcat_ReadWithinF1(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("HELLO")}
	f2 := &byteSource{data: []byte("WORLD")}
	c := view.NewConcat(f1, f2)
	buf := make([]byte, 3)
	if _, err := c.ReadAt(buf, 1); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "ELL" {
		t.Fatalf("ReadAt = %q, want %q", buf, "ELL")
	}
}

func TestConcat_ReadWithinF2(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("HELLO")}
	f2 := &byteSource{data: []byte("WORLD")}
	c := view.NewConcat(f1, f2)
	buf := make([]byte, 3)
	if _, err := c.ReadAt(buf, 6); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "ORL" {
		t.Fatalf("ReadAt = %q, want %q", buf, "ORL")
	}
}

func TestConcat_ReadStraddlesJoin(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("HELLO")}
	f2 := &byteSource{data: []byte("WORLD")}
	c := view.NewConcat(f1, f2)
	buf := make([]byte, 6) // [2,8): "LLO" + "WOR"
	if _, err := c.ReadAt(buf, 2); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "LLOWOR" {
		t.Fatalf("ReadAt = %q, want %q", buf, "LLOWOR")
	}
}

// TestConcat_SplitReadMatchesSingleRead is testable property #2: for
// any (a,b), reading [a,b) in one call equals the concatenation of
// reading [a,m) then [m,b) for any split m.
func TestConcat_SplitReadMatchesSingleRead(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("HELLO")}
	f2 := &byteSource{data: []byte("WORLD")}
	c := view.NewConcat(f1, f2)

	whole := make([]byte, 8)
	if _, err := c.ReadAt(whole, 1); err != nil {
		t.Fatalf("ReadAt whole: %v", err)
	}
	if string(whole) != "ELLOWORL" {
		t.Fatalf("ReadAt whole = %q, want %q", whole, "ELLOWORL")
	}

	for m := 1; m < 8; m++ {
		part1 := make([]byte, m)
		part2 := make([]byte, 8-m)
		if _, err := c.ReadAt(part1, 1); err != nil {
			t.Fatalf("ReadAt part1 (m=%d): %v", m, err)
		}
		if _, err := c.ReadAt(part2, int64(1+m)); err != nil {
			t.Fatalf("ReadAt part2 (m=%d): %v", m, err)
		}
		got := append(append([]byte{}, part1...), part2...)
		if string(got) != string(whole) {
			t.Fatalf("split at m=%d: got %q, want %q", m, got, whole)
		}
	}
}

func TestConcat_SeekAndRead(t *testing.T) {
	t.Parallel()
	f1 := &byteSource{data: []byte("HELLO")}
	f2 := &byteSource{data: []byte("WORLD")}
	c := view.NewConcat(f1, f2)
	if _, err := c.Seek(3, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	buf := make([]byte, 5)
	n, err := c.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "LOWOR" {
		t.Fatalf("Read = %q, want %q", buf[:n], "LOWOR")
	}
}
