package gdi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dcisotools/gdiso/gdi"
	"github.com/dcisotools/gdiso/sector"
)

func TestParseManifest_Valid(t *testing.T) {
	t.Parallel()
	const manifest = `4
1 0 4 2352 "track01.bin" 0
2 600 0 2352 "track02.raw" 0
3 45000 4 2048 "track03.iso" 0
4 50000 4 2352 "track04.bin" 0
`
	tracks, err := gdi.ParseManifest(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(tracks) != 4 {
		t.Fatalf("got %d tracks, want 4", len(tracks))
	}
	if tracks[2].StartLBA != 45000 {
		t.Errorf("track 3 start_lba = %d, want 45000", tracks[2].StartLBA)
	}
	if tracks[2].Mode != sector.Mode2048 {
		t.Errorf("track 3 mode = %v, want Mode2048", tracks[2].Mode)
	}
	if tracks[2].Filename != "track03.iso" {
		t.Errorf("track 3 filename = %q, want track03.iso", tracks[2].Filename)
	}
	if tracks[0].Mode != sector.Mode2352 {
		t.Errorf("track 1 mode = %v, want Mode2352", tracks[0].Mode)
	}
}

func TestParseManifest_IgnoresBlankLines(t *testing.T) {
	t.Parallel()
	const manifest = "\n3\n\n1 0 4 2352 track01.bin 0\n2 600 0 2352 track02.raw 0\n\n3 45000 4 2048 track03.iso 0\n\n"
	tracks, err := gdi.ParseManifest(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks, want 3", len(tracks))
	}
}

func TestParseManifest_CountMismatch(t *testing.T) {
	t.Parallel()
	const manifest = `2
1 0 4 2352 track01.bin 0
`
	_, err := gdi.ParseManifest(strings.NewReader(manifest))
	if !errors.Is(err, gdi.ErrInvalidGdi) {
		t.Fatalf("err = %v, want ErrInvalidGdi", err)
	}
}

func TestParseManifest_MalformedCountLine(t *testing.T) {
	t.Parallel()
	_, err := gdi.ParseManifest(strings.NewReader("not-a-number\n"))
	if !errors.Is(err, gdi.ErrInvalidGdi) {
		t.Fatalf("err = %v, want ErrInvalidGdi", err)
	}
}

func TestParseManifest_MalformedTrackLine(t *testing.T) {
	t.Parallel()
	_, err := gdi.ParseManifest(strings.NewReader("1\ntoo short\n"))
	if !errors.Is(err, gdi.ErrInvalidGdi) {
		t.Fatalf("err = %v, want ErrInvalidGdi", err)
	}
}

func TestParseManifest_UnrecognizedSectorMode(t *testing.T) {
	t.Parallel()
	_, err := gdi.ParseManifest(strings.NewReader("1\n1 0 4 9999 track01.bin 0\n"))
	if !errors.Is(err, gdi.ErrInvalidGdi) {
		t.Fatalf("err = %v, want ErrInvalidGdi", err)
	}
}

func TestParseManifest_QuotedFilename(t *testing.T) {
	t.Parallel()
	tracks, err := gdi.ParseManifest(strings.NewReader("1\n1 0 4 2352 \"track with spaces.bin\" 0\n"))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if tracks[0].Filename != "track with spaces.bin" {
		t.Errorf("filename = %q, want unquoted", tracks[0].Filename)
	}
}
