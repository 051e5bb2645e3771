package extract_test

import (
	"testing"

	"github.com/dcisotools/gdiso/extract"
	"github.com/dcisotools/gdiso/iso9660"
)

func fileRecord(name string, lba, length uint32) iso9660.Record {
	return iso9660.Record{Name: name, ExtentLBA: lba, ExtentLength: length}
}

func dirRecord(name string, lba uint32) iso9660.Record {
	return iso9660.Record{Name: name, ExtentLBA: lba, Flags: 0x02}
}

func TestSortTxt_S4(t *testing.T) {
	t.Parallel()
	records := []iso9660.Record{
		fileRecord("FILE_AT_400", 400, 10),
		fileRecord("FILE_AT_100", 100, 10),
		fileRecord("FILE_AT_300", 300, 10),
		fileRecord("FILE_AT_200", 200, 10),
	}
	got, err := extract.SortTxt(records, "ex_loc", "game/", "0.0", 2)
	if err != nil {
		t.Fatalf("SortTxt: %v", err)
	}
	want := "game/FILE_AT_100 2\r\n" +
		"game/FILE_AT_200 4\r\n" +
		"game/FILE_AT_300 6\r\n" +
		"game/FILE_AT_400 8\r\n" +
		"game/0.0 10\r\n"
	if got != want {
		t.Errorf("SortTxt =\n%q\nwant\n%q", got, want)
	}
}

func TestSortTxt_UppercaseDescends(t *testing.T) {
	t.Parallel()
	records := []iso9660.Record{
		fileRecord("A", 100, 10),
		fileRecord("B", 200, 10),
		fileRecord("C", 300, 10),
	}
	got, err := extract.SortTxt(records, "EX_LOC", "", "", 1)
	if err != nil {
		t.Fatalf("SortTxt: %v", err)
	}
	want := "C 1\r\nB 2\r\nA 3\r\n"
	if got != want {
		t.Errorf("SortTxt =\n%q\nwant\n%q", got, want)
	}
}

func TestSortTxt_NoDummy(t *testing.T) {
	t.Parallel()
	records := []iso9660.Record{fileRecord("A", 100, 10)}
	got, err := extract.SortTxt(records, "ex_loc", "", "", 1)
	if err != nil {
		t.Fatalf("SortTxt: %v", err)
	}
	if got != "A 1\r\n" {
		t.Errorf("SortTxt = %q, want %q", got, "A 1\r\n")
	}
}

func TestSortTxt_ExcludesDirectories(t *testing.T) {
	t.Parallel()
	records := []iso9660.Record{
		dirRecord("SUBDIR", 50),
		fileRecord("A", 100, 10),
	}
	got, err := extract.SortTxt(records, "ex_loc", "", "", 1)
	if err != nil {
		t.Fatalf("SortTxt: %v", err)
	}
	if got != "A 1\r\n" {
		t.Errorf("SortTxt = %q, want only file A", got)
	}
}

func TestSortTxt_ByName(t *testing.T) {
	t.Parallel()
	records := []iso9660.Record{
		fileRecord("ZEBRA", 100, 10),
		fileRecord("APPLE", 200, 5),
	}
	got, err := extract.SortTxt(records, "name", "", "", 1)
	if err != nil {
		t.Fatalf("SortTxt: %v", err)
	}
	if got != "APPLE 1\r\nZEBRA 2\r\n" {
		t.Errorf("SortTxt = %q", got)
	}
}

func TestSortTxt_ByExtentLength(t *testing.T) {
	t.Parallel()
	records := []iso9660.Record{
		fileRecord("BIG", 100, 1000),
		fileRecord("SMALL", 200, 10),
	}
	got, err := extract.SortTxt(records, "ex_len", "", "", 1)
	if err != nil {
		t.Fatalf("SortTxt: %v", err)
	}
	if got != "SMALL 1\r\nBIG 2\r\n" {
		t.Errorf("SortTxt = %q", got)
	}
}

func TestSortTxt_UnrecognizedCriterion(t *testing.T) {
	t.Parallel()
	_, err := extract.SortTxt(nil, "bogus", "", "", 1)
	if err == nil {
		t.Fatal("expected error for unrecognized criterion")
	}
}

func TestSortTxt_EmptyCriterion(t *testing.T) {
	t.Parallel()
	_, err := extract.SortTxt(nil, "", "", "", 1)
	if err == nil {
		t.Fatal("expected error for empty criterion")
	}
}
