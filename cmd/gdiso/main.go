// Command gdiso reads a SEGA Dreamcast GD-ROM .gdi image, lists its
// filesystem, and extracts files, the boot sector, and a sorttxt
// ordering file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcisotools/gdiso"
)

const volumeLabelPlaceholder = "__volume_label__"

var (
	inputFile  = flag.String("i", "", "input .gdi path (required)")
	listFiles  bool
	outDir     = flag.String("o", ".", "base output directory")
	sortFile   = flag.String("s", "", "emit a sorttxt ordering file to this path")
	bootFile   = flag.String("b", "", "emit the boot sector image to this path")
	extractOne = flag.String("e", "", "extract a single filesystem path")
	extractAll bool
	dataFolder = flag.String("data-folder", "", "prefix for sorttxt / extraction subdir (\""+volumeLabelPlaceholder+"\" uses the PVD volume label)")
	sortSpacer = flag.Int("sort-spacer", 1, "sorttxt rank increment")
	silent     bool
)

func init() {
	flag.BoolVar(&listFiles, "l", false, "print every filesystem path")
	flag.BoolVar(&listFiles, "list", false, "print every filesystem path")
	flag.BoolVar(&extractAll, "extract-all", false, "extract every file")
	flag.BoolVar(&silent, "silent", false, "minimal output")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i <disc.gdi> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads a GD-ROM .gdi image and extracts its ISO9660 contents.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i disc.gdi -l\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i disc.gdi -o out --extract-all\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i disc.gdi -b ip.bin -s sorttxt.txt\n", os.Args[0])
	}

	if len(os.Args) == 1 {
		flag.Usage()
		os.Exit(2)
	}
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required (-i)\n")
		flag.Usage()
		os.Exit(2)
	}

	disc, err := gdiso.Open(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *inputFile, err)
		os.Exit(1)
	}
	defer func() { _ = disc.Close() }()

	folder := *dataFolder
	if folder == volumeLabelPlaceholder {
		folder = disc.VolumeLabel()
	}

	if listFiles {
		if err := runList(disc); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing volume: %v\n", err)
			os.Exit(1)
		}
	}

	if *sortFile != "" {
		if err := runSortTxt(disc, folder); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating sorttxt: %v\n", err)
			os.Exit(1)
		}
	}

	if *bootFile != "" {
		if err := disc.DumpBootSector(*bootFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping boot sector: %v\n", err)
			os.Exit(1)
		}
		if !silent {
			fmt.Printf("wrote boot sector to %s\n", *bootFile)
		}
	}

	if *extractOne != "" {
		target := filepath.Join(*outDir, folder)
		if err := disc.ExtractFile(*extractOne, target, true); err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting %s: %v\n", *extractOne, err)
			os.Exit(1)
		}
		if !silent {
			fmt.Printf("extracted %s to %s\n", *extractOne, target)
		}
	}

	if extractAll {
		target := filepath.Join(*outDir, folder)
		if err := disc.ExtractAll(target, true, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting all files: %v\n", err)
			os.Exit(1)
		}
		if !silent {
			fmt.Printf("extracted all files to %s\n", target)
		}
	}
}

func runList(disc *gdiso.Disc) error {
	names, err := disc.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runSortTxt(disc *gdiso.Disc, folder string) error {
	prefix := ""
	if folder != "" {
		prefix = folder + "/"
	}
	out, err := disc.SortTxt("extent_lba", prefix, "", *sortSpacer)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*sortFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *sortFile, err)
	}
	if !silent {
		fmt.Printf("wrote sorttxt to %s\n", *sortFile)
	}
	return nil
}
