package main

import (
	"fmt"
	"io"
	"os"

	"regionmap/internal/errors"
	"regionmap/internal/util"
)

// pmtilesMagic opens every PMTiles v3 archive
const pmtilesMagic = "PMTiles"

func runArchive(w io.Writer, source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return errors.Wrapf(err, "cannot stat %s", source)
	}
	if info.IsDir() {
		return errors.Errorf("%s is a directory", source)
	}

	file, err := os.Open(source)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", source)
	}
	defer file.Close()

	header := make([]byte, len(pmtilesMagic)+1)
	if _, err := io.ReadFull(file, header); err != nil {
		return errors.Wrap(err, "archive is too short")
	}
	if string(header[:len(pmtilesMagic)]) != pmtilesMagic {
		return errors.New("not a PMTiles archive")
	}

	checksum, err := util.CalculateFileChecksum(source)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "archive: %s\n", source)
	fmt.Fprintf(w, "  spec version: %d\n", header[len(pmtilesMagic)])
	fmt.Fprintf(w, "  size: %s\n", util.FormatBytes(info.Size()))
	fmt.Fprintf(w, "  sha256: %s\n", checksum)

	return nil
}
