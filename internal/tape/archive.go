// Package tape packages framed drawing data into Flash Drive archives: ZIP
// files whose entries use the fixed-width tape file naming scheme, holding a
// BASIC player program plus one binary data entry per image or frame.
package tape

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// Entry is the information embedded in a Flash Drive filename.
type Entry struct {
	Number int    // tape file number
	Type   string // usually ASCII, BINARY or LAST
	Name   string // usually starts with PROG or DATA
	Size   int    // duplicated byte length of the file
}

// BuildName formats the Flash Drive's fixed-width file naming scheme: a
// 7-character left-justified file number, an 8-character file type, a
// 21-character content name, one space, then the decimal byte length. The
// length is part of the name, so replacing a file with different contents
// means deleting the old entry first or the drive keeps both.
func BuildName(number int, typ, name string, size int) (string, error) {
	if number < 1 || size < 0 {
		return "", fmt.Errorf("tape file number must be positive and size non-negative (got %d, %d)", number, size)
	}
	return fmt.Sprintf("%-7d%-8s%-21s %d", number, typ, name, size), nil
}

// The name field is matched non-greedily to give the fixed-width columns a
// bit of slack; hand-built archives do not always align exactly.
var nameRe = regexp.MustCompile(`^(\d+)\s+([A-Z]+)\s+(.*?)\s+(\d+)$`)

// ParseName decodes a Flash Drive filename into its parts.
func ParseName(filename string) (Entry, error) {
	m := nameRe.FindStringSubmatch(filename)
	if m == nil {
		return Entry{}, fmt.Errorf("filename %q does not follow the Flash Drive naming scheme", filename)
	}
	number, _ := strconv.Atoi(m[1])
	size, _ := strconv.Atoi(m[4])
	return Entry{Number: number, Type: m[2], Name: m[3], Size: size}, nil
}

// writeEntry stores data under name without compression; the Flash Drive
// reads archive members directly and cannot inflate.
func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteStillArchive writes a two-entry archive for a single still image: the
// BASIC program that draws it (tape file fileNumber) and the framed image
// data (tape file fileNumber+1).
func WriteStillArchive(w io.Writer, fileNumber int, image []byte) error {
	basic := StillPlayer(fileNumber)

	nameBasic, err := BuildName(fileNumber, "ASCII",
		fmt.Sprintf("PROG Draw image %-3d", fileNumber+1), len(basic))
	if err != nil {
		return err
	}
	nameImage, err := BuildName(fileNumber+1, "BINARY",
		fmt.Sprintf("DATA Image %-3d", fileNumber+1), len(image))
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	if err := writeEntry(zw, nameBasic, basic); err != nil {
		return err
	}
	if err := writeEntry(zw, nameImage, image); err != nil {
		return err
	}
	return zw.Close()
}

// AnimationWriter incrementally builds an animation archive: the player
// program first, then one framed data entry per frame.
type AnimationWriter struct {
	zw         *zip.Writer
	fileNumber int
	frame      int
}

// NewAnimationWriter writes the player program entry and returns a writer
// ready to accept frames. fileNumber is the tape file number of the player;
// frames follow at fileNumber+1, fileNumber+2, and so on.
func NewAnimationWriter(w io.Writer, fileNumber, numFrames int, automateDelay float64) (*AnimationWriter, error) {
	basic := AnimationPlayer(fileNumber, numFrames, automateDelay)
	name, err := BuildName(fileNumber, "ASCII", playerEntryName, len(basic))
	if err != nil {
		return nil, err
	}
	zw := zip.NewWriter(w)
	if err := writeEntry(zw, name, basic); err != nil {
		return nil, err
	}
	return &AnimationWriter{zw: zw, fileNumber: fileNumber}, nil
}

// WriteFrame appends one frame's framed record data to the archive.
func (a *AnimationWriter) WriteFrame(image []byte) error {
	k := a.fileNumber + a.frame + 1
	name, err := BuildName(k, "BINARY",
		fmt.Sprintf("DATA Frame %-5d", a.frame), len(image))
	if err != nil {
		return err
	}
	a.frame++
	return writeEntry(a.zw, name, image)
}

// Close finishes the archive.
func (a *AnimationWriter) Close() error {
	return a.zw.Close()
}
