package tape

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

// MaxChunkFrames is the largest number of frames one chopped archive may
// hold. The Flash Drive directory handling slows down badly past a couple of
// hundred files, so long animations get split into chunks this size.
const MaxChunkFrames = 225

// FindPlayer returns the animation player program entry of an archive.
func FindPlayer(src *zip.Reader) (*zip.File, error) {
	for _, f := range src.File {
		e, err := ParseName(f.Name)
		if err != nil {
			continue
		}
		if e.Name == playerEntryName {
			return f, nil
		}
	}
	return nil, fmt.Errorf("archive has no %q entry", playerEntryName)
}

// Frames returns an archive's frame data entries sorted by tape file number.
func Frames(src *zip.Reader) ([]*zip.File, error) {
	type numbered struct {
		n int
		f *zip.File
	}
	var frames []numbered
	for _, f := range src.File {
		e, err := ParseName(f.Name)
		if err != nil {
			return nil, err
		}
		if e.Type == "BINARY" {
			frames = append(frames, numbered{e.Number, f})
		}
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].n < frames[j].n })
	out := make([]*zip.File, len(frames))
	for i, fr := range frames {
		out[i] = fr.f
	}
	return out, nil
}

var (
	letRe = regexp.MustCompile(`(\d+ LET F=)(\d+)`)
	cmpRe = regexp.MustCompile(`(\d+ IF F>)(\d+)( THE)`)
)

// PlayerBounds reads the frame range a player program walks: the first tape
// file number it reads and the last one. The program keeps the counter one
// behind the file it is about to read, hence the +1 on the LET line.
func PlayerBounds(program []byte) (first, final int, err error) {
	m := letRe.FindSubmatch(program)
	if m == nil {
		return 0, 0, fmt.Errorf("player program has no LET F= line")
	}
	n, _ := strconv.Atoi(string(m[2]))
	first = n + 1

	m = cmpRe.FindSubmatch(program)
	if m == nil {
		return 0, 0, fmt.Errorf("player program has no IF F> line")
	}
	final, _ = strconv.Atoi(string(m[2]))
	return first, final, nil
}

// SetPlayerBounds rewrites a player program to walk tape files first through
// final. Both lines must occur exactly once.
func SetPlayerBounds(program []byte, first, final int) ([]byte, error) {
	if n := len(letRe.FindAll(program, -1)); n != 1 {
		return nil, fmt.Errorf("player program has %d LET F= lines, want 1", n)
	}
	if n := len(cmpRe.FindAll(program, -1)); n != 1 {
		return nil, fmt.Errorf("player program has %d IF F> lines, want 1", n)
	}
	out := letRe.ReplaceAll(program, []byte("${1}"+strconv.Itoa(first-1)))
	out = cmpRe.ReplaceAll(out, []byte("${1}"+strconv.Itoa(final)+"${3}"))
	return out, nil
}

// ChunkSuffix names the i-th chunk: a, b, ..., z, aa, ab, ...
func ChunkSuffix(i int) string {
	s := ""
	for i++; i > 0; i /= 26 {
		i--
		s = string(rune('a'+i%26)) + s
	}
	return s
}

// WriteChunk writes one chopped archive: the player program, rewritten so
// that its bounds cover exactly the given frames, at tape file 1, then the
// frames renumbered from 2 with their content names kept.
func WriteChunk(w io.Writer, program []byte, frames []*zip.File) error {
	program, err := SetPlayerBounds(program, 2, len(frames)+1)
	if err != nil {
		return err
	}
	name, err := BuildName(1, "ASCII", playerEntryName, len(program))
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	if err := writeEntry(zw, name, program); err != nil {
		return err
	}
	for i, f := range frames {
		e, err := ParseName(f.Name)
		if err != nil {
			return err
		}
		name, err := BuildName(i+2, "BINARY", e.Name, e.Size)
		if err != nil {
			return err
		}
		r, err := f.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return err
		}
		if err := writeEntry(zw, name, data); err != nil {
			return err
		}
	}
	return zw.Close()
}
