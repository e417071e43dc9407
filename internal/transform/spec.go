package transform

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
)

// ParseSpec parses a transform specification string: !-separated commands
// (fh, fv, r<deg>, s<factor>, x<amount>, y<amount>), with multiple
// ,-separated command groups. A group prefixed with "N:" applies to the N-th
// input file only; an unprefixed group applies to all files. A scoped group
// starts from a snapshot of the unscoped options accumulated so far, so later
// unscoped commands do not reach into already-scoped groups.
//
// An unrecognised command is an error naming the offending token.
func ParseSpec(spec string) (map[int]Options, Options, error) {
	perFile := make(map[int]Options)
	common := DefaultOptions()

	for _, group := range strings.Split(spec, ",") {
		group = strings.TrimSpace(group)
		commands := group
		scoped := false
		fileIndex := 0

		if i := strings.Index(group, ":"); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(group[:i]))
			if err != nil {
				return nil, Options{}, fmt.Errorf("error parsing transformations: bad file index %q", group[:i])
			}
			scoped = true
			fileIndex = n
			commands = group[i+1:]
		}

		opts := common
		for _, command := range strings.Split(commands, "!") {
			command = strings.TrimSpace(command)
			switch {
			case command == "":
				continue
			case command == "fh":
				opts.FlipHorizontal = true
			case command == "fv":
				opts.FlipVertical = true
			case strings.HasPrefix(command, "s"):
				v, err := strconv.ParseFloat(command[1:], 64)
				if err != nil {
					return nil, Options{}, fmt.Errorf("error parsing transformations: bad command %q", command)
				}
				opts.Scale = v
			case strings.HasPrefix(command, "r"):
				v, err := strconv.ParseFloat(command[1:], 64)
				if err != nil {
					return nil, Options{}, fmt.Errorf("error parsing transformations: bad command %q", command)
				}
				opts.Rotate = v
			case strings.HasPrefix(command, "x"):
				v, err := strconv.ParseFloat(command[1:], 64)
				if err != nil {
					return nil, Options{}, fmt.Errorf("error parsing transformations: bad command %q", command)
				}
				opts.ShiftX = v
			case strings.HasPrefix(command, "y"):
				v, err := strconv.ParseFloat(command[1:], 64)
				if err != nil {
					return nil, Options{}, fmt.Errorf("error parsing transformations: bad command %q", command)
				}
				opts.ShiftY = v
			default:
				return nil, Options{}, fmt.Errorf("unrecognised transformation command %q", command)
			}
		}

		if scoped {
			perFile[fileIndex] = opts
		} else {
			common = opts
		}
	}
	return perFile, common, nil
}

// Gather collects and transforms strokes from every input. Each input is
// parsed as plotter text and fitted to the screen with its options from spec.
// Extra raw line segments ("x1!y1!x2!y2" tuples, comma-separated) are
// appended untouched by any transform.
func Gather(files []io.Reader, spec, lines string) (hpgl.Strokes, error) {
	perFile, common, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}

	var all hpgl.Strokes
	for i, f := range files {
		opts, ok := perFile[i]
		if !ok {
			opts = common
		}
		strokes, err := hpgl.Parse(f)
		if err != nil {
			return nil, err
		}
		strokes, err = Apply(strokes, Screen, opts)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		all = append(all, strokes...)
	}

	for _, l := range strings.Split(strings.TrimSpace(lines), ",") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		parts := strings.Split(l, "!")
		if len(parts) != 4 {
			return nil, fmt.Errorf("bad extra line %q: want x1!y1!x2!y2", l)
		}
		vals := make([]float64, 4)
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("bad extra line %q: %w", l, err)
			}
			vals[i] = v
		}
		all = append(all, hpgl.Stroke{
			{X: vals[0], Y: vals[1]},
			{X: vals[2], Y: vals[3]},
		})
	}
	return all, nil
}
