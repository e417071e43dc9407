// Package tek serializes stroke sets into Tektronix terminal command byte
// streams and frames them into tape records for cartridge storage.
package tek

import (
	"fmt"
	"math"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
)

// pointEncoder converts one point to device bytes. start marks the first
// point of a stroke (a beam reposition rather than a drawn segment).
type pointEncoder func(pt hpgl.Point, start bool) ([]byte, error)

// convertStrokes runs the shared stroke iteration: the first point of each
// stroke is encoded with the start flag, all following points without it. A
// single-point stroke repeats its point so that the device draws a dot.
func convertStrokes(strokes hpgl.Strokes, enc pointEncoder) ([]byte, error) {
	var out []byte
	for _, stroke := range strokes {
		b, err := enc(stroke[0], true)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)

		if len(stroke) == 1 {
			b, err := enc(stroke[0], false)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
			continue
		}
		for _, pt := range stroke[1:] {
			b, err := enc(pt, false)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// ToTek4010 converts strokes to Tek 4010 terminal line-drawing commands.
// Every point becomes four bytes (five with the leading GS marker for a
// stroke start): each 10-bit coordinate is split into a high and a low 5-bit
// group, and a 2-bit tag on each byte distinguishes high-Y, low-Y, high-X and
// low-X. The stream ends with a single US terminator byte.
//
// Coordinates outside [0, 1023] are an error: they mean upstream transforms
// have pushed content off the visible area.
func ToTek4010(strokes hpgl.Strokes) ([]byte, error) {
	out, err := convertStrokes(strokes, encode4010)
	if err != nil {
		return nil, err
	}
	return append(out, 0x1f), nil
}

func encode4010(pt hpgl.Point, start bool) ([]byte, error) {
	x := int(math.Round(pt.X))
	y := int(math.Round(pt.Y))
	if x < 0 || x > 1023 || y < 0 || y > 1023 {
		return nil, fmt.Errorf(
			"final output screen coordinates out of bounds: x=%d, y=%d; has "+
				"something been translated, scaled, or rotated so that part of "+
				"the drawing is positioned off screen?", x, y)
	}
	b := []byte{
		0x20 | byte(y>>5),   // high Y
		0x60 | byte(y&0x1f), // low Y
		0x20 | byte(x>>5),   // high X
		0x40 | byte(x&0x1f), // low X
	}
	if start {
		return append([]byte{0x1d}, b...), nil
	}
	return b, nil
}

// ToTek4050R12 converts strokes to the compact three-byte-per-point encoding
// used by the 4050-series R12 "fast graphics" cartridge. Byte 1 carries the
// move/draw flag and the top three bits of each coordinate; bytes 2 and 3
// carry the remaining seven bits each, tagged with a leading zero bit. There
// is no terminator; framing is the tape record layer's job.
func ToTek4050R12(strokes hpgl.Strokes) ([]byte, error) {
	return convertStrokes(strokes, encode4050R12)
}

func encode4050R12(pt hpgl.Point, start bool) ([]byte, error) {
	x := int(math.Round(pt.X)) & 0x3ff
	y := int(math.Round(pt.Y)) & 0x3ff
	var move byte
	if start {
		move = 0x40
	}
	return []byte{
		move | byte(x>>7)<<3 | byte(y>>7),
		byte(x & 0x7f),
		byte(y & 0x7f),
	}, nil
}
