// Package raster renders stroke sets into bitmap frames: green traces on a
// black background, the way the storage tube phosphor looks.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
)

// Frame dimensions. The visible plotting area is 1024x780 terminal units and
// the bitmap maps them 1:1.
const (
	Width  = 1024
	Height = 780
)

var trace = image.NewUniform(color.RGBA{G: 255, A: 255})

// point maps terminal coordinates to bitmap space: pixel centers, Y flipped
// so that terminal origin (bottom left) lands at the bottom of the image.
func point(p hpgl.Point) (float32, float32) {
	return float32(p.X + 0.5), float32(Height - 0.5 - p.Y)
}

// fillSegment adds a one-pixel-wide quad along the segment, extended half a
// pixel past each endpoint so that joints and caps close up.
func fillSegment(r *vector.Rasterizer, a, b hpgl.Point) {
	ax, ay := point(a)
	bx, by := point(b)

	dx, dy := bx-ax, by-ay
	d := float32(0)
	if dx != 0 || dy != 0 {
		d = 1 / float32(math.Hypot(float64(dx), float64(dy)))
	}
	// Unit direction and normal, scaled to half width
	ux, uy := dx*d*0.5, dy*d*0.5
	nx, ny := -uy, ux

	r.MoveTo(ax-ux+nx, ay-uy+ny)
	r.LineTo(bx+ux+nx, by+uy+ny)
	r.LineTo(bx+ux-nx, by+uy-ny)
	r.LineTo(ax-ux-nx, ay-uy-ny)
	r.ClosePath()
}

// fillDot adds a one-pixel square for a single-point stroke.
func fillDot(r *vector.Rasterizer, p hpgl.Point) {
	x, y := point(p)
	r.MoveTo(x-0.5, y-0.5)
	r.LineTo(x+0.5, y-0.5)
	r.LineTo(x+0.5, y+0.5)
	r.LineTo(x-0.5, y+0.5)
	r.ClosePath()
}

// Render draws strokes into dst, which must be Width x Height. The background
// is painted black first, so dst can be reused between frames.
func Render(dst *image.RGBA, strokes hpgl.Strokes) {
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	r := vector.NewRasterizer(Width, Height)
	r.DrawOp = draw.Over
	for _, stroke := range strokes {
		if len(stroke) == 1 {
			fillDot(r, stroke[0])
			continue
		}
		for i := 1; i < len(stroke); i++ {
			fillSegment(r, stroke[i-1], stroke[i])
		}
	}
	r.Draw(dst, dst.Bounds(), trace, image.Point{})
}

// NewFrame allocates a frame-sized RGBA image.
func NewFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, Width, Height))
}

// EncodePNG renders strokes and writes the frame as PNG.
func EncodePNG(w io.Writer, strokes hpgl.Strokes) error {
	dst := NewFrame()
	Render(dst, strokes)
	return png.Encode(w, dst)
}
