// Package transform fits stroke sets into a target coordinate box and applies
// optional flips, rotation, scaling and displacement on top of the fit.
package transform

import (
	"fmt"
	"math"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
)

// Box is a target coordinate box given by two opposite corners: bottom-left
// and top-right.
type Box struct {
	BL, TR hpgl.Point
}

// Screen is the drawable area shared by the target terminals. The X limit is
// 1000 rather than 1023: at least one 4054A truncates the right edge of the
// picture if content goes all the way out.
var Screen = Box{TR: hpgl.Point{X: 1000, Y: 788}}

// Options selects the optional transforms applied after the fit. A zero
// Scale means no explicit scaling (as does 1).
type Options struct {
	FlipHorizontal bool
	FlipVertical   bool
	Rotate         float64 // degrees, anticlockwise
	Scale          float64
	ShiftX         float64
	ShiftY         float64
}

// DefaultOptions returns the identity option set.
func DefaultOptions() Options {
	return Options{Scale: 1}
}

// Apply returns a new stroke set fitted into box and further transformed per
// opts, with every coordinate rounded to the nearest integer.
//
// The fit scales the strokes' more narrowly-constrained dimension to stretch
// exactly across the box and centres the other dimension. Then, in fixed
// order: flips, rotation about the box midpoint, scaling about the same
// midpoint, explicit shift, rounding. Stages whose parameters are the
// identity are skipped; skipping never changes the result.
func Apply(strokes hpgl.Strokes, box Box, opts Options) (hpgl.Strokes, error) {
	screenDX := box.TR.X - box.BL.X
	screenDY := box.TR.Y - box.BL.Y
	if screenDX == 0 || screenDY == 0 {
		return nil, fmt.Errorf("target box is degenerate: %gx%g", screenDX, screenDY)
	}

	// Find extreme stroke points.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	points := 0
	for _, stroke := range strokes {
		for _, pt := range stroke {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
			points++
		}
	}
	if points == 0 {
		return nil, fmt.Errorf("no points to transform")
	}
	strokeDX := maxX - minX
	strokeDY := maxY - minY
	if strokeDX == 0 {
		return nil, fmt.Errorf("drawing is degenerate: width is 0")
	}
	if strokeDY == 0 {
		return nil, fmt.Errorf("drawing is degenerate: height is 0")
	}

	// Compare the box and drawing aspect ratios to decide which dimension is
	// the more constraining one, then derive the fit scale and translation.
	var scale, xShift, yShift float64
	if math.Abs(screenDX*strokeDY/screenDY) > math.Abs(strokeDX) {
		scale = screenDY / strokeDY
		xShift = box.BL.X + (screenDX-scale*strokeDX)/2 - scale*minX
		yShift = box.BL.Y - scale*minY
	} else {
		scale = screenDX / strokeDX
		xShift = box.BL.X - scale*minX
		yShift = box.BL.Y + (screenDY-scale*strokeDY)/2 - scale*minY
	}

	// Flips negate a scale axis and mirror its shift about the box far edge.
	xScale, yScale := scale, scale
	if opts.FlipHorizontal {
		xScale = -xScale
		xShift = box.TR.X - xShift
	}
	if opts.FlipVertical {
		yScale = -yScale
		yShift = box.TR.Y - yShift
	}

	out := make(hpgl.Strokes, len(strokes))
	for i, stroke := range strokes {
		s := make(hpgl.Stroke, len(stroke))
		for j, pt := range stroke {
			s[j] = hpgl.Point{X: xScale*pt.X + xShift, Y: yScale*pt.Y + yShift}
		}
		out[i] = s
	}

	midX := (box.BL.X + box.TR.X) / 2
	midY := (box.BL.Y + box.TR.Y) / 2

	// Rotation can swing strokes out of the box, so rotating usually wants a
	// scale to go with it.
	if theta := opts.Rotate * math.Pi / 180; theta != 0 {
		sin, cos := math.Sin(theta), math.Cos(theta)
		for _, stroke := range out {
			for j, pt := range stroke {
				x, y := pt.X-midX, pt.Y-midY
				stroke[j] = hpgl.Point{X: cos*x - sin*y + midX, Y: sin*x + cos*y + midY}
			}
		}
	}

	if opts.Scale != 0 && opts.Scale != 1 {
		for _, stroke := range out {
			for j, pt := range stroke {
				stroke[j] = hpgl.Point{
					X: opts.Scale*(pt.X-midX) + midX,
					Y: opts.Scale*(pt.Y-midY) + midY,
				}
			}
		}
	}

	if opts.ShiftX != 0 || opts.ShiftY != 0 {
		for _, stroke := range out {
			for j, pt := range stroke {
				stroke[j] = hpgl.Point{X: pt.X + opts.ShiftX, Y: pt.Y + opts.ShiftY}
			}
		}
	}

	for _, stroke := range out {
		for j, pt := range stroke {
			stroke[j] = hpgl.Point{X: math.Round(pt.X), Y: math.Round(pt.Y)}
		}
	}
	return out, nil
}
