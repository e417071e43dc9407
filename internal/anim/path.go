// Package anim composes timed animations from plotter drawings: each drawing
// gets a visibility window and optional movement along a Bezier path, a rose
// curve perturbation and a blink cycle, and the whole scene is sampled frame
// by frame.
package anim

import (
	"math"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
)

// pathSegments is the resolution of the arc-length table. A hundred linear
// pieces is well under a terminal unit of error for on-screen curves.
const pathSegments = 100

// Path moves a drawing along a Bezier curve at constant speed. The control
// points are in screen units; the curve is resampled into equal arc-length
// steps so that position is linear in travelled distance, not in the curve
// parameter.
type Path struct {
	pts []hpgl.Point
}

// NewPath builds a constant-speed path over the Bezier curve defined by the
// control points (any degree, de Casteljau evaluation).
func NewPath(control []hpgl.Point) *Path {
	// Oversample the curve, then walk the cumulative length to pick
	// equally spaced points.
	samples := make([]hpgl.Point, 3*pathSegments+1)
	for i := range samples {
		samples[i] = bezierAt(control, float64(i)/float64(3*pathSegments))
	}
	cum := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		cum[i] = cum[i-1] + math.Hypot(samples[i].X-samples[i-1].X, samples[i].Y-samples[i-1].Y)
	}
	total := cum[len(cum)-1]

	pts := make([]hpgl.Point, pathSegments+1)
	if total == 0 {
		// Все контрольные точки совпадают
		for i := range pts {
			pts[i] = samples[0]
		}
		return &Path{pts: pts}
	}

	pts[0] = samples[0]
	pts[pathSegments] = samples[len(samples)-1]
	j := 0
	for i := 1; i < pathSegments; i++ {
		want := total * float64(i) / pathSegments
		for j < len(cum)-2 && cum[j+1] < want {
			j++
		}
		span := cum[j+1] - cum[j]
		f := 0.0
		if span > 0 {
			f = (want - cum[j]) / span
		}
		pts[i] = hpgl.Point{
			X: samples[j].X + (samples[j+1].X-samples[j].X)*f,
			Y: samples[j].Y + (samples[j+1].Y-samples[j].Y)*f,
		}
	}
	return &Path{pts: pts}
}

// At returns the position after travelling fraction u of the path length.
// u is clamped to [0, 1].
func (p *Path) At(u float64) hpgl.Point {
	if u <= 0 {
		return p.pts[0]
	}
	if u >= 1 {
		return p.pts[len(p.pts)-1]
	}
	f := u * float64(len(p.pts)-1)
	i := int(f)
	frac := f - float64(i)
	a, b := p.pts[i], p.pts[i+1]
	return hpgl.Point{X: a.X + (b.X-a.X)*frac, Y: a.Y + (b.Y-a.Y)*frac}
}

func bezierAt(control []hpgl.Point, t float64) hpgl.Point {
	tmp := make([]hpgl.Point, len(control))
	copy(tmp, control)
	for n := len(tmp) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			tmp[i].X += (tmp[i+1].X - tmp[i].X) * t
			tmp[i].Y += (tmp[i+1].Y - tmp[i].Y) * t
		}
	}
	return tmp[0]
}
