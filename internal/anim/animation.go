package anim

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
	"github.com/ivlev/hpgl2tek/internal/transform"
)

// OriginShiftError reports a frame point that would land outside the
// compact encoding's range after the origin shift. Rendering can usually be
// saved by shifting the whole animation's origin a little and trying again.
type OriginShiftError struct {
	X, Y float64
	T    float64
}

func (e *OriginShiftError) Error() string {
	return fmt.Sprintf("point off screen at t=%.3fs (%.1f, %.1f)", e.T, e.X, e.Y)
}

// Animation is a scene of drawings sampled over time.
type Animation struct {
	Name     string
	FPS      float64
	Duration float64 // seconds

	// Origin shift applied to every point of every rendered tape frame;
	// the retry loop adjusts it when frames land off screen.
	ShiftX float64
	ShiftY float64

	drawings map[string]*Drawing
	order    []string // document order of the scene file
}

// Drawing returns a drawing by section name.
func (a *Animation) Drawing(name string) *Drawing {
	return a.drawings[name]
}

// FrameCount is the number of frames a full render produces: [0, Duration)
// sampled at 1/FPS intervals.
func (a *Animation) FrameCount() int {
	return int(a.FPS * a.Duration)
}

// At samples the scene at absolute time t: every drawing visible at that
// moment is parsed, positioned and fitted to the screen, in scene file order
// (later sections draw on top on a storage tube, i.e. not at all — but order
// still fixes the beam travel).
func (a *Animation) At(t float64) (hpgl.Strokes, error) {
	if t < 0 || t > a.Duration {
		return nil, fmt.Errorf("time %gs outside the animation [0, %gs]", t, a.Duration)
	}
	tRel := 0.0
	if a.Duration > 0 {
		tRel = t / a.Duration
	}

	var (
		files []io.Reader
		specs []string
		lines []string
	)
	defer func() {
		for _, f := range files {
			if c, ok := f.(io.Closer); ok {
				c.Close()
			}
		}
	}()

	for _, name := range a.order {
		d := a.drawings[name]
		if !d.visible(t, tRel) {
			continue
		}
		spec, err := d.specAt(t, tRel)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(d.File)
		if err != nil {
			return nil, fmt.Errorf("drawing %q: %w", name, err)
		}
		specs = append(specs, fmt.Sprintf("%d:%s", len(files), spec))
		files = append(files, f)
		if d.Lines != "" {
			lines = append(lines, d.Lines)
		}
	}

	return transform.Gather(files, strings.Join(specs, ","), strings.Join(lines, ","))
}

// applyOriginShift moves every point of a frame, extra line segments
// included, by the animation's origin shift. Every resulting coordinate must
// stay inside the compact encoding's 10-bit range: anything outside would
// wrap silently on tape, so it comes back as a retryable OriginShiftError
// instead. The check runs even at zero shift.
func (a *Animation) applyOriginShift(strokes hpgl.Strokes, t float64) (hpgl.Strokes, error) {
	out := make(hpgl.Strokes, len(strokes))
	for i, stroke := range strokes {
		s := make(hpgl.Stroke, len(stroke))
		for j, pt := range stroke {
			x, y := pt.X+a.ShiftX, pt.Y+a.ShiftY
			if x < 0 || x > 1023 || y < 0 || y > 1023 {
				return nil, &OriginShiftError{X: x, Y: y, T: t}
			}
			s[j] = hpgl.Point{X: x, Y: y}
		}
		out[i] = s
	}
	return out, nil
}
