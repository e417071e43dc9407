package anim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/hpgl2tek/internal/transform"
)

// Drawing is one participant of an animation: a plotter file, its base
// transform, a visibility window and optional movement.
type Drawing struct {
	Name  string
	File  string // resolved path of the plotter file
	Spec  string // base transform commands, !-separated
	Lines string // extra raw line segments, appended untransformed

	// Visibility window as fractions of the animation duration, both ends
	// inclusive.
	Start float64
	End   float64

	Path  *Path  // overrides the base position
	Rose  *Rose  // added on top
	Blink *Blink // visibility predicate within the window

	// Base position taken from the x/y commands of Spec
	origX, origY float64
	// Spec with the x/y commands removed, ready to take a new position
	stripped string
}

// resolveOrigin pulls the base position out of the transform commands. A
// spec without x/y commands means the drawing sits at its fitted position,
// origin zero.
func (d *Drawing) resolveOrigin() error {
	_, opts, err := transform.ParseSpec(d.Spec)
	if err != nil {
		return fmt.Errorf("drawing %q: %w", d.Name, err)
	}
	d.origX = opts.ShiftX
	d.origY = opts.ShiftY

	var kept []string
	for _, c := range strings.Split(d.Spec, "!") {
		c = strings.TrimSpace(c)
		if c == "" || c[0] == 'x' || c[0] == 'y' {
			continue
		}
		kept = append(kept, c)
	}
	d.stripped = strings.Join(kept, "!")
	return nil
}

// visible reports whether the drawing shows at animation fraction tRel and
// absolute time tAbs.
func (d *Drawing) visible(tAbs, tRel float64) bool {
	if tRel < d.Start || tRel > d.End {
		return false
	}
	return d.Blink == nil || d.Blink.At(tAbs)
}

// specAt returns the transform commands positioning the drawing at absolute
// time tAbs / animation fraction tRel. When the drawing has not moved from
// its base position the original spec comes back untouched.
func (d *Drawing) specAt(tAbs, tRel float64) (string, error) {
	if tRel < d.Start || tRel > d.End {
		return "", fmt.Errorf("drawing %q asked for position outside its window [%g, %g]: %g",
			d.Name, d.Start, d.End, tRel)
	}

	x, y := d.origX, d.origY
	if d.Path != nil {
		span := d.End - d.Start
		u := 0.0
		if span > 0 {
			u = (tRel - d.Start) / span
		}
		pt := d.Path.At(u)
		x, y = pt.X, pt.Y
	}
	if d.Rose != nil {
		dx, dy := d.Rose.At(tAbs)
		x += dx
		y += dy
	}
	if x == d.origX && y == d.origY {
		return d.Spec, nil
	}
	spec := d.stripped
	pos := "x" + strconv.FormatFloat(x, 'g', -1, 64) +
		"!y" + strconv.FormatFloat(y, 'g', -1, 64)
	if spec == "" {
		return pos, nil
	}
	return spec + "!" + pos, nil
}
