package anim

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
	"github.com/ivlev/hpgl2tek/internal/transform"
)

func TestBlinkCycle(t *testing.T) {
	b := Blink{On: 1.1, Off: 2.2, TOffset: 0.5}

	cases := []struct {
		t    float64
		want bool
	}{
		{0, true},    // 0.5 into the on phase
		{1.0, false}, // 1.5 is past on=1.1
		{3.3, true},  // full cycle later, back to 0.5
	}
	for _, c := range cases {
		if got := b.At(c.t); got != c.want {
			t.Errorf("At(%g) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestBlinkNegativeOffset(t *testing.T) {
	b := Blink{On: 0.5, Off: 1.5, TOffset: -0.9}

	cases := []struct {
		t    float64
		want bool
	}{
		{0, false},   // phase -0.9 folds to 1.1, inside the off phase
		{0.9, true},  // cycle start
		{1.3, true},  // 0.4 into the on phase
		{1.5, false}, // 0.6 is past on=0.5
	}
	for _, c := range cases {
		if got := b.At(c.t); got != c.want {
			t.Errorf("At(%g) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestRoseAt(t *testing.T) {
	r := NewRose()
	r.K = 1
	r.Nu = 1

	// t=0: radius cos(0)=1, angle 0
	dx, dy := r.At(0)
	if math.Abs(dx-1) > 1e-9 || math.Abs(dy) > 1e-9 {
		t.Errorf("At(0) = (%g, %g), want (1, 0)", dx, dy)
	}

	// t=1: radius cos(1), angle 1 rad
	dx, dy = r.At(1)
	wantX := math.Cos(1) * math.Cos(1)
	wantY := math.Cos(1) * math.Sin(1)
	if math.Abs(dx-wantX) > 1e-9 || math.Abs(dy-wantY) > 1e-9 {
		t.Errorf("At(1) = (%g, %g), want (%g, %g)", dx, dy, wantX, wantY)
	}
}

func TestRoseStretchAndRotate(t *testing.T) {
	r := NewRose()
	r.K = 1
	r.Nu = 1
	r.StretchX = 2
	r.Rotate = math.Pi / 2 // the (2, 0) start swings to (0, 2)

	dx, dy := r.At(0)
	if math.Abs(dx) > 1e-9 || math.Abs(dy-2) > 1e-9 {
		t.Errorf("At(0) = (%g, %g), want (0, 2)", dx, dy)
	}
}

func TestRoseTimeOffset(t *testing.T) {
	r := NewRose()
	r.K = 3
	r.Nu = 0.7

	shifted := r
	shifted.TOffset = 1

	ax, ay := shifted.At(0)
	bx, by := r.At(1)
	if math.Abs(ax-bx) > 1e-9 || math.Abs(ay-by) > 1e-9 {
		t.Errorf("TOffset=1 At(0) = (%g, %g), want At(1) = (%g, %g)", ax, ay, bx, by)
	}
}

func TestDrawingSpecAt(t *testing.T) {
	d := &Drawing{Name: "d", Spec: "fh!x100!y200", Start: 0, End: 1}
	if err := d.resolveOrigin(); err != nil {
		t.Fatalf("resolveOrigin failed: %v", err)
	}

	// Not moved: the original spec comes back verbatim
	spec, err := d.specAt(0, 0)
	if err != nil {
		t.Fatalf("specAt failed: %v", err)
	}
	if spec != "fh!x100!y200" {
		t.Errorf("Unmoved drawing should keep its spec, got %q", spec)
	}

	// Perturbed: position commands are regenerated
	d.Rose = &Rose{StretchX: 5, StretchY: 1} // constant (5, 0) at t=0
	spec, err = d.specAt(0, 0)
	if err != nil {
		t.Fatalf("specAt failed: %v", err)
	}
	if spec != "fh!x105!y200" {
		t.Errorf("Expected fh!x105!y200, got %q", spec)
	}
}

func TestDrawingSpecAtWindow(t *testing.T) {
	d := &Drawing{Name: "d", Start: 0.2, End: 0.8}
	if err := d.resolveOrigin(); err != nil {
		t.Fatalf("resolveOrigin failed: %v", err)
	}
	if _, err := d.specAt(0, 0.1); err == nil {
		t.Error("Position outside the window should be an error")
	}
	// Both window ends are inside
	if _, err := d.specAt(0, 0.2); err != nil {
		t.Errorf("Window start should be inside: %v", err)
	}
	if _, err := d.specAt(0, 0.8); err != nil {
		t.Errorf("Window end should be inside: %v", err)
	}
}

func TestDrawingRoseNegativeOffsetAllowed(t *testing.T) {
	d := &Drawing{Name: "d", Start: 0, End: 1}
	if err := d.resolveOrigin(); err != nil {
		t.Fatalf("resolveOrigin failed: %v", err)
	}
	d.Rose = &Rose{K: 2, StretchX: 5, StretchY: 5}

	// cos(pi) = -1 pushes the drawing left of its anchor; the fitted
	// content may still be on screen, so this must not be an error.
	spec, err := d.specAt(math.Pi/2, 0.5)
	if err != nil {
		t.Fatalf("specAt failed: %v", err)
	}
	x, _, ok := parseShift(spec)
	if !ok {
		t.Fatalf("Expected position commands, got %q", spec)
	}
	if math.Abs(x+5) > 1e-6 {
		t.Errorf("Expected x = -5, got %g", x)
	}
}

func TestDrawingPathOverridesOrigin(t *testing.T) {
	d := &Drawing{Name: "d", Spec: "x1!y1", Start: 0, End: 1}
	if err := d.resolveOrigin(); err != nil {
		t.Fatalf("resolveOrigin failed: %v", err)
	}
	d.Path = NewPath([]hpgl.Point{{X: 100, Y: 100}, {X: 500, Y: 100}})

	spec, err := d.specAt(0, 0.5)
	if err != nil {
		t.Fatalf("specAt failed: %v", err)
	}
	x, y, ok := parseShift(spec)
	if !ok {
		t.Fatalf("Expected position commands, got %q", spec)
	}
	if math.Abs(x-300) > 1e-6 || math.Abs(y-100) > 1e-6 {
		t.Errorf("Expected path midpoint (300, 100), got (%g, %g)", x, y)
	}
}

// parseShift pulls the x and y command values out of a transform spec.
func parseShift(spec string) (x, y float64, ok bool) {
	_, opts, err := transform.ParseSpec(spec)
	if err != nil {
		return 0, 0, false
	}
	return opts.ShiftX, opts.ShiftY, true
}

func TestApplyOriginShift(t *testing.T) {
	strokes := hpgl.Strokes{{{X: 1000, Y: 400}, {X: 950, Y: 769}}}

	a := &Animation{ShiftX: -50, ShiftY: 10}
	out, err := a.applyOriginShift(strokes, 0)
	if err != nil {
		t.Fatalf("applyOriginShift failed: %v", err)
	}
	if out[0][0] != (hpgl.Point{X: 950, Y: 410}) || out[0][1] != (hpgl.Point{X: 900, Y: 779}) {
		t.Errorf("Shifted strokes wrong: %v", out)
	}
	// The input must stay untouched
	if strokes[0][0] != (hpgl.Point{X: 1000, Y: 400}) {
		t.Errorf("Input strokes mutated: %v", strokes)
	}
}

func TestApplyOriginShiftOffScreen(t *testing.T) {
	a := &Animation{ShiftX: 100}
	strokes := hpgl.Strokes{{{X: 1000, Y: 400}, {X: 950, Y: 769}}}

	_, err := a.applyOriginShift(strokes, 1.5)
	var shiftErr *OriginShiftError
	if !errors.As(err, &shiftErr) {
		t.Fatalf("Expected OriginShiftError, got %v", err)
	}
	if shiftErr.X != 1100 || shiftErr.T != 1.5 {
		t.Errorf("Error details wrong: %+v", shiftErr)
	}
	if !strings.Contains(shiftErr.Error(), "off screen") {
		t.Errorf("Error text should say off screen: %v", shiftErr)
	}
}

func TestApplyOriginShiftZeroStillChecks(t *testing.T) {
	var a Animation
	_, err := a.applyOriginShift(hpgl.Strokes{{{X: -1, Y: 5}}}, 0)
	var shiftErr *OriginShiftError
	if !errors.As(err, &shiftErr) {
		t.Fatalf("Expected OriginShiftError at zero shift, got %v", err)
	}
}

func TestRetryPolicyDeterministic(t *testing.T) {
	a := NewRetryPolicy("scene.yaml")
	b := NewRetryPolicy("scene.yaml")

	for i := 0; i < 20; i++ {
		ax, ay := a.NextShift()
		bx, by := b.NextShift()
		if ax != bx || ay != by {
			t.Fatalf("Shift %d diverged: (%g, %g) vs (%g, %g)", i, ax, ay, bx, by)
		}
		if ax < -4 || ax > 4 || ay < -4 || ay > 4 {
			t.Errorf("Shift %d out of range: (%g, %g)", i, ax, ay)
		}
	}
}
