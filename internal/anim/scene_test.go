package anim

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/hpgl2tek/internal/tape"
)

const squareHPGL = "PU;PA0,0;PD;PA10,0,10,10,0,10,0,0;PU\n"
const zigzagHPGL = "PU;PA0,0;PD;PA5,8;PD;PA10,0;PU\n"

func writeScene(t *testing.T, scene string) *Animation {
	t.Helper()
	dir := t.TempDir()
	for name, data := range map[string]string{
		"square.hpgl": squareHPGL,
		"zigzag.hpgl": zigzagHPGL,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	a, err := ReadScene(strings.NewReader(scene), dir, "test.yaml")
	if err != nil {
		t.Fatalf("ReadScene failed: %v", err)
	}
	return a
}

const twoWindowScene = `
animation:
  fps: 10
  duration: 10
square:
  file: square.hpgl
  start: 0
  end: 0.5
zigzag:
  file: zigzag.hpgl
  start: 0.5
  end: 1
`

func TestAnimationWindows(t *testing.T) {
	a := writeScene(t, twoWindowScene)

	// [0, 10s) at 10 fps
	if a.FrameCount() != 100 {
		t.Errorf("Expected 100 frames, got %d", a.FrameCount())
	}

	// square is one stroke, zigzag is one stroke
	cases := []struct {
		t       float64
		strokes int
	}{
		{0, 1},    // square only
		{2.5, 1},  // square only
		{5, 2},    // boundary: windows are inclusive at both ends
		{7.5, 1},  // zigzag only
		{10, 1},   // zigzag only, end inclusive
	}
	for _, c := range cases {
		strokes, err := a.At(c.t)
		if err != nil {
			t.Errorf("At(%g) failed: %v", c.t, err)
			continue
		}
		if len(strokes) != c.strokes {
			t.Errorf("At(%g): expected %d strokes, got %d", c.t, c.strokes, len(strokes))
		}
	}

	if _, err := a.At(-0.1); err == nil {
		t.Error("Negative time should be rejected")
	}
	if _, err := a.At(10.1); err == nil {
		t.Error("Time past the duration should be rejected")
	}
}

func TestReadSceneValidation(t *testing.T) {
	cases := map[string]string{
		"no header":       "square:\n  file: square.hpgl\n",
		"no drawings":     "animation:\n  fps: 10\n  duration: 5\n",
		"missing fps":     "animation:\n  duration: 5\nsquare:\n  file: square.hpgl\n",
		"missing file":    "animation:\n  fps: 10\n  duration: 5\nsquare:\n  start: 0\n",
		"window backward": "animation:\n  fps: 10\n  duration: 5\nsquare:\n  file: square.hpgl\n  start: 0.8\n  end: 0.2\n",
		"window past 1":   "animation:\n  fps: 10\n  duration: 5\nsquare:\n  file: square.hpgl\n  end: 1.5\n",
		"bad transform":   "animation:\n  fps: 10\n  duration: 5\nsquare:\n  file: square.hpgl\n  transform: qq\n",
		"bad blink":       "animation:\n  fps: 10\n  duration: 5\nsquare:\n  file: square.hpgl\n  blink: fast\n",
		"short path":      "animation:\n  fps: 10\n  duration: 5\nsquare:\n  file: square.hpgl\n  path: 1,2\n",
	}
	for name, scene := range cases {
		if _, err := ReadScene(strings.NewReader(scene), ".", name); err == nil {
			t.Errorf("Scene %q should be rejected", name)
		}
	}
}

func TestReadSceneMovement(t *testing.T) {
	a := writeScene(t, `
animation:
  fps: 10
  duration: 2
square:
  file: square.hpgl
  transform: s0.2!x500!y400
  path: 100,100 500,100 500,400
  rose: k3 nu0.5 sx20 sy10 r45 dt0.1
  blink: 0.5,0.5
`)
	d := a.Drawing("square")
	if d == nil {
		t.Fatal("Drawing missing")
	}
	if d.Path == nil || d.Rose == nil || d.Blink == nil {
		t.Fatal("Movement sections not parsed")
	}
	if d.Rose.K != 3 || d.Rose.Nu != 0.5 || d.Rose.StretchX != 20 || d.Rose.StretchY != 10 || d.Rose.TOffset != 0.1 {
		t.Errorf("Rose parsed wrong: %+v", d.Rose)
	}
	if d.Rose.Rotate == 45 {
		t.Error("Rose rotation should be converted to radians")
	}
	if d.Blink.On != 0.5 || d.Blink.Off != 0.5 {
		t.Errorf("Blink parsed wrong: %+v", d.Blink)
	}
}

func TestRenderR12ZipArchive(t *testing.T) {
	a := writeScene(t, `
animation:
  fps: 10
  duration: 1
square:
  file: square.hpgl
`)

	var buf bytes.Buffer
	if err := a.RenderR12Zip(&buf, 1, 0, nil); err != nil {
		t.Fatalf("RenderR12Zip failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Archive unreadable: %v", err)
	}
	// player + 10 frames
	if len(zr.File) != 11 {
		t.Fatalf("Expected 11 entries, got %d", len(zr.File))
	}
	frames, err := tape.Frames(zr)
	if err != nil {
		t.Fatalf("Frames failed: %v", err)
	}
	if len(frames) != a.FrameCount() {
		t.Errorf("Expected %d frame entries, got %d", a.FrameCount(), len(frames))
	}
	// A static scene renders identical frames
	if frames[0].UncompressedSize64 != frames[9].UncompressedSize64 {
		t.Errorf("Static frames should be the same size: %d vs %d",
			frames[0].UncompressedSize64, frames[9].UncompressedSize64)
	}
}

func TestRenderR12ZipShiftedRecovers(t *testing.T) {
	// A path that strays just past the right edge: plain rendering fails, a
	// small negative origin shift saves it
	a := writeScene(t, `
animation:
  fps: 2
  duration: 1
square:
  file: square.hpgl
  transform: s0.05
  path: 500,400 508,400
`)

	var plain bytes.Buffer
	if err := a.RenderR12Zip(&plain, 1, 0, nil); err == nil {
		t.Fatal("Expected the stray path to fail")
	}

	policy := NewRetryPolicy("test.yaml")
	policy.MaxAttempts = 200
	var buf bytes.Buffer
	if err := a.RenderR12ZipShifted(&buf, 1, 0, nil, policy); err != nil {
		t.Fatalf("RenderR12ZipShifted failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Recovered render should produce an archive")
	}
}
