package anim

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
)

// sceneSection is one top-level mapping of a scene file: either the
// "animation" header or a drawing.
type sceneSection struct {
	FPS      *float64 `yaml:"fps"`
	Duration *float64 `yaml:"duration"`

	File      string   `yaml:"file"`
	Transform string   `yaml:"transform"`
	Lines     string   `yaml:"lines"`
	Start     *float64 `yaml:"start"`
	End       *float64 `yaml:"end"`
	Path      string   `yaml:"path"`
	Rose      string   `yaml:"rose"`
	Blink     string   `yaml:"blink"`
}

// ReadScene parses a YAML scene description. One section must be named
// "animation" and carry fps and duration; every other section is a drawing.
// Drawing file paths are resolved relative to dir. Section order in the file
// is kept: it decides beam travel order within a frame.
//
// The scene is decoded through the document tree rather than a plain map,
// так как порядок секций в map теряется.
func ReadScene(r io.Reader, dir, name string) (*Animation, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("scene %s: top level must be a mapping of sections", name)
	}
	doc := root.Content[0]

	a := &Animation{Name: name, drawings: make(map[string]*Drawing)}
	seenHeader := false

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		var sec sceneSection
		if err := doc.Content[i+1].Decode(&sec); err != nil {
			return nil, fmt.Errorf("scene %s, section %q: %w", name, key, err)
		}

		if key == "animation" {
			if sec.FPS == nil || sec.Duration == nil {
				return nil, fmt.Errorf("scene %s: animation section needs fps and duration", name)
			}
			if *sec.FPS <= 0 || *sec.Duration <= 0 {
				return nil, fmt.Errorf("scene %s: fps and duration must be positive", name)
			}
			a.FPS = *sec.FPS
			a.Duration = *sec.Duration
			seenHeader = true
			continue
		}

		d, err := newDrawing(dir, key, sec)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", name, err)
		}
		if _, dup := a.drawings[key]; dup {
			return nil, fmt.Errorf("scene %s: duplicate section %q", name, key)
		}
		a.drawings[key] = d
		a.order = append(a.order, key)
	}

	if !seenHeader {
		return nil, fmt.Errorf("scene %s: no animation section", name)
	}
	if len(a.order) == 0 {
		return nil, fmt.Errorf("scene %s: no drawings", name)
	}
	return a, nil
}

func newDrawing(dir, name string, sec sceneSection) (*Drawing, error) {
	if sec.File == "" {
		return nil, fmt.Errorf("drawing %q has no file", name)
	}

	start, end := 0.0, 1.0
	if sec.Start != nil {
		start = *sec.Start
	}
	if sec.End != nil {
		end = *sec.End
	}
	if start < 0 || end > 1 || start > end {
		return nil, fmt.Errorf("drawing %q: window [%g, %g] must satisfy 0 <= start <= end <= 1",
			name, start, end)
	}

	d := &Drawing{
		Name:  name,
		File:  filepath.Join(dir, sec.File),
		Spec:  sec.Transform,
		Lines: sec.Lines,
		Start: start,
		End:   end,
	}
	if err := d.resolveOrigin(); err != nil {
		return nil, err
	}

	if sec.Path != "" {
		p, err := parsePath(sec.Path)
		if err != nil {
			return nil, fmt.Errorf("drawing %q: %w", name, err)
		}
		d.Path = p
	}
	if sec.Rose != "" {
		rose, err := parseRose(sec.Rose)
		if err != nil {
			return nil, fmt.Errorf("drawing %q: %w", name, err)
		}
		d.Rose = &rose
	}
	if sec.Blink != "" {
		blink, err := parseBlink(sec.Blink)
		if err != nil {
			return nil, fmt.Errorf("drawing %q: %w", name, err)
		}
		d.Blink = &blink
	}
	return d, nil
}

// parsePath reads whitespace-separated "x,y" control points.
func parsePath(s string) (*Path, error) {
	var pts []hpgl.Point
	for _, field := range strings.Fields(s) {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("bad path point %q: want x,y", field)
		}
		x, errX := strconv.ParseFloat(xy[0], 64)
		y, errY := strconv.ParseFloat(xy[1], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("bad path point %q", field)
		}
		pts = append(pts, hpgl.Point{X: x, Y: y})
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("path needs at least 2 control points, got %d", len(pts))
	}
	return NewPath(pts), nil
}

// parseRose reads whitespace-separated tokens: k<freq> nu<rad/s> sx<amp>
// sy<amp> r<deg> dt<s>. Rotation is given in degrees. Unknown tokens are
// skipped.
func parseRose(s string) (Rose, error) {
	r := NewRose()
	for _, tok := range strings.Fields(s) {
		var dst *float64
		var val string
		switch {
		case strings.HasPrefix(tok, "nu"):
			dst, val = &r.Nu, tok[2:]
		case strings.HasPrefix(tok, "sx"):
			dst, val = &r.StretchX, tok[2:]
		case strings.HasPrefix(tok, "sy"):
			dst, val = &r.StretchY, tok[2:]
		case strings.HasPrefix(tok, "dt"):
			dst, val = &r.TOffset, tok[2:]
		case strings.HasPrefix(tok, "k"):
			dst, val = &r.K, tok[1:]
		case strings.HasPrefix(tok, "r"):
			v, err := strconv.ParseFloat(tok[1:], 64)
			if err != nil {
				return r, fmt.Errorf("bad rose token %q", tok)
			}
			r.Rotate = v * math.Pi / 180
			continue
		default:
			continue
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return r, fmt.Errorf("bad rose token %q", tok)
		}
		*dst = v
	}
	return r, nil
}

// parseBlink reads "on,off" or "on,off,offset" in seconds.
func parseBlink(s string) (Blink, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return Blink{}, fmt.Errorf("bad blink %q: want on,off[,offset]", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Blink{}, fmt.Errorf("bad blink %q: %w", s, err)
		}
		vals[i] = v
	}
	b := Blink{On: vals[0], Off: vals[1]}
	if b.On <= 0 || b.Off < 0 {
		return Blink{}, fmt.Errorf("bad blink %q: on must be positive, off non-negative", s)
	}
	if len(vals) == 3 {
		b.TOffset = vals[2]
	}
	return b, nil
}
