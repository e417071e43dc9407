// Package hpgl reduces plotter command text to polyline strokes.
//
// Only the PU, PD, PA, PR and AA commands are handled. Unknown commands are
// ignored, as are statements whose arguments fail to parse as numbers.
package hpgl

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
)

// Point is an x,y coordinate pair in an abstract plane. It has no unit until
// the strokes containing it are transformed onto a screen.
type Point struct {
	X, Y float64
}

// Stroke is a sequence of points connected by straight lines when drawn.
// A stroke never has zero points; a single-point stroke renders as a dot.
type Stroke []Point

// Strokes is an ordered collection of strokes. Ordering affects rendering
// layering only.
type Strokes []Stroke

// Pen accumulates strokes from sequences of x,y arguments to plotter pen
// commands. Position and the down flag survive between statements so that a
// caller may carry pen state across multiple input files.
type Pen struct {
	strokes Strokes
	curr    Stroke
	Pos     Point
	Down    bool
}

// NewPen returns a pen at pos with the given up/down state and no strokes.
func NewPen(pos Point, down bool) *Pen {
	return &Pen{Pos: pos, Down: down}
}

// Flush saves the current stroke (if nonempty) and starts a new one. The new
// stroke begins at the current position if the pen is down.
func (p *Pen) Flush() {
	if len(p.curr) > 0 {
		p.strokes = append(p.strokes, p.curr)
	}
	if p.Down {
		p.curr = Stroke{p.Pos}
	} else {
		p.curr = nil
	}
}

// Strokes returns the strokes accumulated so far.
func (p *Pen) Strokes() Strokes { return p.strokes }

func (p *Pen) upMove(args []float64) {
	p.Down = false
	p.Flush()
	if len(args) >= 2 {
		p.Pos = Point{X: args[len(args)-2], Y: args[len(args)-1]}
	}
}

func (p *Pen) downMove(args []float64) {
	p.Down = true
	if len(p.curr) == 0 {
		p.curr = append(p.curr, p.Pos)
	}
	for i := 0; i+1 < len(args); i += 2 {
		p.curr = append(p.curr, Point{X: args[i], Y: args[i+1]})
	}
	p.Pos = p.curr[len(p.curr)-1]
}

func (p *Pen) eitherMove(args []float64) {
	if p.Down {
		p.downMove(args)
	} else {
		p.upMove(args)
	}
}

// eitherArc draws an arc around a centre point, sweeping anticlockwise by a
// signed angle in degrees. The sweep is subdivided into roughly 4° steps,
// each emitted through the up/down move dispatcher, but the final point is
// always the analytically computed endpoint so that the subdivision cannot
// drift away from it.
func (p *Pen) eitherArc(args []float64) {
	cx, cy := args[0], args[1]
	dtheta := args[2] * math.Pi / 180

	// Polar offset from the arc centre.
	dx, dy := p.Pos.X-cx, p.Pos.Y-cy
	radius := math.Hypot(dx, dy)
	theta := math.Atan2(dy, dx)

	fx := cx + radius*math.Cos(theta+dtheta)
	fy := cy + radius*math.Sin(theta+dtheta)

	steps := int(math.Ceil(math.Abs(args[2] / 4)))
	if steps < 1 {
		steps = 1
	}
	sdtheta := dtheta / float64(steps)
	for i := 1; i < steps-1; i++ {
		sx := cx + radius*math.Cos(theta+float64(i)*sdtheta)
		sy := cy + radius*math.Sin(theta+float64(i)*sdtheta)
		p.eitherMove([]float64{sx, sy})
	}
	p.eitherMove([]float64{fx, fy})
}

// ParseLine converts one line of plotter data (zero or more ;-separated
// statements) to strokes, starting from the given pen state. It returns the
// new strokes plus the resulting pen position and down flag.
func ParseLine(line string, pos Point, down bool) (Strokes, Point, bool) {
	pen := NewPen(pos, down)
	for _, statement := range strings.Split(line, ";") {
		statement = strings.TrimSpace(statement)
		if len(statement) < 2 {
			continue
		}
		op := statement[:2]
		args, ok := parseArgs(statement[2:])
		if !ok {
			continue // Skip statements with things that aren't numbers.
		}

		switch op {
		case "PU":
			pen.upMove(args)
		case "PD":
			pen.downMove(args)
		case "PA":
			pen.eitherMove(args)
		case "PR":
			// Relative positioning: add the deltas cyclically to the current
			// position, then dispatch as absolute.
			abs := make([]float64, len(args))
			for i, a := range args {
				if i%2 == 0 {
					abs[i] = a + pen.Pos.X
				} else {
					abs[i] = a + pen.Pos.Y
				}
			}
			pen.eitherMove(abs)
		case "AA":
			if len(args) >= 3 {
				pen.eitherArc(args)
			}
		}
	}

	// Done parsing. Close out any stroke underway.
	pen.Flush()
	return pen.Strokes(), pen.Pos, pen.Down
}

func parseArgs(s string) ([]float64, bool) {
	var args []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		args = append(args, v)
	}
	return args, true
}

// Parse reads a whole plotter file, starting from the origin with the pen up.
func Parse(r io.Reader) (Strokes, error) {
	var strokes Strokes
	pos := Point{}
	down := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var more Strokes
		more, pos, down = ParseLine(strings.TrimSpace(scanner.Text()), pos, down)
		strokes = append(strokes, more...)
	}
	return strokes, scanner.Err()
}
