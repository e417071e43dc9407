package anim

import "math"

// Rose perturbs a drawing's position along a rose curve: the radius follows
// cos(k·t) while the angle advances at Nu radians per second, the whole
// figure optionally stretched and rotated. Amplitude comes from the stretch
// factors (screen units).
type Rose struct {
	K        float64 // radial frequency, multiplies time
	Nu       float64 // angular velocity, radians per second
	StretchX float64 // horizontal amplitude
	StretchY float64 // vertical amplitude
	Rotate   float64 // rotation of the whole figure, radians
	TOffset  float64 // phase offset, seconds
}

// NewRose returns a rose with neutral stretch. K and Nu default to zero, so
// the caller has to set at least those for any movement to happen.
func NewRose() Rose {
	return Rose{StretchX: 1, StretchY: 1}
}

// At returns the perturbation at absolute time t. Both rotated components
// read the same pre-rotation dx/dy.
func (r Rose) At(t float64) (float64, float64) {
	tt := t + r.TOffset
	rad := math.Cos(r.K * tt)
	theta := r.Nu * tt
	dx := rad * math.Cos(theta) * r.StretchX
	dy := rad * math.Sin(theta) * r.StretchY
	if r.Rotate == 0 {
		return dx, dy
	}
	sin, cos := math.Sincos(r.Rotate)
	return dx*cos - dy*sin, dx*sin + dy*cos
}
