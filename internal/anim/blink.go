package anim

import "math"

// Blink hides a drawing periodically: visible for On seconds, then hidden
// for Off seconds, starting the cycle TOffset seconds in.
type Blink struct {
	On      float64
	Off     float64
	TOffset float64
}

// At reports whether the drawing is visible at absolute time t. A negative
// offset puts t+TOffset before the cycle start; math.Mod keeps the sign, so
// the phase is folded back into [0, period).
func (b Blink) At(t float64) bool {
	period := b.On + b.Off
	phase := math.Mod(t+b.TOffset, period)
	if phase < 0 {
		phase += period
	}
	return phase < b.On
}
