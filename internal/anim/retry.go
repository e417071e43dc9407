package anim

import (
	"hash/fnv"
	"math/rand"
)

// RetryPolicy decides how rendering reacts to an OriginShiftError: shove the
// whole animation's origin by a small random amount and try again, up to a
// bounded number of attempts. The generator is seeded from the scene name,
// so reruns of the same scene walk the same shift sequence.
type RetryPolicy struct {
	MaxAttempts int
	ShiftRange  int // shifts are drawn from [-ShiftRange, ShiftRange]

	rng *rand.Rand
}

func NewRetryPolicy(sceneName string) *RetryPolicy {
	h := fnv.New64a()
	h.Write([]byte(sceneName))
	return &RetryPolicy{
		MaxAttempts: 50,
		ShiftRange:  4,
		rng:         rand.New(rand.NewSource(int64(h.Sum64()))),
	}
}

// NextShift draws the origin shift for the next attempt.
func (p *RetryPolicy) NextShift() (float64, float64) {
	span := 2*p.ShiftRange + 1
	return float64(p.rng.Intn(span) - p.ShiftRange),
		float64(p.rng.Intn(span) - p.ShiftRange)
}
