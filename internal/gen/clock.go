package gen

import (
	"math/rand"
	"time"
)

// Clock advance bounds per emitted line.
const (
	minStepMS = 10
	maxStepMS = 5000
)

// seededBase anchors the simulated clock for seeded runs, so the same seed
// reproduces the same bytes regardless of when the run happens.
var seededBase = time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)

// clock is the simulated timestamp used to stamp generated lines. It only
// ever moves forward.
type clock struct {
	now time.Time
}

// newClock starts the clock at base minus a random 1-24 hour offset.
func newClock(rng *rand.Rand, base time.Time) *clock {
	offset := time.Duration(intIn(rng, 1, 24)) * time.Hour
	return &clock{now: base.Add(-offset)}
}

// advance moves the clock forward by a random 10-5000 ms delta.
func (c *clock) advance(rng *rand.Rand) {
	step := time.Duration(intIn(rng, minStepMS, maxStepMS)) * time.Millisecond
	c.now = c.now.Add(step)
}
