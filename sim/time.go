package sim

import (
	"log"
	"math"
	"time"
)

// VTime is a point on the simulated time line, measured from the start of the
// simulation.
type VTime time.Duration

// Add returns the time d after t.
func (t VTime) Add(d time.Duration) VTime {
	return t + VTime(d)
}

// Sub returns the time elapsed between u and t.
func (t VTime) Sub(u VTime) time.Duration {
	return time.Duration(t - u)
}

// Milliseconds returns t as an integer millisecond count.
func (t VTime) Milliseconds() int64 {
	return time.Duration(t).Milliseconds()
}

func (t VTime) String() string {
	return time.Duration(t).String()
}

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// Scale multiplies a time quantum by a speed factor. The result is rounded to
// the nearest nanosecond so that repeated ticks stay deterministic.
func Scale(quantum time.Duration, factor float64) time.Duration {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		log.Panicf("invalid scale factor %f", factor)
	}

	return time.Duration(math.Round(float64(quantum) * factor))
}
