package dining

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sarchlab/diningsim/sim"
)

// ErrInvalidConfig is returned when a configuration cannot describe a table.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultEventLogCapacity is the number of events kept before the oldest ones
// are evicted.
const DefaultEventLogCapacity = 50

// Config holds the parameters of a table.
type Config struct {
	// PhilosopherCount is the number of philosophers, and forks, at the table.
	PhilosopherCount int `json:"philosopher_count"`

	// TimeToDie is the longest a philosopher may go without starting a meal.
	TimeToDie time.Duration `json:"time_to_die"`

	// TimeToEat is how long a meal lasts.
	TimeToEat time.Duration `json:"time_to_eat"`

	// TimeToSleep is how long a philosopher sleeps after eating.
	TimeToSleep time.Duration `json:"time_to_sleep"`

	// ThinkDelay is how long a philosopher thinks after waking up.
	ThinkDelay time.Duration `json:"think_delay"`

	// Quantum is the logical time advanced per tick at speed factor 1.
	Quantum time.Duration `json:"quantum"`

	// SpeedFactor scales the quantum. It speeds up or slows down every
	// duration uniformly without changing the tick frequency.
	SpeedFactor float64 `json:"speed_factor"`

	// MealsRequired ends the run once every philosopher has eaten that many
	// times. Zero means the run only ends by starvation.
	MealsRequired int `json:"meals_required"`

	// EventLogCapacity bounds the event log.
	EventLogCapacity int `json:"event_log_capacity"`
}

// DefaultConfig returns a five-philosopher table that does not starve.
func DefaultConfig() Config {
	return Config{
		PhilosopherCount: 5,
		TimeToDie:        800 * time.Millisecond,
		TimeToEat:        200 * time.Millisecond,
		TimeToSleep:      200 * time.Millisecond,
		ThinkDelay:       50 * time.Millisecond,
		Quantum:          50 * time.Millisecond,
		SpeedFactor:      1,
		EventLogCapacity: DefaultEventLogCapacity,
	}
}

// Validate reports the first field that makes the configuration unusable.
func (c Config) Validate() error {
	switch {
	case c.PhilosopherCount < 2:
		return invalid("philosopher count must be at least 2, got %d",
			c.PhilosopherCount)
	case c.TimeToDie <= 0:
		return invalid("time to die must be positive, got %s", c.TimeToDie)
	case c.TimeToEat <= 0:
		return invalid("time to eat must be positive, got %s", c.TimeToEat)
	case c.TimeToSleep < 0:
		return invalid("time to sleep must not be negative, got %s",
			c.TimeToSleep)
	case c.ThinkDelay < 0:
		return invalid("think delay must not be negative, got %s",
			c.ThinkDelay)
	case c.Quantum <= 0:
		return invalid("quantum must be positive, got %s", c.Quantum)
	case c.SpeedFactor <= 0 ||
		math.IsNaN(c.SpeedFactor) ||
		math.IsInf(c.SpeedFactor, 0):
		return invalid("speed factor must be a positive number, got %v",
			c.SpeedFactor)
	case c.MealsRequired < 0:
		return invalid("meals required must not be negative, got %d",
			c.MealsRequired)
	case c.EventLogCapacity < 1:
		return invalid("event log capacity must be positive, got %d",
			c.EventLogCapacity)
	case c.Advance() <= 0:
		return invalid("quantum %s scaled by %v rounds to zero",
			c.Quantum, c.SpeedFactor)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// Advance returns the logical time that one tick adds to the clock.
func (c Config) Advance() time.Duration {
	if c.SpeedFactor <= 0 ||
		math.IsNaN(c.SpeedFactor) ||
		math.IsInf(c.SpeedFactor, 0) {
		return 0
	}

	return sim.Scale(c.Quantum, c.SpeedFactor)
}

// ConfigUpdate is a partial configuration. Nil fields are left unchanged.
type ConfigUpdate struct {
	PhilosopherCount *int           `json:"philosopher_count,omitempty"`
	TimeToDie        *time.Duration `json:"time_to_die,omitempty"`
	TimeToEat        *time.Duration `json:"time_to_eat,omitempty"`
	TimeToSleep      *time.Duration `json:"time_to_sleep,omitempty"`
	ThinkDelay       *time.Duration `json:"think_delay,omitempty"`
	Quantum          *time.Duration `json:"quantum,omitempty"`
	SpeedFactor      *float64       `json:"speed_factor,omitempty"`
	MealsRequired    *int           `json:"meals_required,omitempty"`
	EventLogCapacity *int           `json:"event_log_capacity,omitempty"`
}

// Apply returns c with the non-nil fields of u applied.
func (c Config) Apply(u ConfigUpdate) Config {
	if u.PhilosopherCount != nil {
		c.PhilosopherCount = *u.PhilosopherCount
	}

	if u.TimeToDie != nil {
		c.TimeToDie = *u.TimeToDie
	}

	if u.TimeToEat != nil {
		c.TimeToEat = *u.TimeToEat
	}

	if u.TimeToSleep != nil {
		c.TimeToSleep = *u.TimeToSleep
	}

	if u.ThinkDelay != nil {
		c.ThinkDelay = *u.ThinkDelay
	}

	if u.Quantum != nil {
		c.Quantum = *u.Quantum
	}

	if u.SpeedFactor != nil {
		c.SpeedFactor = *u.SpeedFactor
	}

	if u.MealsRequired != nil {
		c.MealsRequired = *u.MealsRequired
	}

	if u.EventLogCapacity != nil {
		c.EventLogCapacity = *u.EventLogCapacity
	}

	return c
}

// ResizesTable tells if applying u to c changes the number of philosophers,
// which requires rebuilding the table.
func (u ConfigUpdate) ResizesTable(c Config) bool {
	return u.PhilosopherCount != nil &&
		*u.PhilosopherCount != c.PhilosopherCount
}
